package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ent0n29/taskboard/internal/theme"
)

func TestManagerCreateGetEnd(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create(theme.Dark)
	if s.ID == "" {
		t.Fatalf("session ID should not be empty")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != StatusActive || got.Theme.Current() != theme.Dark {
		t.Fatalf("unexpected session state: %+v theme=%q", got, got.Theme.Current())
	}
	if m.ActiveCount() != 1 {
		t.Fatalf("ActiveCount() = %d, want 1", m.ActiveCount())
	}

	ended, err := m.End(s.ID)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if ended.Status != StatusEnded {
		t.Fatalf("ended status = %q, want %q", ended.Status, StatusEnded)
	}
	if _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after End error = %v, want ErrNotFound", err)
	}
	if _, err := m.End(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second End() error = %v, want ErrNotFound", err)
	}
}

func TestManagerSessionsShareStoresAcrossGets(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create(theme.Light)
	s.Tasks.Add("buy milk")

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if n := len(got.Tasks.List()); n != 1 {
		t.Fatalf("len(Tasks.List()) = %d, want 1", n)
	}

	other := m.Create(theme.Light)
	if n := len(other.Tasks.List()); n != 0 {
		t.Fatalf("new session has %d tasks, want 0", n)
	}
}

func TestManagerTouchUnknown(t *testing.T) {
	m := NewManager(time.Minute)
	if err := m.Touch("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Touch() error = %v, want ErrNotFound", err)
	}
}

func TestManagerJanitorExpiresInactive(t *testing.T) {
	m := NewManager(30 * time.Millisecond)
	var expired atomic.Int32
	m.SetExpireHook(func(s *Session) {
		if s.Status == StatusEnded {
			expired.Add(1)
		}
	})
	s := m.Create(theme.Light)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartJanitor(ctx, 10*time.Millisecond)

	time.Sleep(90 * time.Millisecond)
	if _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
	if expired.Load() != 1 {
		t.Fatalf("expire hook calls = %d, want 1", expired.Load())
	}
}

func TestManagerEndClosesDone(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create(theme.Light)

	select {
	case <-s.Done():
		t.Fatalf("Done() closed for an active session")
	default:
	}

	if _, err := m.End(s.ID); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	select {
	case <-s.Done():
	default:
		t.Fatalf("Done() still open after End")
	}
}

func TestManagerExpiryClosesDone(t *testing.T) {
	m := NewManager(time.Millisecond)
	s := m.Create(theme.Light)
	time.Sleep(5 * time.Millisecond)

	m.expireInactive()
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatalf("Done() still open after expiry")
	}
}
