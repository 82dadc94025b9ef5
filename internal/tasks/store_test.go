package tasks

import (
	"reflect"
	"sync"
	"testing"
)

func TestStoreAddPreservesCallOrder(t *testing.T) {
	s := NewStore()
	inputs := []string{"buy milk", "", "walk dog", "   ", "\t\n", "call mom"}
	var want []string
	for _, in := range inputs {
		_, applied := s.Add(in)
		if applied {
			want = append(want, in)
		}
	}

	got := s.List()
	if len(got) != 3 {
		t.Fatalf("len(List()) = %d, want 3", len(got))
	}
	for i, task := range got {
		if task.Text != want[i] {
			t.Fatalf("task[%d].Text = %q, want %q", i, task.Text, want[i])
		}
		if task.Completed {
			t.Fatalf("task[%d].Completed = true, want false", i)
		}
	}
}

func TestStoreAddBlankIsNoop(t *testing.T) {
	s := NewStore()
	s.Add("keep")
	before := s.Snapshot()

	for _, in := range []string{"", "   "} {
		if _, applied := s.Add(in); applied {
			t.Fatalf("Add(%q) applied = true, want false", in)
		}
	}
	after := s.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("snapshot changed after blank adds: before=%+v after=%+v", before, after)
	}
}

func TestStoreIDsAreUniqueAndNeverReused(t *testing.T) {
	s := NewStore()
	a, _ := s.Add("a")
	b, _ := s.Add("b")
	s.Delete(b.ID)
	c, _ := s.Add("c")

	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Fatalf("ids not unique: a=%d b=%d c=%d", a.ID, b.ID, c.ID)
	}
	if c.ID <= b.ID {
		t.Fatalf("c.ID = %d, want greater than deleted id %d", c.ID, b.ID)
	}
}

func TestStoreToggleFlipsOnlyTarget(t *testing.T) {
	s := NewStore()
	a, _ := s.Add("a")
	b, _ := s.Add("b")
	c, _ := s.Add("c")

	if !s.Toggle(b.ID) {
		t.Fatalf("Toggle() applied = false, want true")
	}
	got := s.List()
	want := []Task{
		{ID: a.ID, Text: "a"},
		{ID: b.ID, Text: "b", Completed: true},
		{ID: c.ID, Text: "c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List() = %+v, want %+v", got, want)
	}

	s.Toggle(b.ID)
	got = s.List()
	if got[1].Completed {
		t.Fatalf("second toggle left task completed")
	}
}

func TestStoreToggleMissingIDIsNoop(t *testing.T) {
	s := NewStore()
	a, _ := s.Add("a")
	before := s.Snapshot()

	if s.Toggle(a.ID + 100) {
		t.Fatalf("Toggle(missing) applied = true, want false")
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatalf("snapshot changed after toggling missing id")
	}
}

func TestStoreDeleteKeepsRelativeOrder(t *testing.T) {
	s := NewStore()
	a, _ := s.Add("a")
	b, _ := s.Add("b")
	c, _ := s.Add("c")

	if s.Delete(999) {
		t.Fatalf("Delete(missing) applied = true, want false")
	}
	if n := len(s.List()); n != 3 {
		t.Fatalf("len after missing delete = %d, want 3", n)
	}

	if !s.Delete(b.ID) {
		t.Fatalf("Delete() applied = false, want true")
	}
	got := s.List()
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != c.ID {
		t.Fatalf("List() after delete = %+v, want [a c]", got)
	}
}

func TestStoreScenario(t *testing.T) {
	s := NewStore()
	task, applied := s.Add("buy milk")
	if !applied {
		t.Fatalf("Add() applied = false")
	}
	if got := s.Counts(); got != (Counts{Total: 1, Completed: 0}) {
		t.Fatalf("Counts() = %+v, want total 1 completed 0", got)
	}

	s.Toggle(task.ID)
	got, ok := s.Get(task.ID)
	if !ok || !got.Completed {
		t.Fatalf("Get() = %+v, %v; want completed task", got, ok)
	}
	if c := s.Counts(); c != (Counts{Total: 1, Completed: 1}) {
		t.Fatalf("Counts() = %+v, want total 1 completed 1", c)
	}

	s.Delete(task.ID)
	if n := len(s.List()); n != 0 {
		t.Fatalf("len(List()) = %d, want 0", n)
	}
	if c := s.Counts(); c != (Counts{}) {
		t.Fatalf("Counts() = %+v, want zero", c)
	}
}

func TestStoreListReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add("a")
	got := s.List()
	got[0].Text = "mutated"
	got[0].Completed = true

	if again := s.List(); again[0].Text != "a" || again[0].Completed {
		t.Fatalf("store mutated through List() result: %+v", again[0])
	}
}

func TestStoreSubscribeNotifiesAppliedMutations(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	defer cancel()

	task, _ := s.Add("a")
	snap := <-ch
	if snap.Counts.Total != 1 || snap.Version != 1 {
		t.Fatalf("snapshot = %+v, want total 1 version 1", snap)
	}

	s.Toggle(task.ID + 1)
	s.Delete(task.ID + 1)
	s.Add("  ")
	select {
	case extra := <-ch:
		t.Fatalf("unexpected notification for no-op: %+v", extra)
	default:
	}

	s.Toggle(task.ID)
	s.Add("b")
	snap = <-ch
	if snap.Version != 3 || snap.Counts != (Counts{Total: 2, Completed: 1}) {
		t.Fatalf("latest snapshot = %+v, want version 3 total 2 completed 1", snap)
	}
}

func TestStoreCancelStopsDelivery(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	cancel()
	s.Add("a")
	if _, ok := <-ch; ok {
		t.Fatalf("received on cancelled subscription")
	}
}

func TestStoreConcurrentAddsAssignDistinctIDs(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add("task")
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, task := range s.List() {
		if seen[task.ID] {
			t.Fatalf("duplicate id %d", task.ID)
		}
		seen[task.ID] = true
	}
	if len(seen) != 50 {
		t.Fatalf("len = %d, want 50", len(seen))
	}
}

func TestCountsOf(t *testing.T) {
	got := CountsOf([]Task{{ID: 1, Completed: true}, {ID: 2}, {ID: 3, Completed: true}})
	if got != (Counts{Total: 3, Completed: 2}) {
		t.Fatalf("CountsOf() = %+v, want total 3 completed 2", got)
	}
}
