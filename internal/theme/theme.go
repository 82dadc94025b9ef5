package theme

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

var ErrInvalidTheme = errors.New("invalid theme")

// Parse accepts a theme name case-insensitively.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("%w: %q (expected light|dark)", ErrInvalidTheme, s)
	}
}

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Store holds the current theme of one session and notifies subscribers
// whenever it changes.
type Store struct {
	mu      sync.RWMutex
	current Theme

	subscribers map[int]chan Theme
	nextSubID   int
}

func NewStore(initial Theme) *Store {
	if initial != Dark {
		initial = Light
	}
	return &Store{
		current:     initial,
		subscribers: make(map[int]chan Theme),
	}
}

func (s *Store) Current() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) Toggle() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.current.Toggled()
	s.publishLocked(s.current)
	return s.current
}

// Subscribe delivers the latest theme after every toggle. A subscriber that
// falls behind only sees the most recent value.
func (s *Store) Subscribe() (<-chan Theme, func()) {
	ch := make(chan Theme, 1)
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers[id] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(c)
		}
	}
}

func (s *Store) publishLocked(t Theme) {
	for _, ch := range s.subscribers {
		select {
		case ch <- t:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- t:
		default:
		}
	}
}
