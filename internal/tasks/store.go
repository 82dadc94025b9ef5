package tasks

import (
	"strings"
	"sync"
)

// Store owns a task collection. All mutations go through Add, Toggle and
// Delete; none of them fail, and ids that do not match a task are ignored.
type Store struct {
	mu      sync.RWMutex
	tasks   []Task
	nextID  int64
	version uint64

	subscribers map[int]chan Snapshot
	nextSubID   int
}

func NewStore() *Store {
	return &Store{
		tasks:       make([]Task, 0),
		subscribers: make(map[int]chan Snapshot),
	}
}

// Add appends a new incomplete task. Blank text is a no-op and reports
// applied=false.
func (s *Store) Add(text string) (Task, bool) {
	if strings.TrimSpace(text) == "" {
		return Task{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	task := Task{ID: s.nextID, Text: text}
	s.tasks = append(s.tasks, task)
	s.commitLocked()
	return task, true
}

func (s *Store) Toggle(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.commitLocked()
	return true
}

func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.commitLocked()
	return true
}

func (s *Store) Get(id int64) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) List() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CountsOf(s.tasks)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe delivers a snapshot after every applied mutation. Each
// subscriber holds at most one pending snapshot; a newer one replaces it.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
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

func (s *Store) indexLocked(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Version: s.version,
		Tasks:   cloneTasks(s.tasks),
		Counts:  CountsOf(s.tasks),
	}
}

func (s *Store) commitLocked() {
	s.version++
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Replace the stale pending snapshot.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func cloneTasks(in []Task) []Task {
	out := make([]Task, len(in))
	copy(out, in)
	return out
}
