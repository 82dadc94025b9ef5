package tasks

type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Counts is derived from a task collection and never stored.
type Counts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Snapshot is a consistent read of a store: the collection, its counts and
// the version produced by the mutation that led to it.
type Snapshot struct {
	Version uint64 `json:"version"`
	Tasks   []Task `json:"tasks"`
	Counts  Counts `json:"counts"`
}

func CountsOf(tasks []Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		}
	}
	return c
}
