package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ent0n29/taskboard/internal/tasks"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeAddTask     MessageType = "add_task"
	TypeToggleTask  MessageType = "toggle_task"
	TypeDeleteTask  MessageType = "delete_task"
	TypeToggleTheme MessageType = "toggle_theme"

	TypeTasksSnapshot MessageType = "tasks_snapshot"
	TypeThemeSnapshot MessageType = "theme_snapshot"
	TypeErrorEvent    MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

type AddTask struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

type ToggleTask struct {
	Type   MessageType `json:"type"`
	TaskID int64       `json:"task_id"`
}

type DeleteTask struct {
	Type   MessageType `json:"type"`
	TaskID int64       `json:"task_id"`
}

type ToggleTheme struct {
	Type MessageType `json:"type"`
}

type TasksSnapshot struct {
	Type       MessageType  `json:"type"`
	SessionID  string       `json:"session_id"`
	Version    uint64       `json:"version"`
	Tasks      []tasks.Task `json:"tasks"`
	Total      int          `json:"total"`
	Completed  int          `json:"completed"`
	HeaderHTML string       `json:"header_html,omitempty"`
	ListHTML   string       `json:"list_html,omitempty"`
}

type ThemeSnapshot struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Theme     string      `json:"theme"`
}

type ErrorEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Detail    string      `json:"detail"`
}

// NewTasksSnapshot builds the outbound message for a store snapshot.
func NewTasksSnapshot(sessionID string, snap tasks.Snapshot) TasksSnapshot {
	list := snap.Tasks
	if list == nil {
		list = []tasks.Task{}
	}
	return TasksSnapshot{
		Type:      TypeTasksSnapshot,
		SessionID: sessionID,
		Version:   snap.Version,
		Tasks:     list,
		Total:     snap.Counts.Total,
		Completed: snap.Counts.Completed,
	}
}

func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeAddTask:
		var msg AddTask
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TypeToggleTask:
		var msg ToggleTask
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.TaskID <= 0 {
			return nil, errors.New("invalid toggle_task")
		}
		return msg, nil
	case TypeDeleteTask:
		var msg DeleteTask
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.TaskID <= 0 {
			return nil, errors.New("invalid delete_task")
		}
		return msg, nil
	case TypeToggleTheme:
		return ToggleTheme{Type: TypeToggleTheme}, nil
	default:
		return nil, ErrUnsupportedType
	}
}
