package httpapi

import (
	"net/http"

	"github.com/ent0n29/taskboard/internal/tasks"
)

type addTaskRequest struct {
	Text string `json:"text"`
}

type taskListResponse struct {
	Version   uint64       `json:"version"`
	Tasks     []tasks.Task `json:"tasks"`
	Total     int          `json:"total"`
	Completed int          `json:"completed"`
}

type taskMutationResponse struct {
	Applied bool        `json:"applied"`
	Task    *tasks.Task `json:"task,omitempty"`
	taskListResponse
}

func newTaskListResponse(snap tasks.Snapshot) taskListResponse {
	list := snap.Tasks
	if list == nil {
		list = []tasks.Task{}
	}
	return taskListResponse{
		Version:   snap.Version,
		Tasks:     list,
		Total:     snap.Counts.Total,
		Completed: snap.Counts.Completed,
	}
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	respondJSON(w, http.StatusOK, newTaskListResponse(sess.Tasks.Snapshot()))
}

// handleAddTask answers 201 when a task was created and 200 when blank text
// was ignored.
func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	var req addTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	task, applied := sess.Tasks.Add(req.Text)
	s.metrics.ObserveTaskOperation("add", applied)
	resp := taskMutationResponse{
		Applied:          applied,
		taskListResponse: newTaskListResponse(sess.Tasks.Snapshot()),
	}
	status := http.StatusOK
	if applied {
		resp.Task = &task
		status = http.StatusCreated
	}
	respondJSON(w, status, resp)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	applied := sess.Tasks.Toggle(id)
	s.metrics.ObserveTaskOperation("toggle", applied)
	resp := taskMutationResponse{Applied: applied}
	if task, found := sess.Tasks.Get(id); found {
		resp.Task = &task
	}
	resp.taskListResponse = newTaskListResponse(sess.Tasks.Snapshot())
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	applied := sess.Tasks.Delete(id)
	s.metrics.ObserveTaskOperation("delete", applied)
	respondJSON(w, http.StatusOK, taskMutationResponse{
		Applied:          applied,
		taskListResponse: newTaskListResponse(sess.Tasks.Snapshot()),
	})
}
