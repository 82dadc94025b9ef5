package httpapi

import (
	"bytes"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ent0n29/taskboard/internal/session"
	"github.com/ent0n29/taskboard/internal/views"
)

// Opening an entry page always starts from empty state, mirroring a page load.
func (s *Server) handleNewTaskPage(w http.ResponseWriter, r *http.Request) {
	sess := s.createSession(s.cfg.DefaultTheme)
	http.Redirect(w, r, views.SessionBasePath(sess.ID)+"/tasks", http.StatusSeeOther)
}

func (s *Server) handleNewThemePage(w http.ResponseWriter, r *http.Request) {
	sess := s.createSession(s.cfg.DefaultTheme)
	http.Redirect(w, r, views.SessionBasePath(sess.ID)+"/theme", http.StatusSeeOther)
}

func (s *Server) handleTaskPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.uiSession(w, r, "/ui/tasks")
	if !ok {
		return
	}
	var buf bytes.Buffer
	page := views.NewTaskPage(sess.Tasks, sess.Theme, sess.ID)
	if err := page.Render(&buf); err != nil {
		log.Printf("render task page failed: session=%s err=%v", sess.ID, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) handleThemePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.uiSession(w, r, "/ui/theme")
	if !ok {
		return
	}
	var buf bytes.Buffer
	page := views.ThemePage{Store: sess.Theme, SessionID: sess.ID}
	if err := page.Render(&buf); err != nil {
		log.Printf("render theme page failed: session=%s err=%v", sess.ID, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) handleFormAddTask(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.uiSession(w, r, "/ui/tasks")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	// Blank input never reaches the store from the form.
	if text := r.PostFormValue("text"); strings.TrimSpace(text) != "" {
		_, applied := sess.Tasks.Add(text)
		s.metrics.ObserveTaskOperation("add", applied)
	}
	redirectToTasks(w, r, sess.ID)
}

func (s *Server) handleFormToggleTask(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.uiSession(w, r, "/ui/tasks")
	if !ok {
		return
	}
	if id, ok := formTaskID(r); ok {
		s.metrics.ObserveTaskOperation("toggle", sess.Tasks.Toggle(id))
	}
	redirectToTasks(w, r, sess.ID)
}

func (s *Server) handleFormDeleteTask(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.uiSession(w, r, "/ui/tasks")
	if !ok {
		return
	}
	if id, ok := formTaskID(r); ok {
		s.metrics.ObserveTaskOperation("delete", sess.Tasks.Delete(id))
	}
	redirectToTasks(w, r, sess.ID)
}

func (s *Server) handleFormToggleTheme(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.uiSession(w, r, "/ui/theme")
	if !ok {
		return
	}
	sess.Theme.Toggle()
	s.metrics.ThemeToggles.Inc()
	http.Redirect(w, r, views.SessionBasePath(sess.ID)+"/theme", http.StatusSeeOther)
}

// uiSession sends browsers holding an expired session link back to the
// given entry page instead of answering with a JSON error.
func (s *Server) uiSession(w http.ResponseWriter, r *http.Request, entry string) (*session.Session, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	sess, err := s.sessions.Get(id)
	if err != nil {
		http.Redirect(w, r, entry, http.StatusSeeOther)
		return nil, false
	}
	_ = s.sessions.Touch(id)
	return sess, true
}

// A malformed id is treated like an absent one.
func formTaskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "taskID")), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func redirectToTasks(w http.ResponseWriter, r *http.Request, sessionID string) {
	http.Redirect(w, r, views.SessionBasePath(sessionID)+"/tasks", http.StatusSeeOther)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
