package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ent0n29/taskboard/internal/session"
	"github.com/ent0n29/taskboard/internal/theme"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req session.CreateRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	initial := s.cfg.DefaultTheme
	if strings.TrimSpace(req.Theme) != "" {
		parsed, err := theme.Parse(req.Theme)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_theme", err.Error())
			return
		}
		initial = parsed
	}

	sess := s.createSession(initial)
	respondJSON(w, http.StatusCreated, s.sessionResponse(sess))
}

// handleGetSession lets a page find out whether its session is still live
// before reconnecting.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	respondJSON(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) sessionResponse(sess *session.Session) session.CreateResponse {
	return session.CreateResponse{
		SessionID:       sess.ID,
		Status:          sess.Status,
		Theme:           string(sess.Theme.Current()),
		StartedAt:       sess.StartedAt,
		LastActivityAt:  sess.LastActivityAt,
		InactivityTTLMS: s.sessions.InactivityTimeout().Milliseconds(),
	}
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}

	sess, err := s.sessions.End(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues("ended").Inc()
	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) createSession(initial theme.Theme) *session.Session {
	sess := s.sessions.Create(initial)
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues("created").Inc()
	return sess
}
