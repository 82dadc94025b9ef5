package httpapi

import "net/http"

type themeResponse struct {
	Theme string `json:"theme"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	respondJSON(w, http.StatusOK, themeResponse{Theme: string(sess.Theme.Current())})
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	next := sess.Theme.Toggle()
	s.metrics.ThemeToggles.Inc()
	respondJSON(w, http.StatusOK, themeResponse{Theme: string(next)})
}
