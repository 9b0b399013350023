// Package api exposes the operational HTTP surface of Charlie Bot: the Google
// OAuth login flow, health and auth status probes, and Prometheus metrics.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
)

// authLoginHandler redirects the operator to the Google consent screen.
func (s *Server) authLoginHandler(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		slog.Warn("Server.authLoginHandler: google auth not configured")
		writeJSONResponse(w, http.StatusServiceUnavailable, errorResponse("Google OAuth is not configured"))
		return
	}
	url := s.auth.AuthURL()
	slog.Debug("Server.authLoginHandler: redirecting to consent screen")
	http.Redirect(w, r, url, http.StatusFound)
}

// authCallbackHandler exchanges the authorization code Google appended to the
// redirect and persists the resulting token.
func (s *Server) authCallbackHandler(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, errorResponse("Google OAuth is not configured"))
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("Server.authCallbackHandler: missing code parameter")
		writeJSONResponse(w, http.StatusBadRequest, errorResponse("Missing authorization code"))
		return
	}
	if err := s.auth.Exchange(r.Context(), code); err != nil {
		slog.Error("Server.authCallbackHandler: code exchange failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, errorResponse("Failed to exchange authorization code"))
		return
	}
	slog.Info("Server.authCallbackHandler: calendar authorization completed")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<h1>✅ Autorización exitosa</h1><p>Charlie Bot ya puede agendar citas. Puedes cerrar esta pestaña.</p>")
}

// authStatusHandler reports whether the calendar collaborator holds a token.
func (s *Server) authStatusHandler(w http.ResponseWriter, r *http.Request) {
	authenticated := s.auth != nil && s.auth.IsAuthenticated()
	writeJSONResponse(w, http.StatusOK, successResponse(map[string]bool{"authenticated": authenticated}))
}

// healthHandler is the liveness probe.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, successResponse(map[string]any{
		"service":       "charlie-bot",
		"conversations": s.sessions.Len(),
	}))
}
