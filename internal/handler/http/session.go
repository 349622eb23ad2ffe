package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/identity"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/session"
	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/httputil"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/logger"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/middleware"
)

// Sessions creates, resolves and forgets sessions.
type Sessions interface {
	SessionLookup
	Create(ctx context.Context) (*session.Session, error)
	Remove(id string)
}

// SessionHandler serves the session lifecycle endpoints.
type SessionHandler struct {
	sessions Sessions
	logger   *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions Sessions, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// loginRequest is the body of POST /session/login. The token is the one the
// remote API issued; user fields default to the token subject.
type loginRequest struct {
	Token string        `json:"token" validate:"required,jwt"`
	User  identity.User `json:"user"`
}

// Create handles POST /api/v1/session.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Create(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.Header().Set(middleware.SessionHeader, s.ID)
	httputil.WriteData(w, http.StatusCreated, newSessionView(s))
}

// Get handles GET /api/v1/session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, newSessionView(s))
}

// Delete handles DELETE /api/v1/session. The guest mirror outlives the
// in-memory session until its TTL.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	h.sessions.Remove(s.ID)
	w.WriteHeader(http.StatusNoContent)
}

// Login handles POST /api/v1/session/login.
//
// A rejected token leaves the identity untouched and answers with the error.
// Once the identity has switched, engine failures during the hand-over are
// reported as warnings next to the new state rather than as a failure.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())

	var req loginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	err := s.Identity.Login(r.Context(), req.Token, req.User)
	if rejected(err) {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	view := newSessionView(s)
	if err != nil {
		logger.FromContext(r.Context()).WarnContext(r.Context(), "login sync incomplete",
			slog.String("error", err.Error()),
		)
		view.Warnings = warnings(err)
	}
	httputil.WriteData(w, http.StatusOK, view)
}

// Logout handles POST /api/v1/session/logout. Logging out an anonymous
// session succeeds without effect.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())

	err := s.Identity.Logout(r.Context())
	view := newSessionView(s)
	if err != nil {
		logger.FromContext(r.Context()).WarnContext(r.Context(), "logout sync incomplete",
			slog.String("error", err.Error()),
		)
		view.Warnings = warnings(err)
	}
	httputil.WriteData(w, http.StatusOK, view)
}

// rejected reports whether Login refused the token itself.
func rejected(err error) bool {
	return errors.Is(err, apperrors.ErrInvalidInput) || errors.Is(err, apperrors.ErrUnauthorized)
}

// warnings flattens a joined listener error into client-safe messages.
func warnings(err error) []string {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	out := make([]string, 0, len(errs))
	for _, e := range errs {
		var appErr *apperrors.AppError
		if errors.As(e, &appErr) {
			out = append(out, appErr.Message)
			continue
		}
		out = append(out, "synchronisation failed")
	}
	return out
}
