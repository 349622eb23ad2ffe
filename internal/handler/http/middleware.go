package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/session"
	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/httputil"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/logger"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/middleware"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const sessionKey contextKey = "session"

// SessionLookup resolves the session named by a request.
type SessionLookup interface {
	Lookup(ctx context.Context, id string) (*session.Session, error)
}

// RequireSession resolves the X-Session-ID header into a session and stores
// it in the request context. Requests without the header are rejected with
// 401, malformed ids with 400 and unknown ids without a guest mirror with
// 404. The request logger is rebuilt so handler logs carry session_id and,
// once logged in, user_id.
func RequireSession(sessions SessionLookup, base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(middleware.SessionHeader))
			if id == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("missing "+middleware.SessionHeader+" header"), base)
				return
			}

			s, err := sessions.Lookup(r.Context(), id)
			if err != nil {
				httputil.WriteError(w, r, err, base)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, s)
			ctx = logger.WithSessionID(ctx, s.ID)
			if s.Identity.IsAuthenticated() {
				if uid := s.Identity.User().ID; uid != "" {
					ctx = logger.WithUserID(ctx, uid)
				}
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFromContext returns the session stored by RequireSession.
func sessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	return s, ok && s != nil
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
