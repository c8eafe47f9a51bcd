package auth

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/odp-Dev/opendoor-growth-hub-main/pkg/errors"
	httputil "github.com/odp-Dev/opendoor-growth-hub-main/pkg/http"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type contextKey string

const UserIDKey contextKey = "user_id"

type RoleChecker interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
}

// RequireRole admits requests whose bearer session belongs to a user
// holding role. No or bad session is 401; a valid session without the
// role is 403.
func RequireRole(sessions *Sessions, roles RoleChecker, role string, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, log, apperrors.Unauthorized("Authentication required"))
				return
			}

			userID, err := sessions.Verify(token)
			if err != nil {
				log.Warn("Rejected admin session",
					"request_id", middleware.GetRequestID(r.Context()),
					"error", err,
				)
				writeError(w, log, apperrors.Unauthorized("Invalid or expired session"))
				return
			}

			allowed, err := roles.HasRole(r.Context(), userID, role)
			if err != nil {
				log.Error("Failed to check user role", "user_id", userID, "role", role, "error", err)
				writeError(w, log, apperrors.Internal("Failed to verify permissions", err))
				return
			}
			if !allowed {
				log.Warn("Access denied", "user_id", userID, "role", role, "path", r.URL.Path)
				writeError(w, log, apperrors.Forbidden("Access denied"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		log.Error("failed to write error response", "operation", "WriteError", "error", writeErr)
	}
}
