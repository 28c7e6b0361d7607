package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/stockalloc/pkg/httpx"
	"github.com/ghuser/stockalloc/pkg/logger"
)

const sessionName = "stockalloc_session"
const sessionOperatorIDKey = "operator_id"

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the OperatorID, and injects it into the request context.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks a valid operator_id.
//
// After this middleware, handlers can safely call auth.OperatorIDFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			operatorIDStr, ok := session.Values[sessionOperatorIDKey].(string)
			if !ok || operatorIDStr == "" {
				log.WarnContext(r.Context(), "session missing operator_id")
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			operatorID, err := uuid.Parse(operatorIDStr)
			if err != nil {
				log.WarnContext(r.Context(), "invalid operator_id in session", "operator_id", operatorIDStr, "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session data"})
				return
			}

			ctx := WithOperatorID(r.Context(), operatorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
