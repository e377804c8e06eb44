package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/chris/allowance-ledger/pkg/handlers/respond"
)

// UserIDHeader carries the acting user's id.
const UserIDHeader = "X-User-Id"

type userIDKey struct{}

// RequireUser rejects requests without a user id. The id is read from the X-User-Id header,
// falling back to the userId query parameter.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			userID = strings.TrimSpace(r.URL.Query().Get("userId"))
		}
		if userID == "" {
			respond.JSON(w, http.StatusBadRequest, respond.ErrorResponse{Error: "userId is required"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the user id stored by RequireUser, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}
