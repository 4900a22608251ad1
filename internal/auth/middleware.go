package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopstack/shopstack/internal/authz"
	"github.com/shopstack/shopstack/internal/platform/httpx"
	"github.com/shopstack/shopstack/internal/shared"
)

// Middleware resolves the bearer credential to an actor and stores it in the
// request context. Everything behind it can assume an authenticated, active
// actor.
type Middleware struct {
	Tokens    *TokenStore
	Directory authz.Directory
	Logger    *slog.Logger
}

// RequireActor rejects requests without a valid bearer token or with an
// inactive or deleted user behind it.
func (m Middleware) RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}

		userID, err := m.Tokens.Resolve(r.Context(), token)
		if err != nil {
			if errors.Is(err, shared.ErrUnauthenticated) {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
				return
			}
			m.Logger.Error("resolve token", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}

		record, err := m.Directory.FindUserByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, authz.ErrNotFound) {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
				return
			}
			m.Logger.Error("load actor", slog.Any("error", err), slog.Int64("user_id", userID))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		if !record.IsActive {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "account disabled")
			return
		}

		actor := authz.Actor{
			ID:       record.ID,
			Role:     record.Role,
			OwnerID:  record.OwnerID,
			IsActive: record.IsActive,
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithActor(r.Context(), actor)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
