package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/auth"
	"github.com/abgdnv/storefront/pkg/logger"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/google/uuid"
)

type contextKey string

const userContextKey = contextKey("user")

// Authenticator resolves the access token of a request to a stored user.
type Authenticator struct {
	verifier   auth.Verifier
	users      store.UserStore
	cookieName string
	logger     *slog.Logger
}

func NewAuthenticator(verifier auth.Verifier, users store.UserStore, cookieName string, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		verifier:   verifier,
		users:      users,
		cookieName: cookieName,
		logger:     logger.With("component", "auth"),
	}
}

// Middleware verifies the access token taken from the session cookie or a bearer
// Authorization header, loads the user and adds it to the request context.
// Requests without a valid token or with an unknown user get a 401 response.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tokenString := a.tokenFrom(r)
		if tokenString == "" {
			web.RespondError(w, a.logger, http.StatusUnauthorized, "Unauthorized - No access token provided")
			return
		}

		token, err := a.verifier.Verify(ctx, tokenString)
		if err != nil {
			a.logger.WarnContext(ctx, "Access token rejected", "error", err)
			web.RespondError(w, a.logger, http.StatusUnauthorized, "Unauthorized - Invalid access token")
			return
		}
		subject, err := auth.Subject(token)
		if err != nil {
			web.RespondError(w, a.logger, http.StatusUnauthorized, "Unauthorized - Invalid access token")
			return
		}
		userID, err := uuid.Parse(subject)
		if err != nil {
			web.RespondError(w, a.logger, http.StatusUnauthorized, "Unauthorized - Invalid access token")
			return
		}

		user, err := a.users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				web.RespondError(w, a.logger, http.StatusUnauthorized, "Unauthorized - User not found")
				return
			}
			a.logger.ErrorContext(ctx, "Failed to load user", "user_id", userID, "error", err)
			web.RespondError(w, a.logger, http.StatusInternalServerError, "Server error")
			return
		}

		ctx = WithUser(ctx, user)
		ctx = logger.WithAttrs(ctx, slog.String("user_id", user.ID.String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) tokenFrom(r *http.Request) string {
	if c, err := r.Cookie(a.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireAdmin rejects requests whose authenticated user is not an admin.
// It must run after Authenticator.Middleware.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !UserFromContext(r.Context()).IsAdmin() {
				logger.WarnContext(r.Context(), "Admin route denied")
				web.RespondError(w, logger, http.StatusForbidden, "Access denied - Admin only")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the authenticated user, or nil outside the auth middleware.
func UserFromContext(ctx context.Context) *store.User {
	user, _ := ctx.Value(userContextKey).(*store.User)
	return user
}

// WithUser returns a context carrying user, as the auth middleware does.
func WithUser(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
