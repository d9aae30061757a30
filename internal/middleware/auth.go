package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/repository"
)

type contextKey string

const (
	UserContextKey    contextKey = "user"
	SessionContextKey contextKey = "session"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session_token"

// GetUserFromContext retrieves the authenticated user from request context
func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// GetSessionFromContext retrieves the session from request context
func GetSessionFromContext(ctx context.Context) *models.Session {
	if session, ok := ctx.Value(SessionContextKey).(*models.Session); ok {
		return session
	}
	return nil
}

// SessionAuth creates middleware that authenticates via the session cookie
func SessionAuth(sessionRepo repository.SessionRepo, userRepo repository.UserRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			session, err := sessionRepo.GetByID(r.Context(), cookie.Value)
			if err != nil {
				internalError(w)
				return
			}
			if session == nil || session.IsExpired() {
				unauthorized(w)
				return
			}

			user, err := userRepo.GetByID(r.Context(), session.UserID)
			if err != nil {
				internalError(w)
				return
			}
			if user == nil {
				unauthorized(w)
				return
			}

			// Update last activity (async, don't wait)
			go sessionRepo.Touch(context.Background(), session.ID)

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			ctx = context.WithValue(ctx, UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession resolves the session like SessionAuth but lets
// anonymous requests through with an empty context
func OptionalSession(sessionRepo repository.SessionRepo, userRepo repository.UserRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessionRepo.GetByID(r.Context(), cookie.Value)
			if err != nil || session == nil || session.IsExpired() {
				next.ServeHTTP(w, r)
				return
			}

			user, err := userRepo.GetByID(r.Context(), session.UserID)
			if err != nil || user == nil {
				next.ServeHTTP(w, r)
				return
			}

			go sessionRepo.Touch(context.Background(), session.ID)

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			ctx = context.WithValue(ctx, UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly requires an authenticated admin. Must run after SessionAuth.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			unauthorized(w)
			return
		}
		if !user.IsAdmin {
			respond(w, http.StatusForbidden, "Admin access required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	respond(w, http.StatusUnauthorized, models.ErrUnauthenticated.Error())
}

func internalError(w http.ResponseWriter) {
	respond(w, http.StatusInternalServerError, "Internal server error.")
}

func respond(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: message})
}
