package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mcoot/backlogbingo/internal/api/apierr"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/profile"
)

// ProfileCookie is the cookie the profile token may be sent in instead of
// the Authorization header
const ProfileCookie = "profile"

type contextKey string

const profileContextKey contextKey = "profile"

// RequireProfile creates middleware that resolves the caller's profile from
// the request and rejects the request when there is none
func RequireProfile(profiles *profile.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			p, err := profiles.Get(r.Context(), model.ProfileID(token))
			if errors.Is(err, model.ErrProfileNotFound) {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), profileContextKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken reads the profile token from the request
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}

	if cookie, err := r.Cookie(ProfileCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// GetProfile returns the caller's profile from the request context
func GetProfile(ctx context.Context) *model.Profile {
	p, _ := ctx.Value(profileContextKey).(*model.Profile)
	return p
}

// MustGetProfileID returns the caller's profile ID or panics
func MustGetProfileID(ctx context.Context) model.ProfileID {
	p := GetProfile(ctx)
	if p == nil {
		panic("no profile in context - profile middleware not applied?")
	}
	return p.ID
}
