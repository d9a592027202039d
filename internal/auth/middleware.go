package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

var (
	ErrNoToken        = errors.New("missing authorization")
	ErrMalformedToken = errors.New("invalid authorization format")
)

type contextKey string

const UserIDKey contextKey = "userID"

// TokenFromRequest returns the bearer token of r. Browsers cannot set
// headers on a websocket upgrade, so with allowQuery the "token" query
// parameter is used when no Authorization header is present.
func TokenFromRequest(r *http.Request, allowQuery bool) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if allowQuery {
			if token := r.URL.Query().Get("token"); token != "" {
				return token, nil
			}
		}
		return "", ErrNoToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMalformedToken
	}
	return strings.TrimSpace(token), nil
}

// Authenticate resolves the user behind r.
func (s *Service) Authenticate(r *http.Request, allowQuery bool) (string, error) {
	token, err := TokenFromRequest(r, allowQuery)
	if err != nil {
		return "", err
	}
	return s.ValidateToken(token)
}

func (s *Service) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.Authenticate(r, false)
		switch {
		case errors.Is(err, ErrNoToken), errors.Is(err, ErrMalformedToken):
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		case err != nil:
			slog.Debug("token rejected", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID returns a context carrying the authenticated user.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}
