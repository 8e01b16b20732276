package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/chatapp/realtime-chat/internal/core/domain"
	"github.com/chatapp/realtime-chat/internal/core/ports"
	"github.com/chatapp/realtime-chat/internal/pkg/metrics"
)

// AccessTokenCookie carries the access token set on signup and login.
const AccessTokenCookie = "jwt"

// AccountLoader is the slice of the account repository the guard needs.
type AccountLoader interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}

// Auth verifies the access token, loads the account it names and attaches it
// to the request context. Failures are returned as domain errors and rendered
// by the central error handler.
func Auth(verifier ports.TokenVerifier, accounts AccountLoader, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, err := authenticate(c, verifier, accounts, log)
			if err != nil {
				var de *domain.Error
				if errors.As(err, &de) {
					metrics.AuthFailuresTotal.WithLabelValues(de.Code).Inc()
				}
				return err
			}

			req := c.Request()
			c.SetRequest(req.WithContext(ContextWithAccount(req.Context(), *account)))
			return next(c)
		}
	}
}

func authenticate(c echo.Context, verifier ports.TokenVerifier, accounts AccountLoader, log zerolog.Logger) (*domain.Account, error) {
	token := ExtractToken(c.Request())
	if token == "" {
		return nil, domain.ErrTokenMissing
	}

	claim, err := verifier.Verify(token)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	case errors.Is(err, domain.ErrTokenInvalid):
		return nil, domain.ErrTokenInvalid
	default:
		log.Warn().Err(err).Msg("token verification failed")
		return nil, domain.ErrAuthFailed
	}

	account, err := accounts.FindByID(c.Request().Context(), claim.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		log.Error().Err(err).Str("account_id", claim.Subject).Msg("failed to load authenticated account")
		return nil, domain.ErrAuthFailed
	}
	return account, nil
}

// ExtractToken prefers a non-empty jwt cookie and falls back to a bearer
// Authorization header.
func ExtractToken(r *http.Request) string {
	if ck, err := r.Cookie(AccessTokenCookie); err == nil && ck.Value != "" {
		return ck.Value
	}

	parts := strings.SplitN(r.Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
