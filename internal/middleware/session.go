package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evhart/dayhub/internal/model"
	"github.com/evhart/dayhub/internal/repository"
	"github.com/evhart/dayhub/internal/validate"
)

// Context keys under which the auth gate stores the resolved
// identity for downstream handlers.
const (
	AccountKey = "account"
	TokenKey   = "session_token"
)

// SessionAuth returns an Echo middleware that gates requests behind a
// valid, non-expired session token. The token travels in the
// Authorization header, either raw or with a "Bearer " prefix. On
// NotFound or Expired the request is rejected with 401 before any
// downstream logic runs; authentication failures are never retried
// server-side. On success the owning account and the token itself
// are attached to the request context.
func SessionAuth(sessions repository.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := strings.TrimSpace(c.Request().Header.Get("Authorization"))
			token = strings.TrimPrefix(token, "Bearer ")
			if token == "" {
				return unauthenticated(c, "missing authorization token")
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			account, err := sessions.Resolve(ctx, token)
			switch {
			case errors.Is(err, repository.ErrSessionNotFound):
				return unauthenticated(c, "unknown session")
			case errors.Is(err, repository.ErrSessionExpired):
				return unauthenticated(c, "session expired")
			case err != nil:
				return c.JSON(http.StatusInternalServerError,
					echo.Map{"errors": validate.Errors{{Msg: "session lookup failed"}}})
			}

			c.Set(AccountKey, account)
			c.Set(TokenKey, token)
			return next(c)
		}
	}
}

func unauthenticated(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"errors": validate.Errors{{Msg: msg}}})
}

// CurrentAccount returns the account attached by SessionAuth.
func CurrentAccount(c echo.Context) (model.Account, bool) {
	a, ok := c.Get(AccountKey).(model.Account)
	return a, ok
}

// SessionToken returns the bearer token attached by SessionAuth.
func SessionToken(c echo.Context) string {
	t, _ := c.Get(TokenKey).(string)
	return t
}
