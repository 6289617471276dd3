package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/evhart/dayhub/internal/middleware"
	"github.com/evhart/dayhub/internal/repository"
)

// SessionHandler serves refresh and revoke. Both routes sit behind
// SessionAuth, so the token in the context has already been resolved
// once; the store calls below can still race a concurrent revoke,
// which surfaces as 401 rather than a crash.
type SessionHandler struct {
	Sessions repository.SessionStore
}

func NewSessionHandler(s repository.SessionStore) *SessionHandler {
	return &SessionHandler{Sessions: s}
}

// Refresh extends the session expiry to now + lifetime. The token is
// reused as-is; only the expiry in the response changes.
func (h *SessionHandler) Refresh(c echo.Context) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return failMsg(c, http.StatusUnauthorized, "unauthenticated")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	session, err := h.Sessions.Refresh(ctx, middleware.SessionToken(c))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return failMsg(c, http.StatusUnauthorized, "unknown session")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, authResp{
		Account: accountPart{FirstName: account.FirstName, LastName: account.LastName},
		Session: sessionPart{Token: session.Token, ExpiresAt: session.ExpiresAt},
	})
}

// Revoke deletes the session; the token stops working immediately.
func (h *SessionHandler) Revoke(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.Revoke(ctx, middleware.SessionToken(c)); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return failMsg(c, http.StatusUnauthorized, "unknown session")
		}
		return serverError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
