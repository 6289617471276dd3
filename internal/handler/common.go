package handler // handler defines http handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evhart/dayhub/internal/model"
	"github.com/evhart/dayhub/internal/validate"
)

// dbTimeout bounds every store call made on behalf of a request.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// fail writes the structured error body shared by every endpoint.
func fail(c echo.Context, status int, errs validate.Errors) error {
	return c.JSON(status, echo.Map{"errors": errs})
}

func failMsg(c echo.Context, status int, msg string) error {
	return fail(c, status, validate.Errors{{Msg: msg}})
}

// serverError hides store internals behind a generic message;
// nothing from the persistence layer leaks to the client.
func serverError(c echo.Context) error {
	return failMsg(c, http.StatusInternalServerError, "internal server error")
}

// EventPublisher decouples handlers from the message broker. Both
// methods are fire-and-forget from the caller's perspective: a
// publish failure never fails the request.
type EventPublisher interface {
	AccountRegistered(ctx context.Context, a model.Account) error
	BlogPublished(ctx context.Context, p model.BlogPost) error
}

// sessionPart mirrors the session object of the auth responses. The
// expiry is absolute milliseconds since epoch.
type sessionPart struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type accountPart struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type authResp struct {
	Account accountPart `json:"account"`
	Session sessionPart `json:"session"`
}
