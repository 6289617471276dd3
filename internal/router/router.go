package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/evhart/dayhub/internal/handler"
	"github.com/evhart/dayhub/internal/middleware"
	"github.com/evhart/dayhub/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance. Currently it exposes only a health
// check, used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAccount registers the account and session endpoints.
// Sign-up and login are the only unauthenticated operations; info,
// update, refresh and revoke sit behind the session gate, which
// rejects missing, unknown and expired tokens with 401 before any
// handler runs.
func RegisterAccount(e *echo.Echo, a *handler.AccountHandler, s *handler.SessionHandler, sessions repository.SessionStore) {
	acc := e.Group("/v1/account")
	acc.POST("/sign-up", a.SignUp)
	acc.POST("/login", a.Login)

	gate := middleware.SessionAuth(sessions)
	acc.GET("/info", a.Info, gate)
	acc.PATCH("/update", a.Update, gate)

	ses := e.Group("/v1/session", gate)
	ses.GET("/refresh", s.Refresh)
	ses.GET("/revoke", s.Revoke)
}

// RegisterBlog registers the blog endpoints. Reads are public; the
// feed additionally goes through the response cache when one is
// configured. Mutations require a session, ownership is enforced by
// the store.
func RegisterBlog(e *echo.Echo, b *handler.BlogHandler, sessions repository.SessionStore, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/blog")
	if cache != nil {
		g.GET("/blogs", b.List, cache)
		g.GET("/by-uuid/:uuid", b.GetByUUID, cache)
	} else {
		g.GET("/blogs", b.List)
		g.GET("/by-uuid/:uuid", b.GetByUUID)
	}

	gate := middleware.SessionAuth(sessions)
	g.POST("/create", b.Create, gate)
	g.PATCH("/update/:uuid", b.Update, gate)
	g.DELETE("/delete/:uuid", b.Delete, gate)
}

// RegisterTodo registers the todo endpoints; everything requires a
// session, and item routes verify the list -> account chain.
func RegisterTodo(e *echo.Echo, t *handler.TodoHandler, sessions repository.SessionStore) {
	g := e.Group("/v1/todo", middleware.SessionAuth(sessions))
	g.GET("/lists", t.Lists)
	g.POST("/list/create", t.CreateList)
	g.POST("/create/:list", t.CreateItem)
	g.PATCH("/update/:list/:todo", t.UpdateItem)
	g.DELETE("/delete/:list/:todo", t.DeleteItem)
}
