package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/evhart/dayhub/internal/auth"
	"github.com/evhart/dayhub/internal/middleware"
	"github.com/evhart/dayhub/internal/model"
	"github.com/evhart/dayhub/internal/repository"
	"github.com/evhart/dayhub/internal/validate"
)

// defaultListName is the todo list every account starts with.
const defaultListName = "Your Todo List"

// AccountHandler bundles dependencies for account endpoints.
type AccountHandler struct {
	Accounts repository.AccountStore
	Sessions repository.SessionStore
	Todos    repository.TodoStore
	Blogs    repository.BlogStore
	Events   EventPublisher
}

func NewAccountHandler(a repository.AccountStore, s repository.SessionStore, t repository.TodoStore, b repository.BlogStore, ev EventPublisher) *AccountHandler {
	return &AccountHandler{Accounts: a, Sessions: s, Todos: t, Blogs: b, Events: ev}
}

// ----- DTOs -----

type signUpReq struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateReq struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
}

type profileResp struct {
	UUID      string   `json:"uuid"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Avatar    string   `json:"avatar,omitempty"`
	Bio       string   `json:"bio"`
	Blogs     []string `json:"blogs"`
	TodoLists []string `json:"todoLists"`
}

// SignUp validates the body exhaustively, then persists the account
// together with its default todo list and an initial session. The
// plaintext session token is returned to the caller here and never
// again.
func (h *AccountHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return failMsg(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = validate.NormalizeEmail(req.Email)

	var errs validate.Errors
	validate.Email(&errs, req.Email)
	validate.Name(&errs, "firstName", req.FirstName)
	validate.Name(&errs, "lastName", req.LastName)
	validate.Password(&errs, req.Password)
	if len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs)
	}

	hash, err := auth.HashSecret(req.Password)
	if err != nil {
		return serverError(c)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	now := time.Now().UnixMilli()
	account := model.Account{
		UUID:         uuid.NewString(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	if err := h.Accounts.Create(ctx, &account); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict,
				validate.Errors{{Msg: "account with same email already exists", Field: "email"}})
		}
		return serverError(c)
	}

	list := model.TodoList{
		UUID:        uuid.NewString(),
		AccountUUID: account.UUID,
		Name:        defaultListName,
		CreatedAt:   now,
	}
	if err := h.Todos.CreateList(ctx, &list); err != nil {
		return serverError(c)
	}

	session, err := h.Sessions.Create(ctx, account.UUID, c.RealIP())
	if err != nil {
		return serverError(c)
	}

	if h.Events != nil {
		_ = h.Events.AccountRegistered(ctx, account)
	}

	return c.JSON(http.StatusOK, authResp{
		Account: accountPart{FirstName: account.FirstName, LastName: account.LastName},
		Session: sessionPart{Token: session.Token, ExpiresAt: session.ExpiresAt},
	})
}

// Login verifies credentials and opens a new session. Wrong password
// and unknown email produce the same generic message; neither the
// lookup result nor the hash comparison is distinguishable from the
// outside.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return failMsg(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = validate.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return failMsg(c, http.StatusBadRequest, "email and password are required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	account, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failMsg(c, http.StatusUnauthorized, "invalid email or password")
		}
		return serverError(c)
	}
	if !auth.VerifySecret(req.Password, account.PasswordHash) {
		return failMsg(c, http.StatusUnauthorized, "invalid email or password")
	}

	session, err := h.Sessions.Create(ctx, account.UUID, c.RealIP())
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, authResp{
		Account: accountPart{FirstName: account.FirstName, LastName: account.LastName},
		Session: sessionPart{Token: session.Token, ExpiresAt: session.ExpiresAt},
	})
}

// Info returns the full profile of the session account, including
// the identifiers of its blog posts and todo lists. Relation
// traversal is explicit repository calls, nothing is loaded lazily.
func (h *AccountHandler) Info(c echo.Context) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return failMsg(c, http.StatusUnauthorized, "unauthenticated")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	blogs, err := h.Blogs.UUIDsByAuthor(ctx, account.UUID)
	if err != nil {
		return serverError(c)
	}
	lists, err := h.Todos.ListsByAccount(ctx, account.UUID)
	if err != nil {
		return serverError(c)
	}
	listUUIDs := make([]string, 0, len(lists))
	for _, l := range lists {
		listUUIDs = append(listUUIDs, l.UUID)
	}

	return c.JSON(http.StatusOK, profileResp{
		UUID:      account.UUID,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Avatar:    account.Avatar,
		Bio:       account.Bio,
		Blogs:     blogs,
		TodoLists: listUUIDs,
	})
}

// Update applies a sparse profile patch. Each field is validated
// independently and applied only when present and non-empty.
func (h *AccountHandler) Update(c echo.Context) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return failMsg(c, http.StatusUnauthorized, "unauthenticated")
	}
	var req updateReq
	if err := c.Bind(&req); err != nil {
		return failMsg(c, http.StatusBadRequest, "invalid body")
	}

	var errs validate.Errors
	if req.Email != "" {
		req.Email = validate.NormalizeEmail(req.Email)
		validate.Email(&errs, req.Email)
	}
	if req.FirstName != "" {
		validate.Name(&errs, "firstName", req.FirstName)
	}
	if req.LastName != "" {
		validate.Name(&errs, "lastName", req.LastName)
	}
	if req.Bio != "" {
		validate.Length(&errs, "bio", req.Bio, 1, validate.ContentMax)
	}
	if len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs)
	}

	if req.Email != "" {
		account.Email = req.Email
	}
	if req.FirstName != "" {
		account.FirstName = req.FirstName
	}
	if req.LastName != "" {
		account.LastName = req.LastName
	}
	if req.Bio != "" {
		account.Bio = req.Bio
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Accounts.Update(ctx, &account); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict,
				validate.Errors{{Msg: "account with same email already exists", Field: "email"}})
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"uuid":      account.UUID,
		"email":     account.Email,
		"firstName": account.FirstName,
		"lastName":  account.LastName,
		"bio":       account.Bio,
	})
}
