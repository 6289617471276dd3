package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/evhart/dayhub/internal/middleware"
	"github.com/evhart/dayhub/internal/model"
	"github.com/evhart/dayhub/internal/pagination"
	"github.com/evhart/dayhub/internal/repository"
	"github.com/evhart/dayhub/internal/validate"
)

// BlogHandler serves the public feed and the author-gated mutations.
type BlogHandler struct {
	Blogs  repository.BlogStore
	Events EventPublisher
}

func NewBlogHandler(b repository.BlogStore, ev EventPublisher) *BlogHandler {
	return &BlogHandler{Blogs: b, Events: ev}
}

type blogResp struct {
	UUID      string `json:"uuid"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

type feedResp struct {
	Items      []blogResp `json:"items"`
	HasNext    bool       `json:"hasNext"`
	NextCursor string     `json:"nextCursor,omitempty"`
	TotalCount int64      `json:"totalCount"`
}

type createBlogReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updateBlogReq struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func toBlogResp(p model.BlogPost) blogResp {
	return blogResp{UUID: p.UUID, Author: p.AuthorUUID, Title: p.Title, Content: p.Content, CreatedAt: p.CreatedAt}
}

// List is the public, cursor-paginated feed, newest first. All query
// parameters are validated together so the client sees every problem
// at once; a bad cursor is a validation error, never a silent
// restart from the first page.
func (h *BlogHandler) List(c echo.Context) error {
	var errs validate.Errors

	author := c.QueryParam("author")
	if author != "" {
		if _, err := uuid.Parse(author); err != nil {
			errs.Add("author", "invalid author UUID")
		}
	}
	limit, err := pagination.ParseLimit(c.QueryParam("limit"))
	if err != nil {
		errs.Add("limit", err.Error())
	}
	var after *pagination.Cursor
	if raw := c.QueryParam("cursor"); raw != "" {
		cur, err := pagination.Decode(raw)
		if err != nil {
			errs.Add("cursor", "invalid cursor")
		} else {
			after = &cur
		}
	}
	if len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	page, err := h.Blogs.Page(ctx, author, limit, after)
	if err != nil {
		return serverError(c)
	}

	resp := feedResp{Items: make([]blogResp, 0, len(page.Items)), HasNext: page.HasNext, TotalCount: page.Total}
	for _, p := range page.Items {
		resp.Items = append(resp.Items, toBlogResp(p))
	}
	if page.HasNext && len(page.Items) > 0 {
		last := page.Items[len(page.Items)-1]
		resp.NextCursor = pagination.Cursor{CreatedAt: last.CreatedAt, UUID: last.UUID}.Encode()
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByUUID returns a single post; posts are publicly readable.
func (h *BlogHandler) GetByUUID(c echo.Context) error {
	id := c.Param("uuid")
	if _, err := uuid.Parse(id); err != nil {
		return fail(c, http.StatusBadRequest, validate.Errors{{Msg: "invalid blog uuid", Field: "uuid"}})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	post, err := h.Blogs.GetByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failMsg(c, http.StatusNotFound, "blog post not found")
		}
		return serverError(c)
	}
	return c.JSON(http.StatusOK, toBlogResp(post))
}

func (h *BlogHandler) Create(c echo.Context) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return failMsg(c, http.StatusUnauthorized, "unauthenticated")
	}
	var req createBlogReq
	if err := c.Bind(&req); err != nil {
		return failMsg(c, http.StatusBadRequest, "invalid body")
	}

	var errs validate.Errors
	validate.Length(&errs, "title", req.Title, 1, validate.TitleMax)
	validate.Length(&errs, "content", req.Content, 1, validate.ContentMax)
	if len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	post := model.BlogPost{
		UUID:       uuid.NewString(),
		AuthorUUID: account.UUID,
		Title:      req.Title,
		Content:    req.Content,
		CreatedAt:  time.Now().UnixMilli(),
	}
	if err := h.Blogs.Create(ctx, &post); err != nil {
		return serverError(c)
	}
	if h.Events != nil {
		_ = h.Events.BlogPublished(ctx, post)
	}
	return c.JSON(http.StatusOK, toBlogResp(post))
}

// Update patches title and/or content. The store checks existence
// before ownership inside one transaction, so 404 and 403 come back
// exactly as the caller deserves them.
func (h *BlogHandler) Update(c echo.Context) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return failMsg(c, http.StatusUnauthorized, "unauthenticated")
	}
	id := c.Param("uuid")
	if _, err := uuid.Parse(id); err != nil {
		return fail(c, http.StatusBadRequest, validate.Errors{{Msg: "invalid blog uuid", Field: "uuid"}})
	}
	var req updateBlogReq
	if err := c.Bind(&req); err != nil {
		return failMsg(c, http.StatusBadRequest, "invalid body")
	}
	if req.Title == nil && req.Content == nil {
		return failMsg(c, http.StatusBadRequest, "at least one field must be provided")
	}

	var errs validate.Errors
	if req.Title != nil {
		validate.Length(&errs, "title", *req.Title, 1, validate.TitleMax)
	}
	if req.Content != nil {
		validate.Length(&errs, "content", *req.Content, 1, validate.ContentMax)
	}
	if len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	post, err := h.Blogs.Update(ctx, id, account.UUID, repository.BlogPatch{Title: req.Title, Content: req.Content})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return failMsg(c, http.StatusNotFound, "blog post not found")
		case errors.Is(err, repository.ErrForbidden):
			return failMsg(c, http.StatusForbidden, "not the author of this blog post")
		}
		return serverError(c)
	}
	return c.JSON(http.StatusOK, toBlogResp(post))
}

func (h *BlogHandler) Delete(c echo.Context) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return failMsg(c, http.StatusUnauthorized, "unauthenticated")
	}
	id := c.Param("uuid")
	if _, err := uuid.Parse(id); err != nil {
		return fail(c, http.StatusBadRequest, validate.Errors{{Msg: "invalid blog uuid", Field: "uuid"}})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Blogs.Delete(ctx, id, account.UUID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return failMsg(c, http.StatusNotFound, "blog post not found")
		case errors.Is(err, repository.ErrForbidden):
			return failMsg(c, http.StatusForbidden, "not the author of this blog post")
		}
		return serverError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
