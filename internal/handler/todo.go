package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/evhart/dayhub/internal/middleware"
	"github.com/evhart/dayhub/internal/model"
	"github.com/evhart/dayhub/internal/repository"
	"github.com/evhart/dayhub/internal/validate"
)

// TodoHandler serves list and item endpoints. Items are owned
// transitively through their list; the store re-verifies the chain
// list -> account inside the mutation transaction.
type TodoHandler struct {
	Todos repository.TodoStore
}

func NewTodoHandler(t repository.TodoStore) *TodoHandler {
	return &TodoHandler{Todos: t}
}

type createListReq struct {
	Name string `json:"name"`
}

type createItemReq struct {
	Title   string `json:"title"`
	DueDate *int64 `json:"dueDate"`
}

type updateItemReq struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
	DueDate   *int64  `json:"dueDate"`
}

type itemResp struct {
	UUID      string `json:"uuid"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	DueDate   *int64 `json:"dueDate,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

type listResp struct {
	UUID      string     `json:"uuid"`
	Name      string     `json:"name"`
	CreatedAt int64      `json:"createdAt"`
	Items     []itemResp `json:"items"`
}

func toItemResp(it model.TodoItem) itemResp {
	return itemResp{UUID: it.UUID, Title: it.Title, Completed: it.Completed, DueDate: it.DueDate, CreatedAt: it.CreatedAt}
}

// params validates the :list (and optionally :todo) path segments.
func todoParams(c echo.Context, wantItem bool) (listUUID, itemUUID string, errs validate.Errors) {
	listUUID = c.Param("list")
	if _, err := uuid.Parse(listUUID); err != nil {
		errs.Add("list", "invalid list uuid")
	}
	if wantItem {
		itemUUID = c.Param("todo")
		if _, err := uuid.Parse(itemUUID); err != nil {
			errs.Add("todo", "invalid todo uuid")
		}
	}
	return listUUID, itemUUID, errs
}

func (h *TodoHandler) chainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return failMsg(c, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrForbidden):
		return failMsg(c, http.StatusForbidden, "list belongs to another account")
	}
	return serverError(c)
}

// Lists returns the caller's todo lists with items eagerly loaded.
func (h *TodoHandler) Lists(c echo.Context) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return failMsg(c, http.StatusUnauthorized, "unauthenticated")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	lists, err := h.Todos.ListsByAccount(ctx, account.UUID)
	if err != nil {
		return serverError(c)
	}
	out := make([]listResp, 0, len(lists))
	for _, l := range lists {
		lr := listResp{UUID: l.UUID, Name: l.Name, CreatedAt: l.CreatedAt, Items: make([]itemResp, 0, len(l.Items))}
		for _, it := range l.Items {
			lr.Items = append(lr.Items, toItemResp(it))
		}
		out = append(out, lr)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

func (h *TodoHandler) CreateList(c echo.Context) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return failMsg(c, http.StatusUnauthorized, "unauthenticated")
	}
	var req createListReq
	if err := c.Bind(&req); err != nil {
		return failMsg(c, http.StatusBadRequest, "invalid body")
	}
	var errs validate.Errors
	validate.Length(&errs, "name", req.Name, 1, validate.TitleMax)
	if len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list := model.TodoList{
		UUID:        uuid.NewString(),
		AccountUUID: account.UUID,
		Name:        req.Name,
		CreatedAt:   time.Now().UnixMilli(),
	}
	if err := h.Todos.CreateList(ctx, &list); err != nil {
		return serverError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"uuid": list.UUID, "name": list.Name, "createdAt": list.CreatedAt})
}

func (h *TodoHandler) CreateItem(c echo.Context) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return failMsg(c, http.StatusUnauthorized, "unauthenticated")
	}
	listUUID, _, errs := todoParams(c, false)
	var req createItemReq
	if err := c.Bind(&req); err != nil {
		return failMsg(c, http.StatusBadRequest, "invalid body")
	}
	validate.Length(&errs, "title", req.Title, 1, validate.TitleMax)
	if len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	item := model.TodoItem{
		UUID:      uuid.NewString(),
		ListUUID:  listUUID,
		Title:     req.Title,
		DueDate:   req.DueDate,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := h.Todos.CreateItem(ctx, listUUID, account.UUID, &item); err != nil {
		return h.chainError(c, err)
	}
	return c.JSON(http.StatusOK, toItemResp(item))
}

func (h *TodoHandler) UpdateItem(c echo.Context) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return failMsg(c, http.StatusUnauthorized, "unauthenticated")
	}
	listUUID, itemUUID, errs := todoParams(c, true)
	var req updateItemReq
	if err := c.Bind(&req); err != nil {
		return failMsg(c, http.StatusBadRequest, "invalid body")
	}
	if req.Title == nil && req.Completed == nil && req.DueDate == nil {
		errs.Add("", "at least one field must be provided")
	}
	if req.Title != nil {
		validate.Length(&errs, "title", *req.Title, 1, validate.TitleMax)
	}
	if len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	item, err := h.Todos.UpdateItem(ctx, listUUID, itemUUID, account.UUID,
		repository.TodoItemPatch{Title: req.Title, Completed: req.Completed, DueDate: req.DueDate})
	if err != nil {
		return h.chainError(c, err)
	}
	return c.JSON(http.StatusOK, toItemResp(item))
}

func (h *TodoHandler) DeleteItem(c echo.Context) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return failMsg(c, http.StatusUnauthorized, "unauthenticated")
	}
	listUUID, itemUUID, errs := todoParams(c, true)
	if len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Todos.DeleteItem(ctx, listUUID, itemUUID, account.UUID); err != nil {
		return h.chainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
