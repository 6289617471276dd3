package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// defaultList returns the uuid of the list created on sign-up.
func defaultList(t *testing.T, e *echo.Echo, token string) string {
	t.Helper()
	w := doJSON(t, e, http.MethodGet, "/v1/todo/lists", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	lists := decode(t, w)["items"].([]any)
	require.Len(t, lists, 1)
	return lists[0].(map[string]any)["uuid"].(string)
}

func TestTodoItemLifecycle(t *testing.T) {
	e, _ := newTestServer(t)
	token := signUp(t, e, "jo@example.com")
	list := defaultList(t, e, token)

	w := doJSON(t, e, http.MethodPost, "/v1/todo/create/"+list, token, map[string]any{
		"title": "buy milk", "dueDate": 1_700_000_000_000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	item := decode(t, w)
	itemUUID := item["uuid"].(string)
	assert.Equal(t, "buy milk", item["title"])
	assert.Equal(t, false, item["completed"])
	assert.Equal(t, float64(1_700_000_000_000), item["dueDate"])

	w = doJSON(t, e, http.MethodPatch, "/v1/todo/update/"+list+"/"+itemUUID, token, map[string]any{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)
	assert.Equal(t, true, updated["completed"])
	assert.Equal(t, "buy milk", updated["title"], "untouched fields survive the patch")

	// The item shows up under its list.
	w = doJSON(t, e, http.MethodGet, "/v1/todo/lists", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]any)[0].(map[string]any)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, itemUUID, items[0].(map[string]any)["uuid"])

	w = doJSON(t, e, http.MethodDelete, "/v1/todo/delete/"+list+"/"+itemUUID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["success"])

	w = doJSON(t, e, http.MethodDelete, "/v1/todo/delete/"+list+"/"+itemUUID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTodoOwnershipChain(t *testing.T) {
	e, _ := newTestServer(t)
	owner := signUp(t, e, "owner@example.com")
	other := signUp(t, e, "other@example.com")
	list := defaultList(t, e, owner)

	w := doJSON(t, e, http.MethodPost, "/v1/todo/create/"+list, owner, map[string]any{"title": "mine"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	itemUUID := decode(t, w)["uuid"].(string)

	// Another account hits the ownership wall on every mutation.
	w = doJSON(t, e, http.MethodPost, "/v1/todo/create/"+list, other, map[string]any{"title": "sneaky"})
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	w = doJSON(t, e, http.MethodPatch, "/v1/todo/update/"+list+"/"+itemUUID, other, map[string]any{"completed": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, e, http.MethodDelete, "/v1/todo/delete/"+list+"/"+itemUUID, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A list that does not exist is 404 before any ownership check.
	w = doJSON(t, e, http.MethodPost, "/v1/todo/create/"+uuid.NewString(), other, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Known list, unknown item.
	w = doJSON(t, e, http.MethodPatch, "/v1/todo/update/"+list+"/"+uuid.NewString(), owner, map[string]any{"completed": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Lists never leak across accounts.
	w = doJSON(t, e, http.MethodGet, "/v1/todo/lists", other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	otherLists := decode(t, w)["items"].([]any)
	require.Len(t, otherLists, 1)
	assert.NotEqual(t, list, otherLists[0].(map[string]any)["uuid"])
}

func TestTodoValidation(t *testing.T) {
	e, _ := newTestServer(t)
	token := signUp(t, e, "jo@example.com")
	list := defaultList(t, e, token)

	w := doJSON(t, e, http.MethodPost, "/v1/todo/create/not-a-uuid", token, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, e, http.MethodPost, "/v1/todo/create/"+list, token, map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Empty patch is a validation error, not a no-op.
	w = doJSON(t, e, http.MethodPost, "/v1/todo/create/"+list, token, map[string]any{"title": "x"})
	require.Equal(t, http.StatusOK, w.Code)
	itemUUID := decode(t, w)["uuid"].(string)
	w = doJSON(t, e, http.MethodPatch, "/v1/todo/update/"+list+"/"+itemUUID, token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Everything under /v1/todo sits behind the session gate.
	w = doJSON(t, e, http.MethodGet, "/v1/todo/lists", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTodoCreateList(t *testing.T) {
	e, _ := newTestServer(t)
	token := signUp(t, e, "jo@example.com")

	w := doJSON(t, e, http.MethodPost, "/v1/todo/list/create", token, map[string]any{"name": "Groceries"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Groceries", decode(t, w)["name"])

	w = doJSON(t, e, http.MethodGet, "/v1/todo/lists", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"].([]any), 2)

	w = doJSON(t, e, http.MethodPost, "/v1/todo/list/create", token, map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
