package repository

import (
	"context"

	"github.com/evhart/dayhub/internal/model"
	"github.com/evhart/dayhub/internal/pagination"
)

// One explicit store interface per entity. Handlers depend on these
// rather than on the MySQL implementations so that relation
// traversal stays visible as repository calls and tests can supply
// in-memory fakes.

// AccountStore persists user accounts.
type AccountStore interface {
	// Create inserts a new account; ErrEmailExists on a duplicate
	// normalized email.
	Create(ctx context.Context, a *model.Account) error
	// GetByEmail fetches by normalized email; ErrNotFound when absent.
	GetByEmail(ctx context.Context, email string) (model.Account, error)
	GetByUUID(ctx context.Context, uuid string) (model.Account, error)
	// Update writes the mutable profile columns of a;
	// ErrEmailExists when the new email collides.
	Update(ctx context.Context, a *model.Account) error
}

// SessionStore persists bearer sessions keyed by token.
type SessionStore interface {
	// Create generates a fresh token, persists the row atomically and
	// returns the session including the plaintext token. This is the
	// only point where the token is handed out in cleartext.
	Create(ctx context.Context, accountUUID, ipAddress string) (model.Session, error)
	// Resolve maps a token to its owning account. ErrSessionNotFound
	// when no row matches, ErrSessionExpired when the row exists but
	// is past its expiry (the row may be cleaned up lazily).
	Resolve(ctx context.Context, token string) (model.Account, error)
	// Refresh extends the expiry to now + lifetime. The token value
	// never changes on refresh.
	Refresh(ctx context.Context, token string) (model.Session, error)
	// Revoke deletes the row; a second call yields ErrSessionNotFound.
	Revoke(ctx context.Context, token string) error
}

// TodoItemPatch carries the optional fields of an item update; nil
// means "leave unchanged".
type TodoItemPatch struct {
	Title     *string
	Completed *bool
	DueDate   *int64
}

// TodoStore persists lists and their items. Every item mutation
// verifies the chain item -> list -> account inside one transaction.
type TodoStore interface {
	CreateList(ctx context.Context, l *model.TodoList) error
	// ListsByAccount returns the account's lists with items eagerly
	// loaded.
	ListsByAccount(ctx context.Context, accountUUID string) ([]model.TodoList, error)
	CreateItem(ctx context.Context, listUUID, accountUUID string, item *model.TodoItem) error
	UpdateItem(ctx context.Context, listUUID, itemUUID, accountUUID string, patch TodoItemPatch) (model.TodoItem, error)
	DeleteItem(ctx context.Context, listUUID, itemUUID, accountUUID string) error
}

// BlogPatch carries the optional fields of a post update.
type BlogPatch struct {
	Title   *string
	Content *string
}

// BlogPage is one window of the feed. HasNext reports whether rows
// exist past the window; Total is the filtered cardinality
// independent of the window.
type BlogPage struct {
	Items   []model.BlogPost
	HasNext bool
	Total   int64
}

// BlogStore persists blog posts and serves the public feed.
type BlogStore interface {
	Create(ctx context.Context, p *model.BlogPost) error
	GetByUUID(ctx context.Context, uuid string) (model.BlogPost, error)
	// UUIDsByAuthor lists the identifiers of an author's posts for
	// the account profile.
	UUIDsByAuthor(ctx context.Context, authorUUID string) ([]string, error)
	// Page returns posts ordered created_at DESC, uuid ASC, anchored
	// strictly after the cursor position when after is non-nil.
	// authorUUID filters the feed when non-empty.
	Page(ctx context.Context, authorUUID string, limit int, after *pagination.Cursor) (BlogPage, error)
	Update(ctx context.Context, uuid, authorUUID string, patch BlogPatch) (model.BlogPost, error)
	Delete(ctx context.Context, uuid, authorUUID string) error
}
