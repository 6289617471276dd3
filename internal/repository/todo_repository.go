package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evhart/dayhub/internal/model"
)

// TodoRepo is the MySQL implementation of TodoStore. Item mutations
// run as one transaction: the list is locked and its owner verified
// before the item is touched, so a concurrent delete between check
// and mutate cannot slip through.
type TodoRepo struct{ DB *sql.DB }

func NewTodoRepo(db *sql.DB) *TodoRepo { return &TodoRepo{DB: db} }

func (r *TodoRepo) CreateList(ctx context.Context, l *model.TodoList) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO todo_lists (uuid, account_uuid, name, created_at) VALUES (?,?,?,?)",
		l.UUID, l.AccountUUID, l.Name, l.CreatedAt)
	return err
}

// ListsByAccount loads the account's lists with items eagerly, using
// one query per relation instead of per row.
func (r *TodoRepo) ListsByAccount(ctx context.Context, accountUUID string) ([]model.TodoList, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT uuid, account_uuid, name, created_at FROM todo_lists WHERE account_uuid=? ORDER BY created_at, uuid",
		accountUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []model.TodoList{}
	index := map[string]int{}
	for rows.Next() {
		var l model.TodoList
		if err := rows.Scan(&l.UUID, &l.AccountUUID, &l.Name, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Items = []model.TodoItem{}
		index[l.UUID] = len(lists)
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := r.DB.QueryContext(ctx,
		`SELECT i.uuid, i.list_uuid, i.title, i.completed, i.due_date, i.created_at
		 FROM todo_items i JOIN todo_lists l ON l.uuid = i.list_uuid
		 WHERE l.account_uuid=? ORDER BY i.created_at, i.uuid`, accountUUID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var (
			it  model.TodoItem
			due sql.NullInt64
		)
		if err := itemRows.Scan(&it.UUID, &it.ListUUID, &it.Title, &it.Completed, &due, &it.CreatedAt); err != nil {
			return nil, err
		}
		if due.Valid {
			it.DueDate = &due.Int64
		}
		if i, ok := index[it.ListUUID]; ok {
			lists[i].Items = append(lists[i].Items, it)
		}
	}
	return lists, itemRows.Err()
}

// lockList loads a list inside tx and verifies the ownership chain:
// absent list -> ErrNotFound, wrong owner -> ErrForbidden, in that
// order so the error codes come out right.
func lockList(ctx context.Context, tx *sql.Tx, listUUID, accountUUID string) error {
	var owner string
	err := tx.QueryRowContext(ctx,
		"SELECT account_uuid FROM todo_lists WHERE uuid=? LIMIT 1 FOR UPDATE", listUUID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != accountUUID {
		return ErrForbidden
	}
	return nil
}

func (r *TodoRepo) CreateItem(ctx context.Context, listUUID, accountUUID string, item *model.TodoItem) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockList(ctx, tx, listUUID, accountUUID); err != nil {
		return err
	}
	var due any
	if item.DueDate != nil {
		due = *item.DueDate
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO todo_items (uuid, list_uuid, title, completed, due_date, created_at) VALUES (?,?,?,?,?,?)",
		item.UUID, listUUID, item.Title, item.Completed, due, item.CreatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *TodoRepo) UpdateItem(ctx context.Context, listUUID, itemUUID, accountUUID string, patch TodoItemPatch) (model.TodoItem, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.TodoItem{}, err
	}
	defer tx.Rollback()

	if err := lockList(ctx, tx, listUUID, accountUUID); err != nil {
		return model.TodoItem{}, err
	}
	var (
		it  model.TodoItem
		due sql.NullInt64
	)
	err = tx.QueryRowContext(ctx,
		"SELECT uuid, list_uuid, title, completed, due_date, created_at FROM todo_items WHERE uuid=? AND list_uuid=? LIMIT 1 FOR UPDATE",
		itemUUID, listUUID).Scan(&it.UUID, &it.ListUUID, &it.Title, &it.Completed, &due, &it.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TodoItem{}, ErrNotFound
	}
	if err != nil {
		return model.TodoItem{}, err
	}
	if due.Valid {
		it.DueDate = &due.Int64
	}

	if patch.Title != nil {
		it.Title = *patch.Title
	}
	if patch.Completed != nil {
		it.Completed = *patch.Completed
	}
	if patch.DueDate != nil {
		it.DueDate = patch.DueDate
	}
	var newDue any
	if it.DueDate != nil {
		newDue = *it.DueDate
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE todo_items SET title=?, completed=?, due_date=? WHERE uuid=?",
		it.Title, it.Completed, newDue, it.UUID); err != nil {
		return model.TodoItem{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.TodoItem{}, err
	}
	return it, nil
}

func (r *TodoRepo) DeleteItem(ctx context.Context, listUUID, itemUUID, accountUUID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockList(ctx, tx, listUUID, accountUUID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		"DELETE FROM todo_items WHERE uuid=? AND list_uuid=?", itemUUID, listUUID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
