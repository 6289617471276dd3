package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evhart/dayhub/internal/model"
	"github.com/evhart/dayhub/internal/pagination"
)

// BlogRepo is the MySQL implementation of BlogStore.
type BlogRepo struct{ DB *sql.DB }

func NewBlogRepo(db *sql.DB) *BlogRepo { return &BlogRepo{DB: db} }

const blogCols = "uuid, author_uuid, title, content, created_at"

func (r *BlogRepo) Create(ctx context.Context, p *model.BlogPost) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO blog_posts ("+blogCols+") VALUES (?,?,?,?,?)",
		p.UUID, p.AuthorUUID, p.Title, p.Content, p.CreatedAt)
	return err
}

func (r *BlogRepo) GetByUUID(ctx context.Context, uuid string) (model.BlogPost, error) {
	var p model.BlogPost
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+blogCols+" FROM blog_posts WHERE uuid=? LIMIT 1", uuid).
		Scan(&p.UUID, &p.AuthorUUID, &p.Title, &p.Content, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BlogPost{}, ErrNotFound
	}
	return p, err
}

func (r *BlogRepo) UUIDsByAuthor(ctx context.Context, authorUUID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT uuid FROM blog_posts WHERE author_uuid=? ORDER BY created_at DESC, uuid", authorUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Page serves one feed window ordered created_at DESC, uuid ASC. The
// window is anchored on the cursor's (created_at, uuid) pair rather
// than an offset, so rows inserted ahead of the window never shift
// or duplicate what was already returned. One extra row is fetched
// to decide HasNext; Total counts the filtered set independently.
func (r *BlogRepo) Page(ctx context.Context, authorUUID string, limit int, after *pagination.Cursor) (BlogPage, error) {
	cond := "1=1"
	args := []any{}
	if authorUUID != "" {
		cond = "author_uuid=?"
		args = append(args, authorUUID)
	}

	var page BlogPage
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM blog_posts WHERE "+cond, args...).Scan(&page.Total); err != nil {
		return BlogPage{}, err
	}

	dataSQL := "SELECT " + blogCols + " FROM blog_posts WHERE " + cond
	if after != nil {
		dataSQL += " AND (created_at < ? OR (created_at = ? AND uuid > ?))"
		args = append(args, after.CreatedAt, after.CreatedAt, after.UUID)
	}
	dataSQL += " ORDER BY created_at DESC, uuid ASC LIMIT ?"
	args = append(args, limit+1)

	rows, err := r.DB.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return BlogPage{}, err
	}
	defer rows.Close()

	page.Items = []model.BlogPost{}
	for rows.Next() {
		var p model.BlogPost
		if err := rows.Scan(&p.UUID, &p.AuthorUUID, &p.Title, &p.Content, &p.CreatedAt); err != nil {
			return BlogPage{}, err
		}
		page.Items = append(page.Items, p)
	}
	if err := rows.Err(); err != nil {
		return BlogPage{}, err
	}
	if len(page.Items) > limit {
		page.Items = page.Items[:limit]
		page.HasNext = true
	}
	return page, nil
}

// lockPost loads the author inside tx; existence is checked before
// ownership so 404 and 403 come out in the right cases.
func lockPost(ctx context.Context, tx *sql.Tx, uuid, authorUUID string) error {
	var owner string
	err := tx.QueryRowContext(ctx,
		"SELECT author_uuid FROM blog_posts WHERE uuid=? LIMIT 1 FOR UPDATE", uuid).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != authorUUID {
		return ErrForbidden
	}
	return nil
}

func (r *BlogRepo) Update(ctx context.Context, uuid, authorUUID string, patch BlogPatch) (model.BlogPost, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.BlogPost{}, err
	}
	defer tx.Rollback()

	if err := lockPost(ctx, tx, uuid, authorUUID); err != nil {
		return model.BlogPost{}, err
	}
	var p model.BlogPost
	if err := tx.QueryRowContext(ctx,
		"SELECT "+blogCols+" FROM blog_posts WHERE uuid=? LIMIT 1", uuid).
		Scan(&p.UUID, &p.AuthorUUID, &p.Title, &p.Content, &p.CreatedAt); err != nil {
		return model.BlogPost{}, err
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE blog_posts SET title=?, content=? WHERE uuid=?", p.Title, p.Content, p.UUID); err != nil {
		return model.BlogPost{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.BlogPost{}, err
	}
	return p, nil
}

func (r *BlogRepo) Delete(ctx context.Context, uuid, authorUUID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockPost(ctx, tx, uuid, authorUUID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM blog_posts WHERE uuid=?", uuid); err != nil {
		return err
	}
	return tx.Commit()
}
