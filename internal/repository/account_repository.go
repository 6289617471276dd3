package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/evhart/dayhub/internal/model"
)

// AccountRepo is the MySQL implementation of AccountStore.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

const accountCols = "uuid,email,first_name,last_name,password_hash,avatar,bio,created_at"

// isDuplicate reports whether err is the MySQL duplicate-entry error (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.UUID, &a.Email, &a.FirstName, &a.LastName, &a.PasswordHash, &a.Avatar, &a.Bio, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return a, err
}

// Create inserts the account. The email must already be normalized.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO accounts ("+accountCols+") VALUES (?,?,?,?,?,?,?,?)",
		a.UUID, a.Email, a.FirstName, a.LastName, a.PasswordHash, a.Avatar, a.Bio, a.CreatedAt)
	if isDuplicate(err) {
		return ErrEmailExists
	}
	return err
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	return scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE email=? LIMIT 1", email))
}

func (r *AccountRepo) GetByUUID(ctx context.Context, uuid string) (model.Account, error) {
	return scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE uuid=? LIMIT 1", uuid))
}

// Update writes the mutable profile columns of a.
func (r *AccountRepo) Update(ctx context.Context, a *model.Account) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET email=?, first_name=?, last_name=?, avatar=?, bio=? WHERE uuid=?",
		a.Email, a.FirstName, a.LastName, a.Avatar, a.Bio, a.UUID)
	if isDuplicate(err) {
		return ErrEmailExists
	}
	return err
}
