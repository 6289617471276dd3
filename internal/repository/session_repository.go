package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/evhart/dayhub/internal/auth"
	"github.com/evhart/dayhub/internal/model"
)

// SessionRepo is the MySQL implementation of SessionStore. Lifetime
// is the policy constant applied on create and refresh (30 days in
// production config). Expiry is stored as milliseconds since epoch
// and checked lazily: nothing sweeps expired rows in the background,
// Resolve deletes them opportunistically when a stale token shows up.
type SessionRepo struct {
	DB       *sql.DB
	Lifetime time.Duration
}

func NewSessionRepo(db *sql.DB, lifetime time.Duration) *SessionRepo {
	return &SessionRepo{DB: db, Lifetime: lifetime}
}

// Create generates a fresh token and persists the session atomically.
func (r *SessionRepo) Create(ctx context.Context, accountUUID, ipAddress string) (model.Session, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return model.Session{}, err
	}
	s := model.Session{
		Token:       token,
		AccountUUID: accountUUID,
		ExpiresAt:   time.Now().UnixMilli() + r.Lifetime.Milliseconds(),
		IPAddress:   ipAddress,
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO sessions (token, account_uuid, expires_at, ip_address) VALUES (?,?,?,?)",
		s.Token, s.AccountUUID, s.ExpiresAt, s.IPAddress)
	if err != nil {
		return model.Session{}, err
	}
	return s, nil
}

// Resolve looks the token up and returns the owning account. The
// lookup is exact-match on the primary key, so a session is never
// returned for a token that does not equal the stored one.
func (r *SessionRepo) Resolve(ctx context.Context, token string) (model.Account, error) {
	var (
		expiresAt int64
		a         model.Account
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT s.expires_at, a.uuid, a.email, a.first_name, a.last_name, a.password_hash, a.avatar, a.bio, a.created_at
		 FROM sessions s JOIN accounts a ON a.uuid = s.account_uuid
		 WHERE s.token=? LIMIT 1`, token).
		Scan(&expiresAt, &a.UUID, &a.Email, &a.FirstName, &a.LastName, &a.PasswordHash, &a.Avatar, &a.Bio, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrSessionNotFound
	}
	if err != nil {
		return model.Account{}, err
	}
	if expiresAt <= time.Now().UnixMilli() {
		// Lazy cleanup; the reply does not depend on it succeeding.
		_, _ = r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE token=?", token)
		return model.Account{}, ErrSessionExpired
	}
	return a, nil
}

// Refresh pushes the expiry to now + lifetime. The token is reused,
// not rotated; clients keep the credential they already hold.
func (r *SessionRepo) Refresh(ctx context.Context, token string) (model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT token, account_uuid, expires_at, ip_address FROM sessions WHERE token=? LIMIT 1", token).
		Scan(&s.Token, &s.AccountUUID, &s.ExpiresAt, &s.IPAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, err
	}
	s.ExpiresAt = time.Now().UnixMilli() + r.Lifetime.Milliseconds()
	_, err = r.DB.ExecContext(ctx, "UPDATE sessions SET expires_at=? WHERE token=?", s.ExpiresAt, token)
	if err != nil {
		return model.Session{}, err
	}
	return s, nil
}

// Revoke deletes the session. Calling it twice is safe: the second
// call reports ErrSessionNotFound instead of failing hard.
func (r *SessionRepo) Revoke(ctx context.Context, token string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE token=?", token)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
