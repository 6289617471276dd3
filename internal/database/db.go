package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL, verifies the connection and applies the
// schema idempotently.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

// schema is applied statement by statement; the MySQL driver does not
// allow multi-statement Exec by default. All timestamps are stored as
// milliseconds since epoch (BIGINT) to avoid DATETIME timezone
// coercion.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		uuid          CHAR(36)     NOT NULL PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		first_name    VARCHAR(64)  NOT NULL,
		last_name     VARCHAR(64)  NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		avatar        VARCHAR(512) NOT NULL DEFAULT '',
		bio           TEXT         NOT NULL,
		created_at    BIGINT       NOT NULL,
		UNIQUE KEY uq_accounts_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS sessions (
		token        CHAR(128)   NOT NULL PRIMARY KEY,
		account_uuid CHAR(36)    NOT NULL,
		expires_at   BIGINT      NOT NULL,
		ip_address   VARCHAR(64) NOT NULL,
		KEY idx_sessions_account (account_uuid),
		CONSTRAINT fk_sessions_account FOREIGN KEY (account_uuid) REFERENCES accounts (uuid)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS todo_lists (
		uuid         CHAR(36)     NOT NULL PRIMARY KEY,
		account_uuid CHAR(36)     NOT NULL,
		name         VARCHAR(128) NOT NULL,
		created_at   BIGINT       NOT NULL,
		KEY idx_todo_lists_account (account_uuid),
		CONSTRAINT fk_todo_lists_account FOREIGN KEY (account_uuid) REFERENCES accounts (uuid)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS todo_items (
		uuid       CHAR(36)     NOT NULL PRIMARY KEY,
		list_uuid  CHAR(36)     NOT NULL,
		title      VARCHAR(128) NOT NULL,
		completed  TINYINT(1)   NOT NULL DEFAULT 0,
		due_date   BIGINT       NULL,
		created_at BIGINT       NOT NULL,
		KEY idx_todo_items_list (list_uuid),
		CONSTRAINT fk_todo_items_list FOREIGN KEY (list_uuid) REFERENCES todo_lists (uuid)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS blog_posts (
		uuid        CHAR(36)     NOT NULL PRIMARY KEY,
		author_uuid CHAR(36)     NOT NULL,
		title       VARCHAR(128) NOT NULL,
		content     MEDIUMTEXT   NOT NULL,
		created_at  BIGINT       NOT NULL,
		KEY idx_blog_posts_feed (created_at, uuid),
		KEY idx_blog_posts_author (author_uuid),
		CONSTRAINT fk_blog_posts_author FOREIGN KEY (author_uuid) REFERENCES accounts (uuid)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
