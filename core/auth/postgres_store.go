package auth

import (
	"context"
	"embed"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mfedosov/finguard/integration/database/pg"
)

// Migrations holds the goose migrations for the users schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// PostgresUserStore persists users in PostgreSQL through a pgx pool.
// All queries are parameterized.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStore creates a store over an established pool.
func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// conn returns the context's transaction when one was attached with
// pg.WithTx, or the pool otherwise.
func (s *PostgresUserStore) conn(ctx context.Context) querier {
	if tx, ok := pg.TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}

func (s *PostgresUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findBy(ctx, "username", username)
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findBy(ctx, "email", email)
}

func (s *PostgresUserStore) findBy(ctx context.Context, column, value string) (*User, error) {
	query := `SELECT id, name, username, COALESCE(email, ''), password_hash, created_at
		FROM users WHERE ` + column + ` = $1`

	var u User
	err := s.conn(ctx).QueryRow(ctx, query, value).Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Empty emails are stored as NULL so they stay outside the partial unique
// index and any number of email-less accounts can coexist.
const insertUserQuery = `INSERT INTO users (id, name, username, email, password_hash, created_at)
	VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)`

func (s *PostgresUserStore) Create(ctx context.Context, user *User) error {
	_, err := s.conn(ctx).Exec(ctx, insertUserQuery,
		user.ID, user.Name, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return mapConstraintError(err)
	}
	return nil
}

func (s *PostgresUserStore) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error {
	tag, err := s.conn(ctx).Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, userID, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// mapConstraintError converts unique-violation errors into the taken
// sentinels the Service expects.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return ErrEmailTaken
	case strings.Contains(pgErr.ConstraintName, "username"):
		return ErrUsernameTaken
	default:
		return err
	}
}
