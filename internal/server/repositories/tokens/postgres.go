// Package tokens stores issued session tokens. A user owns at most one row;
// removing it revokes the token.
package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/publiceyeusa/publiceye/internal/common"
	"github.com/publiceyeusa/publiceye/internal/dbx"
	"github.com/publiceyeusa/publiceye/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token *models.Token) error {
	query :=
		`INSERT INTO tokens (id, user_id, key, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	var expires any
	if token.ExpiresAt != nil {
		expires = *token.ExpiresAt
	}

	err := r.db.QueryRowContext(ctx, query, token.ID, token.UserID, token.Key, expires).Scan(&token.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByKey(ctx context.Context, key string) (*models.Token, error) {
	query :=
		`SELECT id, user_id, key, created_at, expires_at FROM tokens
		 WHERE key = $1
		 `
	return scanToken(r.db.QueryRowContext(ctx, query, key))
}

func (r *PostgresRepository) FindByUser(ctx context.Context, userID string) (*models.Token, error) {
	query :=
		`SELECT id, user_id, key, created_at, expires_at FROM tokens
		 WHERE user_id = $1
		 `
	return scanToken(r.db.QueryRowContext(ctx, query, userID))
}

// DeleteByUser is a no-op when the user holds no token.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func scanToken(row *sql.Row) (*models.Token, error) {
	t := &models.Token{}
	var expires sql.NullTime
	if err := row.Scan(&t.ID, &t.UserID, &t.Key, &t.CreatedAt, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if expires.Valid {
		t.ExpiresAt = &expires.Time
	}
	return t, nil
}
