// Package affiliations is the PostgreSQL store of the affiliation catalog.
package affiliations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/publiceyeusa/publiceye/internal/common"
	"github.com/publiceyeusa/publiceye/internal/dbx"
	"github.com/publiceyeusa/publiceye/internal/server/models"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns the whole catalog ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Affiliation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, category FROM affiliations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Affiliation{}
	for rows.Next() {
		var a models.Affiliation
		if err := rows.Scan(&a.ID, &a.Category); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// GetByCategory matches the category name case-insensitively.
func (r *PostgresRepository) GetByCategory(ctx context.Context, category string) (*models.Affiliation, error) {
	a := &models.Affiliation{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, category FROM affiliations WHERE lower(category) = lower($1)`, category).Scan(&a.ID, &a.Category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, category string) (*models.Affiliation, error) {
	a := &models.Affiliation{Category: category}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO affiliations (category) VALUES ($1) RETURNING id`, category).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}
