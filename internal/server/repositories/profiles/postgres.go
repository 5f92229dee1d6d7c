// Package profiles persists user profiles and their affiliation selections.
package profiles

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

// Create adds an empty profile for userID.
func (r *PostgresRepository) Create(ctx context.Context, userID string) (*models.Profile, error) {
	p := &models.Profile{UserID: userID, Affiliations: []models.Affiliation{}}
	err := r.db.QueryRowContext(ctx, `INSERT INTO profiles (user_id) VALUES ($1) RETURNING id`, userID).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// GetByUser loads the profile of userID together with its affiliations.
func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (*models.Profile, error) {
	query :=
		`SELECT id, user_id, display_name FROM profiles
		 WHERE user_id = $1
		 `

	p := &models.Profile{}
	var name sql.NullString
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.ID, &p.UserID, &name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if name.Valid {
		p.DisplayName = &name.String
	}

	affs, err := r.ListAffiliations(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Affiliations = affs
	return p, nil
}

func (r *PostgresRepository) UpdateDisplayName(ctx context.Context, profileID int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET display_name = $1 WHERE id = $2`, name, profileID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ClearAffiliations(ctx context.Context, profileID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profile_affiliations WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// AddAffiliation links a catalog entry to the profile. An id missing from
// the catalog inserts nothing and yields common.ErrorValidation.
func (r *PostgresRepository) AddAffiliation(ctx context.Context, profileID, affiliationID int64) error {
	query :=
		`INSERT INTO profile_affiliations (profile_id, affiliation_id)
		 SELECT $1, id FROM affiliations WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, profileID, affiliationID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: unknown affiliation id %d", common.ErrorValidation, affiliationID)
	}
	return nil
}

func (r *PostgresRepository) ListAffiliations(ctx context.Context, profileID int64) ([]models.Affiliation, error) {
	query :=
		`SELECT a.id, a.category FROM affiliations a
		 JOIN profile_affiliations pa ON pa.affiliation_id = a.id
		 WHERE pa.profile_id = $1
		 ORDER BY a.id
		 `

	rows, err := r.db.QueryContext(ctx, query, profileID)
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
