package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/publiceyeusa/publiceye/internal/common"
	"github.com/publiceyeusa/publiceye/internal/dbx"
	"github.com/publiceyeusa/publiceye/internal/server/models"
	"github.com/publiceyeusa/publiceye/internal/server/repositories/repomanager"
)

const (
	displayNameMin = 3
	displayNameMax = 50
)

// ProfileUpdate is a partial profile edit. A nil DisplayName leaves the name
// as is; an empty Affiliations list leaves the selection as is.
type ProfileUpdate struct {
	DisplayName  *string
	Affiliations []int64
}

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{db: db, repomanager: m}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	return s.repomanager.Profiles(s.db).GetByUser(ctx, userID)
}

// Update applies upd and returns the stored profile afterwards. A non-empty
// affiliation list replaces the whole selection; an unknown id rolls the
// edit back.
func (s *ProfileService) Update(ctx context.Context, userID string, upd ProfileUpdate) (*models.Profile, error) {
	var name string
	if upd.DisplayName != nil {
		name = strings.TrimSpace(*upd.DisplayName)
		n := utf8.RuneCountInString(name)
		if n < displayNameMin {
			return nil, fieldError("display_name", fmt.Sprintf("Ensure this field has at least %d characters.", displayNameMin))
		}
		if n > displayNameMax {
			return nil, fieldError("display_name", fmt.Sprintf("Ensure this field has no more than %d characters.", displayNameMax))
		}
	}

	ids := slices.Clone(upd.Affiliations)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	var result *models.Profile
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Profiles(tx)

		profile, err := repo.GetByUser(ctx, userID)
		if err != nil {
			return err
		}

		if upd.DisplayName != nil {
			if err := repo.UpdateDisplayName(ctx, profile.ID, name); err != nil {
				return fmt.Errorf("error updating display name: %w", err)
			}
		}

		if len(ids) > 0 {
			if err := repo.ClearAffiliations(ctx, profile.ID); err != nil {
				return fmt.Errorf("error clearing affiliations: %w", err)
			}
			for _, id := range ids {
				if err := repo.AddAffiliation(ctx, profile.ID, id); err != nil {
					if errors.Is(err, common.ErrorValidation) {
						return fieldError("affiliations", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
					}
					return fmt.Errorf("error adding affiliation: %w", err)
				}
			}
		}

		result, err = repo.GetByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DisplayName returns only the display name, nil when unset.
func (s *ProfileService) DisplayName(ctx context.Context, userID string) (*string, error) {
	p, err := s.repomanager.Profiles(s.db).GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.DisplayName, nil
}
