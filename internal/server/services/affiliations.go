package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/publiceyeusa/publiceye/internal/common"
	"github.com/publiceyeusa/publiceye/internal/logging"
	"github.com/publiceyeusa/publiceye/internal/server/catalogcache"
	"github.com/publiceyeusa/publiceye/internal/server/models"
	"github.com/publiceyeusa/publiceye/internal/server/repositories/repomanager"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AffiliationService serves the affiliation catalog. Reads go through the
// cache when one is configured; cache failures are logged and the database
// answers instead.
type AffiliationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       catalogcache.Cache
	logger      logging.Logger
}

func NewAffiliationService(db *sql.DB, m repomanager.RepositoryManager, cache catalogcache.Cache, logger logging.Logger) *AffiliationService {
	if cache == nil {
		cache = catalogcache.NopCache{}
	}
	return &AffiliationService{
		db:          db,
		repomanager: m,
		cache:       cache,
		logger:      logger.With("module", "affiliations"),
	}
}

func (s *AffiliationService) List(ctx context.Context) ([]models.Affiliation, error) {
	affs, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn(ctx, "catalog cache read failed", "error", err)
	}
	if ok {
		return affs, nil
	}

	affs, err = s.repomanager.Affiliations(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing affiliations: %w", err)
	}

	if err := s.cache.Set(ctx, affs); err != nil {
		s.logger.Warn(ctx, "catalog cache write failed", "error", err)
	}
	return affs, nil
}

// Get looks an entry up by category name, ignoring case.
func (s *AffiliationService) Get(ctx context.Context, category string) (*models.Affiliation, error) {
	return s.repomanager.Affiliations(s.db).GetByCategory(ctx, TitleCategory(category))
}

// Create adds a catalog entry named by the title-cased category.
func (s *AffiliationService) Create(ctx context.Context, category string) (*models.Affiliation, error) {
	name := TitleCategory(category)
	if name == "" {
		return nil, fieldError("category", "This field may not be blank.")
	}

	a, err := s.repomanager.Affiliations(s.db).Create(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fieldError("category", "affiliation with this category already exists.")
		}
		return nil, fmt.Errorf("error creating affiliation: %w", err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn(ctx, "catalog cache invalidation failed", "error", err)
	}
	return a, nil
}

// TitleCategory trims and title-cases a category name: "green party" becomes
// "Green Party".
func TitleCategory(category string) string {
	return cases.Title(language.English).String(strings.TrimSpace(category))
}
