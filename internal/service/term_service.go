package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorhub/roster-api/internal/models"
	appErrors "github.com/mentorhub/roster-api/pkg/errors"
)

type termRepository interface {
	List(ctx context.Context, filter models.TermFilter) ([]models.Term, int, error)
	FindByID(ctx context.Context, id string) (*models.Term, error)
	Catalog(ctx context.Context) ([]models.Term, error)
	CatalogByYear(ctx context.Context, year int) ([]models.Term, error)
}

const termCatalogCacheKey = "terms:catalog"

// TermService reads the term catalog and resolves the applicable term for a
// date or an explicit (year, term) selection. Resolution is total: any
// non-empty catalog resolves to exactly one term.
type TermService struct {
	repo      termRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTermService creates a new term service instance.
func NewTermService(repo termRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TermService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns paginated terms.
func (s *TermService) List(ctx context.Context, filter models.TermFilter) ([]models.Term, *models.Pagination, error) {
	terms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list terms")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}

	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return terms, pagination, nil
}

// Get returns a term by ID.
func (s *TermService) Get(ctx context.Context, id string) (*models.Term, error) {
	term, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return term, nil
}

// Resolve returns the term the selector points at. An explicit (year, term)
// pair wins; otherwise the selector date (defaulting to today) picks the
// containing term, with a date in the gap between two terms owned by the
// upcoming one.
func (s *TermService) Resolve(ctx context.Context, selector models.TermSelector) (*models.Term, error) {
	target := models.Day(time.Now().UTC())
	if selector.Date != "" {
		parsed, err := models.ParseDay(selector.Date)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
		}
		target = parsed
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term catalog")
	}
	if len(catalog) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no terms configured")
	}

	if selector.Year != 0 {
		term := ResolveTermBySelection(catalog, selector.Year, selector.TermID, target)
		return &term, nil
	}

	term := ResolveTermByDate(catalog, target)
	return &term, nil
}

func (s *TermService) catalog(ctx context.Context) ([]models.Term, error) {
	var terms []models.Term
	if s.cache.Enabled() {
		if hit, err := s.cache.Get(ctx, termCatalogCacheKey, &terms); err == nil && hit {
			return terms, nil
		}
	}

	terms, err := s.repo.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, termCatalogCacheKey, terms, 0); err != nil {
			s.logger.Warn("failed to cache term catalog", zap.Error(err))
		}
	}
	return terms, nil
}

// ResolveTermByDate picks the term containing the date from a catalog sorted
// ascending by start date. A date in a gap resolves to the upcoming term; a
// date past every term falls back to the first term. The catalog must be
// non-empty.
func ResolveTermByDate(catalog []models.Term, date time.Time) models.Term {
	date = models.Day(date)
	for _, term := range catalog {
		if !date.After(term.EndDate) {
			// Either inside this term, or in the gap before it.
			return term
		}
	}
	return catalog[0]
}

// ResolveTermBySelection narrows the catalog to one year and resolves
// within it: an id match wins, otherwise the fallback date picks a term, and
// a year with no terms at all degrades to whole-catalog date resolution.
func ResolveTermBySelection(catalog []models.Term, year int, termID string, fallback time.Time) models.Term {
	var yearTerms []models.Term
	for _, term := range catalog {
		if term.Year == year {
			yearTerms = append(yearTerms, term)
		}
	}
	if len(yearTerms) == 0 {
		return ResolveTermByDate(catalog, fallback)
	}

	if termID != "" {
		for _, term := range yearTerms {
			if term.ID == termID {
				return term
			}
		}
	}

	return ResolveTermByDate(yearTerms, fallback)
}
