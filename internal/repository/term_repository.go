package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mentorhub/roster-api/internal/models"
)

const termColumns = "id, year, label, start_date, end_date, created_at, updated_at"

// TermRepository reads the school-term catalog. Terms are maintained by an
// administrative workflow elsewhere; this API only consumes them.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository instantiates a term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// List returns terms matching the provided filters, sorted ascending by
// start date unless overridden.
func (r *TermRepository) List(ctx context.Context, filter models.TermFilter) ([]models.Term, int, error) {
	base := "FROM terms WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"year":       true,
		"label":      true,
		"start_date": true,
		"end_date":   true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "start_date"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", termColumns, base, sortBy, order, size, offset)

	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list terms: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count terms: %w", err)
	}

	return terms, total, nil
}

// FindByID loads a term by identifier.
func (r *TermRepository) FindByID(ctx context.Context, id string) (*models.Term, error) {
	query := fmt.Sprintf("SELECT %s FROM terms WHERE id = $1", termColumns)
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, id); err != nil {
		return nil, err
	}
	return &term, nil
}

// Catalog returns the whole term catalog sorted ascending by start date,
// which is the order the resolver depends on.
func (r *TermRepository) Catalog(ctx context.Context) ([]models.Term, error) {
	query := fmt.Sprintf("SELECT %s FROM terms ORDER BY start_date ASC", termColumns)
	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query); err != nil {
		return nil, fmt.Errorf("load term catalog: %w", err)
	}
	return terms, nil
}

// CatalogByYear returns one year's terms sorted ascending by start date.
func (r *TermRepository) CatalogByYear(ctx context.Context, year int) ([]models.Term, error) {
	query := fmt.Sprintf("SELECT %s FROM terms WHERE year = $1 ORDER BY start_date ASC", termColumns)
	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query, year); err != nil {
		return nil, fmt.Errorf("load term catalog for year %d: %w", year, err)
	}
	return terms, nil
}
