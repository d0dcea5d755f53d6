package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"beanlog/internal/models"
)

// Index names the compound query paths depend on. The flavor and tag indexes
// are not part of the auto-migrated schema (the tag index is a GIN index),
// so a deployment may genuinely lack them; those queries then degrade via
// ErrMissingIndex instead of running as sequential scans.
const (
	tagIndexName    = "idx_reviews_basic_tags"
	ratingIndexName = "idx_reviews_rating"
)

func flavorIndexName(axis FlavorAxis) string {
	return "idx_reviews_flavor_" + string(axis)
}

// Store is the Postgres-backed ReviewStore. The set of available secondary
// indexes is loaded once at construction and read-only afterwards.
type Store struct {
	db      *gorm.DB
	indexes map[string]bool
}

// New builds a Store over db and snapshots the review table's index set.
func New(db *gorm.DB) (*Store, error) {
	var names []string
	err := db.Raw("SELECT indexname FROM pg_indexes WHERE tablename = ?", "reviews").
		Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("load review indexes: %w", err)
	}
	indexes := make(map[string]bool, len(names))
	for _, n := range names {
		indexes[n] = true
	}
	return &Store{db: db, indexes: indexes}, nil
}

func (s *Store) hasIndex(name string) bool { return s.indexes[name] }

func (s *Store) MostRecent(ctx context.Context, limit int, cursor *Cursor) (Page, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var items []models.Review
	if err := q.Find(&items).Error; err != nil {
		return Page{}, fmt.Errorf("most recent reviews: %w", err)
	}
	return pageOf(items, limit, nil), nil
}

func (s *Store) ByFlavorMin(ctx context.Context, axis FlavorAxis, min float64, limit int, cursor *Cursor) (Page, error) {
	if !axis.Valid() {
		return Page{}, fmt.Errorf("unknown flavor axis %q", axis)
	}
	if !s.hasIndex(flavorIndexName(axis)) {
		return Page{}, fmt.Errorf("%w: %s", ErrMissingIndex, flavorIndexName(axis))
	}
	col := "flavor_" + string(axis)
	q := s.db.WithContext(ctx).
		Where(col+" >= ?", min).
		Order(col + " DESC, id DESC").
		Limit(limit)
	if cursor != nil && cursor.AxisValue != nil {
		q = q.Where("("+col+", id) < (?, ?)", *cursor.AxisValue, cursor.ID)
	}
	var items []models.Review
	if err := q.Find(&items).Error; err != nil {
		return Page{}, fmt.Errorf("reviews by %s threshold: %w", axis, err)
	}
	return pageOf(items, limit, &axis), nil
}

func (s *Store) ByTag(ctx context.Context, tag string, limit int, cursor *Cursor) (Page, error) {
	if !s.hasIndex(tagIndexName) {
		return Page{}, fmt.Errorf("%w: %s", ErrMissingIndex, tagIndexName)
	}
	member, err := json.Marshal([]string{tag})
	if err != nil {
		return Page{}, fmt.Errorf("encode tag: %w", err)
	}
	q := s.db.WithContext(ctx).
		Where("basic_tags::jsonb @> ?", string(member)).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var items []models.Review
	if err := q.Find(&items).Error; err != nil {
		return Page{}, fmt.Errorf("reviews by tag: %w", err)
	}
	return pageOf(items, limit, nil), nil
}

func (s *Store) ByRatingDesc(ctx context.Context, limit int) (Page, error) {
	if !s.hasIndex(ratingIndexName) {
		return Page{}, fmt.Errorf("%w: %s", ErrMissingIndex, ratingIndexName)
	}
	var items []models.Review
	err := s.db.WithContext(ctx).
		Order("rating DESC, created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return Page{}, fmt.Errorf("reviews by rating: %w", err)
	}
	// the rating view is not paginated
	return Page{Items: items}, nil
}

// pageOf attaches the next-page cursor: the keyset position of the last
// item, or nil when the page came back short.
func pageOf(items []models.Review, limit int, axis *FlavorAxis) Page {
	page := Page{Items: items}
	if len(items) < limit || len(items) == 0 {
		return page
	}
	last := items[len(items)-1]
	c := &Cursor{
		Version:   CursorVersion,
		CreatedAt: last.CreatedAt,
		ID:        last.ID,
	}
	if axis != nil {
		c.AxisValue = axisValue(last, *axis)
	}
	page.NextCursor = c
	return page
}

// axisValue reads one flavor axis off a review.
func axisValue(r models.Review, axis FlavorAxis) *float64 {
	switch axis {
	case AxisAcidity:
		return r.Flavor.Acidity
	case AxisSweetness:
		return r.Flavor.Sweetness
	case AxisBody:
		return r.Flavor.Body
	case AxisBitterness:
		return r.Flavor.Bitterness
	case AxisAroma:
		return r.Flavor.Aroma
	}
	return nil
}
