// Package store provides read access to persisted reviews for the feed
// layer. Pagination is cursor-based: every query returns the cursor of the
// last item, or nil when the page came back short of the requested limit.
package store

import (
	"context"

	"beanlog/internal/models"
)

// FlavorAxis names one of the five flavor profile axes for threshold queries.
type FlavorAxis string

const (
	AxisAcidity    FlavorAxis = "acidity"
	AxisSweetness  FlavorAxis = "sweetness"
	AxisBody       FlavorAxis = "body"
	AxisBitterness FlavorAxis = "bitterness"
	AxisAroma      FlavorAxis = "aroma"
)

// Valid reports whether the axis names a known flavor column.
func (a FlavorAxis) Valid() bool {
	switch a {
	case AxisAcidity, AxisSweetness, AxisBody, AxisBitterness, AxisAroma:
		return true
	}
	return false
}

// Page is one page of reviews in the order the store produced them.
// NextCursor is nil at the end of the data.
type Page struct {
	Items      []models.Review
	NextCursor *Cursor
}

// ReviewStore is the read surface the feed layer depends on. Implementations
// return ErrMissingIndex when a compound filter+sort query has no backing
// index; every other error propagates as-is.
type ReviewStore interface {
	// MostRecent returns reviews ordered by creation time descending.
	MostRecent(ctx context.Context, limit int, cursor *Cursor) (Page, error)

	// ByFlavorMin returns reviews whose value on the given axis is >= min,
	// ordered by that axis descending.
	ByFlavorMin(ctx context.Context, axis FlavorAxis, min float64, limit int, cursor *Cursor) (Page, error)

	// ByTag returns reviews whose basic tags contain tag, ordered by
	// creation time descending.
	ByTag(ctx context.Context, tag string, limit int, cursor *Cursor) (Page, error)

	// ByRatingDesc returns reviews ordered by rating descending, creation
	// time descending as tiebreak.
	ByRatingDesc(ctx context.Context, limit int) (Page, error)
}
