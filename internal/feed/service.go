package feed

import (
	"context"
	"log"

	"beanlog/internal/models"
	"beanlog/internal/store"
)

// DefaultLimit is the page size used when the caller asks for none.
const DefaultLimit = 10

// implicitHighMin is the threshold a "high"/"heavy" preference is turned
// into when the caller gave no explicit filter.
const implicitHighMin = 4

// FlavorFilter is an explicit minimum threshold on one flavor axis. Zero
// means inactive; only the first active axis is honored.
type FlavorFilter struct {
	Acidity    float64 `json:"acidity"`
	Sweetness  float64 `json:"sweetness"`
	Body       float64 `json:"body"`
	Bitterness float64 `json:"bitterness"`
	Aroma      float64 `json:"aroma"`
}

// Active returns the first axis with a positive threshold.
func (f FlavorFilter) Active() (store.FlavorAxis, float64, bool) {
	switch {
	case f.Acidity > 0:
		return store.AxisAcidity, f.Acidity, true
	case f.Sweetness > 0:
		return store.AxisSweetness, f.Sweetness, true
	case f.Body > 0:
		return store.AxisBody, f.Body, true
	case f.Bitterness > 0:
		return store.AxisBitterness, f.Bitterness, true
	case f.Aroma > 0:
		return store.AxisAroma, f.Aroma, true
	}
	return "", 0, false
}

// FeedPage is one ranked page. NextCursor refers to the store's retrieval
// order, not the re-scored order: a personalized feed is only well-ordered
// within a single page.
type FeedPage struct {
	Reviews    []ScoredReview
	NextCursor *store.Cursor
}

// Service produces ranked feed pages from a read-only review store.
type Service struct {
	store store.ReviewStore
}

func NewService(st store.ReviewStore) *Service {
	return &Service{store: st}
}

// Personalized returns one feed page for the given taste profile.
//
// With an explicit filter the store pre-filters by that axis and scoring
// only refines the order. Without one, a "high"/"heavy" preference derives
// an implicit threshold query; if nothing qualifies, the feed degrades to
// plain recency, unscored. A missing store index likewise degrades to
// recency and never reaches the caller. Any other store error propagates.
func (s *Service) Personalized(ctx context.Context, prefs *models.UserPreferences, filter FlavorFilter, limit int, cursor *store.Cursor) (FeedPage, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	axis, min, explicit := filter.Active()
	implicit := false
	if !explicit {
		axis, min, implicit = implicitAxis(prefs)
	}

	var page store.Page
	var err error
	prefiltered := false

	if explicit || implicit {
		page, err = s.store.ByFlavorMin(ctx, axis, min, limit, cursor)
		switch {
		case store.IsMissingIndex(err):
			log.Printf("feed: %v, falling back to recent reviews", err)
			page, err = s.store.MostRecent(ctx, limit, cursor)
			if err != nil {
				return FeedPage{}, err
			}
		case err != nil:
			return FeedPage{}, err
		default:
			prefiltered = true
		}
	} else {
		page, err = s.store.MostRecent(ctx, limit, cursor)
		if err != nil {
			return FeedPage{}, err
		}
	}

	// nothing qualifies under the preference-derived threshold: serve the
	// plain recent feed instead of an empty page
	if implicit && prefiltered && len(page.Items) == 0 {
		page, err = s.store.MostRecent(ctx, limit, cursor)
		if err != nil {
			return FeedPage{}, err
		}
		return FeedPage{Reviews: unranked(page.Items), NextCursor: page.NextCursor}, nil
	}

	// plain recent feed stays in recency order
	if prefs.Empty() && !explicit {
		return FeedPage{Reviews: unranked(page.Items), NextCursor: page.NextCursor}, nil
	}

	return FeedPage{Reviews: rank(page.Items, prefs), NextCursor: page.NextCursor}, nil
}

// ByTag returns the feed filtered to one basic taste tag, in recency order.
// The label is translated through the filter-chip alias table first. A
// missing tag index yields an empty page, not an error.
func (s *Service) ByTag(ctx context.Context, label string, limit int, cursor *store.Cursor) (FeedPage, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	page, err := s.store.ByTag(ctx, CanonicalTag(label), limit, cursor)
	if store.IsMissingIndex(err) {
		log.Printf("feed: %v, returning empty tag feed", err)
		return FeedPage{}, nil
	}
	if err != nil {
		return FeedPage{}, err
	}
	return FeedPage{Reviews: unranked(page.Items), NextCursor: page.NextCursor}, nil
}

// TopRated returns the rating-ordered view, unscored. A missing rating
// index yields an empty list, not an error.
func (s *Service) TopRated(ctx context.Context, limit int) ([]models.Review, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	page, err := s.store.ByRatingDesc(ctx, limit)
	if store.IsMissingIndex(err) {
		log.Printf("feed: %v, returning empty rating view", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// implicitAxis derives a threshold query from the taste profile. Only
// preferences expressible as a minimum qualify: "high" acidity and "heavy"
// body. "low"/"light"/"medium" cannot pre-filter and are left to scoring.
func implicitAxis(prefs *models.UserPreferences) (store.FlavorAxis, float64, bool) {
	if prefs.Empty() {
		return "", 0, false
	}
	if prefs.Acidity == models.PrefHigh {
		return store.AxisAcidity, implicitHighMin, true
	}
	if prefs.Body == models.PrefHeavy {
		return store.AxisBody, implicitHighMin, true
	}
	return "", 0, false
}
