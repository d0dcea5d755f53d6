package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanlog/internal/models"
	"beanlog/internal/store"
)

// memStore is an in-memory ReviewStore. reviews are held in recency order
// (newest first); error fields force a failure on the matching query path.
type memStore struct {
	reviews []models.Review

	flavorErr error
	tagErr    error
	ratingErr error

	recentCalls int
	flavorCalls int
	tagCalls    int
	lastTag     string
}

func (m *memStore) MostRecent(_ context.Context, limit int, _ *store.Cursor) (store.Page, error) {
	m.recentCalls++
	return m.page(m.reviews, limit), nil
}

func (m *memStore) ByFlavorMin(_ context.Context, axis store.FlavorAxis, min float64, limit int, _ *store.Cursor) (store.Page, error) {
	m.flavorCalls++
	if m.flavorErr != nil {
		return store.Page{}, m.flavorErr
	}
	var matched []models.Review
	for _, r := range m.reviews {
		if v := axisOf(r, axis); v != nil && *v >= min {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return *axisOf(matched[i], axis) > *axisOf(matched[j], axis)
	})
	return m.page(matched, limit), nil
}

func (m *memStore) ByTag(_ context.Context, tag string, limit int, _ *store.Cursor) (store.Page, error) {
	m.tagCalls++
	m.lastTag = tag
	if m.tagErr != nil {
		return store.Page{}, m.tagErr
	}
	var matched []models.Review
	for _, r := range m.reviews {
		if r.HasTag(tag) {
			matched = append(matched, r)
		}
	}
	return m.page(matched, limit), nil
}

func (m *memStore) ByRatingDesc(_ context.Context, limit int) (store.Page, error) {
	if m.ratingErr != nil {
		return store.Page{}, m.ratingErr
	}
	rated := append([]models.Review(nil), m.reviews...)
	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].Rating > rated[j].Rating
	})
	return m.page(rated, limit), nil
}

func (m *memStore) page(items []models.Review, limit int) store.Page {
	if len(items) > limit {
		items = items[:limit]
	}
	page := store.Page{Items: items}
	if len(items) == limit && len(items) > 0 {
		last := items[len(items)-1]
		page.NextCursor = &store.Cursor{
			Version:   store.CursorVersion,
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		}
	}
	return page
}

func axisOf(r models.Review, axis store.FlavorAxis) *float64 {
	switch axis {
	case store.AxisAcidity:
		return r.Flavor.Acidity
	case store.AxisBody:
		return r.Flavor.Body
	case store.AxisSweetness:
		return r.Flavor.Sweetness
	case store.AxisBitterness:
		return r.Flavor.Bitterness
	case store.AxisAroma:
		return r.Flavor.Aroma
	}
	return nil
}

func fixtureReviews() []models.Review {
	reviews := []models.Review{
		{Roasting: "Dark", Flavor: models.FlavorProfile{Acidity: fp(2)}},
		{Roasting: "Light", Flavor: models.FlavorProfile{Acidity: fp(3)}},
		{Flavor: models.FlavorProfile{Body: fp(1)}},
	}
	for i := range reviews {
		reviews[i].ID = uint(i + 1)
	}
	return reviews
}

func ids(reviews []ScoredReview) []uint {
	out := make([]uint, len(reviews))
	for i, r := range reviews {
		out[i] = r.ID
	}
	return out
}

func TestPersonalizedEmptyPreferencesPassthrough(t *testing.T) {
	st := &memStore{reviews: fixtureReviews()}
	svc := NewService(st)

	page, err := svc.Personalized(context.Background(), nil, FlavorFilter{}, 10, nil)

	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, ids(page.Reviews), "recency order must be untouched")
	assert.Equal(t, 0, st.flavorCalls, "no threshold query without preferences")
	assert.Equal(t, 1, st.recentCalls)
}

func TestPersonalizedRanksRecentPage(t *testing.T) {
	// roast-only preference: retrieval stays recency-based, scoring reorders
	st := &memStore{reviews: fixtureReviews()}
	svc := NewService(st)

	prefs := &models.UserPreferences{Roast: "light"}
	page, err := svc.Personalized(context.Background(), prefs, FlavorFilter{}, 10, nil)

	require.NoError(t, err)
	assert.Equal(t, []uint{2, 1, 3}, ids(page.Reviews))
	assert.Equal(t, 5.0, page.Reviews[0].Score)
}

func TestPersonalizedImplicitThresholdQuery(t *testing.T) {
	reviews := fixtureReviews()
	reviews[2].Flavor = models.FlavorProfile{Acidity: fp(4.5)}
	st := &memStore{reviews: reviews}
	svc := NewService(st)

	prefs := &models.UserPreferences{Acidity: "high"}
	page, err := svc.Personalized(context.Background(), prefs, FlavorFilter{}, 10, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, st.flavorCalls)
	require.Len(t, page.Reviews, 1)
	assert.Equal(t, uint(3), page.Reviews[0].ID)
	assert.Equal(t, 3.0, page.Reviews[0].Score)
}

func TestPersonalizedFallsBackWhenNothingMatches(t *testing.T) {
	// fixture has no acidity >= 4, so the implicit threshold query is empty
	st := &memStore{reviews: fixtureReviews()}
	svc := NewService(st)

	prefs := &models.UserPreferences{Acidity: "high"}
	page, err := svc.Personalized(context.Background(), prefs, FlavorFilter{}, 10, nil)

	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, ids(page.Reviews), "plain recency order, unscored")
	for _, r := range page.Reviews {
		assert.Equal(t, 0.0, r.Score)
	}
	assert.Equal(t, 1, st.flavorCalls)
	assert.Equal(t, 1, st.recentCalls)
}

func TestPersonalizedIndexFailureFallsBackToRecent(t *testing.T) {
	st := &memStore{
		reviews:   fixtureReviews(),
		flavorErr: fmt.Errorf("reviews by acidity threshold: %w", store.ErrMissingIndex),
	}
	svc := NewService(st)

	prefs := &models.UserPreferences{Acidity: "high", Roast: "dark"}
	page, err := svc.Personalized(context.Background(), prefs, FlavorFilter{}, 10, nil)

	require.NoError(t, err, "missing index must never surface")
	assert.Equal(t, 1, st.recentCalls)
	// the recent page still gets scored: the Dark roast wins
	assert.Equal(t, []uint{1, 2, 3}, ids(page.Reviews))
	assert.Equal(t, 5.0, page.Reviews[0].Score)
}

func TestPersonalizedPropagatesUnknownErrors(t *testing.T) {
	boom := errors.New("connection refused")
	st := &memStore{reviews: fixtureReviews(), flavorErr: boom}
	svc := NewService(st)

	_, err := svc.Personalized(context.Background(), nil, FlavorFilter{Acidity: 4}, 10, nil)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, st.recentCalls, "no silent fallback for unknown errors")
}

func TestPersonalizedExplicitFilter(t *testing.T) {
	reviews := fixtureReviews()
	reviews[1].Flavor.Acidity = fp(4)
	st := &memStore{reviews: reviews}
	svc := NewService(st)

	page, err := svc.Personalized(context.Background(), nil, FlavorFilter{Acidity: 2}, 10, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, st.flavorCalls)
	assert.Equal(t, []uint{2, 1}, ids(page.Reviews), "axis-descending order survives zero scores")
}

func TestPersonalizedExplicitFilterEmptyStaysEmpty(t *testing.T) {
	// an explicit filter that matches nothing is an empty page, not a fallback
	st := &memStore{reviews: fixtureReviews()}
	svc := NewService(st)

	page, err := svc.Personalized(context.Background(), nil, FlavorFilter{Aroma: 5}, 10, nil)

	require.NoError(t, err)
	assert.Empty(t, page.Reviews)
	assert.Equal(t, 0, st.recentCalls)
}

func TestPersonalizedPermutation(t *testing.T) {
	st := &memStore{reviews: fixtureReviews()}
	svc := NewService(st)

	prefs := &models.UserPreferences{Roast: "dark", Acidity: "low", Body: "light"}
	page, err := svc.Personalized(context.Background(), prefs, FlavorFilter{}, 10, nil)

	require.NoError(t, err)
	got := ids(page.Reviews)
	assert.ElementsMatch(t, []uint{1, 2, 3}, got)
	assert.Len(t, got, 3)
}

func TestPersonalizedNextCursorFromRetrievalOrder(t *testing.T) {
	st := &memStore{reviews: fixtureReviews()}
	svc := NewService(st)

	page, err := svc.Personalized(context.Background(), nil, FlavorFilter{}, 3, nil)

	require.NoError(t, err)
	require.NotNil(t, page.NextCursor)
	// cursor marks the last *retrieved* item, not the last ranked one
	assert.Equal(t, uint(3), page.NextCursor.ID)
}

func TestByTagTranslatesLabel(t *testing.T) {
	reviews := fixtureReviews()
	reviews[0].BasicTags = []string{"라떼"}
	st := &memStore{reviews: reviews}
	svc := NewService(st)

	page, err := svc.ByTag(context.Background(), "라떼맛집", 10, nil)

	require.NoError(t, err)
	assert.Equal(t, "라떼", st.lastTag)
	require.Len(t, page.Reviews, 1)
	assert.Equal(t, uint(1), page.Reviews[0].ID)
}

func TestByTagUnmappedLabelPassesThrough(t *testing.T) {
	st := &memStore{reviews: fixtureReviews()}
	svc := NewService(st)

	_, err := svc.ByTag(context.Background(), "콜드브루", 10, nil)

	require.NoError(t, err)
	assert.Equal(t, "콜드브루", st.lastTag)
}

func TestByTagMissingIndexReturnsEmpty(t *testing.T) {
	st := &memStore{reviews: fixtureReviews(), tagErr: store.ErrMissingIndex}
	svc := NewService(st)

	page, err := svc.ByTag(context.Background(), "라떼", 10, nil)

	require.NoError(t, err)
	assert.Empty(t, page.Reviews)
	assert.Nil(t, page.NextCursor)
}

func TestTopRated(t *testing.T) {
	reviews := fixtureReviews()
	reviews[0].Rating = 3
	reviews[1].Rating = 5
	reviews[2].Rating = 4
	st := &memStore{reviews: reviews}
	svc := NewService(st)

	got, err := svc.TopRated(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, uint(2), got[0].ID)
	assert.Equal(t, uint(3), got[1].ID)
	assert.Equal(t, uint(1), got[2].ID)
}

func TestTopRatedMissingIndexReturnsEmpty(t *testing.T) {
	st := &memStore{reviews: fixtureReviews(), ratingErr: store.ErrMissingIndex}
	svc := NewService(st)

	got, err := svc.TopRated(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, got)
}
