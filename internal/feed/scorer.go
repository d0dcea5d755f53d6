// Package feed turns a page of candidate reviews into a personally ranked
// feed. Scoring is a pure function over (review, preferences): additive
// rules, no negative contributions, no external state.
package feed

import (
	"sort"

	"beanlog/internal/models"
)

const (
	roastMatchPoints = 5
	axisMatchPoints  = 3

	// unrated axes count as the midpoint of the 0-5 scale
	neutralAxisValue = 3

	highAxisMin = 4
	lowAxisMax  = 2
)

// ScoredReview is a review plus its preference-match score for one ranking
// pass. Scores are never persisted and are not comparable across pages.
type ScoredReview struct {
	models.Review
	Score float64 `json:"score"`
}

// Score rates how well a review matches the user's taste profile. Rules are
// independent and only ever add points:
//
//   - roasting level equals the preferred roast (case-insensitive): +5
//   - acidity preference "high" and the review's acidity >= 4: +3
//   - acidity preference "low" and the review's acidity <= 2: +3
//   - body, same thresholds with "heavy"/"light": +3
//
// A "medium" preference matches nothing and adds nothing. Sweetness,
// bitterness, aroma and the basic tags are not consulted.
func Score(r models.Review, prefs *models.UserPreferences) float64 {
	if prefs.Empty() {
		return 0
	}

	var score float64

	if prefs.Roast != "" && r.RoastingEquals(prefs.Roast) {
		score += roastMatchPoints
	}

	switch prefs.Acidity {
	case models.PrefHigh:
		if axisOrNeutral(r.Flavor.Acidity) >= highAxisMin {
			score += axisMatchPoints
		}
	case models.PrefLow:
		if axisOrNeutral(r.Flavor.Acidity) <= lowAxisMax {
			score += axisMatchPoints
		}
	}

	switch prefs.Body {
	case models.PrefHeavy:
		if axisOrNeutral(r.Flavor.Body) >= highAxisMin {
			score += axisMatchPoints
		}
	case models.PrefLight:
		if axisOrNeutral(r.Flavor.Body) <= lowAxisMax {
			score += axisMatchPoints
		}
	}

	return score
}

func axisOrNeutral(v *float64) float64 {
	if v == nil {
		return neutralAxisValue
	}
	return *v
}

// rank scores every candidate and stable-sorts descending by score. Ties
// keep the order candidates arrived in, which already encodes recency or
// threshold rank from retrieval.
func rank(candidates []models.Review, prefs *models.UserPreferences) []ScoredReview {
	scored := make([]ScoredReview, len(candidates))
	for i, r := range candidates {
		scored[i] = ScoredReview{Review: r, Score: Score(r, prefs)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// unranked wraps candidates without reordering, for the passthrough paths.
func unranked(candidates []models.Review) []ScoredReview {
	scored := make([]ScoredReview, len(candidates))
	for i, r := range candidates {
		scored[i] = ScoredReview{Review: r}
	}
	return scored
}
