package models

import "gorm.io/gorm"

// Preference values collected during onboarding. Empty string means the user
// expressed no opinion on that axis.
const (
	PrefHigh   = "high"
	PrefMedium = "medium"
	PrefLow    = "low"

	PrefHeavy = "heavy"
	PrefLight = "light"

	PrefRoastDark   = "dark"
	PrefRoastMedium = "medium"
	PrefRoastLight  = "light"
)

// UserPreferences is a user's coarse taste profile, reused for feed ranking.
type UserPreferences struct {
	gorm.Model
	UserID  uint   `json:"user_id" gorm:"uniqueIndex"`
	Acidity string `json:"acidity"` // high | medium | low
	Body    string `json:"body"`    // heavy | medium | light
	Roast   string `json:"roast"`   // dark | medium | light
}

// Empty reports whether the profile carries no opinion on any axis.
// A nil receiver counts as empty so callers can pass through a missed lookup.
func (p *UserPreferences) Empty() bool {
	return p == nil || (p.Acidity == "" && p.Body == "" && p.Roast == "")
}
