package models

import (
	"strings"

	"gorm.io/gorm"
)

// Roasting levels accepted on a review. Matching is case-insensitive.
const (
	RoastLight  = "Light"
	RoastMedium = "Medium"
	RoastDark   = "Dark"
)

// FlavorProfile holds the five taste axes of a review, each in [0,5].
// A nil axis means the reviewer did not rate it.
type FlavorProfile struct {
	Acidity    *float64 `json:"acidity"`
	Sweetness  *float64 `json:"sweetness"`
	Body       *float64 `json:"body"`
	Bitterness *float64 `json:"bitterness"`
	Aroma      *float64 `json:"aroma"`
}

// Empty reports whether no axis was rated at all.
func (p FlavorProfile) Empty() bool {
	return p.Acidity == nil && p.Sweetness == nil && p.Body == nil &&
		p.Bitterness == nil && p.Aroma == nil
}

type Review struct {
	gorm.Model
	CafeID  uint    `json:"cafe_id" gorm:"index"`
	UserID  uint    `json:"user_id" gorm:"index"`
	Rating  float64 `json:"rating"` // 0-5
	Content string  `json:"content"`

	// 기본맛 태그 (e.g. "라떼", "산미")
	BasicTags []string `json:"basic_tags" gorm:"serializer:json"`

	Flavor FlavorProfile `json:"flavor_profile" gorm:"embedded;embeddedPrefix:flavor_"`

	// Light / Medium / Dark, empty when the reviewer skipped it
	Roasting string `json:"roasting"`
}

// RoastingEquals compares the roasting level case-insensitively.
func (r Review) RoastingEquals(level string) bool {
	return r.Roasting != "" && strings.EqualFold(r.Roasting, level)
}

// HasTag reports set membership on the basic taste tags.
func (r Review) HasTag(tag string) bool {
	for _, t := range r.BasicTags {
		if t == tag {
			return true
		}
	}
	return false
}
