package models

import "gorm.io/gorm"

// Cafe is a directory entry reviews attach to. Entries are created by the
// review flow or imported from curated directory feeds.
type Cafe struct {
	gorm.Model
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Source      string `json:"source"`                      // directory feed the entry came from, empty for user-created
	SourceURL   string `json:"source_url" gorm:"index"` // dedup key for imported entries, empty for user-created
}
