// Package ingest seeds the cafe directory from curated RSS sources: city
// cafe guides, roaster announcement feeds, anything that lists one cafe per
// entry. Runs at startup and on a timer; entries are deduped by their source
// URL so re-running a feed is safe.
package ingest

import (
	"log"
	"time"

	"gorm.io/gorm"

	"beanlog/internal/models"
)

type Source interface {
	Name() string
	Fetch() ([]models.Cafe, error)
}

// Run performs one import pass over all sources.
func Run(db *gorm.DB, sources []Source) {
	log.Println("Starting cafe import...")

	for _, src := range sources {
		log.Printf("Importing from %s...", src.Name())
		cafes, err := src.Fetch()
		if err != nil {
			log.Printf("Failed to import from %s: %v", src.Name(), err)
			continue
		}

		log.Printf("Got %d entries from %s", len(cafes), src.Name())

		for _, cafe := range cafes {
			if cafe.SourceURL == "" {
				continue
			}
			var existing models.Cafe
			if err := db.Where("source_url = ?", cafe.SourceURL).First(&existing).Error; err == nil {
				continue // already imported
			}
			if err := db.Create(&cafe).Error; err != nil {
				log.Printf("Failed to save cafe %s: %v", cafe.Name, err)
			}
		}
	}

	log.Println("Cafe import completed")
}

// RunPeriodically runs an import immediately and then once per interval.
func RunPeriodically(db *gorm.DB, sources []Source, interval time.Duration) {
	Run(db, sources)

	ticker := time.NewTicker(interval)
	for range ticker.C {
		Run(db, sources)
	}
}
