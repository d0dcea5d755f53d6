package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"beanlog/internal/api"
	"beanlog/internal/feed"
	"beanlog/internal/ingest"
	"beanlog/internal/models"
	"beanlog/internal/store"
)

// Secondary indexes the filtered feed paths need. Created best-effort: a
// path whose index is absent degrades at runtime instead of failing.
var reviewIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_reviews_flavor_acidity ON reviews (flavor_acidity DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_flavor_sweetness ON reviews (flavor_sweetness DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_flavor_body ON reviews (flavor_body DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_flavor_bitterness ON reviews (flavor_bitterness DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_flavor_aroma ON reviews (flavor_aroma DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_rating ON reviews (rating DESC, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_basic_tags ON reviews USING GIN ((basic_tags::jsonb))`,
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=beanlog port=5432 sslmode=disable"
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}
	db.AutoMigrate(&models.Cafe{}, &models.Review{}, &models.UserPreferences{})
	for _, stmt := range reviewIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			log.Printf("Failed to create index: %v", err)
		}
	}

	st, err := store.New(db)
	if err != nil {
		log.Fatal("Failed to init review store:", err)
	}
	feedService := feed.NewService(st)

	// cafe directory import job
	if sources := cafeSources(os.Getenv("CAFE_FEEDS")); len(sources) > 0 {
		go ingest.RunPeriodically(db, sources, 1*time.Hour)
	} else {
		log.Println("CAFE_FEEDS not set, cafe import disabled")
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "beanlog"})
	})

	handler := api.NewHandler(db, feedService)
	handler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on :%s", port)
	r.Run(":" + port)
}

// cafeSources parses CAFE_FEEDS, a comma-separated list of name=url pairs.
func cafeSources(env string) []ingest.Source {
	var sources []ingest.Source
	for _, pair := range strings.Split(env, ",") {
		name, url, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" || url == "" {
			continue
		}
		sources = append(sources, &ingest.RSSSource{SourceName: name, FeedURL: url})
	}
	return sources
}
