package ingest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"beanlog/internal/models"
)

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// RSSSource imports cafes from one RSS/Atom directory feed. Each feed entry
// maps to one cafe: title = name, description = blurb, link = dedup key.
type RSSSource struct {
	SourceName string
	FeedURL    string
}

func (s *RSSSource) Name() string { return s.SourceName }

func (s *RSSSource) Fetch() ([]models.Cafe, error) {
	fp := gofeed.NewParser()
	fp.Client = httpClient
	feed, err := fp.ParseURL(s.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", s.FeedURL, err)
	}
	return cafesFromFeed(s.SourceName, feed), nil
}

func cafesFromFeed(source string, feed *gofeed.Feed) []models.Cafe {
	cafes := make([]models.Cafe, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry.Title == "" || entry.Link == "" {
			continue
		}
		cafes = append(cafes, models.Cafe{
			Name:        entry.Title,
			Description: entry.Description,
			Source:      source,
			SourceURL:   entry.Link,
		})
	}
	return cafes
}
