package ingest

import (
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Seoul Cafe Guide</title>
    <item>
      <title>프릳츠 도화점</title>
      <link>https://example.com/cafes/fritz-dohwa</link>
      <description>원두 직접 로스팅, 페이스트리 맛집</description>
    </item>
    <item>
      <title>Anthracite Hapjeong</title>
      <link>https://example.com/cafes/anthracite</link>
      <description>Industrial roastery cafe</description>
    </item>
    <item>
      <title></title>
      <link>https://example.com/cafes/broken</link>
    </item>
  </channel>
</rss>`

func TestCafesFromFeed(t *testing.T) {
	parsed, err := gofeed.NewParser().ParseString(sampleFeed)
	require.NoError(t, err)

	cafes := cafesFromFeed("seoul-guide", parsed)

	require.Len(t, cafes, 2, "entries without a title are skipped")
	assert.Equal(t, "프릳츠 도화점", cafes[0].Name)
	assert.Equal(t, "https://example.com/cafes/fritz-dohwa", cafes[0].SourceURL)
	assert.Equal(t, "seoul-guide", cafes[0].Source)
	assert.Equal(t, "Anthracite Hapjeong", cafes[1].Name)
}
