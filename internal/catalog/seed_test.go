package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	items, err := DefaultSeed()
	require.NoError(t, err)
	require.Len(t, items, 8)

	featured := 0
	for _, it := range items {
		assert.NotEmpty(t, it.ID)
		assert.NotEmpty(t, it.Title)
		assert.Equal(t, KindMovie, it.Kind)
		assert.Equal(t, SourceRemote, it.Source.Kind)
		assert.NotEmpty(t, it.Source.URL)
		if it.Featured {
			featured++
		}
	}
	assert.Equal(t, 1, featured)
	assert.Equal(t, "Avatar: The Last Airbender", items[6].Title)
}

func TestLoadSeed_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	data := `
- id: s1
  title: Dark
  description: Time travel in a small town.
  category: sci-fi
  kind: series
  seasons: 3
  source: {url: https://example.com/dark.mp4}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	items, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, KindSeries, items[0].Kind)
	assert.Equal(t, 3, items[0].Seasons)
	assert.Equal(t, RemoteSource("https://example.com/dark.mp4"), items[0].Source)
	assert.Equal(t, []string{}, items[0].Genres)
}

func TestLoadSeed_Errors(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseSeed([]byte("id: [unterminated"))
	assert.Error(t, err)
}
