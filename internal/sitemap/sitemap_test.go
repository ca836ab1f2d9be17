package sitemap

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2026, 3, 14, 18, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))

func TestBuildListsEveryRoute(t *testing.T) {
	raw, err := Build("https://shop.example.in/", Routes, generatedAt)
	require.NoError(t, err)

	var set urlSet
	require.NoError(t, xml.Unmarshal(raw, &set))
	require.Len(t, set.URLs, len(Routes))
	assert.Equal(t, "https://shop.example.in/", set.URLs[0].Loc)
	assert.Equal(t, "https://shop.example.in/sarees", set.URLs[1].Loc)
	assert.Equal(t, "2026-03-14", set.URLs[0].LastMod)
	assert.Equal(t, "1.0", set.URLs[0].Priority)
	assert.Contains(t, string(raw), `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
}

func TestBuildRequiresBaseURL(t *testing.T) {
	_, err := Build(" ", Routes, generatedAt)
	assert.Error(t, err)
}

func TestWriteCreatesBothFiles(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	dir := filepath.Join(t.TempDir(), "public")

	require.NoError(t, Write(dir, "https://shop.example.in", Routes, generatedAt, logger))

	robots, err := os.ReadFile(filepath.Join(dir, "robots.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(robots), "Disallow: /admin\n")
	assert.Contains(t, string(robots), "Sitemap: https://shop.example.in/sitemap.xml")

	_, err = os.Stat(filepath.Join(dir, "sitemap.xml"))
	assert.NoError(t, err)
}
