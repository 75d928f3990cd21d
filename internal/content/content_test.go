package content_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/vrn-registry/internal/content"
	"github.com/couchcryptid/vrn-registry/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overrideYAML = `
name: VRN Staging
pages:
  about:
    title: About (staging)
  signup:
    title: Sign up (staging)
`

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
}

func TestDefault(t *testing.T) {
	site, err := content.Default()
	require.NoError(t, err)

	assert.Equal(t, "Verified Response Network", site.Name)
	assert.NotEmpty(t, site.Notice)

	about := site.Pages[content.PageAbout]
	require.Len(t, about.Sections, 2)
	assert.Len(t, about.Sections[0].Items, 5)
	assert.Equal(t, "Documentation review", about.Sections[0].Items[0].Title)
	assert.Len(t, about.Sections[1].Paragraphs, 5)

	signup := site.Pages[content.PageSignup]
	require.NotEmpty(t, signup.Sections)
	assert.Len(t, signup.Sections[0].Items, 2)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	site, err := content.Load("")
	require.NoError(t, err)
	assert.Equal(t, "Verified Response Network", site.Name)
}

func TestLoad_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	writeFile(t, path, overrideYAML)

	site, err := content.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "VRN Staging", site.Name)
	assert.Equal(t, "About (staging)", site.Pages[content.PageAbout].Title)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := content.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"bad yaml", "name: [unterminated"},
		{"missing name", "pages:\n  about:\n    title: A\n  signup:\n    title: S\n"},
		{"missing signup page", "name: X\npages:\n  about:\n    title: A\n"},
		{"untitled page", "name: X\npages:\n  about:\n    title: A\n  signup:\n    eyebrow: S\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := content.Parse([]byte(tc.data))
			require.Error(t, err)
		})
	}
}

func TestStore_Page(t *testing.T) {
	site, err := content.Default()
	require.NoError(t, err)
	store := content.NewStore(site, slog.Default(), observability.NewMetricsForTesting())

	page, ok := store.Page(content.PageAbout)
	require.True(t, ok)
	assert.NotEmpty(t, page.Title)

	_, ok = store.Page("press")
	assert.False(t, ok)
}

func TestStore_Reload_KeepsPreviousOnError(t *testing.T) {
	site, err := content.Default()
	require.NoError(t, err)
	metrics := observability.NewMetricsForTesting()
	store := content.NewStore(site, slog.Default(), metrics)

	path := filepath.Join(t.TempDir(), "content.yaml")
	writeFile(t, path, "name: [broken")

	require.Error(t, store.Reload(path))
	assert.Equal(t, "Verified Response Network", store.Site().Name)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ContentReloads.WithLabelValues("error")), 0)

	writeFile(t, path, overrideYAML)
	require.NoError(t, store.Reload(path))
	assert.Equal(t, "VRN Staging", store.Site().Name)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ContentReloads.WithLabelValues("success")), 0)
}

func TestStore_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	writeFile(t, path, overrideYAML)

	site, err := content.Load(path)
	require.NoError(t, err)
	store := content.NewStore(site, slog.Default(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.Watch(ctx, path))

	writeFile(t, path, "name: VRN Updated\npages:\n  about:\n    title: A\n  signup:\n    title: S\n")

	assert.Eventually(t, func() bool {
		return store.Site().Name == "VRN Updated"
	}, 2*time.Second, 20*time.Millisecond)
}
