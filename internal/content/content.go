// Package content serves the static informational pages: the about page with
// the verification process and legal statements, the sign-up page, and the
// site notice. The defaults are embedded; an override file can be loaded and
// watched for changes.
package content

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/couchcryptid/vrn-registry/internal/observability"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Required page slugs.
const (
	PageAbout  = "about"
	PageSignup = "signup"
)

// Site is the full set of informational content.
type Site struct {
	Name      string          `yaml:"name" json:"name"`
	Tagline   string          `yaml:"tagline" json:"tagline"`
	Notice    string          `yaml:"notice" json:"notice"`
	Copyright string          `yaml:"copyright" json:"copyright"`
	Pages     map[string]Page `yaml:"pages" json:"pages"`
}

// Page is one informational page.
type Page struct {
	Eyebrow  string    `yaml:"eyebrow" json:"eyebrow,omitempty"`
	Title    string    `yaml:"title" json:"title"`
	Subtitle string    `yaml:"subtitle" json:"subtitle,omitempty"`
	Sections []Section `yaml:"sections" json:"sections"`
}

// Section is a heading with either numbered items, paragraphs, or both.
type Section struct {
	Heading    string   `yaml:"heading" json:"heading"`
	Summary    string   `yaml:"summary" json:"summary,omitempty"`
	Items      []Item   `yaml:"items" json:"items,omitempty"`
	Paragraphs []string `yaml:"paragraphs" json:"paragraphs,omitempty"`
}

// Item is one step or option within a section.
type Item struct {
	Title  string `yaml:"title" json:"title"`
	Detail string `yaml:"detail" json:"detail"`
}

// Default returns the embedded content.
func Default() (*Site, error) {
	return Parse(defaultContent)
}

// Load reads the content file at path, or the embedded default when path is
// empty.
func Load(path string) (*Site, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	site, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return site, nil
}

// Parse decodes and validates YAML content.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := site.validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *Site) validate() error {
	if s.Name == "" {
		return errors.New("content name is required")
	}
	for _, slug := range []string{PageAbout, PageSignup} {
		if _, ok := s.Pages[slug]; !ok {
			return fmt.Errorf("content page %q is required", slug)
		}
	}
	for slug, page := range s.Pages {
		if page.Title == "" {
			return fmt.Errorf("content page %q has no title", slug)
		}
	}
	return nil
}

// Store holds the current Site and swaps it on reload.
type Store struct {
	site    atomic.Pointer[Site]
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewStore creates a Store serving site.
func NewStore(site *Site, logger *slog.Logger, metrics *observability.Metrics) *Store {
	s := &Store{logger: logger, metrics: metrics}
	s.site.Store(site)
	return s
}

// Site returns the current content.
func (s *Store) Site() *Site {
	return s.site.Load()
}

// Page looks up a page by slug.
func (s *Store) Page(slug string) (Page, bool) {
	p, ok := s.site.Load().Pages[slug]
	return p, ok
}

// Reload reads path and swaps in the new content. On failure the current
// content is kept.
func (s *Store) Reload(path string) error {
	site, err := Load(path)
	if err != nil {
		s.metrics.ContentReloads.WithLabelValues("error").Inc()
		return err
	}
	s.site.Store(site)
	s.metrics.ContentReloads.WithLabelValues("success").Inc()
	return nil
}

// Watch reloads path whenever it is written or replaced, until ctx is done.
// The parent directory is watched so editors that save by rename are seen.
func (s *Store) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target || evt.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := s.Reload(path); err != nil {
					s.logger.Warn("content reload failed, keeping previous content", "path", path, "error", err)
					continue
				}
				s.logger.Info("content reloaded", "path", path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("content watcher error", "error", err)
			}
		}
	}()
	return nil
}
