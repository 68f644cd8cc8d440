// Package sitegen writes the crawler artifacts of the site: XML sitemaps,
// the HTML sitemap and robots.txt.
package sitegen

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/feedmarketer/feedsite/content"
)

// DefaultMaxURLsPerSitemap is the chunk size above which the sitemap is
// split into an index and numbered files.
const DefaultMaxURLsPerSitemap = 200

// PostLister supplies the posts to list.
type PostLister interface {
	All(ctx context.Context) ([]content.Post, error)
}

// Config controls where and how artifacts are generated.
type Config struct {
	SiteURL           string
	Domain            string
	PublicDir         string
	Pages             []Page
	MaxURLsPerSitemap int
	CrawlDelay        int
}

func (c *Config) setDefaults() {
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.Pages == nil {
		c.Pages = DefaultPages
	}
	if c.MaxURLsPerSitemap <= 0 {
		c.MaxURLsPerSitemap = DefaultMaxURLsPerSitemap
	}
	if c.CrawlDelay == 0 {
		c.CrawlDelay = DefaultCrawlDelay
	}
}

// Generator writes artifacts for the posts of a PostLister.
type Generator struct {
	cfg    Config
	posts  PostLister
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger for progress messages.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClock replaces time.Now for lastmod and footer dates.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator.
func New(cfg Config, posts PostLister, opts ...Option) *Generator {
	cfg.setDefaults()
	g := &Generator{
		cfg:    cfg,
		posts:  posts,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the effective configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Files renders every artifact in memory without touching the disk.
func (g *Generator) Files(ctx context.Context) ([]File, error) {
	posts, err := g.posts.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	today := g.now().UTC()

	urls := URLs(g.cfg.SiteURL, g.cfg.Pages, posts, today)
	files, err := BuildSitemaps(g.cfg.SiteURL, urls, g.cfg.MaxURLsPerSitemap, today)
	if err != nil {
		return nil, err
	}
	g.logger.Info("built sitemap", "urls", len(urls), "files", len(files), "posts", len(posts))

	var html bytes.Buffer
	page := HTMLSitemap(HTMLSitemapData{
		Domain:  g.cfg.Domain,
		Pages:   g.cfg.Pages,
		Posts:   posts,
		Updated: today,
	})
	if err := page.Render(ctx, &html); err != nil {
		return nil, fmt.Errorf("render html sitemap: %w", err)
	}
	files = append(files,
		File{Name: HTMLSitemapFile, Data: html.Bytes()},
		File{Name: RobotsFile, Data: []byte(RobotsTxt(g.cfg.SiteURL, g.cfg.CrawlDelay))},
	)
	return files, nil
}

// Generate writes every artifact under the public directory. Stale sitemap
// chunks are removed when the sitemap is split. The first write failure
// stops the run.
func (g *Generator) Generate(ctx context.Context) error {
	files, err := g.Files(ctx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(g.cfg.PublicDir, 0o755); err != nil {
		return fmt.Errorf("create public dir: %w", err)
	}
	if isChunked(files) {
		if err := g.removeStaleChunks(); err != nil {
			return err
		}
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(g.cfg.PublicDir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", f.Name, err)
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Name, err)
		}
		g.logger.Debug("wrote artifact", "file", path, "bytes", len(f.Data))
	}
	g.logger.Info("generated site artifacts", "dir", g.cfg.PublicDir, "files", len(files))
	return nil
}

func isChunked(files []File) bool {
	for _, f := range files {
		if strings.HasPrefix(f.Name, SitemapDir+"/") {
			return true
		}
	}
	return false
}

func (g *Generator) removeStaleChunks() error {
	dir := filepath.Join(g.cfg.PublicDir, SitemapDir)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "sitemap") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("remove stale %s: %w", name, err)
		}
	}
	return nil
}
