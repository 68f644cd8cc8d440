// Package content turns a directory of markdown documents into blog posts.
//
// Every read walks and parses the directory again; nothing is cached here.
package content

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Repository loads posts from a content directory.
type Repository struct {
	root          string
	ext           string
	defaultAuthor string
	now           func() time.Time
	logger        *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for skipped files and slug collisions.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDefaultAuthor sets the author used when a document names none.
func WithDefaultAuthor(author string) Option {
	return func(r *Repository) {
		r.defaultAuthor = author
	}
}

// WithClock replaces time.Now for stamping undated posts.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithExtension sets the file extension of content documents (default ".md").
func WithExtension(ext string) Option {
	return func(r *Repository) {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.ext = ext
	}
}

// NewRepository creates a Repository rooted at dir.
func NewRepository(dir string, opts ...Option) *Repository {
	r := &Repository{
		root:   dir,
		ext:    ".md",
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the content directory.
func (r *Repository) Root() string {
	return r.root
}

// All reads every document under the root and returns the posts newest
// first. Files that cannot be read or yield no slug are logged and skipped.
// A missing or unreadable root gives an empty list.
func (r *Repository) All(ctx context.Context) ([]Post, error) {
	paths := r.files()
	now := r.now()

	posts := make([]Post, 0, len(paths))
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := os.ReadFile(filepath.Join(r.root, rel))
		if err != nil {
			r.logger.Warn("skipping unreadable post", "path", rel, "error", err)
			continue
		}
		post, err := BuildPost(rel, string(raw), r.defaultAuthor, now)
		if err != nil {
			r.logger.Warn("skipping post", "path", rel, "error", err)
			continue
		}
		posts = append(posts, post)
	}

	SortNewestFirst(posts)
	r.reportCollisions(posts)
	return posts, nil
}

// BySlug returns the newest post with the given slug, or ErrNotFound.
func (r *Repository) BySlug(ctx context.Context, slug string) (Post, error) {
	posts, err := r.All(ctx)
	if err != nil {
		return Post{}, err
	}
	if p, ok := FindBySlug(posts, slug); ok {
		return p, nil
	}
	return Post{}, ErrNotFound
}

// files returns content file paths relative to the root in lexical order.
func (r *Repository) files() []string {
	var paths []string
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == r.root {
				return err
			}
			r.logger.Warn("skipping unreadable content path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), r.ext) {
			return nil
		}
		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			rel = path
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		r.logger.Warn("content directory unavailable", "dir", r.root, "error", err)
		return nil
	}
	return paths
}

func (r *Repository) reportCollisions(posts []Post) {
	seen := make(map[string]string, len(posts))
	for _, p := range posts {
		if first, ok := seen[p.Slug]; ok {
			r.logger.Warn("duplicate post slug, newer post wins lookups",
				"slug", p.Slug, "kept", first, "shadowed", p.Source)
			continue
		}
		seen[p.Slug] = p.Source
	}
}
