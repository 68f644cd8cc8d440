package feedsite

import (
	"context"
	"sync"
	"time"

	"github.com/feedmarketer/feedsite/content"
	"github.com/feedmarketer/feedsite/search"
)

// PostSource supplies posts sorted newest first.
type PostSource interface {
	All(ctx context.Context) ([]content.Post, error)
}

// PostCache is an in-memory cache of posts and their search index with TTL.
// A zero TTL disables caching: every call reads the source again.
type PostCache struct {
	mu      sync.RWMutex
	snap    *snapshot
	fetched time.Time
	ttl     time.Duration
	source  PostSource
}

type snapshot struct {
	posts []content.Post

	indexOnce sync.Once
	index     *search.Index
	indexErr  error
}

func (s *snapshot) searchIndex() (*search.Index, error) {
	s.indexOnce.Do(func() {
		s.index, s.indexErr = search.Build(s.posts)
	})
	return s.index, s.indexErr
}

func (s *snapshot) close() {
	s.indexOnce.Do(func() {})
	if s.index != nil {
		s.index.Close()
	}
}

// NewPostCache creates a PostCache backed by src.
func NewPostCache(src PostSource, ttl time.Duration) *PostCache {
	return &PostCache{source: src, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.ttl > 0 && c.snap != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

// ensureLoaded returns a fresh snapshot. It tries a read lock first and only
// takes the write lock if a reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) (*snapshot, error) {
	c.mu.RLock()
	if c.valid() {
		snap := c.snap
		c.mu.RUnlock()
		return snap, nil
	}
	c.mu.RUnlock()

	if c.ttl <= 0 {
		posts, err := c.source.All(ctx)
		if err != nil {
			return nil, err
		}
		return &snapshot{posts: posts}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.snap, nil
	}
	posts, err := c.source.All(ctx)
	if err != nil {
		return nil, err
	}
	// Replaced snapshots may still be searched by in-flight requests, so
	// their indexes are left to the garbage collector.
	c.snap = &snapshot{posts: posts}
	c.fetched = time.Now()
	return c.snap, nil
}

// All returns every post, newest first.
func (c *PostCache) All(ctx context.Context) ([]content.Post, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return snap.posts, nil
}

// GetPost returns the newest post with the given slug, or
// content.ErrNotFound.
func (c *PostCache) GetPost(ctx context.Context, slug string) (content.Post, error) {
	posts, err := c.All(ctx)
	if err != nil {
		return content.Post{}, err
	}
	if p, ok := content.FindBySlug(posts, slug); ok {
		return p, nil
	}
	return content.Post{}, content.ErrNotFound
}

// Search runs a full-text query over the cached posts.
func (c *PostCache) Search(ctx context.Context, q string, limit int) ([]search.Hit, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := snap.searchIndex()
	if err != nil {
		return nil, err
	}
	if c.ttl <= 0 {
		defer snap.close()
	}
	return idx.Search(q, limit)
}

// Close releases the current search index.
func (c *PostCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap != nil {
		c.snap.close()
		c.snap = nil
	}
	return nil
}
