package feedsite

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/feedmarketer/feedsite/content"
)

type countingSource struct {
	posts []content.Post
	err   error
	calls atomic.Int32
}

func (s *countingSource) All(context.Context) ([]content.Post, error) {
	s.calls.Add(1)
	return s.posts, s.err
}

func mustPost(t *testing.T, source, raw string) content.Post {
	t.Helper()
	p, err := content.BuildPost(source, raw, "Feed Team", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("BuildPost(%s) error: %v", source, err)
	}
	return p
}

func fixturePosts(t *testing.T) []content.Post {
	posts := []content.Post{
		mustPost(t, "alpha.md", "---\ndate: 2024-05-01\n---\n# Alpha Hooks on TikTok\n\nHooks win attention. More text here.\n\nhttps://youtu.be/dQw4w9WgXcQ\n"),
		mustPost(t, "beta.md", "---\ndate: 2024-04-01\n---\n# Beta Reels\n\nReels reward consistency.\n"),
		mustPost(t, "gamma.md", "---\ndate: 2024-03-01\n---\n# Gamma Growth\n\nGrowth takes time.\n"),
		mustPost(t, "delta.md", "---\ndate: 2024-02-01\n---\n# Delta Data\n\nMeasure everything.\n"),
		mustPost(t, "epsilon.md", "---\ndate: 2024-01-01\n---\n# Epsilon Editing\n\nCut the slow parts.\n"),
	}
	content.SortNewestFirst(posts)
	return posts
}

func TestPostCacheZeroTTLReloads(t *testing.T) {
	src := &countingSource{posts: fixturePosts(t)}
	cache := NewPostCache(src, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := cache.All(ctx); err != nil {
			t.Fatalf("All() error: %v", err)
		}
	}
	if n := src.calls.Load(); n != 3 {
		t.Errorf("source read %d times, want 3", n)
	}
}

func TestPostCacheTTL(t *testing.T) {
	src := &countingSource{posts: fixturePosts(t)}
	cache := NewPostCache(src, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := cache.All(ctx); err != nil {
			t.Fatalf("All() error: %v", err)
		}
	}
	if n := src.calls.Load(); n != 1 {
		t.Errorf("source read %d times, want 1", n)
	}

	cache.Invalidate()
	if _, err := cache.All(ctx); err != nil {
		t.Fatalf("All() error: %v", err)
	}
	if n := src.calls.Load(); n != 2 {
		t.Errorf("source read %d times after Invalidate, want 2", n)
	}
}

func TestPostCacheGetPost(t *testing.T) {
	cache := NewPostCache(&countingSource{posts: fixturePosts(t)}, time.Hour)
	ctx := context.Background()

	p, err := cache.GetPost(ctx, "beta-reels")
	if err != nil {
		t.Fatalf("GetPost() error: %v", err)
	}
	if p.Title != "Beta Reels" {
		t.Errorf("Title = %q", p.Title)
	}
	if _, err := cache.GetPost(ctx, "missing"); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("GetPost(missing) error = %v, want content.ErrNotFound", err)
	}
}

func TestPostCacheSourceError(t *testing.T) {
	boom := errors.New("boom")
	cache := NewPostCache(&countingSource{err: boom}, time.Hour)
	if _, err := cache.All(context.Background()); !errors.Is(err, boom) {
		t.Errorf("All() error = %v, want %v", err, boom)
	}
}

func TestPostCacheSearch(t *testing.T) {
	for _, ttl := range []time.Duration{0, time.Hour} {
		cache := NewPostCache(&countingSource{posts: fixturePosts(t)}, ttl)
		hits, err := cache.Search(context.Background(), "reels", 5)
		if err != nil {
			t.Fatalf("ttl %v: Search() error: %v", ttl, err)
		}
		if len(hits) == 0 || hits[0].Slug != "beta-reels" {
			t.Errorf("ttl %v: hits = %+v, want beta-reels first", ttl, hits)
		}
		if err := cache.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	}
}
