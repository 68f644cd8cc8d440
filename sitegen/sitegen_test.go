package sitegen

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/feedmarketer/feedsite/content"
)

var today = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type fakeLister struct {
	posts []content.Post
	err   error
}

func (f fakeLister) All(context.Context) ([]content.Post, error) {
	return f.posts, f.err
}

func makePosts(n int) []content.Post {
	posts := make([]content.Post, n)
	for i := range posts {
		posts[i] = content.Post{
			Title:       fmt.Sprintf("Post %d", i),
			Slug:        fmt.Sprintf("post-%d", i),
			PublishedAt: today.AddDate(0, 0, -i),
		}
	}
	return posts
}

func newTestGenerator(t *testing.T, posts []content.Post) (*Generator, string) {
	t.Helper()
	dir := t.TempDir()
	g := New(Config{
		SiteURL:   "https://feedmarketer.com",
		Domain:    "feedmarketer.com",
		PublicDir: dir,
	}, fakeLister{posts: posts},
		WithClock(func() time.Time { return today }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return g, dir
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		expected string
	}{
		{"https://feedmarketer.com", nil, "https://feedmarketer.com/"},
		{"https://feedmarketer.com", []string{"/"}, "https://feedmarketer.com/"},
		{"https://feedmarketer.com", []string{"/blog/"}, "https://feedmarketer.com/blog/"},
		{"https://feedmarketer.com/", []string{"my-post"}, "https://feedmarketer.com/my-post/"},
	}
	for _, tt := range tests {
		got := BuildURL(tt.base, tt.segments...)
		if got != tt.expected {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.expected)
		}
	}
}

func TestChunk(t *testing.T) {
	items := make([]int, 450)
	chunks := Chunk(items, 200)
	if len(chunks) != 3 {
		t.Fatalf("len(chunks) = %d, want 3", len(chunks))
	}
	for i, want := range []int{200, 200, 50} {
		if len(chunks[i]) != want {
			t.Errorf("len(chunks[%d]) = %d, want %d", i, len(chunks[i]), want)
		}
	}
	if got := Chunk([]int{}, 200); len(got) != 0 {
		t.Errorf("Chunk(empty) = %v, want none", got)
	}
	if got := Chunk(make([]int, 200), 200); len(got) != 1 {
		t.Errorf("Chunk(200, 200) gave %d chunks, want 1", len(got))
	}
}

func TestURLs(t *testing.T) {
	posts := []content.Post{
		{Slug: "dated", PublishedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{Slug: "undated", Date: "someday"},
	}
	urls := URLs("https://feedmarketer.com", DefaultPages, posts, today)
	if len(urls) != len(DefaultPages)+2 {
		t.Fatalf("len(urls) = %d", len(urls))
	}
	home := urls[0]
	if home.Loc != "https://feedmarketer.com/" || home.Priority != 1.0 || home.LastMod != "2025-06-01" {
		t.Errorf("home = %+v", home)
	}
	dated := urls[len(DefaultPages)]
	if dated.Loc != "https://feedmarketer.com/dated/" || dated.LastMod != "2024-03-01" || dated.Priority != PostPriority {
		t.Errorf("dated = %+v", dated)
	}
	if undated := urls[len(DefaultPages)+1]; undated.LastMod != "2025-06-01" {
		t.Errorf("undated lastmod = %q, want today", undated.LastMod)
	}
}

func TestURLsSkipsShadowedSlugs(t *testing.T) {
	posts := []content.Post{
		{Title: "Same Title", Slug: "same-title", PublishedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "Same Title", Slug: "same-title", PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "Other", Slug: "other", PublishedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	urls := URLs("https://feedmarketer.com", nil, posts, today)
	if len(urls) != 2 {
		t.Fatalf("got %d URL records, want 2: %+v", len(urls), urls)
	}
	if urls[0].Loc != "https://feedmarketer.com/same-title/" || urls[0].LastMod != "2024-03-01" {
		t.Errorf("kept %+v, want the newest same-title post", urls[0])
	}

	var buf bytes.Buffer
	err := HTMLSitemap(HTMLSitemapData{Domain: "feedmarketer.com", Posts: posts, Updated: today}).
		Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if n := strings.Count(buf.String(), `href="/same-title/"`); n != 1 {
		t.Errorf("html sitemap links same-title %d times, want 1", n)
	}
	if !strings.Contains(buf.String(), "Mar 1, 2024") || strings.Contains(buf.String(), "Jan 1, 2024") {
		t.Error("html sitemap should show only the newest same-title post")
	}
}

func TestRobotsTxt(t *testing.T) {
	got := RobotsTxt("https://feedmarketer.com", 10)
	for _, want := range []string{
		"User-agent: *\n",
		"Allow: /\n",
		"Sitemap: https://feedmarketer.com/sitemap.xml\n",
		"# https://feedmarketer.com/sitemap.html\n",
		"Crawl-delay: 10\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RobotsTxt() missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(RobotsTxt("https://x.com", 0), "Crawl-delay") {
		t.Error("RobotsTxt(0) should omit Crawl-delay")
	}
}

func TestGenerateSingleSitemap(t *testing.T) {
	g, dir := newTestGenerator(t, makePosts(3))
	if err := g.Generate(context.Background()); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, SitemapFile))
	if err != nil {
		t.Fatal(err)
	}
	var set sitemapURLSet
	if err := xml.Unmarshal(data, &set); err != nil {
		t.Fatalf("sitemap.xml is not a urlset: %v", err)
	}
	if len(set.URLs) != len(DefaultPages)+3 {
		t.Errorf("urlset has %d urls, want %d", len(set.URLs), len(DefaultPages)+3)
	}
	if set.URLs[0].Priority != "1.0" {
		t.Errorf("home priority = %q, want 1.0", set.URLs[0].Priority)
	}
	if _, err := os.Stat(filepath.Join(dir, SitemapDir)); !os.IsNotExist(err) {
		t.Errorf("sitemaps dir should not exist, stat error: %v", err)
	}
	for _, name := range []string{HTMLSitemapFile, RobotsFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestGenerateChunkedSitemap(t *testing.T) {
	// 445 posts plus the 5 static pages make 450 URLs.
	g, dir := newTestGenerator(t, makePosts(445))

	stale := filepath.Join(dir, SitemapDir, "sitemap-9.xml")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := g.Generate(context.Background()); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	for i, want := range []int{200, 200, 50} {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(ChunkName(i+1))))
		if err != nil {
			t.Fatalf("chunk %d: %v", i+1, err)
		}
		var set sitemapURLSet
		if err := xml.Unmarshal(data, &set); err != nil {
			t.Fatalf("chunk %d: %v", i+1, err)
		}
		if len(set.URLs) != want {
			t.Errorf("chunk %d has %d urls, want %d", i+1, len(set.URLs), want)
		}
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale chunk not removed, stat error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, SitemapFile))
	if err != nil {
		t.Fatal(err)
	}
	var index sitemapIndex
	if err := xml.Unmarshal(data, &index); err != nil {
		t.Fatalf("sitemap.xml is not an index: %v", err)
	}
	if len(index.Sitemaps) != 3 {
		t.Fatalf("index has %d entries, want 3", len(index.Sitemaps))
	}
	for i, s := range index.Sitemaps {
		want := fmt.Sprintf("https://feedmarketer.com/sitemaps/sitemap-%d.xml", i+1)
		if s.Loc != want {
			t.Errorf("index[%d].Loc = %q, want %q", i, s.Loc, want)
		}
		if s.LastMod != "2025-06-01" {
			t.Errorf("index[%d].LastMod = %q", i, s.LastMod)
		}
	}
}

func TestGenerateStopsOnWriteFailure(t *testing.T) {
	g, dir := newTestGenerator(t, makePosts(1))
	// A directory where the HTML sitemap should go makes that write fail.
	if err := os.Mkdir(filepath.Join(dir, HTMLSitemapFile), 0o755); err != nil {
		t.Fatal(err)
	}

	err := g.Generate(context.Background())
	if err == nil || !strings.Contains(err.Error(), HTMLSitemapFile) {
		t.Fatalf("Generate() error = %v, want failure naming %s", err, HTMLSitemapFile)
	}
	if _, err := os.Stat(filepath.Join(dir, RobotsFile)); !os.IsNotExist(err) {
		t.Errorf("robots.txt written after failure, stat error: %v", err)
	}
}

func TestGenerateLoadError(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")
	g := New(Config{PublicDir: dir}, fakeLister{err: boom})
	if err := g.Generate(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Generate() error = %v, want %v", err, boom)
	}
}

func TestHTMLSitemap(t *testing.T) {
	posts := []content.Post{
		{Title: "Undated", Slug: "undated", Date: "someday"},
		{Title: "Older", Slug: "older", PublishedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Excerpt: "Old news."},
		{Title: "Newer <b>", Slug: "newer", PublishedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	var buf bytes.Buffer
	err := HTMLSitemap(HTMLSitemapData{
		Domain:  "feedmarketer.com",
		Pages:   DefaultPages,
		Posts:   posts,
		Updated: today,
	}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	html := buf.String()

	newer := strings.Index(html, `href="/newer/"`)
	older := strings.Index(html, `href="/older/"`)
	undated := strings.Index(html, `href="/undated/"`)
	if newer < 0 || older < 0 || undated < 0 {
		t.Fatalf("missing post links:\n%s", html)
	}
	if !(newer < older && older < undated) {
		t.Errorf("post order = newer@%d older@%d undated@%d, want newest first and undated last", newer, older, undated)
	}
	for _, want := range []string{
		`<a href="/blog/">Blog</a>`,
		"Mar 1, 2024",
		`<div class="description">Old news.</div>`,
		"Newer &lt;b&gt;",
		"Last updated: June 1, 2025",
		"<title>Sitemap - feedmarketer.com</title>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML sitemap missing %q", want)
		}
	}
	if posts[0].Slug != "undated" {
		t.Error("HTMLSitemap reordered the caller's slice")
	}
}
