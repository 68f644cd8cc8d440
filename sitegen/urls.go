package sitegen

import (
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/feedmarketer/feedsite/content"
)

const dateLayout = "2006-01-02"

// Page is a static page of the site.
type Page struct {
	Name     string
	Path     string
	Priority float64
}

// DefaultPages are the static pages listed in every sitemap.
var DefaultPages = []Page{
	{Name: "Home", Path: "/", Priority: 1.0},
	{Name: "Blog", Path: "/blog/", Priority: 0.8},
	{Name: "About", Path: "/about/", Priority: 0.7},
	{Name: "Contact", Path: "/contact/", Priority: 0.7},
	{Name: "Sitemap", Path: "/sitemap/", Priority: 0.5},
}

// PostPriority is the sitemap priority of every blog post.
const PostPriority = 0.7

// URL is one sitemap record.
type URL struct {
	Loc      string
	LastMod  string
	Priority float64
}

// URLs builds the sitemap records for the static pages followed by the
// posts. Posts without a parsed date use today as lastmod. When slugs
// collide only the first post, the newest in sorted input, is kept.
func URLs(siteURL string, pages []Page, posts []content.Post, today time.Time) []URL {
	day := today.Format(dateLayout)
	urls := make([]URL, 0, len(pages)+len(posts))
	for _, p := range pages {
		urls = append(urls, URL{Loc: BuildURL(siteURL, p.Path), LastMod: day, Priority: p.Priority})
	}
	for _, p := range uniqueBySlug(posts) {
		lastmod := day
		if p.Dated() {
			lastmod = p.PublishedAt.Format(dateLayout)
		}
		urls = append(urls, URL{Loc: PostURL(siteURL, p.Slug), LastMod: lastmod, Priority: PostPriority})
	}
	return urls
}

// uniqueBySlug drops every post whose slug was already seen.
func uniqueBySlug(posts []content.Post) []content.Post {
	seen := make(map[string]struct{}, len(posts))
	out := make([]content.Post, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.Slug]; ok {
			continue
		}
		seen[p.Slug] = struct{}{}
		out = append(out, p)
	}
	return out
}

// PostURL returns the canonical URL of a post.
func PostURL(siteURL, slug string) string {
	return BuildURL(siteURL, slug)
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// fileURL joins a base URL with a file path, without a trailing slash.
func fileURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(name, "/")
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		return [][]T{items}
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for size < len(items) {
		items, chunks = items[size:], append(chunks, items[:size:size])
	}
	if len(items) > 0 {
		chunks = append(chunks, items)
	}
	return chunks
}
