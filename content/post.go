package content

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrNotFound is returned when no post matches a slug.
var ErrNotFound = errors.New("post not found")

// ErrEmptySlug is returned when neither the front matter, the title nor the
// file name yields a usable slug.
var ErrEmptySlug = errors.New("post has no usable slug")

// Post is one blog article derived from a markdown file.
type Post struct {
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Date          string `json:"date"`
	Content       string `json:"content,omitempty"`
	Excerpt       string `json:"excerpt"`
	Author        string `json:"author"`
	FeaturedImage string `json:"featuredImage,omitempty"`

	// PublishedAt is the parsed Date. It is zero when Date cannot be parsed.
	PublishedAt time.Time   `json:"-"`
	Source      string      `json:"-"` // path relative to the content root
	Meta        FrontMatter `json:"-"`
}

// Dated reports whether the post has a usable publication date.
func (p Post) Dated() bool {
	return !p.PublishedAt.IsZero()
}

// Summary returns a copy of p without its body, for list views.
func (p Post) Summary() Post {
	p.Content = ""
	return p
}

// BuildPost turns a raw document into a Post. now stamps posts that have no
// date; defaultAuthor fills a missing author.
func BuildPost(source, raw, defaultAuthor string, now time.Time) (Post, error) {
	meta, body := ParseFrontMatter(raw)
	processed := Process(body)

	title := meta.Get("title")
	if title == "" {
		title = ExtractTitle(processed)
	}

	slug := Slugify(meta.Get("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		base := filepath.Base(source)
		slug = Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
	}
	if slug == "" {
		return Post{}, ErrEmptySlug
	}

	if strings.TrimSpace(processed) == "" {
		processed = "# " + title + "\n"
	}

	author := meta.Get("author")
	if author == "" {
		author = defaultAuthor
	}

	excerpt := meta.Get("excerpt")
	if excerpt == "" {
		excerpt = ExtractExcerpt(processed)
	}

	date := meta.Get("date")
	var published time.Time
	if date == "" {
		published = now.UTC()
		date = published.Format(time.RFC3339)
	} else {
		published = ParseDate(date)
	}

	return Post{
		Title:         title,
		Slug:          slug,
		Date:          date,
		Content:       processed,
		Excerpt:       excerpt,
		Author:        author,
		FeaturedImage: ExtractFeaturedImage(processed),
		PublishedAt:   published,
		Source:        source,
		Meta:          meta,
	}, nil
}

// ParseDate parses a free-form date in UTC. It returns the zero time when
// raw is not a recognizable date.
func ParseDate(raw string) time.Time {
	t, err := dateparse.ParseIn(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SortNewestFirst orders posts by PublishedAt descending. Posts without a
// usable date go last; ties keep their relative order.
func SortNewestFirst(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return Newer(posts[i], posts[j])
	})
}

// Newer reports whether a sorts before b in newest-first order.
func Newer(a, b Post) bool {
	if a.Dated() != b.Dated() {
		return a.Dated()
	}
	return a.PublishedAt.After(b.PublishedAt)
}

// FindBySlug returns the first post with the given slug.
func FindBySlug(posts []Post, slug string) (Post, bool) {
	for _, p := range posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}

// Related returns up to n posts other than slug, keeping the input order.
func Related(posts []Post, slug string, n int) []Post {
	var related []Post
	for _, p := range posts {
		if len(related) == n {
			break
		}
		if p.Slug == slug {
			continue
		}
		related = append(related, p.Summary())
	}
	return related
}
