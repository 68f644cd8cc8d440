// Package search keeps an in-memory full-text index of blog posts.
package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/feedmarketer/feedsite/content"
)

// DefaultLimit caps results when the caller passes no limit.
const DefaultLimit = 10

// ErrEmptyQuery is returned for blank queries.
var ErrEmptyQuery = errors.New("empty search query")

// Index wraps a Bleve index held in memory.
type Index struct {
	index bleve.Index
}

// IndexedPost is the document stored for each post.
type IndexedPost struct {
	Slug    string
	Title   string
	Excerpt string
	Content string
	Author  string
}

// Hit is one search result.
type Hit struct {
	Slug      string              `json:"slug"`
	Title     string              `json:"title"`
	Excerpt   string              `json:"excerpt"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments,omitempty"`
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "en"

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = "en"

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = "keyword"

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Slug", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("Title", titleFieldMapping)
	docMapping.AddFieldMappingsAt("Excerpt", textFieldMapping)
	docMapping.AddFieldMappingsAt("Content", textFieldMapping)
	docMapping.AddFieldMappingsAt("Author", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Build indexes posts. When several posts share a slug only the first, the
// newest in sorted input, is indexed.
func Build(posts []content.Post) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := idx.NewBatch()
	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.Slug]; ok {
			continue
		}
		seen[p.Slug] = struct{}{}
		doc := IndexedPost{
			Slug:    p.Slug,
			Title:   p.Title,
			Excerpt: p.Excerpt,
			Content: content.PlainText(p.Content),
			Author:  p.Author,
		}
		if err := batch.Index(p.Slug, doc); err != nil {
			idx.Close()
			return nil, fmt.Errorf("batch index %s: %w", p.Slug, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("commit batch: %w", err)
	}
	return &Index{index: idx}, nil
}

// Search matches q against titles (boosted), excerpts and bodies.
func (i *Index) Search(q string, limit int) ([]Hit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	title := bleve.NewMatchQuery(q)
	title.SetField("Title")
	title.SetBoost(3)
	excerpt := bleve.NewMatchQuery(q)
	excerpt.SetField("Excerpt")
	body := bleve.NewMatchQuery(q)
	body.SetField("Content")
	match := bleve.NewDisjunctionQuery(title, excerpt, body)

	req := bleve.NewSearchRequestOptions(match, limit, 0, false)
	req.Fields = []string{"Slug", "Title", "Excerpt"}
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Highlight.AddField("Content")

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{Slug: h.ID, Score: h.Score, Fragments: h.Fragments}
		if title, ok := h.Fields["Title"].(string); ok {
			hit.Title = title
		}
		if excerpt, ok := h.Fields["Excerpt"].(string); ok {
			hit.Excerpt = excerpt
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Count returns the number of indexed posts.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

// Close releases the index.
func (i *Index) Close() error {
	return i.index.Close()
}
