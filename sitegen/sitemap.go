package sitegen

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Output file names, relative to the public directory.
const (
	SitemapFile     = "sitemap.xml"
	SitemapDir      = "sitemaps"
	HTMLSitemapFile = "sitemap.html"
	RobotsFile      = "robots.txt"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
	Priority string `xml:"priority,omitempty"`
}

type sitemapIndex struct {
	XMLName  xml.Name       `xml:"sitemapindex"`
	XMLNS    string         `xml:"xmlns,attr"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

type sitemapEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

// File is one generated artifact. Name is slash-separated and relative to
// the public directory.
type File struct {
	Name string
	Data []byte
}

// ChunkName returns the file name of the n-th (1-based) sitemap chunk.
func ChunkName(n int) string {
	return fmt.Sprintf("%s/sitemap-%d.xml", SitemapDir, n)
}

// BuildSitemaps renders urls as a single sitemap.xml when they fit in maxURLs,
// otherwise as numbered chunks under sitemaps/ plus a sitemap.xml index.
// The index is always the last file.
func BuildSitemaps(siteURL string, urls []URL, maxURLs int, today time.Time) ([]File, error) {
	if maxURLs <= 0 || len(urls) <= maxURLs {
		data, err := MarshalURLSet(urls)
		if err != nil {
			return nil, err
		}
		return []File{{Name: SitemapFile, Data: data}}, nil
	}

	chunks := Chunk(urls, maxURLs)
	files := make([]File, 0, len(chunks)+1)
	index := sitemapIndex{XMLNS: sitemapNS}
	day := today.Format(dateLayout)
	for i, chunk := range chunks {
		data, err := MarshalURLSet(chunk)
		if err != nil {
			return nil, err
		}
		name := ChunkName(i + 1)
		files = append(files, File{Name: name, Data: data})
		index.Sitemaps = append(index.Sitemaps, sitemapEntry{Loc: fileURL(siteURL, name), LastMod: day})
	}

	data, err := marshalXML(index)
	if err != nil {
		return nil, fmt.Errorf("encode sitemap index: %w", err)
	}
	return append(files, File{Name: SitemapFile, Data: data}), nil
}

// MarshalURLSet encodes urls as a sitemap urlset document.
func MarshalURLSet(urls []URL) ([]byte, error) {
	set := sitemapURLSet{XMLNS: sitemapNS, URLs: make([]sitemapURL, 0, len(urls))}
	for _, u := range urls {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:      u.Loc,
			LastMod:  u.LastMod,
			Priority: strconv.FormatFloat(u.Priority, 'f', 1, 64),
		})
	}
	data, err := marshalXML(set)
	if err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return data, nil
}

func marshalXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
