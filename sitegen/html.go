package sitegen

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/feedmarketer/feedsite/content"
)

// HTMLSitemapData feeds the human-readable sitemap.
type HTMLSitemapData struct {
	Domain  string
	Pages   []Page
	Posts   []content.Post
	Updated time.Time
}

const htmlSitemapStyle = `body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;line-height:1.6;color:#333;max-width:1200px;margin:0 auto;padding:2rem}
h1{font-size:2.5rem;margin-bottom:2rem;color:#2563eb}
h2{font-size:1.75rem;margin:2rem 0 1rem;color:#3b82f6;border-bottom:1px solid #e5e7eb;padding-bottom:.5rem}
li{margin-bottom:.5rem}
a{color:#3b82f6;text-decoration:none}
a:hover{text-decoration:underline}
.date,.description{font-size:.875rem;color:#6b7280}
.date{margin-left:.5rem}
.description{margin-top:.25rem}
footer{margin-top:3rem;text-align:center;font-size:.875rem;color:#6b7280}`

// HTMLSitemap returns a standalone HTML page listing the static pages and
// every post, newest first with undated posts last.
func HTMLSitemap(data HTMLSitemapData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		renderHTMLSitemap(&buf, data)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func renderHTMLSitemap(buf *bytes.Buffer, data HTMLSitemapData) {
	esc := templ.EscapeString[string]

	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	buf.WriteString("<meta charset=\"UTF-8\">\n")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	buf.WriteString("<title>Sitemap - " + esc(data.Domain) + "</title>\n")
	buf.WriteString("<style>\n" + htmlSitemapStyle + "\n</style>\n")
	buf.WriteString("</head>\n<body>\n<h1>Sitemap</h1>\n")

	buf.WriteString("<h2>Main Pages</h2>\n<ul class=\"pages\">\n")
	for _, p := range data.Pages {
		buf.WriteString("<li><a href=\"" + esc(trailingSlash(p.Path)) + "\">" + esc(p.Name) + "</a></li>\n")
	}
	buf.WriteString("</ul>\n")

	posts := slices.Clone(data.Posts)
	content.SortNewestFirst(posts)
	posts = uniqueBySlug(posts)

	buf.WriteString("<h2>Blog Posts</h2>\n<ul class=\"posts\">\n")
	for _, p := range posts {
		buf.WriteString("<li><a href=\"/" + esc(p.Slug) + "/\">" + esc(p.Title) + "</a>")
		if p.Dated() {
			buf.WriteString("<span class=\"date\">" + p.PublishedAt.Format("Jan 2, 2006") + "</span>")
		}
		if p.Excerpt != "" {
			buf.WriteString("<div class=\"description\">" + esc(p.Excerpt) + "</div>")
		}
		buf.WriteString("</li>\n")
	}
	buf.WriteString("</ul>\n")

	buf.WriteString("<footer>&copy; " + strconv.Itoa(data.Updated.Year()) + " " + esc(data.Domain))
	buf.WriteString(" - Last updated: " + data.Updated.Format("January 2, 2006") + "</footer>\n")
	buf.WriteString("</body>\n</html>\n")
}

func trailingSlash(p string) string {
	if len(p) == 0 || p[len(p)-1] != '/' {
		return p + "/"
	}
	return p
}
