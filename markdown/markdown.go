// Package markdown renders processed post bodies to sanitized HTML, exposed
// as a templ component.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// EmbedURLPrefix is the iframe source used for video marker lines.
const EmbedURLPrefix = "https://www.youtube.com/embed/"

var (
	reVideoMarker = regexp.MustCompile(`(?m)^youtube:([a-zA-Z0-9_-]{11})[ \t]*\r?$`)
	reEmbedSrc    = regexp.MustCompile(`^https://www\.youtube\.com/embed/[a-zA-Z0-9_-]{11}$`)
)

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New creates a Renderer with GitHub flavored markdown, linkified URLs,
// heading ids and video embeds.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md, policy: newPolicy()}
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("iframe")
	p.AllowAttrs("src").Matching(reEmbedSrc).OnElements("iframe")
	p.AllowAttrs("title", "allow", "allowfullscreen", "loading").OnElements("iframe")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^video-embed$`)).OnElements("div")
	return p
}

// EmbedHTML returns the iframe block for a video id.
func EmbedHTML(id string) string {
	return `<div class="video-embed"><iframe src="` + EmbedURLPrefix + id +
		`" title="YouTube video" loading="lazy" allow="accelerometer; encrypted-media; gyroscope; picture-in-picture" allowfullscreen></iframe></div>`
}

// Render converts src to sanitized HTML.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, src); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTo writes the sanitized HTML of src to buf.
func (r *Renderer) RenderTo(buf *bytes.Buffer, src string) error {
	expanded := reVideoMarker.ReplaceAllStringFunc(src, func(m string) string {
		return EmbedHTML(reVideoMarker.FindStringSubmatch(m)[1])
	})

	var raw bytes.Buffer
	if err := r.md.Convert([]byte(expanded), &raw); err != nil {
		return fmt.Errorf("markdown convert: %w", err)
	}
	buf.Write(r.policy.SanitizeBytes(raw.Bytes()))
	return nil
}

// Component returns a templ.Component that renders src as HTML.
func (r *Renderer) Component(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := r.RenderTo(&buf, src); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

var defaultRenderer = New()

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return defaultRenderer.Component(content)
}

// RenderMarkdown writes the HTML representation of md to buf.
func RenderMarkdown(buf *bytes.Buffer, md string) error {
	return defaultRenderer.RenderTo(buf, md)
}
