package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultTitle is used when a document has no top-level heading.
	DefaultTitle = "Untitled Post"

	// ExcerptBudget is the maximum length, in characters, of a fallback excerpt.
	ExcerptBudget = 160

	thumbnailURLFormat = "https://img.youtube.com/vi/%s/maxresdefault.jpg"
)

var (
	// First sentence, looked for within the first 500 characters.
	reFirstSentence = regexp.MustCompile(`^[^.!?]{1,500}[.!?]`)

	reStripImage      = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	reStripLink       = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	reStripFormatting = regexp.MustCompile("[#*_~`]")
	reStripHTML       = regexp.MustCompile(`<[^>]*>`)
	reWhitespace      = regexp.MustCompile(`\s+`)

	reFirstMarkdownImage = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)
	reFirstImageURL      = regexp.MustCompile(`(?i)(https?://[^\s"'<>()]*?\.(?:jpg|jpeg|png|gif|webp))`)
	reFirstHTMLImage     = regexp.MustCompile(`(?i)<img[^>]*?src=["']([^"']*)["']`)

	reVideoID       = regexp.MustCompile(`(?i)(?:youtube\.com/(?:[^/\s]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	reVideoMarkerID = regexp.MustCompile(`youtube:([a-zA-Z0-9_-]{11})`)
)

// ExtractTitle returns the text of the first top-level heading, or
// DefaultTitle.
func ExtractTitle(md string) string {
	if m := reTitleHeading.FindStringSubmatch(md); m != nil {
		return strings.TrimSpace(m[1])
	}
	return DefaultTitle
}

// ExtractExcerpt returns the first sentence after the title as plain text.
// Without a sentence it falls back to a plain-text prefix of the body cut
// to ExcerptBudget at a word boundary.
func ExtractExcerpt(md string) string {
	body := md
	if loc := reTitleHeading.FindStringIndex(body); loc != nil {
		body = body[:loc[0]] + body[loc[1]:]
	}
	// Sentence ends are searched after links are reduced, so dots inside
	// URLs and link text never split a link.
	body = strings.TrimSpace(reduceLinks(body))

	if sentence := reFirstSentence.FindString(body); sentence != "" {
		if plain := PlainText(sentence); plain != "" {
			return plain
		}
	}
	return truncate(PlainText(body), ExcerptBudget)
}

// PlainText strips markdown and HTML formatting from s: images are
// removed, links reduced to their text, emphasis and tags stripped, and
// whitespace collapsed.
func PlainText(s string) string {
	s = reduceLinks(s)
	s = reStripFormatting.ReplaceAllString(s, "")
	s = reStripHTML.ReplaceAllString(s, "")
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// reduceLinks removes images and replaces links with their text.
func reduceLinks(s string) string {
	s = reStripImage.ReplaceAllString(s, "")
	return reStripLink.ReplaceAllString(s, "$1")
}

func truncate(text string, budget int) string {
	if utf8.RuneCountInString(text) <= budget {
		return text
	}
	cut := string([]rune(text)[:budget])
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRightFunc(cut, unicode.IsSpace) + "..."
}

// ExtractFeaturedImage resolves the preview image for a processed body:
// markdown image, then bare image URL, then HTML <img>, then the thumbnail
// of the first video. It returns "" when none applies.
func ExtractFeaturedImage(md string) string {
	if m := reFirstMarkdownImage.FindStringSubmatch(md); m != nil && m[1] != "" {
		return m[1]
	}
	if m := reFirstImageURL.FindStringSubmatch(md); m != nil {
		return m[1]
	}
	if m := reFirstHTMLImage.FindStringSubmatch(md); m != nil && m[1] != "" {
		return m[1]
	}
	if id := ExtractVideoID(md); id != "" {
		return VideoThumbnailURL(id)
	}
	return ""
}

// ExtractVideoID returns the first YouTube video id in md, looking at raw
// URLs before marker lines.
func ExtractVideoID(md string) string {
	if m := reVideoID.FindStringSubmatch(md); m != nil {
		return m[1]
	}
	if m := reVideoMarkerID.FindStringSubmatch(md); m != nil {
		return m[1]
	}
	return ""
}

// VideoThumbnailURL returns the highest resolution thumbnail for a video id.
func VideoThumbnailURL(id string) string {
	return fmt.Sprintf(thumbnailURLFormat, id)
}
