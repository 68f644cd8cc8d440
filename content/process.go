package content

import (
	"regexp"
	"strings"
)

// Transform is one text-to-text pass over a markdown body.
type Transform func(string) string

// Pipeline is the ordered set of passes Process applies. Order matters: the
// embed pass must run before image normalization so video links are never
// mistaken for bare URLs.
var Pipeline = []Transform{
	DedupeTitleHeading,
	NormalizeEmbeds,
	NormalizeImages,
}

// Process runs body through Pipeline.
func Process(body string) string {
	for _, step := range Pipeline {
		body = step(body)
	}
	return body
}

const youtubePrefix = `https?://(?:www\.)?youtube\.com/watch\?v=|https?://youtu\.be/`

// Video ids are exactly eleven characters.
const videoID = `[a-zA-Z0-9_-]{11}`

var (
	reTitleHeading = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*\r?$`)

	// A whole sentence holding a video URL; the sentence text survives.
	reVideoSentence = regexp.MustCompile(`[^.!?]*(?:` + youtubePrefix + `)` + videoID + `(?:&[^<\s]*)?[^.!?]*[.!?]`)
	// A video URL standing alone between whitespace or text boundaries.
	reVideoBare = regexp.MustCompile(`(?:^|\s)(?:` + youtubePrefix + `)` + videoID + `(?:&[^<\s]*)?(?:\s|$)`)
	reVideoURL  = regexp.MustCompile(`(?:` + youtubePrefix + `)(` + videoID + `)(?:&[^<\s]*)?`)

	reImageSyntax = regexp.MustCompile(`(!\[.*?\]\()(.+?)(\))`)
	reBareImage   = regexp.MustCompile(`(?i)(^|\s)(https?://[^\s()<>\[\]]*?\.(?:jpg|jpeg|png|gif|webp))(\s|$)`)
)

// VideoMarker returns the standalone line that replaces a video URL.
func VideoMarker(id string) string {
	return "\n\nyoutube:" + id + "\n\n"
}

// DedupeTitleHeading keeps the first top-level heading and removes later
// top-level headings with identical text.
func DedupeTitleHeading(md string) string {
	loc := reTitleHeading.FindStringSubmatchIndex(md)
	if loc == nil {
		return md
	}
	title := md[loc[2]:loc[3]]
	dup := regexp.MustCompile(`(?m)^#[ \t]+` + regexp.QuoteMeta(title) + `[ \t]*\r?$`)
	return md[:loc[1]] + dup.ReplaceAllString(md[loc[1]:], "")
}

// NormalizeEmbeds rewrites YouTube watch and short links into marker lines
// carrying the video id.
func NormalizeEmbeds(md string) string {
	md = reVideoSentence.ReplaceAllStringFunc(md, rewriteVideoURL)
	return reVideoBare.ReplaceAllStringFunc(md, rewriteVideoURL)
}

func rewriteVideoURL(match string) string {
	m := reVideoURL.FindStringSubmatchIndex(match)
	if m == nil || (m[3] < len(match) && isVideoIDByte(match[m[3]])) {
		return match
	}
	return match[:m[0]] + VideoMarker(match[m[2]:m[3]]) + match[m[1]:]
}

func isVideoIDByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_' || b == '-'
}

// NormalizeImages cleans relative paths inside image syntax and wraps bare
// image URLs into image syntax.
func NormalizeImages(md string) string {
	md = reImageSyntax.ReplaceAllStringFunc(md, func(m string) string {
		sub := reImageSyntax.FindStringSubmatch(m)
		url := sub[2]
		if strings.HasPrefix(url, "http") {
			return m
		}
		if trimmed, ok := strings.CutPrefix(url, "./"); ok {
			url = trimmed
		} else {
			url = strings.TrimPrefix(url, "/")
		}
		return sub[1] + url + sub[3]
	})

	// Adjacent URLs share one separator, so a single pass can miss every
	// second one. Wrapped URLs sit behind "(" and never match again.
	for {
		next := reBareImage.ReplaceAllString(md, "${1}![Image](${2})${3}")
		if next == md {
			return md
		}
		md = next
	}
}
