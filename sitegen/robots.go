package sitegen

import (
	"fmt"
	"strings"
)

// DefaultCrawlDelay is the Crawl-delay advertised in robots.txt, in seconds.
const DefaultCrawlDelay = 10

// RobotsTxt returns a robots.txt allowing every crawler and pointing at the
// XML and HTML sitemaps. A crawlDelay of zero or less omits Crawl-delay.
func RobotsTxt(siteURL string, crawlDelay int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# robots.txt for %s\n", siteURL)
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n\n")
	b.WriteString("# Sitemap location\n")
	fmt.Fprintf(&b, "Sitemap: %s\n\n", fileURL(siteURL, SitemapFile))
	b.WriteString("# HTML Sitemap (for humans)\n")
	fmt.Fprintf(&b, "# %s\n", fileURL(siteURL, HTMLSitemapFile))
	if crawlDelay > 0 {
		fmt.Fprintf(&b, "\nCrawl-delay: %d\n", crawlDelay)
	}
	return b.String()
}
