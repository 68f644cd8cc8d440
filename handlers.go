package feedsite

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/feedmarketer/feedsite/content"
	"github.com/feedmarketer/feedsite/search"
	"github.com/feedmarketer/feedsite/sitegen"
)

const (
	relatedPostCount = 3
	suggestionCount  = 3
	maxSearchLimit   = 50
)

// SiteInfo is the public site metadata returned by /api/site.
type SiteInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	Domain      string          `json:"domain"`
	Contact     Contact         `json:"contact"`
	Social      Social          `json:"social"`
	Legal       Legal           `json:"legal"`
	Navigation  Navigation      `json:"navigation"`
	JSONLD      json.RawMessage `json:"jsonLd"`
}

// PostResponse is the body of /api/posts/:slug.
type PostResponse struct {
	Post    content.Post    `json:"post"`
	HTML    string          `json:"html"`
	URL     string          `json:"url"`
	Related []content.Post  `json:"related"`
	JSONLD  json.RawMessage `json:"jsonLd"`
}

// SearchResponse is the body of /api/search.
type SearchResponse struct {
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

func (a *App) handleSite(c echo.Context) error {
	legal := Legal{
		Copyright: a.Config.Legal.CopyrightNotice(a.Config.Name, a.now().Year()),
		Company:   a.Config.Legal.Company,
	}
	return c.JSON(http.StatusOK, SiteInfo{
		Name:        a.Config.Name,
		Description: a.Config.Description,
		URL:         a.Config.SiteURL(),
		Domain:      a.Config.Domain,
		Contact:     a.Config.Contact,
		Social:      a.Config.Social,
		Legal:       legal,
		Navigation:  a.Config.Navigation,
		JSONLD:      json.RawMessage(WebsiteJSONLD(a.Config)),
	})
}

func (a *App) handlePosts(c echo.Context) error {
	posts, err := a.Cache.All(c.Request().Context())
	if err != nil {
		return err
	}
	summaries := make([]content.Post, 0, len(posts))
	for _, p := range posts {
		summaries = append(summaries, p.Summary())
	}
	return c.JSON(http.StatusOK, summaries)
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	posts, err := a.Cache.All(ctx)
	if err != nil {
		return err
	}
	post, ok := content.FindBySlug(posts, slug)
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{
			Error:       content.ErrNotFound.Error(),
			Suggestions: SuggestSlugs(posts, slug, suggestionCount),
		})
	}

	html, err := a.Renderer.Render(post.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PostResponse{
		Post:    post,
		HTML:    html,
		URL:     sitegen.PostURL(a.Config.SiteURL(), post.Slug),
		Related: content.Related(posts, post.Slug, relatedPostCount),
		JSONLD:  json.RawMessage(BlogPostingJSONLD(post, a.Config)),
	})
}

func (a *App) handleSearch(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query parameter q")
	}
	limit := search.DefaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxSearchLimit)
	}

	hits, err := a.Cache.Search(c.Request().Context(), q, limit)
	if errors.Is(err, search.ErrEmptyQuery) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SearchResponse{Query: q, Hits: hits})
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.All(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleSitemap(c echo.Context) error {
	files, err := a.sitemapFiles(c)
	if err != nil {
		return err
	}
	// The single sitemap or the index is always last.
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", files[len(files)-1].Data)
}

func (a *App) handleSitemapChunk(c echo.Context) error {
	files, err := a.sitemapFiles(c)
	if err != nil {
		return err
	}
	name := sitegen.SitemapDir + "/" + c.Param("name")
	for _, f := range files {
		if f.Name == name {
			return c.Blob(http.StatusOK, "application/xml; charset=utf-8", f.Data)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound)
}

func (a *App) sitemapFiles(c echo.Context) ([]sitegen.File, error) {
	posts, err := a.Cache.All(c.Request().Context())
	if err != nil {
		return nil, err
	}
	cfg := a.Generator.Config()
	today := a.now().UTC()
	urls := sitegen.URLs(cfg.SiteURL, cfg.Pages, posts, today)
	return sitegen.BuildSitemaps(cfg.SiteURL, urls, cfg.MaxURLsPerSitemap, today)
}

func (a *App) handleRobots(c echo.Context) error {
	cfg := a.Generator.Config()
	return c.String(http.StatusOK, sitegen.RobotsTxt(cfg.SiteURL, cfg.CrawlDelay))
}

func (a *App) handleHTMLSitemap(c echo.Context) error {
	posts, err := a.Cache.All(c.Request().Context())
	if err != nil {
		return err
	}
	cfg := a.Generator.Config()
	return Render(c, sitegen.HTMLSitemap(sitegen.HTMLSitemapData{
		Domain:  cfg.Domain,
		Pages:   cfg.Pages,
		Posts:   posts,
		Updated: a.now().UTC(),
	}))
}
