// Package feedsite serves a markdown blog: a JSON API over the posts in a
// content directory, RSS and sitemaps generated from the same posts, and
// the static single-page site from the public directory.
package feedsite

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo/v4"

	"github.com/feedmarketer/feedsite/content"
	"github.com/feedmarketer/feedsite/markdown"
	"github.com/feedmarketer/feedsite/sitegen"
)

const shutdownTimeout = 10 * time.Second

// App is the central feedsite application. It wires together the post
// repository, cache, artifact generator, handlers and middleware.
type App struct {
	Config    *SiteConfig
	Echo      *echo.Echo
	Posts     *content.Repository
	Cache     *PostCache
	Renderer  *markdown.Renderer
	Generator *sitegen.Generator
	Logger    *slog.Logger

	contactLimiter *RateLimiter
	scheduler      gocron.Scheduler
	customRoutes   []func(*App)
	source         PostSource
	now            func() time.Time
}

// New creates an App and registers its middleware and routes. It performs
// no I/O; content is read on demand.
func New(cfg *SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		Renderer: markdown.New(),
		Logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.Posts = content.NewRepository(cfg.ContentDir,
		content.WithLogger(a.Logger),
		content.WithDefaultAuthor(cfg.DefaultAuthor),
		content.WithClock(a.now),
	)
	if a.source == nil {
		a.source = a.Posts
	}
	a.Cache = NewPostCache(a.source, cfg.PostCacheTTL)
	a.Generator = sitegen.New(a.sitegenConfig(), a.Cache,
		sitegen.WithLogger(a.Logger),
		sitegen.WithClock(a.now),
	)
	a.contactLimiter = NewRateLimiter(cfg.ContactRateLimit, cfg.ContactRateWindow)

	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a
}

func (a *App) sitegenConfig() sitegen.Config {
	return sitegen.Config{
		SiteURL:           a.Config.SiteURL(),
		Domain:            a.Config.Domain,
		PublicDir:         a.Config.PublicDir,
		Pages:             sitegen.DefaultPages,
		MaxURLsPerSitemap: a.Config.MaxURLsPerSitemap,
		CrawlDelay:        sitegen.DefaultCrawlDelay,
	}
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
// When RegenerateInterval is set the static artifacts are regenerated on
// that schedule, starting immediately.
func (a *App) Start(ctx context.Context) error {
	a.Config.LogWarnings(a.Logger)

	if a.Config.RegenerateInterval > 0 {
		if err := a.startRegeneration(ctx); err != nil {
			return err
		}
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("server shutdown", "error", err)
		}
	}()

	a.Logger.Info("serving", "addr", a.Config.Addr, "site", a.Config.SiteURL(),
		"content", a.Config.ContentDir, "public", a.Config.PublicDir)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	api := e.Group("/api")
	api.GET("/site", a.handleSite)
	api.GET("/posts", a.handlePosts)
	api.GET("/posts/:slug", a.handlePost)
	api.GET("/search", a.handleSearch)
	api.POST("/contact", a.handleContact)

	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/sitemaps/:name", a.handleSitemapChunk)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap/", a.handleHTMLSitemap)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			a.Logger.Error("scheduler shutdown", "error", err)
		}
	}
	a.contactLimiter.Stop()
	return a.Cache.Close()
}
