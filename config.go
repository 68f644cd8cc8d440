package feedsite

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultDomain is used when SITE_DOMAIN is empty or still a template
// placeholder.
const DefaultDomain = "feedmarketer.com"

const domainPlaceholder = "${URL}"

// Link is a navigation entry.
type Link struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
}

// Navigation holds the site menus.
type Navigation struct {
	Main   []Link `yaml:"main" json:"main"`
	Footer []Link `yaml:"footer" json:"footer"`
}

// Contact holds the public contact details.
type Contact struct {
	Email   string `yaml:"email" env:"CONTACT_EMAIL" env-default:"info@feedmarketer.com" json:"email"`
	Phone   string `yaml:"phone" env:"CONTACT_PHONE" env-default:"+1 (555) 123-4567" json:"phone,omitempty"`
	Address string `yaml:"address" env:"CONTACT_ADDRESS" env-default:"123 Content Street, Los Angeles, CA 90001" json:"address,omitempty"`
}

// Social holds the public social media profile URLs.
type Social struct {
	Twitter   string `yaml:"twitter" env:"SOCIAL_TWITTER" env-default:"https://twitter.com/feedmarketer" json:"twitter,omitempty"`
	Facebook  string `yaml:"facebook" env:"SOCIAL_FACEBOOK" env-default:"https://facebook.com/feedmarketer" json:"facebook,omitempty"`
	Instagram string `yaml:"instagram" env:"SOCIAL_INSTAGRAM" env-default:"https://instagram.com/feedmarketer" json:"instagram,omitempty"`
	LinkedIn  string `yaml:"linkedin" env:"SOCIAL_LINKEDIN" env-default:"https://linkedin.com/company/feedmarketer" json:"linkedin,omitempty"`
	TikTok    string `yaml:"tiktok" env:"SOCIAL_TIKTOK" env-default:"https://tiktok.com/@feedmarketer" json:"tiktok,omitempty"`
}

// Legal holds the copyright owner and notice. An empty Copyright is
// derived from the site name and the current year.
type Legal struct {
	Copyright string `yaml:"copyright" env:"LEGAL_COPYRIGHT" json:"copyright"`
	Company   string `yaml:"company" env:"LEGAL_COMPANY" env-default:"FeedMarketer Inc." json:"company"`
}

// CopyrightNotice returns Copyright, or the default notice for name in year.
func (l Legal) CopyrightNotice(name string, year int) string {
	if l.Copyright != "" {
		return l.Copyright
	}
	return fmt.Sprintf("© %d %s. All rights reserved.", year, name)
}

// SiteConfig holds all configuration for a feedsite instance. It is read
// once at startup and shared by pointer.
type SiteConfig struct {
	Name          string `yaml:"name" env:"SITE_NAME" env-default:"FeedMarketer" env-description:"site name"`
	Description   string `yaml:"description" env:"SITE_DESCRIPTION" env-default:"FeedMarketer helps creators master short-form content on TikTok, Instagram, and other platforms." env-description:"site description for feeds and meta tags"`
	Domain        string `yaml:"domain" env:"SITE_DOMAIN" env-default:"feedmarketer.com" env-description:"public domain, without scheme"`
	DefaultAuthor string `yaml:"default_author" env:"SITE_DEFAULT_AUTHOR" env-default:"FeedMarketer Team" env-description:"author of posts that name none"`

	ContentDir string `yaml:"content_dir" env:"CONTENT_DIR" env-default:"blog-content" env-description:"markdown post directory"`
	PublicDir  string `yaml:"public_dir" env:"PUBLIC_DIR" env-default:"public" env-description:"static site and artifact directory"`
	Addr       string `yaml:"addr" env:"ADDR" env-default:":3000" env-description:"listen address"`

	PostCacheTTL       time.Duration `yaml:"post_cache_ttl" env:"POST_CACHE_TTL" env-default:"0s" env-description:"post cache lifetime, 0 re-reads on every request"`
	RegenerateInterval time.Duration `yaml:"regenerate_interval" env:"REGENERATE_INTERVAL" env-default:"0s" env-description:"artifact regeneration period while serving, 0 disables"`
	MaxURLsPerSitemap  int           `yaml:"max_urls_per_sitemap" env:"MAX_URLS_PER_SITEMAP" env-default:"200" env-description:"split sitemap.xml above this many URLs"`

	ContactRateLimit  int           `yaml:"contact_rate_limit" env:"CONTACT_RATE_LIMIT" env-default:"5" env-description:"contact submissions per IP and window"`
	ContactRateWindow time.Duration `yaml:"contact_rate_window" env:"CONTACT_RATE_WINDOW" env-default:"1h" env-description:"contact rate limit window"`

	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	LogFormat   string `yaml:"log_format" env:"LOG_FORMAT" env-default:"console" env-description:"console or json"`
	SentryDSN   string `yaml:"sentry_dsn" env:"SENTRY_DSN" env-description:"report errors to Sentry when set"`
	Environment string `yaml:"environment" env:"APP_ENV" env-default:"development"`

	Contact    Contact    `yaml:"contact"`
	Social     Social     `yaml:"social"`
	Legal      Legal      `yaml:"legal"`
	Navigation Navigation `yaml:"navigation"`

	warnings []string
}

// LoadConfig reads the configuration from the YAML file at path, with
// environment variables taking precedence. An empty path reads the
// environment only.
func LoadConfig(path string) (*SiteConfig, error) {
	cfg := &SiteConfig{}
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		help, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("read config: %w\n%s", err, help)
	}
	cfg.setDefaults()
	return cfg, nil
}

// ConfigHelp describes the environment variables LoadConfig understands.
func ConfigHelp() string {
	help, err := cleanenv.GetDescription(&SiteConfig{}, nil)
	if err != nil {
		return err.Error()
	}
	return help
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "FeedMarketer"
	}
	c.Domain = c.normalizeDomain(c.Domain)
	if c.DefaultAuthor == "" {
		c.DefaultAuthor = "FeedMarketer Team"
	}
	if c.ContentDir == "" {
		c.ContentDir = "blog-content"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostCacheTTL < 0 {
		c.PostCacheTTL = 0
	}
	if c.MaxURLsPerSitemap <= 0 {
		c.MaxURLsPerSitemap = 200
	}
	if c.ContactRateLimit <= 0 {
		c.ContactRateLimit = 5
	}
	if c.ContactRateWindow <= 0 {
		c.ContactRateWindow = time.Hour
	}
	if c.Contact.Email == "" {
		c.Contact.Email = "info@feedmarketer.com"
	}
	if c.Legal.Company == "" {
		c.Legal.Company = "FeedMarketer Inc."
	}
	if c.Navigation.Main == nil {
		c.Navigation.Main = []Link{
			{Name: "Home", Path: "/"},
			{Name: "Blog", Path: "/blog/"},
			{Name: "About", Path: "/about/"},
			{Name: "Contact", Path: "/contact/"},
		}
	}
	if c.Navigation.Footer == nil {
		c.Navigation.Footer = []Link{
			{Name: "Privacy Policy", Path: "/privacy/"},
			{Name: "Terms of Service", Path: "/terms/"},
			{Name: "Sitemap", Path: "/sitemap/"},
		}
	}
}

func (c *SiteConfig) normalizeDomain(d string) string {
	d = strings.TrimSpace(d)
	if strings.Contains(d, domainPlaceholder) {
		c.warnings = append(c.warnings, fmt.Sprintf("SITE_DOMAIN contains the placeholder %s, using %s", domainPlaceholder, DefaultDomain))
		return DefaultDomain
	}
	d = strings.TrimPrefix(strings.TrimPrefix(d, "https://"), "http://")
	d = strings.TrimRight(d, "/")
	if d == "" {
		return DefaultDomain
	}
	return d
}

// SiteURL returns the canonical base URL, without a trailing slash.
func (c *SiteConfig) SiteURL() string {
	return "https://" + c.Domain
}

// Warnings returns problems found while applying defaults.
func (c *SiteConfig) Warnings() []string {
	return c.warnings
}

// LogWarnings writes every configuration warning to logger.
func (c *SiteConfig) LogWarnings(logger *slog.Logger) {
	for _, w := range c.warnings {
		logger.Warn(w)
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger sets the application logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.Logger = l
		}
	}
}

// WithPostSource replaces the content directory as the source of posts.
func WithPostSource(src PostSource) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithClock replaces time.Now for dates in generated documents.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
