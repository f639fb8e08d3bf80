package config

import (
	"fmt"
	"time"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

const (
	DefaultBaseURL         = "http://localhost:5000/api"
	DefaultPlaceholderLogo = "https://via.placeholder.com/80"
)

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: 30,
		},
		Browse: BrowseConfig{
			PageSize:        20,
			TopN:            10,
			BlogPageSize:    6,
			NewsPageSize:    12,
			WatchSeconds:    60,
			PlaceholderLogo: DefaultPlaceholderLogo,
		},
		Cache: CacheConfig{
			Store: "sqlite",
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
		Newsletter: NewsletterConfig{
			DefaultHTML: "<h1>Welcome to Our Newsletter</h1><p>Thank you for subscribing to our newsletter. Stay tuned for updates!</p>",
		},
	}
}

// Timeout returns the HTTP timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HookCommands returns the configured hooks keyed by event name.
func (h HooksConfig) HookCommands() map[string][]HookEntry {
	return map[string][]HookEntry{
		"agents_refreshed":     h.AgentsRefreshed,
		"agent_liked":          h.AgentLiked,
		"agent_bookmarked":     h.AgentBookmarked,
		"agent_submitted":      h.AgentSubmitted,
		"agent_status_changed": h.AgentStatusChanged,
		"blog_published":       h.BlogPublished,
		"newsletter_sent":      h.NewsletterSent,
	}
}
