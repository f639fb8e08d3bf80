package config

import (
	"fmt"
	"net/url"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	// API validation
	if cfg.API.BaseURL == "" {
		issues = append(issues, ValidationIssue{
			Path:    "api.baseUrl",
			Message: "base URL is required",
		})
	} else if u, err := url.Parse(cfg.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		issues = append(issues, ValidationIssue{
			Path:    "api.baseUrl",
			Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", cfg.API.BaseURL),
		})
	}
	if cfg.API.TimeoutSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "api.timeoutSeconds",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.API.TimeoutSeconds),
		})
	}

	// Browse validation
	positives := []struct {
		path  string
		value int
	}{
		{"browse.pageSize", cfg.Browse.PageSize},
		{"browse.topN", cfg.Browse.TopN},
		{"browse.blogPageSize", cfg.Browse.BlogPageSize},
		{"browse.newsPageSize", cfg.Browse.NewsPageSize},
		{"browse.watchSeconds", cfg.Browse.WatchSeconds},
	}
	for _, p := range positives {
		if p.value < 0 {
			issues = append(issues, ValidationIssue{
				Path:    p.path,
				Message: fmt.Sprintf("must be positive, got %d", p.value),
			})
		}
	}

	validStores := []string{"sqlite", "none"}
	if cfg.Cache.Store != "" && !slices.Contains(validStores, cfg.Cache.Store) {
		issues = append(issues, ValidationIssue{
			Path:    "cache.store",
			Message: fmt.Sprintf("must be one of %v, got %q", validStores, cfg.Cache.Store),
		})
	}

	// Logging validation
	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "compact", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	// Hook validation
	hookGroups := []struct {
		key     string
		entries []HookEntry
	}{
		{"agentsRefreshed", cfg.Hooks.AgentsRefreshed},
		{"agentLiked", cfg.Hooks.AgentLiked},
		{"agentBookmarked", cfg.Hooks.AgentBookmarked},
		{"agentSubmitted", cfg.Hooks.AgentSubmitted},
		{"agentStatusChanged", cfg.Hooks.AgentStatusChanged},
		{"blogPublished", cfg.Hooks.BlogPublished},
		{"newsletterSent", cfg.Hooks.NewsletterSent},
	}
	for _, g := range hookGroups {
		for i, h := range g.entries {
			path := fmt.Sprintf("hooks.%s[%d]", g.key, i)
			if h.Command == "" {
				issues = append(issues, ValidationIssue{Path: path + ".command", Message: "command is required"})
			}
			if h.Timeout < 0 {
				issues = append(issues, ValidationIssue{
					Path:    path + ".timeout",
					Message: fmt.Sprintf("must not be negative, got %d", h.Timeout),
				})
			}
		}
	}

	return issues
}
