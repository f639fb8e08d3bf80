package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(&cfg))
}

func TestValidate_BaseURL(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"http://localhost:5000/api", true},
		{"https://market.example.com/api", true},
		{"", false},
		{"localhost:5000", false},
		{"ftp://example.com", false},
		{"/api", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			cfg := Defaults()
			cfg.API.BaseURL = tt.url
			issues := Validate(&cfg)
			if tt.valid {
				assert.Empty(t, issues)
			} else {
				require.NotEmpty(t, issues)
				assert.Equal(t, "api.baseUrl", issues[0].Path)
			}
		})
	}
}

func TestValidate_NegativeSizes(t *testing.T) {
	cfg := Defaults()
	cfg.Browse.PageSize = -1
	cfg.Browse.TopN = -5
	issues := Validate(&cfg)
	require.Len(t, issues, 2)
	assert.Equal(t, "browse.pageSize", issues[0].Path)
	assert.Equal(t, "browse.topN", issues[1].Path)
}

func TestValidate_CacheStore(t *testing.T) {
	for _, store := range []string{"sqlite", "none", ""} {
		cfg := Defaults()
		cfg.Cache.Store = store
		assert.Empty(t, Validate(&cfg), "store %q should be valid", store)
	}

	cfg := Defaults()
	cfg.Cache.Store = "redis"
	issues := Validate(&cfg)
	require.NotEmpty(t, issues)
	assert.Equal(t, "cache.store", issues[0].Path)
}

func TestValidate_Logging(t *testing.T) {
	cfg := Defaults()
	cfg.Logging.Level = "verbose"
	cfg.Logging.ConsoleStyle = "fancy"
	issues := Validate(&cfg)
	require.Len(t, issues, 2)
	assert.Equal(t, "logging.level", issues[0].Path)
	assert.Equal(t, "logging.consoleStyle", issues[1].Path)
}

func TestValidate_Hooks(t *testing.T) {
	cfg := Defaults()
	cfg.Hooks.AgentSubmitted = []HookEntry{{Command: ""}, {Command: "ok", Timeout: -1}}
	issues := Validate(&cfg)
	require.Len(t, issues, 2)
	assert.Equal(t, "hooks.agentSubmitted[0].command", issues[0].Path)
	assert.Equal(t, "hooks.agentSubmitted[1].timeout", issues[1].Path)
}

func TestValidationIssueString(t *testing.T) {
	issue := ValidationIssue{Path: "browse.pageSize", Message: "must be positive, got -1"}
	assert.Equal(t, "browse.pageSize: must be positive, got -1", issue.String())
}
