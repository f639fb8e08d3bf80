package config

// Config is the root configuration for the azent client.
type Config struct {
	API        APIConfig        `yaml:"api,omitempty" toml:"api"`
	Browse     BrowseConfig     `yaml:"browse,omitempty" toml:"browse"`
	Cache      CacheConfig      `yaml:"cache,omitempty" toml:"cache"`
	Logging    LoggingConfig    `yaml:"logging,omitempty" toml:"logging"`
	Hooks      HooksConfig      `yaml:"hooks,omitempty" toml:"hooks"`
	Newsletter NewsletterConfig `yaml:"newsletter,omitempty" toml:"newsletter"`
}

// APIConfig points the client at the marketplace backend.
type APIConfig struct {
	BaseURL        string `yaml:"baseUrl,omitempty" toml:"baseUrl"`
	Token          string `yaml:"token,omitempty" toml:"token"` // bearer token; overrides the stored login
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty" toml:"timeoutSeconds"`
	UserAgent      string `yaml:"userAgent,omitempty" toml:"userAgent"` // empty uses the version-derived default
}

// BrowseConfig controls list derivation.
type BrowseConfig struct {
	PageSize        int    `yaml:"pageSize,omitempty" toml:"pageSize"`
	TopN            int    `yaml:"topN,omitempty" toml:"topN"`
	BlogPageSize    int    `yaml:"blogPageSize,omitempty" toml:"blogPageSize"`
	NewsPageSize    int    `yaml:"newsPageSize,omitempty" toml:"newsPageSize"`
	WatchSeconds    int    `yaml:"watchSeconds,omitempty" toml:"watchSeconds"`
	PlaceholderLogo string `yaml:"placeholderLogo,omitempty" toml:"placeholderLogo"`
}

// CacheConfig selects where fetched snapshots are kept between runs.
type CacheConfig struct {
	Store string `yaml:"store,omitempty" toml:"store"` // "sqlite" | "none"
	Path  string `yaml:"path,omitempty" toml:"path"`   // defaults to <data>/azent.db
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty" toml:"level"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File         string `yaml:"file,omitempty" toml:"file"`
	ConsoleStyle string `yaml:"consoleStyle,omitempty" toml:"consoleStyle"` // "pretty" | "compact" | "json"
}

// HooksConfig maps marketplace events to shell commands.
type HooksConfig struct {
	AgentsRefreshed    []HookEntry `yaml:"agentsRefreshed,omitempty" toml:"agentsRefreshed"`
	AgentLiked         []HookEntry `yaml:"agentLiked,omitempty" toml:"agentLiked"`
	AgentBookmarked    []HookEntry `yaml:"agentBookmarked,omitempty" toml:"agentBookmarked"`
	AgentSubmitted     []HookEntry `yaml:"agentSubmitted,omitempty" toml:"agentSubmitted"`
	AgentStatusChanged []HookEntry `yaml:"agentStatusChanged,omitempty" toml:"agentStatusChanged"`
	BlogPublished      []HookEntry `yaml:"blogPublished,omitempty" toml:"blogPublished"`
	NewsletterSent     []HookEntry `yaml:"newsletterSent,omitempty" toml:"newsletterSent"`
}

// HookEntry defines a single hook action.
type HookEntry struct {
	Command string `yaml:"command" toml:"command"`
	Timeout int    `yaml:"timeout,omitempty" toml:"timeout"` // milliseconds
}

// NewsletterConfig holds defaults for admin newsletter sends.
type NewsletterConfig struct {
	DefaultHTML string `yaml:"defaultHtml,omitempty" toml:"defaultHtml"`
}
