package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP client timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "talent-radar/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ChannelConfig holds settings for channel ingestion.
type ChannelConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Username is the public channel name without the leading "@".
	Username string `json:"username" yaml:"username" mapstructure:"username"`

	// BaseURL is the channel host used for reading and for deep links
	// (default "https://t.me").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// PageSize is the number of recent messages fetched per refresh (default 10).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// StaleAfter is the maximum cache age before a search refreshes (default 1h).
	StaleAfter time.Duration `json:"stale_after" yaml:"stale_after" mapstructure:"stale_after"`
}

// ExtractConfig holds settings for the text record extractor.
type ExtractConfig struct {
	// MinLength is the minimum message length in characters (default 44).
	MinLength int `json:"min_length" yaml:"min_length" mapstructure:"min_length"`
}

// Search transports.
const (
	TransportDuckDuckGo = "duckduckgo"
	TransportGoogle     = "google"
)

// SearchConfig holds settings for the multi-source web search.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Transport selects the search engine: duckduckgo (default) or google.
	Transport string `json:"transport" yaml:"transport" mapstructure:"transport"`

	// Locale is passed to the transport (e.g. "ru-ru").
	Locale string `json:"locale" yaml:"locale" mapstructure:"locale"`

	// ResultsPerBackend is the number of hits requested from each backend (default 10).
	ResultsPerBackend int `json:"results_per_backend" yaml:"results_per_backend" mapstructure:"results_per_backend"`

	// BackendTimeout bounds each backend request separately (default 15s).
	BackendTimeout time.Duration `json:"backend_timeout" yaml:"backend_timeout" mapstructure:"backend_timeout"`

	// GoogleAPIKey and GoogleCX authenticate the Google Custom Search transport.
	GoogleAPIKey string `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty" mapstructure:"google_api_key"`
	GoogleCX     string `json:"google_cx,omitempty" yaml:"google_cx,omitempty" mapstructure:"google_cx"`

	// Backends is the ordered list of sources (default DefaultBackends).
	Backends []BackendDescriptor `json:"backends" yaml:"backends" mapstructure:"backends"`
}

// StoreConfig holds settings for the SQLite candidate sink.
type StoreConfig struct {
	// Path is the database file (default "data/candidates.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is json (default) or console.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// AppConfig groups all stage configurations.
type AppConfig struct {
	Channel ChannelConfig `json:"channel" yaml:"channel" mapstructure:"channel"`
	Extract ExtractConfig `json:"extract" yaml:"extract" mapstructure:"extract"`
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
}
