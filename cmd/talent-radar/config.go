// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/talent-radar/internal/extract"
	"github.com/pdiddy/talent-radar/internal/httputil"
	"github.com/pdiddy/talent-radar/internal/ingest"
	"github.com/pdiddy/talent-radar/internal/search"
	"github.com/pdiddy/talent-radar/internal/store"
	"github.com/pdiddy/talent-radar/pkg/types"
)

// setDefaults registers every key so environment variables can override
// keys absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("channel.username", "")
	v.SetDefault("channel.base_url", ingest.DefaultBaseURL)
	v.SetDefault("channel.page_size", ingest.DefaultPageSize)
	v.SetDefault("channel.stale_after", ingest.DefaultStaleAfter)
	v.SetDefault("channel.timeout", httputil.DefaultTimeout)
	v.SetDefault("channel.user_agent", httputil.DefaultUserAgent)

	v.SetDefault("extract.min_length", extract.DefaultMinLength)

	v.SetDefault("search.transport", types.TransportDuckDuckGo)
	v.SetDefault("search.locale", search.DefaultLocale)
	v.SetDefault("search.results_per_backend", search.DefaultResultsPerBackend)
	v.SetDefault("search.backend_timeout", search.DefaultBackendTimeout)
	v.SetDefault("search.timeout", httputil.DefaultTimeout)
	v.SetDefault("search.user_agent", httputil.DefaultUserAgent)
	v.SetDefault("search.google_api_key", "")
	v.SetDefault("search.google_cx", "")

	v.SetDefault("store.path", store.DefaultPath)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// loadConfig decodes the merged viper state into an AppConfig.
func loadConfig() (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if len(cfg.Search.Backends) == 0 {
		cfg.Search.Backends = types.DefaultBackends
	}
	return cfg, nil
}
