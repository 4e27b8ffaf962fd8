package config

import "time"

const (
	AppName     = "Daily Production Dashboard"
	ServiceName = "proddash"

	// EnvPrefix namespaces every environment variable, e.g. PRODDASH_SOURCE_URL.
	EnvPrefix = "PRODDASH"

	DefaultSourceURL       = "./data/dailyproduction.csv"
	DefaultFetchTimeout    = 30 * time.Second
	DefaultRefreshInterval = 5 * time.Minute
	DefaultMaxSourceBytes  = 4 << 20

	DefaultRateLimitRPS   = 100
	DefaultRateLimitBurst = 50
)

// Version is stamped at build time with -ldflags "-X proddash/internal/config.Version=...".
var Version = "dev"
