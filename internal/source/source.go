// Package source retrieves the raw daily production export.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"proddash/internal/config"
)

// Fetcher returns the current contents of the daily export.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Kind is "http" or "file", used to label metrics and logs.
	Kind() string
	// Location is the URL or path being read.
	Location() string
}

// New picks an HTTP or file fetcher from the configured URL. Anything that
// is not an http(s) URL is treated as a path, with or without file://.
func New(cfg config.SourceConfig, logger *slog.Logger) (Fetcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return nil, fmt.Errorf("source url is empty")
	}

	if u, err := url.Parse(raw); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return NewHTTPSource(raw, HTTPOptions{
				Timeout:  cfg.FetchTimeout,
				MaxBytes: cfg.MaxBytes,
			}, logger), nil
		case "file":
			path := u.Path
			if u.Host != "" && u.Host != "localhost" {
				path = u.Host + u.Path
			}
			return NewFileSource(path, cfg.MaxBytes), nil
		}
	}
	return NewFileSource(raw, cfg.MaxBytes), nil
}

// timed runs fn under ctx bounded by timeout, if positive.
func timed(ctx context.Context, timeout time.Duration, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fn(ctx)
}
