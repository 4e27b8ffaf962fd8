package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apperrors "proddash/internal/errors"
)

// HTTPOptions tunes an HTTPSource.
type HTTPOptions struct {
	Timeout  time.Duration
	MaxBytes int64
	// Transport overrides the base round tripper; tests use it to inject
	// failures.
	Transport http.RoundTripper
}

// HTTPSource reads the export from an http(s) URL.
type HTTPSource struct {
	url      string
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	logger   *slog.Logger
}

// NewHTTPSource creates a fetcher for url. Requests are traced through
// otelhttp.
func NewHTTPSource(url string, opts HTTPOptions, logger *slog.Logger) *HTTPSource {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPSource{
		url: url,
		client: &http.Client{
			Transport: otelhttp.NewTransport(base,
				otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
					return "source.fetch " + r.URL.Host
				}),
			),
		},
		timeout:  opts.Timeout,
		maxBytes: opts.MaxBytes,
		logger:   logger.With(slog.String("component", "http_source")),
	}
}

// Kind implements Fetcher
func (s *HTTPSource) Kind() string { return "http" }

// Location implements Fetcher
func (s *HTTPSource) Location() string { return s.url }

// Fetch performs one GET. Transport failures and non-2xx statuses are
// returned as FETCH errors.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	return timed(ctx, s.timeout, s.fetch)
}

func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, apperrors.NewFetchError("build request", err).WithContext("url", s.url)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError("request failed", err).WithContext("url", s.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, apperrors.NewFetchError(fmt.Sprintf("HTTP error! status: %d", resp.StatusCode), nil).
			WithContext("url", s.url).
			WithContext("status", resp.StatusCode)
	}

	body, err := readLimited(resp.Body, s.maxBytes)
	if err != nil {
		return nil, apperrors.NewFetchError("read body", err).WithContext("url", s.url)
	}

	s.logger.DebugContext(ctx, "source fetched",
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)))
	return body, nil
}

// readLimited reads r fully, failing when more than max bytes arrive. A
// non-positive max disables the check.
func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > max {
		return nil, fmt.Errorf("document exceeds %d bytes", max)
	}
	return body, nil
}
