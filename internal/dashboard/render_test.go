package dashboard

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, v View) string {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, v))
	return buf.String()
}

func TestRender_Dashboard(t *testing.T) {
	html := render(t, Build(sampleRecord(t), State{LastUpdated: loadedAt, LiveUpdates: true}))

	for _, want := range []string{
		"Thursday 12th June 2025",
		"Conventional Books",
		"Print on Demand",
		"Personalised Books",
		"Clays Trade",
		"1,614",
		"-9,386",
		`class="value-number negative"`,
		"width: 14.7%",
		"On Time Performance",
		"Conventional &amp; Trade",
		`class="percentage warning">90.0%`,
		"10 units",
		"£3501",
		"Total Units Yesterday",
		"40,284",
		"Last updated: 13/06/2025, 07:30:00",
		`new WebSocket(`,
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, `role="alert"`)
	assert.NotContains(t, html, `http-equiv="refresh"`)
}

func TestRender_States(t *testing.T) {
	t.Run("loading", func(t *testing.T) {
		html := render(t, Build(nil, State{Loading: true, RefreshInterval: 5 * time.Minute}))
		assert.Contains(t, html, "Loading production data")
		assert.Contains(t, html, `content="300"`)
		assert.NotContains(t, html, "dashboard-content")
	})

	t.Run("error without data", func(t *testing.T) {
		html := render(t, Build(nil, State{Failed: true}))
		assert.Contains(t, html, ErrorBanner)
		assert.Contains(t, html, `class="banner error"`)
		assert.NotContains(t, html, "dashboard-content")
	})

	t.Run("stale data stays on screen", func(t *testing.T) {
		html := render(t, Build(sampleRecord(t), State{Failed: true, LastUpdated: loadedAt}))
		assert.Contains(t, html, ErrorBanner)
		assert.Equal(t, 1, strings.Count(html, `id="error"`))
		assert.Contains(t, html, `class="banner stale"`)
		assert.Contains(t, html, "dashboard-content")
		assert.Contains(t, html, "1,614")
	})
}
