package reporting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (c *captured) hook(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	// dropped so nothing leaves the process
	return nil
}

func newTestReporter(t *testing.T) (*Reporter, *captured) {
	t.Helper()
	cfg := config.Default()
	cfg.Sentry.DSN = "https://public@sentry.example.com/1"
	cfg.Sentry.Environment = "test"

	sink := &captured{}
	r, err := New(cfg, "v-test", WithBeforeSend(sink.hook))
	require.NoError(t, err)
	return r, sink
}

func TestNew_WithoutDSNIsInert(t *testing.T) {
	r, err := New(config.Default(), "v-test")
	require.NoError(t, err)

	assert.False(t, r.Enabled())
	r.CaptureFlowFailure("search", errors.New("boom"), nil)
	assert.True(t, r.Flush(0))
}

func TestNew_InvalidDSN(t *testing.T) {
	cfg := config.Default()
	cfg.Sentry.DSN = "::not a dsn"

	_, err := New(cfg, "v-test")
	assert.Error(t, err)
}

func TestCaptureFlowFailure_Tags(t *testing.T) {
	r, sink := newTestReporter(t)

	r.CaptureFlowFailure("episodes", &apperrors.ErrUpstreamStatus{URL: "u", StatusCode: 500}, map[string]string{"show_id": "7"})

	require.Len(t, sink.events, 1)
	event := sink.events[0]
	assert.Equal(t, "episodes", event.Tags["flow"])
	assert.Equal(t, "status", event.Tags["error_kind"])
	assert.Equal(t, "7", event.Tags["show_id"])
	assert.Equal(t, "test", event.Environment)
	assert.Equal(t, "v-test", event.Release)
}

func TestCaptureFlowFailure_SkipsNotFound(t *testing.T) {
	r, sink := newTestReporter(t)

	r.CaptureFlowFailure("episodes", apperrors.NewShowNotFoundError(7), nil)
	r.CaptureFlowFailure("search", nil, nil)

	assert.Empty(t, sink.events)
}

func TestCaptureFlowFailure_SkipsCanceled(t *testing.T) {
	r, sink := newTestReporter(t)

	r.CaptureFlowFailure("search", fmt.Errorf("search shows: %w", context.Canceled), nil)

	assert.Empty(t, sink.events)
}
