// Package reporting forwards failed flows to Sentry. A Reporter built without
// a DSN is inert.
package reporting

import (
	"context"
	"errors"
	"time"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/getsentry/sentry-go"
)

// Reporter captures flow failures on its own Sentry hub.
type Reporter struct {
	hub *sentry.Hub
}

// Option customises the Sentry client options.
type Option func(*sentry.ClientOptions)

// WithBeforeSend installs a hook run on every event before it is sent.
func WithBeforeSend(fn func(*sentry.Event, *sentry.EventHint) *sentry.Event) Option {
	return func(o *sentry.ClientOptions) {
		o.BeforeSend = fn
	}
}

// New creates a Reporter from the sentry section of cfg.
func New(cfg *config.Config, release string, opts ...Option) (*Reporter, error) {
	if cfg.Sentry.DSN == "" {
		return &Reporter{}, nil
	}

	options := sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     release,
	}
	for _, opt := range opts {
		opt(&options)
	}

	client, err := sentry.NewClient(options)
	if err != nil {
		return nil, err
	}
	return &Reporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// Enabled reports whether events are sent anywhere.
func (r *Reporter) Enabled() bool {
	return r != nil && r.hub != nil
}

// CaptureFlowFailure reports err for the named flow. Not-found results are a
// normal answer from the catalog and are not reported, nor are requests the
// client abandoned.
func (r *Reporter) CaptureFlowFailure(flow string, err error, tags map[string]string) {
	if !r.Enabled() || err == nil || errors.Is(err, context.Canceled) {
		return
	}
	kind := apperrors.Kind(err)
	if kind == "not_found" {
		return
	}

	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("flow", flow)
		scope.SetTag("error_kind", kind)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		r.hub.CaptureException(err)
	})
}

// Flush waits up to timeout for buffered events to be delivered.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if !r.Enabled() {
		return true
	}
	return r.hub.Flush(timeout)
}
