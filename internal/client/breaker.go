package client

import (
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/failsafehttp"

	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/metrics"
)

// BreakerListener is notified when the catalog circuit breaker opens (true) or closes (false).
type BreakerListener func(open bool)

// newBreakerTransport wraps next with a circuit breaker that opens after
// threshold consecutive transport errors or 5xx answers. An open breaker fails
// requests immediately with circuitbreaker.ErrOpen; nothing is retried.
func newBreakerTransport(next http.RoundTripper, threshold uint, delay time.Duration, listener BreakerListener) http.RoundTripper {
	logger := config.GetLogger()
	if threshold == 0 {
		threshold = 5
	}

	notify := func(open bool) {
		if open {
			metrics.CircuitBreakerOpen.Set(1)
		} else {
			metrics.CircuitBreakerOpen.Set(0)
		}
		if listener != nil {
			listener(open)
		}
	}

	breaker := circuitbreaker.NewBuilder[*http.Response]().
		HandleIf(func(resp *http.Response, err error) bool {
			return err != nil || (resp != nil && resp.StatusCode >= http.StatusInternalServerError)
		}).
		WithFailureThreshold(threshold).
		WithDelay(delay).
		OnOpen(func(circuitbreaker.StateChangedEvent) {
			logger.Warn().Uint("threshold", threshold).Dur("delay", delay).Msg("Catalog circuit breaker opened")
			notify(true)
		}).
		OnClose(func(circuitbreaker.StateChangedEvent) {
			logger.Info().Msg("Catalog circuit breaker closed")
			notify(false)
		}).
		Build()

	return failsafehttp.NewRoundTripper(next, breaker)
}
