package client

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimitTransport delays outbound requests to stay within the catalog's
// published request budget. Waiting honors the request context.
type rateLimitTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

// newRateLimitTransport returns next unchanged when rps is not positive.
func newRateLimitTransport(next http.RoundTripper, rps float64, burst int) http.RoundTripper {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}
