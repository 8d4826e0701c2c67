package releaser

import (
	"context"
	"net/http"

	"github.com/grokify/gogithub/auth"
)

// timeZoneTransport sets the Time-Zone header GitHub uses to interpret
// timestamps in request bodies.
type timeZoneTransport struct {
	timeZone string
	base     http.RoundTripper
}

func (t *timeZoneTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.timeZone == "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("Time-Zone", t.timeZone)
	return t.base.RoundTrip(r)
}

// newHTTPClient returns an HTTP client that authenticates with token (if
// set) and forwards timeZone (if set).
func newHTTPClient(ctx context.Context, token, timeZone string) *http.Client {
	client := &http.Client{}
	if token != "" {
		client = auth.NewTokenClient(ctx, token)
	}

	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client.Transport = &timeZoneTransport{timeZone: timeZone, base: base}
	return client
}
