package http

import "net/http"

type headerTransport struct {
	headers   map[string]string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	for key, value := range t.headers {
		if value != "" {
			reqCopy.Header.Set(key, value)
		}
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken sends a bearer token with every request
func WithAuthToken(token string) Option {
	if token == "" {
		return WithStaticHeaders(nil)
	}
	return WithStaticHeaders(map[string]string{"Authorization": "Bearer " + token})
}

// WithStaticHeaders sends the given headers with every request. Empty values are skipped.
func WithStaticHeaders(headers map[string]string) Option {
	copied := make(map[string]string, len(headers))
	for k, v := range headers {
		copied[k] = v
	}
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &headerTransport{
			headers:   copied,
			transport: rt,
		}
	})
}
