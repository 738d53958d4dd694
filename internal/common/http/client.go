// internal/common/http/client.go
package http

import (
	"net/http"
	"time"
)

// NewClient returns an *http.Client for outbound API calls: the whole
// exchange is bounded by timeout and idle connections to one host are kept
// for the sequential calls of a search batch.
func NewClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 10
	transport.IdleConnTimeout = 90 * time.Second

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
