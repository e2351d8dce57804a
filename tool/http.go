package tool

import (
	"net/http"
	"time"
)

var DefaultTimeout = 120 * time.Second

// NewHTTPClient creates the client used for backend calls. Extraction of a large scan can
// take a while, so the timeout is generous and configurable.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
