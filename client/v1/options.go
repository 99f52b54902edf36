package v1

import (
	"net/http"
	"time"
)

type HTTPClientFunc func(opt *Options)

type Options struct {
	httpClient *http.Client
	maxRetries uint64
}

func defaultClientOptions() *Options {
	return &Options{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: 3,
	}
}

// WithHTTPClient replaces the default client, which times out after 30 seconds.
func WithHTTPClient(c *http.Client) HTTPClientFunc {
	return func(opt *Options) {
		if c != nil {
			opt.httpClient = c
		}
	}
}

// WithMaxRetries bounds the retries of GET requests. Zero disables retrying.
func WithMaxRetries(n uint64) HTTPClientFunc {
	return func(opt *Options) {
		opt.maxRetries = n
	}
}
