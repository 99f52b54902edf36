package server

import "time"

type OptionFunc func(opt *Options)

type Options struct {
	port            int
	allowedOrigins  []string
	shutdownTimeout time.Duration
}

func defaultOptions() *Options {
	return &Options{
		port:            3000,
		allowedOrigins:  []string{"*"},
		shutdownTimeout: 10 * time.Second,
	}
}

func WithPort(port int) OptionFunc {
	return func(opt *Options) {
		opt.port = port
	}
}

func WithAllowedOrigins(origins []string) OptionFunc {
	return func(opt *Options) {
		if len(origins) > 0 {
			opt.allowedOrigins = origins
		}
	}
}

func WithShutdownTimeout(d time.Duration) OptionFunc {
	return func(opt *Options) {
		opt.shutdownTimeout = d
	}
}
