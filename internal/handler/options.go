package handler

import "time"

type OptionFunc func(opt *Options)

type Options struct {
	now func() time.Time
}

func defaultHandlerOptions() *Options {
	return &Options{
		now: time.Now,
	}
}

// WithClock sets the clock used to stamp new record ids.
func WithClock(now func() time.Time) OptionFunc {
	return func(opt *Options) {
		opt.now = now
	}
}
