package mux

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Option configures a Table, Dispatcher, Handler or PrefixRouter. Each
// constructor reads the settings that apply to it and ignores the rest.
type Option func(*options)

type options struct {
	logger    logrus.FieldLogger
	config    Config
	metrics   *Metrics
	fallbacks map[string]Action
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: defaultLogger(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithConfig replaces the configuration.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.config = c
	}
}

// WithBasePath sets Config.BasePath.
func WithBasePath(p string) Option {
	return func(o *options) {
		o.config.BasePath = p
	}
}

// WithMetrics records dispatch outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithFallback registers the action a Table forwards requests to when the
// method has no endpoint and Return405 is disabled.
func WithFallback(method string, a Action) Option {
	return func(o *options) {
		if o.fallbacks == nil {
			o.fallbacks = make(map[string]Action)
		}
		o.fallbacks[strings.ToUpper(method)] = a
	}
}

// defaultLogger drops everything below warnings.
func defaultLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}
