package strkernel

import (
	"log/slog"

	"github.com/hupe1980/strkernel/corpus/arff"
	"github.com/hupe1980/strkernel/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	rc               *resource.Controller
	cacheSlots       int
	maxTableBytes    int64
	corpusOptions    []arff.Option
}

// Option configures NewKernel and Open.
type Option func(*options)

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &strkernel.BasicMetricsCollector{}
//	k, _ := strkernel.Open(ctx, store, "spam.arff", similarity.MetricSubsequence,
//	    strkernel.WithMetricsCollector(metrics))
//	// ... use k ...
//	stats := metrics.GetStats()
//	fmt.Printf("Evaluations: %d, hits: %d\n", stats.EvaluateCount, stats.CacheHits)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController bounds memory, workers and corpus I/O.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithCacheSlots overrides the number of cache slots. 0 keeps the default.
func WithCacheSlots(slots int) Option {
	return func(o *options) {
		o.cacheSlots = slots
	}
}

// WithMaxTableBytes caps the working memory of a single evaluation.
func WithMaxTableBytes(n int64) Option {
	return func(o *options) {
		o.maxTableBytes = n
	}
}

// WithCorpusOptions passes options to the ARFF loader used by Open.
func WithCorpusOptions(opts ...arff.Option) Option {
	return func(o *options) {
		o.corpusOptions = append(o.corpusOptions, opts...)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
