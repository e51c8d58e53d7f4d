package kernel

import (
	"log/slog"
	"time"

	"github.com/hupe1980/strkernel/internal/cache"
	"github.com/hupe1980/strkernel/resource"
)

// Observer receives engine events. The root package's MetricsCollector
// implementations satisfy it.
type Observer interface {
	RecordEvaluate(hit bool, duration time.Duration, err error)
	RecordBind(numInstances int, err error)
	RecordReset()
}

type noopObserver struct{}

func (noopObserver) RecordEvaluate(bool, time.Duration, error) {}
func (noopObserver) RecordBind(int, error)                     {}
func (noopObserver) RecordReset()                              {}

type options struct {
	cacheSlots    int
	rc            *resource.Controller
	maxTableBytes int64
	logger        *slog.Logger
	observer      Observer
}

// Option configures an Engine.
type Option func(*options)

// WithCacheSlots sets the number of cache slots. Defaults to 250007.
func WithCacheSlots(slots int) Option {
	return func(o *options) {
		o.cacheSlots = slots
	}
}

// WithResourceController reserves cache and dynamic-programming memory in rc.
// Evaluations whose working memory rc refuses fail with *ErrResourceExhausted.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithMaxTableBytes caps the working memory of a single evaluation.
// 0 means no cap.
func WithMaxTableBytes(n int64) Option {
	return func(o *options) {
		o.maxTableBytes = n
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithObserver configures an event observer. Pass nil to disable.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		cacheSlots: cache.DefaultSlots,
		logger:     slog.New(slog.DiscardHandler),
		observer:   noopObserver{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.observer == nil {
		o.observer = noopObserver{}
	}
	return o
}
