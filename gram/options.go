package gram

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/strkernel/kernel"
	"github.com/hupe1980/strkernel/resource"
)

// Observer receives one call per Compute.
type Observer interface {
	RecordGram(rows int, d time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) RecordGram(int, time.Duration, error) {}

type options struct {
	workers     int
	subset      *roaring.Bitmap
	rc          *resource.Controller
	kernelOpts  []kernel.Option
	logger      *slog.Logger
	observer    Observer
	compression Compression
	prefix      string
	now         func() time.Time
}

// Option configures Compute, Save and Publish.
type Option func(*options)

// WithWorkers sets the number of parallel workers. The default is the
// controller's MaxWorkers when one is set, else GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithSubset restricts the matrix to the given corpus ids.
func WithSubset(ids *roaring.Bitmap) Option {
	return func(o *options) {
		o.subset = ids
	}
}

// WithResourceController bounds worker slots, kernel table memory and
// storage IO.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithKernelOptions passes options to every worker engine.
func WithKernelOptions(opts ...kernel.Option) Option {
	return func(o *options) {
		o.kernelOpts = append(o.kernelOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithObserver sets the observer notified after each Compute.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithCompression selects the payload compression used by Save and Publish.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithPrefix sets the blob name prefix used by Publish. Default: "gram/".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:      slog.New(slog.DiscardHandler),
		observer:    noopObserver{},
		compression: CompressionZSTD,
		prefix:      "gram/",
		now:         time.Now,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.workers <= 0 {
		if o.rc != nil {
			o.workers = int(o.rc.Config().MaxWorkers)
		} else {
			o.workers = runtime.GOMAXPROCS(0)
		}
	}
	return o
}
