package arff

import (
	"log/slog"

	"github.com/hupe1980/strkernel/resource"
	"golang.org/x/text/unicode/norm"
)

// ClassLast selects the last attribute as class. It is the default.
const ClassLast = -2

// NoClass leaves the dataset without a class attribute.
const NoClass = -1

type options struct {
	classIndex int
	normalize  bool
	form       norm.Form
	rc         *resource.Controller
	logger     *slog.Logger
}

// Option configures Read and Load.
type Option func(*options)

// WithClassIndex sets the class attribute. Use NoClass for none and
// ClassLast for the last attribute.
func WithClassIndex(index int) Option {
	return func(o *options) {
		o.classIndex = index
	}
}

// WithNormalization applies the Unicode normalization form to every string
// and nominal value, so that canonically equivalent texts compare equal.
func WithNormalization(form norm.Form) Option {
	return func(o *options) {
		o.normalize = true
		o.form = form
	}
}

// WithResourceController throttles Load reads through rc's IO limit.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func applyOptions(opts []Option) options {
	o := options{
		classIndex: ClassLast,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
