package strkernel

import (
	"context"
	"time"

	"github.com/hupe1980/strkernel/blobstore"
	"github.com/hupe1980/strkernel/corpus"
	"github.com/hupe1980/strkernel/corpus/arff"
	"github.com/hupe1980/strkernel/gram"
	"github.com/hupe1980/strkernel/kernel"
	"github.com/hupe1980/strkernel/similarity"
)

// NewKernel creates an unbound kernel engine for metric with the ambient
// options applied.
func NewKernel(metric similarity.Metric, optFns ...Option) (*kernel.Engine, error) {
	o := applyOptions(optFns)
	return kernel.New(metric, o.kernelOptions(metric)...)
}

func (o options) kernelOptions(metric similarity.Metric) []kernel.Option {
	kopts := []kernel.Option{
		kernel.WithResourceController(o.rc),
		kernel.WithMaxTableBytes(o.maxTableBytes),
		kernel.WithLogger(o.logger.WithMetric(metric.String()).Logger),
		kernel.WithObserver(o.metricsCollector),
	}
	if o.cacheSlots > 0 {
		kopts = append(kopts, kernel.WithCacheSlots(o.cacheSlots))
	}
	return kopts
}

// Kernel is an engine bound to a corpus loaded from a blob store.
//
// Like the engine it embeds, a Kernel is not safe for concurrent use.
// Gram spreads its work over engines of its own.
type Kernel struct {
	*kernel.Engine

	// Corpus is the loaded corpus the engine is bound to.
	Corpus *corpus.Dataset

	name   string
	opts   options
	logger *Logger
}

// Open loads the ARFF corpus name from store and binds a new engine to it.
// Binding reserves the full cache in the resource controller; Reset returns
// it until the next cached evaluation.
func Open(ctx context.Context, store blobstore.BlobStore, name string, metric similarity.Metric, optFns ...Option) (*Kernel, error) {
	o := applyOptions(optFns)
	logger := o.logger.WithCorpus(name).WithMetric(metric.String())

	aopts := append([]arff.Option{
		arff.WithResourceController(o.rc),
		arff.WithLogger(logger.Logger),
	}, o.corpusOptions...)

	ds, err := arff.Load(ctx, store, name, aopts...)
	if err != nil {
		err = translateError(name, err)
		logger.LogLoad(ctx, name, 0, err)
		return nil, err
	}
	logger.LogLoad(ctx, name, ds.Size(), nil)

	e, err := kernel.New(metric, o.kernelOptions(metric)...)
	if err != nil {
		return nil, err
	}
	err = e.Bind(ds)
	logger.LogBind(ctx, e.ComparisonField(), ds.Size(), err)
	if err != nil {
		return nil, err
	}

	return &Kernel{
		Engine: e,
		Corpus: ds,
		name:   name,
		opts:   o,
		logger: logger,
	}, nil
}

// CorpusName returns the corpus blob name.
func (k *Kernel) CorpusName() string { return k.name }

// Gram computes the kernel matrix of the corpus in parallel. The resource
// controller, logger and metrics collector of Open are forwarded.
func (k *Kernel) Gram(ctx context.Context, optFns ...gram.Option) (*gram.Matrix, error) {
	start := time.Now()
	opts := append([]gram.Option{
		gram.WithResourceController(k.opts.rc),
		gram.WithLogger(k.logger.Logger),
		gram.WithObserver(k.opts.metricsCollector),
		gram.WithKernelOptions(k.opts.kernelOptions(k.Metric())...),
	}, optFns...)

	m, err := gram.Compute(ctx, k.Corpus, k.Metric(), opts...)
	rows := 0
	if m != nil {
		rows = m.Len()
	}
	k.logger.LogGram(ctx, rows, time.Since(start), err)
	return m, err
}

// Predict scores rec, a record outside the corpus, against every corpus record.
func (k *Kernel) Predict(ctx context.Context, rec corpus.Record) ([]float64, error) {
	row, err := gram.PredictRow(ctx, k.Engine, rec, nil)
	if err != nil {
		k.logger.LogEvaluateError(ctx, kernel.Unseen, -1, err)
	}
	return row, err
}

// Reset releases the engine's cache.
func (k *Kernel) Reset() {
	k.Engine.Reset()
	k.logger.LogReset(context.Background(), k.EvaluationCount())
}
