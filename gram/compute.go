package gram

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/strkernel/corpus"
	"github.com/hupe1980/strkernel/kernel"
	"github.com/hupe1980/strkernel/similarity"
	"golang.org/x/sync/errgroup"
)

// MaxRows bounds the matrix dimension so that ids fit the persisted format.
const MaxRows = math.MaxUint32

// workerCacheSlots sizes the cache of each worker engine.
const workerCacheSlots = 1

// ErrIDOutOfRange is returned when a subset names an id outside the corpus.
var ErrIDOutOfRange = errors.New("gram: subset id out of range")

// Compute evaluates the kernel over every pair of the selected corpus ids.
func Compute(ctx context.Context, c corpus.Corpus, metric similarity.Metric, optFns ...Option) (m *Matrix, err error) {
	o := applyOptions(optFns)
	start := time.Now()

	var ids []int
	defer func() {
		o.observer.RecordGram(len(ids), time.Since(start), err)
	}()

	ids, err = selectIDs(c.Size(), o.subset)
	if err != nil {
		return nil, err
	}

	if !metric.Valid() {
		return nil, fmt.Errorf("gram: unknown metric %d", metric)
	}

	n := len(ids)
	m = NewMatrix(metric, ids)
	if n == 0 {
		return m, nil
	}

	workers := min(o.workers, n)
	kernelOpts := append([]kernel.Option{
		kernel.WithResourceController(o.rc),
		kernel.WithLogger(o.logger),
	}, o.kernelOpts...)
	// A worker visits each pair once, so its cache can never hit.
	kernelOpts = append(kernelOpts, kernel.WithCacheSlots(workerCacheSlots))

	var evals atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			if err := o.rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer o.rc.ReleaseWorker()

			e, err := kernel.New(metric, kernelOpts...)
			if err != nil {
				return err
			}
			if err := e.Bind(c); err != nil {
				return err
			}
			defer e.Reset()

			// Rows are striped so the long upper rows spread across workers.
			for i := w; i < n; i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				for j := i; j < n; j++ {
					v, err := e.Evaluate(ids[i], ids[j], nil)
					if err != nil {
						return fmt.Errorf("gram: pair (%d, %d): %w", ids[i], ids[j], err)
					}
					m.set(i, j, v)
				}
			}
			evals.Add(e.EvaluationCount())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		o.logger.Error("gram computation failed", "rows", n, "error", err)
		return nil, err
	}

	o.logger.Debug("gram computed",
		"metric", metric.String(),
		"rows", n,
		"workers", workers,
		"evaluations", evals.Load(),
		"elapsed", time.Since(start),
	)
	return m, nil
}

func selectIDs(size int, subset *roaring.Bitmap) ([]int, error) {
	if subset == nil {
		if int64(size) > MaxRows {
			return nil, fmt.Errorf("gram: corpus of %d records exceeds %d rows", size, MaxRows)
		}
		ids := make([]int, size)
		for i := range ids {
			ids[i] = i
		}
		return ids, nil
	}

	ids := make([]int, 0, subset.GetCardinality())
	it := subset.Iterator()
	for it.HasNext() {
		id := int(it.Next())
		if id >= size {
			return nil, fmt.Errorf("%w: %d (corpus size %d)", ErrIDOutOfRange, id, size)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// PredictRow scores an unseen record against the given corpus ids, or every
// record of the bound corpus when ids is nil. The engine must be bound.
func PredictRow(ctx context.Context, e *kernel.Engine, rec corpus.Record, ids []int) ([]float64, error) {
	if ids == nil {
		ids = make([]int, e.NumInstances())
		for i := range ids {
			ids[i] = i
		}
	}
	row := make([]float64, len(ids))
	for k, id := range ids {
		if k%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		v, err := e.Evaluate(kernel.Unseen, id, rec)
		if err != nil {
			return nil, err
		}
		row[k] = v
	}
	return row, nil
}
