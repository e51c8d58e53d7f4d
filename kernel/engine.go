package kernel

import (
	"errors"
	"math"
	"time"

	"github.com/hupe1980/strkernel/corpus"
	"github.com/hupe1980/strkernel/internal/cache"
	"github.com/hupe1980/strkernel/similarity"
)

// Unseen is the sentinel id of a record that is not part of the bound corpus.
const Unseen = -1

// CacheStats reports cache activity since Bind.
type CacheStats struct {
	Slots     int
	Hits      int64
	Misses    int64
	Evictions int64
}

// Engine evaluates one similarity metric over a bound corpus.
type Engine struct {
	metric similarity.Metric
	score  similarity.Func
	opts   options

	corpus corpus.Corpus
	field  int
	n      int
	bound  bool

	cache *cache.DirectMapped
	// retired accumulates the counters of caches dropped by Reset.
	retired cache.Stats
	evals   int64
}

// New creates an unbound engine for the given metric.
func New(metric similarity.Metric, optFns ...Option) (*Engine, error) {
	score, err := similarity.Provider(metric)
	if err != nil {
		return nil, err
	}
	return &Engine{
		metric: metric,
		score:  score,
		opts:   applyOptions(optFns),
		field:  -1,
	}, nil
}

// Metric returns the engine's metric.
func (e *Engine) Metric() similarity.Metric { return e.metric }

// Name returns a human-readable description of the kernel.
func (e *Engine) Name() string { return similarity.Describe(e.metric) }

// NumInstances returns the corpus size captured by Bind.
func (e *Engine) NumInstances() int { return e.n }

// ComparisonField returns the attribute index compared by the engine, or -1 if unbound.
func (e *Engine) ComparisonField() int { return e.field }

// Bind locates the comparison field of c, captures its size and allocates an
// empty cache. c must not change while the engine is in use.
func (e *Engine) Bind(c corpus.Corpus) (err error) {
	defer func() { e.opts.observer.RecordBind(e.n, err) }()

	if e.bound {
		return ErrAlreadyBound
	}

	field, err := corpus.ComparisonField(c)
	if err != nil {
		return err
	}

	table, err := cache.NewDirectMapped(e.opts.cacheSlots, e.opts.rc)
	if err != nil {
		return &ErrResourceExhausted{Bytes: cache.Footprint(e.opts.cacheSlots), cause: err}
	}

	e.corpus = c
	e.field = field
	e.n = c.Size()
	e.cache = table
	e.evals = 0
	e.bound = true

	e.opts.logger.Debug("kernel bound",
		"kernel", e.metric.String(),
		"field", field,
		"instances", e.n,
		"cache_slots", table.Slots(),
	)
	return nil
}

// Evaluate returns the kernel value of records id1 and id2.
//
// id2 must be a corpus id. id1 is either a corpus id or Unseen, in which case
// unseen supplies the record. Two Unseen ids score 1 without any computation.
func (e *Engine) Evaluate(id1, id2 int, unseen corpus.Record) (float64, error) {
	if id1 == Unseen && id2 == Unseen {
		return 1, nil
	}

	start := time.Now()
	v, hit, err := e.evaluate(id1, id2, unseen)
	e.opts.observer.RecordEvaluate(hit, time.Since(start), err)
	if err != nil {
		e.opts.logger.Error("kernel evaluation failed",
			"kernel", e.metric.String(),
			"id1", id1,
			"id2", id2,
			"error", err,
		)
	}
	return v, err
}

func (e *Engine) evaluate(id1, id2 int, unseen corpus.Record) (float64, bool, error) {
	if !e.bound {
		return 0, false, ErrNotBound
	}
	if id1 != Unseen && (id1 < 0 || id1 >= e.n) {
		return 0, false, &ErrInvalidID{ID: id1, NumInstances: e.n}
	}
	if id2 < 0 || id2 >= e.n {
		return 0, false, &ErrInvalidID{ID: id2, NumInstances: e.n}
	}

	var key int64 = -1
	if id1 != Unseen {
		k, err := e.pairKey(id1, id2)
		if err != nil {
			return 0, false, err
		}
		key = k
		if table := e.table(); table != nil {
			if v, ok := table.Lookup(key); ok {
				return v, true, nil
			}
		}
	}

	var s1, s2 string
	if id1 == Unseen {
		if unseen == nil {
			return 0, false, ErrMissingRecord
		}
		s1 = unseen.StringField(e.field)
		s2 = e.corpus.Record(id2).StringField(e.field)
	} else {
		// Operands follow the pairKey order so a recomputed value never
		// depends on call order. Ratcliff-Obershelp is not symmetric.
		s1 = e.corpus.Record(max(id1, id2)).StringField(e.field)
		s2 = e.corpus.Record(min(id1, id2)).StringField(e.field)
	}

	v, err := e.compute([]rune(s1), []rune(s2))
	if err != nil {
		return 0, false, err
	}

	if key >= 0 && e.cache != nil {
		e.cache.Store(key, v)
	}
	return v, false, nil
}

// pairKey encodes the unordered pair as max*N + min.
func (e *Engine) pairKey(id1, id2 int) (int64, error) {
	hi, lo := int64(max(id1, id2)), int64(min(id1, id2))
	n := int64(e.n)
	// key+1 is stored as the slot tag, so it must stay representable too.
	if hi > (math.MaxInt64-1-lo)/n {
		return 0, &ErrCacheKeyOverflow{ID1: id1, ID2: id2, NumInstances: e.n}
	}
	return hi*n + lo, nil
}

// table returns the cache, allocating a fresh one after Reset. It returns nil
// if the memory for a new table cannot be reserved; evaluation then proceeds
// uncached.
func (e *Engine) table() *cache.DirectMapped {
	if e.cache != nil && e.cache.Slots() > 0 {
		return e.cache
	}
	table, err := cache.NewDirectMapped(e.opts.cacheSlots, e.opts.rc)
	if err != nil {
		e.opts.logger.Warn("kernel cache unavailable, evaluating uncached",
			"kernel", e.metric.String(),
			"error", err,
		)
		e.cache = nil
		return nil
	}
	e.cache = table
	return table
}

func (e *Engine) compute(a, b []rune) (float64, error) {
	need := similarity.Footprint(e.metric, len(a), len(b))
	if e.opts.maxTableBytes > 0 && need > e.opts.maxTableBytes {
		return 0, &ErrResourceExhausted{Bytes: need}
	}
	if !e.opts.rc.TryAcquireMemory(need) {
		return 0, &ErrResourceExhausted{Bytes: need, cause: errors.New("memory limit exceeded")}
	}
	defer e.opts.rc.ReleaseMemory(need)

	e.evals++
	return e.score(a, b), nil
}

// EvaluationCount returns the number of metric computations performed since
// Bind. Cache hits are not counted.
func (e *Engine) EvaluationCount() int64 { return e.evals }

// CacheStats returns cache counters accumulated since Bind.
func (e *Engine) CacheStats() CacheStats {
	s := e.retired
	slots := 0
	if e.cache != nil {
		cur := e.cache.Stats()
		s.Hits += cur.Hits
		s.Misses += cur.Misses
		s.Evictions += cur.Evictions
		slots = e.cache.Slots()
	}
	return CacheStats{Slots: slots, Hits: s.Hits, Misses: s.Misses, Evictions: s.Evictions}
}

// Reset releases the cache. The engine stays bound and keeps its evaluation
// count; the next cached evaluation starts from an empty table.
func (e *Engine) Reset() {
	if e.cache != nil {
		cur := e.cache.Stats()
		e.retired.Hits += cur.Hits
		e.retired.Misses += cur.Misses
		e.retired.Evictions += cur.Evictions
		e.cache.Reset()
		e.cache = nil
	}
	e.opts.observer.RecordReset()
	e.opts.logger.Debug("kernel cache reset",
		"kernel", e.metric.String(),
		"evaluations", e.evals,
	)
}
