package strkernel

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hupe1980/strkernel/blobstore"
	"github.com/hupe1980/strkernel/corpus"
	"github.com/hupe1980/strkernel/corpus/arff"
	"github.com/hupe1980/strkernel/gram"
	"github.com/hupe1980/strkernel/kernel"
	"github.com/hupe1980/strkernel/resource"
	"github.com/hupe1980/strkernel/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smsARFF = `@relation sms
@attribute text string
@attribute class {ham,spam}
@data
'free entry to win a prize',spam
'see you at lunch',ham
'win a free prize now',spam
'lunch at noon?',ham
`

var smsTexts = []string{
	"free entry to win a prize",
	"see you at lunch",
	"win a free prize now",
	"lunch at noon?",
}

func newStore(t *testing.T, name, data string) *blobstore.MemoryStore {
	t.Helper()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), name, []byte(data)))
	return store
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "sms.arff", smsARFF)
	metrics := &BasicMetricsCollector{}

	k, err := Open(ctx, store, "sms.arff", similarity.MetricSubsequence, WithMetricsCollector(metrics))
	require.NoError(t, err)
	assert.Equal(t, "sms.arff", k.CorpusName())
	assert.Equal(t, 4, k.NumInstances())
	assert.Equal(t, 0, k.ComparisonField())

	v, err := k.Evaluate(0, 2, nil)
	require.NoError(t, err)
	assert.InDelta(t, similarity.SubsequenceScore([]rune(smsTexts[0]), []rune(smsTexts[2])), v, 1e-12)

	// Second evaluation of the same pair is served from the cache.
	_, err = k.Evaluate(2, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), k.EvaluationCount())

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.BindCount)
	assert.Equal(t, int64(2), stats.EvaluateCount)
	assert.Equal(t, int64(1), stats.CacheHits)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		_, err := Open(ctx, blobstore.NewMemoryStore(), "nope.arff", similarity.MetricEditDistance)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("malformed", func(t *testing.T) {
		store := newStore(t, "bad.arff", "@relation r\n@attribute s string\n@attribute c {a,b}\n@data\nx,c\n")
		_, err := Open(ctx, store, "bad.arff", similarity.MetricEditDistance)
		var ice *ErrInvalidCorpus
		require.ErrorAs(t, err, &ice)
		assert.Equal(t, "bad.arff", ice.Name)
		assert.Equal(t, 5, ice.Line)

		var pe *arff.ParseError
		assert.ErrorAs(t, err, &pe)
	})

	t.Run("no comparable field", func(t *testing.T) {
		store := newStore(t, "num.arff", "@relation r\n@attribute x numeric\n@attribute s string\n@data\n1,a\n")
		_, err := Open(ctx, store, "num.arff", similarity.MetricEditDistance,
			WithCorpusOptions(arff.WithClassIndex(1)))
		assert.ErrorIs(t, err, ErrNoComparableField)
	})
}

func TestKernel_GramAndPredict(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "sms.arff", smsARFF)
	metrics := &BasicMetricsCollector{}
	rc := resource.NewController(resource.Config{MaxWorkers: 2})

	k, err := Open(ctx, store, "sms.arff", similarity.MetricRatcliffObershelp,
		WithMetricsCollector(metrics),
		WithResourceController(rc),
	)
	require.NoError(t, err)

	m, err := k.Gram(ctx, gram.WithWorkers(2))
	require.NoError(t, err)
	require.Equal(t, 4, m.Len())
	for i := range smsTexts {
		for j := range smsTexts {
			want := similarity.RatcliffObershelpScore([]rune(smsTexts[max(i, j)]), []rune(smsTexts[min(i, j)]))
			assert.InDelta(t, want, m.At(i, j), 1e-12)
		}
	}
	assert.Equal(t, int64(1), metrics.GetStats().GramCount)
	assert.Equal(t, int64(4), metrics.GetStats().GramRows)

	rec := corpus.NewInstance(corpus.StringValue("free lunch"), corpus.MissingValue())
	row, err := k.Predict(ctx, rec)
	require.NoError(t, err)
	require.Len(t, row, 4)
	for i, text := range smsTexts {
		assert.InDelta(t, similarity.RatcliffObershelpScore([]rune("free lunch"), []rune(text)), row[i], 1e-12)
	}

	k.Reset()
	assert.Equal(t, int64(1), metrics.GetStats().ResetCount)
}

func TestKernel_PredictCanceled(t *testing.T) {
	store := newStore(t, "sms.arff", smsARFF)
	k, err := Open(context.Background(), store, "sms.arff", similarity.MetricSubstring)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = k.Predict(ctx, corpus.NewInstance(corpus.StringValue("x"), corpus.MissingValue()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewKernel(t *testing.T) {
	e, err := NewKernel(similarity.MetricEditDistance, WithCacheSlots(17), WithMaxTableBytes(1<<20))
	require.NoError(t, err)

	ds, err := corpus.FromTexts(smsTexts, nil)
	require.NoError(t, err)
	require.NoError(t, e.Bind(ds))
	assert.Equal(t, 17, e.CacheStats().Slots)

	v, err := e.Evaluate(kernel.Unseen, kernel.Unseen, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	_, err = NewKernel(similarity.Metric(99))
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).
		WithCorpus("sms.arff").
		WithMetric("Subsequence")

	l.LogLoad(context.Background(), "sms.arff", 4, nil)
	assert.Contains(t, buf.String(), `"corpus":"sms.arff"`)
	assert.Contains(t, buf.String(), `"metric":"Subsequence"`)
	assert.Contains(t, buf.String(), `"instances":4`)

	buf.Reset()
	l.LogGram(context.Background(), 3, 0, errors.New("boom"))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestApplyOptions_NilFallbacks(t *testing.T) {
	o := applyOptions([]Option{WithLogger(nil), WithMetricsCollector(nil), nil})
	assert.NotNil(t, o.logger)
	assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError("x", nil))

	other := errors.New("other")
	assert.Equal(t, other, translateError("x", other))

	var ice *ErrInvalidCorpus
	err := translateError("x", arff.ErrNoData)
	require.ErrorAs(t, err, &ice)
	assert.Contains(t, err.Error(), "invalid corpus x")
}
