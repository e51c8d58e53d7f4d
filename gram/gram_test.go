package gram

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/strkernel/blobstore"
	"github.com/hupe1980/strkernel/codec"
	"github.com/hupe1980/strkernel/corpus"
	"github.com/hupe1980/strkernel/internal/cache"
	"github.com/hupe1980/strkernel/kernel"
	"github.com/hupe1980/strkernel/resource"
	"github.com/hupe1980/strkernel/similarity"
	"github.com/hupe1980/strkernel/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomCorpus(t *testing.T, n int) (*corpus.Dataset, []string) {
	t.Helper()
	texts := testutil.NewRNG(7).Strings(n, 0, 24, "acgt")
	ds, err := corpus.FromTexts(texts, nil)
	require.NoError(t, err)
	return ds, texts
}

func TestCompute_MatchesMetric(t *testing.T) {
	ds, texts := randomCorpus(t, 17)

	for _, metric := range similarity.Metrics {
		t.Run(metric.String(), func(t *testing.T) {
			fn, err := similarity.Provider(metric)
			require.NoError(t, err)

			m, err := Compute(context.Background(), ds, metric, WithWorkers(3))
			require.NoError(t, err)
			require.Equal(t, len(texts), m.Len())
			assert.Equal(t, metric, m.Metric)

			for i := range texts {
				for j := range texts {
					// The engine scores a pair with the higher id first.
					want := fn([]rune(texts[max(i, j)]), []rune(texts[min(i, j)]))
					assert.Equal(t, want, m.At(i, j), "(%d, %d)", i, j)
				}
			}
		})
	}
}

func TestCompute_Symmetric(t *testing.T) {
	ds, _ := randomCorpus(t, 12)
	m, err := Compute(context.Background(), ds, similarity.MetricRatcliffObershelp, WithWorkers(4))
	require.NoError(t, err)

	for i := range m.Len() {
		for j := range m.Len() {
			assert.Equal(t, m.At(i, j), m.At(j, i))
		}
		assert.Equal(t, m.Row(i)[i], m.At(i, i))
	}
}

func TestCompute_Subset(t *testing.T) {
	ds, texts := randomCorpus(t, 10)
	subset := roaring.BitmapOf(1, 4, 7)

	m, err := Compute(context.Background(), ds, similarity.MetricEditDistance, WithSubset(subset))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 7}, m.IDs())
	assert.True(t, subset.Equals(m.Subset()))

	v, ok := m.Lookup(7, 4)
	require.True(t, ok)
	want := similarity.EditDistanceScore([]rune(texts[7]), []rune(texts[4]))
	assert.Equal(t, want, v)

	_, ok = m.Lookup(2, 4)
	assert.False(t, ok)
	_, ok = m.Index(9)
	assert.False(t, ok)
}

func TestCompute_Errors(t *testing.T) {
	ds, _ := randomCorpus(t, 5)

	t.Run("SubsetOutOfRange", func(t *testing.T) {
		_, err := Compute(context.Background(), ds, similarity.MetricSubstring, WithSubset(roaring.BitmapOf(2, 5)))
		assert.ErrorIs(t, err, ErrIDOutOfRange)
	})

	t.Run("NoComparableField", func(t *testing.T) {
		numeric := corpus.NewDataset("n", corpus.Attribute{Name: "x", Type: corpus.FieldNumeric})
		require.NoError(t, numeric.Add(corpus.NewInstance(corpus.NumericValue(1))))

		_, err := Compute(context.Background(), numeric, similarity.MetricSubstring)
		assert.ErrorIs(t, err, kernel.ErrNoComparableField)
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Compute(ctx, ds, similarity.MetricSubstring)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("UnknownMetric", func(t *testing.T) {
		_, err := Compute(context.Background(), ds, similarity.Metric(99))
		assert.Error(t, err)
	})

	t.Run("TableBudget", func(t *testing.T) {
		_, err := Compute(context.Background(), ds, similarity.MetricSubsequence,
			WithKernelOptions(kernel.WithMaxTableBytes(1)))
		var re *kernel.ErrResourceExhausted
		assert.ErrorAs(t, err, &re)
	})
}

func TestCompute_Empty(t *testing.T) {
	ds, _ := randomCorpus(t, 0)
	m, err := Compute(context.Background(), ds, similarity.MetricSubsequence)
	require.NoError(t, err)
	assert.Zero(t, m.Len())
}

type gramObserver struct {
	rows  int
	calls int
	err   error
}

func (g *gramObserver) RecordGram(rows int, _ time.Duration, err error) {
	g.rows, g.err = rows, err
	g.calls++
}

func TestCompute_ObserverAndController(t *testing.T) {
	ds, _ := randomCorpus(t, 9)
	rc := resource.NewController(resource.Config{MaxWorkers: 2, MemoryLimitBytes: 1 << 30})
	obs := &gramObserver{}

	_, err := Compute(context.Background(), ds, similarity.MetricSubstring,
		WithResourceController(rc),
		WithObserver(obs),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, obs.calls)
	assert.Equal(t, 9, obs.rows)
	assert.NoError(t, obs.err)
	assert.Zero(t, rc.MemoryUsage(), "kernel tables and caches must be released")
	assert.Positive(t, rc.PeakMemoryUsage())
}

func TestCompute_WorkerCachesStaySmall(t *testing.T) {
	ds, _ := randomCorpus(t, 9)
	rc := resource.NewController(resource.Config{MaxWorkers: 4})

	_, err := Compute(context.Background(), ds, similarity.MetricEditDistance,
		WithWorkers(4),
		WithResourceController(rc),
		WithKernelOptions(kernel.WithCacheSlots(cache.DefaultSlots)),
	)
	require.NoError(t, err)
	assert.Less(t, rc.PeakMemoryUsage(), cache.Footprint(cache.DefaultSlots))
	assert.Zero(t, rc.MemoryUsage())
}

func TestPredictRow(t *testing.T) {
	ds, texts := randomCorpus(t, 6)
	e, err := kernel.New(similarity.MetricSubsequence)
	require.NoError(t, err)
	require.NoError(t, e.Bind(ds))

	rec := corpus.NewInstance(corpus.StringValue("gattaca"))
	row, err := PredictRow(context.Background(), e, rec, nil)
	require.NoError(t, err)
	require.Len(t, row, len(texts))
	for i, s := range texts {
		assert.Equal(t, similarity.SubsequenceScore([]rune("gattaca"), []rune(s)), row[i])
	}

	sub, err := PredictRow(context.Background(), e, rec, []int{4, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{row[4], row[2]}, sub)

	_, err = PredictRow(context.Background(), e, nil, nil)
	assert.ErrorIs(t, err, kernel.ErrMissingRecord)
}

func TestEncodeDecode(t *testing.T) {
	ds, _ := randomCorpus(t, 11)
	computed, err := Compute(context.Background(), ds, similarity.MetricEditDistance)
	require.NoError(t, err)
	zeros := NewMatrix(similarity.MetricSubstring, []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30})

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			for _, m := range []*Matrix{computed, zeros} {
				var buf bytes.Buffer
				info, err := Encode(&buf, m, c)
				require.NoError(t, err)
				assert.Equal(t, int64(buf.Len()), info.Size)

				got, dinfo, err := Decode(buf.Bytes())
				require.NoError(t, err)
				assert.Equal(t, info, dinfo)
				assert.Equal(t, m.Metric, got.Metric)
				assert.Equal(t, m.IDs(), got.IDs())
				assert.Equal(t, m.values, got.values)
			}

			var buf bytes.Buffer
			info, err := Encode(&buf, zeros, c)
			require.NoError(t, err)
			assert.Equal(t, c, info.Compression, "a zero matrix always compresses")
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	var buf bytes.Buffer
	_, err := Encode(&buf, NewMatrix(similarity.MetricSubstring, []int{0, 1, 2}), CompressionNone)
	require.NoError(t, err)
	good := buf.Bytes()

	mutate := func(f func(b []byte) []byte) []byte {
		b := append([]byte(nil), good...)
		return f(b)
	}

	_, _, err = Decode(good[:10])
	assert.ErrorIs(t, err, ErrCorrupt)

	_, _, err = Decode(mutate(func(b []byte) []byte { b[0] = 'X'; return b }))
	assert.ErrorIs(t, err, ErrBadMagic)

	_, _, err = Decode(mutate(func(b []byte) []byte { b[4] = 9; return b }))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, _, err = Decode(mutate(func(b []byte) []byte { b[len(b)-1] ^= 0xff; return b }))
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	_, _, err = Decode(mutate(func(b []byte) []byte { return b[:len(b)-8] }))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, got)

	_, err = ParseCompression("snappy")
	assert.Error(t, err)
}

func TestPublishLoadCurrent(t *testing.T) {
	stores := map[string]blobstore.BlobStore{
		"Memory": blobstore.NewMemoryStore(),
		"Local":  blobstore.NewLocalStore(t.TempDir()),
	}
	ds, _ := randomCorpus(t, 8)
	m, err := Compute(context.Background(), ds, similarity.MetricSubsequence)
	require.NoError(t, err)

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, _, err := LoadCurrent(ctx, store)
			require.ErrorIs(t, err, blobstore.ErrNotFound)

			mf, err := Publish(ctx, store, m, WithCompression(CompressionLZ4))
			require.NoError(t, err)
			assert.Equal(t, "Subsequence", mf.Metric)
			assert.Equal(t, 8, mf.Rows)

			got, gotMf, err := LoadCurrent(ctx, store)
			require.NoError(t, err)
			assert.Equal(t, mf.Matrix, gotMf.Matrix)
			assert.Equal(t, m.values, got.values)

			names, err := store.List(ctx, "gram/")
			require.NoError(t, err)
			assert.Len(t, names, 2)
		})
	}
}

func TestLoadCurrent_ManifestMismatch(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	m := NewMatrix(similarity.MetricSubstring, []int{0, 1})

	mf, err := Publish(ctx, store, m)
	require.NoError(t, err)

	mf.Checksum++
	data, err := encodeManifest(codecForTest(), mf)
	require.NoError(t, err)
	ptr, err := blobstore.ReadAll(ctx, store, CurrentName)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, string(ptr), data))

	_, _, err = LoadCurrent(ctx, store)
	assert.ErrorIs(t, err, ErrManifestMismatch)
}

func codecForTest() codec.Codec { return codec.JSON{} }
