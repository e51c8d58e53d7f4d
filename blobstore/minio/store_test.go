package minio

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/hupe1980/strkernel/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Keys(t *testing.T) {
	s, err := New("localhost:9000", "corpora", WithPrefix("spam/"), WithStaticCredentials("a", "b"))
	require.NoError(t, err)

	assert.Equal(t, "spam/train.arff", s.key("train.arff"))
	assert.Equal(t, "gram/a.skgm", s.name("spam/gram/a.skgm"))

	bare, err := New("localhost:9000", "corpora", WithStaticCredentials("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, "train.arff", bare.key("train.arff"))
	assert.Equal(t, "train.arff", bare.name("train.arff"))
}

// TestStore_Integration needs a MinIO server; set STRKERNEL_MINIO_ENDPOINT
// to run it.
func TestStore_Integration(t *testing.T) {
	endpoint := os.Getenv("STRKERNEL_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("STRKERNEL_MINIO_ENDPOINT not set")
	}

	ctx := context.Background()
	store, err := New(endpoint, "strkernel-test", WithPrefix("it/"), WithStaticCredentials("minioadmin", "minioadmin"))
	require.NoError(t, err)
	if err := store.EnsureBucket(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	data := []byte("@relation spam")
	require.NoError(t, store.Put(ctx, "train.arff", data))

	blob, err := store.Open(ctx, "train.arff")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 4)
	n, err := blob.ReadAt(ctx, buf, 10)
	require.NoError(t, err)
	assert.Equal(t, "spam", string(buf[:n]))

	rc, err := blob.ReadRange(ctx, 1, 8)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "relation", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	_, err = blobstore.WriteAll(ctx, store, "gram/a.skgm", strings.NewReader("matrix"))
	require.NoError(t, err)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "train.arff")
	assert.Contains(t, names, "gram/a.skgm")

	require.NoError(t, store.Delete(ctx, "train.arff"))
	require.NoError(t, store.Delete(ctx, "gram/a.skgm"))

	_, err = store.Open(ctx, "train.arff")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
