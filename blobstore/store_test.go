package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeFactories(t *testing.T) map[string]BlobStore {
	return map[string]BlobStore{
		"Local":  NewLocalStore(t.TempDir()),
		"Memory": NewMemoryStore(),
	}
}

func TestBlobStore_Lifecycle(t *testing.T) {
	for name, store := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			data := []byte("@relation spam\n@attribute text string\n")

			require.NoError(t, store.Put(ctx, "corpora/spam.arff", data))

			blob, err := store.Open(ctx, "corpora/spam.arff")
			require.NoError(t, err)
			require.Equal(t, int64(len(data)), blob.Size())

			buf := make([]byte, 4)
			n, err := blob.ReadAt(ctx, buf, 10)
			require.NoError(t, err)
			require.Equal(t, 4, n)
			assert.Equal(t, "spam", string(buf))

			rc, err := blob.ReadRange(ctx, 1, 8)
			require.NoError(t, err)
			part, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, "relation", string(part))
			require.NoError(t, rc.Close())
			require.NoError(t, blob.Close())

			got, err := ReadAll(ctx, store, "corpora/spam.arff")
			require.NoError(t, err)
			assert.Equal(t, data, got)

			_, err = WriteAll(ctx, store, "gram/a.skgm", strings.NewReader("matrix"))
			require.NoError(t, err)

			names, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"corpora/spam.arff", "gram/a.skgm"}, names)

			names, err = store.List(ctx, "gram/")
			require.NoError(t, err)
			assert.Equal(t, []string{"gram/a.skgm"}, names)

			require.NoError(t, store.Delete(ctx, "gram/a.skgm"))
			require.NoError(t, store.Delete(ctx, "gram/a.skgm"))

			_, err = store.Open(ctx, "gram/a.skgm")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestBlobStore_EmptyBlob(t *testing.T) {
	for name, store := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Put(ctx, "empty", nil))

			got, err := ReadAll(ctx, store, "empty")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestWriteAll_AbortsOnError(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)
	ctx := context.Background()

	_, err := WriteAll(ctx, store, "broken", io.MultiReader(bytes.NewReader([]byte("partial")), failingReader{}))
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, "broken"))
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file must be removed")
}

func TestLocalStore_ContextCanceled(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Open(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Create(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_Writer(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	w, err := store.Create(ctx, "gram/a.skgm")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, w.(interface{ Abort() error }).Abort())
	require.NoError(t, w.Close())

	_, err = store.Open(ctx, "gram/a.skgm")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = w.Write([]byte("late"))
	assert.Error(t, err)
}

func TestMemoryStore_OpenSeesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "CURRENT", []byte("v1")))

	blob, err := store.Open(ctx, "CURRENT")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "CURRENT", []byte("v2")))

	buf := make([]byte, 2)
	_, err = blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(buf))

	got, err := ReadAll(ctx, store, "CURRENT")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
}
