package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
)

var errWriterDone = errors.New("blobstore: writer already closed or aborted")

// MemoryStore keeps blobs in process memory. It backs tests and jobs whose
// corpus or output store is configured as "memory". Safe for concurrent use.
//
// Stored blobs are immutable: a Put or Create replaces the slice, so open
// blobs keep reading the version they were opened on.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) snapshot(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[name]
	return data, ok
}

func (m *MemoryStore) publish(name string, data []byte) {
	m.mu.Lock()
	m.blobs[name] = data
	m.mu.Unlock()
}

// Open returns a reader over the current version of name.
func (m *MemoryStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := m.snapshot(name)
	if !ok {
		return nil, ErrNotFound
	}
	return memoryBlob(data), nil
}

// Create buffers writes and publishes them on Close.
func (m *MemoryStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memoryWriter{store: m, name: name}, nil
}

// Put stores a copy of data under name.
func (m *MemoryStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.publish(name, bytes.Clone(data))
	return nil
}

// Delete removes name. Deleting a missing blob is not an error.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	delete(m.blobs, name)
	m.mu.Unlock()
	return nil
}

// List returns the sorted names starting with prefix.
func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	names := make([]string, 0, len(m.blobs))
	for name := range m.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	m.mu.RUnlock()

	slices.Sort(names)
	return names, nil
}

type memoryBlob []byte

func (b memoryBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return bytes.NewReader(b).ReadAt(p, off)
}

func (b memoryBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	size := int64(len(b))
	off = min(max(off, 0), size)
	end := min(off+max(length, 0), size)
	return io.NopCloser(bytes.NewReader(b[off:end])), nil
}

func (b memoryBlob) Size() int64 { return int64(len(b)) }

func (memoryBlob) Close() error { return nil }

type memoryWriter struct {
	store *MemoryStore
	name  string
	buf   bytes.Buffer
	done  bool
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	if w.done {
		return 0, errWriterDone
	}
	return w.buf.Write(p)
}

func (w *memoryWriter) Sync() error {
	if w.done {
		return errWriterDone
	}
	return nil
}

// Close publishes the buffered bytes. It is a no-op after Abort.
func (w *memoryWriter) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	w.store.publish(w.name, bytes.Clone(w.buf.Bytes()))
	return nil
}

// Abort discards the buffered bytes without publishing.
func (w *memoryWriter) Abort() error {
	w.done = true
	w.buf.Reset()
	return nil
}
