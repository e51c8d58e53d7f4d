// Package mmap maps files read-only into memory for the local blob store.
//
// On Unix the file is mapped with mmap(2); elsewhere it is read into a heap
// buffer so callers can treat both cases the same way.
package mmap
