// Package blobstore provides the storage abstraction for corpora and Gram matrices.
//
// BlobStore is the interface for reading and writing named blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with mmap reads
//   - MemoryStore: In-process map, for tests and ephemeral jobs
//   - minio.Store: MinIO and other S3-compatible services
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - s3.DDBCommitStore: S3 plus DynamoDB for atomic CURRENT pointer commits
//
// # Helpers
//
//	data, err := blobstore.ReadAll(ctx, store, "corpus.arff")
//	n, err := blobstore.WriteAll(ctx, store, "gram/0001.skgm", r)
package blobstore
