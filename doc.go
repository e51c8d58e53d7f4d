// Package strkernel provides string kernels for kernelized learning over
// text corpora.
//
// A kernel scores the similarity of two records by comparing one text field
// of each with a string metric: edit distance, longest common substring,
// longest common subsequence or Ratcliff–Obershelp pattern matching. Results
// for corpus pairs are memoized in a fixed-size direct-mapped cache.
//
// # Quick Start
//
//	ctx := context.Background()
//	store := blobstore.NewLocalStore("./corpora")
//
//	k, _ := strkernel.Open(ctx, store, "spam.arff", similarity.MetricSubsequence)
//	v, _ := k.Evaluate(0, 1, nil)              // two corpus records
//	v, _ = k.Evaluate(kernel.Unseen, 1, rec) // an unseen record vs. record 1
//
// # Gram Matrices
//
// An optimizer that wants the whole kernel matrix can have it computed in
// parallel and published to any blob store:
//
//	m, _ := k.Gram(ctx, gram.WithWorkers(8))
//	manifest, _ := gram.Publish(ctx, store, m, gram.WithCompression(gram.CompressionZSTD))
//
// # Storage
//
// Corpora and matrices live behind blobstore.BlobStore: the local file
// system (memory mapped), memory, MinIO, or Amazon S3 with optional
// DynamoDB commits for concurrent publishers.
//
// # Observability
//
// Logging goes through log/slog (see Logger) and counters through
// MetricsCollector. Both are no-ops unless configured.
package strkernel
