// Package gram materializes kernel (Gram) matrices for an external optimizer.
//
// Compute evaluates every pair of a corpus, or of a roaring-bitmap subset of
// it, in parallel. Each worker owns its own kernel.Engine bound to the shared
// read-only corpus, so engines are never shared across goroutines.
//
//	m, err := gram.Compute(ctx, ds, similarity.MetricSubsequence,
//	    gram.WithWorkers(8),
//	)
//	manifest, err := gram.Publish(ctx, store, m, gram.WithCompression(gram.CompressionZSTD))
//
// Matrices are persisted in a small binary format:
//
//	magic "SKGM" | version u16 | metric u8 | compression u8 | n u32
//	ids length u32 | raw length u64 | data length u64 | CRC32C u32
//	ids (roaring bitmap) | data (upper triangle, float64 little endian)
//
// Publish writes the matrix and a manifest, then points CURRENT at the
// manifest. LoadCurrent follows the pointer back.
package gram
