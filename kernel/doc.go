// Package kernel binds a string similarity metric to a corpus and serves kernel
// values to a kernelized learner.
//
// # Lifecycle
//
//	eng, _ := kernel.New(similarity.MetricRatcliffObershelp)
//	if err := eng.Bind(dataset); err != nil { ... }   // Unbound -> Bound
//	v, err := eng.Evaluate(3, 7, nil)                 // cached
//	v, err = eng.Evaluate(kernel.Unseen, 7, record)  // never cached
//	eng.Reset()                                       // drop the cache, stay bound
//
// # Caching
//
// Values for two corpus ids are memoized in a direct-mapped table keyed by the
// ordered pair (max, min), so Evaluate(i, j) and Evaluate(j, i) share a slot.
// Colliding pairs silently evict each other. Pairs involving the Unseen
// sentinel are always recomputed.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Bind one engine per goroutine to
// the same read-only corpus (see package gram), or guard a shared engine with
// a mutex.
package kernel
