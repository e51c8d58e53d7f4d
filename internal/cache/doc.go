// Package cache provides the direct-mapped memo table used by kernel engines.
//
// # Layout
//
// The table holds a fixed number of (value, tag) slots. A key k always maps
// to slot k mod Slots and the slot's tag is k+1, so a zero tag marks an empty
// slot while key 0 stays representable.
//
// # Collision Semantics
//
// Store overwrites its slot unconditionally. When two keys share a slot only
// the most recently stored one is retrievable; a Lookup for the other key
// misses. There is no probing and no per-key removal, only Reset.
//
// The table is not safe for concurrent use. Give every goroutine its own
// engine (and thus its own table), or serialize access externally.
package cache
