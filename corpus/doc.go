// Package corpus defines the record collections the string kernels are evaluated over.
//
// A Corpus is an ordered, read-only sequence of records with ids 0..Size()-1.
// Every record is a list of typed attribute values. The kernels compare one
// text attribute per record: the first attribute that is string-typed and is
// not the class attribute (see ComparisonField).
//
// Dataset is the in-memory implementation produced by the ARFF reader in
// corpus/arff. Any type satisfying Corpus can be bound to a kernel engine.
package corpus
