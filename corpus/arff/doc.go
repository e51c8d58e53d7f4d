// Package arff reads corpora in the Attribute-Relation File Format.
//
// The header declares the relation and its attributes:
//
//	% spam corpus
//	@relation spam
//	@attribute text string
//	@attribute class {ham,spam}
//	@data
//	'win a free cruise',spam
//	"see you at lunch",ham
//
// Supported attribute types are numeric (also real and integer), string,
// date with an optional format, and nominal value lists. Data rows may be
// dense or sparse ({index value, ...}). A question mark is a missing value.
// Relational attributes are rejected.
//
// The class attribute defaults to the last attribute, so the text column
// compared by the kernels is the first string attribute before it.
package arff
