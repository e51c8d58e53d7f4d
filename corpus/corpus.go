package corpus

import (
	"errors"
	"fmt"
)

// ErrNoComparableField is returned when a corpus has no string-typed attribute
// other than the class attribute.
var ErrNoComparableField = errors.New("corpus has no comparable string field")

// FieldType is the type of an attribute.
type FieldType uint8

const (
	FieldNumeric FieldType = iota
	FieldNominal
	FieldString
	FieldDate
)

func (t FieldType) String() string {
	switch t {
	case FieldNumeric:
		return "numeric"
	case FieldNominal:
		return "nominal"
	case FieldString:
		return "string"
	case FieldDate:
		return "date"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

// Record is a single row of a corpus.
type Record interface {
	// StringField returns the text value of the attribute at index.
	// Missing values are returned as the empty string.
	StringField(index int) string
}

// Corpus is a read-only, ordered collection of records.
//
// Implementations must not change Size or any record once the corpus has been
// bound to a kernel engine. Concurrent reads must be safe.
type Corpus interface {
	// Size returns the number of records.
	Size() int
	// FieldCount returns the number of attributes per record.
	FieldCount() int
	// FieldType returns the type of the attribute at index.
	FieldType(index int) FieldType
	// ClassFieldIndex returns the index of the class attribute, or -1 if none.
	ClassFieldIndex() int
	// Record returns the record with the given id in [0, Size()).
	Record(id int) Record
}

// ComparisonField returns the index of the first string-typed attribute that is
// not the class attribute.
func ComparisonField(c Corpus) (int, error) {
	class := c.ClassFieldIndex()
	for i := 0; i < c.FieldCount(); i++ {
		if i == class {
			continue
		}
		if c.FieldType(i) == FieldString {
			return i, nil
		}
	}
	return -1, ErrNoComparableField
}

// Texts returns the comparison text of every record in id order.
func Texts(c Corpus) ([]string, error) {
	field, err := ComparisonField(c)
	if err != nil {
		return nil, err
	}
	out := make([]string, c.Size())
	for id := range out {
		out[id] = c.Record(id).StringField(field)
	}
	return out, nil
}
