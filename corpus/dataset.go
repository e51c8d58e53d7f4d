package corpus

import (
	"fmt"
	"strconv"
)

// Attribute describes one column of a Dataset.
type Attribute struct {
	Name string
	Type FieldType
	// Values lists the allowed labels of a nominal attribute.
	Values []string
	// DateFormat is the declared format of a date attribute, if any.
	DateFormat string
}

// Value is a single attribute value.
type Value struct {
	Text    string
	Num     float64
	Missing bool
}

// StringValue returns a non-missing text value.
func StringValue(s string) Value { return Value{Text: s} }

// NumericValue returns a non-missing numeric value.
func NumericValue(f float64) Value {
	return Value{Text: strconv.FormatFloat(f, 'g', -1, 64), Num: f}
}

// MissingValue returns a missing value.
func MissingValue() Value { return Value{Missing: true} }

// Instance is one row of a Dataset.
type Instance struct {
	values []Value
}

// NewInstance creates an instance from its attribute values.
func NewInstance(values ...Value) *Instance {
	return &Instance{values: values}
}

// StringField implements Record.
func (in *Instance) StringField(index int) string {
	if index < 0 || index >= len(in.values) {
		return ""
	}
	v := in.values[index]
	if v.Missing {
		return ""
	}
	return v.Text
}

// Value returns the raw value at index.
func (in *Instance) Value(index int) Value {
	return in.values[index]
}

// Len returns the number of values.
func (in *Instance) Len() int {
	return len(in.values)
}

// Dataset is an in-memory Corpus.
type Dataset struct {
	Relation   string
	attributes []Attribute
	classIndex int
	instances  []*Instance
}

// NewDataset creates an empty dataset with the given attributes and no class attribute.
func NewDataset(relation string, attributes ...Attribute) *Dataset {
	return &Dataset{
		Relation:   relation,
		attributes: attributes,
		classIndex: -1,
	}
}

// Add appends an instance. The value count must match the attribute count.
func (d *Dataset) Add(in *Instance) error {
	if in.Len() != len(d.attributes) {
		return fmt.Errorf("instance has %d values, dataset has %d attributes", in.Len(), len(d.attributes))
	}
	d.instances = append(d.instances, in)
	return nil
}

// SetClassIndex sets the class attribute. Use -1 for none.
func (d *Dataset) SetClassIndex(index int) error {
	if index < -1 || index >= len(d.attributes) {
		return fmt.Errorf("class index %d out of range [-1, %d)", index, len(d.attributes))
	}
	d.classIndex = index
	return nil
}

// Attribute returns the attribute at index.
func (d *Dataset) Attribute(index int) Attribute {
	return d.attributes[index]
}

// Instance returns the instance with the given id.
func (d *Dataset) Instance(id int) *Instance {
	return d.instances[id]
}

// Size implements Corpus.
func (d *Dataset) Size() int { return len(d.instances) }

// FieldCount implements Corpus.
func (d *Dataset) FieldCount() int { return len(d.attributes) }

// FieldType implements Corpus.
func (d *Dataset) FieldType(index int) FieldType { return d.attributes[index].Type }

// ClassFieldIndex implements Corpus.
func (d *Dataset) ClassFieldIndex() int { return d.classIndex }

// Record implements Corpus.
func (d *Dataset) Record(id int) Record { return d.instances[id] }

// FromTexts builds a two-attribute dataset (text, nominal class) from parallel
// slices. It is a convenience for callers that already hold labelled strings.
// If labels is nil the dataset has a single string attribute and no class.
func FromTexts(texts []string, labels []string) (*Dataset, error) {
	if labels == nil {
		d := NewDataset("texts", Attribute{Name: "text", Type: FieldString})
		for _, s := range texts {
			_ = d.Add(NewInstance(StringValue(s)))
		}
		return d, nil
	}
	if len(labels) != len(texts) {
		return nil, fmt.Errorf("got %d labels for %d texts", len(labels), len(texts))
	}

	var classes []string
	seen := make(map[string]bool)
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			classes = append(classes, l)
		}
	}

	d := NewDataset("texts",
		Attribute{Name: "text", Type: FieldString},
		Attribute{Name: "class", Type: FieldNominal, Values: classes},
	)
	for i, s := range texts {
		_ = d.Add(NewInstance(StringValue(s), StringValue(labels[i])))
	}
	d.classIndex = 1
	return d, nil
}
