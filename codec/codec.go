// Package codec encodes the JSON manifests that describe published Gram
// matrices. The codec name is stored in each manifest envelope so a reader
// can pick the matching decoder.
package codec

// Codec encodes and decodes values. Implementations must be safe for
// concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Default is the codec used for newly written manifests.
var Default Codec = GoJSON{}
