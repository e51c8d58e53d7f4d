package gram

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/strkernel/internal/hash"
	"github.com/hupe1980/strkernel/similarity"
)

const (
	magic         = "SKGM"
	formatVersion = 1
	headerSize    = 36
)

var (
	// ErrBadMagic is returned when the data is not an encoded matrix.
	ErrBadMagic = errors.New("gram: bad magic")
	// ErrUnsupportedVersion is returned for encodings newer than this package.
	ErrUnsupportedVersion = errors.New("gram: unsupported format version")
	// ErrChecksumMismatch is returned when the CRC32C check fails.
	ErrChecksumMismatch = errors.New("gram: checksum mismatch")
	// ErrCorrupt is returned for structurally invalid encodings.
	ErrCorrupt = errors.New("gram: corrupt matrix encoding")
)

// Info describes an encoded matrix.
type Info struct {
	Rows        int
	Compression Compression
	Checksum    uint32
	Size        int64
}

// Encode writes m to w.
func Encode(w io.Writer, m *Matrix, c Compression) (Info, error) {
	n := m.Len()
	if int64(n) > MaxRows {
		return Info{}, fmt.Errorf("gram: %d rows exceed %d", n, MaxRows)
	}

	idBytes, err := m.Subset().ToBytes()
	if err != nil {
		return Info{}, fmt.Errorf("gram: encode ids: %w", err)
	}

	// Upper triangle including the diagonal.
	raw := make([]byte, 0, n*(n+1)/2*8)
	for i := range n {
		for j := i; j < n; j++ {
			raw = binary.LittleEndian.AppendUint64(raw, math.Float64bits(m.At(i, j)))
		}
	}
	data, used, err := compress(raw, c)
	if err != nil {
		return Info{}, err
	}

	crc := hash.NewCRC32C()
	_, _ = crc.Write(idBytes)
	_, _ = crc.Write(data)
	sum := crc.Sum32()

	hdr := make([]byte, headerSize)
	copy(hdr[0:4], magic)
	binary.LittleEndian.PutUint16(hdr[4:], formatVersion)
	hdr[6] = uint8(m.Metric)
	hdr[7] = uint8(used)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(n))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(len(idBytes)))
	binary.LittleEndian.PutUint64(hdr[16:], uint64(len(raw)))
	binary.LittleEndian.PutUint64(hdr[24:], uint64(len(data)))
	binary.LittleEndian.PutUint32(hdr[32:], sum)

	var written int64
	for _, part := range [][]byte{hdr, idBytes, data} {
		k, err := w.Write(part)
		written += int64(k)
		if err != nil {
			return Info{}, err
		}
	}
	return Info{Rows: n, Compression: used, Checksum: sum, Size: written}, nil
}

// Decode parses an encoded matrix.
func Decode(b []byte) (*Matrix, Info, error) {
	if len(b) < headerSize {
		return nil, Info{}, ErrCorrupt
	}
	if string(b[0:4]) != magic {
		return nil, Info{}, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint16(b[4:]); v != formatVersion {
		return nil, Info{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	metric := similarity.Metric(b[6])
	if !metric.Valid() {
		return nil, Info{}, fmt.Errorf("%w: unknown metric %d", ErrCorrupt, b[6])
	}
	comp := Compression(b[7])
	n := int(binary.LittleEndian.Uint32(b[8:]))
	idLen := uint64(binary.LittleEndian.Uint32(b[12:]))
	rawLen := binary.LittleEndian.Uint64(b[16:])
	dataLen := binary.LittleEndian.Uint64(b[24:])
	sum := binary.LittleEndian.Uint32(b[32:])

	body := b[headerSize:]
	if idLen > uint64(len(body)) || dataLen != uint64(len(body))-idLen {
		return nil, Info{}, ErrCorrupt
	}
	if want := uint64(n) * uint64(n+1) / 2 * 8; rawLen != want {
		return nil, Info{}, ErrCorrupt
	}
	idBytes, data := body[:idLen], body[idLen:]

	crc := hash.NewCRC32C()
	_, _ = crc.Write(idBytes)
	_, _ = crc.Write(data)
	if crc.Sum32() != sum {
		return nil, Info{}, ErrChecksumMismatch
	}

	bm := roaring.New()
	if _, err := bm.ReadFrom(bytes.NewReader(idBytes)); err != nil {
		return nil, Info{}, fmt.Errorf("%w: ids: %v", ErrCorrupt, err)
	}
	if bm.GetCardinality() != uint64(n) {
		return nil, Info{}, ErrCorrupt
	}
	ids := make([]int, 0, n)
	it := bm.Iterator()
	for it.HasNext() {
		ids = append(ids, int(it.Next()))
	}

	raw, err := decompress(data, comp, int(rawLen))
	if err != nil {
		return nil, Info{}, err
	}

	m := NewMatrix(metric, ids)
	off := 0
	for i := range n {
		for j := i; j < n; j++ {
			m.set(i, j, math.Float64frombits(binary.LittleEndian.Uint64(raw[off:])))
			off += 8
		}
	}
	return m, Info{Rows: n, Compression: comp, Checksum: sum, Size: int64(len(b))}, nil
}
