package gram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hupe1980/strkernel/blobstore"
	"github.com/hupe1980/strkernel/codec"
	"github.com/hupe1980/strkernel/resource"
)

// CurrentName is the pointer blob naming the published manifest.
const CurrentName = "CURRENT"

// ErrManifestMismatch is returned when a matrix does not match its manifest.
var ErrManifestMismatch = errors.New("gram: matrix does not match manifest")

// Manifest describes a published matrix.
type Manifest struct {
	Matrix      string    `json:"matrix"`
	Metric      string    `json:"metric"`
	Rows        int       `json:"rows"`
	Compression string    `json:"compression"`
	Checksum    uint32    `json:"checksum"`
	Bytes       int64     `json:"bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Save encodes m into the blob name.
func Save(ctx context.Context, store blobstore.BlobStore, name string, m *Matrix, optFns ...Option) (Info, error) {
	o := applyOptions(optFns)

	w, err := store.Create(ctx, name)
	if err != nil {
		return Info{}, err
	}
	var dst io.Writer = w
	if o.rc != nil {
		dst = resource.NewRateLimitedWriter(ctx, w, o.rc)
	}

	info, err := Encode(dst, m, o.compression)
	if err == nil {
		err = w.Sync()
	}
	if err != nil {
		if a, ok := w.(interface{ Abort() error }); ok {
			_ = a.Abort()
		} else {
			_ = w.Close()
		}
		return Info{}, fmt.Errorf("gram: save %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return Info{}, fmt.Errorf("gram: save %s: %w", name, err)
	}

	o.logger.Debug("gram saved",
		"name", name,
		"rows", info.Rows,
		"compression", info.Compression.String(),
		"bytes", info.Size,
	)
	return info, nil
}

// Load reads and decodes the blob name.
func Load(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*Matrix, Info, error) {
	o := applyOptions(optFns)

	rc, err := blobstore.OpenReader(ctx, store, name)
	if err != nil {
		return nil, Info{}, err
	}
	defer rc.Close()

	var src io.Reader = rc
	if o.rc != nil {
		src = resource.NewRateLimitedReader(ctx, rc, o.rc)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, Info{}, err
	}
	m, info, err := Decode(data)
	if err != nil {
		return nil, Info{}, fmt.Errorf("gram: load %s: %w", name, err)
	}
	return m, info, nil
}

// Publish saves m under a fresh name, writes its manifest and moves CURRENT
// to the manifest. Readers never observe a manifest without its matrix.
func Publish(ctx context.Context, store blobstore.BlobStore, m *Matrix, optFns ...Option) (*Manifest, error) {
	o := applyOptions(optFns)

	now := o.now().UTC()
	base := o.prefix + m.Metric.String() + "-" + now.Format("20060102T150405.000000000Z")
	matrixName := base + ".skgm"
	manifestName := base + ".manifest"

	info, err := Save(ctx, store, matrixName, m, optFns...)
	if err != nil {
		return nil, err
	}

	mf := &Manifest{
		Matrix:      matrixName,
		Metric:      m.Metric.String(),
		Rows:        info.Rows,
		Compression: info.Compression.String(),
		Checksum:    info.Checksum,
		Bytes:       info.Size,
		CreatedAt:   now,
	}
	data, err := encodeManifest(codec.Default, mf)
	if err != nil {
		return nil, err
	}
	if err := store.Put(ctx, manifestName, data); err != nil {
		return nil, fmt.Errorf("gram: write manifest: %w", err)
	}
	if err := store.Put(ctx, CurrentName, []byte(manifestName)); err != nil {
		return nil, fmt.Errorf("gram: publish: %w", err)
	}

	o.logger.Info("gram published", "manifest", manifestName, "rows", mf.Rows)
	return mf, nil
}

// LoadCurrent loads the matrix CURRENT points to.
func LoadCurrent(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Matrix, *Manifest, error) {
	ptr, err := blobstore.ReadAll(ctx, store, CurrentName)
	if err != nil {
		return nil, nil, err
	}
	manifestName := strings.TrimSpace(string(ptr))

	data, err := blobstore.ReadAll(ctx, store, manifestName)
	if err != nil {
		return nil, nil, fmt.Errorf("gram: read manifest %s: %w", manifestName, err)
	}
	mf, err := decodeManifest(data)
	if err != nil {
		return nil, nil, err
	}

	m, info, err := Load(ctx, store, mf.Matrix, optFns...)
	if err != nil {
		return nil, nil, err
	}
	if info.Checksum != mf.Checksum || info.Rows != mf.Rows || m.Metric.String() != mf.Metric {
		return nil, nil, ErrManifestMismatch
	}
	return m, mf, nil
}

// Manifests are stored as "<codec name>\n<payload>".
func encodeManifest(c codec.Codec, mf *Manifest) ([]byte, error) {
	body, err := c.Marshal(mf)
	if err != nil {
		return nil, fmt.Errorf("gram: encode manifest: %w", err)
	}
	out := make([]byte, 0, len(c.Name())+1+len(body))
	out = append(out, c.Name()...)
	out = append(out, '\n')
	return append(out, body...), nil
}

func decodeManifest(data []byte) (*Manifest, error) {
	name, body, ok := bytes.Cut(data, []byte{'\n'})
	if !ok {
		return nil, fmt.Errorf("%w: manifest without codec", ErrCorrupt)
	}
	c, ok := codec.ByName(string(name))
	if !ok {
		return nil, fmt.Errorf("gram: unknown manifest codec %q", name)
	}
	var mf Manifest
	if err := c.Unmarshal(body, &mf); err != nil {
		return nil, fmt.Errorf("gram: decode manifest: %w", err)
	}
	return &mf, nil
}
