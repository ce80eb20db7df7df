package column

import (
	"fmt"
	"iter"

	"github.com/arloliu/geoblob/blob"
	"github.com/arloliu/geoblob/compress"
	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/format"
	"github.com/arloliu/geoblob/geometry"
	"github.com/arloliu/geoblob/internal/hash"
	"github.com/arloliu/geoblob/section"
	"go.uber.org/zap"
)

// Decoder gives random access to the rows of a column chunk.
//
// The header, the row index and the checksum are validated by NewDecoder; row bodies are
// validated when they are decoded. Blob and Geometry are safe for concurrent use; All
// records its first error for Err and is not.
type Decoder struct {
	header  section.ColumnHeader
	entries []section.ColumnIndexEntry
	payload []byte
	blobOps []blob.Option
	err     error
}

// NewDecoder parses a column chunk.
//
// An uncompressed payload is referenced in place, so data must outlive the decoder and
// must not be modified. A compressed payload is decompressed into a new buffer.
//
// Parameters:
//   - data: Encoded column chunk
//   - opts: Optional configuration; only WithBlobOptions applies
//
// Returns:
//   - *Decoder: Decoder ready for row access
//   - error: Header, index, decompression or checksum error
func NewDecoder(data []byte, opts ...Option) (*Decoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	header, err := section.ParseColumnHeader(data)
	if err != nil {
		return nil, err
	}

	end := uint64(header.PayloadOffset) + uint64(header.StoredLength)
	if uint64(len(data)) != end {
		return nil, fmt.Errorf("%w: chunk is %d bytes, layout needs %d", errs.ErrInvalidIndexOffsets, len(data), end)
	}

	d := &Decoder{
		header:  header,
		blobOps: cfg.blobOpts,
	}

	if err := d.parseIndex(data[header.IndexOffset:header.PayloadOffset]); err != nil {
		return nil, err
	}

	if err := d.parsePayload(data[header.PayloadOffset:]); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Decoder) parseIndex(index []byte) error {
	engine := d.header.Engine()
	d.entries = make([]section.ColumnIndexEntry, d.header.RowCount)

	for i := range d.entries {
		entry := section.ParseColumnIndexEntry(index[i*section.ColumnIndexEntrySize:], engine)
		if !entry.IsNull() && entry.End() > uint64(d.header.PayloadLength) {
			return fmt.Errorf("%w: row %d ends at %d, payload is %d bytes",
				errs.ErrInvalidIndexOffsets, i, entry.End(), d.header.PayloadLength)
		}
		d.entries[i] = entry
	}

	return nil
}

func (d *Decoder) parsePayload(stored []byte) error {
	codec, err := compress.GetCodec(d.header.Compression)
	if err != nil {
		return err
	}

	// The raw length sizes the decompression buffer, so it must be reachable from the
	// stored bytes.
	if err := compress.CheckExpansion(d.header.Compression, len(stored), int(d.header.PayloadLength)); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidIndexOffsets, err)
	}

	payload, err := codec.Decompress(stored, int(d.header.PayloadLength))
	if err != nil {
		return fmt.Errorf("failed to decompress payload: %w", err)
	}

	if d.header.Compression != format.CompressionNone {
		Logger().Debug("column payload decompressed, rows no longer reference the input",
			zap.Stringer("compression", d.header.Compression),
			zap.Int("stored_bytes", len(stored)),
			zap.Int("raw_bytes", len(payload)),
		)
	}

	if d.header.Options.HasChecksum() && hash.Checksum(payload) != d.header.Checksum {
		return errs.ErrChecksumMismatch
	}
	d.payload = payload

	return nil
}

// Header returns the parsed chunk header.
func (d *Decoder) Header() section.ColumnHeader {
	return d.header
}

// Len returns the number of rows, null rows included.
func (d *Decoder) Len() int {
	return len(d.entries)
}

// IsNull reports whether row i is null. It returns false for an out of range row.
func (d *Decoder) IsNull(i int) bool {
	return i >= 0 && i < len(d.entries) && d.entries[i].IsNull()
}

// Blob returns the serialized geometry of row i. The result references the decoder's
// payload and must not be modified.
func (d *Decoder) Blob(i int) ([]byte, error) {
	if i < 0 || i >= len(d.entries) {
		return nil, fmt.Errorf("%w: row %d of %d", errs.ErrRowOutOfRange, i, len(d.entries))
	}

	entry := d.entries[i]
	if entry.IsNull() {
		return nil, fmt.Errorf("%w: row %d", errs.ErrNullRow, i)
	}

	return d.payload[entry.Offset:entry.End():entry.End()], nil
}

// Geometry decodes row i into arena.
func (d *Decoder) Geometry(arena *geometry.Arena, i int) (geometry.Geometry, error) {
	data, err := d.Blob(i)
	if err != nil {
		return geometry.Geometry{}, err
	}

	g, err := blob.Deserialize(arena, data, d.blobOps...)
	if err != nil {
		return geometry.Geometry{}, fmt.Errorf("row %d: %w", i, err)
	}

	return g, nil
}

// All iterates over the rows in order, decoding each into arena. Null rows yield the nil
// Geometry. Iteration stops at the first row that fails to decode; Err reports it.
func (d *Decoder) All(arena *geometry.Arena) iter.Seq2[int, geometry.Geometry] {
	return func(yield func(int, geometry.Geometry) bool) {
		d.err = nil
		for i, entry := range d.entries {
			var g geometry.Geometry
			if !entry.IsNull() {
				var err error
				if g, err = d.Geometry(arena, i); err != nil {
					d.err = err
					return
				}
			}
			if !yield(i, g) {
				return
			}
		}
	}
}

// Err returns the error that stopped the last All iteration, if any.
func (d *Decoder) Err() error {
	return d.err
}

// Extent returns the union of the 2D extents of all rows. The second result is false when
// no row has a vertex.
func (d *Decoder) Extent() (geometry.Box, bool, error) {
	var (
		box   geometry.Box
		found bool
	)

	arena := geometry.NewArena()
	for i, entry := range d.entries {
		if entry.IsNull() {
			continue
		}

		g, err := d.Geometry(arena, i)
		if err != nil {
			return geometry.Box{}, false, err
		}

		if rowBox, ok := geometry.Extent(g); ok {
			if found {
				box = box.Union(rowBox)
			} else {
				box = rowBox
			}
			found = true
		}
		arena.Reset()
	}

	return box, found, nil
}
