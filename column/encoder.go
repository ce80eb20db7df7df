package column

import (
	"fmt"

	"github.com/arloliu/geoblob/blob"
	"github.com/arloliu/geoblob/compress"
	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
	"github.com/arloliu/geoblob/internal/hash"
	"github.com/arloliu/geoblob/internal/pool"
	"github.com/arloliu/geoblob/section"
	"go.uber.org/zap"
)

// MaxRowCount is the largest number of rows a chunk can address.
const MaxRowCount = (section.NullRowOffset - section.ColumnHeaderSize) / section.ColumnIndexEntrySize

// rowAlign is the payload alignment of every row, so that an aligned payload lets
// blob.Deserialize reference vertex data in place.
const rowAlign = 8

// Encoder builds a geometry column chunk row by row.
//
// Note: The Encoder is NOT thread-safe. Each encoder instance should be used by a single goroutine at a time.
//
// Note: The Encoder is NOT reusable. After calling Finish, a new encoder must be created.
type Encoder struct {
	*Config
	codec    compress.Codec
	payload  *pool.ByteBuffer
	entries  []section.ColumnIndexEntry
	blobOpts []blob.Option
	finished bool
}

// NewEncoder creates an encoder for a new column chunk.
//
// Parameters:
//   - opts: Optional configuration (compression, checksum, byte order, blob options)
//
// Returns:
//   - *Encoder: New encoder instance
//   - error: Invalid option
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	blobOpts := make([]blob.Option, 0, len(cfg.blobOpts)+1)
	if cfg.bigEndian {
		blobOpts = append(blobOpts, blob.WithBigEndian())
	}
	blobOpts = append(blobOpts, cfg.blobOpts...)

	return &Encoder{
		Config:   cfg,
		codec:    codec,
		payload:  pool.GetChunkBuffer(),
		blobOpts: blobOpts,
	}, nil
}

// Len returns the number of rows appended so far, null rows included.
func (e *Encoder) Len() int {
	return len(e.entries)
}

// Append serializes g and adds it as the next row. A nil geometry is stored as a null row.
func (e *Encoder) Append(g geometry.Geometry) error {
	if err := e.checkRow(); err != nil {
		return err
	}
	if g.IsNil() {
		return e.AppendNull()
	}

	start := e.alignPayload()
	out, err := blob.Append(e.payload.B, g, e.blobOpts...)
	if err != nil {
		e.payload.B = e.payload.B[:start]
		return fmt.Errorf("failed to serialize row %d: %w", len(e.entries), err)
	}
	e.payload.B = out

	return e.addEntry(start)
}

// AppendBlob adds an already serialized geometry as the next row. Only the blob header
// is validated; the body is checked when the row is decoded.
func (e *Encoder) AppendBlob(b []byte) error {
	if err := e.checkRow(); err != nil {
		return err
	}
	if _, err := blob.Peek(b); err != nil {
		return fmt.Errorf("invalid blob for row %d: %w", len(e.entries), err)
	}

	start := e.alignPayload()
	e.payload.MustWrite(b)

	return e.addEntry(start)
}

// AppendNull adds a null row.
func (e *Encoder) AppendNull() error {
	if err := e.checkRow(); err != nil {
		return err
	}
	e.entries = append(e.entries, section.NullColumnIndexEntry())

	return nil
}

func (e *Encoder) checkRow() error {
	if e.finished {
		return errs.ErrEncoderFinished
	}
	if len(e.entries) >= MaxRowCount {
		return fmt.Errorf("%w: max %d", errs.ErrTooManyRows, MaxRowCount)
	}

	return nil
}

// alignPayload pads the payload with zero bytes up to the next row boundary and returns it.
func (e *Encoder) alignPayload() int {
	n := e.payload.Len()
	if pad := (rowAlign - n%rowAlign) % rowAlign; pad > 0 {
		e.payload.ExtendOrGrow(pad)
		clear(e.payload.B[n:])
	}

	return e.payload.Len()
}

func (e *Encoder) addEntry(start int) error {
	end := e.payload.Len()
	if end > section.ColumnMaxPayload {
		e.payload.B = e.payload.B[:start]
		return fmt.Errorf("%w: payload exceeds %d bytes", errs.ErrTooManyRows, uint64(section.ColumnMaxPayload))
	}

	e.entries = append(e.entries, section.ColumnIndexEntry{
		Offset: uint32(start),       //nolint:gosec
		Length: uint32(end - start), //nolint:gosec
	})

	return nil
}

// Finish assembles the chunk: header, row index, then the (optionally compressed) payload.
//
// Returns:
//   - []byte: Encoded column chunk
//   - error: ErrEncoderFinished on a second call, or a compression error
func (e *Encoder) Finish() ([]byte, error) {
	if e.finished {
		return nil, errs.ErrEncoderFinished
	}
	e.finished = true

	defer func() {
		pool.PutChunkBuffer(e.payload)
		e.payload = nil
	}()

	raw := e.payload.Bytes()
	stored, err := e.codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to compress payload: %w", err)
	}

	header := section.NewColumnHeader(e.compression)
	header.Options.SetBigEndian(e.bigEndian)
	header.RowCount = uint32(len(e.entries))                                 //nolint:gosec
	header.PayloadOffset = header.IndexOffset + uint32(header.IndexLength()) //nolint:gosec
	header.PayloadLength = uint32(len(raw))                                  //nolint:gosec
	header.StoredLength = uint32(len(stored))                                //nolint:gosec
	if e.checksum {
		header.Options.SetChecksum(true)
		header.Checksum = hash.Checksum(raw)
	}

	data := make([]byte, int(header.PayloadOffset)+len(stored))
	offset := header.WriteToSlice(data, 0)

	engine := header.Engine()
	for _, entry := range e.entries {
		offset = entry.WriteToSlice(data, offset, engine)
	}
	copy(data[offset:], stored)

	Logger().Debug("column chunk encoded",
		zap.Uint32("rows", header.RowCount),
		zap.Stringer("compression", e.compression),
		zap.Int("raw_bytes", len(raw)),
		zap.Int("stored_bytes", len(stored)),
	)

	return data, nil
}
