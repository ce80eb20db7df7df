package errs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Format indicates which codec produced the error.
type Format string

const (
	FormatWKT     Format = "wkt"
	FormatWKB     Format = "wkb"
	FormatGeoJSON Format = "geojson"
	FormatBlob    Format = "blob"
	FormatShape   Format = "shapefile"
	FormatGeom    Format = "geom"
)

// Kind categorizes the error.
type Kind string

const (
	KindMalformedInput             Kind = "malformed_input"
	KindUnsupportedType            Kind = "unsupported_type"
	KindTooDeeplyNested            Kind = "too_deeply_nested"
	KindInconsistentDimensionality Kind = "inconsistent_dimensionality"
)

// NoOffset marks an error without a meaningful input position.
const NoOffset = -1

// maxFragment is the maximum number of input bytes quoted in an error message.
const maxFragment = 32

// Error is the structured data error returned by all readers and codecs.
type Error struct {
	Value    any
	Cause    error
	Format   Format
	Kind     Kind
	Detail   string
	Fragment string
	Offset   int
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	if e.Format != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Format))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Offset >= 0 {
		b.WriteString(" at offset ")
		b.WriteString(strconv.Itoa(e.Offset))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Fragment != "" {
		b.WriteString(" near ")
		b.WriteString(strconv.Quote(e.Fragment))
	}

	if e.Value != nil {
		fmt.Fprintf(&b, " (value %#v)", e.Value)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
//
// A target *Error matches when the kinds are equal and, if the target names a format,
// the formats are equal too.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Kind != e.Kind {
		return false
	}

	return t.Format == "" || t.Format == e.Format
}

// Category sentinels, usable with errors.Is against any *Error.
var (
	ErrMalformedInput             = &Error{Kind: KindMalformedInput, Offset: NoOffset}
	ErrUnsupportedType            = &Error{Kind: KindUnsupportedType, Offset: NoOffset}
	ErrTooDeeplyNested            = &Error{Kind: KindTooDeeplyNested, Offset: NoOffset}
	ErrInconsistentDimensionality = &Error{Kind: KindInconsistentDimensionality, Offset: NoOffset}
)

// Plain sentinels for caller mistakes and container formats.
var (
	ErrShortBuffer         = errors.New("destination buffer too small")
	ErrInvalidHeaderSize   = errors.New("invalid header size")
	ErrInvalidHeaderFlags  = errors.New("invalid header flags")
	ErrInvalidMagicNumber  = errors.New("invalid magic number")
	ErrChecksumMismatch    = errors.New("checksum mismatch")
	ErrInvalidIndexOffsets = errors.New("invalid index offsets")
	ErrRowOutOfRange       = errors.New("row index out of range")
	ErrNullRow             = errors.New("row is null")
	ErrTooManyRows         = errors.New("too many rows")
	ErrEncoderFinished     = errors.New("encoder already finished")
	ErrNilGeometry         = errors.New("nil geometry")
)

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder.
func New(format Format, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Format: format,
			Kind:   kind,
			Offset: NoOffset,
		},
	}
}

// Offset sets the byte offset of the offending input.
func (b *Builder) Offset(offset int) *Builder {
	b.err.Offset = offset
	return b
}

// Fragment sets the input fragment quoted in the message, truncated to 32 bytes.
func (b *Builder) Fragment(s string) *Builder {
	if len(s) > maxFragment {
		s = s[:maxFragment]
	}
	b.err.Fragment = s

	return b
}

// Value sets the offending value.
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}

	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Malformed creates a malformed input error at the given offset.
func Malformed(format Format, offset int, msg string, args ...any) *Error {
	return New(format, KindMalformedInput).Offset(offset).Detail(msg, args...).Build()
}

// Unsupported creates an unsupported type error.
func Unsupported(format Format, offset int, value any, what string) *Error {
	return New(format, KindUnsupportedType).Offset(offset).Value(value).Detail("%s", what).Build()
}

// TooDeep creates a nesting error for the given capacity.
func TooDeep(format Format, offset int, capacity int) *Error {
	return New(format, KindTooDeeplyNested).
		Offset(offset).
		Detail("nesting exceeds capacity of %d levels", capacity).
		Build()
}

// MixedDims creates an inconsistent dimensionality error.
func MixedDims(format Format, offset int, detail string) *Error {
	return New(format, KindInconsistentDimensionality).Offset(offset).Detail("%s", detail).Build()
}

// FragmentAt returns up to 32 bytes of text starting at offset, for error messages.
func FragmentAt(text string, offset int) string {
	if offset < 0 || offset >= len(text) {
		return ""
	}
	end := offset + maxFragment
	if end > len(text) {
		end = len(text)
	}

	return text[offset:end]
}
