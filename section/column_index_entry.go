package section

import "github.com/arloliu/geoblob/endian"

// ColumnIndexEntry locates one row of a column chunk inside the uncompressed payload.
//
//	Bytes | Field  | Type   | Description
//	------|--------|--------|----------------------------------------
//	0-3   | Offset | uint32 | absolute payload offset, NullRowOffset for null
//	4-7   | Length | uint32 | serialized geometry length, 0 for null
type ColumnIndexEntry struct {
	Offset uint32
	Length uint32
}

// NullColumnIndexEntry returns the entry of a null row.
func NullColumnIndexEntry() ColumnIndexEntry {
	return ColumnIndexEntry{Offset: NullRowOffset}
}

// IsNull returns whether the entry marks a null row.
func (e ColumnIndexEntry) IsNull() bool {
	return e.Offset == NullRowOffset
}

// End returns the payload offset just past the row.
func (e ColumnIndexEntry) End() uint64 {
	return uint64(e.Offset) + uint64(e.Length)
}

// WriteToSlice writes the entry into data at offset and returns the next position.
func (e ColumnIndexEntry) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint32(data[offset:offset+4], e.Offset)
	engine.PutUint32(data[offset+4:offset+8], e.Length)

	return offset + ColumnIndexEntrySize
}

// ParseColumnIndexEntry reads the entry at the start of data.
func ParseColumnIndexEntry(data []byte, engine endian.EndianEngine) ColumnIndexEntry {
	return ColumnIndexEntry{
		Offset: engine.Uint32(data[0:4]),
		Length: engine.Uint32(data[4:8]),
	}
}
