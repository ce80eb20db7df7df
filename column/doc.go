// Package column stores batches of serialized geometries as a single column chunk.
//
// A chunk is laid out as
//
//	+----------------------+  offset 0
//	| ColumnHeader (32 B)  |
//	+----------------------+  IndexOffset
//	| ColumnIndexEntry x N |  8 bytes per row, offset 0xFFFFFFFF marks a null row
//	+----------------------+  PayloadOffset
//	| payload              |  concatenated blobs, each 8-byte aligned, optionally compressed
//	+----------------------+
//
// Row offsets are positions inside the uncompressed payload. The optional checksum covers
// the uncompressed payload.
//
// Encoding:
//
//	enc, err := column.NewEncoder(column.WithCompression(format.CompressionZstd))
//	if err != nil {
//		return err
//	}
//	for _, g := range rows {
//		if err := enc.Append(g); err != nil {
//			return err
//		}
//	}
//	data, err := enc.Finish()
//
// Decoding:
//
//	dec, err := column.NewDecoder(data)
//	if err != nil {
//		return err
//	}
//	arena := geometry.NewArena()
//	for i, g := range dec.All(arena) {
//		fmt.Println(i, g)
//	}
//	if err := dec.Err(); err != nil {
//		return err
//	}
package column
