// Package errs defines the error types returned by the geoblob readers, writers and codecs.
//
// Data errors are reported as *Error values categorized by Format (which codec produced
// the error) and Kind (what went wrong):
//
//   - KindMalformedInput: grammar violation in WKT, WKB, GeoJSON or a binary blob
//   - KindUnsupportedType: structurally valid but unhandled geometry kind or flag combination
//   - KindTooDeeplyNested: nesting exceeded the configured stack capacity or depth
//   - KindInconsistentDimensionality: parts disagree on Z/M presence and reconciliation is off
//
// Every *Error carries enough context to locate the bad record: a byte offset, a fragment
// of the offending text input or the offending byte value for binary input.
//
// Use errors.Is with the Err* sentinels to test the category regardless of format:
//
//	g, err := wkt.Parse(arena, text)
//	if errors.Is(err, errs.ErrMalformedInput) {
//	    // skip the record
//	}
//
// Caller mistakes (short buffers, out of range rows) and container format problems are
// reported with plain sentinel errors.
package errs
