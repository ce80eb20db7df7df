// Package geojson converts geometry values to and from GeoJSON geometry objects (RFC 7946).
//
// GeoJSON positions have no M ordinate: Marshal drops M and Unmarshal ignores any
// ordinate after the third. Positions with and without Z may be mixed; the result is
// normalized to Z. Feature objects are unwrapped to their geometry.
package geojson
