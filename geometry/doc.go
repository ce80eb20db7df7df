// Package geometry implements the in-memory geometry value shared by every codec.
//
// A geometry is a tree of nodes owned by an Arena. Leaves (Point and LineString) hold a
// flat float64 vertex buffer with 2, 3 or 4 values per vertex depending on the Z and M
// flags. Containers (Polygon, MultiPoint, MultiLineString, MultiPolygon and
// GeometryCollection) hold their parts in a circular singly-linked list: the container
// stores the last inserted part, whose next is the first part, which makes appending
// and iteration in insertion order O(1) per step. Every part keeps a back reference to
// its container so the tree can be walked without recursion.
//
// Polygon rings are LineString parts; the first ring is the exterior shell.
//
// Basic usage:
//
//	a := geometry.NewArena()
//	ring := a.NewLeaf(geometry.LineString, false, false, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0)
//	poly := a.NewContainer(geometry.Polygon, false, false, ring)
//
//	for part := range poly.Parts() {
//		fmt.Println(part.VertexCount())
//	}
//
//	a.Reset() // releases every geometry at once
package geometry
