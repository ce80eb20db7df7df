package normalize

import (
	"github.com/arloliu/geoblob/geometry"
	"go.uber.org/zap"
)

// Force rewrites g so that every node has the requested dimensionality.
//
// Missing Z ordinates are filled with zDefault and missing M ordinates with mDefault,
// except when Z alone is requested from an M-only node: its M value is promoted to Z.
// Requesting M alone from a Z-only node drops Z and fills M with mDefault.
//
// The result is built in arena. Leaves whose dimensionality already matches share their
// vertex data with g, and g itself is returned when no node needs a change. Force is
// idempotent.
//
// Parameters:
//   - arena: destination for new nodes and vertex buffers
//   - g: geometry to rewrite, possibly with mixed dimensionality
//   - hasZ, hasM: target dimensionality
//   - zDefault, mDefault: values used for ordinates that did not exist
//
// Returns:
//   - geometry.Geometry: g itself or a rewritten copy; the nil geometry for a nil input
func Force(arena *geometry.Arena, g geometry.Geometry, hasZ, hasM bool, zDefault, mDefault float64) geometry.Geometry {
	if g.IsNil() || isUniform(g, hasZ, hasM) {
		return g
	}

	dims := func(geometry.Geometry) (bool, bool) { return hasZ, hasM }
	leaf := func(dst *geometry.Arena, src geometry.Geometry, z, m bool) geometry.Geometry {
		return remap(dst, src, z, m, zDefault, mDefault)
	}

	return geometry.Rebuild(arena, g, dims, leaf)
}

// Force2D drops Z and M from every node of g.
func Force2D(arena *geometry.Arena, g geometry.Geometry) geometry.Geometry {
	return Force(arena, g, false, false, 0, 0)
}

// Force3DZ gives every node of g a Z ordinate and removes M. Nodes without Z take the
// value of their M ordinate, or z when they have neither.
func Force3DZ(arena *geometry.Arena, g geometry.Geometry, z float64) geometry.Geometry {
	return Force(arena, g, true, false, z, 0)
}

// Force3DM gives every node of g an M ordinate filled with m where missing, and removes Z.
func Force3DM(arena *geometry.Arena, g geometry.Geometry, m float64) geometry.Geometry {
	return Force(arena, g, false, true, 0, m)
}

// Force4D gives every node of g both Z and M, filling missing ordinates with z and m.
func Force4D(arena *geometry.Arena, g geometry.Geometry, z, m float64) geometry.Geometry {
	return Force(arena, g, true, true, z, m)
}

// Reconcile brings a geometry with mixed dimensionality to the union of the dimensions
// found in any of its nodes, filling missing ordinates with 0. A geometry with uniform
// dimensionality is returned unchanged.
func Reconcile(arena *geometry.Arena, g geometry.Geometry) geometry.Geometry {
	if g.IsNil() || !geometry.HasMixedDims(g) {
		return g
	}

	anyZ, anyM := geometry.AnyDims(g)
	Logger().Debug("reconciling mixed dimensionality",
		zap.Stringer("kind", g.Kind()), zap.Bool("z", anyZ), zap.Bool("m", anyM))

	return Force(arena, g, anyZ, anyM, 0, 0)
}

func isUniform(g geometry.Geometry, hasZ, hasM bool) bool {
	uniform := true
	geometry.Walk(g, func(cur geometry.Geometry, leaving bool) bool {
		if !leaving && (cur.HasZ() != hasZ || cur.HasM() != hasM) {
			uniform = false
		}

		return uniform
	})

	return uniform
}

// remap copies the leaf src with the target dimensionality.
func remap(dst *geometry.Arena, src geometry.Geometry, hasZ, hasM bool, zDefault, mDefault float64) geometry.Geometry {
	out := dst.New(src.Kind(), hasZ, hasM)
	if src.HasZ() == hasZ && src.HasM() == hasM {
		out.SetVertices(src.Vertices())
		return out
	}

	count := src.VertexCount()
	if count == 0 {
		return out
	}

	srcStride := src.Stride()
	srcZ, srcM := src.HasZ(), src.HasM()
	promote := hasZ && !hasM && !srcZ && srcM

	in := src.Vertices()
	values := dst.AllocVertices(count, hasZ, hasM)
	j := 0
	for i := 0; i < len(in); i += srcStride {
		values[j] = in[i]
		values[j+1] = in[i+1]
		j += 2

		// source Z sits at +2, source M right after it
		mIdx := i + 2
		if srcZ {
			mIdx++
		}

		if hasZ {
			switch {
			case srcZ:
				values[j] = in[i+2]
			case promote:
				values[j] = in[mIdx]
			default:
				values[j] = zDefault
			}
			j++
		}
		if hasM {
			if srcM {
				values[j] = in[mIdx]
			} else {
				values[j] = mDefault
			}
			j++
		}
	}
	out.SetVertices(values)

	return out
}
