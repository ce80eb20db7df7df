package wkb

import (
	"testing"

	"github.com/arloliu/geoblob/geometry"
)

func benchMultiPolygon(a *geometry.Arena, polygons, vertices int) geometry.Geometry {
	mp := a.New(geometry.MultiPolygon, false, false)
	for p := range polygons {
		coords := make([]float64, 0, (vertices+1)*2)
		for i := range vertices {
			coords = append(coords, float64(p*vertices+i), float64(i))
		}
		coords = append(coords, coords[0], coords[1])
		mp.AppendPart(a.NewContainer(geometry.Polygon, false, false, a.NewLineString(false, false, coords...)))
	}

	return mp
}

func BenchmarkMarshal(b *testing.B) {
	g := benchMultiPolygon(geometry.NewArena(), 16, 256)
	buf := make([]byte, 0, Size(g))

	b.SetBytes(int64(Size(g)))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Append(buf[:0], g); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRead(b *testing.B) {
	data, err := Marshal(benchMultiPolygon(geometry.NewArena(), 16, 256))
	if err != nil {
		b.Fatal(err)
	}

	for _, tc := range []struct {
		name string
		opts []ReaderOption
	}{
		{"Copy", nil},
		{"NoCopy", []ReaderOption{WithCopyVertices(false)}},
	} {
		b.Run(tc.name, func(b *testing.B) {
			var stack [8]Frame
			r := NewReader(stack[:], tc.opts...)
			a := geometry.NewArena()

			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				a.Reset()
				if _, err := r.Read(a, data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
