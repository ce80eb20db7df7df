package geoblob_test

import (
	"fmt"

	"github.com/arloliu/geoblob"
	"github.com/arloliu/geoblob/encoding/wkt"
	"github.com/arloliu/geoblob/format"
	"github.com/arloliu/geoblob/geometry"
)

func ExampleFromWKT() {
	data, err := geoblob.FromWKT("LINESTRING Z (0 0 1, 3 4 2)")
	if err != nil {
		panic(err)
	}

	text, _ := geoblob.ToWKT(data)
	fmt.Println(text)
	// Output: LINESTRING Z (0 0 1, 3 4 2)
}

func ExampleConvert() {
	out, err := geoblob.Convert([]byte("POINT (1.5 2)"), format.FormatWKT, format.FormatGeoJSON)
	if err != nil {
		panic(err)
	}

	fmt.Println(string(out))
	// Output: {"type":"Point","coordinates":[1.5,2]}
}

func ExampleNewColumnEncoder() {
	enc, err := geoblob.NewColumnEncoder()
	if err != nil {
		panic(err)
	}

	arena := geometry.NewArena()
	_ = enc.Append(arena.NewPoint(false, false, 1, 2))
	_ = enc.AppendNull()
	_ = enc.Append(arena.NewLineString(false, false, 0, 0, 10, 5))

	chunk, err := enc.Finish()
	if err != nil {
		panic(err)
	}

	dec, err := geoblob.NewColumnDecoder(chunk)
	if err != nil {
		panic(err)
	}

	for i, g := range dec.All(geometry.NewArena()) {
		if g.IsNil() {
			fmt.Println(i, "NULL")
			continue
		}
		fmt.Println(i, wkt.Format(g))
	}
	box, _, _ := dec.Extent()
	fmt.Println(box.MinX, box.MinY, box.MaxX, box.MaxY)
	// Output:
	// 0 POINT (1 2)
	// 1 NULL
	// 2 LINESTRING (0 0, 10 5)
	// 0 0 10 5
}
