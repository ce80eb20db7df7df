// Command geoblob converts geometries between exchange formats and builds geometry column
// chunks from shapefiles.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
