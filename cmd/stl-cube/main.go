// -*- compile-command: "go run main.go"; -*-

// stl-cube writes out a simple cube STL example file.
package main

import (
	"flag"
	"log"

	"github.com/gmlewis/stlcodec/binstl"
	"github.com/gmlewis/stlcodec/mesh"
	"github.com/gmlewis/stlcodec/stl"
)

var (
	size    = flag.Float64("size", 10, "Edge length of the cube")
	ascii   = flag.Bool("ascii", false, "Write ASCII STL instead of streaming binary STL")
	outFile = flag.String("o", "cube.stl", "Output filename")
)

func main() {
	flag.Parse()

	tris := cube(float32(*size))
	header := mesh.HeaderFromText("stl-cube")

	if *ascii {
		err := stl.WriteFile(*outFile, &mesh.Mesh{Header: header, Triangles: tris}, mesh.ASCII)
		check("WriteFile: %v", err)
		log.Printf("Done.")
		return
	}

	w, err := binstl.Create(*outFile, header.Binary)
	check("binstl.Create: %v", err)

	for i := range tris {
		check("Write: %v", w.Write(&tris[i]))
	}

	check("Close: %v", w.Close())
	log.Printf("Done.")
}

// cube returns the 12 triangles of an axis-aligned cube with one corner
// at the origin, wound counter-clockwise when seen from outside.
func cube(s float32) []mesh.Triangle {
	p := func(x, y, z float32) mesh.Vector3 { return mesh.Vector3{X: x * s, Y: y * s, Z: z * s} }
	faces := [][4]mesh.Vector3{
		{p(0, 0, 0), p(0, 1, 0), p(1, 1, 0), p(1, 0, 0)}, // -Z
		{p(0, 0, 1), p(1, 0, 1), p(1, 1, 1), p(0, 1, 1)}, // +Z
		{p(0, 0, 0), p(1, 0, 0), p(1, 0, 1), p(0, 0, 1)}, // -Y
		{p(0, 1, 0), p(0, 1, 1), p(1, 1, 1), p(1, 1, 0)}, // +Y
		{p(0, 0, 0), p(0, 0, 1), p(0, 1, 1), p(0, 1, 0)}, // -X
		{p(1, 0, 0), p(1, 1, 0), p(1, 1, 1), p(1, 0, 1)}, // +X
	}

	var tris []mesh.Triangle
	for _, f := range faces {
		for _, v := range [][3]mesh.Vector3{{f[0], f[1], f[2]}, {f[0], f[2], f[3]}} {
			t := mesh.Triangle{Vertices: v}
			t.Normal = t.ComputeNormal()
			tris = append(tris, t)
		}
	}
	return tris
}

func check(fmtStr string, args ...interface{}) {
	if err := args[len(args)-1]; err != nil {
		log.Fatalf(fmtStr, args...)
	}
}
