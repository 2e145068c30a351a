// stl-info prints a summary of one or more STL files: the encoding,
// the header title, the triangle count, and the bounding box.
//
// With -dump every triangle is printed. With -check every stored
// normal is compared against the normal implied by the vertex winding.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gmlewis/stlcodec/mesh"
	"github.com/gmlewis/stlcodec/stl"
)

var (
	dump  = flag.Bool("dump", false, "Dump all triangles")
	check = flag.Bool("check", false, "Check stored normals against the vertex winding")
)

// maxNormalError is the largest accepted distance between a stored
// normal and the computed one.
const maxNormalError = 1e-3

func main() {
	flag.Parse()

	for _, arg := range flag.Args() {
		buf, err := os.ReadFile(arg)
		must("ReadFile: %v", err)

		m, format, err := stl.DecodeFormat(buf)
		must("%v: %v", arg, err)

		fmt.Printf("%v:\n", arg)
		fmt.Printf("  Format: %v\n", format)
		fmt.Printf("  Header: %q\n", m.Header.Text())
		fmt.Printf("  Num triangles: %d\n", len(m.Triangles))
		if min, max, ok := m.Bounds(); ok {
			fmt.Printf("  From: %v\n", min)
			fmt.Printf("    To: %v\n", max)
		}

		var bad int
		for n, t := range m.Triangles {
			if *check && !normalOK(t) {
				bad++
				fmt.Printf("  Triangle %d normal %v, winding implies %v\n", n, t.Normal, t.ComputeNormal())
			}

			if *dump {
				fmt.Printf("  Triangle %d:\n", n)
				fmt.Printf("    %v\n", t.Normal)
				fmt.Printf("    %v\n", t.Vertices[0])
				fmt.Printf("    %v\n", t.Vertices[1])
				fmt.Printf("    %v\n", t.Vertices[2])
				fmt.Printf("    %#x\n", t.Attr)
			}
		}
		if *check {
			fmt.Printf("  Bad normals: %d\n", bad)
		}
	}
}

// normalOK reports whether t's stored normal is a unit vector matching its
// winding. A zero normal is accepted since many exporters leave it unset.
func normalOK(t mesh.Triangle) bool {
	if t.Normal == (mesh.Vector3{}) {
		return true
	}
	if !t.Normal.IsUnit() {
		return false
	}
	return t.Normal.Vec3().Sub(t.ComputeNormal().Vec3()).Len() < maxNormalError
}

func must(fmtStr string, args ...interface{}) {
	if err := args[len(args)-1]; err != nil {
		log.Fatalf(fmtStr, args...)
	}
}
