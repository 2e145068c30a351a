// stl-convert converts STL files between the binary and ASCII encodings.
//
// Each input file is decoded (binary or ASCII, detected automatically)
// and written next to it with the requested encoding. The header title
// is carried across formats: a binary header becomes the ASCII solid
// name and vice versa.
//
// Usage:
//
//	stl-convert -ascii part.stl        # writes part-ascii.stl
//	stl-convert -binary -o out.stl in.stl
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/gmlewis/stlcodec/mesh"
	"github.com/gmlewis/stlcodec/stl"
)

var (
	toASCII  = flag.Bool("ascii", false, "Write ASCII STL")
	toBinary = flag.Bool("binary", false, "Write binary STL")
	outFile  = flag.String("o", "", "Output filename (only valid with a single input file)")
	name     = flag.String("name", "", "Override the solid name / header text")
)

func main() {
	flag.Parse()

	if *toASCII == *toBinary {
		log.Fatalf("Exactly one of -ascii or -binary must be supplied.")
	}
	if *outFile != "" && flag.NArg() != 1 {
		log.Fatalf("-o requires exactly one input file, got %v", flag.NArg())
	}

	format := mesh.Binary
	if *toASCII {
		format = mesh.ASCII
	}

	for _, arg := range flag.Args() {
		log.Printf("Reading %q...", arg)
		m, err := stl.ReadFile(arg)
		check("ReadFile: %v", err)

		title := m.Header.Text()
		if *name != "" {
			title = *name
		}
		if format == mesh.ASCII || m.Header.Name != "" || *name != "" {
			m.Header = mesh.HeaderFromText(title)
		}

		filename := *outFile
		if filename == "" {
			filename = fmt.Sprintf("%v-%v.stl", strings.TrimSuffix(arg, ".stl"), format)
		}
		log.Printf("Writing %v triangles to %v (%v)...", len(m.Triangles), filename, format)
		err = stl.WriteFile(filename, m, format)
		check("WriteFile: %v", err)
	}

	log.Println("Done.")
}

func check(fmtStr string, args ...interface{}) {
	if err := args[len(args)-1]; err != nil {
		log.Fatalf(fmtStr, args...)
	}
}
