package asciistl

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/gmlewis/stlcodec/mesh"
)

// Encode writes m as an ASCII STL document. The layout is fixed:
//
//	solid <name>
//	 facet normal <nx> <ny> <nz>
//	  outer loop
//	   vertex <x> <y> <z>
//	   vertex <x> <y> <z>
//	   vertex <x> <y> <z>
//	  endloop
//	 endfacet
//	endsolid <name>
//
// Every line ends in "\n". An empty name leaves "solid" and "endsolid"
// alone on their lines. Numbers are written with FormatFloat. Attribute
// fields have no ASCII form and are dropped.
func Encode(m *mesh.Mesh) []byte {
	name := cleanName(m.Header.Name)

	var buf bytes.Buffer
	buf.Grow(64 + len(m.Triangles)*160)
	writeNamed(&buf, KwSolid, name)
	for i := range m.Triangles {
		t := &m.Triangles[i]
		buf.WriteString(" facet normal ")
		writeVector(&buf, t.Normal)
		buf.WriteString("  outer loop\n")
		for _, v := range t.Vertices {
			buf.WriteString("   vertex ")
			writeVector(&buf, v)
		}
		buf.WriteString("  endloop\n endfacet\n")
	}
	writeNamed(&buf, KwEndSolid, name)
	return buf.Bytes()
}

// FormatFloat returns the shortest decimal representation of f that
// parses back to the same float32, e.g. "0", "-1.5", "1e-07", "NaN".
func FormatFloat(f float32) string {
	return string(appendFloat(nil, f))
}

func appendFloat(dst []byte, f float32) []byte {
	return strconv.AppendFloat(dst, float64(f), 'g', -1, 32)
}

// cleanName folds line breaks into spaces and trims the name, since a
// name ends at its line break. A word of the name equal to a keyword
// that may follow it (facet, endsolid, solid) still ends the name when
// decoded.
func cleanName(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return strings.Trim(s, blanks)
}

func writeNamed(buf *bytes.Buffer, kw, name string) {
	buf.WriteString(kw)
	if name != "" {
		buf.WriteByte(' ')
		buf.WriteString(name)
	}
	buf.WriteByte('\n')
}

func writeVector(buf *bytes.Buffer, v mesh.Vector3) {
	var num [32]byte
	buf.Write(appendFloat(num[:0], v.X))
	buf.WriteByte(' ')
	buf.Write(appendFloat(num[:0], v.Y))
	buf.WriteByte(' ')
	buf.Write(appendFloat(num[:0], v.Z))
	buf.WriteByte('\n')
}
