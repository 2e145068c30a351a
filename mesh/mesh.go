// Package mesh defines the in-memory triangle mesh shared by the binary
// and ASCII STL codecs.
package mesh

import (
	"bytes"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// HeaderSize is the size of the opaque binary STL header block.
const HeaderSize = 80

// Format selects one of the two STL encodings.
type Format int

const (
	// Binary is the fixed-width little-endian record encoding.
	Binary Format = iota
	// ASCII is the textual solid/facet grammar.
	ASCII
)

func (f Format) String() string {
	switch f {
	case Binary:
		return "binary"
	case ASCII:
		return "ascii"
	}
	return "unknown"
}

// Vector3 is a point or direction with single-precision components.
// NaN and Inf values are carried through unchanged.
type Vector3 struct {
	X, Y, Z float32
}

// Vec3 converts v to a mathgl vector.
func (v Vector3) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// FromVec3 converts a mathgl vector to a Vector3.
func FromVec3(v mgl32.Vec3) Vector3 {
	return Vector3{X: v[0], Y: v[1], Z: v[2]}
}

var epsilon float32 = 1e-5

// IsUnit reports whether v has unit length.
func (v Vector3) IsUnit() bool {
	return mgl32.Abs(1-v.Vec3().Len()) < epsilon
}

// Triangle represents one STL facet.
type Triangle struct {
	Normal Vector3
	// Vertex order encodes the winding and is preserved.
	Vertices [3]Vector3
	// Attr is the binary attribute byte count; always zero from ASCII.
	Attr uint16
}

// Edges returns the directed edges v0->v1, v1->v2, and v2->v0.
func (t Triangle) Edges() [3][2]Vector3 {
	v := t.Vertices
	return [3][2]Vector3{{v[0], v[1]}, {v[1], v[2]}, {v[2], v[0]}}
}

// ComputeNormal returns the unit normal implied by the vertex winding
// (right-hand rule). A degenerate triangle yields the zero vector.
func (t Triangle) ComputeNormal() Vector3 {
	a := t.Vertices[0].Vec3()
	n := t.Vertices[1].Vec3().Sub(a).Cross(t.Vertices[2].Vec3().Sub(a))
	if n.Len() == 0 {
		return Vector3{}
	}
	return FromVec3(n.Normalize())
}

// Header carries the format-dependent metadata of an STL file.
type Header struct {
	// Binary is the 80-byte binary header, kept byte for byte.
	Binary [HeaderSize]byte
	// Name is the text following the ASCII "solid" keyword.
	Name string
}

// HeaderFromText returns a header holding s as the ASCII name and as the
// binary header block (truncated to 80 bytes, NUL padded).
func HeaderFromText(s string) Header {
	h := Header{Name: s}
	copy(h.Binary[:], s)
	return h
}

// Text returns a printable single-line title for the header: the ASCII
// name when present, otherwise the binary block trimmed of padding.
func (h Header) Text() string {
	s := h.Name
	if s == "" {
		s = string(bytes.TrimRight(h.Binary[:], "\x00 \t\r\n"))
	}
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return strings.TrimSpace(s)
}

// Mesh is a header plus the triangles in file order.
type Mesh struct {
	Header    Header
	Triangles []Triangle
}

// Bounds returns the axis-aligned extent of all vertices.
// ok is false when the mesh has no triangles.
func (m *Mesh) Bounds() (min, max Vector3, ok bool) {
	for i, t := range m.Triangles {
		for j, p := range t.Vertices {
			if i == 0 && j == 0 {
				min, max = p, p
				continue
			}
			min.setmin(p)
			max.setmax(p)
		}
	}
	return min, max, len(m.Triangles) > 0
}

func (v *Vector3) setmin(p Vector3) {
	if p.X < v.X {
		v.X = p.X
	}
	if p.Y < v.Y {
		v.Y = p.Y
	}
	if p.Z < v.Z {
		v.Z = p.Z
	}
}

func (v *Vector3) setmax(p Vector3) {
	if p.X > v.X {
		v.X = p.X
	}
	if p.Y > v.Y {
		v.Y = p.Y
	}
	if p.Z > v.Z {
		v.Z = p.Z
	}
}
