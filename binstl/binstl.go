// Package binstl decodes and encodes the binary STL record layout.
//
// A binary STL file is an 80-byte opaque header, a little-endian uint32
// triangle count, and that many 50-byte records: twelve little-endian
// float32 values (normal, then three vertices) followed by a uint16
// attribute byte count.
package binstl

import (
	"encoding/binary"
	"math"

	"github.com/gmlewis/stlcodec/mesh"
)

const (
	headerSize = mesh.HeaderSize
	countSize  = 4
	recordSize = 50

	// dataStart is the offset of the first triangle record.
	dataStart = headerSize + countSize
)

// short name, for convenience
var le = binary.LittleEndian

// DeclaredSize returns the length in bytes that the triangle count stored
// in b implies (84 + 50*N). ok is false if b is too short to hold a count.
func DeclaredSize(b []byte) (size int64, ok bool) {
	if len(b) < dataStart {
		return 0, false
	}
	n := le.Uint32(b[headerSize:dataStart])
	return dataStart + int64(n)*recordSize, true
}

// Decode decodes a binary STL buffer. Bytes after the last declared record
// are ignored. A zero count leaves Triangles nil. The returned mesh does
// not reference b.
func Decode(b []byte) (*mesh.Mesh, error) {
	if len(b) < dataStart {
		return nil, &mesh.Error{Kind: mesh.Truncated, Format: mesh.Binary, Offset: int64(len(b)), Record: -1}
	}

	n := le.Uint32(b[headerSize:dataStart])
	if avail := int64(len(b)-dataStart) / recordSize; int64(n) > avail {
		// avail is the index of the first incomplete record.
		return nil, &mesh.Error{
			Kind:   mesh.Truncated,
			Format: mesh.Binary,
			Offset: dataStart + avail*recordSize,
			Record: avail,
		}
	}

	m := &mesh.Mesh{}
	copy(m.Header.Binary[:], b[:headerSize])
	if n > 0 {
		m.Triangles = make([]mesh.Triangle, n)
	}
	for i := range m.Triangles {
		off := dataStart + i*recordSize
		readTriangle(b[off:off+recordSize], &m.Triangles[i])
	}
	return m, nil
}

// Encode encodes m in the binary layout.
func Encode(m *mesh.Mesh) ([]byte, error) {
	if uint64(len(m.Triangles)) > math.MaxUint32 {
		return nil, &mesh.Error{Kind: mesh.CountOverflow, Format: mesh.Binary, Offset: headerSize, Record: -1}
	}

	buf := make([]byte, dataStart+len(m.Triangles)*recordSize)
	copy(buf, m.Header.Binary[:])
	le.PutUint32(buf[headerSize:], uint32(len(m.Triangles)))
	for i := range m.Triangles {
		off := dataStart + i*recordSize
		formatTriangle(buf[off:off+recordSize], &m.Triangles[i])
	}
	return buf, nil
}

// readTriangle decodes one 50-byte record directly into t.
func readTriangle(buf []byte, t *mesh.Triangle) {
	readVector(buf[0:12], &t.Normal)
	readVector(buf[12:24], &t.Vertices[0])
	readVector(buf[24:36], &t.Vertices[1])
	readVector(buf[36:48], &t.Vertices[2])
	t.Attr = le.Uint16(buf[48:50])
}

func readVector(buf []byte, v *mesh.Vector3) {
	v.X = math.Float32frombits(le.Uint32(buf[0:4]))
	v.Y = math.Float32frombits(le.Uint32(buf[4:8]))
	v.Z = math.Float32frombits(le.Uint32(buf[8:12]))
}

// formatTriangle encodes t into a 50-byte record.
func formatTriangle(buf []byte, t *mesh.Triangle) {
	formatVector(buf[0:12], t.Normal)
	formatVector(buf[12:24], t.Vertices[0])
	formatVector(buf[24:36], t.Vertices[1])
	formatVector(buf[36:48], t.Vertices[2])
	le.PutUint16(buf[48:50], t.Attr)
}

func formatVector(buf []byte, v mesh.Vector3) {
	le.PutUint32(buf[0:4], math.Float32bits(v.X))
	le.PutUint32(buf[4:8], math.Float32bits(v.Y))
	le.PutUint32(buf[8:12], math.Float32bits(v.Z))
}
