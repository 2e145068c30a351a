// Package stl reads and writes STL files in either the binary or the
// ASCII encoding, choosing the decoder by inspecting the input.
package stl

import (
	"bytes"
	"fmt"
	"os"

	"github.com/gmlewis/stlcodec/asciistl"
	"github.com/gmlewis/stlcodec/binstl"
	"github.com/gmlewis/stlcodec/mesh"
)

var solidPrefix = []byte("solid")

// Sniff classifies b. Input is ASCII when, after leading whitespace, it
// starts with "solid" followed by whitespace or end of input AND its length
// is not exactly the size implied by the binary triangle count. Binary
// files whose free-text header happens to start with "solid" are told
// apart by that length check.
func Sniff(b []byte) mesh.Format {
	rest := bytes.TrimLeft(b, " \t\r\n\v\f")
	if !bytes.HasPrefix(rest, solidPrefix) {
		return mesh.Binary
	}
	if rest = rest[len(solidPrefix):]; len(rest) > 0 && !isSpace(rest[0]) {
		return mesh.Binary
	}
	if size, ok := binstl.DeclaredSize(b); ok && size == int64(len(b)) {
		return mesh.Binary
	}
	return mesh.ASCII
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

// Decode decodes a binary or ASCII STL buffer. When the input looks like
// ASCII but does not parse, it is decoded as binary instead, and if that
// also fails the binary error is returned.
func Decode(b []byte) (*mesh.Mesh, error) {
	m, _, err := DecodeFormat(b)
	return m, err
}

// DecodeFormat is like Decode but also reports the encoding that was
// actually decoded, which differs from Sniff(b) after a binary fallback.
func DecodeFormat(b []byte) (*mesh.Mesh, mesh.Format, error) {
	if Sniff(b) == mesh.ASCII {
		if m, err := asciistl.Decode(b); err == nil {
			return m, mesh.ASCII, nil
		}
	}
	m, err := binstl.Decode(b)
	return m, mesh.Binary, err
}

// Encode encodes m in format f.
func Encode(m *mesh.Mesh, f mesh.Format) ([]byte, error) {
	switch f {
	case mesh.Binary:
		return binstl.Encode(m)
	case mesh.ASCII:
		return asciistl.Encode(m), nil
	}
	return nil, fmt.Errorf("unknown STL format %v", int(f))
}

// ReadFile reads and decodes the named file.
func ReadFile(filename string) (*mesh.Mesh, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	m, err := Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", filename, err)
	}
	return m, nil
}

// WriteFile encodes m in format f and writes it to the named file.
func WriteFile(filename string, m *mesh.Mesh, f mesh.Format) error {
	buf, err := Encode(m, f)
	if err != nil {
		return fmt.Errorf("%v: %w", filename, err)
	}
	return os.WriteFile(filename, buf, 0644)
}
