package binstl

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gmlewis/stlcodec/mesh"
)

const bufSize = 10000 * recordSize

// Writer is a streaming binary STL writer. The triangle count is
// written as zero up front and patched on Close.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	out   io.WriteSeeker
	bw    *bufio.Writer
	count uint64
	rec   [recordSize]byte
	err   error
}

// Create creates filename and returns a streaming writer for it.
// Close closes the file.
func Create(filename string, header [mesh.HeaderSize]byte) (*Writer, error) {
	out, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(out, header)
	if err != nil {
		out.Close()
		return nil, err
	}
	return w, nil
}

// NewWriter writes the header and a placeholder count to out and returns
// a streaming writer. If out is also an io.Closer, Close closes it.
func NewWriter(out io.WriteSeeker, header [mesh.HeaderSize]byte) (*Writer, error) {
	var buf [dataStart]byte
	copy(buf[:], header[:])
	if _, err := out.Write(buf[:]); err != nil {
		return nil, fmt.Errorf("error writing header: %v", err)
	}
	return &Writer{
		out: out,
		bw:  bufio.NewWriterSize(out, bufSize),
	}, nil
}

// Write writes a triangle to the STL stream.
func (w *Writer) Write(t *mesh.Triangle) error {
	if w.err != nil {
		return w.err
	}
	if w.count >= math.MaxUint32 {
		w.err = &mesh.Error{Kind: mesh.CountOverflow, Format: mesh.Binary, Offset: headerSize, Record: int64(w.count)}
		return w.err
	}
	formatTriangle(w.rec[:], t)
	if _, err := w.bw.Write(w.rec[:]); err != nil {
		w.err = fmt.Errorf("write triangle %v: %v", w.count, err)
		return w.err
	}
	w.count++
	return nil
}

// Count returns the number of triangles written so far.
func (w *Writer) Count() int64 {
	return int64(w.count)
}

// Close flushes buffered records, writes the final triangle count, and
// closes the underlying stream if it is an io.Closer.
func (w *Writer) Close() error {
	err := w.finish()
	if c, ok := w.out.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (w *Writer) finish() error {
	if w.err != nil {
		return w.err
	}
	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("flush: %v", err)
	}
	if _, err := w.out.Seek(headerSize, io.SeekStart); err != nil {
		return fmt.Errorf("seek: %v", err)
	}
	var count [countSize]byte
	le.PutUint32(count[:], uint32(w.count))
	if _, err := w.out.Write(count[:]); err != nil {
		return fmt.Errorf("write count %v: %v", w.count, err)
	}
	return nil
}
