package mesh

import (
	"fmt"
	"strings"
)

// Kind classifies a codec error. Kind implements error so callers can
// test for a class with errors.Is(err, mesh.Truncated).
type Kind int

const (
	// Truncated means fewer bytes were present than the binary layout requires.
	Truncated Kind = iota + 1
	// CountOverflow means the triangle count does not fit in a uint32.
	CountOverflow
	// MalformedNumber means an ASCII numeric literal could not be lexed.
	MalformedNumber
	// UnexpectedToken means a token other than facet or endsolid followed a solid or facet.
	UnexpectedToken
	// ExpectedSolid means the ASCII input did not start with solid.
	ExpectedSolid
	// ExpectedNormal means facet was not followed by normal and three numbers.
	ExpectedNormal
	// ExpectedLoop means a facet normal was not followed by outer loop.
	ExpectedLoop
	// ExpectedVertex means a loop held fewer than three vertices.
	ExpectedVertex
	// ExpectedEndLoop means a third vertex was not followed by endloop.
	ExpectedEndLoop
	// ExpectedEndFacet means endloop was not followed by endfacet.
	ExpectedEndFacet
	// UnexpectedEOF means the ASCII input ended inside a production.
	UnexpectedEOF
	// TrailingContent means tokens followed a complete endsolid.
	TrailingContent
)

var kindNames = map[Kind]string{
	Truncated:        "truncated",
	CountOverflow:    "triangle count overflow",
	MalformedNumber:  "malformed number",
	UnexpectedToken:  "unexpected token",
	ExpectedSolid:    `expected "solid"`,
	ExpectedNormal:   `expected "normal" and three numbers`,
	ExpectedLoop:     `expected "outer loop"`,
	ExpectedVertex:   `expected "vertex" and three numbers`,
	ExpectedEndLoop:  `expected "endloop"`,
	ExpectedEndFacet: `expected "endfacet"`,
	UnexpectedEOF:    "unexpected end of input",
	TrailingContent:  "trailing content after endsolid",
}

func (k Kind) Error() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// Error is returned by every decode and encode failure.
type Error struct {
	Kind   Kind
	Format Format

	// Offset is the byte offset of the failure in the input.
	Offset int64
	// Record is the 0-based binary record index, or -1.
	Record int64
	// Line and Col are 1-based ASCII positions; zero for binary errors.
	Line, Col int

	// State is the ASCII parser state that rejected Token.
	State string
	Token string

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v STL: %v", e.Format, e.Kind)
	switch {
	case e.Line > 0:
		fmt.Fprintf(&b, " at line %v, column %v (offset %v)", e.Line, e.Col, e.Offset)
	case e.Record >= 0:
		fmt.Fprintf(&b, " at record %v (offset %v)", e.Record, e.Offset)
	default:
		fmt.Fprintf(&b, " at offset %v", e.Offset)
	}
	if e.State != "" {
		fmt.Fprintf(&b, " in state %v", e.State)
	}
	if e.Token != "" {
		fmt.Fprintf(&b, ", got %q", e.Token)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is reports whether target is e's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func (e *Error) Unwrap() error { return e.Err }
