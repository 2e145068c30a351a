// Package asciistl decodes and encodes the textual STL grammar:
//
//	file  := "solid" [name] facet* "endsolid" [name]
//	facet := "facet" "normal" float float float
//	         "outer" "loop"
//	         "vertex" float float float   (x3)
//	         "endloop" "endfacet"
//
// Keywords match case-insensitively. The name after endsolid is read
// but not compared with the name after solid.
package asciistl

import (
	"fmt"

	"github.com/gmlewis/stlcodec/mesh"
)

// state is one parser state. Vertex(i) is stateVertex together with the
// parser's vertex index.
type state int

const (
	stateStart state = iota
	stateHeader
	stateFacetNormal
	stateOuterLoop
	stateVertex
	stateEndLoop
	stateEndFacet
	stateDone
)

var stateNames = [...]string{
	stateStart:       "Start",
	stateHeader:      "Header",
	stateFacetNormal: "FacetNormal",
	stateOuterLoop:   "OuterLoop",
	stateVertex:      "Vertex",
	stateEndLoop:     "EndLoop",
	stateEndFacet:    "EndFacet",
	stateDone:        "Done",
}

// mismatch is the error kind reported when a state sees the wrong token.
var mismatch = [...]mesh.Kind{
	stateStart:       mesh.ExpectedSolid,
	stateHeader:      mesh.UnexpectedToken,
	stateFacetNormal: mesh.ExpectedNormal,
	stateOuterLoop:   mesh.ExpectedLoop,
	stateVertex:      mesh.ExpectedVertex,
	stateEndLoop:     mesh.ExpectedEndLoop,
	stateEndFacet:    mesh.ExpectedEndFacet,
	stateDone:        mesh.TrailingContent,
}

// parser is a single-pass state machine over the lexer's tokens.
type parser struct {
	lex   *Lexer
	state state
	// vertex is the 0-based index of the vertex being read in stateVertex.
	vertex int
	cur    mesh.Triangle
	m      *mesh.Mesh
}

// Decode parses an ASCII STL document. The first grammar violation stops
// the parse; a failed decode returns a nil mesh and a *mesh.Error. A solid
// without facets leaves Triangles nil.
func Decode(src []byte) (*mesh.Mesh, error) {
	p := &parser{
		lex: NewLexer(src),
		m:   &mesh.Mesh{},
	}
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == EOF {
			if p.state != stateDone {
				return nil, p.errorAt(mesh.UnexpectedEOF, tok)
			}
			return p.m, nil
		}
		if err := p.step(tok); err != nil {
			return nil, err
		}
	}
}

func (p *parser) stateName() string {
	if p.state == stateVertex {
		return fmt.Sprintf("Vertex(%v)", p.vertex+1)
	}
	return stateNames[p.state]
}

func (p *parser) errorAt(kind mesh.Kind, tok Token) error {
	return &mesh.Error{
		Kind:   kind,
		Format: mesh.ASCII,
		Offset: int64(tok.Offset),
		Record: -1,
		Line:   tok.Line,
		Col:    tok.Col,
		State:  p.stateName(),
		Token:  tok.Text,
	}
}

func (p *parser) unexpected(tok Token) error {
	return p.errorAt(mismatch[p.state], tok)
}

// step applies one transition for the leading token of a production.
func (p *parser) step(tok Token) error {
	switch p.state {
	case stateStart:
		if !tok.Is(KwSolid) {
			return p.unexpected(tok)
		}
		name, err := p.name()
		if err != nil {
			return err
		}
		p.m.Header.Name = name
		p.state = stateHeader

	case stateHeader:
		switch {
		case tok.Is(KwFacet):
			p.state = stateFacetNormal
		case tok.Is(KwEndSolid):
			if _, err := p.name(); err != nil {
				return err
			}
			p.state = stateDone
		default:
			return p.unexpected(tok)
		}

	case stateFacetNormal:
		if !tok.Is(KwNormal) {
			return p.unexpected(tok)
		}
		v, err := p.vector()
		if err != nil {
			return err
		}
		p.cur = mesh.Triangle{Normal: v}
		p.state = stateOuterLoop

	case stateOuterLoop:
		if !tok.Is(KwOuter) {
			return p.unexpected(tok)
		}
		if _, err := p.expectKeyword(KwLoop); err != nil {
			return err
		}
		p.vertex = 0
		p.state = stateVertex

	case stateVertex:
		if !tok.Is(KwVertex) {
			return p.unexpected(tok)
		}
		v, err := p.vector()
		if err != nil {
			return err
		}
		p.cur.Vertices[p.vertex] = v
		p.vertex++
		if p.vertex == len(p.cur.Vertices) {
			p.state = stateEndLoop
		}

	case stateEndLoop:
		if !tok.Is(KwEndLoop) {
			return p.unexpected(tok)
		}
		p.state = stateEndFacet

	case stateEndFacet:
		if !tok.Is(KwEndFacet) {
			return p.unexpected(tok)
		}
		p.m.Triangles = append(p.m.Triangles, p.cur)
		p.state = stateHeader

	case stateDone:
		return p.unexpected(tok)
	}
	return nil
}

// next returns the next token inside a production, where end of input
// is an UnexpectedEOF and any other mismatch is the state's error.
func (p *parser) next(want TokenKind) (Token, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind == EOF {
		return Token{}, p.errorAt(mesh.UnexpectedEOF, tok)
	}
	if tok.Kind != want {
		return Token{}, p.unexpected(tok)
	}
	return tok, nil
}

// name returns the name the lexer always emits after solid and endsolid,
// possibly empty.
func (p *parser) name() (string, error) {
	tok, err := p.lex.Next()
	return tok.Text, err
}

func (p *parser) expectKeyword(kw string) (Token, error) {
	tok, err := p.next(Keyword)
	if err != nil {
		return Token{}, err
	}
	if tok.Keyword != kw {
		return Token{}, p.unexpected(tok)
	}
	return tok, nil
}

// vector reads three numbers.
func (p *parser) vector() (mesh.Vector3, error) {
	var f [3]float32
	for i := range f {
		tok, err := p.next(Number)
		if err != nil {
			return mesh.Vector3{}, err
		}
		f[i] = tok.Value
	}
	return mesh.Vector3{X: f[0], Y: f[1], Z: f[2]}, nil
}
