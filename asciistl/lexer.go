package asciistl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gmlewis/stlcodec/mesh"
)

// TokenKind is the lexical class of a Token.
type TokenKind int

const (
	// EOF marks the end of input.
	EOF TokenKind = iota
	// Keyword is one of the grammar keywords, in any case.
	Keyword
	// Number is a float32 literal.
	Number
	// Name is the free text after "solid" or "endsolid". It runs to the end
	// of the line or to the next keyword that may follow it on that line.
	Name
	// Word is any other bare word. The lexer does not reject it; the parser does.
	Word
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Keyword:
		return "Keyword"
	case Number:
		return "Number"
	case Name:
		return "Name"
	case Word:
		return "Word"
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Keyword values, in grammar order.
const (
	KwSolid    = "solid"
	KwFacet    = "facet"
	KwNormal   = "normal"
	KwOuter    = "outer"
	KwLoop     = "loop"
	KwVertex   = "vertex"
	KwEndLoop  = "endloop"
	KwEndFacet = "endfacet"
	KwEndSolid = "endsolid"
)

var keywords = []string{
	KwSolid, KwFacet, KwNormal, KwOuter, KwLoop,
	KwVertex, KwEndLoop, KwEndFacet, KwEndSolid,
}

// Token is one lexical element of an ASCII STL document.
type Token struct {
	Kind TokenKind
	// Keyword is the lower-case keyword for Keyword tokens.
	Keyword string
	// Text is the token as it appears in the input (trimmed for Name).
	Text  string
	Value float32

	// Offset is the byte offset of the token; Line and Col are 1-based.
	Offset    int
	Line, Col int
}

// Is reports whether tok is the keyword kw.
func (tok Token) Is(kw string) bool {
	return tok.Kind == Keyword && tok.Keyword == kw
}

func (tok Token) String() string {
	switch tok.Kind {
	case EOF:
		return "EOF"
	case Name:
		return fmt.Sprintf("Name(%q)", tok.Text)
	}
	return fmt.Sprintf("%v(%v)", tok.Kind, tok.Text)
}

// Lexer splits ASCII STL text into tokens on demand. Whitespace separates
// tokens and is otherwise insignificant. A Name may hold several words; it
// ends at a line break or at a word that is a keyword able to follow it,
// so a whole document may sit on one line. Reset restarts the sequence
// from the beginning.
type Lexer struct {
	src  []byte
	pos  int
	line int
	col  int

	// nameStops is non-nil after solid/endsolid: the next token is a Name
	// ended by any of these keywords.
	nameStops []string
}

// Keywords that end a Name on the same line.
var (
	solidNameStops    = []string{KwFacet, KwEndSolid}
	endSolidNameStops = []string{KwSolid}
)

// NewLexer returns a lexer over src. src must not be modified while the
// lexer is in use.
func NewLexer(src []byte) *Lexer {
	l := &Lexer{src: src}
	l.Reset()
	return l
}

// Reset rewinds the lexer to the start of its input.
func (l *Lexer) Reset() {
	l.pos = 0
	l.line = 1
	l.col = 1
	l.nameStops = nil
}

// Tokens lexes all of src. The final token is always EOF.
func Tokens(src []byte) ([]Token, error) {
	l := NewLexer(src)
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// Next returns the next token. Once EOF is returned, every later call
// returns EOF again. A numeric literal of the wrong shape yields a
// *mesh.Error of kind MalformedNumber.
func (l *Lexer) Next() (Token, error) {
	if stops := l.nameStops; stops != nil {
		l.nameStops = nil
		return l.name(stops), nil
	}

	l.skipSpace()
	tok := Token{Offset: l.pos, Line: l.line, Col: l.col}
	if l.pos >= len(l.src) {
		return tok, nil
	}

	start := l.pos
	for l.pos < len(l.src) && !isSpace(l.src[l.pos]) {
		l.advance()
	}
	tok.Text = string(l.src[start:l.pos])

	for _, kw := range keywords {
		if strings.EqualFold(tok.Text, kw) {
			tok.Kind = Keyword
			tok.Keyword = kw
			switch kw {
			case KwSolid:
				l.nameStops = solidNameStops
			case KwEndSolid:
				l.nameStops = endSolidNameStops
			}
			return tok, nil
		}
	}

	if !looksNumeric(tok.Text) {
		tok.Kind = Word
		return tok, nil
	}

	v, err := parseNumber(tok.Text)
	if err != nil {
		return Token{}, &mesh.Error{
			Kind:   mesh.MalformedNumber,
			Format: mesh.ASCII,
			Offset: int64(tok.Offset),
			Record: -1,
			Line:   tok.Line,
			Col:    tok.Col,
			Token:  tok.Text,
			Err:    err,
		}
	}
	tok.Kind = Number
	tok.Value = v
	return tok, nil
}

// name consumes the words up to the end of the current line or up to a
// word matching one of stops, which is left for the next call to Next.
// Surrounding horizontal whitespace is not part of the name.
func (l *Lexer) name(stops []string) Token {
	for l.pos < len(l.src) && isBlank(l.src[l.pos]) {
		l.advance()
	}
	tok := Token{Kind: Name, Offset: l.pos, Line: l.line, Col: l.col}
	start, end := l.pos, l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '\n' && l.src[l.pos] != '\r' {
		if isBlank(l.src[l.pos]) {
			l.advance()
			continue
		}
		wordPos, wordCol := l.pos, l.col
		for l.pos < len(l.src) && !isSpace(l.src[l.pos]) {
			l.advance()
		}
		if isOneOf(string(l.src[wordPos:l.pos]), stops) {
			// Push the keyword back; a word never spans a line break.
			l.pos, l.col = wordPos, wordCol
			break
		}
		end = l.pos
	}
	tok.Text = string(l.src[start:end])
	return tok
}

func isOneOf(word string, kws []string) bool {
	for _, kw := range kws {
		if strings.EqualFold(word, kw) {
			return true
		}
	}
	return false
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.advance()
	}
}

func (l *Lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 0
	}
	l.pos++
	l.col++
}

// blanks are the horizontal whitespace bytes.
const blanks = " \t\v\f"

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}

func isSpace(c byte) bool {
	return isBlank(c) || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// looksNumeric reports whether s starts like a numeric literal, meaning a
// lexing failure on it is a MalformedNumber rather than a stray word.
func looksNumeric(s string) bool {
	c := s[0]
	return isDigit(c) || c == '.' || c == '+' || c == '-' || isSpecial(s)
}

func isSpecial(s string) bool {
	return strings.EqualFold(s, "inf") || strings.EqualFold(s, "infinity") || strings.EqualFold(s, "nan")
}

var (
	errShape = errors.New("invalid numeric literal")
	errRange = errors.New("value out of float32 range")
)

// parseNumber accepts [+-]? (digits [. digits*] | . digits) ([eE] [+-]? digits)?
// and signed inf, infinity, or nan.
func parseNumber(s string) (float32, error) {
	if !validShape(s) {
		return 0, errShape
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, errRange
		}
		return 0, err
	}
	return float32(v), nil
}

func validShape(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if isSpecial(s[i:]) {
		return true
	}

	intDigits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		intDigits++
	}
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			fracDigits++
		}
	}
	if intDigits+fracDigits == 0 {
		return false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}
	return i == len(s)
}
