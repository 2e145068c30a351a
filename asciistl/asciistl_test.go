package asciistl

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gmlewis/stlcodec/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cubeText = "solid cube\n" +
	" facet normal 0 0 1\n" +
	"  outer loop\n" +
	"   vertex 0 0 0\n" +
	"   vertex 1 0 0\n" +
	"   vertex 0 1 0\n" +
	"  endloop\n" +
	" endfacet\n" +
	"endsolid cube\n"

func cubeMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Header: mesh.Header{Name: "cube"},
		Triangles: []mesh.Triangle{
			{
				Normal:   mesh.Vector3{X: 0, Y: 0, Z: 1},
				Vertices: [3]mesh.Vector3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
			},
		},
	}
}

func TestEncodeCube(t *testing.T) {
	assert.Equal(t, cubeText, string(Encode(cubeMesh())))
}

func TestDecodeCube(t *testing.T) {
	got, err := Decode([]byte(cubeText))
	require.NoError(t, err)
	assert.Equal(t, cubeMesh(), got)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    *mesh.Mesh
	}{
		{
			name: "zero mesh",
			m:    &mesh.Mesh{},
		},
		{
			name: "name with spaces",
			m:    &mesh.Mesh{Header: mesh.Header{Name: "OpenSCAD Model"}},
		},
		{
			name: "awkward values",
			m: &mesh.Mesh{
				Header: mesh.Header{Name: "Part-7"},
				Triangles: []mesh.Triangle{
					cubeMesh().Triangles[0],
					{
						Normal: mesh.Vector3{X: 0.1, Y: -0.2, Z: 1.0 / 3.0},
						Vertices: [3]mesh.Vector3{
							{X: 1e-7, Y: 3.4028235e38, Z: -1.17549435e-38},
							{X: 1e-45, Y: 123456.79, Z: -0.0001},
							{X: float32(math.Inf(1)), Y: float32(math.Inf(-1)), Z: 16777217},
						},
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := Encode(tt.m)
			got, err := Decode(text)
			require.NoError(t, err)
			assert.Equal(t, tt.m, got)

			// encode -> decode -> encode is byte stable.
			assert.Equal(t, string(text), string(Encode(got)))
		})
	}
}

func TestEncodeEmptyName(t *testing.T) {
	assert.Equal(t, "solid\nendsolid\n", string(Encode(&mesh.Mesh{})))
}

func TestEncodeFoldsNameLineBreaks(t *testing.T) {
	got := Encode(&mesh.Mesh{Header: mesh.Header{Name: " two\nlines "}})
	assert.Equal(t, "solid two lines\nendsolid two lines\n", string(got))
}

func TestEncodeDropsAttr(t *testing.T) {
	m := cubeMesh()
	m.Triangles[0].Attr = 0x1234
	got, err := Decode(Encode(m))
	require.NoError(t, err)
	assert.Equal(t, uint16(0), got.Triangles[0].Attr)
}

func TestEncodeUsesFormatFloat(t *testing.T) {
	v := mesh.Vector3{X: 0.1, Y: -1.17549435e-38, Z: float32(math.Inf(1))}
	m := &mesh.Mesh{Triangles: []mesh.Triangle{{Normal: v}}}
	want := " facet normal " + FormatFloat(v.X) + " " + FormatFloat(v.Y) + " " + FormatFloat(v.Z) + "\n"
	assert.Contains(t, string(Encode(m)), want)
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{in: 0, want: "0"},
		{in: 1, want: "1"},
		{in: -1.5, want: "-1.5"},
		{in: 0.1, want: "0.1"},
		{in: 1e-7, want: "1e-07"},
		{in: 3.4028235e38, want: "3.4028235e+38"},
		{in: float32(math.Inf(-1)), want: "-Inf"},
		{in: float32(math.NaN()), want: "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.in))
		})
	}
}

func TestDecodeLenient(t *testing.T) {
	src := "SOLID  Mixed Case Part  \r\n" +
		"FACET NORMAL 0.0e0 0.0 -1\r\n" +
		"OUTER LOOP\r\n" +
		"VERTEX 1 2 3\tVERTEX 4 5 6 VERTEX 7 8 9\r\n" +
		"ENDLOOP ENDFACET\r\n" +
		"ENDSOLID something else\r\n\r\n"

	got, err := Decode([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "Mixed Case Part", got.Header.Name)
	require.Len(t, got.Triangles, 1)
	assert.Equal(t, mesh.Triangle{
		Normal:   mesh.Vector3{X: 0, Y: 0, Z: -1},
		Vertices: [3]mesh.Vector3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: 7, Y: 8, Z: 9}},
	}, got.Triangles[0])
}

func TestDecodeSingleLine(t *testing.T) {
	unnamed := cubeMesh()
	unnamed.Header.Name = ""

	tests := []struct {
		name string
		src  string
		want *mesh.Mesh
	}{
		{
			name: "named",
			src:  "solid cube facet normal 0 0 1 outer loop vertex 0 0 0 vertex 1 0 0 vertex 0 1 0 endloop endfacet endsolid cube",
			want: cubeMesh(),
		},
		{
			name: "unnamed",
			src:  "solid facet normal 0 0 1 outer loop vertex 0 0 0 vertex 1 0 0 vertex 0 1 0 endloop endfacet endsolid",
			want: unnamed,
		},
		{
			name: "name before facet line",
			src:  "solid cube facet normal 0 0 1\nouter loop vertex 0 0 0 vertex 1 0 0 vertex 0 1 0 endloop endfacet\nendsolid cube\n",
			want: cubeMesh(),
		},
		{
			name: "empty solid",
			src:  "solid part endsolid part",
			want: &mesh.Mesh{Header: mesh.Header{Name: "part"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeKeepsOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString("solid ordered\n")
	for i := 0; i < 5; i++ {
		v := FormatFloat(float32(i))
		b.WriteString("facet normal 0 0 1 outer loop ")
		b.WriteString("vertex " + v + " 0 0 vertex 0 " + v + " 0 vertex 0 0 " + v + " ")
		b.WriteString("endloop endfacet\n")
	}
	b.WriteString("endsolid ordered\n")

	got, err := Decode([]byte(b.String()))
	require.NoError(t, err)
	require.Len(t, got.Triangles, 5)
	for i, tri := range got.Triangles {
		assert.Equal(t, float32(i), tri.Vertices[0].X)
		assert.Equal(t, float32(i), tri.Vertices[1].Y)
		assert.Equal(t, float32(i), tri.Vertices[2].Z)
	}
}

func TestDecodeErrors(t *testing.T) {
	const facetHead = "solid x\nfacet normal 0 0 1\nouter loop\n"

	tests := []struct {
		name  string
		src   string
		kind  mesh.Kind
		state string
		token string
		line  int
	}{
		{name: "empty input", src: "", kind: mesh.UnexpectedEOF, state: "Start", line: 1},
		{name: "whitespace only", src: " \n\n", kind: mesh.UnexpectedEOF, state: "Start", line: 3},
		{name: "no solid", src: "facet normal 0 0 1", kind: mesh.ExpectedSolid, state: "Start", token: "facet", line: 1},
		{name: "number first", src: "1 2 3", kind: mesh.ExpectedSolid, state: "Start", token: "1", line: 1},
		{name: "missing endsolid", src: "solid x\n", kind: mesh.UnexpectedEOF, state: "Header", line: 2},
		{name: "stray word in header", src: "solid x\ncolor 1 2 3\n", kind: mesh.UnexpectedToken, state: "Header", token: "color", line: 2},
		{name: "vertex in header", src: "solid x\nvertex 1 2 3\n", kind: mesh.UnexpectedToken, state: "Header", token: "vertex", line: 2},
		{name: "facet without normal", src: "solid x\nfacet outer loop\n", kind: mesh.ExpectedNormal, state: "FacetNormal", token: "outer", line: 2},
		{name: "short normal", src: "solid x\nfacet normal 0 0\nouter loop\n", kind: mesh.ExpectedNormal, state: "FacetNormal", token: "outer", line: 3},
		{name: "vertex before outer loop", src: "solid x\nfacet normal 0 0 1\nvertex 0 0 0\n", kind: mesh.ExpectedLoop, state: "OuterLoop", token: "vertex", line: 3},
		{name: "outer without loop", src: "solid x\nfacet normal 0 0 1\nouter vertex\n", kind: mesh.ExpectedLoop, state: "OuterLoop", token: "vertex", line: 3},
		{name: "two vertices", src: facetHead + "vertex 0 0 0\nvertex 1 0 0\nendloop\n", kind: mesh.ExpectedVertex, state: "Vertex(3)", token: "endloop", line: 6},
		{name: "vertex short", src: facetHead + "vertex 0 0\nvertex 1 0 0\n", kind: mesh.ExpectedVertex, state: "Vertex(1)", token: "vertex", line: 5},
		{name: "four vertices", src: facetHead + "vertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nvertex 1 1 0\n", kind: mesh.ExpectedEndLoop, state: "EndLoop", token: "vertex", line: 7},
		{name: "missing endfacet", src: facetHead + "vertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nendloop\nfacet\n", kind: mesh.ExpectedEndFacet, state: "EndFacet", token: "facet", line: 8},
		{name: "eof inside vertex", src: facetHead + "vertex 0 0", kind: mesh.UnexpectedEOF, state: "Vertex(1)", line: 4},
		{name: "eof after endloop", src: facetHead + "vertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nendloop\n", kind: mesh.UnexpectedEOF, state: "EndFacet", line: 8},
		{name: "trailing content", src: "solid x\nendsolid x\nsolid y\n", kind: mesh.TrailingContent, state: "Done", token: "solid", line: 3},
		{name: "malformed number", src: "solid x\nfacet normal 0 0 1.0e\n", kind: mesh.MalformedNumber, token: "1.0e", line: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode([]byte(tt.src))
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)

			var e *mesh.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, mesh.ASCII, e.Format)
			assert.Equal(t, tt.state, e.State)
			assert.Equal(t, tt.token, e.Token)
			assert.Equal(t, tt.line, e.Line)
		})
	}
}

func TestDecodeDoesNotAlias(t *testing.T) {
	src := []byte(cubeText)
	got, err := Decode(src)
	require.NoError(t, err)
	for i := range src {
		src[i] = ' '
	}
	assert.Equal(t, "cube", got.Header.Name)
}
