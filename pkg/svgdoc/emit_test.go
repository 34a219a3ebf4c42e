package svgdoc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigtrace/pkg/bezier"
	"sigtrace/pkg/geometry"
	"sigtrace/pkg/svgdoc"
	"sigtrace/pkg/svgpath"
)

func curve() *svgpath.SubPath {
	return svgpath.FromSegments(bezier.Path{{
		P0: geometry.Point{X: 0, Y: 0},
		P1: geometry.Point{X: 16.333333, Y: 16.333333},
		P2: geometry.Point{X: 32.666667, Y: 32.666667},
		P3: geometry.Point{X: 49, Y: 49},
	}})
}

func TestEmitPaths(t *testing.T) {
	line := svgpath.FromPolyline(geometry.Polyline{{X: 1, Y: 2}, {X: 3, Y: 4}})
	out := svgdoc.Emit([]*svgpath.SubPath{curve(), nil, line}, 50, 40, 1.5)

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `viewBox="0 0 50 40"`)
	assert.Contains(t, out, `xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, out, `fill="none"`)
	assert.Contains(t, out, `stroke="black"`)
	assert.Contains(t, out, `stroke-width="1.5"`)
	assert.Contains(t, out, `stroke-linecap="round"`)
	assert.Contains(t, out, `stroke-linejoin="round"`)
	assert.Contains(t, out, `d="M 0 0 C 16.333 16.333 32.667 32.667 49 49"`)
	assert.Contains(t, out, `d="M 1 2 L 3 4"`)
	assert.NotContains(t, out, "<text")

	doc, err := svgdoc.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "svg", doc.XMLName.Local)
	paths := doc.Paths()
	require.Len(t, paths, 2)
	require.Len(t, paths[0], 1)
	assert.Equal(t, svgpath.CurveTo, paths[0][0].DrawTo[0].Command)
	assert.Equal(t, 49.0, paths[0][0].DrawTo[0].X)
	assert.Equal(t, svgpath.LineTo, paths[1][0].DrawTo[0].Command)
}

func TestEmitPlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		paths []*svgpath.SubPath
		text  string
	}{
		{"no paths", nil, svgdoc.NoPathsText},
		{"only empty paths", []*svgpath.SubPath{nil, {X: 1, Y: 1}}, svgdoc.NoValidPathsText},
	}
	for _, test := range tests {
		out := svgdoc.Emit(test.paths, 10, 12, 1)
		assert.True(t, strings.HasPrefix(out, "<?xml"), test.name)
		assert.Contains(t, out, `viewBox="0 0 10 12"`, test.name)
		assert.NotContains(t, out, "<path", test.name)

		doc, err := svgdoc.Parse([]byte(out))
		require.NoError(t, err, test.name)
		require.Len(t, doc.Children, 1, test.name)
		assert.Equal(t, "text", doc.Children[0].XMLName.Local, test.name)
		assert.Equal(t, test.text, doc.Children[0].Text, test.name)

		_, placeholder := svgdoc.Document(test.paths, 10, 12, 1)
		assert.True(t, placeholder, test.name)
	}
}

func TestRemarshal(t *testing.T) {
	out := svgdoc.Emit([]*svgpath.SubPath{curve()}, 50, 50, 1)
	doc, err := svgdoc.Parse([]byte(out))
	require.NoError(t, err)

	data, err := doc.Marshal()
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "xmlns="))

	again, err := svgdoc.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, doc.Paths(), again.Paths())
}
