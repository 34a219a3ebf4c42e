package svgdoc

import (
	"encoding/xml"
	"fmt"

	"sigtrace/pkg/svgpath"
)

// Placeholder messages for documents with nothing to draw.
const (
	NoPathsText      = "No paths found"
	NoValidPathsText = "No valid paths after curve fitting"
)

// Document builds the SVG tree for the given paths on a width by height
// canvas. Empty paths are dropped. It reports whether a placeholder text
// node was used instead of paths.
func Document(paths []*svgpath.SubPath, width, height int, strokeWidth float64) (*Node, bool) {
	root := &Node{
		XMLName:     xml.Name{Local: "svg"},
		Xmlns:       Namespace,
		ViewBox:     fmt.Sprintf("0 0 %d %d", width, height),
		Fill:        "none",
		Stroke:      "black",
		StrokeWidth: FormatNumber(strokeWidth),
	}

	placeholder := func(text string) (*Node, bool) {
		root.Children = []*Node{{
			XMLName:    xml.Name{Local: "text"},
			X:          "10",
			Y:          "20",
			FontFamily: "Arial",
			FontSize:   "12",
			Text:       text,
		}}
		return root, true
	}

	if len(paths) == 0 {
		return placeholder(NoPathsText)
	}
	for _, path := range paths {
		if path.Empty() {
			continue
		}
		root.Children = append(root.Children, &Node{
			XMLName: xml.Name{Local: "path"},
			Path:    []*svgpath.SubPath{path},
		})
	}
	if len(root.Children) == 0 {
		return placeholder(NoValidPathsText)
	}

	root.StrokeLinecap = "round"
	root.StrokeLinejoin = "round"
	return root, false
}

// Emit renders paths as a complete SVG document. It always returns a
// well-formed document: with no drawable paths it holds a placeholder text
// node instead.
func Emit(paths []*svgpath.SubPath, width, height int, strokeWidth float64) string {
	doc, _ := Document(paths, width, height, strokeWidth)
	data, err := doc.Marshal()
	if err != nil {
		// Only strings and numbers are marshaled; this cannot happen.
		panic(fmt.Sprintf("svgdoc: marshal failed: %v", err))
	}
	return string(data)
}
