// Package svgdoc writes stroke paths out as standalone SVG documents.
package svgdoc

import (
	"encoding/xml"
	"strconv"

	"sigtrace/pkg/svgpath"
)

const Namespace = "http://www.w3.org/2000/svg"

// Node is an SVG element. Only the attributes stroke output uses are
// modeled; unknown children are kept when a document is parsed.
type Node struct {
	XMLName        xml.Name
	Xmlns          string  `xml:"xmlns,attr,omitempty"`
	ViewBox        string  `xml:"viewBox,attr,omitempty"`
	Fill           string  `xml:"fill,attr,omitempty"`
	Stroke         string  `xml:"stroke,attr,omitempty"`
	StrokeWidth    string  `xml:"stroke-width,attr,omitempty"`
	StrokeLinecap  string  `xml:"stroke-linecap,attr,omitempty"`
	StrokeLinejoin string  `xml:"stroke-linejoin,attr,omitempty"`
	D              string  `xml:"d,attr,omitempty"`
	X              string  `xml:"x,attr,omitempty"`
	Y              string  `xml:"y,attr,omitempty"`
	FontFamily     string  `xml:"font-family,attr,omitempty"`
	FontSize       string  `xml:"font-size,attr,omitempty"`
	Text           string  `xml:",chardata"`
	Children       []*Node `xml:",any"`

	Path []*svgpath.SubPath `xml:"-"`
}

// Parse reads an SVG document, parsing the data of every path element.
func Parse(data []byte) (*Node, error) {
	var svg Node
	if err := xml.Unmarshal(data, &svg); err != nil {
		return nil, err
	}
	for _, child := range svg.Children {
		if child.XMLName.Local != "path" {
			continue
		}
		path, err := svgpath.Parse(child.D)
		if err != nil {
			return nil, err
		}
		child.Path = path
	}
	return &svg, nil
}

// Paths returns the parsed data of every path element, in document order.
func (n *Node) Paths() [][]*svgpath.SubPath {
	var paths [][]*svgpath.SubPath
	for _, child := range n.Children {
		if child.XMLName.Local == "path" {
			paths = append(paths, child.Path)
		}
	}
	return paths
}

// Marshal serializes the document with an XML header.
func (n *Node) Marshal() ([]byte, error) {
	if n.Xmlns != "" {
		n.XMLName.Space = ""
	}
	for _, child := range n.Children {
		// Back to a path string
		if child.Path != nil {
			child.D = svgpath.ToString(child.Path)
		}

		// SVG namespace at root is enough
		child.XMLName.Space = ""
	}

	body, err := xml.MarshalIndent(n, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
