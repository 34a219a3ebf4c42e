package vectorize

import "sigtrace/pkg/geometry"

// Pixel is an integer pixel coordinate.
type Pixel struct {
	X int
	Y int
}

// Line is a sequence of pixels traced along a skeleton stroke.
type Line []Pixel

// ToPolyline converts the pixel coordinates to floating point.
func (line Line) ToPolyline() geometry.Polyline {
	polyline := make(geometry.Polyline, len(line))
	for i, p := range line {
		polyline[i] = geometry.Point{X: float64(p.X), Y: float64(p.Y)}
	}
	return polyline
}

// Trace walks the skeleton into lines. Stroke endpoints (ink pixels with at
// most one ink neighbor) are used as starting points first so open strokes
// come out whole; any ink left over after that belongs to closed loops and is
// traced from its first pixel in row-major order.
//
// A walk always steps to the first unvisited ink neighbor in neighborOffsets
// order and ends when there is none. Single-pixel results are dropped.
func Trace(skeleton *Bitmap) []Line {
	w := skeleton.Width
	degree := make([]uint8, len(skeleton.Data))
	for i, v := range skeleton.Data {
		if v == 0 {
			continue
		}
		x, y := i%w, i/w
		for _, n := range neighborOffsets {
			if skeleton.Ink(x+n.X, y+n.Y) {
				degree[i]++
			}
		}
	}

	seen := make([]bool, len(skeleton.Data))
	var lines []Line

	visit := func(x, y int) {
		var line Line
		for {
			seen[x+y*w] = true
			line = append(line, Pixel{X: x, Y: y})

			found := false
			for _, n := range neighborOffsets {
				nx, ny := x+n.X, y+n.Y
				if skeleton.Ink(nx, ny) && !seen[nx+ny*w] {
					x, y = nx, ny
					found = true
					break
				}
			}
			if !found {
				break
			}
		}
		if len(line) > 1 {
			lines = append(lines, line)
		}
	}

	for i, v := range skeleton.Data {
		if v != 0 && degree[i] <= 1 && !seen[i] {
			visit(i%w, i/w)
		}
	}
	for i, v := range skeleton.Data {
		if v != 0 && !seen[i] {
			visit(i%w, i/w)
		}
	}

	return lines
}
