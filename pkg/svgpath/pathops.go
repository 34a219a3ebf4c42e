package svgpath

import (
	"sigtrace/pkg/bezier"
	"sigtrace/pkg/geometry"
)

// FromSegments converts a fitted curve into a sub path of CurveTo commands.
// An empty curve gives nil.
func FromSegments(path bezier.Path) *SubPath {
	if len(path) == 0 {
		return nil
	}
	start := path.Start()
	sub := &SubPath{X: start.X, Y: start.Y}
	for _, seg := range path {
		sub.DrawTo = append(sub.DrawTo, &DrawTo{
			Command: CurveTo,
			X1:      seg.P1.X,
			Y1:      seg.P1.Y,
			X2:      seg.P2.X,
			Y2:      seg.P2.Y,
			X:       seg.P3.X,
			Y:       seg.P3.Y,
		})
	}
	return sub
}

// FromPolyline converts a polyline into a sub path of LineTo commands.
// An empty polyline gives nil.
func FromPolyline(line geometry.Polyline) *SubPath {
	if len(line) == 0 {
		return nil
	}
	sub := &SubPath{X: line[0].X, Y: line[0].Y}
	for _, p := range line[1:] {
		sub.DrawTo = append(sub.DrawTo, &DrawTo{Command: LineTo, X: p.X, Y: p.Y})
	}
	return sub
}

// Empty reports whether the sub path draws nothing.
func (path *SubPath) Empty() bool {
	return path == nil || len(path.DrawTo) == 0
}

func (path *SubPath) StartPoint() (float64, float64) {
	return path.X, path.Y
}

func (path *SubPath) EndPoint() (float64, float64) {
	if len(path.DrawTo) > 0 {
		last := path.DrawTo[len(path.DrawTo)-1]
		return last.X, last.Y
	}
	return path.X, path.Y
}

// Points returns the start point and every command's end point, skipping
// control points.
func (path *SubPath) Points() geometry.Polyline {
	points := geometry.Polyline{{X: path.X, Y: path.Y}}
	for _, drawTo := range path.DrawTo {
		points = append(points, geometry.Point{X: drawTo.X, Y: drawTo.Y})
	}
	return points
}

// Reverse returns the path drawn from its end back to its start.
func (path *SubPath) Reverse() *SubPath {
	reversed := &SubPath{}
	reversed.X, reversed.Y = path.EndPoint()
	for i := len(path.DrawTo) - 1; i >= 0; i-- {
		drawTo := path.DrawTo[i]
		prevX, prevY := path.X, path.Y
		if i > 0 {
			prevX, prevY = path.DrawTo[i-1].X, path.DrawTo[i-1].Y
		}
		rDrawTo := &DrawTo{Command: drawTo.Command, X: prevX, Y: prevY}
		if drawTo.Command == CurveTo {
			rDrawTo.X1, rDrawTo.Y1 = drawTo.X2, drawTo.Y2
			rDrawTo.X2, rDrawTo.Y2 = drawTo.X1, drawTo.Y1
		}
		reversed.DrawTo = append(reversed.DrawTo, rDrawTo)
	}
	return reversed
}
