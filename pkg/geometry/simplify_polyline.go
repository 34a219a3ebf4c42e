package geometry

import (
	"math"
)

type Point struct {
	X float64
	Y float64
}

type Vector2 = Point

type LineSegment struct {
	A Point
	B Point
}

type Polyline []Point

func (a Vector2) Minus(b Vector2) Vector2 {
	return Vector2{
		X: a.X - b.X,
		Y: a.Y - b.Y,
	}
}

func (a Vector2) Add(b Vector2) Vector2 {
	return Vector2{
		X: a.X + b.X,
		Y: a.Y + b.Y,
	}
}

func (v Vector2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

func (a Vector2) CrossProductZ(b Vector2) float64 {
	return a.X*b.Y - a.Y*b.X
}

func (a Vector2) Dot(b Vector2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vector2) Normalize() Vector2 {
	m := v.Magnitude()
	if m == 0 {
		return v
	}
	return v.Scale(1 / m)
}

// Perpendicular returns v rotated by 90 degrees.
func (v Vector2) Perpendicular() Vector2 {
	return Vector2{X: -v.Y, Y: v.X}
}

// Distance returns the distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Scale returns the point scaled by the given factor f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// IsFinite reports whether neither coordinate is NaN or infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func (s LineSegment) Length() float64 {
	return s.A.Distance(s.B)
}

// Distance returns the distance between a point and a line segment.
func (s LineSegment) Distance(p Point) float64 {
	AP := p.Minus(s.A)
	AB := s.B.Minus(s.A)
	lengthSquared := AB.Dot(AB)
	if lengthSquared == 0 {
		return AP.Magnitude()
	}

	t := AP.Dot(AB) / lengthSquared
	if t <= 0 {
		return AP.Magnitude()
	}
	if t >= 1 {
		return p.Distance(s.B)
	}
	return math.Abs(AP.CrossProductZ(AB)) / math.Sqrt(lengthSquared)
}

// LineDistance returns the perpendicular distance between a point and the
// infinite line through the segment. A degenerate segment measures the
// distance to its single point.
func (s LineSegment) LineDistance(p Point) float64 {
	AB := s.B.Minus(s.A)
	mAB := AB.Magnitude()
	if mAB == 0 {
		return p.Distance(s.A)
	}
	return math.Abs(p.Minus(s.A).CrossProductZ(AB)) / mAB
}

// Length returns the sum of the segment lengths.
func (line Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(line); i++ {
		total += line[i-1].Distance(line[i])
	}
	return total
}

// Distance returns the distance from p to the nearest point on the polyline.
func (line Polyline) Distance(p Point) float64 {
	switch len(line) {
	case 0:
		return math.NaN()
	case 1:
		return p.Distance(line[0])
	}
	d := math.Inf(1)
	for i := 1; i < len(line); i++ {
		d = math.Min(d, LineSegment{A: line[i-1], B: line[i]}.Distance(p))
	}
	return d
}

// Simplify simplifies the polyline using the Ramer-Douglas-Peucker algorithm.
// Interior points closer than epsilon to the chord between the first and last
// points are dropped; otherwise the polyline is split at the farthest point and
// both halves are simplified. The first and last points are always kept.
func (points Polyline) Simplify(epsilon float64) Polyline {
	if len(points) < 2 {
		return append(Polyline(nil), points...)
	}

	// find the point with the max distance from the line through the first and last points
	firstPoint, lastPoint := points[0], points[len(points)-1]
	chord := LineSegment{A: firstPoint, B: lastPoint}
	if len(points) == 2 {
		return Polyline{firstPoint, lastPoint}
	}

	dmax := 0.0
	index := 0
	for i := 1; i < len(points)-1; i++ {
		d := chord.LineDistance(points[i])
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax <= epsilon || index == 0 {
		return Polyline{firstPoint, lastPoint}
	}

	// Both halves share the split point; drop it from the first before joining.
	left := points[:index+1].Simplify(epsilon)
	right := points[index:].Simplify(epsilon)
	return append(left[:len(left)-1], right...)
}

// SimplifyAbove simplifies points only when it has more than minPoints points.
// Shorter polylines are returned as an unchanged copy.
func SimplifyAbove(points Polyline, minPoints int, epsilon float64) Polyline {
	if len(points) <= minPoints {
		return append(Polyline(nil), points...)
	}
	return points.Simplify(epsilon)
}
