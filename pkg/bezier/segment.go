// Package bezier fits cubic Bézier curves to polylines.
package bezier

import (
	"sigtrace/pkg/geometry"
)

// Segment is a cubic Bézier curve from P0 to P3 with control points P1 and P2.
type Segment struct {
	P0, P1, P2, P3 geometry.Point
}

// Path is a chain of segments where each segment starts at the previous one's end.
type Path []Segment

// Eval evaluates the curve at parameter t (0 to 1).
func (s Segment) Eval(t float64) geometry.Point {
	mt := 1 - t
	b0 := mt * mt * mt
	b1 := 3 * mt * mt * t
	b2 := 3 * mt * t * t
	b3 := t * t * t
	return geometry.Point{
		X: b0*s.P0.X + b1*s.P1.X + b2*s.P2.X + b3*s.P3.X,
		Y: b0*s.P0.Y + b1*s.P1.Y + b2*s.P2.Y + b3*s.P3.Y,
	}
}

// Deriv returns the first derivative at t.
func (s Segment) Deriv(t float64) geometry.Vector2 {
	mt := 1 - t
	d0 := s.P1.Minus(s.P0).Scale(3 * mt * mt)
	d1 := s.P2.Minus(s.P1).Scale(6 * mt * t)
	d2 := s.P3.Minus(s.P2).Scale(3 * t * t)
	return d0.Add(d1).Add(d2)
}

// Deriv2 returns the second derivative at t.
func (s Segment) Deriv2(t float64) geometry.Vector2 {
	a := s.P2.Minus(s.P1.Scale(2)).Add(s.P0).Scale(6 * (1 - t))
	b := s.P3.Minus(s.P2.Scale(2)).Add(s.P1).Scale(6 * t)
	return a.Add(b)
}

// ControlLength is the length of the control polygon, an upper bound on the
// curve's arc length.
func (s Segment) ControlLength() float64 {
	return s.P0.Distance(s.P1) + s.P1.Distance(s.P2) + s.P2.Distance(s.P3)
}

func (s Segment) isFinite() bool {
	return s.P0.IsFinite() && s.P1.IsFinite() && s.P2.IsFinite() && s.P3.IsFinite()
}

// Start returns the first point of the path.
func (p Path) Start() geometry.Point {
	return p[0].P0
}

// End returns the last point of the path.
func (p Path) End() geometry.Point {
	return p[len(p)-1].P3
}

// Flatten samples the path at n evenly spaced parameters per segment,
// returning a polyline that includes both path endpoints.
func (p Path) Flatten(n int) geometry.Polyline {
	if len(p) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	line := geometry.Polyline{p.Start()}
	for _, s := range p {
		for i := 1; i <= n; i++ {
			line = append(line, s.Eval(float64(i)/float64(n)))
		}
	}
	return line
}
