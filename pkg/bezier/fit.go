package bezier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"sigtrace/pkg/geometry"
)

// Fitter approximates a polyline with a chain of cubic segments, none of
// which strays more than maxError from the points it covers.
type Fitter interface {
	Fit(points []geometry.Point, maxError float64) (Path, error)
}

// FitterFunc adapts a plain function to the Fitter interface.
type FitterFunc func(points []geometry.Point, maxError float64) (Path, error)

func (f FitterFunc) Fit(points []geometry.Point, maxError float64) (Path, error) {
	return f(points, maxError)
}

// CurveFitError reports a polyline that could not be fitted.
type CurveFitError struct {
	Points int
	Reason string
}

func (e *CurveFitError) Error() string {
	return fmt.Sprintf("curve fit of %d points failed: %s", e.Points, e.Reason)
}

// DefaultMaxIterations is the number of reparameterization rounds tried
// before a segment is split.
const DefaultMaxIterations = 20

// Schneider fits curves with the least-squares method from Philip J.
// Schneider's "An Algorithm for Automatically Fitting Digitized Curves"
// (Graphics Gems, 1990): control points are solved for given the end tangents,
// point parameters are refined with Newton-Raphson, and a segment that still
// misses is split at its worst point.
type Schneider struct {
	// MaxIterations bounds reparameterization per segment. Zero means DefaultMaxIterations.
	MaxIterations int
}

// Fit implements Fitter. Every point is within maxError of the returned path,
// measured at the parameter the fit assigned to it, the path stays within
// maxError of the polyline (to within sampleSpacing), and consecutive segments
// share their end and start points exactly. Repeated consecutive points are
// ignored.
func (s Schneider) Fit(points []geometry.Point, maxError float64) (Path, error) {
	if !(maxError > 0) || math.IsInf(maxError, 0) {
		return nil, &CurveFitError{Points: len(points), Reason: fmt.Sprintf("invalid max error %g", maxError)}
	}

	var pts []geometry.Point
	for _, p := range points {
		if !p.IsFinite() {
			return nil, &CurveFitError{Points: len(points), Reason: "non-finite point"}
		}
		if len(pts) == 0 || pts[len(pts)-1] != p {
			pts = append(pts, p)
		}
	}
	if len(pts) < 2 {
		return nil, &CurveFitError{Points: len(points), Reason: "need at least two distinct points"}
	}

	iterations := s.MaxIterations
	if iterations <= 0 {
		iterations = DefaultMaxIterations
	}
	f := fitter{maxError: maxError, iterations: iterations}

	leftTangent := pts[1].Minus(pts[0]).Normalize()
	rightTangent := pts[len(pts)-2].Minus(pts[len(pts)-1]).Normalize()
	path := f.fitCubic(pts, leftTangent, rightTangent)

	for _, seg := range path {
		if !seg.isFinite() {
			return nil, &CurveFitError{Points: len(points), Reason: "fit produced a non-finite control point"}
		}
	}
	return path, nil
}

type fitter struct {
	maxError   float64
	iterations int
}

func (f fitter) fitCubic(pts []geometry.Point, leftTangent, rightTangent geometry.Vector2) Path {
	if len(pts) == 2 {
		return Path{f.fitEdge(pts[0], pts[1], leftTangent, rightTangent)}
	}

	u := chordLengthParameterize(pts)
	seg := generateBezier(pts, u, leftTangent, rightTangent)
	maxErr, split := f.maxDeviation(pts, seg, u)
	if maxErr <= f.maxError {
		return Path{seg}
	}

	// Close misses are worth refining before splitting.
	if maxErr <= 4*f.maxError {
		for i := 0; i < f.iterations; i++ {
			u = reparameterize(seg, pts, u)
			seg = generateBezier(pts, u, leftTangent, rightTangent)
			maxErr, split = f.maxDeviation(pts, seg, u)
			if maxErr <= f.maxError {
				return Path{seg}
			}
		}
	}

	centerTangent := pts[split-1].Minus(pts[split+1])
	if centerTangent.Magnitude() == 0 {
		centerTangent = pts[split-1].Minus(pts[split]).Perpendicular()
	}
	centerTangent = centerTangent.Normalize()

	left := f.fitCubic(pts[:split+1], leftTangent, centerTangent)
	right := f.fitCubic(pts[split:], centerTangent.Scale(-1), rightTangent)
	return append(left, right...)
}

// fitEdge fits a single polyline edge, keeping the end tangents when the
// curve stays within maxError of the edge. The curve lies inside the hull of
// its control points, so checking the two control points bounds the bulge.
// Otherwise the control points go on the chord and the curve is the edge.
func (f fitter) fitEdge(a, b geometry.Point, leftTangent, rightTangent geometry.Vector2) Segment {
	dist := a.Distance(b) / 3
	edge := geometry.LineSegment{A: a, B: b}
	seg := Segment{
		P0: a,
		P1: a.Add(leftTangent.Scale(dist)),
		P2: b.Add(rightTangent.Scale(dist)),
		P3: b,
	}
	if edge.Distance(seg.P1) <= f.maxError && edge.Distance(seg.P2) <= f.maxError {
		return seg
	}
	chord := b.Minus(a).Scale(1.0 / 3)
	seg.P1 = a.Add(chord)
	seg.P2 = b.Minus(chord)
	return seg
}

// sampleSpacing is the largest gap, in pixels along the curve, between the
// samples maxDeviation measures.
const sampleSpacing = 0.05

// maxDeviation returns the largest distance between the curve and the
// polyline and the interior index to split at if that is too large. Each
// point is measured at its own parameter. The curve between neighboring
// parameters is sampled and measured against the polyline edges there,
// which catches loops and bulges that pass the points themselves.
func (f fitter) maxDeviation(pts []geometry.Point, seg Segment, u []float64) (float64, int) {
	last := len(pts) - 1
	maxDist := 0.0
	split := last / 2
	for i := 1; i < last; i++ {
		d := seg.Eval(u[i]).Distance(pts[i])
		if d > maxDist {
			maxDist = d
			split = i
		}
	}

	// 3 * the longest control polygon edge bounds the curve's speed.
	speed := 3 * max(seg.P0.Distance(seg.P1), seg.P1.Distance(seg.P2), seg.P2.Distance(seg.P3))
	for i := 0; i < last; i++ {
		lo, hi := min(u[i], u[i+1]), max(u[i], u[i+1])
		n := max(1, int(math.Ceil((hi-lo)*speed/sampleSpacing)))
		for k := 0; k <= n; k++ {
			p := seg.Eval(lo + (hi-lo)*float64(k)/float64(n))
			d := geometry.LineSegment{A: pts[i], B: pts[i+1]}.Distance(p)
			if i > 0 {
				d = min(d, geometry.LineSegment{A: pts[i-1], B: pts[i]}.Distance(p))
			}
			if i+1 < last {
				d = min(d, geometry.LineSegment{A: pts[i+1], B: pts[i+2]}.Distance(p))
			}
			if d > maxDist {
				maxDist = d
				split = min(max(i+1, 1), last-1)
			}
		}
	}
	return maxDist, split
}

func chordLengthParameterize(pts []geometry.Point) []float64 {
	u := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		u[i] = u[i-1] + pts[i].Distance(pts[i-1])
	}
	total := u[len(u)-1]
	for i := range u {
		u[i] /= total
	}
	return u
}

// generateBezier solves for the control point distances along the end
// tangents that minimize the squared distance to the points.
func generateBezier(pts []geometry.Point, u []float64, leftTangent, rightTangent geometry.Vector2) Segment {
	first, last := pts[0], pts[len(pts)-1]

	var c00, c01, c11, x0, x1 float64
	for i, p := range pts {
		t := u[i]
		mt := 1 - t
		b0 := mt * mt * mt
		b1 := 3 * mt * mt * t
		b2 := 3 * mt * t * t
		b3 := t * t * t

		a0 := leftTangent.Scale(b1)
		a1 := rightTangent.Scale(b2)
		c00 += a0.Dot(a0)
		c01 += a0.Dot(a1)
		c11 += a1.Dot(a1)

		tmp := p.Minus(first.Scale(b0 + b1)).Minus(last.Scale(b2 + b3))
		x0 += a0.Dot(tmp)
		x1 += a1.Dot(tmp)
	}

	segLength := first.Distance(last)
	alphaLeft, alphaRight := segLength/3, segLength/3

	c := mat.NewDense(2, 2, []float64{c00, c01, c01, c11})
	if math.Abs(mat.Det(c)) > 1e-12 {
		var alpha mat.VecDense
		if err := alpha.SolveVec(c, mat.NewVecDense(2, []float64{x0, x1})); err == nil {
			alphaLeft, alphaRight = alpha.AtVec(0), alpha.AtVec(1)
		}
	}

	// Negative or vanishing distances put a control point on top of (or
	// behind) an endpoint; use the Wu/Barsky heuristic instead.
	eps := 1e-6 * segLength
	if alphaLeft < eps || alphaRight < eps || math.IsNaN(alphaLeft) || math.IsNaN(alphaRight) {
		alphaLeft, alphaRight = segLength/3, segLength/3
	}

	return Segment{
		P0: first,
		P1: first.Add(leftTangent.Scale(alphaLeft)),
		P2: last.Add(rightTangent.Scale(alphaRight)),
		P3: last,
	}
}

// reparameterize improves each point's parameter with one Newton-Raphson step
// toward the nearest point on the curve.
func reparameterize(seg Segment, pts []geometry.Point, u []float64) []float64 {
	next := make([]float64, len(u))
	for i, p := range pts {
		t := u[i]
		d := seg.Eval(t).Minus(p)
		d1 := seg.Deriv(t)
		d2 := seg.Deriv2(t)
		numerator := d.Dot(d1)
		denominator := d1.Dot(d1) + d.Dot(d2)
		if denominator == 0 {
			next[i] = t
			continue
		}
		nt := t - numerator/denominator
		if math.IsNaN(nt) {
			nt = t
		}
		next[i] = math.Min(1, math.Max(0, nt))
	}
	return next
}
