package bezier_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigtrace/pkg/bezier"
	"sigtrace/pkg/geometry"
)

// tolerance covers the gap between a point on the curve and the densely
// sampled polyline used to measure it.
const tolerance = 0.05

func arc(radius float64, from, to float64, steps int) []geometry.Point {
	var pts []geometry.Point
	for i := 0; i <= steps; i++ {
		a := from + (to-from)*float64(i)/float64(steps)
		p := geometry.Point{
			X: math.Round(50 + radius*math.Cos(a)),
			Y: math.Round(50 + radius*math.Sin(a)),
		}
		if len(pts) == 0 || pts[len(pts)-1] != p {
			pts = append(pts, p)
		}
	}
	return pts
}

func wave() []geometry.Point {
	var pts []geometry.Point
	for x := 0; x <= 120; x++ {
		pts = append(pts, geometry.Point{X: float64(x), Y: math.Round(20 * math.Sin(float64(x)/12))})
	}
	return pts
}

func zigzag() []geometry.Point {
	return []geometry.Point{
		{X: 0, Y: 0}, {X: 10, Y: 20}, {X: 20, Y: 0}, {X: 30, Y: 20}, {X: 40, Y: 0}, {X: 50, Y: 20},
	}
}

// bracket is a stroke with two right-angle corners.
func bracket() []geometry.Point {
	return []geometry.Point{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 30}, {X: 0, Y: 30}}
}

// checkFit verifies the fitting contract: exact chaining, matching endpoints,
// every input point within maxError of the curve and every sampled curve
// point within maxError of the polyline.
func checkFit(t *testing.T, name string, pts []geometry.Point, path bezier.Path, maxError float64) {
	t.Helper()
	require.NotEmpty(t, path, name)
	assert.Equal(t, pts[0], path.Start(), "%s: start", name)
	assert.Equal(t, pts[len(pts)-1], path.End(), "%s: end", name)
	for i := 1; i < len(path); i++ {
		assert.Equal(t, path[i-1].P3, path[i].P0, "%s: segment %d does not continue segment %d", name, i, i-1)
	}

	curve := path.Flatten(400)
	for _, p := range pts {
		d := curve.Distance(p)
		assert.LessOrEqual(t, d, maxError+tolerance, "%s: point %v is %g from the curve", name, p, d)
	}

	line := geometry.Polyline(pts)
	worst := 0.0
	for _, p := range curve {
		worst = math.Max(worst, line.Distance(p))
	}
	assert.LessOrEqual(t, worst, maxError+tolerance, "%s: curve strays %g from the polyline", name, worst)
}

func TestFitContract(t *testing.T) {
	shapes := []struct {
		name string
		pts  []geometry.Point
	}{
		{"arc", arc(30, 0, math.Pi, 200)},
		{"full circle", arc(25, 0, 1.9*math.Pi, 300)},
		{"wave", wave()},
		{"zigzag", zigzag()},
		{"three points", []geometry.Point{{X: 0, Y: 0}, {X: 5, Y: 9}, {X: 10, Y: 0}}},
		{"bracket", bracket()},
		{"stairs", []geometry.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 8}, {X: 16, Y: 8}, {X: 16, Y: 16}}},
	}
	for _, shape := range shapes {
		for _, maxError := range []float64{0.25, 1, 2} {
			path, err := bezier.Schneider{}.Fit(shape.pts, maxError)
			require.NoError(t, err, shape.name)
			checkFit(t, shape.name, shape.pts, path, maxError)
		}
	}
}

func TestFitSplitsCorners(t *testing.T) {
	path, err := bezier.Schneider{}.Fit(zigzag(), 0.5)
	require.NoError(t, err)
	assert.Greater(t, len(path), 1)
}

func TestFitTwoPoints(t *testing.T) {
	pts := []geometry.Point{{X: 0, Y: 0}, {X: 49, Y: 49}}
	path, err := bezier.Schneider{}.Fit(pts, 2)
	require.NoError(t, err)
	require.Len(t, path, 1)

	seg := path[0]
	assert.Equal(t, pts[0], seg.P0)
	assert.Equal(t, pts[1], seg.P3)
	// Control points sit a third of the way in along the chord.
	assert.InDelta(t, 49.0/3, seg.P1.X, 1e-9)
	assert.InDelta(t, 49.0/3, seg.P1.Y, 1e-9)
	assert.InDelta(t, 2*49.0/3, seg.P2.X, 1e-9)
	assert.InDelta(t, 2*49.0/3, seg.P2.Y, 1e-9)
}

func TestFitIgnoresRepeatedPoints(t *testing.T) {
	pts := []geometry.Point{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 4, Y: 3}, {X: 4, Y: 3}, {X: 8, Y: 0}}
	path, err := bezier.Schneider{}.Fit(pts, 1)
	require.NoError(t, err)
	checkFit(t, "repeated", pts, path, 1)
}

func TestFitErrors(t *testing.T) {
	tests := []struct {
		name     string
		pts      []geometry.Point
		maxError float64
	}{
		{"no points", nil, 2},
		{"one point", []geometry.Point{{X: 1, Y: 1}}, 2},
		{"one repeated point", []geometry.Point{{X: 1, Y: 1}, {X: 1, Y: 1}}, 2},
		{"zero max error", []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, 0},
		{"NaN max error", []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, math.NaN()},
		{"NaN point", []geometry.Point{{X: 0, Y: 0}, {X: math.NaN(), Y: 1}}, 2},
	}
	for _, test := range tests {
		path, err := bezier.Schneider{}.Fit(test.pts, test.maxError)
		var fitErr *bezier.CurveFitError
		assert.True(t, errors.As(err, &fitErr), "%s: expected a CurveFitError, got %v", test.name, err)
		assert.Empty(t, path, test.name)
	}
}

func TestFitterFunc(t *testing.T) {
	var calls int
	var f bezier.Fitter = bezier.FitterFunc(func(points []geometry.Point, maxError float64) (bezier.Path, error) {
		calls++
		return nil, nil
	})
	_, err := f.Fit(nil, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSegmentEval(t *testing.T) {
	seg := bezier.Segment{
		P0: geometry.Point{X: 0, Y: 0},
		P1: geometry.Point{X: 0, Y: 10},
		P2: geometry.Point{X: 10, Y: 10},
		P3: geometry.Point{X: 10, Y: 0},
	}
	assert.Equal(t, seg.P0, seg.Eval(0))
	assert.Equal(t, seg.P3, seg.Eval(1))
	mid := seg.Eval(0.5)
	assert.InDelta(t, 5, mid.X, 1e-9)
	assert.InDelta(t, 7.5, mid.Y, 1e-9)

	d := seg.Deriv(0)
	assert.InDelta(t, 0, d.X, 1e-9)
	assert.InDelta(t, 30, d.Y, 1e-9)
	assert.InDelta(t, 30, seg.ControlLength(), 1e-9)

	flat := bezier.Path{seg}.Flatten(4)
	assert.Len(t, flat, 5)
	assert.Empty(t, bezier.Path{}.Flatten(4))
}
