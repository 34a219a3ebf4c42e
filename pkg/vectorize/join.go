package vectorize

import (
	"math"

	"github.com/asim/quadtree"
)

// endpoint is the data stored at each quadtree point: which line, and which end of it.
type endpoint struct {
	line  int
	start bool
}

// endpointTree indexes line endpoints for neighbor searches. Entries are
// never removed; stale ones are recognized by checking them against the
// current lines.
type endpointTree struct {
	quadTree *quadtree.QuadTree
}

func newEndpointTree(lines []Line) *endpointTree {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		for _, p := range []Pixel{line[0], line[len(line)-1]} {
			minX = math.Min(minX, float64(p.X))
			maxX = math.Max(maxX, float64(p.X))
			minY = math.Min(minY, float64(p.Y))
			maxY = math.Max(maxY, float64(p.Y))
		}
	}
	midX := (maxX + minX) / 2
	midY := (maxY + minY) / 2

	// Add a small margin to avoid dropping points at the edges
	halfWidth := maxX - midX + 10
	halfHeight := maxY - midY + 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfWidth, halfHeight, nil))
	t := &endpointTree{quadTree: quadtree.New(aabb, 0, nil)}
	for i, line := range lines {
		if len(line) == 0 {
			continue
		}
		t.add(line[0], endpoint{line: i, start: true})
		t.add(line[len(line)-1], endpoint{line: i, start: false})
	}
	return t
}

func (t *endpointTree) add(p Pixel, e endpoint) {
	t.quadTree.Insert(quadtree.NewPoint(float64(p.X), float64(p.Y), e))
}

// nearest finds the closest live endpoint within maxGap of p that does not
// belong to line self. Ties go to the lower line index, then to a line start.
func (t *endpointTree) nearest(p Pixel, self int, lines []Line, alive []bool, maxGap float64) (endpoint, bool) {
	// Endpoints sit on integer coordinates; pad the box so ones exactly maxGap
	// away along an axis are not lost to boundary rounding.
	half := maxGap + 0.5
	near := quadtree.NewAABB(
		quadtree.NewPoint(float64(p.X), float64(p.Y), nil),
		quadtree.NewPoint(half, half, nil))

	var best endpoint
	bestDist := math.Inf(1)
	found := false
	for _, point := range t.quadTree.Search(near) {
		e := point.Data().(endpoint)
		if e.line == self || !alive[e.line] {
			continue
		}
		x, y := point.Coordinates()
		line := lines[e.line]
		current := line[len(line)-1]
		if e.start {
			current = line[0]
		}
		if float64(current.X) != x || float64(current.Y) != y {
			// stale entry
			continue
		}
		d := math.Hypot(x-float64(p.X), y-float64(p.Y))
		if d > maxGap {
			continue
		}
		if !found || d < bestDist ||
			(d == bestDist && (e.line < best.line || (e.line == best.line && e.start && !best.start))) {
			best = e
			bestDist = d
			found = true
		}
	}
	return best, found
}

// JoinLines merges lines whose endpoints are within maxGap pixels of each
// other, reversing lines where needed so every result is still a single
// ordered walk. Thinning tends to break a stroke wherever it crosses another,
// and joining lets the curve fitter see the stroke as a whole.
// A maxGap of zero or less returns lines unchanged. lines is not modified.
func JoinLines(lines []Line, maxGap float64) []Line {
	if maxGap <= 0 || len(lines) < 2 {
		return lines
	}

	work := make([]Line, len(lines))
	alive := make([]bool, len(lines))
	for i, line := range lines {
		work[i] = append(Line(nil), line...)
		alive[i] = len(line) > 0
	}
	tree := newEndpointTree(work)

	for i := range work {
		if !alive[i] {
			continue
		}
		for {
			if e, ok := tree.nearest(work[i][len(work[i])-1], i, work, alive, maxGap); ok {
				other := work[e.line]
				if !e.start {
					other = other.reversed()
				}
				work[i] = work[i].concat(other)
				alive[e.line] = false
				tree.add(work[i][len(work[i])-1], endpoint{line: i, start: false})
				continue
			}
			if e, ok := tree.nearest(work[i][0], i, work, alive, maxGap); ok {
				other := work[e.line]
				if e.start {
					other = other.reversed()
				}
				work[i] = other.concat(work[i])
				alive[e.line] = false
				tree.add(work[i][0], endpoint{line: i, start: true})
				continue
			}
			break
		}
	}

	var joined []Line
	for i, line := range work {
		if alive[i] {
			joined = append(joined, line)
		}
	}
	return joined
}

func (line Line) reversed() Line {
	r := make(Line, len(line))
	for i, p := range line {
		r[len(line)-1-i] = p
	}
	return r
}

// concat returns line followed by other, dropping other's first pixel if it
// repeats line's last.
func (line Line) concat(other Line) Line {
	if len(line) > 0 && len(other) > 0 && line[len(line)-1] == other[0] {
		other = other[1:]
	}
	out := make(Line, 0, len(line)+len(other))
	out = append(out, line...)
	return append(out, other...)
}
