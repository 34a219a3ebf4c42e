package vectorize

import "sigtrace/pkg/cfg"

// neighborOffsets are the 8-neighbors P2..P9 of a pixel, clockwise from east
// (Y grows downward). The tracer scans them in this same order, so the order
// is part of the output and must not change.
var neighborOffsets = [8]Pixel{
	{X: 1, Y: 0},   // P2 east
	{X: 1, Y: 1},   // P3 southeast
	{X: 0, Y: 1},   // P4 south
	{X: -1, Y: 1},  // P5 southwest
	{X: -1, Y: 0},  // P6 west
	{X: -1, Y: -1}, // P7 northwest
	{X: 0, Y: -1},  // P8 north
	{X: 1, Y: -1},  // P9 northeast
}

// Thin reduces the ink in b to a one pixel wide skeleton using Zhang-Suen
// thinning and returns it with the number of passes run. b is not modified.
//
// Each pass is two sub-iterations whose removals are applied all at once.
// Thinning stops after the first pass that removes nothing, or after maxPasses
// passes (cfg.ThinningIterationCap when maxPasses <= 0); hitting the cap is not
// an error. Border pixels are never removed.
func Thin(b *Bitmap, maxPasses int) (*Bitmap, int) {
	if maxPasses <= 0 {
		maxPasses = cfg.ThinningIterationCap
	}

	skeleton := b.Clone()
	for i, v := range skeleton.Data {
		if v != 0 {
			skeleton.Data[i] = 1
		}
	}

	// Neighbor offsets into the flat data slice, valid for interior pixels only.
	var offsets [8]int
	for k, n := range neighborOffsets {
		offsets[k] = n.X + n.Y*skeleton.Width
	}

	var marked []int
	passes := 0
	for passes < maxPasses {
		passes++
		removed := 0
		for step := 0; step < 2; step++ {
			marked = skeleton.markRemovable(step, &offsets, marked[:0])
			for _, i := range marked {
				skeleton.Data[i] = 0
			}
			removed += len(marked)
		}
		if removed == 0 {
			break
		}
	}
	return skeleton, passes
}

// markRemovable appends the index of every interior ink pixel that the given
// sub-iteration (0 or 1) deletes.
func (b *Bitmap) markRemovable(step int, offsets *[8]int, marked []int) []int {
	var p [8]uint8
	for y := 1; y < b.Height-1; y++ {
		row := y * b.Width
		for x := 1; x < b.Width-1; x++ {
			i := row + x
			if b.Data[i] == 0 {
				continue
			}

			count := 0
			for k, off := range offsets {
				p[k] = b.Data[i+off]
				count += int(p[k])
			}
			if count < 2 || count > 6 || transitions(&p) != 1 {
				continue
			}

			// p[0], p[2], p[4], p[6] are P2, P4, P6, P8.
			if step == 0 {
				if p[0]*p[2]*p[4] != 0 || p[2]*p[4]*p[6] != 0 {
					continue
				}
			} else {
				if p[0]*p[2]*p[6] != 0 || p[0]*p[4]*p[6] != 0 {
					continue
				}
			}
			marked = append(marked, i)
		}
	}
	return marked
}

// transitions counts 0 to 1 changes walking P2, P3, ... P9 and back to P2.
func transitions(p *[8]uint8) int {
	n := 0
	for k := 0; k < 8; k++ {
		if p[k] == 0 && p[(k+1)%8] == 1 {
			n++
		}
	}
	return n
}
