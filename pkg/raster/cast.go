package raster

// line enumerates the Bresenham pixels from a to b inclusive, calling
// visit for each. Returning false from visit stops the walk.
func line(a, b Pixel, visit func(Pixel) bool) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	p := a
	for {
		if !visit(p) {
			return
		}
		if p == b {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			p.X += sx
		}
		if e2 <= dx {
			err += dx
			p.Y += sy
		}
	}
}

// castMask walks from a towards b and returns the first pixel where the
// mask value changes from its value at a: the first silhouette boundary
// crossing along the probe.
func castMask(m *Mask, a, b Pixel) (Pixel, bool) {
	start := m.At(a.X, a.Y)
	var hit Pixel
	found := false
	line(a, b, func(p Pixel) bool {
		if m.At(p.X, p.Y) != start {
			hit, found = p, true
			return false
		}
		return true
	})
	return hit, found
}

// castGradient walks from a to b and returns the pixel with the largest
// gradient magnitude, provided it strictly exceeds the magnitude at the
// probe origin. A probe that finds nothing stronger than where it
// started reports no hit.
func castGradient(g *GradientMap, a, b Pixel) (Pixel, bool) {
	base := g.At(a.X, a.Y)
	best, bestMag := a, base
	line(a, b, func(p Pixel) bool {
		if m := g.At(p.X, p.Y); m > bestMag {
			best, bestMag = p, m
		}
		return true
	})
	return best, bestMag > base
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
