package main

import "math"

// statSums holds the six running sums behind the two-variable statistics
// operators.  Only the sums persist; everything else is derived.
type statSums struct {
	N  float64 `yaml:"n"`
	X  float64 `yaml:"sx"`
	Y  float64 `yaml:"sy"`
	X2 float64 `yaml:"sx2"`
	Y2 float64 `yaml:"sy2"`
	XY float64 `yaml:"sxy"`
}

// statistics accumulates (x, y) pairs and keeps the derived quantities of a
// least-squares fit current.  With fewer than two pairs, or with degenerate
// sums (zero variance in either variable), every derived quantity is defined
// as zero rather than dividing by zero.
type statistics struct {
	sums statSums

	meanX, meanY float64
	corr         float64 // Pearson r
	slope        float64 // a in y = a*x + b
	intercept    float64 // b
}

func (s *statistics) add(x, y float64) { s.addN(x, y, 1) }

// addN accumulates the same pair n times; n may be negative to back a pair
// out, which is how undo works.
func (s *statistics) addN(x, y float64, n int) {
	w := float64(n)
	s.sums.N += w
	s.sums.X += w * x
	s.sums.Y += w * y
	s.sums.X2 += w * x * x
	s.sums.Y2 += w * y * y
	s.sums.XY += w * x * y
	s.recalc()
}

func (s *statistics) undo(x, y float64) { s.addN(x, y, -1) }

func (s *statistics) clear() {
	*s = statistics{}
}

func (s *statistics) restore(sums statSums) {
	s.sums = sums
	s.recalc()
}

func (s *statistics) degenerate() bool {
	n, sx, sy, sx2, sy2 := s.sums.N, s.sums.X, s.sums.Y, s.sums.X2, s.sums.Y2
	return n <= 1 || n*sx2 == sx*sx || n*sy2 == sy*sy
}

func (s *statistics) recalc() {
	if s.degenerate() {
		s.meanX, s.meanY, s.corr, s.slope, s.intercept = 0, 0, 0, 0, 0
		return
	}
	n, sx, sy, sx2, sy2, sxy := s.sums.N, s.sums.X, s.sums.Y, s.sums.X2, s.sums.Y2, s.sums.XY
	s.meanX = sx / n
	s.meanY = sy / n
	s.corr = (n*sxy - sx*sy) / math.Sqrt((n*sx2-sx*sx)*(n*sy2-sy*sy))
	s.slope = (n*sxy - sx*sy) / (n*sx2 - sx*sx)
	s.intercept = sy/n - s.slope*sx/n
}

// estimate maps x through the fitted line without touching the sums.
func (s *statistics) estimate(x float64) float64 {
	return s.slope*x + s.intercept
}

// value resolves the names the stat operator accepts for pushing a raw or
// derived quantity onto the stack.
func (s *statistics) value(name string) (float64, bool) {
	v, ok := s.values()[name]
	return v, ok
}

// values names every raw and derived quantity; the same names are used by
// stat store when copying into the register store.
func (s *statistics) values() map[string]float64 {
	return map[string]float64{
		"n":   s.sums.N,
		"Ex":  s.sums.X,
		"Ey":  s.sums.Y,
		"Ex2": s.sums.X2,
		"Ey2": s.sums.Y2,
		"Exy": s.sums.XY,
		"x":   s.meanX,
		"y":   s.meanY,
		"r":   s.corr,
		"a":   s.slope,
		"b":   s.intercept,
	}
}
