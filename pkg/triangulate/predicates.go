package triangulate

import (
	"math"
	"math/big"

	polyclip "github.com/ctessum/polyclip-go"
)

const macheps = 0x1p-53

// ccwErrBound is Shewchuk's static error bound for the 2D orientation
// determinant. A float64 result whose magnitude exceeds the bound has the
// correct sign; anything closer to zero is recomputed exactly.
var ccwErrBound = (3.0 + 16.0*macheps) * macheps

// Orient returns the orientation of the triangle (a, b, c): +1 when the
// points wind counter-clockwise, -1 when clockwise, 0 when collinear.
func Orient(a, b, c polyclip.Point) int {
	detLeft := (a.X - c.X) * (b.Y - c.Y)
	detRight := (a.Y - c.Y) * (b.X - c.X)
	det := detLeft - detRight

	if detLeft == 0 || detRight == 0 || (detLeft > 0) != (detRight > 0) {
		// Opposite signs cannot cancel.
		return sign(det)
	}
	if math.Abs(det) >= ccwErrBound*math.Abs(detLeft+detRight) {
		return sign(det)
	}
	return orientExact(a, b, c)
}

// orientExact evaluates the orientation determinant in exact rational
// arithmetic. float64 values convert to big.Rat without loss.
func orientExact(a, b, c polyclip.Point) int {
	ax := new(big.Rat).SetFloat64(a.X)
	ay := new(big.Rat).SetFloat64(a.Y)
	bx := new(big.Rat).SetFloat64(b.X)
	by := new(big.Rat).SetFloat64(b.Y)
	cx := new(big.Rat).SetFloat64(c.X)
	cy := new(big.Rat).SetFloat64(c.Y)

	left := new(big.Rat).Mul(new(big.Rat).Sub(ax, cx), new(big.Rat).Sub(by, cy))
	right := new(big.Rat).Mul(new(big.Rat).Sub(ay, cy), new(big.Rat).Sub(bx, cx))
	return left.Sub(left, right).Sign()
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
