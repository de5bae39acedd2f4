package avconv

import (
	"math"

	"github.com/asticode/go-astiav"
)

// D2Q approximates a floating point value as a rational number with a
// denominator no larger than maxDen, using the same continued-fraction
// method as FFmpeg's av_d2q.
func D2Q(d float64, maxDen int) astiav.Rational {
	if math.IsNaN(d) {
		return astiav.NewRational(0, 0)
	}
	if math.IsInf(d, 1) {
		return astiav.NewRational(1, 0)
	}
	if math.IsInf(d, -1) {
		return astiav.NewRational(-1, 0)
	}

	sign := int64(1)
	if d < 0 {
		sign = -1
		d = -d
	}

	var lastDen, den, lastNum, num int64 = 1, 0, 0, 1
	x := d
	for i := 0; i < 64; i++ {
		intPart := int64(x)
		newNum := intPart*num + lastNum
		newDen := intPart*den + lastDen
		lastNum, lastDen = num, den
		num, den = newNum, newDen
		if den > int64(maxDen) || den <= 0 {
			num, den = lastNum, lastDen
			break
		}
		frac := x - float64(intPart)
		if frac < 1e-9 {
			break
		}
		x = 1 / frac
	}
	if den == 0 {
		return astiav.NewRational(0, 1)
	}
	return astiav.NewRational(int(sign*num), int(den))
}

// InvertRational returns 1/r, matching FFmpeg's av_inv_q.
func InvertRational(r astiav.Rational) astiav.Rational {
	return astiav.NewRational(r.Den(), r.Num())
}
