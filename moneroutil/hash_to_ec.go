package moneroutil

import (
	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"
)

// Field constants of the Montgomery form (A = 486662) used by
// ge_fromfe_frombytes_vartime.
var (
	feZero     = new(field.Element).Zero()
	feOne      = new(field.Element).One()
	feNineteen = new(field.Element).Mult32(feOne, 19)
	feA        = new(field.Element).Mult32(feOne, 486662)
	feMA       = new(field.Element).Negate(feA)
	feMA2      = new(field.Element).Negate(new(field.Element).Square(feA))
	feSqrtM1   = mustSqrt(new(field.Element).Negate(feOne))

	// sqrt(-2 * A * (A + 2)), sqrt(2 * A * (A + 2))
	feFFFB1 = mustSqrt(new(field.Element).Negate(twoAA2()))
	feFFFB2 = mustSqrt(twoAA2())
	// sqrt(-sqrt(-1) * A * (A + 2)), sqrt(sqrt(-1) * A * (A + 2))
	feFFFB3 = mustSqrt(new(field.Element).Negate(new(field.Element).Multiply(feSqrtM1, aa2())))
	feFFFB4 = mustSqrt(new(field.Element).Multiply(feSqrtM1, aa2()))
)

func aa2() *field.Element {
	a2 := new(field.Element).Add(feA, new(field.Element).Mult32(feOne, 2))
	return new(field.Element).Multiply(feA, a2)
}

func twoAA2() *field.Element {
	v := aa2()
	return v.Add(v, v)
}

func mustSqrt(v *field.Element) *field.Element {
	r, wasSquare := new(field.Element).SqrtRatio(v, feOne)
	if wasSquare != 1 {
		panic("moneroutil: field constant is not a square")
	}
	return r
}

func isZero(v *field.Element) bool {
	return v.Equal(feZero) == 1
}

// divPowM1 returns u * v^3 * (u * v^7)^((p - 5) / 8).
func divPowM1(u, v *field.Element) *field.Element {
	v3 := new(field.Element).Square(v)
	v3.Multiply(v3, v)
	v7 := new(field.Element).Square(v3)
	v7.Multiply(v7, v)
	t := new(field.Element).Multiply(u, v7)
	t.Pow22523(t)
	r := new(field.Element).Multiply(u, v3)
	return r.Multiply(r, t)
}

// geFromFieldBytes maps 32 bytes onto the curve the same way the reference
// daemon does. All 256 bits of s are used, so the top bit adds 2^255 = 19
// (mod p) instead of being dropped.
func geFromFieldBytes(s [KeyLength]byte) *edwards25519.Point {
	top := s[31] & 0x80
	s[31] &= 0x7f
	u, _ := new(field.Element).SetBytes(s[:])
	if top != 0 {
		u.Add(u, feNineteen)
	}

	v := new(field.Element).Square(u)
	v.Add(v, v) // 2 * u^2
	w := new(field.Element).Add(v, feOne)
	x := new(field.Element).Square(w)
	y := new(field.Element).Multiply(feMA2, v)
	x.Add(x, y) // w^2 - 2 * A^2 * u^2

	rX := divPowM1(w, x)
	y.Square(rX)
	x.Multiply(y, x)

	z := new(field.Element).Set(feMA)
	sign := 0

	y.Subtract(w, x)
	switch {
	case isZero(y):
		rX.Multiply(rX, feFFFB2)
		rX.Multiply(rX, u)
		z.Multiply(z, v)
	case isZero(y.Add(w, x)):
		rX.Multiply(rX, feFFFB1)
		rX.Multiply(rX, u)
		z.Multiply(z, v)
	default:
		x.Multiply(x, feSqrtM1)
		y.Subtract(w, x)
		if isZero(y) {
			rX.Multiply(rX, feFFFB4)
		} else {
			rX.Multiply(rX, feFFFB3)
		}
		sign = 1
	}

	if rX.IsNegative() != sign {
		rX.Negate(rX)
	}

	Z := new(field.Element).Add(z, w)
	Y := new(field.Element).Subtract(z, w)
	X := new(field.Element).Multiply(rX, Z)

	zInv := new(field.Element).Invert(Z)
	ax := new(field.Element).Multiply(X, zInv)
	ay := new(field.Element).Multiply(Y, zInv)
	at := new(field.Element).Multiply(ax, ay)

	point, err := new(edwards25519.Point).SetExtendedCoordinates(ax, ay, feOne, at)
	if err != nil {
		panic("moneroutil: hash_to_ec produced an invalid point")
	}
	return point
}

// HashToEC hashes a key onto the prime order subgroup (Hp). The Keccak
// digest is mapped to the curve and then multiplied by the cofactor.
func HashToEC(key *Key) *edwards25519.Point {
	point := geFromFieldBytes(Keccak256(key[:]))
	return point.MultByCofactor(point)
}
