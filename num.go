package symcore

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// ============================================================
// Num: exact rationals, inexact reals and the special values
// ============================================================

type numKind uint8

const (
	numRational numKind = iota
	numReal
	numPosInf
	numNegInf
	numNaN
)

// realPrec is the mantissa precision of inexact reals.
const realPrec = 64

// Num is a number node. Rationals are exact; reals are inexact binary
// floats; Infinity, NegativeInfinity and NaN are values, never errors.
type Num struct {
	kind numKind
	rat  *big.Rat
	flt  *big.Float
	h    uint64
}

func newRat(r *big.Rat) *Num {
	return &Num{kind: numRational, rat: r, h: hashLeaf(KindNum, "q", r.RatString())}
}

func newReal(f *big.Float) *Num {
	if f.IsInf() {
		if f.Sign() > 0 {
			return Infinity
		}
		return NegativeInfinity
	}
	return &Num{kind: numReal, flt: f, h: hashLeaf(KindNum, "r", f.Text('g', -1))}
}

func newSpecial(k numKind) *Num {
	return &Num{kind: k, h: hashLeaf(KindNum, "s", fmt.Sprint(uint8(k)))}
}

func N(n int64) *Num { return newRat(new(big.Rat).SetInt64(n)) }

func F(p, q int64) *Num {
	if q == 0 {
		panic("symcore: denominator is zero")
	}
	return newRat(big.NewRat(p, q))
}

// NRat copies r into a rational number node.
func NRat(r *big.Rat) *Num { return newRat(new(big.Rat).Set(r)) }

// NFloat builds an inexact real. NaN and the IEEE infinities map to the
// corresponding special values.
func NFloat(f float64) *Num {
	switch {
	case math.IsNaN(f):
		return NaN
	case math.IsInf(f, 1):
		return Infinity
	case math.IsInf(f, -1):
		return NegativeInfinity
	}
	return newReal(new(big.Float).SetPrec(realPrec).SetFloat64(f))
}

// Constants registry. These values are shared and must never be modified.
var (
	Zero             = N(0)
	One              = N(1)
	NegativeOne      = N(-1)
	Half             = F(1, 2)
	Infinity         = newSpecial(numPosInf)
	NegativeInfinity = newSpecial(numNegInf)
	NaN              = newSpecial(numNaN)
)

func (n *Num) Kind() Kind            { return KindNum }
func (n *Num) Args() []Expr          { return nil }
func (n *Num) Hash() uint64          { return n.h }
func (n *Num) Equal(other Expr) bool { return equalExpr(n, other) }

func (n *Num) IsRational() bool { return n.kind == numRational }
func (n *Num) IsReal() bool     { return n.kind == numReal }
func (n *Num) IsNaN() bool      { return n.kind == numNaN }
func (n *Num) IsInfinite() bool { return n.kind == numPosInf || n.kind == numNegInf }
func (n *Num) IsFinite() bool   { return n.kind == numRational || n.kind == numReal }
func (n *Num) IsInteger() bool  { return n.kind == numRational && n.rat.IsInt() }

// IsZero reports an exact or inexact zero.
func (n *Num) IsZero() bool { return n.IsFinite() && n.Sign() == 0 }

// IsOne reports the exact rational one only; the inexact 1.0 is not One.
func (n *Num) IsOne() bool    { return n.kind == numRational && n.rat.Cmp(One.rat) == 0 }
func (n *Num) IsNegOne() bool { return n.kind == numRational && n.rat.Cmp(NegativeOne.rat) == 0 }

// Sign returns -1, 0 or +1. NaN has sign 0.
func (n *Num) Sign() int {
	switch n.kind {
	case numRational:
		return n.rat.Sign()
	case numReal:
		return n.flt.Sign()
	case numPosInf:
		return 1
	case numNegInf:
		return -1
	}
	return 0
}

func (n *Num) IsPositive() bool { return n.Sign() > 0 }
func (n *Num) IsNegative() bool { return n.Sign() < 0 }

// Rat returns a copy of the exact value, or nil for non-rationals.
func (n *Num) Rat() *big.Rat {
	if n.kind != numRational {
		return nil
	}
	return new(big.Rat).Set(n.rat)
}

func (n *Num) Float64() float64 {
	switch n.kind {
	case numRational:
		f, _ := n.rat.Float64()
		return f
	case numReal:
		f, _ := n.flt.Float64()
		return f
	case numPosInf:
		return math.Inf(1)
	case numNegInf:
		return math.Inf(-1)
	}
	return math.NaN()
}

func (n *Num) bigFloat() *big.Float {
	if n.kind == numReal {
		return n.flt
	}
	return new(big.Float).SetPrec(realPrec).SetRat(n.rat)
}

func (n *Num) String() string {
	switch n.kind {
	case numRational:
		if n.rat.IsInt() {
			return n.rat.Num().String()
		}
		return n.rat.RatString()
	case numReal:
		s := n.flt.Text('g', 15)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	case numPosInf:
		return "oo"
	case numNegInf:
		return "-oo"
	}
	return "nan"
}

func (n *Num) LaTeX() string {
	switch n.kind {
	case numRational:
		if n.rat.IsInt() {
			return n.rat.Num().String()
		}
		sign := ""
		v := new(big.Rat).Set(n.rat)
		if v.Sign() < 0 {
			sign = "-"
			v.Neg(v)
		}
		return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
	case numPosInf:
		return `\infty`
	case numNegInf:
		return `-\infty`
	case numNaN:
		return `\mathrm{NaN}`
	}
	return n.String()
}

func (n *Num) precedence() int {
	if n.Sign() < 0 {
		return precAdd
	}
	if n.kind == numRational && !n.rat.IsInt() {
		return precMul
	}
	return precAtom
}

func (n *Num) render(level int) string { return parenthesize(n.String(), n.precedence(), level) }

func (n *Num) toJSON() map[string]interface{} {
	m := map[string]interface{}{"type": "num", "value": n.String()}
	if n.kind == numReal {
		m["value"] = n.flt.Text('g', -1)
		m["real"] = true
	}
	return m
}

// ============================================================
// Numeric arithmetic
// ============================================================

func numAdd(a, b *Num) *Num {
	switch {
	case a.IsNaN() || b.IsNaN():
		return NaN
	case a.IsInfinite() && b.IsInfinite():
		if a.kind != b.kind {
			return NaN
		}
		return a
	case a.IsInfinite():
		return a
	case b.IsInfinite():
		return b
	case a.kind == numReal || b.kind == numReal:
		return newReal(new(big.Float).SetPrec(realPrec).Add(a.bigFloat(), b.bigFloat()))
	}
	return newRat(new(big.Rat).Add(a.rat, b.rat))
}

func numMul(a, b *Num) *Num {
	switch {
	case a.IsNaN() || b.IsNaN():
		return NaN
	case a.IsInfinite() || b.IsInfinite():
		s := a.Sign() * b.Sign()
		switch {
		case s > 0:
			return Infinity
		case s < 0:
			return NegativeInfinity
		}
		return NaN
	case a.kind == numReal || b.kind == numReal:
		return newReal(new(big.Float).SetPrec(realPrec).Mul(a.bigFloat(), b.bigFloat()))
	}
	return newRat(new(big.Rat).Mul(a.rat, b.rat))
}

func numNeg(a *Num) *Num {
	switch a.kind {
	case numRational:
		return newRat(new(big.Rat).Neg(a.rat))
	case numReal:
		return newReal(new(big.Float).SetPrec(realPrec).Neg(a.flt))
	case numPosInf:
		return NegativeInfinity
	case numNegInf:
		return Infinity
	}
	return NaN
}

// numInv maps 0 to Infinity and the infinities to 0.
func numInv(a *Num) *Num {
	switch {
	case a.IsNaN():
		return NaN
	case a.IsInfinite():
		return Zero
	case a.IsZero():
		return Infinity
	case a.kind == numReal:
		return newReal(new(big.Float).SetPrec(realPrec).Quo(big.NewFloat(1), a.flt))
	}
	return newRat(new(big.Rat).Inv(a.rat))
}

func numSub(a, b *Num) *Num { return numAdd(a, numNeg(b)) }
func numDiv(a, b *Num) *Num { return numMul(a, numInv(b)) }

func numAbs(a *Num) *Num {
	if a.Sign() < 0 {
		return numNeg(a)
	}
	return a
}

// numCmp is the total order on numbers: NaN, -oo, finite values, +oo. An
// exact rational sorts before an inexact real of the same value.
func numCmp(a, b *Num) int {
	rank := func(n *Num) int {
		switch n.kind {
		case numNaN:
			return 0
		case numNegInf:
			return 1
		case numPosInf:
			return 3
		}
		return 2
	}
	if ra, rb := rank(a), rank(b); ra != rb {
		return cmpInt(ra, rb)
	}
	if !a.IsFinite() {
		return 0
	}
	if a.kind == numRational && b.kind == numRational {
		return a.rat.Cmp(b.rat)
	}
	if c := a.bigFloat().Cmp(b.bigFloat()); c != 0 {
		return c
	}
	return cmpInt(int(a.kind), int(b.kind))
}

// maxExactExponent bounds exact integer powers; larger ones stay symbolic.
const maxExactExponent = 1 << 16

func numPowInt(b *Num, n *big.Int) (*Num, bool) {
	if n.Sign() == 0 {
		return One, true
	}
	switch b.kind {
	case numNaN:
		return NaN, true
	case numPosInf:
		if n.Sign() > 0 {
			return Infinity, true
		}
		return Zero, true
	case numNegInf:
		if n.Sign() < 0 {
			return Zero, true
		}
		if n.Bit(0) == 0 {
			return Infinity, true
		}
		return NegativeInfinity, true
	case numReal:
		if !n.IsInt64() {
			return nil, false
		}
		return NFloat(math.Pow(b.Float64(), float64(n.Int64()))), true
	}
	if b.IsZero() {
		if n.Sign() < 0 {
			return Infinity, true
		}
		return Zero, true
	}
	if b.IsOne() {
		return One, true
	}
	if b.IsNegOne() {
		if n.Bit(0) == 0 {
			return One, true
		}
		return NegativeOne, true
	}
	abs := new(big.Int).Abs(n)
	if abs.Cmp(big.NewInt(maxExactExponent)) > 0 {
		return nil, false
	}
	num := new(big.Int).Exp(b.rat.Num(), abs, nil)
	den := new(big.Int).Exp(b.rat.Denom(), abs, nil)
	r := new(big.Rat).SetFrac(num, den)
	if n.Sign() < 0 {
		r.Inv(r)
	}
	return newRat(r), true
}

// numPow evaluates b**e when the result is a number; ok is false when the
// power must stay symbolic (irrational roots, branch cuts).
func numPow(b, e *Num) (*Num, bool) {
	switch {
	case e.IsZero() && e.kind == numRational:
		return One, true
	case b.IsNaN() || e.IsNaN():
		return NaN, true
	case e.IsInteger():
		return numPowInt(b, e.rat.Num())
	case e.IsInfinite():
		if !b.IsFinite() || b.Sign() <= 0 {
			return nil, false
		}
		c := numCmp(b, One)
		switch {
		case c == 0:
			return NaN, true
		case (c > 0) == (e.kind == numPosInf):
			return Infinity, true
		}
		return Zero, true
	case b.IsInfinite():
		if e.Sign() < 0 {
			return Zero, true
		}
		if b.kind == numPosInf {
			return Infinity, true
		}
		return nil, false
	case b.kind == numReal || e.kind == numReal:
		if b.Sign() < 0 {
			return nil, false
		}
		return NFloat(math.Pow(b.Float64(), e.Float64())), true
	}
	if b.IsZero() {
		if e.Sign() < 0 {
			return Infinity, true
		}
		return Zero, true
	}
	if b.IsOne() {
		return One, true
	}
	if b.Sign() < 0 {
		return nil, false
	}
	q := e.rat.Denom()
	if !q.IsInt64() || q.Int64() > 64 {
		return nil, false
	}
	rn, ok := intRoot(b.rat.Num(), q.Int64())
	if !ok {
		return nil, false
	}
	rd, ok := intRoot(b.rat.Denom(), q.Int64())
	if !ok {
		return nil, false
	}
	return numPowInt(newRat(new(big.Rat).SetFrac(rn, rd)), e.rat.Num())
}

// intRoot returns the exact non-negative n-th root of x when one exists.
func intRoot(x *big.Int, n int64) (*big.Int, bool) {
	if x.Sign() < 0 {
		return nil, false
	}
	if n == 1 {
		return new(big.Int).Set(x), true
	}
	var guess *big.Int
	if n == 2 {
		guess = new(big.Int).Sqrt(x)
	} else {
		f, _ := new(big.Float).SetInt(x).Float64()
		r := math.Round(math.Pow(f, 1/float64(n)))
		if math.IsInf(r, 0) || math.IsNaN(r) {
			return nil, false
		}
		guess, _ = big.NewFloat(r).Int(nil)
	}
	exp := big.NewInt(n)
	for _, d := range []int64{0, -1, 1} {
		c := new(big.Int).Add(guess, big.NewInt(d))
		if c.Sign() < 0 {
			continue
		}
		if new(big.Int).Exp(c, exp, nil).Cmp(x) == 0 {
			return c, true
		}
	}
	return nil, false
}

func factorial(k int64) *Num {
	r := new(big.Int).MulRange(1, k)
	if k <= 0 {
		r.SetInt64(1)
	}
	return newRat(new(big.Rat).SetInt(r))
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
