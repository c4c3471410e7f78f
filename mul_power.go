package symcore

import "golang.org/x/exp/slices"

// evalPower raises a canonical product to e. ok is false when the power has
// to stay unevaluated.
func (m *Mul) evalPower(e Expr) (Expr, bool) {
	if n, isNum := e.(*Num); isNum {
		if IsCommutative(m) {
			if n.IsInteger() {
				// (a*b)^2 -> a^2*b^2
				return MulOf(powEach(m.args, n)...), true
			}
			coeff, rest := m.AsCoeffTerms()
			if n.IsRational() {
				switch {
				case coeff.IsNegOne():
					// branch cut: (-x)^(1/2) is not (-1)^(1/2)*x^(1/2) in general
					return nil, false
				case coeff.Sign() < 0:
					neg := MulOf(append([]Expr{NegativeOne}, rest...)...)
					return MulOf(PowOf(numNeg(coeff), n), PowOf(neg, n)), true
				}
				return MulOf(PowOf(coeff, n), MulOf(powEach(rest, n)...)), true
			}
			if !coeff.IsOne() {
				return MulOf(PowOf(coeff, n), MulOf(powEach(rest, n)...)), true
			}
		} else if n.IsInteger() {
			coeff, rest := m.AsCoeffTerms()
			l := powEach(rest, n)
			if n.Sign() < 0 {
				slices.Reverse(l)
			}
			return MulOf(PowOf(coeff, n), MulOf(l...)), true
		}
	}
	c, t := m.AsCoeffTerms()
	if IsEven(e) == True && c.Sign() < 0 {
		return PowOf(MulOf(numNeg(c), MulOf(t...)), e), true
	}
	return nil, false
}

func powEach(fs []Expr, e Expr) []Expr {
	out := make([]Expr, len(fs))
	for i, f := range fs {
		out[i] = PowOf(f, e)
	}
	return out
}
