package symcore

import (
	"math"

	"go.uber.org/zap"
)

// ============================================================
// Differentiation
// ============================================================

// Diff differentiates e with respect to x.
func Diff(e Expr, x *Sym) Expr {
	if !Has(e, x) {
		return Zero
	}
	switch v := e.(type) {
	case *Sym:
		return One
	case *Add:
		terms := make([]Expr, len(v.args))
		for i, t := range v.args {
			terms[i] = Diff(t, x)
		}
		return AddOf(terms...)
	case *Mul:
		return v.diff(x)
	case *Pow:
		if !Has(v.exp, x) {
			return MulOf(v.exp, PowOf(v.base, AddOf(v.exp, NegativeOne)), Diff(v.base, x))
		}
		// d(b^e) = b^e * (e' ln b + e b'/b)
		return MulOf(v, AddOf(
			MulOf(Diff(v.exp, x), LnOf(v.base)),
			MulOf(v.exp, Diff(v.base, x), PowOf(v.base, NegativeOne)),
		))
	case *Func:
		var terms []Expr
		for i, a := range v.args {
			da := Diff(a, x)
			if isZeroNum(da) {
				continue
			}
			fd, err := v.FDiff(i + 1)
			if err != nil {
				panic(err)
			}
			terms = append(terms, MulOf(fd, da))
		}
		return AddOf(terms...)
	case *Lambda:
		for _, b := range v.vars {
			if equalExpr(b, x) {
				return Zero
			}
		}
		return LambdaOf(v.vars, Diff(v.body, x))
	case *Order:
		return OrderOf(Diff(v.expr, x), v.syms...)
	case *Interval:
		return IntervalOf(Diff(v.start, x), Diff(v.end, x))
	}
	return Zero
}

// diff is the product rule: one term per factor whose derivative is not
// zero, in factor order.
func (m *Mul) diff(x *Sym) Expr {
	var terms []Expr
	for i, f := range m.args {
		d := Diff(f, x)
		if isZeroNum(d) {
			continue
		}
		factors := m.Args()
		factors[i] = d
		terms = append(terms, MulOf(factors...))
	}
	return AddOf(terms...)
}

func DiffN(e Expr, x *Sym, n int) Expr {
	for i := 0; i < n; i++ {
		e = Diff(e, x)
	}
	return e
}

// ============================================================
// Integration
// ============================================================

// maxPartsDepth bounds nested integration by parts.
const maxPartsDepth = 8

// Integrate returns an antiderivative of e with respect to x. ok is false
// when no rule applies.
func Integrate(e Expr, x *Sym) (Expr, bool) {
	return integrate(e, x, 0)
}

func integrate(e Expr, x *Sym, depth int) (Expr, bool) {
	if depth > maxPartsDepth {
		log().Debug("integration by parts gave up", zap.Stringer("integrand", e), zap.Int("depth", depth))
		return nil, false
	}
	if !Has(e, x) {
		return MulOf(e, x), true
	}
	switch v := e.(type) {
	case *Sym:
		return MulOf(Half, PowOf(x, N(2))), true
	case *Add:
		terms := make([]Expr, len(v.args))
		for i, t := range v.args {
			r, ok := integrate(t, x, depth)
			if !ok {
				return nil, false
			}
			terms[i] = r
		}
		return AddOf(terms...), true
	case *Mul:
		return v.integrate(x, depth)
	case *Pow:
		return integratePow(v, x)
	case *Func:
		return integrateFunc(v, x)
	}
	return nil, false
}

func integratePow(p *Pow, x *Sym) (Expr, bool) {
	if c, ok := linearCoeff(p.base, x); ok {
		if n, ok := p.exp.(*Num); ok && n.IsFinite() {
			if n.IsNegOne() {
				return MulOf(numInv(c), LnOf(p.base)), true
			}
			up := numAdd(n, One)
			return MulOf(numInv(numMul(c, up)), PowOf(p.base, up)), true
		}
	}
	if !Has(p.base, x) {
		if c, ok := linearCoeff(p.exp, x); ok {
			return MulOf(p, PowOf(MulOf(c, LnOf(p.base)), NegativeOne)), true
		}
	}
	return nil, false
}

func integrateFunc(f *Func, x *Sym) (Expr, bool) {
	if len(f.args) != 1 {
		return nil, false
	}
	arg := f.args[0]
	c, ok := linearCoeff(arg, x)
	if !ok {
		return nil, false
	}
	inv := numInv(c)
	switch f.name {
	case "sin":
		return MulOf(NegativeOne, inv, CosOf(arg)), true
	case "cos":
		return MulOf(inv, SinOf(arg)), true
	case "exp":
		return MulOf(inv, f), true
	case "ln":
		return MulOf(inv, SubOf(MulOf(arg, f), arg)), true
	case "erf":
		// x erf(x) + exp(-x^2)/sqrt(pi)
		return MulOf(inv, AddOf(
			MulOf(arg, f),
			MulOf(ExpOf(NegOf(PowOf(arg, N(2)))), PowOf(Pi, F(-1, 2))),
		)), true
	}
	return nil, false
}

// linearCoeff matches c*x with a nonzero rational c.
func linearCoeff(e Expr, x *Sym) (*Num, bool) {
	if equalExpr(e, x) {
		return One, true
	}
	m, ok := e.(*Mul)
	if !ok {
		return nil, false
	}
	c, terms := m.AsCoeffTerms()
	if len(terms) == 1 && equalExpr(terms[0], x) && c.IsRational() {
		return c, true
	}
	return nil, false
}

// integrate pulls out the factors free of x, then integrates by parts with
// the first factor as the one integrated.
func (m *Mul) integrate(x *Sym, depth int) (Expr, bool) {
	coeff, terms := m.AsCoeffTermsIn(x)
	if !isOneNum(coeff) {
		r, ok := integrate(MulOf(terms...), x, depth)
		if !ok {
			return nil, false
		}
		return MulOf(coeff, r), true
	}
	u, ok := integrate(m.args[0], x, depth+1)
	if !ok {
		return nil, false
	}
	v := MulOf(m.args[1:]...)
	rest, ok := integrate(MulOf(u, Diff(v, x)), x, depth+1)
	if !ok {
		return nil, false
	}
	return SubOf(MulOf(u, v), rest), true
}

func isOneNum(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsOne()
}

// IntegrateDefinite evaluates the integral of e over [a, b] symbolically.
// Products integrated by parts subtract boundary terms before recursing.
func IntegrateDefinite(e Expr, x *Sym, a, b Expr) (Expr, bool) {
	return integrateDefinite(e, x, a, b, 0)
}

func integrateDefinite(e Expr, x *Sym, a, b Expr, depth int) (Expr, bool) {
	if depth > maxPartsDepth {
		return nil, false
	}
	m, ok := e.(*Mul)
	if !ok {
		anti, ok := Integrate(e, x)
		if !ok {
			return nil, false
		}
		return boundary(anti, x, a, b), true
	}
	coeff, terms := m.AsCoeffTermsIn(x)
	if !isOneNum(coeff) {
		r, ok := integrateDefinite(MulOf(terms...), x, a, b, depth)
		if !ok {
			return nil, false
		}
		return MulOf(coeff, r), true
	}
	u, ok := integrate(m.args[0], x, depth+1)
	if !ok {
		return nil, false
	}
	v := MulOf(m.args[1:]...)
	rest, ok := integrateDefinite(MulOf(u, Diff(v, x)), x, a, b, depth+1)
	if !ok {
		return nil, false
	}
	return SubOf(boundary(MulOf(u, v), x, a, b), rest), true
}

func boundary(anti Expr, x *Sym, a, b Expr) Expr {
	return SubOf(Subs(anti, x, b), Subs(anti, x, a))
}

// ============================================================
// Numeric evaluation
// ============================================================

// EvalFloat evaluates a closed expression in float64. ok is false when e
// still contains symbols or unevaluable nodes.
func EvalFloat(e Expr) (float64, bool) {
	switch v := e.(type) {
	case *Num:
		return v.Float64(), !v.IsNaN()
	case *Const:
		return v.value, true
	case *Add:
		sum := 0.0
		for _, t := range v.args {
			f, ok := EvalFloat(t)
			if !ok {
				return 0, false
			}
			sum += f
		}
		return sum, true
	case *Mul:
		prod := 1.0
		for _, t := range v.args {
			f, ok := EvalFloat(t)
			if !ok {
				return 0, false
			}
			prod *= f
		}
		return prod, true
	case *Pow:
		b, ok1 := EvalFloat(v.base)
		x, ok2 := EvalFloat(v.exp)
		if !ok1 || !ok2 {
			return 0, false
		}
		return math.Pow(b, x), true
	case *Func:
		fn, ok := builtins[v.name]
		if !ok || len(v.args) != 1 {
			return 0, false
		}
		a, ok := EvalFloat(v.args[0])
		if !ok {
			return 0, false
		}
		return fn.float(a), true
	}
	return 0, false
}

var gaussNodes = [...]float64{
	-0.9739065285, -0.8650633667, -0.6794095683,
	-0.4333953941, -0.1488743390, 0.1488743390,
	0.4333953941, 0.6794095683, 0.8650633667, 0.9739065285,
}

var gaussWeights = [...]float64{
	0.0666713443, 0.1494513492, 0.2190863625,
	0.2692667193, 0.2955242247, 0.2955242247,
	0.2692667193, 0.2190863625, 0.1494513492, 0.0666713443,
}

// NIntegrate approximates the integral of e over [a, b] with 10-point
// Gauss-Legendre quadrature. Nodes where e does not evaluate count as zero.
func NIntegrate(e Expr, x *Sym, a, b float64) float64 {
	sum := 0.0
	mid := (a + b) / 2
	half := (b - a) / 2
	for i, t := range gaussNodes {
		if f, ok := EvalFloat(Subs(e, x, NFloat(mid+half*t))); ok {
			sum += gaussWeights[i] * f
		}
	}
	return half * sum
}
