package symcore

import (
	"math/big"
	"strings"
)

// ============================================================
// Structural queries
// ============================================================

// CountOps counts the arithmetic operations and function applications in e.
func CountOps(e Expr) int {
	args := e.Args()
	if len(args) == 0 {
		return 0
	}
	return DefaultCache().Memo("count_ops", e, func() interface{} {
		n := 0
		for _, a := range args {
			n += CountOps(a)
		}
		switch e.(type) {
		case *Add, *Mul:
			n += len(args) - 1
		case *Pow, *Func:
			n++
		}
		return n
	}).(int)
}

// CountOpsSymbolic is CountOps with each operation as a symbol, so that
// 2*x + y^2 counts as ADD + MUL + POW.
func CountOpsSymbolic(e Expr) Expr {
	args := e.Args()
	if len(args) == 0 {
		return Zero
	}
	return DefaultCache().Memo("count_ops_symbolic", e, func() interface{} {
		parts := make([]Expr, 0, len(args)+1)
		for _, a := range args {
			parts = append(parts, CountOpsSymbolic(a))
		}
		switch v := e.(type) {
		case *Add:
			parts = append(parts, MulOf(S("ADD"), N(int64(len(args)-1))))
		case *Mul:
			parts = append(parts, MulOf(S("MUL"), N(int64(len(args)-1))))
		case *Pow:
			parts = append(parts, S("POW"))
		case *Func:
			parts = append(parts, S(strings.ToUpper(v.name)))
		}
		return AddOf(parts...)
	}).(Expr)
}

// AsNumerDenom splits e into numerator and denominator. Products split
// factor by factor; sums are brought over the product of their
// denominators.
func AsNumerDenom(e Expr) (Expr, Expr) {
	switch v := e.(type) {
	case *Num:
		if v.IsRational() && !v.IsInteger() {
			return newRat(new(big.Rat).SetInt(v.rat.Num())), newRat(new(big.Rat).SetInt(v.rat.Denom()))
		}
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsFinite() && n.Sign() < 0 {
			return One, PowOf(v.base, numNeg(n))
		}
		if c, _ := AsCoeffTerms(v.exp); c.Sign() < 0 {
			return One, PowOf(v.base, NegOf(v.exp))
		}
	case *Func:
		if v.name == "exp" {
			if c, _ := AsCoeffTerms(v.args[0]); c.Sign() < 0 {
				return One, ExpOf(NegOf(v.args[0]))
			}
		}
	case *Mul:
		numers := make([]Expr, len(v.args))
		denoms := make([]Expr, len(v.args))
		for i, f := range v.args {
			numers[i], denoms[i] = AsNumerDenom(f)
		}
		return MulOf(numers...), MulOf(denoms...)
	case *Add:
		numers := make([]Expr, len(v.args))
		denoms := make([]Expr, len(v.args))
		for i, t := range v.args {
			numers[i], denoms[i] = AsNumerDenom(t)
		}
		terms := make([]Expr, len(v.args))
		for i := range numers {
			fs := []Expr{numers[i]}
			for j, d := range denoms {
				if j != i {
					fs = append(fs, d)
				}
			}
			terms[i] = MulOf(fs...)
		}
		return AddOf(terms...), MulOf(denoms...)
	}
	return e, One
}

// Conjugate returns the complex conjugate of e. Real-valued parts pass
// through; products and sums conjugate factor by factor.
func Conjugate(e Expr) Expr {
	if IsRealValued(e) == True {
		return e
	}
	switch v := e.(type) {
	case *Num:
		return e
	case *Mul:
		fs := make([]Expr, len(v.args))
		for i, f := range v.args {
			fs[i] = Conjugate(f)
		}
		return MulOf(fs...)
	case *Add:
		ts := make([]Expr, len(v.args))
		for i, t := range v.args {
			ts[i] = Conjugate(t)
		}
		return AddOf(ts...)
	case *Pow:
		return PowOf(Conjugate(v.base), Conjugate(v.exp))
	case *Func:
		switch v.name {
		case "conjugate":
			return v.args[0]
		case "exp", "sin", "cos", "erf":
			return FuncOf(v.name, Conjugate(v.args[0]))
		}
	}
	return newFunc("conjugate", []Expr{e})
}

// IsPolynomial reports whether e is a polynomial in syms. Without symbols
// every free symbol counts.
func IsPolynomial(e Expr, syms ...*Sym) bool {
	if len(syms) == 0 {
		syms = symbolsOf(e)
	}
	free := func(a Expr) bool {
		for _, s := range syms {
			if Has(a, s) {
				return false
			}
		}
		return true
	}
	if free(e) {
		return true
	}
	switch v := e.(type) {
	case *Sym:
		return true
	case *Add, *Mul:
		for _, a := range e.Args() {
			if !IsPolynomial(a, syms...) {
				return false
			}
		}
		return true
	case *Pow:
		n, ok := v.exp.(*Num)
		return ok && n.IsInteger() && n.Sign() >= 0 && IsPolynomial(v.base, syms...)
	}
	return false
}
