package symcore

// ============================================================
// erf: the error function
// ============================================================

// ErfOf applies the error function. Special values evaluate, and a negative
// numeric factor is moved outside: erf(-x) = -erf(x).
func ErfOf(arg Expr) Expr {
	if r, ok := realArg(arg, "erf"); ok {
		return r
	}
	switch a := arg.(type) {
	case *Num:
		switch {
		case a.IsNaN():
			return NaN
		case a == Infinity:
			return One
		case a == NegativeInfinity:
			return NegativeOne
		case a.IsZero():
			return Zero
		case a.IsNegative():
			return NegOf(ErfOf(numNeg(a)))
		}
	case *Mul:
		if c, _ := a.AsCoeffTerms(); c.IsNegative() {
			return NegOf(ErfOf(NegOf(a)))
		}
	}
	return newFunc("erf", []Expr{arg})
}

// erfDeriv is 2*exp(-x^2)/sqrt(pi).
func erfDeriv(x Expr) Expr {
	return MulOf(N(2), ExpOf(NegOf(PowOf(x, N(2)))), PowOf(Pi, F(-1, 2)))
}

// ErfTaylorTerm returns the n-th term of the Maclaurin series of erf(x).
// previous holds the terms already computed, lowest order first; with more
// than two of them the term follows from the one two places back.
func ErfTaylorTerm(n int, x Expr, previous ...Expr) Expr {
	if n < 0 || n%2 == 0 {
		return Zero
	}
	key := append([]Expr{N(int64(n)), x}, previous...)
	return DefaultCache().Memo("erf_taylor_term", newFunc("erf_taylor_term", key), func() interface{} {
		k := int64(n-1) / 2
		if len(previous) > 2 {
			prev := previous[len(previous)-2]
			return MulOf(NegativeOne, prev, PowOf(x, N(2)), F(int64(n-2), int64(n)*k))
		}
		sign := One
		if k%2 == 1 {
			sign = NegativeOne
		}
		return MulOf(N(2), sign, PowOf(x, N(int64(n))),
			numInv(numMul(N(int64(n)), factorial(k))), PowOf(Pi, F(-1, 2)))
	}).(Expr)
}

func erfLeadingTerm(f *Func, x *Sym) Expr {
	arg := LeadingTerm(f.args[0], x)
	if OrderOf(One, x).Contains(arg) {
		return arg
	}
	return ErfOf(arg)
}
