package symcore

// ============================================================
// Substitution
// ============================================================

// Subs replaces every occurrence of old in e with repl and re-canonicalizes
// the result. Products also match old as a contiguous run of their
// symbolic factors, scaling by the ratio of numeric coefficients.
func Subs(e, old, repl Expr) Expr {
	if equalExpr(e, old) {
		return repl
	}
	switch v := e.(type) {
	case *Mul:
		return v.subs(old, repl)
	case *Add:
		return AddOf(subsEach(v.args, old, repl)...)
	case *Pow:
		return PowOf(Subs(v.base, old, repl), Subs(v.exp, old, repl))
	case *Func:
		args := subsEach(v.args, old, repl)
		if oc, ok := old.(*FuncClass); ok && oc.name == v.name {
			switch n := repl.(type) {
			case *FuncClass:
				return n.Call(args...)
			case *Lambda:
				if r, err := n.Call(args...); err == nil {
					return r
				}
			}
		}
		return FuncOf(v.name, args...)
	case *Lambda:
		for _, b := range v.vars {
			if equalExpr(b, old) {
				return e
			}
		}
		return LambdaOf(v.vars, Subs(v.body, old, repl))
	case *Order:
		return OrderOf(Subs(v.expr, old, repl), v.syms...)
	case *Interval:
		return IntervalOf(Subs(v.start, old, repl), Subs(v.end, old, repl))
	}
	return e
}

// SubsMap applies each binding in turn; keys name symbols.
func SubsMap(e Expr, vars map[string]Expr) Expr {
	for _, s := range symbolsOf(e) {
		if r, ok := vars[s.String()]; ok {
			e = Subs(e, s, r)
		}
	}
	return e
}

func subsEach(es []Expr, old, repl Expr) []Expr {
	out := make([]Expr, len(es))
	for i, a := range es {
		out[i] = Subs(a, old, repl)
	}
	return out
}

func (m *Mul) subs(old, repl Expr) Expr {
	if _, ok := old.(*FuncClass); ok {
		return MulOf(subsEach(m.args, old, repl)...)
	}
	c1, t1 := m.AsCoeffTerms()
	c2, t2 := AsCoeffTerms(old)
	if len(t2) > 0 {
		// (2*a).subs(3*a, y) -> 2/3*y
		if equalSlices(t1, t2) {
			return MulOf(repl, numDiv(c1, c2))
		}
		if len(t2) < len(t1) {
			for i := 0; i+len(t2) <= len(t1); i++ {
				if equalSlices(t2, t1[i:i+len(t2)]) {
					left := Subs(MulOf(t1[:i]...), old, repl)
					right := Subs(MulOf(t1[i+len(t2):]...), old, repl)
					return MulOf(numDiv(c1, c2), left, repl, right)
				}
			}
		}
	}
	return MulOf(subsEach(m.args, old, repl)...)
}
