package symcore

// ============================================================
// Leading terms and series truncation
// ============================================================

// maxSeriesTerms bounds every term-by-term expansion.
const maxSeriesTerms = 64

// LeadingTerm returns the dominant term of e as x -> 0. Expressions it
// cannot analyse are returned unchanged.
func LeadingTerm(e Expr, x *Sym) Expr {
	if !Has(e, x) {
		return e
	}
	switch v := e.(type) {
	case *Mul:
		fs := make([]Expr, len(v.args))
		for i, f := range v.args {
			fs[i] = LeadingTerm(f, x)
		}
		return MulOf(fs...)
	case *Add:
		return addLeadingTerm(v, x)
	case *Pow:
		if Has(v.exp, x) {
			return e
		}
		return PowOf(LeadingTerm(v.base, x), v.exp)
	case *Func:
		if len(v.args) != 1 {
			return e
		}
		switch v.name {
		case "exp", "cos":
			if tendsToZero(v.args[0], x) {
				return One
			}
		case "sin":
			if tendsToZero(v.args[0], x) {
				return LeadingTerm(v.args[0], x)
			}
		case "erf":
			return erfLeadingTerm(v, x)
		}
	}
	return e
}

func addLeadingTerm(a *Add, x *Sym) Expr {
	xs := []*Sym{x}
	var low []Expr
	var lowDeg Expr
	for _, t := range a.args {
		lt := LeadingTerm(t, x)
		d, ok := degreeIn(lt, xs)
		if !ok {
			return a
		}
		dn := NRat(d)
		switch {
		case lowDeg == nil || numCmp(dn, lowDeg.(*Num)) < 0:
			low, lowDeg = []Expr{lt}, dn
		case numCmp(dn, lowDeg.(*Num)) == 0:
			low = append(low, lt)
		}
	}
	if r := AddOf(low...); !isZeroNum(r) {
		return r
	}
	return a
}

// tendsToZero reports whether e has strictly positive degree in x.
func tendsToZero(e Expr, x *Sym) bool {
	d, ok := degreeIn(LeadingTerm(e, x), []*Sym{x})
	return ok && d.Sign() > 0
}

func isZeroNum(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

// OSeries drops every term of e that order absorbs. It is exact for sums,
// products and polynomial powers, and expands exp, erf and functions that
// are analytic at the origin term by term.
func OSeries(e Expr, order *Order) Expr {
	if len(order.syms) == 0 {
		if order.Contains(e) {
			return Zero
		}
		return e
	}
	x := order.syms[0]
	if order.Contains(e) {
		return Zero
	}
	if !Has(e, x) {
		return e
	}
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.args))
		for i, t := range v.args {
			terms[i] = OSeries(t, order)
		}
		return AddOf(terms...)
	case *Mul:
		return v.oseries(order)
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() && n.Sign() > 0 {
			if _, isAdd := v.base.(*Add); isAdd {
				return OSeries(Expand(v), order)
			}
		}
		if r, ok := taylorAtZero(e, x, order); ok {
			return r
		}
	case *Func:
		switch {
		case v.name == "exp" && tendsToZero(v.args[0], x):
			return expSeries(v.args[0], order)
		case v.name == "erf" && tendsToZero(v.args[0], x):
			return erfSeries(v.args[0], order)
		}
		if r, ok := taylorAtZero(e, x, order); ok {
			return r
		}
	}
	return e
}

// oseries truncates a product. Factors free of the order symbol pass
// through; each dependent factor is truncated against the order divided by
// the leading terms of the other dependent factors.
func (m *Mul) oseries(order *Order) Expr {
	x := order.syms[0]
	var l, r []Expr
	for _, f := range m.args {
		if Has(f, x) {
			r = append(r, f)
		} else {
			l = append(l, f)
		}
	}
	switch len(r) {
	case 0:
		if order.Contains(One) {
			return Zero
		}
		return MulOf(l...)
	case 1:
		return MulOf(append(l, OSeries(r[0], order))...)
	}
	lts := make([]Expr, len(r))
	for i, f := range r {
		lts[i] = LeadingTerm(f, x)
	}
	for i, f := range r {
		others := make([]Expr, 0, len(lts)-1)
		others = append(others, lts[:i]...)
		others = append(others, lts[i+1:]...)
		sub := toOrder(DivOf(order, MulOf(others...)), order.syms)
		l = append(l, OSeries(f, sub))
	}
	return MulOf(l...)
}

func toOrder(e Expr, syms []*Sym) *Order {
	if o, ok := e.(*Order); ok {
		return o
	}
	return OrderOf(e, syms...)
}

// expSeries sums arg^k/k! until the terms vanish into order.
func expSeries(arg Expr, order *Order) Expr {
	terms := []Expr{One}
	pow := Expr(One)
	for k := int64(1); k < maxSeriesTerms; k++ {
		pow = Expand(MulOf(pow, arg))
		term := MulOf(pow, numInv(factorial(k)))
		if order.Contains(term) {
			break
		}
		terms = append(terms, OSeries(term, order))
	}
	return AddOf(terms...)
}

// erfSeries sums the Maclaurin terms of erf, reusing earlier terms through
// the recurrence in ErfTaylorTerm.
func erfSeries(arg Expr, order *Order) Expr {
	terms := []Expr{Zero}
	for n := 1; n < 2*maxSeriesTerms; n += 2 {
		term := ErfTaylorTerm(n, arg, terms...)
		terms = append(terms, term, Zero)
		if order.Contains(term) {
			break
		}
	}
	out := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if !isZeroNum(t) {
			out = append(out, OSeries(Expand(t), order))
		}
	}
	return AddOf(out...)
}

// taylorAtZero expands e around x = 0 from its derivatives, stopping at the
// first power of x the order absorbs. ok is false when e or one of the
// needed derivatives is singular at the origin.
func taylorAtZero(e Expr, x *Sym, order *Order) (Expr, bool) {
	var terms []Expr
	current := e
	fact := One
	for k := int64(0); k < maxSeriesTerms; k++ {
		if k > 0 {
			fact = numMul(fact, N(k))
		}
		xk := PowOf(x, N(k))
		if order.Contains(xk) {
			return AddOf(terms...), true
		}
		c := Subs(current, x, Zero)
		if isSingular(c) {
			return nil, false
		}
		if !isZeroNum(c) {
			terms = append(terms, MulOf(c, numInv(fact), xk))
		}
		current = Diff(current, x)
	}
	return nil, false
}

func isSingular(e Expr) bool {
	bad := false
	Walk(e, func(n Expr) bool {
		if v, ok := n.(*Num); ok && !v.IsFinite() {
			bad = true
		}
		return !bad
	})
	return bad
}

// Series expands e around x = 0 up to, and excluding, x^n and appends the
// order term.
func Series(e Expr, x *Sym, n int) Expr {
	o := OrderOf(PowOf(x, N(int64(n))), x)
	return AddOf(OSeries(e, o), o)
}
