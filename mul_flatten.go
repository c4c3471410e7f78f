package symcore

import (
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// ============================================================
// Product canonicalization
// ============================================================

// CanonicalProduct is the reduced form of a factor sequence. Commutative
// already carries the coefficient as its first element whenever the
// coefficient is not One; Coefficient repeats it for inspection.
type CanonicalProduct struct {
	Coefficient    *Num
	Commutative    []Expr
	NonCommutative []Expr
	LambdaArgs     []*Sym
	OrderSymbols   []*Sym
}

// Expr assembles the product node: commutative factors, then the
// non-commutative ones, wrapped in an Order or Lambda when a hook fired.
func (p CanonicalProduct) Expr() Expr {
	args := make([]Expr, 0, len(p.Commutative)+len(p.NonCommutative))
	args = append(args, p.Commutative...)
	args = append(args, p.NonCommutative...)
	var obj Expr
	switch len(args) {
	case 0:
		obj = One
	case 1:
		obj = args[0]
	default:
		obj = newMul(args)
	}
	if p.OrderSymbols != nil {
		obj = OrderOf(obj, p.OrderSymbols...)
	}
	if p.LambdaArgs != nil {
		obj = LambdaOf(p.LambdaArgs, obj)
	}
	return obj
}

// mulBuilder holds the accumulators of a single Flatten call.
type mulBuilder struct {
	coeff *Num
	cSeq  []Expr
	ncSeq []Expr

	cPowers *exprMap // base -> summed exponent
	expDict *exprMap // numeric base -> summed exponent

	cPart  []Expr
	ncPart []Expr

	lambdaArgs []*Sym
	orderSyms  []*Sym
}

// Flatten reduces a raw factor sequence to canonical form. Nested products
// are spliced through explicit work queues, so nesting depth does not grow
// the call stack.
func Flatten(factors ...Expr) CanonicalProduct {
	b := &mulBuilder{
		coeff:   One,
		ncSeq:   slices.Clone(factors),
		cPowers: newExprMap(),
		expDict: newExprMap(),
	}
	b.consume()
	b.materialize()
	b.applyCoefficient()
	return b.result()
}

func (b *mulBuilder) consume() {
	for len(b.cSeq) > 0 || len(b.ncSeq) > 0 {
		if len(b.cSeq) > 0 {
			o := b.cSeq[0]
			b.cSeq = b.cSeq[1:]
			b.commutative(b.hook(o))
			continue
		}
		o := b.hook(b.ncSeq[0])
		b.ncSeq = b.ncSeq[1:]
		if IsCommutative(o) {
			b.cSeq = append(b.cSeq, o)
			continue
		}
		b.nonCommutative(o)
	}
}

// hook binds unapplied function classes to dummy arguments and unwraps
// order terms, threading the shared state through the whole call.
func (b *mulBuilder) hook(o Expr) Expr {
	switch v := o.(type) {
	case *FuncClass:
		if v.nargs >= 0 {
			o, b.lambdaArgs = v.withDummyArguments(b.lambdaArgs)
		}
	case *Order:
		o, b.orderSyms = v.AsExprSymbols(b.orderSyms)
	}
	return o
}

func (b *mulBuilder) commutative(o Expr) {
	switch v := o.(type) {
	case *Mul:
		b.cSeq = append(slices.Clone(v.args), b.cSeq...)
		return
	case *Num:
		b.coeff = numMul(b.coeff, v)
		return
	case *Pow:
		if nb, ok := v.base.(*Num); ok {
			accumulate(b.expDict, nb, v.exp)
			return
		}
	}
	var base, exp Expr
	if f, ok := o.(*Func); ok && f.name == "exp" {
		base, exp = E, f.args[0]
	} else {
		base, exp = asBaseExp(o)
	}
	if add, ok := base.(*Add); ok {
		if e, ok := exp.(*Num); ok {
			base = b.pullContent(add, e)
		}
	}
	accumulate(b.cPowers, base, exp)
}

// pullContent moves the common numeric factor of a sum raised to a numeric
// power into the coefficient: (2+2*x)^e -> 2^e * (1+x)^e. A negative content
// is only pulled whole under integer exponents.
func (b *mulBuilder) pullContent(add *Add, e *Num) Expr {
	if !e.IsFinite() {
		return add
	}
	c, terms := add.AsCoeffTerms()
	if c.IsOne() {
		return add
	}
	if len(terms) != 1 {
		panic(NewError(CodeMalformedCoefficientPull, "pulling %s out of %s left %d terms", c, add, len(terms)))
	}
	rest := terms[0]
	if c.Sign() < 0 && !e.IsInteger() {
		c = numNeg(c)
		rest = MulOf(NegativeOne, rest)
		if c.IsOne() {
			return add
		}
	}
	switch p := PowOf(c, e).(type) {
	case *Num:
		b.coeff = numMul(b.coeff, p)
	default:
		b.cSeq = append(b.cSeq, p)
	}
	return rest
}

func (b *mulBuilder) nonCommutative(o Expr) {
	if m, ok := o.(*Mul); ok {
		b.ncSeq = append(slices.Clone(m.args), b.ncSeq...)
		return
	}
	if len(b.ncPart) == 0 {
		b.ncPart = append(b.ncPart, o)
		return
	}
	last := b.ncPart[len(b.ncPart)-1]
	b.ncPart = b.ncPart[:len(b.ncPart)-1]
	b1, e1 := asBaseExp(last)
	b2, e2 := asBaseExp(o)
	if equalExpr(b1, b2) {
		b.ncSeq = append([]Expr{PowOf(b1, AddOf(e1, e2))}, b.ncSeq...)
		return
	}
	b.ncPart = append(b.ncPart, last, o)
}

func accumulate(m *exprMap, base, exp Expr) {
	if old, ok := m.get(base); ok {
		m.set(base, AddOf(old, exp))
		return
	}
	m.set(base, exp)
}

func (b *mulBuilder) materialize() {
	for i, base := range b.cPowers.keys {
		b.emit(base, b.cPowers.vals[i])
	}
	inv := newExprMap()
	for i, base := range b.expDict.keys {
		e := b.expDict.vals[i]
		if old, ok := inv.get(e); ok {
			inv.set(e, numMul(old.(*Num), base.(*Num)))
		} else {
			inv.set(e, base)
		}
	}
	for i, e := range inv.keys {
		b.emit(inv.vals[i], e)
	}
}

// emit turns one accumulated base/exponent pair into output: zero exponents
// vanish and numeric results fold into the coefficient.
func (b *mulBuilder) emit(base, exp Expr) {
	e, eNum := exp.(*Num)
	n, bNum := base.(*Num)
	switch {
	case eNum && e.IsRational() && e.IsZero():
		return
	case eNum && e.IsOne():
		if bNum {
			b.coeff = numMul(b.coeff, n)
		} else {
			b.cPart = append(b.cPart, base)
		}
		return
	}
	obj := PowOf(base, exp)
	if r, ok := obj.(*Num); ok {
		b.coeff = numMul(b.coeff, r)
		return
	}
	b.cPart = append(b.cPart, obj)
}

func (b *mulBuilder) applyCoefficient() {
	c := b.coeff
	switch {
	case c.IsInfinite():
		b.cPart = b.stripSigned(b.cPart)
		b.ncPart = b.stripSigned(b.ncPart)
		b.cPart = append([]Expr{b.coeff}, b.cPart...)
	case c.IsNaN() || (c.IsRational() && c.IsZero()):
		b.cPart, b.ncPart = []Expr{c}, nil
	case c.IsReal():
		if c.IsZero() {
			b.cPart, b.ncPart = []Expr{c}, nil
		} else if c.bigFloat().Cmp(One.bigFloat()) != 0 {
			b.cPart = append([]Expr{c}, b.cPart...)
		}
	case !c.IsOne():
		b.cPart = append([]Expr{c}, b.cPart...)
	}
	sortExprs(b.cPart)
	if len(b.cPart) == 2 && len(b.ncPart) == 0 {
		n, isNum := b.cPart[0].(*Num)
		add, isAdd := b.cPart[1].(*Add)
		if isNum && isAdd {
			terms := make([]Expr, len(add.args))
			for i, t := range add.args {
				terms[i] = MulOf(n, t)
			}
			b.cPart = []Expr{AddOf(terms...)}
		}
	}
}

// stripSigned drops factors of known sign next to an infinite coefficient,
// flipping the coefficient for each negative one.
func (b *mulBuilder) stripSigned(part []Expr) []Expr {
	kept := part[:0:0]
	for _, t := range part {
		switch {
		case IsPositive(t) == True:
		case IsNegative(t) == True:
			b.coeff = numNeg(b.coeff)
			log().Debug("infinite coefficient flipped", zap.Stringer("factor", t))
		default:
			kept = append(kept, t)
		}
	}
	return kept
}

func (b *mulBuilder) result() CanonicalProduct {
	coeff := One
	if len(b.cPart) > 0 {
		if n, ok := b.cPart[0].(*Num); ok {
			coeff = n
		}
	}
	return CanonicalProduct{
		Coefficient:    coeff,
		Commutative:    b.cPart,
		NonCommutative: b.ncPart,
		LambdaArgs:     b.lambdaArgs,
		OrderSymbols:   b.orderSyms,
	}
}
