package symcore

// ============================================================
// Pow
// ============================================================

type Pow struct {
	base, exp Expr
	h         uint64
}

func newPow(base, exp Expr) *Pow {
	args := []Expr{base, exp}
	return &Pow{base: base, exp: exp, h: hashNode(KindPow, "", args)}
}

// PowOf builds base**exp, evaluating numeric powers exactly and delegating
// product bases to the product power rules.
func PowOf(base, exp Expr) Expr {
	if e, ok := exp.(*Num); ok {
		switch {
		case e.IsZero() && e.IsRational():
			return One
		case e.IsOne():
			return base
		case e.IsNaN():
			return NaN
		}
	}
	switch b := base.(type) {
	case *Num:
		if b.IsNaN() {
			return NaN
		}
		if e, ok := exp.(*Num); ok {
			if r, ok := numPow(b, e); ok {
				return r
			}
		}
		if b.IsOne() {
			return One
		}
	case *Const:
		if b == E {
			return ExpOf(exp)
		}
	case *Pow:
		if e, ok := exp.(*Num); ok && e.IsInteger() {
			return PowOf(b.base, MulOf(b.exp, e))
		}
	case *Mul:
		if r, ok := b.evalPower(exp); ok {
			return r
		}
	case *Func:
		if e, ok := exp.(*Num); ok && e.IsInteger() && b.name == "exp" {
			return ExpOf(MulOf(b.args[0], e))
		}
	}
	return newPow(base, exp)
}

func SqrtOf(arg Expr) Expr { return PowOf(arg, Half) }

func (p *Pow) Kind() Kind            { return KindPow }
func (p *Pow) Args() []Expr          { return []Expr{p.base, p.exp} }
func (p *Pow) Hash() uint64          { return p.h }
func (p *Pow) Equal(other Expr) bool { return equalExpr(p, other) }
func (p *Pow) Base() Expr            { return p.base }
func (p *Pow) Exp() Expr             { return p.exp }
func (p *Pow) precedence() int       { return precPow }
func (p *Pow) String() string        { return p.render(0) }

// render writes negative numeric exponents as 1/b or 1/b^n so that the
// product renderer can collapse "*1/" into "/".
func (p *Pow) render(level int) string {
	if e, ok := p.exp.(*Num); ok && e.IsFinite() && e.Sign() < 0 {
		s := "1/" + p.base.render(precPow)
		if pos := numNeg(e); !pos.IsOne() {
			s += "^" + pos.render(precPow)
		}
		return parenthesize(s, precPow, level)
	}
	return parenthesize(p.base.render(precPow)+"^"+p.exp.render(precPow), precPow, level)
}

func (p *Pow) LaTeX() string {
	baseStr := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = `\left(` + baseStr + `\right)`
	}
	if e, ok := p.exp.(*Num); ok && e.IsFinite() && e.Sign() < 0 {
		pos := numNeg(e)
		if pos.IsOne() {
			return `\frac{1}{` + baseStr + `}`
		}
		return `\frac{1}{` + baseStr + "^{" + pos.LaTeX() + "}}"
	}
	if e, ok := p.exp.(*Num); ok && e.IsRational() && e.Rat().Cmp(Half.rat) == 0 {
		return `\sqrt{` + p.base.LaTeX() + "}"
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}

// asBaseExp splits e into base and exponent; non-powers have exponent One.
func asBaseExp(e Expr) (Expr, Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, One
}

func parenthesize(s string, prec, level int) string {
	if prec <= level {
		return "(" + s + ")"
	}
	return s
}
