package symcore

import (
	"math/big"
	"strings"

	"golang.org/x/exp/slices"
)

// ============================================================
// Order: big-O terms as x -> 0
// ============================================================

// Order stands for every term of the same or higher degree than expr in
// the given symbols. expr is kept as a bare monomial without coefficient.
type Order struct {
	expr Expr
	syms []*Sym
	h    uint64
}

// OrderOf builds O(expr). Without symbols the free symbols of expr are used,
// in sorted order.
func OrderOf(expr Expr, syms ...*Sym) *Order {
	if o, ok := expr.(*Order); ok {
		if len(syms) == 0 {
			return o
		}
		expr = o.expr
	}
	if len(syms) == 0 {
		syms = symbolsOf(expr)
	}
	syms = uniqueSyms(syms)
	if n, ok := expr.(*Num); ok && n.IsZero() {
		expr = Zero
	} else {
		expr = orderMonomial(expr, syms)
	}
	o := &Order{expr: expr, syms: syms}
	o.h = hashNode(KindOrder, "", o.Args())
	return o
}

func orderMonomial(expr Expr, syms []*Sym) Expr {
	for _, x := range syms {
		expr = LeadingTerm(expr, x)
	}
	keep := func(f Expr) bool {
		for _, x := range syms {
			if Has(f, x) {
				return true
			}
		}
		return false
	}
	switch v := expr.(type) {
	case *Mul:
		var fs []Expr
		for _, f := range v.args {
			if keep(f) {
				fs = append(fs, f)
			}
		}
		return MulOf(fs...)
	case *Add:
		return expr
	}
	if !keep(expr) {
		return One
	}
	return expr
}

func symbolsOf(e Expr) []*Sym {
	var out []*Sym
	Walk(e, func(n Expr) bool {
		if s, ok := n.(*Sym); ok {
			out = append(out, s)
		}
		return true
	})
	out = uniqueSyms(out)
	slices.SortFunc(out, func(a, b *Sym) int { return Compare(a, b) })
	return out
}

func uniqueSyms(syms []*Sym) []*Sym {
	var out []*Sym
	for _, s := range syms {
		if !slices.ContainsFunc(out, func(t *Sym) bool { return equalExpr(s, t) }) {
			out = append(out, s)
		}
	}
	return out
}

func (o *Order) Kind() Kind            { return KindOrder }
func (o *Order) Hash() uint64          { return o.h }
func (o *Order) Equal(other Expr) bool { return equalExpr(o, other) }
func (o *Order) Expr() Expr            { return o.expr }
func (o *Order) Symbols() []*Sym       { return slices.Clone(o.syms) }
func (o *Order) precedence() int       { return precAtom }
func (o *Order) String() string        { return o.render(0) }

func (o *Order) Args() []Expr {
	out := []Expr{o.expr}
	for _, s := range o.syms {
		out = append(out, s)
	}
	return out
}

// AsExprSymbols unwraps the order for multiplication, merging its symbols
// into those already collected.
func (o *Order) AsExprSymbols(syms []*Sym) (Expr, []*Sym) {
	return o.expr, uniqueSyms(append(slices.Clone(syms), o.syms...))
}

// Contains reports whether e, or every term of e when it is an order
// itself, is absorbed by o.
func (o *Order) Contains(e Expr) bool {
	if p, ok := e.(*Order); ok {
		for _, s := range p.syms {
			if !slices.ContainsFunc(o.syms, func(t *Sym) bool { return equalExpr(s, t) }) {
				return false
			}
		}
		e = p.expr
	}
	if n, ok := e.(*Num); ok && n.IsZero() {
		return true
	}
	if n, ok := o.expr.(*Num); ok && n.IsZero() {
		return false
	}
	want, ok := degreeIn(o.expr, o.syms)
	if !ok {
		return false
	}
	lt := e
	for _, x := range o.syms {
		lt = LeadingTerm(lt, x)
	}
	got, ok := degreeIn(lt, o.syms)
	if !ok {
		return false
	}
	return got.Cmp(want) >= 0
}

// degreeIn is the lowest total degree of e in syms, for expressions built
// from monomials with rational exponents.
func degreeIn(e Expr, syms []*Sym) (*big.Rat, bool) {
	mentions := false
	for _, x := range syms {
		if Has(e, x) {
			mentions = true
			break
		}
	}
	if !mentions {
		return new(big.Rat), true
	}
	switch v := e.(type) {
	case *Sym:
		return big.NewRat(1, 1), true
	case *Pow:
		n, ok := v.exp.(*Num)
		if !ok || !n.IsRational() {
			return nil, false
		}
		d, ok := degreeIn(v.base, syms)
		if !ok {
			return nil, false
		}
		return d.Mul(d, n.rat), true
	case *Mul:
		sum := new(big.Rat)
		for _, f := range v.args {
			d, ok := degreeIn(f, syms)
			if !ok {
				return nil, false
			}
			sum.Add(sum, d)
		}
		return sum, true
	case *Add:
		var low *big.Rat
		for _, t := range v.args {
			d, ok := degreeIn(t, syms)
			if !ok {
				return nil, false
			}
			if low == nil || d.Cmp(low) < 0 {
				low = d
			}
		}
		return low, true
	}
	return nil, false
}

func (o *Order) render(level int) string {
	s := "O(" + o.expr.render(0)
	if len(o.syms) > 1 {
		names := make([]string, len(o.syms))
		for i, x := range o.syms {
			names[i] = x.String()
		}
		s += ", " + strings.Join(names, ", ")
	}
	return s + ")"
}

func (o *Order) LaTeX() string { return `\mathcal{O}\left(` + o.expr.LaTeX() + `\right)` }

func (o *Order) toJSON() map[string]interface{} {
	syms := make([]interface{}, len(o.syms))
	for i, s := range o.syms {
		syms[i] = s.toJSON()
	}
	return map[string]interface{}{"type": "order", "expr": o.expr.toJSON(), "symbols": syms}
}
