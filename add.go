package symcore

import (
	"math/big"
	"strings"

	"golang.org/x/exp/slices"
)

// ============================================================
// Add
// ============================================================

type Add struct {
	args []Expr
	h    uint64
}

func newAdd(args []Expr) *Add {
	return &Add{args: args, h: hashNode(KindAdd, "", args)}
}

// AddOf sums terms: nested sums are spliced, like terms are collected,
// terms inside an order term are absorbed, and the result is sorted.
func AddOf(terms ...Expr) Expr {
	switch len(terms) {
	case 0:
		return Zero
	case 1:
		return terms[0]
	}
	coeff := Zero
	collected := newExprMap()
	var orders []*Order
	queue := slices.Clone(terms)
	for len(queue) > 0 {
		o := queue[0]
		queue = queue[1:]
		switch v := o.(type) {
		case *Add:
			queue = append(slices.Clone(v.args), queue...)
			continue
		case *Num:
			coeff = numAdd(coeff, v)
			continue
		case *Order:
			orders = mergeOrders(orders, v)
			continue
		}
		c, t := splitTerm(o)
		if old, ok := collected.get(t); ok {
			collected.set(t, numAdd(old.(*Num), c))
		} else {
			collected.set(t, c)
		}
	}
	if coeff.IsNaN() {
		return NaN
	}

	out := make([]Expr, 0, collected.len()+len(orders)+1)
	for i, t := range collected.keys {
		c := collected.vals[i].(*Num)
		if c.IsZero() {
			continue
		}
		term := t
		if !c.IsOne() {
			term = MulOf(c, t)
		}
		if n, ok := term.(*Num); ok {
			if n.IsNaN() {
				return NaN
			}
			coeff = numAdd(coeff, n)
			continue
		}
		out = append(out, term)
	}
	if len(orders) > 0 {
		out = slices.DeleteFunc(out, func(t Expr) bool { return absorbed(orders, t) })
		if !coeff.IsZero() && absorbed(orders, coeff) {
			coeff = Zero
		}
		for _, o := range orders {
			out = append(out, o)
		}
	}
	if !coeff.IsZero() || (coeff.IsReal() && len(out) == 0) {
		out = append(out, coeff)
	}
	sortExprs(out)
	switch len(out) {
	case 0:
		return Zero
	case 1:
		return out[0]
	}
	return newAdd(out)
}

func SubOf(a, b Expr) Expr { return AddOf(a, NegOf(b)) }

// splitTerm separates a term into its numeric coefficient and the rest.
func splitTerm(e Expr) (*Num, Expr) {
	m, ok := e.(*Mul)
	if !ok {
		return One, e
	}
	c, rest := m.AsCoeffTerms()
	switch len(rest) {
	case 0:
		return c, One
	case 1:
		return c, rest[0]
	}
	if c.IsOne() {
		return c, m
	}
	return c, newMul(rest)
}

func absorbed(orders []*Order, t Expr) bool {
	for _, o := range orders {
		if o.Contains(t) {
			return true
		}
	}
	return false
}

func mergeOrders(orders []*Order, o *Order) []*Order {
	for _, p := range orders {
		if p.Contains(o) {
			return orders
		}
	}
	kept := orders[:0:0]
	for _, p := range orders {
		if !o.Contains(p) {
			kept = append(kept, p)
		}
	}
	return append(kept, o)
}

func (a *Add) Kind() Kind            { return KindAdd }
func (a *Add) Args() []Expr          { return slices.Clone(a.args) }
func (a *Add) Hash() uint64          { return a.h }
func (a *Add) Equal(other Expr) bool { return equalExpr(a, other) }
func (a *Add) Terms() []Expr         { return slices.Clone(a.args) }
func (a *Add) precedence() int       { return precAdd }

// AsCoeffTerms pulls the common rational content out of the sum, negated
// when the constant term is negative: 2+4*x -> 2, [1+2*x]. The residual is
// always a single sum.
func (a *Add) AsCoeffTerms() (*Num, []Expr) {
	var num, den *big.Int
	for _, t := range a.args {
		c, _ := splitTerm(t)
		if n, ok := t.(*Num); ok {
			c = n
		}
		if !c.IsRational() {
			return One, []Expr{a}
		}
		p := new(big.Int).Abs(c.rat.Num())
		q := c.rat.Denom()
		if num == nil {
			num, den = p, new(big.Int).Set(q)
			continue
		}
		num.GCD(nil, nil, num, p)
		g := new(big.Int).GCD(nil, nil, den, q)
		den.Mul(den, new(big.Int).Quo(q, g))
	}
	content := new(big.Rat).SetFrac(num, den)
	if n, ok := a.args[0].(*Num); ok && n.Sign() < 0 {
		content.Neg(content)
	}
	c := newRat(content)
	if c.IsOne() {
		return One, []Expr{a}
	}
	inv := numInv(c)
	terms := make([]Expr, len(a.args))
	for i, t := range a.args {
		terms[i] = MulOf(inv, t)
	}
	return c, []Expr{AddOf(terms...)}
}

func (a *Add) String() string { return a.render(0) }

func (a *Add) render(level int) string {
	var sb strings.Builder
	for i, t := range a.args {
		if i == 0 {
			sb.WriteString(t.render(0))
			continue
		}
		if isNegativeTerm(t) {
			sb.WriteString(" - ")
			sb.WriteString(NegOf(t).render(precAdd))
		} else {
			sb.WriteString(" + ")
			sb.WriteString(t.render(precAdd))
		}
	}
	return parenthesize(sb.String(), precAdd, level)
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.args {
		switch {
		case i == 0:
			sb.WriteString(t.LaTeX())
		case isNegativeTerm(t):
			sb.WriteString(" - " + NegOf(t).LaTeX())
		default:
			sb.WriteString(" + " + t.LaTeX())
		}
	}
	return sb.String()
}

func isNegativeTerm(t Expr) bool {
	switch v := t.(type) {
	case *Num:
		return v.Sign() < 0
	case *Mul:
		c, _ := v.AsCoeffTerms()
		return c.Sign() < 0
	}
	return false
}

func (a *Add) toJSON() map[string]interface{} {
	terms := make([]interface{}, len(a.args))
	for i, t := range a.args {
		terms[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": terms}
}
