package symcore

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ============================================================
// Mul
// ============================================================

// Mul is a canonical product. Its factors are always the output of Flatten:
// an optional leading numeric coefficient, the sorted commutative factors,
// then the non-commutative factors in their original order.
type Mul struct {
	args []Expr
	h    uint64
}

func newMul(args []Expr) *Mul {
	return &Mul{args: args, h: hashNode(KindMul, "", args)}
}

// MulOf multiplies factors and returns the canonical result.
func MulOf(factors ...Expr) Expr {
	switch len(factors) {
	case 0:
		return One
	case 1:
		return factors[0]
	}
	return Flatten(factors...).Expr()
}

// NewMul normalizes Go values with Sympify and multiplies them. It reports
// non-normalizable inputs and broken kernel invariants as errors instead of
// panicking, and builds nothing on failure.
func NewMul(args ...interface{}) (result Expr, err error) {
	factors := make([]Expr, len(args))
	for i, a := range args {
		e, err := Sympify(a)
		if err != nil {
			return nil, WrapError(err, CodeNonNormalizable, fmt.Sprintf("mul: argument %d", i))
		}
		factors[i] = e
	}
	defer recoverError(&err)
	return MulOf(factors...), nil
}

// DivOf returns a/b as a * b^-1.
func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, NegativeOne)) }

// NegOf returns -a.
func NegOf(a Expr) Expr { return MulOf(NegativeOne, a) }

func (m *Mul) Kind() Kind            { return KindMul }
func (m *Mul) Args() []Expr          { return slices.Clone(m.args) }
func (m *Mul) Hash() uint64          { return m.h }
func (m *Mul) Equal(other Expr) bool { return equalExpr(m, other) }
func (m *Mul) Factors() []Expr       { return slices.Clone(m.args) }

// ============================================================
// Coefficient splitting
// ============================================================

type coeffTerms struct {
	coeff *Num
	terms []Expr
}

// AsCoeffTerms separates the numeric coefficient from the symbolic factors.
func (m *Mul) AsCoeffTerms() (*Num, []Expr) {
	r := DefaultCache().Memo("as_coeff_terms", m, func() interface{} {
		if c, ok := m.args[0].(*Num); ok {
			return coeffTerms{coeff: c, terms: m.args[1:]}
		}
		return coeffTerms{coeff: One, terms: m.args}
	}).(coeffTerms)
	return r.coeff, slices.Clone(r.terms)
}

// AsCoeffTermsIn splits the factors into the product of those that do not
// mention x and the list of those that do.
func (m *Mul) AsCoeffTermsIn(x Expr) (Expr, []Expr) {
	var indep, dep []Expr
	for _, f := range m.args {
		if Has(f, x) {
			dep = append(dep, f)
		} else {
			indep = append(indep, f)
		}
	}
	return MulOf(indep...), dep
}

// AsTwoTerms returns the first factor and the product of the rest.
func (m *Mul) AsTwoTerms() (Expr, Expr) {
	r := DefaultCache().Memo("as_two_terms", m, func() interface{} {
		return [2]Expr{m.args[0], MulOf(m.args[1:]...)}
	}).([2]Expr)
	return r[0], r[1]
}

// AsPowersDict returns the factors as parallel base and exponent lists.
func (m *Mul) AsPowersDict() (bases, exps []Expr) {
	for _, f := range m.args {
		b, e := asBaseExp(f)
		bases = append(bases, b)
		exps = append(exps, e)
	}
	return bases, exps
}

// AsCoeffTerms splits any expression into a numeric coefficient and the
// remaining factors. Numbers have no remaining factors.
func AsCoeffTerms(e Expr) (*Num, []Expr) {
	switch v := e.(type) {
	case *Mul:
		return v.AsCoeffTerms()
	case *Num:
		return v, nil
	}
	return One, []Expr{e}
}

// CombineInverse returns 1 when lhs equals rhs and lhs/rhs otherwise.
func CombineInverse(lhs, rhs Expr) Expr {
	if equalExpr(lhs, rhs) {
		return One
	}
	return DivOf(lhs, rhs)
}

// MatchScaled matches a pattern of the form c*w, with w a single symbol,
// against expr and returns the binding w = expr/c.
func MatchScaled(pattern, expr Expr) (map[string]Expr, bool) {
	coeff, terms := AsCoeffTerms(pattern)
	if len(terms) != 1 {
		return nil, false
	}
	w, ok := terms[0].(*Sym)
	if !ok {
		return nil, false
	}
	return map[string]Expr{w.String(): MulOf(expr, numInv(coeff))}, true
}

// ============================================================
// Rendering
// ============================================================

func (m *Mul) precedence() int {
	if c, _ := m.AsCoeffTerms(); c.Sign() < 0 {
		return precAdd
	}
	return precMul
}

func (m *Mul) String() string { return m.render(0) }

func (m *Mul) render(level int) string {
	prec := m.precedence()
	coeff, terms := m.AsCoeffTerms()
	var r string
	if coeff.Sign() < 0 {
		coeff = numNeg(coeff)
		if !coeff.IsOne() {
			terms = append([]Expr{coeff}, terms...)
		}
		r = "-" + joinRendered(terms, prec)
	} else {
		r = joinRendered(m.args, prec)
	}
	r = strings.ReplaceAll(r, "*1/", "/")
	return parenthesize(r, prec, level)
}

func joinRendered(es []Expr, level int) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.render(level)
	}
	return strings.Join(parts, "*")
}

func (m *Mul) LaTeX() string {
	coeff, terms := m.AsCoeffTerms()
	sign := ""
	if coeff.Sign() < 0 {
		sign = "-"
		coeff = numNeg(coeff)
	}
	parts := make([]string, 0, len(terms)+1)
	if !coeff.IsOne() {
		parts = append(parts, coeff.LaTeX())
	}
	for _, f := range terms {
		if _, isAdd := f.(*Add); isAdd {
			parts = append(parts, `\left(`+f.LaTeX()+`\right)`)
		} else {
			parts = append(parts, f.LaTeX())
		}
	}
	return sign + strings.Join(parts, " ")
}

func (m *Mul) toJSON() map[string]interface{} {
	factors := make([]interface{}, len(m.args))
	for i, f := range m.args {
		factors[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": factors}
}
