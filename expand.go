package symcore

import "go.uber.org/zap"

// maxExpandPower caps the integer power of a sum that Expand multiplies out.
const maxExpandPower = 64

// expander carries the work bound of one expansion. maxTerms caps the term
// products a single distribution step may form; zero leaves it unbounded.
type expander struct {
	maxTerms int
}

// Expand distributes products over sums and multiplies out positive integer
// powers of sums, recursively.
func Expand(e Expr) Expr {
	return expander{}.expand(e)
}

// ExpandLimited is Expand bounded by l. A distribution step that would form
// more than l.MaxNodes term products fails with CodeResourceExhausted before
// doing the work, and the finished result is checked against l.
func ExpandLimited(e Expr, l Limits) (result Expr, err error) {
	defer recoverError(&err)
	result = expander{maxTerms: l.MaxNodes}.expand(e)
	if err = l.Check(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (ex expander) expand(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		return ex.expandBasic(v)
	case *Add:
		return AddOf(ex.expandEach(v.args)...)
	case *Pow:
		base := ex.expand(v.base)
		if add, ok := base.(*Add); ok {
			if n, ok := v.exp.(*Num); ok && n.IsInteger() && n.Sign() > 0 && n.rat.Num().IsInt64() && n.rat.Num().Int64() <= maxExpandPower {
				k := int(n.rat.Num().Int64())
				sums := make([][]Expr, k)
				for i := range sums {
					sums[i] = add.args
				}
				return AddOf(ex.expandSums(sums)...)
			}
		}
		return PowOf(base, ex.expand(v.exp))
	case *Func:
		return FuncOf(v.name, ex.expandEach(v.args)...)
	case *Lambda:
		return LambdaOf(v.vars, ex.expand(v.body))
	case *Order:
		return OrderOf(ex.expand(v.expr), v.syms...)
	case *Interval:
		return IntervalOf(ex.expand(v.start), ex.expand(v.end))
	}
	return e
}

func (ex expander) expandEach(es []Expr) []Expr {
	out := make([]Expr, len(es))
	for i, a := range es {
		out[i] = ex.expand(a)
	}
	return out
}

// expandBasic multiplies the plain commutative factors together and
// distributes them over the cross product of the sum factors. A
// non-commutative factor is carried as a one-term sum to keep its place.
func (ex expander) expandBasic(m *Mul) Expr {
	plain := Expr(One)
	var sums [][]Expr
	for _, f := range m.args {
		f = ex.expand(f)
		switch {
		case isAdd(f):
			sums = append(sums, f.(*Add).args)
		case IsCommutative(f):
			plain = MulOf(plain, f)
		default:
			sums = append(sums, []Expr{f})
		}
	}
	if len(sums) == 0 {
		return plain
	}
	terms := ex.expandSums(sums)
	out := make([]Expr, len(terms))
	for i, t := range terms {
		out[i] = MulOf(plain, t)
	}
	return AddOf(out...)
}

func isAdd(e Expr) bool {
	_, ok := e.(*Add)
	return ok
}

// expandSums multiplies out a product of sums by splitting the list in
// half. The running sum is re-collected after each left term to keep it
// small.
func (ex expander) expandSums(sums [][]Expr) []Expr {
	if len(sums) == 1 {
		return sums[0]
	}
	mid := len(sums) / 2
	left := ex.expandSums(sums[:mid])
	right := ex.expandSums(sums[mid:])
	if len(left) == 1 && len(right) == 1 {
		return []Expr{MulOf(left[0], right[0])}
	}
	if ex.maxTerms > 0 && len(left)*len(right) > ex.maxTerms {
		log().Debug("expansion rejected", zap.Int("left", len(left)), zap.Int("right", len(right)), zap.Int("max_terms", ex.maxTerms))
		panic(NewError(CodeResourceExhausted, "expansion needs %d term products, more than %d", len(left)*len(right), ex.maxTerms))
	}
	var terms []Expr
	for _, a := range left {
		for _, b := range right {
			terms = append(terms, ex.expand(MulOf(a, b)))
		}
		sum := AddOf(terms...)
		if add, ok := sum.(*Add); ok {
			terms = add.Terms()
		} else {
			terms = []Expr{sum}
		}
	}
	return terms
}
