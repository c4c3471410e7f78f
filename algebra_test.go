package symcore_test

import (
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/symcore"
)

// ============================================================
// Numbers
// ============================================================

func TestNum_Render(t *testing.T) {
	assert.Equal(t, "42", symcore.N(42).String())
	assert.Equal(t, "1/3", symcore.F(2, 6).String())
	assert.Equal(t, "oo", symcore.Infinity.String())
	assert.Equal(t, "-oo", symcore.NegativeInfinity.String())
	assert.Equal(t, "nan", symcore.NaN.String())
	assert.Equal(t, "1.5", symcore.NFloat(1.5).String())
	assert.Equal(t, `\frac{2}{5}`, symcore.F(2, 5).LaTeX())
}

func TestNum_ExactPowers(t *testing.T) {
	assertEqualExpr(t, symcore.N(3), symcore.PowOf(symcore.N(9), symcore.Half))
	assertEqualExpr(t, symcore.F(1, 8), symcore.PowOf(symcore.N(2), symcore.N(-3)))
	assertEqualExpr(t, symcore.Infinity, symcore.PowOf(symcore.Zero, symcore.N(-1)))
	_, unevaluated := symcore.PowOf(symcore.N(2), symcore.Half).(*symcore.Pow)
	assert.True(t, unevaluated)
}

// ============================================================
// Pow
// ============================================================

func TestPow_Identities(t *testing.T) {
	assertEqualExpr(t, symcore.One, symcore.PowOf(x, symcore.Zero))
	assertEqualExpr(t, x, symcore.PowOf(x, symcore.One))
	assertEqualExpr(t, pow(x, 6), symcore.PowOf(pow(x, 2), symcore.N(3)))
	assertEqualExpr(t, symcore.ExpOf(x), symcore.PowOf(symcore.E, x))
}

func TestPow_OfProduct(t *testing.T) {
	assertEqualExpr(t, symcore.MulOf(pow(x, 2), pow(y, 2)), symcore.PowOf(symcore.MulOf(x, y), symcore.N(2)))
	assertEqualExpr(t, symcore.MulOf(symcore.N(9), pow(x, 2)), symcore.PowOf(symcore.MulOf(symcore.N(3), x), symcore.N(2)))
}

func TestPow_NegativeUnitUnderRationalPowerStays(t *testing.T) {
	got := symcore.PowOf(symcore.NegOf(x), symcore.Half)
	_, ok := got.(*symcore.Pow)
	assert.True(t, ok, "want unevaluated power, got %s", got)
}

func TestPow_EvenPowerDropsSign(t *testing.T) {
	k := symcore.NewSymbol("k", symcore.Assumptions{Integer: true, Even: true})
	got := symcore.PowOf(symcore.MulOf(symcore.N(-2), x), k)
	assertEqualExpr(t, symcore.PowOf(symcore.MulOf(symcore.N(2), x), k), got)
}

func TestPow_Render(t *testing.T) {
	assert.Equal(t, "x^2", pow(x, 2).String())
	assert.Equal(t, "1/x", pow(x, -1).String())
	assert.Equal(t, "(x + y)^2", symcore.PowOf(symcore.AddOf(x, y), symcore.N(2)).String())
	assert.Equal(t, `\sqrt{x}`, symcore.SqrtOf(x).LaTeX())
}

// ============================================================
// Add
// ============================================================

func TestAdd_CollectsLikeTerms(t *testing.T) {
	assertEqualExpr(t, symcore.MulOf(symcore.N(3), x), symcore.AddOf(x, x, x))
	assertEqualExpr(t, symcore.Zero, symcore.AddOf(x, symcore.NegOf(x)))
	assertEqualExpr(t, symcore.MulOf(symcore.N(5), x, y), symcore.AddOf(symcore.MulOf(symcore.N(2), x, y), symcore.MulOf(symcore.N(3), y, x)))
}

func TestAdd_PermutationInvariant(t *testing.T) {
	terms := []symcore.Expr{symcore.N(4), pow(x, 2), symcore.MulOf(symcore.N(-4), x), symcore.SinOf(y)}
	want := symcore.AddOf(terms...)
	permutations(terms, func(perm []symcore.Expr) {
		assertEqualExpr(t, want, symcore.AddOf(perm...))
	})
}

func TestAdd_NaN(t *testing.T) {
	assertEqualExpr(t, symcore.NaN, symcore.AddOf(x, symcore.NaN))
	assertEqualExpr(t, symcore.NaN, symcore.AddOf(symcore.Infinity, symcore.NegativeInfinity))
}

func TestAdd_OrderAbsorbsTerms(t *testing.T) {
	o := symcore.OrderOf(pow(x, 3), x)
	got := symcore.AddOf(symcore.One, x, pow(x, 4), symcore.MulOf(symcore.N(7), pow(x, 5)), o)
	assertEqualExpr(t, symcore.AddOf(symcore.One, x, o), got)
}

func TestAdd_Render(t *testing.T) {
	assert.Equal(t, "x - y", symcore.SubOf(x, y).String())
	assert.Equal(t, "x + y", symcore.AddOf(y, x).String())
}

func TestAdd_AsCoeffTerms(t *testing.T) {
	sum := symcore.AddOf(symcore.N(2), symcore.MulOf(symcore.N(4), x)).(*symcore.Add)
	c, terms := sum.AsCoeffTerms()
	assertEqualExpr(t, symcore.N(2), c)
	require.Len(t, terms, 1)
	assertEqualExpr(t, symcore.AddOf(symcore.One, symcore.MulOf(symcore.N(2), x)), terms[0])
}

// ============================================================
// Substitution
// ============================================================

func TestSubs_ScaledProduct(t *testing.T) {
	got := symcore.Subs(symcore.MulOf(symcore.N(2), a), symcore.MulOf(symcore.N(3), a), y)
	assertEqualExpr(t, symcore.MulOf(symcore.F(2, 3), y), got)
}

func TestSubs_ContiguousFactors(t *testing.T) {
	w := symcore.S("w")
	got := symcore.Subs(symcore.MulOf(x, y, z), symcore.MulOf(y, z), w)
	assertEqualExpr(t, symcore.MulOf(w, x), got)
}

func TestSubs_Symbol(t *testing.T) {
	e := symcore.AddOf(pow(x, 2), symcore.MulOf(symcore.N(3), x))
	assertEqualExpr(t, symcore.N(10), symcore.Subs(e, x, symcore.N(2)))
	assertEqualExpr(t, symcore.N(10), symcore.SubsMap(e, map[string]symcore.Expr{"x": symcore.N(2)}))
}

func TestSubs_FunctionClass(t *testing.T) {
	f := symcore.Function("f", 1)
	e := symcore.MulOf(symcore.N(2), symcore.FuncOf("f", x))
	got := symcore.Subs(e, f, symcore.LambdaOf([]*symcore.Sym{y}, pow(y, 2)))
	assertEqualExpr(t, symcore.MulOf(symcore.N(2), pow(x, 2)), got)
}

func TestSubs_BoundVariableUntouched(t *testing.T) {
	l := symcore.LambdaOf([]*symcore.Sym{x}, symcore.MulOf(x, y))
	assertEqualExpr(t, l, symcore.Subs(l, x, symcore.N(3)))
}

// ============================================================
// Expand
// ============================================================

func TestExpand_Square(t *testing.T) {
	got := symcore.Expand(symcore.PowOf(symcore.AddOf(x, y), symcore.N(2)))
	want := symcore.AddOf(pow(x, 2), symcore.MulOf(symcore.N(2), x, y), pow(y, 2))
	assertEqualExpr(t, want, got)
}

func TestExpand_Product(t *testing.T) {
	e := symcore.MulOf(symcore.AddOf(x, symcore.One), symcore.AddOf(x, symcore.NegativeOne))
	assertEqualExpr(t, symcore.AddOf(pow(x, 2), symcore.NegativeOne), symcore.Expand(e))
}

func TestExpand_DistributesPlainFactors(t *testing.T) {
	e := symcore.MulOf(x, y, symcore.AddOf(a, z))
	want := symcore.AddOf(symcore.MulOf(a, x, y), symcore.MulOf(x, y, z))
	assertEqualExpr(t, want, symcore.Expand(e))
}

func TestExpand_KeepsNonCommutativeOrder(t *testing.T) {
	A, B := symcore.NC("A"), symcore.NC("B")
	e := symcore.MulOf(A, symcore.AddOf(x, symcore.One), B)
	want := symcore.AddOf(symcore.MulOf(x, A, B), symcore.MulOf(A, B))
	assertEqualExpr(t, want, symcore.Expand(e))
}

func TestExpand_Idempotent(t *testing.T) {
	e := symcore.Expand(symcore.PowOf(symcore.AddOf(x, y, symcore.One), symcore.N(3)))
	assertEqualExpr(t, e, symcore.Expand(e))
}

// wideSum is x1 + ... + xk.
func wideSum(k int) symcore.Expr {
	terms := make([]symcore.Expr, k)
	for i := range terms {
		terms[i] = symcore.S(fmt.Sprintf("x%d", i+1))
	}
	return symcore.AddOf(terms...)
}

func TestExpandLimited_MatchesExpand(t *testing.T) {
	e := symcore.PowOf(symcore.AddOf(x, y, symcore.One), symcore.N(3))
	for _, l := range []symcore.Limits{symcore.DefaultLimits, {}} {
		got, err := symcore.ExpandLimited(e, l)
		require.NoError(t, err)
		assertEqualExpr(t, symcore.Expand(e), got)
	}
}

func TestExpandLimited_RejectsBeforeExpanding(t *testing.T) {
	e := symcore.PowOf(wideSum(6), symcore.N(40))
	start := time.Now()
	got, err := symcore.ExpandLimited(e, symcore.Limits{MaxNodes: 200})
	assert.Nil(t, got)
	assert.True(t, symcore.IsCode(err, symcore.CodeResourceExhausted), "got %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExpandLimited_ChecksResult(t *testing.T) {
	e := symcore.PowOf(symcore.AddOf(x, y), symcore.N(2))
	_, err := symcore.ExpandLimited(e, symcore.Limits{MaxNodes: 5})
	assert.True(t, symcore.IsCode(err, symcore.CodeResourceExhausted), "got %v", err)
}

// ============================================================
// Predicates
// ============================================================

func TestPredicates_Sign(t *testing.T) {
	m := symcore.NewSymbol("m", symcore.Assumptions{Negative: true})
	assert.Equal(t, symcore.True, symcore.IsPositive(symcore.MulOf(p, q)))
	assert.Equal(t, symcore.True, symcore.IsNegative(symcore.MulOf(n, p)))
	assert.Equal(t, symcore.True, symcore.IsPositive(symcore.MulOf(m, n)))
	assert.Equal(t, symcore.False, symcore.IsNegative(symcore.MulOf(p, q)))
	assert.Equal(t, symcore.Unknown, symcore.IsPositive(symcore.MulOf(symcore.N(-2), x)))
	assert.Equal(t, symcore.True, symcore.IsPositive(symcore.AddOf(p, q)))
}

func TestPredicates_Parity(t *testing.T) {
	k := symcore.NewSymbol("k", symcore.Assumptions{Integer: true})
	j := symcore.NewSymbol("j", symcore.Assumptions{Integer: true, Odd: true})
	i := symcore.NewSymbol("i", symcore.Assumptions{Integer: true, Odd: true})
	assert.Equal(t, symcore.True, symcore.IsEven(symcore.MulOf(symcore.N(2), k)))
	assert.Equal(t, symcore.True, symcore.IsOdd(symcore.MulOf(i, j)))
	assert.Equal(t, symcore.False, symcore.IsOdd(symcore.MulOf(symcore.N(2), j)))
	assert.Equal(t, symcore.Unknown, symcore.IsOdd(symcore.MulOf(k, j)))
}

func TestPredicates_Irrational(t *testing.T) {
	assert.Equal(t, symcore.True, symcore.IsIrrational(symcore.MulOf(symcore.N(2), symcore.Pi)))
	assert.Equal(t, symcore.False, symcore.IsIrrational(symcore.F(1, 2)))
}

func TestPredicates_Commutative(t *testing.T) {
	assert.True(t, symcore.IsCommutative(symcore.MulOf(x, y)))
	assert.False(t, symcore.IsCommutative(symcore.MulOf(x, symcore.NC("A"))))
}

// ============================================================
// Structural queries
// ============================================================

func TestCountOps(t *testing.T) {
	e := symcore.AddOf(symcore.MulOf(symcore.N(2), x), pow(y, 2))
	assert.Equal(t, 3, symcore.CountOps(e))
	assert.Equal(t, 0, symcore.CountOps(x))
	want := symcore.AddOf(symcore.S("ADD"), symcore.S("MUL"), symcore.S("POW"))
	assertEqualExpr(t, want, symcore.CountOpsSymbolic(e))
}

func TestAsNumerDenom(t *testing.T) {
	num, den := symcore.AsNumerDenom(symcore.MulOf(x, pow(y, -2), symcore.F(3, 5)))
	assertEqualExpr(t, symcore.MulOf(symcore.N(3), x), num)
	assertEqualExpr(t, symcore.MulOf(symcore.N(5), pow(y, 2)), den)

	num, den = symcore.AsNumerDenom(symcore.AddOf(pow(x, -1), pow(y, -1)))
	assertEqualExpr(t, symcore.AddOf(x, y), num)
	assertEqualExpr(t, symcore.MulOf(x, y), den)
}

func TestConjugate(t *testing.T) {
	assertEqualExpr(t, symcore.MulOf(symcore.N(2), symcore.Pi), symcore.Conjugate(symcore.MulOf(symcore.N(2), symcore.Pi)))
	cx := symcore.Conjugate(x)
	assert.Equal(t, "conjugate(x)", cx.String())
	assertEqualExpr(t, x, symcore.Conjugate(cx))
}

func TestIsPolynomial(t *testing.T) {
	assert.True(t, symcore.IsPolynomial(symcore.AddOf(pow(x, 2), symcore.MulOf(y, x)), x))
	assert.False(t, symcore.IsPolynomial(symcore.SinOf(x), x))
	assert.False(t, symcore.IsPolynomial(pow(x, -1), x))
	assert.True(t, symcore.IsPolynomial(symcore.SinOf(y), x))
}

func TestFreeSymbols(t *testing.T) {
	e := symcore.AddOf(symcore.MulOf(x, y), symcore.SinOf(z), symcore.Pi)
	got := symcore.FreeSymbols(e)
	assert.Equal(t, 3, got.Size())
	assert.True(t, got.Contains("z"))
}

// ============================================================
// Sympify
// ============================================================

func TestSympify(t *testing.T) {
	cases := []struct {
		in   interface{}
		want symcore.Expr
	}{
		{3, symcore.N(3)},
		{int64(-7), symcore.N(-7)},
		{"1/2", symcore.Half},
		{"x", x},
		{"oo", symcore.Infinity},
		{"pi", symcore.Pi},
		{big.NewRat(4, 6), symcore.F(2, 3)},
		{x, x},
	}
	for _, c := range cases {
		got, err := symcore.Sympify(c.in)
		require.NoError(t, err, "%v", c.in)
		assertEqualExpr(t, c.want, got)
	}
}

func TestSympify_Errors(t *testing.T) {
	for _, in := range []interface{}{nil, []int{1}, "1+", map[string]int{}} {
		_, err := symcore.Sympify(in)
		assert.True(t, symcore.IsCode(err, symcore.CodeNonNormalizable), "%v", in)
	}
}
