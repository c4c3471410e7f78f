package symcore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/symcore"
)

func bigO(e symcore.Expr) *symcore.Order { return symcore.OrderOf(e, x) }

// ============================================================
// Order terms
// ============================================================

func TestOrder_DropsCoefficient(t *testing.T) {
	assertEqualExpr(t, bigO(pow(x, 2)), symcore.OrderOf(symcore.MulOf(symcore.N(5), pow(x, 2)), x))
	assertEqualExpr(t, bigO(x), symcore.OrderOf(symcore.AddOf(x, pow(x, 3)), x))
}

func TestOrder_Contains(t *testing.T) {
	o := bigO(pow(x, 2))
	assert.True(t, o.Contains(pow(x, 3)))
	assert.True(t, o.Contains(symcore.MulOf(y, pow(x, 2))))
	assert.False(t, o.Contains(x))
	assert.False(t, o.Contains(symcore.One))
	assert.True(t, bigO(symcore.One).Contains(symcore.N(7)))
	assert.True(t, o.Contains(bigO(pow(x, 4))))
}

func TestOrder_InfersEachSymbolOnce(t *testing.T) {
	o := symcore.OrderOf(symcore.MulOf(y, x, symcore.PowOf(symcore.SinOf(x), symcore.N(2))))
	syms := o.Symbols()
	require.Len(t, syms, 2)
	assertEqualExpr(t, x, syms[0])
	assertEqualExpr(t, y, syms[1])
}

func TestOrder_Render(t *testing.T) {
	assert.Equal(t, "O(x^3)", bigO(pow(x, 3)).String())
}

// ============================================================
// Leading terms
// ============================================================

func TestLeadingTerm(t *testing.T) {
	assertEqualExpr(t, symcore.MulOf(symcore.N(3), x),
		symcore.LeadingTerm(symcore.AddOf(pow(x, 2), symcore.MulOf(symcore.N(3), x)), x))
	assertEqualExpr(t, symcore.MulOf(symcore.N(2), x), symcore.LeadingTerm(symcore.SinOf(symcore.MulOf(symcore.N(2), x)), x))
	assertEqualExpr(t, symcore.One, symcore.LeadingTerm(symcore.AddOf(symcore.CosOf(x), x), x))
	assertEqualExpr(t, pow(x, 3), symcore.LeadingTerm(symcore.MulOf(x, pow(symcore.SinOf(x), 2)), x))
	assertEqualExpr(t, y, symcore.LeadingTerm(y, x))
}

func TestLeadingTerm_ErfOfSmallArgument(t *testing.T) {
	assertEqualExpr(t, x, symcore.LeadingTerm(symcore.ErfOf(x), x))
}

// ============================================================
// Series truncation
// ============================================================

func TestSeries_Exp(t *testing.T) {
	want := symcore.AddOf(symcore.One, x,
		symcore.MulOf(symcore.F(1, 2), pow(x, 2)),
		symcore.MulOf(symcore.F(1, 6), pow(x, 3)),
		bigO(pow(x, 4)))
	assertEqualExpr(t, want, symcore.Series(symcore.ExpOf(x), x, 4))
}

func TestSeries_Sin(t *testing.T) {
	want := symcore.AddOf(x, symcore.MulOf(symcore.F(-1, 6), pow(x, 3)), bigO(pow(x, 5)))
	assertEqualExpr(t, want, symcore.Series(symcore.SinOf(x), x, 5))
}

func TestSeries_Erf(t *testing.T) {
	want := symcore.AddOf(
		symcore.ErfTaylorTerm(1, x),
		symcore.ErfTaylorTerm(3, x),
		symcore.ErfTaylorTerm(5, x),
		bigO(pow(x, 6)),
	)
	assertEqualExpr(t, want, symcore.Series(symcore.ErfOf(x), x, 6))
}

func TestSeries_Polynomial(t *testing.T) {
	e := symcore.PowOf(symcore.AddOf(symcore.One, x), symcore.N(3))
	want := symcore.AddOf(symcore.One, symcore.MulOf(symcore.N(3), x), bigO(pow(x, 2)))
	assertEqualExpr(t, want, symcore.Series(e, x, 2))
}

func TestOSeries_ProductTruncatesEachFactor(t *testing.T) {
	got := symcore.OSeries(symcore.MulOf(x, symcore.ExpOf(x)), bigO(pow(x, 3)))
	assertEqualExpr(t, symcore.MulOf(x, symcore.AddOf(symcore.One, x)), got)
}

func TestOSeries_IndependentFactors(t *testing.T) {
	o := bigO(pow(x, 2))
	assertEqualExpr(t, symcore.MulOf(y, x), symcore.OSeries(symcore.MulOf(y, symcore.AddOf(x, pow(x, 2))), o))
	assertEqualExpr(t, symcore.Zero, symcore.OSeries(symcore.MulOf(y, pow(x, 3)), o))
	assertEqualExpr(t, symcore.MulOf(y, z), symcore.OSeries(symcore.MulOf(y, z), o))
}

// ============================================================
// erf
// ============================================================

func TestErf_SpecialValues(t *testing.T) {
	assertEqualExpr(t, symcore.Zero, symcore.ErfOf(symcore.Zero))
	assertEqualExpr(t, symcore.One, symcore.ErfOf(symcore.Infinity))
	assertEqualExpr(t, symcore.NegativeOne, symcore.ErfOf(symcore.NegativeInfinity))
	assertEqualExpr(t, symcore.NaN, symcore.ErfOf(symcore.NaN))
}

func TestErf_OddSymmetry(t *testing.T) {
	assertEqualExpr(t, symcore.NegOf(symcore.ErfOf(x)), symcore.ErfOf(symcore.NegOf(x)))
	assertEqualExpr(t, symcore.NegOf(symcore.ErfOf(symcore.MulOf(symcore.N(2), x))),
		symcore.ErfOf(symcore.MulOf(symcore.N(-2), x)))
	assertEqualExpr(t, symcore.NegOf(symcore.ErfOf(symcore.N(3))), symcore.ErfOf(symcore.N(-3)))
}

func TestErfTaylorTerm(t *testing.T) {
	invSqrtPi := symcore.PowOf(symcore.Pi, symcore.F(-1, 2))
	assertEqualExpr(t, symcore.Zero, symcore.ErfTaylorTerm(2, x))
	assertEqualExpr(t, symcore.MulOf(symcore.N(2), x, invSqrtPi), symcore.ErfTaylorTerm(1, x))
	assertEqualExpr(t, symcore.MulOf(symcore.F(-2, 3), pow(x, 3), invSqrtPi), symcore.ErfTaylorTerm(3, x))

	t1 := symcore.ErfTaylorTerm(1, x)
	viaRecurrence := symcore.ErfTaylorTerm(3, x, symcore.Zero, t1, symcore.Zero)
	assertEqualExpr(t, symcore.ErfTaylorTerm(3, x), viaRecurrence)
}
