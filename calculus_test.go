package symcore_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/symcore"
)

// ============================================================
// Differentiation
// ============================================================

func TestDiff_ProductRule(t *testing.T) {
	got := symcore.Diff(symcore.MulOf(x, symcore.SinOf(x)), x)
	want := symcore.AddOf(symcore.SinOf(x), symcore.MulOf(x, symcore.CosOf(x)))
	assertEqualExpr(t, want, got)
}

func TestDiff_SkipsConstantFactors(t *testing.T) {
	assertEqualExpr(t, y, symcore.Diff(symcore.MulOf(y, x), x))
	assertEqualExpr(t, symcore.Zero, symcore.Diff(symcore.MulOf(y, z), x))
}

func TestDiff_PowerRule(t *testing.T) {
	assertEqualExpr(t, symcore.MulOf(symcore.N(3), pow(x, 2)), symcore.Diff(pow(x, 3), x))
	assertEqualExpr(t, symcore.MulOf(symcore.N(6), x), symcore.DiffN(pow(x, 3), x, 2))
}

func TestDiff_ChainRule(t *testing.T) {
	e := symcore.ExpOf(symcore.MulOf(symcore.N(2), x))
	assertEqualExpr(t, symcore.MulOf(symcore.N(2), e), symcore.Diff(e, x))
}

func TestDiff_Erf(t *testing.T) {
	want := symcore.MulOf(symcore.N(2), symcore.ExpOf(symcore.NegOf(pow(x, 2))), symcore.PowOf(symcore.Pi, symcore.F(-1, 2)))
	assertEqualExpr(t, want, symcore.Diff(symcore.ErfOf(x), x))
}

func TestFDiff_BadIndex(t *testing.T) {
	f := symcore.SinOf(x).(*symcore.Func)
	_, err := f.FDiff(2)
	require.Error(t, err)
	assert.Equal(t, symcore.CodeInvalidArgumentIndex, symcore.CodeOf(err))
}

// ============================================================
// Integration
// ============================================================

func TestIntegrate_Power(t *testing.T) {
	got, ok := symcore.Integrate(pow(x, 2), x)
	require.True(t, ok)
	assertEqualExpr(t, symcore.MulOf(symcore.F(1, 3), pow(x, 3)), got)

	got, ok = symcore.Integrate(pow(x, -1), x)
	require.True(t, ok)
	assertEqualExpr(t, symcore.LnOf(x), got)
}

func TestIntegrate_PullsConstants(t *testing.T) {
	got, ok := symcore.Integrate(symcore.MulOf(symcore.N(3), symcore.ExpOf(symcore.MulOf(symcore.N(2), x))), x)
	require.True(t, ok)
	assertEqualExpr(t, symcore.MulOf(symcore.F(3, 2), symcore.ExpOf(symcore.MulOf(symcore.N(2), x))), got)
}

func TestIntegrate_ByParts(t *testing.T) {
	for _, f := range []symcore.Expr{
		symcore.MulOf(x, symcore.SinOf(x)),
		symcore.MulOf(x, symcore.ExpOf(x)),
		symcore.MulOf(pow(x, 2), symcore.CosOf(x)),
	} {
		anti, ok := symcore.Integrate(f, x)
		require.True(t, ok, "integrate %s", f)
		assertEqualExpr(t, f, symcore.Expand(symcore.Diff(anti, x)))
	}
}

func TestIntegrate_Unsupported(t *testing.T) {
	_, ok := symcore.Integrate(symcore.SinOf(pow(x, 2)), x)
	assert.False(t, ok)
}

func TestIntegrateDefinite(t *testing.T) {
	got, ok := symcore.IntegrateDefinite(pow(x, 2), x, symcore.Zero, symcore.One)
	require.True(t, ok)
	assertEqualExpr(t, symcore.F(1, 3), got)

	got, ok = symcore.IntegrateDefinite(symcore.MulOf(x, symcore.ExpOf(x)), x, symcore.Zero, symcore.One)
	require.True(t, ok)
	assertEqualExpr(t, symcore.One, got)
}

func TestNIntegrate(t *testing.T) {
	assert.InDelta(t, 1.0/3, symcore.NIntegrate(pow(x, 2), x, 0, 1), 1e-8)
	assert.InDelta(t, 2.0, symcore.NIntegrate(symcore.SinOf(x), x, 0, math.Pi), 1e-8)
}

func TestEvalFloat(t *testing.T) {
	v, ok := symcore.EvalFloat(symcore.MulOf(symcore.N(2), symcore.Pi))
	require.True(t, ok)
	assert.InDelta(t, 2*math.Pi, v, 1e-12)

	_, ok = symcore.EvalFloat(symcore.AddOf(x, symcore.One))
	assert.False(t, ok)
}
