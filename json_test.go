package symcore_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/symcore"
)

func decode(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestJSON_RoundTrip(t *testing.T) {
	A, B := symcore.NC("A"), symcore.NC("B")
	for _, e := range []symcore.Expr{
		symcore.MulOf(symcore.N(-3), x, pow(y, 2)),
		symcore.AddOf(symcore.SinOf(x), symcore.F(1, 3)),
		symcore.ExpOf(symcore.MulOf(symcore.N(2), x)),
		symcore.MulOf(symcore.Pi, p),
		symcore.MulOf(A, B),
		symcore.OrderOf(pow(x, 3), x),
		symcore.IntervalOf(symcore.Zero, symcore.One),
		symcore.Function("f", 2),
	} {
		s, err := symcore.ToJSON(e)
		require.NoError(t, err)
		got, err := symcore.FromJSON(decode(t, s))
		require.NoError(t, err, s)
		assertEqualExpr(t, e, got)
	}
}

func TestFromJSON_Canonicalizes(t *testing.T) {
	got, err := symcore.FromJSON(decode(t, `{"type":"mul","factors":[
		{"type":"sym","name":"x"},{"type":"num","value":"2"},{"type":"sym","name":"x"}]}`))
	require.NoError(t, err)
	assertEqualExpr(t, symcore.MulOf(symcore.N(2), pow(x, 2)), got)
}

func TestFromJSON_LegacyBigO(t *testing.T) {
	got, err := symcore.FromJSON(decode(t, `{"type":"bigo","var":"x","order":3}`))
	require.NoError(t, err)
	assertEqualExpr(t, symcore.OrderOf(pow(x, 3), x), got)
}

func TestFromJSON_Errors(t *testing.T) {
	for _, s := range []string{
		`{}`,
		`{"type":"nope"}`,
		`{"type":"pow","base":{"type":"sym","name":"x"}}`,
		`{"type":"num","value":"abc"}`,
		`{"type":"const","name":"tau"}`,
		`{"type":"add","terms":[1]}`,
		`{"type":"lambda","vars":[{"type":"num","value":"1"}],"body":{"type":"sym","name":"x"}}`,
	} {
		_, err := symcore.FromJSON(decode(t, s))
		require.Error(t, err, s)
		assert.True(t, symcore.IsCode(err, symcore.CodeInvalidRequest), s)
	}

	_, err := symcore.FromJSON(nil)
	assert.True(t, symcore.IsCode(err, symcore.CodeInvalidRequest))
}
