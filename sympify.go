package symcore

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Sympify converts a Go value into an expression. Accepted inputs are
// expressions, Go integers and floats, *big.Int, *big.Rat, and strings
// holding a number ("3", "-2/3", "0.5", "oo", "nan"), a constant name or a
// symbol name. Anything else is an error; nothing is coerced.
func Sympify(v interface{}) (Expr, error) {
	switch x := v.(type) {
	case Expr:
		return x, nil
	case int:
		return N(int64(x)), nil
	case int8:
		return N(int64(x)), nil
	case int16:
		return N(int64(x)), nil
	case int32:
		return N(int64(x)), nil
	case int64:
		return N(x), nil
	case uint8:
		return N(int64(x)), nil
	case uint16:
		return N(int64(x)), nil
	case uint32:
		return N(int64(x)), nil
	case uint:
		return NRat(new(big.Rat).SetInt(new(big.Int).SetUint64(uint64(x)))), nil
	case uint64:
		return NRat(new(big.Rat).SetInt(new(big.Int).SetUint64(x))), nil
	case float32:
		return NFloat(float64(x)), nil
	case float64:
		return NFloat(x), nil
	case *big.Int:
		if x != nil {
			return NRat(new(big.Rat).SetInt(x)), nil
		}
	case *big.Rat:
		if x != nil {
			return NRat(x), nil
		}
	case string:
		return sympifyString(x)
	}
	return nil, NewError(CodeNonNormalizable, "cannot convert %T to an expression", v)
}

func sympifyString(s string) (Expr, error) {
	t := strings.TrimSpace(s)
	switch t {
	case "oo", "+oo", "inf":
		return Infinity, nil
	case "-oo", "-inf":
		return NegativeInfinity, nil
	case "nan", "NaN":
		return NaN, nil
	}
	if c, ok := constByName(t); ok {
		return c, nil
	}
	if identRe.MatchString(t) {
		return S(t), nil
	}
	n, err := parseNumber(t)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// parseNumber reads an integer or fraction exactly and anything with a
// decimal point or exponent as an inexact real.
func parseNumber(s string) (*Num, error) {
	if strings.ContainsAny(s, ".eE") {
		f, _, err := big.ParseFloat(s, 10, realPrec, big.ToNearestEven)
		if err != nil || f.IsInf() {
			return nil, NewError(CodeNonNormalizable, "invalid number %q", s)
		}
		return newReal(f), nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, NewError(CodeNonNormalizable, "invalid number %q", s)
	}
	return newRat(r), nil
}

// MustSympify is Sympify for literals known to be valid.
func MustSympify(v interface{}) Expr {
	e, err := Sympify(v)
	if err != nil {
		panic(fmt.Sprintf("symcore: %v", err))
	}
	return e
}
