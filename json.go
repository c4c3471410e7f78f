package symcore

import (
	"encoding/json"
	"math/big"
)

// ============================================================
// JSON serialization
// ============================================================

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// JSONValue returns the decoded JSON form of e, ready to embed in a larger
// document.
func JSONValue(e Expr) map[string]interface{} { return e.toJSON() }

// FromJSON rebuilds an expression from its JSON object form. Every node is
// re-canonicalized on the way in. Kernel invariant failures raised while
// rebuilding are returned, not panicked.
func FromJSON(data map[string]interface{}) (result Expr, err error) {
	defer recoverError(&err)
	return fromJSON(data)
}

func invalid(format string, args ...interface{}) error {
	return NewError(CodeInvalidRequest, format, args...)
}

func fromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, invalid("expression must be an object")
	}
	typ, ok := data["type"].(string)
	if !ok || typ == "" {
		return nil, invalid("field 'type' must be a non-empty string")
	}

	subObj := func(field string) (Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, invalid("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, invalid("%s: %q must be an object", typ, field)
		}
		e, err := fromJSON(m)
		if err != nil {
			return nil, WrapError(err, CodeInvalidRequest, typ+": "+field)
		}
		return e, nil
	}

	subArray := func(field string) ([]Expr, error) {
		raw, ok := data[field].([]interface{})
		if !ok {
			return nil, invalid("%s: %q must be an array", typ, field)
		}
		out := make([]Expr, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, invalid("%s: %q[%d] must be an object", typ, field, i)
			}
			e, err := fromJSON(m)
			if err != nil {
				return nil, WrapError(err, CodeInvalidRequest, typ+": "+field)
			}
			out[i] = e
		}
		return out, nil
	}

	subSyms := func(field string) ([]*Sym, error) {
		es, err := subArray(field)
		if err != nil {
			return nil, err
		}
		out := make([]*Sym, len(es))
		for i, e := range es {
			s, ok := e.(*Sym)
			if !ok {
				return nil, invalid("%s: %q[%d] must be a symbol", typ, field, i)
			}
			out[i] = s
		}
		return out, nil
	}

	subString := func(field string) (string, error) {
		s, ok := data[field].(string)
		if !ok || s == "" {
			return "", invalid("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	switch typ {
	case "num":
		val, err := subString("value")
		if err != nil {
			return nil, err
		}
		if isReal, _ := data["real"].(bool); isReal {
			f, _, perr := big.ParseFloat(val, 10, realPrec, big.ToNearestEven)
			if perr != nil {
				return nil, invalid("invalid real value: %s", val)
			}
			return newReal(f), nil
		}
		n, err := sympifyString(val)
		if _, isNum := n.(*Num); err != nil || !isNum {
			return nil, invalid("invalid num value: %s", val)
		}
		return n, nil

	case "sym":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		var a Assumptions
		if m, ok := data["assumptions"].(map[string]interface{}); ok {
			flag := func(k string) bool { b, _ := m[k].(bool); return b }
			a = Assumptions{
				Positive:       flag("positive"),
				Negative:       flag("negative"),
				Integer:        flag("integer"),
				Even:           flag("even"),
				Odd:            flag("odd"),
				NonCommutative: flag("noncommutative"),
			}
		}
		return NewSymbol(name, a), nil

	case "const":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		c, ok := constByName(name)
		if !ok {
			return nil, invalid("unknown constant: %s", name)
		}
		return c, nil

	case "add":
		terms, err := subArray("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := subArray("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil

	case "pow":
		base, err := subObj("base")
		if err != nil {
			return nil, err
		}
		exp, err := subObj("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil

	case "func":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		if _, single := data["arg"]; single {
			arg, err := subObj("arg")
			if err != nil {
				return nil, err
			}
			return FuncOf(name, arg), nil
		}
		args, err := subArray("args")
		if err != nil {
			return nil, err
		}
		return FuncOf(name, args...), nil

	case "funcclass":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		nargs, ok := data["nargs"].(float64)
		if !ok {
			return nil, invalid("funcclass: 'nargs' must be a number")
		}
		return Function(name, int(nargs)), nil

	case "lambda":
		vars, err := subSyms("vars")
		if err != nil {
			return nil, err
		}
		body, err := subObj("body")
		if err != nil {
			return nil, err
		}
		return LambdaOf(vars, body), nil

	case "order":
		expr, err := subObj("expr")
		if err != nil {
			return nil, err
		}
		var syms []*Sym
		if _, ok := data["symbols"]; ok {
			if syms, err = subSyms("symbols"); err != nil {
				return nil, err
			}
		}
		return OrderOf(expr, syms...), nil

	case "bigo":
		name, err := subString("var")
		if err != nil {
			return nil, err
		}
		n, ok := data["order"].(float64)
		if !ok {
			return nil, invalid("bigo: 'order' must be a number")
		}
		x := S(name)
		return OrderOf(PowOf(x, N(int64(n))), x), nil

	case "interval":
		start, err := subObj("start")
		if err != nil {
			return nil, err
		}
		end, err := subObj("end")
		if err != nil {
			return nil, err
		}
		return IntervalOf(start, end), nil
	}
	return nil, invalid("unknown expression type: %s", typ)
}
