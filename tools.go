package symcore

import (
	"encoding/json"
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

// ============================================================
// MCP tool interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	Code   ErrorCode   `json:"code,omitempty"`
}

// HandleToolCall runs one tool call under DefaultLimits.
func HandleToolCall(req ToolRequest) ToolResponse {
	return HandleToolCallLimited(req, DefaultLimits)
}

// HandleToolCallLimited runs one tool call. Every expression decoded from
// the request, and every expanded result, is checked against limits.
// Kernel errors come back in the response, never as panics.
func HandleToolCallLimited(req ToolRequest, limits Limits) (resp ToolResponse) {
	defer func() {
		if rec := recover(); rec != nil {
			e, ok := rec.(*Error)
			if !ok {
				panic(rec)
			}
			resp = failure(e)
		}
	}()
	t := &toolCall{params: req.Params, limits: limits}
	handler, ok := toolHandlers[req.Tool]
	if !ok {
		return failure(NewError(CodeUnknownTool, "unknown tool: %s", req.Tool))
	}
	resp, err := handler(t)
	if err != nil {
		return failure(err)
	}
	return resp
}

func failure(err error) ToolResponse {
	code := CodeOf(err)
	if code == "" {
		code = CodeInvalidRequest
	}
	return ToolResponse{Error: err.Error(), Code: code}
}

func respond(e Expr) ToolResponse {
	return ToolResponse{Result: e.toJSON(), LaTeX: LaTeX(e), String: String(e)}
}

type toolCall struct {
	params map[string]interface{}
	limits Limits
}

func (t *toolCall) raw(key string) (interface{}, error) {
	v, ok := t.params[key]
	if !ok {
		return nil, NewError(CodeInvalidRequest, "missing param: %s", key)
	}
	return v, nil
}

// expr decodes an expression param: a JSON expression object, or a
// literal number or string accepted by Sympify.
func (t *toolCall) expr(key string) (Expr, error) {
	v, err := t.raw(key)
	if err != nil {
		return nil, err
	}
	return t.value(key, v)
}

func (t *toolCall) value(key string, v interface{}) (Expr, error) {
	var e Expr
	var err error
	switch x := v.(type) {
	case map[string]interface{}:
		e, err = FromJSON(x)
	case float64:
		e, err = Sympify(jsonNumber(x))
	default:
		e, err = Sympify(v)
	}
	if err != nil {
		return nil, WrapError(err, CodeOf(err), "param "+key)
	}
	if err := t.limits.Check(e); err != nil {
		return nil, err
	}
	return e, nil
}

// jsonNumber keeps whole JSON numbers exact.
func jsonNumber(f float64) interface{} {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

func (t *toolCall) exprList(key string) ([]Expr, error) {
	v, err := t.raw(key)
	if err != nil {
		return nil, err
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, NewError(CodeInvalidRequest, "param %s must be an array", key)
	}
	out := make([]Expr, len(raw))
	for i, r := range raw {
		e, err := t.value(fmt.Sprintf("%s[%d]", key, i), r)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// symbol accepts a symbol name or a symbol expression object.
func (t *toolCall) symbol(key string) (*Sym, error) {
	v, err := t.raw(key)
	if err != nil {
		return nil, err
	}
	if name, ok := v.(string); ok {
		if !identRe.MatchString(name) {
			return nil, NewError(CodeInvalidRequest, "param %s: %q is not a symbol name", key, name)
		}
		return S(name), nil
	}
	e, err := t.value(key, v)
	if err != nil {
		return nil, err
	}
	s, ok := e.(*Sym)
	if !ok {
		return nil, NewError(CodeInvalidRequest, "param %s must be a symbol", key)
	}
	return s, nil
}

func (t *toolCall) number(key string) (float64, error) {
	v, err := t.raw(key)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, NewError(CodeInvalidRequest, "param %s must be a number", key)
	}
	return f, nil
}

func (t *toolCall) integer(key string, def int) (int, error) {
	if _, ok := t.params[key]; !ok {
		return def, nil
	}
	f, err := t.number(key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, NewError(CodeInvalidRequest, "param %s must be a non-negative integer", key)
	}
	return int(f), nil
}

func (t *toolCall) checked(e Expr) (ToolResponse, error) {
	if err := t.limits.Check(e); err != nil {
		return ToolResponse{}, err
	}
	return respond(e), nil
}

type toolHandler func(t *toolCall) (ToolResponse, error)

var toolHandlers map[string]toolHandler

func init() {
	toolHandlers = map[string]toolHandler{
		"mul":                toolMul,
		"add":                toolAdd,
		"pow":                toolPow,
		"expand":             toolExpand,
		"diff":               toolDiff,
		"integrate":          toolIntegrate,
		"definite_integrate": toolDefiniteIntegrate,
		"nintegrate":         toolNIntegrate,
		"substitute":         toolSubstitute,
		"series":             toolSeries,
		"leading_term":       toolLeadingTerm,
		"count_ops":          toolCountOps,
		"free_symbols":       toolFreeSymbols,
		"render":             toolRender,
		"latex":              toolLaTeX,
		"erf_taylor":         toolErfTaylor,
		"tool_spec": func(*toolCall) (ToolResponse, error) {
			return ToolResponse{Result: ToolSpec(), String: "tool specification"}, nil
		},
	}
}

func toolMul(t *toolCall) (ToolResponse, error) {
	fs, err := t.exprList("factors")
	if err != nil {
		return ToolResponse{}, err
	}
	args := make([]interface{}, len(fs))
	for i, f := range fs {
		args[i] = f
	}
	r, err := NewMul(args...)
	if err != nil {
		return ToolResponse{}, err
	}
	return respond(r), nil
}

func toolAdd(t *toolCall) (ToolResponse, error) {
	ts, err := t.exprList("terms")
	if err != nil {
		return ToolResponse{}, err
	}
	return respond(AddOf(ts...)), nil
}

func toolPow(t *toolCall) (ToolResponse, error) {
	b, err := t.expr("base")
	if err != nil {
		return ToolResponse{}, err
	}
	e, err := t.expr("exp")
	if err != nil {
		return ToolResponse{}, err
	}
	return respond(PowOf(b, e)), nil
}

func toolExpand(t *toolCall) (ToolResponse, error) {
	e, err := t.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	out, err := ExpandLimited(e, t.limits)
	if err != nil {
		return ToolResponse{}, err
	}
	return respond(out), nil
}

func toolDiff(t *toolCall) (ToolResponse, error) {
	e, err := t.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	x, err := t.symbol("var")
	if err != nil {
		return ToolResponse{}, err
	}
	n, err := t.integer("n", 1)
	if err != nil {
		return ToolResponse{}, err
	}
	return t.checked(DiffN(e, x, n))
}

func toolIntegrate(t *toolCall) (ToolResponse, error) {
	e, err := t.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	x, err := t.symbol("var")
	if err != nil {
		return ToolResponse{}, err
	}
	r, ok := Integrate(e, x)
	if !ok {
		return ToolResponse{}, NewError(CodeInvalidRequest, "integration failed: unsupported form")
	}
	return respond(r), nil
}

func toolDefiniteIntegrate(t *toolCall) (ToolResponse, error) {
	e, err := t.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	x, err := t.symbol("var")
	if err != nil {
		return ToolResponse{}, err
	}
	a, err := t.expr("a")
	if err != nil {
		return ToolResponse{}, err
	}
	b, err := t.expr("b")
	if err != nil {
		return ToolResponse{}, err
	}
	r, ok := IntegrateDefinite(e, x, a, b)
	if !ok {
		return ToolResponse{}, NewError(CodeInvalidRequest, "integration failed: unsupported form")
	}
	return respond(r), nil
}

func toolNIntegrate(t *toolCall) (ToolResponse, error) {
	e, err := t.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	x, err := t.symbol("var")
	if err != nil {
		return ToolResponse{}, err
	}
	a, err := t.number("a")
	if err != nil {
		return ToolResponse{}, err
	}
	b, err := t.number("b")
	if err != nil {
		return ToolResponse{}, err
	}
	r := NIntegrate(e, x, a, b)
	return ToolResponse{Result: r, String: fmt.Sprintf("%.10g", r)}, nil
}

// toolSubstitute replaces old with new; var and value are accepted as the
// older spelling for a symbol replacement.
func toolSubstitute(t *toolCall) (ToolResponse, error) {
	e, err := t.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	var old Expr
	if _, ok := t.params["var"]; ok {
		if old, err = t.symbol("var"); err != nil {
			return ToolResponse{}, err
		}
	} else if old, err = t.expr("old"); err != nil {
		return ToolResponse{}, err
	}
	key := "new"
	if _, ok := t.params["value"]; ok {
		key = "value"
	}
	repl, err := t.expr(key)
	if err != nil {
		return ToolResponse{}, err
	}
	return t.checked(Subs(e, old, repl))
}

func toolSeries(t *toolCall) (ToolResponse, error) {
	e, err := t.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	x, err := t.symbol("var")
	if err != nil {
		return ToolResponse{}, err
	}
	n, err := t.integer("n", 6)
	if err != nil {
		return ToolResponse{}, err
	}
	return t.checked(Series(e, x, n))
}

func toolLeadingTerm(t *toolCall) (ToolResponse, error) {
	e, err := t.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	x, err := t.symbol("var")
	if err != nil {
		return ToolResponse{}, err
	}
	return respond(LeadingTerm(e, x)), nil
}

func toolCountOps(t *toolCall) (ToolResponse, error) {
	e, err := t.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	if symbolic, _ := t.params["symbolic"].(bool); symbolic {
		return respond(CountOpsSymbolic(e)), nil
	}
	n := CountOps(e)
	return ToolResponse{Result: n, String: fmt.Sprint(n)}, nil
}

func toolFreeSymbols(t *toolCall) (ToolResponse, error) {
	e, err := t.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	names := FreeSymbols(e).Slice()
	slices.Sort(names)
	return ToolResponse{Result: names, String: fmt.Sprint(names)}, nil
}

func toolRender(t *toolCall) (ToolResponse, error) {
	e, err := t.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	return ToolResponse{String: String(e)}, nil
}

func toolLaTeX(t *toolCall) (ToolResponse, error) {
	e, err := t.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	return ToolResponse{LaTeX: LaTeX(e), String: String(e)}, nil
}

func toolErfTaylor(t *toolCall) (ToolResponse, error) {
	n, err := t.integer("n", 0)
	if err != nil {
		return ToolResponse{}, err
	}
	x, err := t.expr("x")
	if err != nil {
		return ToolResponse{}, err
	}
	return respond(ErfTaylorTerm(n, x)), nil
}

// ============================================================
// Tool schema
// ============================================================

// ToolSpec returns the JSON schema of every tool, for agent registration.
func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("mul", "Canonical product of factors", []string{"factors"}, map[string]string{"factors": "array"}),
		ts("add", "Canonical sum of terms", []string{"terms"}, map[string]string{"terms": "array"}),
		ts("pow", "base^exp with product power rules", []string{"base", "exp"}, map[string]string{"base": "object", "exp": "object"}),
		ts("expand", "Distribute products over sums", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("diff", "n-th derivative (default 1)", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string", "n": "integer"}),
		ts("integrate", "Antiderivative (rule table and integration by parts)", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}),
		ts("definite_integrate", "Exact integral over [a, b]", []string{"expr", "var", "a", "b"}, map[string]string{"expr": "object", "var": "string", "a": "object", "b": "object"}),
		ts("nintegrate", "Gauss-Legendre integral over [a, b]", []string{"expr", "var", "a", "b"}, map[string]string{"expr": "object", "var": "string", "a": "number", "b": "number"}),
		ts("substitute", "Replace old with new", []string{"expr", "old", "new"}, map[string]string{"expr": "object", "old": "object", "new": "object"}),
		ts("series", "Expansion around 0 up to O(var^n) (default 6)", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string", "n": "integer"}),
		ts("leading_term", "Dominant term as var -> 0", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}),
		ts("count_ops", "Operation count; symbolic=true returns ADD/MUL/POW counts", []string{"expr"}, map[string]string{"expr": "object", "symbolic": "boolean"}),
		ts("free_symbols", "Sorted free symbol names", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("render", "Canonical text form", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("latex", "LaTeX form", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("erf_taylor", "n-th Maclaurin term of erf(x)", []string{"n", "x"}, map[string]string{"n": "integer", "x": "object"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}

// ToolNames lists the registered tools in sorted order.
func ToolNames() []string {
	names := make([]string, 0, len(toolHandlers))
	for name := range toolHandlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
