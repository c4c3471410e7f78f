package symcore

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/slices"
)

// ============================================================
// Func: applied functions
// ============================================================

type Func struct {
	name string
	args []Expr
	h    uint64
}

func newFunc(name string, args []Expr) *Func {
	return &Func{name: name, args: args, h: hashNode(KindFunc, name, args)}
}

type builtin struct {
	float func(float64) float64
	deriv func(x Expr) Expr
	latex string
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"exp": {math.Exp, func(x Expr) Expr { return ExpOf(x) }, `\exp`},
		"ln":  {math.Log, func(x Expr) Expr { return PowOf(x, NegativeOne) }, `\ln`},
		"sin": {math.Sin, func(x Expr) Expr { return CosOf(x) }, `\sin`},
		"cos": {math.Cos, func(x Expr) Expr { return NegOf(SinOf(x)) }, `\cos`},
		"erf": {math.Erf, erfDeriv, `\operatorname{erf}`},
	}
}

// FuncOf applies the named function. Built-in names canonicalize their
// argument; any other name gives an undefined function.
func FuncOf(name string, args ...Expr) Expr {
	if len(args) == 1 {
		switch name {
		case "exp":
			return ExpOf(args[0])
		case "ln", "log":
			return LnOf(args[0])
		case "sin":
			return SinOf(args[0])
		case "cos":
			return CosOf(args[0])
		case "erf":
			return ErfOf(args[0])
		}
	}
	return newFunc(name, slices.Clone(args))
}

func realArg(arg Expr, name string) (Expr, bool) {
	if n, ok := arg.(*Num); ok && n.IsReal() {
		return NFloat(builtins[name].float(n.Float64())), true
	}
	return nil, false
}

func ExpOf(arg Expr) Expr {
	if r, ok := realArg(arg, "exp"); ok {
		return r
	}
	switch a := arg.(type) {
	case *Num:
		switch {
		case a.IsNaN():
			return NaN
		case a.IsZero():
			return One
		case a.IsOne():
			return E
		case a == Infinity:
			return Infinity
		case a == NegativeInfinity:
			return Zero
		}
	case *Func:
		if a.name == "ln" {
			return a.args[0]
		}
	}
	return newFunc("exp", []Expr{arg})
}

func LnOf(arg Expr) Expr {
	if n, ok := arg.(*Num); ok && n.IsReal() && n.Sign() > 0 {
		return NFloat(math.Log(n.Float64()))
	}
	switch a := arg.(type) {
	case *Num:
		switch {
		case a.IsNaN():
			return NaN
		case a.IsOne():
			return Zero
		case a.IsZero(), a == Infinity:
			return Infinity
		}
	case *Const:
		if a == E {
			return One
		}
	}
	return newFunc("ln", []Expr{arg})
}

func SinOf(arg Expr) Expr {
	if r, ok := realArg(arg, "sin"); ok {
		return r
	}
	if n, ok := arg.(*Num); ok && n.IsZero() {
		return Zero
	}
	if c, _ := AsCoeffTerms(arg); c.Sign() < 0 {
		return NegOf(SinOf(NegOf(arg)))
	}
	return newFunc("sin", []Expr{arg})
}

func CosOf(arg Expr) Expr {
	if r, ok := realArg(arg, "cos"); ok {
		return r
	}
	if n, ok := arg.(*Num); ok && n.IsZero() {
		return One
	}
	if c, _ := AsCoeffTerms(arg); c.Sign() < 0 {
		return CosOf(NegOf(arg))
	}
	return newFunc("cos", []Expr{arg})
}

func (f *Func) Kind() Kind            { return KindFunc }
func (f *Func) Args() []Expr          { return slices.Clone(f.args) }
func (f *Func) Hash() uint64          { return f.h }
func (f *Func) Equal(other Expr) bool { return equalExpr(f, other) }
func (f *Func) Name() string          { return f.name }
func (f *Func) precedence() int       { return precAtom }
func (f *Func) String() string        { return f.render(0) }

func (f *Func) render(level int) string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.render(0)
	}
	return f.name + "(" + strings.Join(parts, ", ") + ")"
}

func (f *Func) LaTeX() string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.LaTeX()
	}
	inner := strings.Join(parts, ", ")
	if f.name == "exp" {
		return "e^{" + inner + "}"
	}
	if b, ok := builtins[f.name]; ok {
		return b.latex + `\left(` + inner + `\right)`
	}
	return `\operatorname{` + f.name + `}\left(` + inner + `\right)`
}

// FDiff is the derivative of f with respect to its argIndex-th argument,
// counting from 1.
func (f *Func) FDiff(argIndex int) (Expr, error) {
	if argIndex < 1 || argIndex > len(f.args) {
		return nil, NewError(CodeInvalidArgumentIndex, "%s has no argument %d", f.name, argIndex)
	}
	if b, ok := builtins[f.name]; ok && len(f.args) == 1 {
		return b.deriv(f.args[0]), nil
	}
	if len(f.args) == 1 {
		return newFunc("D["+f.name+"]", f.Args()), nil
	}
	return newFunc(fmt.Sprintf("D%d[%s]", argIndex, f.name), f.Args()), nil
}

func (f *Func) toJSON() map[string]interface{} {
	args := make([]interface{}, len(f.args))
	for i, a := range f.args {
		args[i] = a.toJSON()
	}
	return map[string]interface{}{"type": "func", "name": f.name, "args": args}
}

// ============================================================
// FuncClass: unapplied functions of fixed arity
// ============================================================

type FuncClass struct {
	name  string
	nargs int
	h     uint64
}

// Function returns the unapplied function name of nargs arguments; a
// negative nargs means any number of arguments.
func Function(name string, nargs int) *FuncClass {
	return &FuncClass{name: name, nargs: nargs, h: hashLeaf(KindFuncClass, name, fmt.Sprint(nargs))}
}

func (f *FuncClass) Kind() Kind                { return KindFuncClass }
func (f *FuncClass) Args() []Expr              { return nil }
func (f *FuncClass) Hash() uint64              { return f.h }
func (f *FuncClass) Equal(other Expr) bool     { return equalExpr(f, other) }
func (f *FuncClass) Name() string              { return f.name }
func (f *FuncClass) NArgs() int                { return f.nargs }
func (f *FuncClass) String() string            { return f.name }
func (f *FuncClass) LaTeX() string             { return `\operatorname{` + f.name + "}" }
func (f *FuncClass) precedence() int           { return precAtom }
func (f *FuncClass) render(level int) string   { return f.name }
func (f *FuncClass) Call(args ...Expr) Expr    { return FuncOf(f.name, args...) }

func (f *FuncClass) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "funcclass", "name": f.name, "nargs": f.nargs}
}

// withDummyArguments applies f to the shared dummy arguments, creating them
// on first use.
func (f *FuncClass) withDummyArguments(args []*Sym) (Expr, []*Sym) {
	if args == nil {
		args = make([]*Sym, f.nargs)
		for i := range args {
			args[i] = NewDummy(fmt.Sprintf("x%d", i+1))
		}
	} else if len(args) != f.nargs {
		panic(NewError(CodeArityMismatch, "%s takes %d arguments, product is bound to %d", f.name, f.nargs, len(args)))
	}
	es := make([]Expr, len(args))
	for i, a := range args {
		es[i] = a
	}
	return f.Call(es...), args
}

// ============================================================
// Lambda
// ============================================================

type Lambda struct {
	vars []*Sym
	body Expr
	h    uint64
}

func LambdaOf(vars []*Sym, body Expr) Expr {
	l := &Lambda{vars: slices.Clone(vars), body: body}
	l.h = hashNode(KindLambda, "", l.Args())
	return l
}

func (l *Lambda) Kind() Kind            { return KindLambda }
func (l *Lambda) Hash() uint64          { return l.h }
func (l *Lambda) Equal(other Expr) bool { return equalExpr(l, other) }
func (l *Lambda) Body() Expr            { return l.body }
func (l *Lambda) Vars() []*Sym          { return slices.Clone(l.vars) }
func (l *Lambda) precedence() int       { return precAtom }
func (l *Lambda) String() string        { return l.render(0) }

func (l *Lambda) Args() []Expr {
	out := make([]Expr, 0, len(l.vars)+1)
	for _, v := range l.vars {
		out = append(out, v)
	}
	return append(out, l.body)
}

// Call substitutes args for the bound variables.
func (l *Lambda) Call(args ...Expr) (Expr, error) {
	if len(args) != len(l.vars) {
		return nil, NewError(CodeArityMismatch, "lambda takes %d arguments, got %d", len(l.vars), len(args))
	}
	out := l.body
	for i, v := range l.vars {
		out = Subs(out, v, args[i])
	}
	return out, nil
}

func (l *Lambda) render(level int) string {
	names := make([]string, len(l.vars))
	for i, v := range l.vars {
		names[i] = v.String()
	}
	return "Lambda((" + strings.Join(names, ", ") + "), " + l.body.render(0) + ")"
}

func (l *Lambda) LaTeX() string {
	names := make([]string, len(l.vars))
	for i, v := range l.vars {
		names[i] = v.LaTeX()
	}
	return `\left(` + strings.Join(names, ", ") + `\mapsto ` + l.body.LaTeX() + `\right)`
}

func (l *Lambda) toJSON() map[string]interface{} {
	vars := make([]interface{}, len(l.vars))
	for i, v := range l.vars {
		vars[i] = v.toJSON()
	}
	return map[string]interface{}{"type": "lambda", "vars": vars, "body": l.body.toJSON()}
}
