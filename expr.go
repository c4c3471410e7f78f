// Package symcore is the canonicalization core of a small symbolic algebra
// engine: immutable expression trees whose products are reduced to a unique
// ordered form at construction time.
package symcore

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	set "github.com/hashicorp/go-set/v3"
)

// ============================================================
// Core interface
// ============================================================

// Kind tags the concrete node type. Its numeric value is the first key of
// the total order used by Compare.
type Kind uint8

const (
	KindNum Kind = iota
	KindConst
	KindFuncClass
	KindFunc
	KindLambda
	KindSym
	KindPow
	KindMul
	KindAdd
	KindOrder
	KindInterval
)

var kindNames = [...]string{
	KindNum:       "num",
	KindConst:     "const",
	KindFuncClass: "funcclass",
	KindFunc:      "func",
	KindLambda:    "lambda",
	KindSym:       "sym",
	KindPow:       "pow",
	KindMul:       "mul",
	KindAdd:       "add",
	KindOrder:     "order",
	KindInterval:  "interval",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Expr is an immutable expression node. The set of implementations is closed;
// nodes are obtained only through the constructors in this package.
type Expr interface {
	Kind() Kind
	Args() []Expr
	Hash() uint64
	Equal(other Expr) bool
	String() string
	LaTeX() string

	precedence() int
	render(level int) string
	toJSON() map[string]interface{}
}

// Operator precedence used by the text renderer.
const (
	precAdd  = 10
	precMul  = 20
	precPow  = 30
	precAtom = 1000
)

// Fuzzy is a three-valued truth used by the sign and parity predicates.
type Fuzzy int8

const (
	Unknown Fuzzy = iota
	True
	False
)

func fuzzyOf(b bool) Fuzzy {
	if b {
		return True
	}
	return False
}

func (f Fuzzy) Not() Fuzzy {
	switch f {
	case True:
		return False
	case False:
		return True
	}
	return Unknown
}

func (f Fuzzy) String() string {
	switch f {
	case True:
		return "true"
	case False:
		return "false"
	}
	return "unknown"
}

// ============================================================
// Structural hashing
// ============================================================

func hashLeaf(k Kind, parts ...string) uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{byte(k)})
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

func hashNode(k Kind, tag string, args []Expr) uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{byte(k)})
	_, _ = d.WriteString(tag)
	var buf [8]byte
	for _, a := range args {
		binary.LittleEndian.PutUint64(buf[:], a.Hash())
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

func equalExpr(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	return a.Hash() == b.Hash() && Compare(a, b) == 0
}

func equalSlices(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalExpr(a[i], b[i]) {
			return false
		}
	}
	return true
}

// ============================================================
// Traversal helpers
// ============================================================

// Walk visits e and its descendants in pre-order using an explicit stack.
// Returning false from fn skips the children of the visited node.
func Walk(e Expr, fn func(Expr) bool) {
	stack := []Expr{e}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		args := n.Args()
		for i := len(args) - 1; i >= 0; i-- {
			stack = append(stack, args[i])
		}
	}
}

// Has reports whether x occurs anywhere inside e.
func Has(e, x Expr) bool {
	found := false
	Walk(e, func(n Expr) bool {
		if found {
			return false
		}
		if equalExpr(n, x) {
			found = true
			return false
		}
		return true
	})
	return found
}

// FreeSymbols returns the names of the symbols in e that are not bound by a
// Lambda.
func FreeSymbols(e Expr) *set.Set[string] {
	out := set.New[string](0)
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out *set.Set[string]) {
	switch v := e.(type) {
	case *Sym:
		out.Insert(v.String())
	case *Lambda:
		inner := set.New[string](0)
		collectSymbols(v.body, inner)
		for _, s := range v.vars {
			inner.Remove(s.String())
		}
		out.InsertSet(inner)
	default:
		for _, a := range e.Args() {
			collectSymbols(a, out)
		}
	}
}

func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }
