package symcore

import (
	"math"
	"strconv"
	"sync/atomic"
)

// ============================================================
// Sym
// ============================================================

// Assumptions are the facts a symbol carries about the values it stands for.
type Assumptions struct {
	Positive       bool
	Negative       bool
	Integer        bool
	Even           bool
	Odd            bool
	NonCommutative bool
}

func (a Assumptions) mask() uint8 {
	var m uint8
	for i, b := range []bool{a.Positive, a.Negative, a.Integer, a.Even, a.Odd, a.NonCommutative} {
		if b {
			m |= 1 << i
		}
	}
	return m
}

type Sym struct {
	name   string
	assume Assumptions
	dummy  uint64
	h      uint64
}

var dummyCounter atomic.Uint64

func S(name string) *Sym { return NewSymbol(name, Assumptions{}) }

// NC returns a non-commutative symbol.
func NC(name string) *Sym { return NewSymbol(name, Assumptions{NonCommutative: true}) }

func NewSymbol(name string, a Assumptions) *Sym {
	if a.Even || a.Odd {
		a.Integer = true
	}
	return newSym(name, a, 0)
}

// NewDummy returns a symbol that is distinct from every other symbol,
// including other dummies with the same name.
func NewDummy(name string) *Sym {
	return newSym(name, Assumptions{}, dummyCounter.Add(1))
}

func newSym(name string, a Assumptions, dummy uint64) *Sym {
	s := &Sym{name: name, assume: a, dummy: dummy}
	s.h = hashLeaf(KindSym, name, strconv.FormatUint(uint64(a.mask()), 10), strconv.FormatUint(dummy, 10))
	return s
}

func (s *Sym) Kind() Kind                { return KindSym }
func (s *Sym) Args() []Expr              { return nil }
func (s *Sym) Hash() uint64              { return s.h }
func (s *Sym) Equal(other Expr) bool     { return equalExpr(s, other) }
func (s *Sym) Name() string              { return s.name }
func (s *Sym) Assumptions() Assumptions  { return s.assume }
func (s *Sym) IsDummy() bool             { return s.dummy != 0 }
func (s *Sym) precedence() int           { return precAtom }
func (s *Sym) render(level int) string   { return s.String() }
func (s *Sym) LaTeX() string             { return s.String() }

func (s *Sym) String() string {
	if s.dummy != 0 {
		return "_" + s.name
	}
	return s.name
}

func (s *Sym) toJSON() map[string]interface{} {
	m := map[string]interface{}{"type": "sym", "name": s.name}
	if s.assume != (Assumptions{}) {
		m["assumptions"] = map[string]interface{}{
			"positive":       s.assume.Positive,
			"negative":       s.assume.Negative,
			"integer":        s.assume.Integer,
			"even":           s.assume.Even,
			"odd":            s.assume.Odd,
			"noncommutative": s.assume.NonCommutative,
		}
	}
	return m
}

// ============================================================
// Const: named mathematical constants
// ============================================================

type Const struct {
	name  string
	latex string
	value float64
	h     uint64
}

func newConst(name, latex string, value float64) *Const {
	return &Const{name: name, latex: latex, value: value, h: hashLeaf(KindConst, name)}
}

var (
	E  = newConst("E", "e", math.E)
	Pi = newConst("pi", `\pi`, math.Pi)
)

func (c *Const) Kind() Kind                   { return KindConst }
func (c *Const) Args() []Expr                 { return nil }
func (c *Const) Hash() uint64                 { return c.h }
func (c *Const) Equal(other Expr) bool        { return equalExpr(c, other) }
func (c *Const) String() string               { return c.name }
func (c *Const) LaTeX() string                { return c.latex }
func (c *Const) Float64() float64             { return c.value }
func (c *Const) precedence() int              { return precAtom }
func (c *Const) render(level int) string      { return c.name }
func (c *Const) toJSON() map[string]interface{} { return map[string]interface{}{"type": "const", "name": c.name} }

func constByName(name string) (*Const, bool) {
	switch name {
	case "E", "e":
		return E, true
	case "pi", "Pi":
		return Pi, true
	}
	return nil, false
}
