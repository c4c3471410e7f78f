package symcore

import (
	"strings"

	"golang.org/x/exp/slices"
)

// ============================================================
// Total order
// ============================================================

// Compare is the total order over expressions used to sort commutative
// factors and sum terms. It is pure and consistent with Equal: it returns 0
// exactly when the two nodes are structurally identical.
func Compare(a, b Expr) int {
	if a == b {
		return 0
	}
	if c := cmpInt(int(a.Kind()), int(b.Kind())); c != 0 {
		return c
	}
	switch x := a.(type) {
	case *Num:
		return numCmp(x, b.(*Num))
	case *Const:
		return strings.Compare(x.name, b.(*Const).name)
	case *Sym:
		y := b.(*Sym)
		if c := strings.Compare(x.name, y.name); c != 0 {
			return c
		}
		if x.dummy != y.dummy {
			if x.dummy < y.dummy {
				return -1
			}
			return 1
		}
		return cmpInt(int(x.assume.mask()), int(y.assume.mask()))
	case *FuncClass:
		y := b.(*FuncClass)
		if c := strings.Compare(x.name, y.name); c != 0 {
			return c
		}
		return cmpInt(x.nargs, y.nargs)
	case *Func:
		y := b.(*Func)
		if c := strings.Compare(x.name, y.name); c != 0 {
			return c
		}
		return compareArgs(x.args, y.args)
	case *Pow:
		y := b.(*Pow)
		if c := Compare(x.base, y.base); c != 0 {
			return c
		}
		return Compare(x.exp, y.exp)
	case *Mul, *Add, *Order, *Interval, *Lambda:
		return compareArgs(a.Args(), b.Args())
	}
	panic("symcore: Compare: unhandled kind " + a.Kind().String())
}

func compareArgs(a, b []Expr) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(a), len(b))
}

// Sorted returns a sorted copy of es.
func Sorted(es []Expr) []Expr {
	out := slices.Clone(es)
	slices.SortStableFunc(out, Compare)
	return out
}

func sortExprs(es []Expr) { slices.SortStableFunc(es, Compare) }
