package symcore

import "go.uber.org/zap"

// Limits bounds the size of expressions accepted from outside the process.
// A zero field disables that bound.
type Limits struct {
	MaxDepth int
	MaxNodes int
}

// DefaultLimits is applied by the tool handler unless configured otherwise.
var DefaultLimits = Limits{MaxDepth: 256, MaxNodes: 20000}

// Check walks e as a tree, counting shared subtrees once per occurrence,
// and reports the first bound exceeded.
func (l Limits) Check(e Expr) error {
	type frame struct {
		e     Expr
		depth int
	}
	stack := []frame{{e, 1}}
	nodes := 0
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++
		if l.MaxNodes > 0 && nodes > l.MaxNodes {
			log().Debug("expression rejected", zap.Int("max_nodes", l.MaxNodes))
			return NewError(CodeResourceExhausted, "expression has more than %d nodes", l.MaxNodes)
		}
		if l.MaxDepth > 0 && f.depth > l.MaxDepth {
			log().Debug("expression rejected", zap.Int("max_depth", l.MaxDepth))
			return NewError(CodeResourceExhausted, "expression is deeper than %d levels", l.MaxDepth)
		}
		for _, a := range f.e.Args() {
			stack = append(stack, frame{a, f.depth + 1})
		}
	}
	return nil
}
