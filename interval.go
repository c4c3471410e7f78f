package symcore

// Interval is the closed real interval [start, end].
type Interval struct {
	start, end Expr
	h          uint64
}

func IntervalOf(start, end Expr) *Interval {
	return &Interval{start: start, end: end, h: hashNode(KindInterval, "", []Expr{start, end})}
}

func (i *Interval) Kind() Kind            { return KindInterval }
func (i *Interval) Args() []Expr          { return []Expr{i.start, i.end} }
func (i *Interval) Hash() uint64          { return i.h }
func (i *Interval) Equal(other Expr) bool { return equalExpr(i, other) }
func (i *Interval) Start() Expr           { return i.start }
func (i *Interval) End() Expr             { return i.end }
func (i *Interval) precedence() int       { return precAtom }
func (i *Interval) String() string        { return i.render(0) }

func (i *Interval) render(level int) string {
	return parenthesize("["+i.start.render(0)+", "+i.end.render(0)+"]", i.precedence(), level)
}

func (i *Interval) LaTeX() string {
	return `\left[` + i.start.LaTeX() + ", " + i.end.LaTeX() + `\right]`
}

func (i *Interval) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "interval", "start": i.start.toJSON(), "end": i.end.toJSON()}
}
