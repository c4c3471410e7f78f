package symcore

// exprMap is an insertion-ordered map keyed by structural equality.
type exprMap struct {
	keys  []Expr
	vals  []Expr
	index map[uint64][]int
}

func newExprMap() *exprMap { return &exprMap{index: map[uint64][]int{}} }

func (m *exprMap) find(k Expr) int {
	for _, i := range m.index[k.Hash()] {
		if equalExpr(m.keys[i], k) {
			return i
		}
	}
	return -1
}

func (m *exprMap) get(k Expr) (Expr, bool) {
	if i := m.find(k); i >= 0 {
		return m.vals[i], true
	}
	return nil, false
}

func (m *exprMap) set(k, v Expr) {
	if i := m.find(k); i >= 0 {
		m.vals[i] = v
		return
	}
	h := k.Hash()
	m.index[h] = append(m.index[h], len(m.keys))
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
}

func (m *exprMap) len() int { return len(m.keys) }
