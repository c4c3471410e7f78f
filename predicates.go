package symcore

// ============================================================
// Assumption predicates
// ============================================================

// IsCommutative reports whether e commutes under multiplication. Only
// symbols created non-commutative, and nodes containing them, do not.
func IsCommutative(e Expr) bool {
	switch v := e.(type) {
	case *Num, *Const, *FuncClass, *Lambda:
		return true
	case *Sym:
		return !v.assume.NonCommutative
	}
	for _, a := range e.Args() {
		if !IsCommutative(a) {
			return false
		}
	}
	return true
}

// IsRealValued reports whether e is known to take real values.
func IsRealValued(e Expr) Fuzzy {
	switch v := e.(type) {
	case *Num:
		return fuzzyOf(v.IsFinite())
	case *Const:
		return True
	case *Sym:
		a := v.assume
		if a.Positive || a.Negative || a.Integer {
			return True
		}
		return Unknown
	case *Add, *Mul:
		for _, a := range e.Args() {
			if IsRealValued(a) != True {
				return Unknown
			}
		}
		return True
	case *Pow:
		if IsPositive(v.base) == True && IsRealValued(v.exp) == True {
			return True
		}
		if IsRealValued(v.base) == True && IsInteger(v.exp) == True {
			return True
		}
	case *Func:
		switch v.name {
		case "exp", "sin", "cos", "erf":
			return IsRealValued(v.args[0])
		}
	}
	return Unknown
}

func IsPositive(e Expr) Fuzzy {
	switch v := e.(type) {
	case *Num:
		if v.IsNaN() {
			return Unknown
		}
		return fuzzyOf(v.Sign() > 0)
	case *Const:
		return True
	case *Sym:
		switch {
		case v.assume.Positive:
			return True
		case v.assume.Negative:
			return False
		}
	case *Mul:
		return mulIsPositive(v)
	case *Add:
		return allTerms(v.args, IsPositive, IsNonPositive)
	case *Pow:
		if IsPositive(v.base) == True && IsRealValued(v.exp) == True {
			return True
		}
		if IsEven(v.exp) == True && IsRealValued(v.base) == True && isNonZero(v.base) {
			return True
		}
	case *Func:
		if v.name == "exp" && IsRealValued(v.args[0]) == True {
			return True
		}
		if v.name == "erf" {
			return IsPositive(v.args[0])
		}
	}
	return Unknown
}

func IsNegative(e Expr) Fuzzy {
	switch v := e.(type) {
	case *Num:
		if v.IsNaN() {
			return Unknown
		}
		return fuzzyOf(v.Sign() < 0)
	case *Const:
		return False
	case *Sym:
		switch {
		case v.assume.Negative:
			return True
		case v.assume.Positive:
			return False
		}
	case *Mul:
		return mulIsNegative(v)
	case *Add:
		return allTerms(v.args, IsNegative, IsNonNegative)
	case *Pow:
		if IsPositive(v.base) == True && IsRealValued(v.exp) == True {
			return False
		}
		if IsEven(v.exp) == True && IsRealValued(v.base) == True {
			return False
		}
	case *Func:
		if v.name == "exp" && IsRealValued(v.args[0]) == True {
			return False
		}
		if v.name == "erf" {
			return IsNegative(v.args[0])
		}
	}
	return Unknown
}

// allTerms is True when every term satisfies strict and False when every
// term satisfies the opposite weak predicate.
func allTerms(terms []Expr, strict, opposite func(Expr) Fuzzy) Fuzzy {
	all := true
	for _, t := range terms {
		if strict(t) != True {
			all = false
			break
		}
	}
	if all {
		return True
	}
	for _, t := range terms {
		if opposite(t) != True {
			return Unknown
		}
	}
	return False
}

func isNonZero(e Expr) bool {
	return IsPositive(e) == True || IsNegative(e) == True
}

func IsNonNegative(e Expr) Fuzzy {
	if n, ok := e.(*Num); ok {
		if n.IsNaN() {
			return Unknown
		}
		return fuzzyOf(n.Sign() >= 0)
	}
	switch {
	case IsPositive(e) == True:
		return True
	case IsNegative(e) == True:
		return False
	case IsRealValued(e) == True && IsNegative(e) == False:
		return True
	}
	return Unknown
}

func IsNonPositive(e Expr) Fuzzy {
	if n, ok := e.(*Num); ok {
		if n.IsNaN() {
			return Unknown
		}
		return fuzzyOf(n.Sign() <= 0)
	}
	switch {
	case IsNegative(e) == True:
		return True
	case IsPositive(e) == True:
		return False
	case IsRealValued(e) == True && IsPositive(e) == False:
		return True
	}
	return Unknown
}

// mulIsPositive looks only at the factors not already known positive and
// splits them into the first one and the product of the rest.
func mulIsPositive(m *Mul) Fuzzy {
	var terms []Expr
	for _, f := range m.args {
		if IsPositive(f) != True {
			terms = append(terms, f)
		}
	}
	if len(terms) == 0 {
		return True
	}
	c := terms[0]
	if len(terms) == 1 {
		if IsNonPositive(c) == True {
			return False
		}
		return Unknown
	}
	r := MulOf(terms[1:]...)
	switch {
	case IsNegative(c) == True && IsNegative(r) == True:
		return True
	case IsNegative(c) == True && IsNonNegative(r) == True,
		IsNegative(r) == True && IsNonNegative(c) == True,
		IsNonNegative(c) == True && IsNonPositive(r) == True,
		IsNonNegative(r) == True && IsNonPositive(c) == True:
		return False
	}
	return Unknown
}

func mulIsNegative(m *Mul) Fuzzy {
	var terms []Expr
	for _, f := range m.args {
		if IsPositive(f) != True {
			terms = append(terms, f)
		}
	}
	if len(terms) == 0 {
		return False
	}
	c := terms[0]
	if len(terms) == 1 {
		return IsNegative(c)
	}
	r := MulOf(terms[1:]...)
	switch {
	case IsNegative(c) == True && IsPositive(r) == True,
		IsPositive(c) == True && IsNegative(r) == True:
		return True
	case IsNegative(c) == True && IsNonPositive(r) == True,
		IsNegative(r) == True && IsNonPositive(c) == True,
		IsNonPositive(c) == True && IsNonPositive(r) == True,
		IsNonNegative(c) == True && IsNonNegative(r) == True:
		return False
	}
	return Unknown
}

func IsInteger(e Expr) Fuzzy {
	switch v := e.(type) {
	case *Num:
		if !v.IsFinite() {
			return False
		}
		if v.IsReal() {
			return Unknown
		}
		return fuzzyOf(v.IsInteger())
	case *Const:
		return False
	case *Sym:
		if v.assume.Integer {
			return True
		}
	case *Add, *Mul:
		for _, a := range e.Args() {
			if IsInteger(a) != True {
				return Unknown
			}
		}
		return True
	case *Pow:
		if IsInteger(v.base) == True && IsInteger(v.exp) == True && IsNonNegative(v.exp) == True {
			return True
		}
	}
	return Unknown
}

func IsEven(e Expr) Fuzzy {
	switch v := e.(type) {
	case *Num:
		if !v.IsInteger() {
			if v.IsRational() {
				return False
			}
			return Unknown
		}
		return fuzzyOf(v.rat.Num().Bit(0) == 0)
	case *Sym:
		switch {
		case v.assume.Even:
			return True
		case v.assume.Odd:
			return False
		}
	case *Mul:
		if IsInteger(v) != True {
			return Unknown
		}
		for _, f := range v.args {
			if IsEven(f) == True {
				return True
			}
		}
		return mulIsOdd(v).Not()
	}
	return Unknown
}

func IsOdd(e Expr) Fuzzy {
	switch v := e.(type) {
	case *Num:
		if !v.IsInteger() {
			if v.IsRational() {
				return False
			}
			return Unknown
		}
		return fuzzyOf(v.rat.Num().Bit(0) == 1)
	case *Sym:
		switch {
		case v.assume.Odd:
			return True
		case v.assume.Even:
			return False
		}
	case *Mul:
		return mulIsOdd(v)
	}
	return Unknown
}

// mulIsOdd: an integer product is odd when no factor is even and every
// factor is known odd.
func mulIsOdd(m *Mul) Fuzzy {
	if IsInteger(m) != True {
		return Unknown
	}
	r := True
	for _, f := range m.args {
		if IsEven(f) == True {
			return False
		}
		if IsOdd(f) == Unknown {
			r = Unknown
		}
	}
	return r
}

// IsIrrational follows the product rule of the kernel: one known
// irrational factor makes the product irrational.
func IsIrrational(e Expr) Fuzzy {
	switch v := e.(type) {
	case *Num:
		if v.IsRational() {
			return False
		}
		return Unknown
	case *Const:
		return True
	case *Sym:
		if v.assume.Integer {
			return False
		}
	case *Mul:
		for _, f := range v.args {
			switch IsIrrational(f) {
			case True:
				return True
			case Unknown:
				return Unknown
			}
		}
		return False
	}
	return Unknown
}
