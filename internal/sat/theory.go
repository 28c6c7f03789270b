package sat

// Theory accumulates CNF clauses over registry variables. Arbitrary
// boolean formulas are lowered with a two-sided Tseitin transformation;
// cardinality bounds use a two-sided sequential-counter encoding.
// Keeping both transformations two-sided leaves every auxiliary
// variable functionally determined by the original vocabulary, so model
// counting is not distorted.
type Theory struct {
	reg      *Registry
	clauses  [][]int
	falseLit int
}

// NewTheory builds an empty theory over the registry.
func NewTheory(reg *Registry) *Theory {
	return &Theory{reg: reg}
}

// AddClause appends a disjunction of literals.
func (t *Theory) AddClause(lits ...int) {
	clause := make([]int, len(lits))
	copy(clause, lits)
	t.clauses = append(t.clauses, clause)
}

// AddUnit asserts a single literal.
func (t *Theory) AddUnit(lit int) {
	t.AddClause(lit)
}

// AddImplication asserts a -> b.
func (t *Theory) AddImplication(a, b int) {
	t.AddClause(-a, b)
}

// AtMostOne forbids any two of the literals holding together (pairwise).
func (t *Theory) AtMostOne(lits []int) {
	for i := 0; i < len(lits); i++ {
		for j := i + 1; j < len(lits); j++ {
			t.AddClause(-lits[i], -lits[j])
		}
	}
}

// AtMostK bounds the number of true literals by k using a sequential
// counter. Register r[i][j] holds exactly when at least j of the first
// i literals are true; both implication directions of the register
// definition are emitted.
func (t *Theory) AtMostK(lits []int, k int) {
	n := len(lits)
	if k >= n {
		return
	}
	if k == 0 {
		for _, lit := range lits {
			t.AddUnit(-lit)
		}
		return
	}

	// regs[i][j] = "at least j+1 of lits[0..i] are true", i in [0, n-2].
	regs := make([][]int, n-1)
	for i := range regs {
		regs[i] = make([]int, k)
		for j := range regs[i] {
			regs[i][j] = t.reg.Aux("card")
		}
	}

	// Base row: regs[0][0] <-> lits[0]; higher counts impossible.
	t.AddClause(-lits[0], regs[0][0])
	t.AddClause(-regs[0][0], lits[0])
	for j := 1; j < k; j++ {
		t.AddUnit(-regs[0][j])
	}

	for i := 1; i < n-1; i++ {
		for j := 0; j < k; j++ {
			// Carry: regs[i-1][j] -> regs[i][j].
			t.AddClause(-regs[i-1][j], regs[i][j])
			// Increment: lits[i] and regs[i-1][j-1] -> regs[i][j].
			if j == 0 {
				t.AddClause(-lits[i], regs[i][0])
			} else {
				t.AddClause(-lits[i], -regs[i-1][j-1], regs[i][j])
			}
			// Definition closure: regs[i][j] -> carry or increment.
			t.AddClause(-regs[i][j], regs[i-1][j], lits[i])
			if j > 0 {
				t.AddClause(-regs[i][j], regs[i-1][j], regs[i-1][j-1])
			}
		}
		// Overflow: lits[i] with k already reached is forbidden.
		t.AddClause(-lits[i], -regs[i-1][k-1])
	}
	t.AddClause(-lits[n-1], -regs[n-2][k-1])
}

// Clauses returns the accumulated CNF.
func (t *Theory) Clauses() [][]int {
	return t.clauses
}

// NumVars returns the variable count of the underlying registry.
func (t *Theory) NumVars() int {
	return t.reg.NumVars()
}

// Formula is a boolean combination of registry literals, lowered to CNF
// on demand.
type Formula struct {
	lit  int
	op   byte // '&', '|' for internal nodes
	kids []Formula
}

// Lit lifts a literal into a formula.
func Lit(l int) Formula {
	return Formula{lit: l}
}

// And conjoins formulas.
func And(fs ...Formula) Formula {
	return Formula{op: '&', kids: fs}
}

// Or disjoins formulas.
func Or(fs ...Formula) Formula {
	return Formula{op: '|', kids: fs}
}

// Not negates a formula.
func Not(f Formula) Formula {
	if f.lit != 0 {
		return Formula{lit: -f.lit}
	}
	negated := make([]Formula, len(f.kids))
	for i, kid := range f.kids {
		negated[i] = Not(kid)
	}
	if f.op == '&' {
		return Formula{op: '|', kids: negated}
	}
	return Formula{op: '&', kids: negated}
}

// constFalse returns a literal that is false in every model.
func (t *Theory) constFalse() int {
	if t.falseLit == 0 {
		t.falseLit = t.reg.Aux("false")
		t.AddUnit(-t.falseLit)
	}
	return t.falseLit
}

// Encode lowers the formula to a single representing literal, emitting
// two-sided definitional clauses for every internal node.
func (t *Theory) Encode(f Formula) int {
	if f.lit != 0 {
		return f.lit
	}
	lits := make([]int, len(f.kids))
	for i, kid := range f.kids {
		lits[i] = t.Encode(kid)
	}
	switch f.op {
	case '&':
		if len(lits) == 0 {
			return -t.constFalse()
		}
		if len(lits) == 1 {
			return lits[0]
		}
		aux := t.reg.Aux("and")
		long := make([]int, 0, len(lits)+1)
		long = append(long, aux)
		for _, l := range lits {
			t.AddClause(-aux, l)
			long = append(long, -l)
		}
		t.AddClause(long...)
		return aux
	default:
		if len(lits) == 0 {
			return t.constFalse()
		}
		if len(lits) == 1 {
			return lits[0]
		}
		aux := t.reg.Aux("or")
		long := make([]int, 0, len(lits)+1)
		long = append(long, -aux)
		long = append(long, lits...)
		t.AddClause(long...)
		for _, l := range lits {
			t.AddClause(aux, -l)
		}
		return aux
	}
}

// AssertEquiv asserts v <-> f.
func (t *Theory) AssertEquiv(v int, f Formula) {
	l := t.Encode(f)
	t.AddClause(-v, l)
	t.AddClause(v, -l)
}
