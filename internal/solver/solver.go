// Package solver dispatches compiled CNF theories to the gophersat
// backend and exposes the diagnostics surface of a solved theory.
package solver

import (
	gophersat "github.com/crillab/gophersat/solver"
)

// Handle wraps a compiled theory. It is cheap to keep around after a
// solve for satisfiability and model-count diagnostics; each query runs
// a fresh backend instance so queries do not disturb each other.
type Handle struct {
	clauses [][]int
	numVars int
}

// NewHandle builds a theory handle from CNF clauses.
func NewHandle(clauses [][]int, numVars int) *Handle {
	return &Handle{clauses: clauses, numVars: numVars}
}

// NumVars returns the variable count of the theory.
func (h *Handle) NumVars() int {
	return h.numVars
}

// NumClauses returns the clause count of the theory.
func (h *Handle) NumClauses() int {
	return len(h.clauses)
}

// Solve runs the backend once. It returns the model and true when the
// theory is satisfiable, or nil and false on UNSAT. Variables the
// backend never saw decode as false.
func (h *Handle) Solve() ([]bool, bool) {
	s := gophersat.New(gophersat.ParseSlice(h.clauses))
	if s.Solve() != gophersat.Sat {
		return nil, false
	}
	model := s.Model()
	if len(model) < h.numVars {
		padded := make([]bool, h.numVars)
		copy(padded, model)
		model = padded
	}
	return model, true
}

// Satisfiable reports whether the theory has any model.
func (h *Handle) Satisfiable() bool {
	s := gophersat.New(gophersat.ParseSlice(h.clauses))
	return s.Solve() == gophersat.Sat
}

// CountSolutions counts the models of the theory. Auxiliary encoding
// variables are functionally determined by the problem vocabulary, so
// the count matches the number of admissible enrollment plans.
func (h *Handle) CountSolutions() int {
	s := gophersat.New(gophersat.ParseSlice(h.clauses))
	return s.CountModels()
}
