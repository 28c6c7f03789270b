package sat

import (
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sensei/internal/catalog"
)

// Encoder walks the entity graph and pushes clauses into a shared
// theory. A fresh encoder (and with it a fresh registry and theory) is
// created per solve and discarded with the result.
type Encoder struct {
	cat    *catalog.Catalog
	reg    *Registry
	th     *Theory
	logger *zap.Logger
}

// NewEncoder wires an encoder over the catalog.
func NewEncoder(cat *catalog.Catalog, logger *zap.Logger) *Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := NewRegistry()
	return &Encoder{cat: cat, reg: reg, th: NewTheory(reg), logger: logger}
}

// Registry exposes the proposition registry for decoding.
func (e *Encoder) Registry() *Registry {
	return e.reg
}

// Theory exposes the accumulated theory.
func (e *Encoder) Theory() *Theory {
	return e.th
}

// Encode emits the complete theory: enrollment exclusivity rules,
// time-conflict and capacity restrictions, requirement bundles, and
// friendship constraints, in that order.
func (e *Encoder) Encode() {
	e.encodeEnrollmentRules()
	e.encodeRestrictions()
	e.encodeRequirements()
	e.encodeFriendships()
}
