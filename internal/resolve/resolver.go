// Package resolve matches free-text names against canonical master records.
//
// The matching ladder is deliberately simple and deterministic: exact
// equality first, then bidirectional substring containment in original list
// order, then short-code equality. The containment step does not rank
// multiple plausible matches; the first entity in list order wins. Callers
// that need to disambiguate can ask for all containment candidates instead.
package resolve

import (
	"strings"

	"github.com/nursyahid/dapur-ledger/internal/model"
)

// ref is the minimal view of a master record the ladder operates on.
type ref struct {
	name      string
	shortCode string
}

// normalizeName lowercases, trims, and collapses whitespace. Trading unit
// names conventionally carry a leading "UD" marker that users routinely omit
// when typing, so a leading "ud" token is dropped as well.
func normalizeName(s string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
	norm = strings.TrimPrefix(norm, "ud ")
	return norm
}

// resolveRef runs the ladder and returns the index of the winning entity,
// or -1 when nothing matches.
func resolveRef(input string, refs []ref) int {
	norm := normalizeName(input)
	if norm == "" {
		return -1
	}

	// Step 1: exact case-insensitive equality.
	for i, r := range refs {
		if normalizeName(r.name) == norm {
			return i
		}
	}

	// Step 2: bidirectional substring containment, first in list order wins.
	for i, r := range refs {
		entity := normalizeName(r.name)
		if entity == "" {
			continue
		}
		if strings.Contains(norm, entity) || strings.Contains(entity, norm) {
			return i
		}
	}

	// Step 3: exact short-code equality.
	for i, r := range refs {
		code := strings.ToLower(strings.TrimSpace(r.shortCode))
		if code != "" && code == strings.ToLower(strings.TrimSpace(input)) {
			return i
		}
	}

	return -1
}

// containmentCandidates returns every index satisfying the step-2 containment
// test, in list order.
func containmentCandidates(input string, refs []ref) []int {
	norm := normalizeName(input)
	if norm == "" {
		return nil
	}

	var out []int
	for i, r := range refs {
		entity := normalizeName(r.name)
		if entity == "" {
			continue
		}
		if strings.Contains(norm, entity) || strings.Contains(entity, norm) {
			out = append(out, i)
		}
	}
	return out
}

// TradingUnit resolves a supplier name against the reference list, returning
// nil when no rung of the ladder matches.
func TradingUnit(input string, units []model.TradingUnit) *model.TradingUnit {
	refs := make([]ref, len(units))
	for i, u := range units {
		refs[i] = ref{name: u.Name, shortCode: u.ShortCode}
	}

	idx := resolveRef(input, refs)
	if idx < 0 {
		return nil
	}
	return &units[idx]
}

// TradingUnitCandidates returns all trading units that would satisfy the
// containment step, so a caller can offer manual selection when the ladder's
// first-match behavior is too permissive.
func TradingUnitCandidates(input string, units []model.TradingUnit) []*model.TradingUnit {
	refs := make([]ref, len(units))
	for i, u := range units {
		refs[i] = ref{name: u.Name, shortCode: u.ShortCode}
	}

	idxs := containmentCandidates(input, refs)
	out := make([]*model.TradingUnit, len(idxs))
	for i, idx := range idxs {
		out[i] = &units[idx]
	}
	return out
}

// Product resolves a product name against the reference list, returning nil
// when no rung of the ladder matches. Products carry no short code, so the
// ladder's third step never fires here.
func Product(input string, products []model.Product) *model.Product {
	refs := make([]ref, len(products))
	for i, p := range products {
		refs[i] = ref{name: p.Name}
	}

	idx := resolveRef(input, refs)
	if idx < 0 {
		return nil
	}
	return &products[idx]
}

// ProductCandidates returns all products satisfying the containment step.
func ProductCandidates(input string, products []model.Product) []*model.Product {
	refs := make([]ref, len(products))
	for i, p := range products {
		refs[i] = ref{name: p.Name}
	}

	idxs := containmentCandidates(input, refs)
	out := make([]*model.Product, len(idxs))
	for i, idx := range idxs {
		out[i] = &products[idx]
	}
	return out
}
