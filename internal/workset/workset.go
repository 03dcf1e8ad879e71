// Package workset holds the in-progress import working set during the
// correction loop. Every edit re-resolves and re-validates the one affected
// record, so no torn state is ever observable outside that record.
package workset

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nursyahid/dapur-ledger/internal/model"
	"github.com/nursyahid/dapur-ledger/internal/resolve"
	"github.com/nursyahid/dapur-ledger/internal/validate"
)

// WorkSet is the mutable collection of candidate records under correction.
// It is single-writer: one edit at a time, each applied synchronously.
type WorkSet struct {
	candidates []model.CandidateRecord
	units      []model.TradingUnit
	products   []model.Product
	opts       validate.Options
}

// Edit is a partial update of a candidate's editable fields; nil fields are
// left unchanged.
type Edit struct {
	Name         *string
	Unit         *string
	SupplierName *string
	SellPrice    *float64
	CostPrice    *float64
	Quantity     *float64
}

// New builds a working set from parsed rows, resolving and validating every
// row against the supplied reference data.
func New(rows []model.ImportRow, units []model.TradingUnit, products []model.Product, opts validate.Options) *WorkSet {
	w := &WorkSet{
		candidates: make([]model.CandidateRecord, len(rows)),
		units:      units,
		products:   products,
		opts:       opts,
	}

	for i, row := range rows {
		c := model.NewCandidate(row)
		w.resolveCandidate(&c)
		validate.Apply(&c, opts)
		w.candidates[i] = c
	}

	return w
}

// Len returns the number of candidates in the working set.
func (w *WorkSet) Len() int {
	return len(w.candidates)
}

// Records returns a copy of the current candidate states.
func (w *WorkSet) Records() []model.CandidateRecord {
	out := make([]model.CandidateRecord, len(w.candidates))
	copy(out, w.candidates)
	return out
}

// Record returns the current state of one candidate.
func (w *WorkSet) Record(i int) (model.CandidateRecord, error) {
	if i < 0 || i >= len(w.candidates) {
		return model.CandidateRecord{}, fmt.Errorf("candidate index %d out of range", i)
	}
	return w.candidates[i], nil
}

// Apply updates a candidate's fields, then re-resolves and re-validates it.
// A non-positive quantity edit is clamped to the minimum sentinel rather
// than rejected.
func (w *WorkSet) Apply(i int, edit Edit) error {
	if i < 0 || i >= len(w.candidates) {
		return fmt.Errorf("candidate index %d out of range", i)
	}

	c := &w.candidates[i]
	if edit.Name != nil {
		c.Name = *edit.Name
	}
	if edit.Unit != nil {
		c.Unit = *edit.Unit
	}
	if edit.SupplierName != nil {
		c.SupplierName = *edit.SupplierName
	}
	if edit.SellPrice != nil {
		c.SellPrice = *edit.SellPrice
	}
	if edit.CostPrice != nil {
		c.CostPrice = *edit.CostPrice
	}
	if edit.Quantity != nil {
		c.Quantity = *edit.Quantity
		if w.opts.TransactionLine {
			c.Quantity = validate.ClampQuantity(c.Quantity)
		}
	}

	w.resolveCandidate(c)
	validate.Apply(c, w.opts)
	return nil
}

// SelectSupplier pins a candidate to a trading unit chosen by the user,
// overriding whatever the resolver found. The candidate is re-validated but
// deliberately not re-resolved, or the manual pick would be lost.
func (w *WorkSet) SelectSupplier(i int, unitID string) error {
	if i < 0 || i >= len(w.candidates) {
		return fmt.Errorf("candidate index %d out of range", i)
	}

	unit := w.findUnit(unitID)
	if unit == nil {
		return fmt.Errorf("trading unit %q not in reference list", unitID)
	}

	c := &w.candidates[i]
	c.SupplierName = unit.DisplayName()
	c.Resolution.TradingUnit = unit
	if c.Resolution.Product == nil {
		c.Resolution.State = model.ResolutionPendingCreate
	}
	validate.Apply(c, w.opts)
	return nil
}

// SelectProduct pins a candidate to an existing product chosen by the user.
func (w *WorkSet) SelectProduct(i int, productID string) error {
	if i < 0 || i >= len(w.candidates) {
		return fmt.Errorf("candidate index %d out of range", i)
	}

	var product *model.Product
	for j := range w.products {
		if w.products[j].ID == productID {
			product = &w.products[j]
			break
		}
	}
	if product == nil {
		return fmt.Errorf("product %q not in reference list", productID)
	}

	c := &w.candidates[i]
	c.Resolution.State = model.ResolutionMatched
	c.Resolution.Product = product
	if c.Resolution.TradingUnit == nil {
		c.Resolution.TradingUnit = w.findUnit(product.TradingUnitID)
	}
	validate.Apply(c, w.opts)
	return nil
}

// Partition splits the working set into its valid and invalid candidates,
// preserving order within each partition.
func (w *WorkSet) Partition() (valid, invalid []model.CandidateRecord) {
	for _, c := range w.candidates {
		if c.Valid {
			valid = append(valid, c)
		} else {
			invalid = append(invalid, c)
		}
	}
	return valid, invalid
}

// Clear discards all candidates.
func (w *WorkSet) Clear() {
	w.candidates = nil
}

// resolveCandidate runs the match ladder for product and supplier and
// derives the resolution state. A matched product with no explicit supplier
// name borrows the product's owning trading unit.
func (w *WorkSet) resolveCandidate(c *model.CandidateRecord) {
	product := resolve.Product(c.Name, w.products)

	var unit *model.TradingUnit
	if c.SupplierName != "" {
		unit = resolve.TradingUnit(c.SupplierName, w.units)
	}
	if unit == nil && product != nil {
		unit = w.findUnit(product.TradingUnitID)
	}

	switch {
	case product != nil:
		c.Resolution = model.Resolution{State: model.ResolutionMatched, Product: product, TradingUnit: unit}
	case unit != nil:
		c.Resolution = model.Resolution{State: model.ResolutionPendingCreate, TradingUnit: unit}
	default:
		c.Resolution = model.Resolution{State: model.ResolutionUnresolved}
	}
}

func (w *WorkSet) findUnit(id string) *model.TradingUnit {
	for i := range w.units {
		if w.units[i].ID == id {
			return &w.units[i]
		}
	}
	return nil
}

// Snapshot captures the current candidate states for later restoration.
func (w *WorkSet) Snapshot(name string) *Snapshot {
	return &Snapshot{
		ID:         uuid.NewString(),
		Name:       name,
		SavedAt:    time.Now(),
		Options:    w.opts,
		Candidates: w.Records(),
	}
}

// Restore replaces the working set's candidates with a snapshot's, then
// re-resolves and re-validates everything against the current reference
// lists: master data may have changed since the snapshot was taken.
func (w *WorkSet) Restore(snap *Snapshot) {
	w.opts = snap.Options
	w.candidates = make([]model.CandidateRecord, len(snap.Candidates))
	copy(w.candidates, snap.Candidates)

	for i := range w.candidates {
		w.resolveCandidate(&w.candidates[i])
		validate.Apply(&w.candidates[i], w.opts)
	}
}
