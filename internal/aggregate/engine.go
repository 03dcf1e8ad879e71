// Package aggregate folds committed transaction line items into the nested
// date → supplier summary consumed by report renderers. The output is
// derived data, rebuilt fresh on every run and never persisted.
package aggregate

import (
	"sort"
	"strings"

	"github.com/nursyahid/dapur-ledger/internal/model"
)

// Order controls date-bucket ordering. Ledger views list the newest day
// first; period recaps run oldest first.
type Order string

// Supported date orderings.
const (
	OrderAscending  Order = "asc"
	OrderDescending Order = "desc"
)

// UnassignedSupplier labels the sub-bucket for items whose supplier could
// not be resolved. They are reported, not dropped.
const UnassignedSupplier = "Unassigned"

// dateKeyFormat is the calendar-date bucket key, local time.
const dateKeyFormat = "2006-01-02"

// Totals carries the rolling sums for one bucket. Budget is quantity times
// the current catalog sell price, a "what it should have sold for" reference
// figure distinct from the snapshotted actuals.
type Totals struct {
	Sell   float64
	Cost   float64
	Profit float64
	Budget float64
}

// Variance returns actual sell minus budget, the over/under against current
// catalog prices.
func (t Totals) Variance() float64 {
	return t.Sell - t.Budget
}

func (t *Totals) add(o Totals) {
	t.Sell += o.Sell
	t.Cost += o.Cost
	t.Profit += o.Profit
	t.Budget += o.Budget
}

// Item is one line within a supplier bucket, carrying its derived budget
// figure alongside the snapshotted actuals.
type Item struct {
	model.TransactionLineItem
	Budget float64
}

// SupplierBucket groups one supplier's items within a date.
type SupplierBucket struct {
	TradingUnitID   string
	TradingUnitName string
	Items           []Item
	Totals          Totals
}

// DateBucket groups one calendar date's supplier sub-buckets.
type DateBucket struct {
	Date      string
	Suppliers []SupplierBucket
	Totals    Totals
}

// Report is the full nested summary with the grand total.
type Report struct {
	Dates      []DateBucket
	GrandTotal Totals
	Order      Order
	ItemCount  int
}

// Options configures an aggregation run.
type Options struct {
	// Order is the date-bucket sort direction.
	Order Order
	// Catalog supplies current master prices for the budget column. Items
	// whose product is missing from the catalog fall back to their
	// snapshotted sell price, so budget degrades to actual rather than zero.
	Catalog []model.Product
}

// Aggregate builds the two-level summary from enriched line items. For a
// fixed input and order the output is identical across runs; no map
// iteration order leaks into the result.
func Aggregate(items []model.TransactionLineItem, opts Options) *Report {
	if opts.Order == "" {
		opts.Order = OrderDescending
	}

	catalog := make(map[string]model.Product, len(opts.Catalog))
	for _, p := range opts.Catalog {
		catalog[p.ID] = p
	}

	// Group by date key, then supplier ID, preserving item input order
	// inside each sub-bucket.
	byDate := make(map[string]map[string]*supplierGroup)
	var dateKeys []string

	for _, item := range items {
		dateKey := item.Date.Local().Format(dateKeyFormat)
		suppliers, ok := byDate[dateKey]
		if !ok {
			suppliers = make(map[string]*supplierGroup)
			byDate[dateKey] = suppliers
			dateKeys = append(dateKeys, dateKey)
		}

		unitID := item.TradingUnitID
		group, ok := suppliers[unitID]
		if !ok {
			name := item.TradingUnitName
			if unitID == "" {
				name = UnassignedSupplier
			}
			group = &supplierGroup{name: name}
			suppliers[unitID] = group
		}
		group.items = append(group.items, item)
	}

	sort.Slice(dateKeys, func(i, j int) bool {
		if opts.Order == OrderAscending {
			return dateKeys[i] < dateKeys[j]
		}
		return dateKeys[i] > dateKeys[j]
	})

	report := &Report{Order: opts.Order, ItemCount: len(items)}

	for _, dateKey := range dateKeys {
		suppliers := byDate[dateKey]

		unitIDs := make([]string, 0, len(suppliers))
		for id := range suppliers {
			unitIDs = append(unitIDs, id)
		}
		sortSupplierIDs(unitIDs, suppliers)

		dateBucket := DateBucket{Date: dateKey}
		for _, id := range unitIDs {
			group := suppliers[id]
			bucket := SupplierBucket{
				TradingUnitID:   id,
				TradingUnitName: group.name,
				Items:           make([]Item, 0, len(group.items)),
			}
			for _, li := range group.items {
				t := itemTotals(li, catalog)
				bucket.Items = append(bucket.Items, Item{TransactionLineItem: li, Budget: t.Budget})
				bucket.Totals.add(t)
			}
			dateBucket.Totals.add(bucket.Totals)
			dateBucket.Suppliers = append(dateBucket.Suppliers, bucket)
		}

		report.GrandTotal.add(dateBucket.Totals)
		report.Dates = append(report.Dates, dateBucket)
	}

	return report
}

type supplierGroup struct {
	name  string
	items []model.TransactionLineItem
}

// sortSupplierIDs orders supplier sub-buckets by display name,
// case-insensitively, with the unassigned bucket last and IDs breaking ties.
func sortSupplierIDs(ids []string, groups map[string]*supplierGroup) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if (a == "") != (b == "") {
			return b == ""
		}
		an := strings.ToLower(groups[a].name)
		bn := strings.ToLower(groups[b].name)
		if an != bn {
			return an < bn
		}
		return a < b
	})
}

func itemTotals(item model.TransactionLineItem, catalog map[string]model.Product) Totals {
	budgetPrice := item.SellPrice
	if p, ok := catalog[item.ProductID]; ok {
		budgetPrice = p.SellPrice
	}

	return Totals{
		Sell:   item.SellTotal(),
		Cost:   item.CostTotal(),
		Profit: item.Profit(),
		Budget: item.Quantity * budgetPrice,
	}
}
