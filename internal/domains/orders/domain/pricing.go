package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// MaxOrderTotal bounds the grand total in currency units.
	MaxOrderTotal = 100000
	// MaxQuantity bounds a single line item quantity.
	MaxQuantity = 1000
	// ExpressSurcharge is the flat fee for Express mode.
	ExpressSurcharge = 100
)

var (
	ErrUnknownService   = errors.New("unknown service")
	ErrInvalidQuantity  = errors.New("quantity must be a finite number no greater than 1000")
	ErrEmptyOrder       = errors.New("order must contain at least one service")
	ErrTotalOutOfRange  = errors.New("order total is out of range")
)

// CatalogEntry is one allow-listed service with its server-side price.
// Client-supplied prices are never trusted.
type CatalogEntry struct {
	Name        string
	Unit        string
	UnitPrice   float64
	Description string
}

// Catalog is the server-side service allow list. Lookup is by exact name.
type Catalog struct {
	entries map[string]CatalogEntry
	names   []string
}

// NewCatalog builds a catalog preserving entry order for display.
func NewCatalog(entries []CatalogEntry) Catalog {
	c := Catalog{entries: make(map[string]CatalogEntry, len(entries))}
	for _, e := range entries {
		if _, dup := c.entries[e.Name]; dup {
			continue
		}
		c.entries[e.Name] = e
		c.names = append(c.names, e.Name)
	}
	return c
}

// DefaultCatalog returns the standard price list.
func DefaultCatalog() Catalog {
	return NewCatalog([]CatalogEntry{
		{Name: "Regular Clothes", UnitPrice: 60, Unit: "kg", Description: "Wash + Dry + Iron"},
		{Name: "Delicate Fabrics", UnitPrice: 80, Unit: "kg", Description: "Special care + Dry + Iron"},
		{Name: "Beddings (Queen)", UnitPrice: 200, Unit: "set", Description: "Sheets, pillowcases, covers"},
		{Name: "Beddings (King)", UnitPrice: 250, Unit: "set", Description: "Sheets, pillowcases, covers"},
		{Name: "Comforter (Single)", UnitPrice: 150, Unit: "piece", Description: "Wash + Dry"},
		{Name: "Comforter (Double)", UnitPrice: 200, Unit: "piece", Description: "Wash + Dry"},
		{Name: "Blanket", UnitPrice: 120, Unit: "piece", Description: "Wash + Dry"},
		{Name: "Curtains (per panel)", UnitPrice: 100, Unit: "panel", Description: "Wash + Dry + Iron"},
		{Name: "Table Cloth", UnitPrice: 80, Unit: "piece", Description: "Wash + Dry + Iron"},
		{Name: "Towels (Bath)", UnitPrice: 30, Unit: "piece", Description: "Wash + Dry + Fold"},
	})
}

// Lookup returns the entry for an exact service name.
func (c Catalog) Lookup(name string) (CatalogEntry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Entries returns the catalog in display order.
func (c Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.entries[name])
	}
	return out
}

// Selection is a client-picked service with the requested quantity.
type Selection struct {
	Service  string
	Quantity float64
}

// Quote is the validated pricing outcome for an order at creation time.
type Quote struct {
	Items   []LineItem
	Summary string
	Mode    ServiceMode
	Total   float64
	DueDate time.Time
}

// PriceOrder turns selections into a validated quote against the catalog.
// Non-positive quantities mean "not selected" and are dropped; quantities
// above MaxQuantity (or non-finite) reject the whole request. The express
// surcharge is applied once and the grand total, surcharge included, must
// stay within (0, MaxOrderTotal].
func PriceOrder(selections []Selection, mode ServiceMode, catalog Catalog, now time.Time) (*Quote, error) {
	var (
		items []LineItem
		parts []string
		total float64
	)
	for _, sel := range selections {
		entry, ok := catalog.Lookup(sel.Service)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownService, sel.Service)
		}
		qty := sel.Quantity
		if math.IsNaN(qty) || math.IsInf(qty, 0) || qty > MaxQuantity {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQuantity, sel.Service)
		}
		if qty <= 0 {
			continue
		}
		item := LineItem{Service: entry.Name, Unit: entry.Unit, UnitPrice: entry.UnitPrice, Quantity: qty}
		items = append(items, item)
		total += item.Total()
		parts = append(parts, fmt.Sprintf("%s (%v %s)", entry.Name, qty, entry.Unit))
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	total = round2(total + mode.Surcharge())
	if total <= 0 || total > MaxOrderTotal {
		return nil, fmt.Errorf("%w: %.2f", ErrTotalOutOfRange, total)
	}
	due := now.AddDate(0, 0, mode.TurnaroundDays())
	return &Quote{
		Items:   items,
		Summary: strings.Join(parts, ", "),
		Mode:    mode,
		Total:   total,
		DueDate: due,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
