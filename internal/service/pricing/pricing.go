// Package pricing loads the static product pricing table. The table is read
// once at startup and treated as immutable for the process lifetime.
package pricing

import (
	"encoding/json"
	"fmt"
	"os"

	"DineCast/internal/domain/models"
)

type productEntry struct {
	Category      string  `json:"category"`
	SellPrice     float64 `json:"sellPrice"`
	CostPrice     float64 `json:"costPrice"`
	ProfitPerUnit float64 `json:"profitPerUnit"`
	MarginPercent float64 `json:"marginPercent"`
}

type pricingFile struct {
	Products map[string]productEntry `json:"products"`
}

// Table is an immutable product -> pricing lookup.
type Table struct {
	records map[string]models.PricingRecord
}

// Load reads and validates the pricing table from a JSON file.
func Load(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing table: %w", err)
	}

	var f pricingFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse pricing table: %w", err)
	}
	if len(f.Products) == 0 {
		return nil, fmt.Errorf("pricing table %s has no products", path)
	}

	records := make(map[string]models.PricingRecord, len(f.Products))
	for name, e := range f.Products {
		if e.SellPrice <= 0 {
			return nil, fmt.Errorf("pricing table: product %q has invalid sell price %v", name, e.SellPrice)
		}
		profit := e.ProfitPerUnit
		if profit == 0 {
			profit = e.SellPrice - e.CostPrice
		}
		margin := e.MarginPercent
		if margin == 0 {
			margin = profit / e.SellPrice * 100
		}
		records[name] = models.PricingRecord{
			Product:       name,
			Category:      e.Category,
			SellPrice:     e.SellPrice,
			CostPrice:     e.CostPrice,
			ProfitPerUnit: profit,
			MarginPercent: margin,
		}
	}

	return &Table{records: records}, nil
}

// Lookup returns the pricing record for a product. A missing entry is a
// configuration error, never silently defaulted.
func (t *Table) Lookup(product string) (models.PricingRecord, error) {
	rec, ok := t.records[product]
	if !ok {
		return models.PricingRecord{}, fmt.Errorf("product %q: %w", product, models.ErrPricingMissing)
	}
	return rec, nil
}

// Products returns all product names with pricing entries.
func (t *Table) Products() []string {
	out := make([]string, 0, len(t.records))
	for p := range t.records {
		out = append(out, p)
	}
	return out
}
