package perk

import "github.com/shopspring/decimal"

func init() {
	// prices go over the wire as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Perk is a bundled subscription offer. A zero ID means the id is unset.
type Perk struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	StandalonePrice  decimal.Decimal `json:"standalonePrice"`
	VerizonPerkPrice decimal.Decimal `json:"verizonPerkPrice"`
}

// Savings is the monthly difference between buying the service alone and
// taking it as a perk. It can be negative when the seed data says so.
func (p Perk) Savings() decimal.Decimal {
	return p.StandalonePrice.Sub(p.VerizonPerkPrice)
}
