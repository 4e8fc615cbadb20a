package perk

import (
	"context"

	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// SavingsQuote totals a selection of perks the way the pricing calculator shows them.
type SavingsQuote struct {
	Perks           []Perk          `json:"perks"`
	Missing         []int64         `json:"missing"`
	StandaloneTotal decimal.Decimal `json:"standaloneTotal"`
	PerkTotal       decimal.Decimal `json:"perkTotal"`
	MonthlySavings  decimal.Decimal `json:"monthlySavings"`
	AnnualSavings   decimal.Decimal `json:"annualSavings"`
}

// Quote prices the given ids. Repeated ids count once; unknown ids are reported
// in Missing rather than failing the quote.
func (s *Service) Quote(ctx context.Context, ids []int64) (SavingsQuote, error) {
	q := SavingsQuote{
		Perks:   []Perk{},
		Missing: []int64{},
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		p, ok, err := s.Store.Get(ctx, id)
		if err != nil {
			return SavingsQuote{}, err
		}
		if !ok {
			q.Missing = append(q.Missing, id)
			continue
		}

		q.Perks = append(q.Perks, p)
		q.StandaloneTotal = q.StandaloneTotal.Add(p.StandalonePrice)
		q.PerkTotal = q.PerkTotal.Add(p.VerizonPerkPrice)
	}

	q.MonthlySavings = decimal.Max(decimal.Zero, q.StandaloneTotal.Sub(q.PerkTotal))
	q.AnnualSavings = q.MonthlySavings.Mul(monthsPerYear)
	return q, nil
}
