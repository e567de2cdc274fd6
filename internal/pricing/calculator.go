package pricing

import "github.com/shopspring/decimal"

var (
	weightFactor = decimal.NewFromFloat(0.5)
	valueFactor  = decimal.NewFromFloat(0.01)
)

// Cost computes the delivery cost in the target currency:
//
//	(weight_kg * 0.5 + contents_value_usd * 0.01) * rate
//
// rounded half-up to 2 decimal places. Inputs are validated by the caller;
// this function is pure and performs no I/O.
func Cost(weightKG, contentsValueUSD, rate decimal.Decimal) decimal.Decimal {
	cost := weightKG.Mul(weightFactor).
		Add(contentsValueUSD.Mul(valueFactor)).
		Mul(rate)
	return cost.Round(2)
}
