package scorer

import (
	"errors"
	"math"
)

// Bureau-scale bounds.
const (
	BureauBase = 300
	BureauMax  = 900
)

// Component caps of the bureau formula.
const (
	bureauTxnCap    = 600.0
	bureauTxnPer    = 2.0
	bureauAgeCap    = 50.0
	bureauAgePer    = 5.0
	bureauIncomeCap = 50.0
	bureauIncomeDiv = 20_000.0
)

// Validation errors returned by Bureau.
var (
	ErrNotANumber = errors.New("all inputs must be valid numbers")
	ErrNegative   = errors.New("all inputs must be non-negative")
)

// Bureau computes the 300–900 bureau-scale score:
//
//	300 + min(600, transactions*2) + min(50, age*5) + min(50, income/20000)
//
// rounded half away from zero and capped at 900. Unlike Compute, Bureau does
// not clamp negative inputs; it rejects them.
func Bureau(transactions, monthlyIncome, businessAgeYears float64) (int, error) {
	for _, v := range [...]float64{transactions, monthlyIncome, businessAgeYears} {
		if math.IsNaN(v) {
			return 0, ErrNotANumber
		}
	}
	for _, v := range [...]float64{transactions, monthlyIncome, businessAgeYears} {
		if v < 0 {
			return 0, ErrNegative
		}
	}

	score := float64(BureauBase) +
		math.Min(bureauTxnCap, transactions*bureauTxnPer) +
		math.Min(bureauAgeCap, businessAgeYears*bureauAgePer) +
		math.Min(bureauIncomeCap, monthlyIncome/bureauIncomeDiv)

	return int(math.Min(BureauMax, math.Round(score))), nil
}
