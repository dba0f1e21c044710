package scorer

import "math"

// Weight constants for the credit score formula.
// They must sum to 1.0.
const (
	weightRevenue      = 0.5
	weightTransactions = 0.3
	weightAge          = 0.2
)

// Domain maxima. Inputs are clamped to [0, max] before normalisation.
const (
	MaxMonthlyRevenue      = 1_000_000.0
	MaxMonthlyTransactions = 1_000.0
	MaxBusinessAgeYears    = 20.0
)

// Score bounds for Compute.
const (
	MinScore = 0
	MaxScore = 100
)

// Input holds the raw business metrics fed into the credit score formula.
type Input struct {
	// MonthlyRevenue is the average monthly revenue. Clamped to [0, 1e6].
	MonthlyRevenue float64

	// MonthlyTransactions is the average monthly transaction count.
	// Clamped to [0, 1000].
	MonthlyTransactions float64

	// BusinessAge is the age of the business in years. Clamped to [0, 20].
	BusinessAge float64
}

// Output is the result of the credit score calculation.
type Output struct {
	// Score is the rounded credit score in the range 0–100.
	Score int

	// Raw is the unrounded weighted sum.
	Raw float64

	// The three normalised factors (each 0–100) used to compute Score.
	RevenueFactor      float64
	TransactionsFactor float64
	AgeFactor          float64
}

// Compute calculates the credit score from the given inputs.
//
// Formula:
//
//	score = round(
//	    0.5 * clamp(revenue, 0, 1e6)/1e6*100 +
//	    0.3 * clamp(transactions, 0, 1000)/1000*100 +
//	    0.2 * clamp(age, 0, 20)/20*100
//	)
//
// Rounding is half-to-even. Compute is total over finite and infinite inputs;
// a NaN input yields a NaN Raw and a meaningless Score, so callers reject NaN
// before calling.
func Compute(in Input) Output {
	rev := normalize(in.MonthlyRevenue, MaxMonthlyRevenue)
	txn := normalize(in.MonthlyTransactions, MaxMonthlyTransactions)
	age := normalize(in.BusinessAge, MaxBusinessAgeYears)

	// Explicit float64 conversions keep each product rounded on its own,
	// so the sum never fuses into a multiply-add.
	raw := float64(weightRevenue*rev) + float64(weightTransactions*txn)
	raw = raw + float64(weightAge*age)

	return Output{
		Score:              int(math.RoundToEven(raw)),
		Raw:                raw,
		RevenueFactor:      rev,
		TransactionsFactor: txn,
		AgeFactor:          age,
	}
}

// Score is shorthand for Compute(...).Score.
func Score(monthlyRevenue, monthlyTransactions, businessAge float64) int {
	return Compute(Input{
		MonthlyRevenue:      monthlyRevenue,
		MonthlyTransactions: monthlyTransactions,
		BusinessAge:         businessAge,
	}).Score
}

// normalize clamps v to [0, hi] and rescales it to [0, 100].
func normalize(v, hi float64) float64 {
	return float64(clamp(v, 0, hi)/hi) * 100
}

// clamp restricts v to the range [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
