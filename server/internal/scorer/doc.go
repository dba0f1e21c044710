// Package scorer maps business metrics to credit scores.
//
// score.go provides the pure Compute(Input) function that calculates the
// normalized credit score (0–100):
// revenue(50%) + transactions(30%) + business age(20%).
//
// bureau.go provides Bureau, the 300–900 bureau-scale variant used by the
// legacy dashboard calculator.
//
// Neither function holds state; both are safe for concurrent use.
package scorer
