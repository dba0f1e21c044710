// Package metrics keeps in-process request counters for the scoring API and
// exposes them in the Prometheus text exposition format.
//
// Registry is safe for concurrent use. Gather returns client_model metric
// families sorted by name and label values so output is stable across scrapes.
//
// Exposed families:
//
//	creditscore_requests_total{endpoint,code}  counter
//	creditscore_score_last{endpoint}           gauge
package metrics
