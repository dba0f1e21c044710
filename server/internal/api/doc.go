// Package api implements the HTTP scoring API.
//
// New(opts) returns an http.Handler that serves:
//
//	POST {ScorePath}    — 0–100 credit score from revenue, transactions, age
//	POST {BureauPath}   — 300–900 bureau-scale score from the same fields
//	GET  /healthz       — liveness probe
//	GET  {MetricsPath}  — Prometheus text exposition (when a registry is set)
//
// Scoring requests go through the same pipeline: method check, JSON body
// parse, presence check of monthlyRevenue, monthlyTransactions and
// businessAge, coercion of each to float64, then the scorer. Every rejection
// is a *RequestError carrying the status code and the client-facing message.
//
// All responses are JSON. Error bodies are {"error": "<message>"}.
// No external HTTP framework is used.
package api
