// Package config loads the server configuration from the `server:` section
// of a YAML file.
//
// Config fields:
//   - HTTPPort       — port for the scoring API (default 8080; env PORT overrides)
//   - ScorePath      — route of the 0–100 scoring endpoint (default /calculateCreditScore)
//   - BureauPath     — route of the 300–900 scoring endpoint (default /calculateBureauScore)
//   - MaxBodyBytes   — request body limit (default 1 MiB)
//   - LogLevel       — debug | info | warn | error (default info)
//   - ReadTimeout    — http.Server read timeout (default 10s)
//   - WriteTimeout   — http.Server write timeout (default 10s)
//   - Metrics.Enabled, Metrics.Path — Prometheus text endpoint (default on, /metrics)
//
// Load(path) applies defaults before unmarshalling, then validates. An empty
// path yields the defaults. Watch(ctx, path, fn) reloads the file on change.
package config
