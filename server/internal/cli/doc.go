// Package cli implements the creditscore command tree.
//
//	creditscore serve    — run the scoring HTTP API
//	creditscore score    — compute a score locally, no server
//	creditscore probe    — POST a request to a running server and print the score
//	creditscore version  — print build information
package cli
