// Package types defines the JSON wire types shared by the creditscore server
// and its probe client.
package types
