// Package app exposes the library catalog as a small read-only HTTP API.
//
// Each endpoint translates query string parameters into a declarative
// query and executes it through the query store. Filter parameters are
// whitelisted per entity, so unknown parameters fail with 400 instead of
// silently matching everything.
package app
