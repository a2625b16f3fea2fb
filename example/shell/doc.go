// Package shell provides infrastructure adapters for the example
// application, connecting the query engine to concrete logging and
// configuration implementations.
package shell
