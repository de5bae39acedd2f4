//go:build !debug_refcount

// Package refcount is a debug-only registry of live foreign-resource
// handles: codec contexts, packets, frames, and option dictionaries
// allocated through this module's pools and codec.Open. Building
// without the debug_refcount tag compiles Inc/Dec/Counts to no-ops, so
// the bookkeeping costs nothing in a normal build.
package refcount

func Inc(kind string) {}

func Dec(kind string) {}

// Counts reports the live count per kind. Always empty outside a
// debug_refcount build.
func Counts() map[string]int64 { return nil }
