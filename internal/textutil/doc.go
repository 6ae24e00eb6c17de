// Package textutil derives filesystem-safe file names from arbitrary paths.
//
// Materialized group directories hold copies of files that originate anywhere
// in the scanned tree, so destination names encode the full source path. The
// derivation keeps letters, digits, dots, dashes, and underscores, collapses
// everything else to a single underscore, and falls back to the source base
// name when the encoded form is empty or too long.
package textutil
