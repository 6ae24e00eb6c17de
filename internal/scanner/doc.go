// Package scanner walks the input tree, filters image files by extension,
// and computes fingerprints on a bounded worker pool.
//
// Files that fail to decode are logged and skipped; the scan continues with
// whatever could be hashed. The returned slice preserves the traversal
// order of the input files so downstream group numbering is reproducible.
package scanner
