// Package materialize writes similarity groups into the output tree and
// produces the original-to-destination mapping.
//
// The output root is destroyed and recreated on every run because group
// numbering is not stable between runs. Each group gets a numbered
// subdirectory holding copies of its files under names derived from the
// full source path, with numeric suffixes resolving collisions. Copies fan
// out over a worker pool after destination names are reserved serially, so
// concurrent copies always write disjoint paths. Missing sources and copy
// failures are reported and skipped; the mapping records only copies that
// actually landed.
package materialize
