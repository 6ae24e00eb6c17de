// Package cluster groups images whose fingerprints fall within a distance
// threshold of each other.
//
// The engine runs three phases. Pair finding compares every fingerprint
// against every other (quadratic by design; a personal photo library is
// small enough that approximate indexing is not worth its complexity) and
// keeps pairs at or below the threshold. Group building computes connected
// components over the pair graph with a union-find structure, so two images
// land in the same group whenever any chain of pairwise matches links them.
// Splitting then breaks up groups that grew past the configured cap through
// such transitive chains, seeding denser sub-clusters from the
// highest-degree members.
//
// All state is rebuilt from scratch on every run; nothing in this package
// persists.
package cluster
