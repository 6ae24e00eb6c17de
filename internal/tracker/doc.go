// Package tracker owns the state that crosses photosift invocations: the
// original-to-destination mapping written after materialization, the
// deletion list inferred from it, and the cleaner that applies the list.
//
// The mapping is a single JSON object, human-inspectable, fully overwritten
// per run. Reconciliation re-enumerates the output tree fresh on every call
// and treats a destination that disappeared as the user's request to delete
// the original. A missing or malformed store is reported and treated as
// absence, never as a fatal error.
package tracker
