// Package history records completed photosift runs in a small SQLite
// database so users can audit what each scan, reconcile, and cleanup did
// over time.
package history
