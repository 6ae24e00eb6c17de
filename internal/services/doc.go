// Package services defines the error taxonomy shared by pipeline stages.
//
// Errors are tagged with sentinel markers so callers can classify failures
// with errors.Is while the message carries stage and operation context. The
// markers let the CLI decide what to report and how to exit.
package services
