// Package logging constructs the slog loggers used across photosift.
//
// Two handler flavors exist: a console handler that renders
// "TIMESTAMP LEVEL component: message key=value" lines, and a JSON handler
// for machine consumption. Output is multiplexed between stdout and the log
// file under the configured log directory. Attr helpers keep call sites
// terse and NewNop gives tests a silent logger.
package logging
