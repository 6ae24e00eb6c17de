// Package config loads, normalizes, and validates photosift configuration.
//
// Configuration lives in a TOML file, by default at
// ~/.config/photosift/config.toml with a project-local photosift.toml
// fallback. Load expands ~ and relative paths to absolute form and rejects
// values the pipeline cannot run with (out-of-range threshold, nested
// output/input trees). A sample config is embedded for
// `photosift config init`.
package config
