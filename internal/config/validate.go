package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate rejects configurations the pipeline cannot run with. It assumes
// normalize has already run.
func (c *Config) Validate() error {
	var problems []string

	if c.Cluster.Threshold < 0 {
		problems = append(problems, fmt.Sprintf("cluster.threshold must not be negative (got %d)", c.Cluster.Threshold))
	}
	if c.Cluster.Threshold > 64 {
		problems = append(problems, fmt.Sprintf("cluster.threshold %d exceeds the 64-bit hash maximum; every image would match every other", c.Cluster.Threshold))
	}
	if len(c.Scan.Extensions) == 0 {
		problems = append(problems, "scan.extensions must list at least one extension")
	}

	if c.Paths.InputDir == c.Paths.OutputDir {
		problems = append(problems, "paths.output_dir must differ from paths.input_dir; the output tree is destroyed on every scan")
	}
	if isSubPath(c.Paths.InputDir, c.Paths.OutputDir) {
		problems = append(problems, "paths.output_dir must not live inside paths.input_dir; materialized copies would be rescanned as duplicates")
	}
	if isSubPath(c.Paths.OutputDir, c.Paths.InputDir) {
		problems = append(problems, "paths.input_dir must not live inside paths.output_dir")
	}
	if isSubPath(c.Paths.OutputDir, c.Paths.DataDir) {
		problems = append(problems, "paths.data_dir must not live inside paths.output_dir; the mapping would be destroyed with the output tree")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be console or json (got %q)", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration:\n  - " + strings.Join(problems, "\n  - "))
}

// isSubPath reports whether child is strictly inside parent.
func isSubPath(parent, child string) bool {
	if parent == "" || child == "" || parent == child {
		return false
	}
	return strings.HasPrefix(child, strings.TrimSuffix(parent, "/")+"/")
}
