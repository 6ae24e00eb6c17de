package config

import (
	"runtime"
	"strings"
)

// normalize expands paths, fills empty fields with defaults, and clamps
// numeric values into usable ranges. It runs before Validate so validation
// only ever sees canonical values.
func (c *Config) normalize() error {
	var err error
	if c.Paths.InputDir, err = expandPath(orDefault(c.Paths.InputDir, defaultInputDir)); err != nil {
		return err
	}
	if c.Paths.OutputDir, err = expandPath(orDefault(c.Paths.OutputDir, defaultOutputDir)); err != nil {
		return err
	}
	if c.Paths.DataDir, err = expandPath(orDefault(c.Paths.DataDir, defaultDataDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(orDefault(c.Paths.LogDir, defaultLogDir)); err != nil {
		return err
	}

	if len(c.Scan.Extensions) == 0 {
		c.Scan.Extensions = defaultExtensions()
	}
	normalized := make([]string, 0, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			normalized = append(normalized, ext)
		}
	}
	c.Scan.Extensions = normalized

	if c.Scan.Workers <= 0 {
		c.Scan.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Cluster.MaxGroupSize <= 0 {
		c.Cluster.MaxGroupSize = defaultMaxGroupSize
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(orDefault(c.Logging.Format, defaultLogFormat)))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(orDefault(c.Logging.Level, defaultLogLevel)))

	return nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
