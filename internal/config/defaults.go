package config

const (
	defaultInputDir  = "~/Pictures"
	defaultOutputDir = "~/.local/share/photosift/groups"
	defaultDataDir   = "~/.local/share/photosift"
	defaultLogDir    = "~/.local/share/photosift/logs"

	defaultThreshold    = 10
	defaultMaxGroupSize = 20

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

func defaultExtensions() []string {
	return []string{"jpg", "jpeg", "png", "bmp", "gif", "tiff", "tif", "webp"}
}

// Default returns the built-in configuration used when no config file exists.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
		},
		Scan: Scan{
			Extensions:   defaultExtensions(),
			Workers:      0,
			VerifyCopies: false,
		},
		Cluster: Cluster{
			Threshold:    defaultThreshold,
			MaxGroupSize: defaultMaxGroupSize,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
