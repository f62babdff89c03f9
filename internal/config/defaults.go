package config

const (
	defaultCacheDir               = "cache"
	defaultProcessingSpeedGBps    = 0.1
	defaultExecTimeSeconds        = 60
	defaultReserveSeconds         = 10
	defaultSecondsPerFileEstimate = 20
	defaultFFprobeBinary          = "ffprobe"
	defaultEncodingSampleBytes    = 64 * 1024
	defaultChartFile              = "monthly_data_analysis.svg"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

var defaultEncodings = []string{"utf-8", "latin-1"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
		},
		Batch: Batch{
			ProcessingSpeedGBps:    defaultProcessingSpeedGBps,
			ExecTimeSeconds:        defaultExecTimeSeconds,
			ReserveSeconds:         defaultReserveSeconds,
			SecondsPerFileEstimate: defaultSecondsPerFileEstimate,
		},
		Probe: Probe{
			FFprobeBinary:       defaultFFprobeBinary,
			Encodings:           append([]string(nil), defaultEncodings...),
			EncodingSampleBytes: defaultEncodingSampleBytes,
		},
		Report: Report{
			Charts:    true,
			ChartFile: defaultChartFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
