package vecore

// Config configures an opened database connection.
type Config struct {
	// Path is the vector file path. The companion metadata database lives at
	// Path + ".metadata.db".
	Path string

	// Dimensions is the expected vector width, 0 = auto-detect from the
	// first insert (or from the file header if the file already exists).
	Dimensions int

	// BufferTargetBytes sizes the streaming buffer used by scans (search,
	// delete-by-ids, paginate). Clamped to [512, 8192] records per §4.4;
	// zero selects the default of 4 MiB worth of records.
	BufferTargetBytes int

	// Logger receives diagnostic messages. Defaults to NopLogger().
	Logger Logger
}

const defaultBufferTargetBytes = 4 * 1024 * 1024

// DefaultConfig returns a Config with dimension auto-detection and a no-op
// logger.
func DefaultConfig(path string) Config {
	return Config{
		Path:              path,
		Dimensions:        0,
		BufferTargetBytes: defaultBufferTargetBytes,
		Logger:            NopLogger(),
	}
}

func (c Config) logger() Logger {
	if c.Logger == nil {
		return NopLogger()
	}
	return c.Logger
}

func (c Config) bufferTargetBytes() int {
	if c.BufferTargetBytes <= 0 {
		return defaultBufferTargetBytes
	}
	return c.BufferTargetBytes
}
