package globotopo

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Upstream defaults for the Smith-Sandwell 1-minute dataset
const (
	DefaultBaseURL   = "ftp://topex.ucsd.edu/pub/global_topo_1min"
	DefaultVersion   = "18.1"
	DefaultTarget    = "./data"
	DefaultUserAgent = "globotopo/0.1"
)

// Config holds the fetch configuration. It is set once at startup and
// not changed afterwards.
type Config struct {
	BaseURL   string // Remote directory holding the dataset
	Version   string // Dataset version, substituted into versioned filenames
	TargetDir string // Local directory receiving the files
	UserAgent string // Agent used in outgoing http
	FailFast  bool   // Stop after the first failed download
}

// LoadConfig builds a Config from a .env file and GLOBOTOPO_* environment
// variables, falling back to the upstream defaults. Flags in the commands
// override these values.
func LoadConfig() Config {
	// A missing .env file is fine, plain environment still applies
	godotenv.Load()

	failfast, _ := strconv.ParseBool(getEnv("GLOBOTOPO_FAILFAST", "false"))

	return Config{
		BaseURL:   getEnv("GLOBOTOPO_SOURCE", DefaultBaseURL),
		Version:   getEnv("GLOBOTOPO_VERSION", DefaultVersion),
		TargetDir: getEnv("GLOBOTOPO_TARGET", DefaultTarget),
		UserAgent: getEnv("GLOBOTOPO_USERAGENT", DefaultUserAgent),
		FailFast:  failfast,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
