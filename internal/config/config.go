package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env              string
	ListenAddr       string
	DatabaseURL      string
	GeminiAPIKey     string
	GeminiModel      string
	BrandfetchAPIKey string
	BrandfetchBase   string
	CandidateDelay   time.Duration
	// BrandLookupRPS caps brand API calls per second. Zero leaves the fixed
	// inter-candidate delay as the only throttle.
	BrandLookupRPS float64
	BatchSize      int
	MaxFailures    int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		if _, err := fmt.Sscanf(v, "%d", &out); err == nil {
			return out
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.ParseFloat(v, 64); err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// Load reads configuration from the environment. It does not fail on missing
// credentials; call Validate before starting a run so every missing key is
// reported at once.
func Load() Config {
	return Config{
		Env:              getenv("APP_ENV", "development"),
		ListenAddr:       getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		BrandfetchAPIKey: os.Getenv("BRANDFETCH_API_KEY"),
		BrandfetchBase:   getenv("BRANDFETCH_BASE_URL", "https://api.brandfetch.io/v2"),
		CandidateDelay:   getenvDuration("CANDIDATE_DELAY", time.Second),
		BrandLookupRPS:   getenvFloat("BRAND_LOOKUP_RPS", 0),
		BatchSize:        getenvInt("POPULATE_BATCH_SIZE", 10),
		MaxFailures:      getenvInt("POPULATE_MAX_FAILURES", 4),
	}
}

// Validate checks that every credential the pipeline needs is present and
// enumerates all missing keys in a single error.
func (c Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.BrandfetchAPIKey == "" {
		missing = append(missing, "BRANDFETCH_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
