package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const minSecretLen = 32

type Config struct {
	Port string

	MongoURI string
	MongoDB  string

	// JWTSecret signs session tokens. Injected here and passed to the
	// token maker; never a literal anywhere in the codebase.
	JWTSecret string

	MetricsEnabled bool
	MetricsToken   string

	// ImageDir is where uploaded product images land; ImageBaseURL is the
	// externally reachable prefix they are served under.
	ImageDir     string
	ImageBaseURL string
}

// Load reads configuration from the environment, with a .env file as a
// local-dev convenience. Missing required values are an error, not a
// default: the process must not start half-configured.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDB:        getenv("MONGO_DB", "storefront"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		MetricsEnabled: os.Getenv("METRICS_ENABLED") == "true",
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
		ImageDir:       getenv("IMAGE_DIR", "./uploads"),
		ImageBaseURL:   getenv("IMAGE_BASE_URL", "/images"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI must be set")
	}
	if len(cfg.JWTSecret) < minSecretLen {
		return nil, fmt.Errorf("JWT_SECRET must be set and at least %d chars", minSecretLen)
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
