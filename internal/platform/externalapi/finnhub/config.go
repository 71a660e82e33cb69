// Package finnhub provides a client for the Finnhub API, the foreign source
// of analyst recommendation trends and company news.
package finnhub

import (
	"os"
	"time"
)

// DefaultBaseURL is used when FINNHUB_BASE_URL is not set.
const DefaultBaseURL = "https://finnhub.io/api/v1"

// Config holds configuration for the Finnhub API client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// LoadConfig loads Finnhub configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("FINNHUB_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{
		APIKey:  os.Getenv("FINNHUB_API_KEY"),
		BaseURL: base,
		Timeout: 5 * time.Second,
	}
}
