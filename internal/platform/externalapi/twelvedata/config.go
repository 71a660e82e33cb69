// Package twelvedata provides a client for the Twelve Data stock market API,
// the foreign-market source of daily candles and vendor-computed indicators.
package twelvedata

import (
	"os"
	"time"
)

// DefaultBaseURL is used when TWELVE_DATA_BASE_URL is not set.
const DefaultBaseURL = "https://api.twelvedata.com"

// Config holds configuration for the Twelve Data API client.
type Config struct {
	TwelveDataAPIKey string        // API key for authentication
	BaseURL          string        // Base URL for the API
	Timeout          time.Duration // HTTP request timeout
}

// LoadConfig loads Twelve Data configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("TWELVE_DATA_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{
		TwelveDataAPIKey: os.Getenv("TWELVE_DATA_API_KEY"),
		BaseURL:          base,
		Timeout:          5 * time.Second,
	}
}
