// Package kis provides a client for the Korea Investment & Securities Open API,
// the domestic source of daily candles and analyst opinions.
package kis

import (
	"os"
	"time"
)

// DefaultBaseURL is the production REST endpoint.
const DefaultBaseURL = "https://openapi.koreainvestment.com:9443"

// Config holds configuration for the KIS API client.
type Config struct {
	AppKey    string
	AppSecret string
	BaseURL   string
	Timeout   time.Duration
}

// LoadConfig loads KIS configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("KIS_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{
		AppKey:    os.Getenv("KIS_APP_KEY"),
		AppSecret: os.Getenv("KIS_APP_SECRET"),
		BaseURL:   base,
		Timeout:   5 * time.Second,
	}
}
