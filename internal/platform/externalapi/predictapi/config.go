// Package predictapi provides a client for the crypto prediction backend.
package predictapi

import "time"

// Config holds configuration for the prediction backend client.
type Config struct {
	BaseURL string        // Base URL of the backend (e.g., "https://cryptoaipredict.com")
	Timeout time.Duration // HTTP request timeout
}
