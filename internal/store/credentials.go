package store

import (
	"fmt"
	"os"
)

// Credentials is the API key pair for the selected account mode, resolved
// once at startup. No other package reads credential env vars.
type Credentials struct {
	APIKey    string
	APISecret string
}

// ResolveCredentials picks the paper or live key pair from the environment.
// Paper:  ALPACA_PAPER_API_KEY_ID / ALPACA_PAPER_API_SECRET_KEY
// Live:   ALPACA_LIVE_API_KEY_ID  / ALPACA_LIVE_API_SECRET_KEY
// Missing keys fail here, before any client is constructed.
func ResolveCredentials(paper bool) (Credentials, error) {
	var keyEnv, secretEnv string
	if paper {
		keyEnv, secretEnv = "ALPACA_PAPER_API_KEY_ID", "ALPACA_PAPER_API_SECRET_KEY"
	} else {
		keyEnv, secretEnv = "ALPACA_LIVE_API_KEY_ID", "ALPACA_LIVE_API_SECRET_KEY"
	}
	key := os.Getenv(keyEnv)
	secret := os.Getenv(secretEnv)
	if key == "" || secret == "" {
		return Credentials{}, fmt.Errorf("missing brokerage credentials: set %s and %s", keyEnv, secretEnv)
	}
	return Credentials{APIKey: key, APISecret: secret}, nil
}
