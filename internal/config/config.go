// Package config provides configuration loading for mirod.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// Secret is a string type for sensitive values (client secrets, tokens).
// It redacts itself in logs, %v/%#v formatting, and JSON output.
type Secret string

// String implements fmt.Stringer. Always returns redacted value.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (s Secret) GoString() string {
	return "Secret([REDACTED])"
}

// Value returns the actual secret value. Use sparingly.
func (s Secret) Value() string {
	return string(s)
}

// IsSet returns true if the secret has a non-empty value.
func (s Secret) IsSet() bool {
	return s != ""
}

// MarshalJSON implements json.Marshaler. Always returns redacted value.
func (s Secret) MarshalJSON() ([]byte, error) {
	if s == "" {
		return json.Marshal("")
	}
	return json.Marshal("[REDACTED]")
}

// Config is the root mirod configuration.
type Config struct {
	Miro MiroConfig `koanf:"miro"`
	Log  LogConfig  `koanf:"log"`
}

// MiroConfig holds Miro API credentials and endpoints.
type MiroConfig struct {
	// ClientID is the Miro OAuth application client ID. Required.
	ClientID string `koanf:"client_id"`

	// ClientSecret is the Miro OAuth application client secret. Required.
	ClientSecret Secret `koanf:"client_secret"`

	// RedirectURL is the OAuth callback URL registered with the Miro app.
	RedirectURL string `koanf:"redirect_url"`

	// APIBaseURL is the Miro REST API base (default https://api.miro.com).
	APIBaseURL string `koanf:"api_base_url"`

	// AuthBaseURL is the OAuth authorization base (default https://miro.com).
	AuthBaseURL string `koanf:"auth_base_url"`

	// TokenFile, when set, persists OAuth tokens across restarts.
	// Empty (the default) keeps tokens in process memory only.
	TokenFile string `koanf:"token_file"`

	// RequestTimeout bounds each outbound API call.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate checks that required fields are present and well-formed.
func (c *Config) Validate() error {
	if c.Miro.ClientID == "" {
		return fmt.Errorf("MIRO_CLIENT_ID environment variable is required")
	}
	if !c.Miro.ClientSecret.IsSet() {
		return fmt.Errorf("MIRO_CLIENT_SECRET environment variable is required")
	}
	if _, err := url.Parse(c.Miro.RedirectURL); err != nil {
		return fmt.Errorf("invalid MIRO_REDIRECT_URL: %w", err)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q (expected json or console)", c.Log.Format)
	}
	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Miro.RedirectURL == "" {
		cfg.Miro.RedirectURL = "http://localhost:8080/callback"
	}
	if cfg.Miro.APIBaseURL == "" {
		cfg.Miro.APIBaseURL = "https://api.miro.com"
	}
	if cfg.Miro.AuthBaseURL == "" {
		cfg.Miro.AuthBaseURL = "https://miro.com"
	}
	if cfg.Miro.RequestTimeout == 0 {
		cfg.Miro.RequestTimeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}
