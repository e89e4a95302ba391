package domain

import "time"

// Default connection settings written to a fresh config file.
const (
	DefaultBaseURL        = "http://localhost:4533"
	DefaultRequestTimeout = 30 * time.Second
	DefaultSearchLimit    = 20
)

// Config is the persisted user configuration. It is loaded once at startup
// and passed explicitly to the components that need it.
type Config struct {
	BaseURL  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`

	// ShowEasterEggs occasionally decorates view titles
	ShowEasterEggs bool `json:"show_easter_eggs"`

	// Notifications enables a desktop notification on every track start
	Notifications bool `json:"notifications"`

	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
	SearchLimit           int `json:"search_limit"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() Config {
	return Config{
		BaseURL:               DefaultBaseURL,
		ShowEasterEggs:        true,
		RequestTimeoutSeconds: int(DefaultRequestTimeout / time.Second),
		SearchLimit:           DefaultSearchLimit,
	}
}

// NeedsEdit reports whether the server settings are still the untouched defaults.
func (c Config) NeedsEdit() bool {
	return c.BaseURL == DefaultBaseURL && c.Username == "" && c.Password == ""
}

// RequestTimeout returns the HTTP timeout, falling back to the default.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// SearchLimits returns per-category search limits.
func (c Config) SearchLimits() SearchLimits {
	n := c.SearchLimit
	if n <= 0 {
		n = DefaultSearchLimit
	}
	return DefaultSearchLimits(n)
}

// Validate checks the fields required to talk to a server.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return NewValidationError("base_url", c.BaseURL, "must not be empty")
	}
	if c.RequestTimeoutSeconds < 0 {
		return NewValidationError("request_timeout_seconds", c.RequestTimeoutSeconds, "must not be negative")
	}
	if c.SearchLimit < 0 {
		return NewValidationError("search_limit", c.SearchLimit, "must not be negative")
	}
	return nil
}
