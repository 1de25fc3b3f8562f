package config

import "os"

// Environment variable names recognized by applyEnv.
// They take precedence over file values so credentials can stay out of YAML.
const (
	envUsername  = "SENTRA_USERNAME"
	envPassword  = "SENTRA_PASSWORD"
	envKeypadPin = "SENTRA_KEYPAD_PIN"
	envBaseURL   = "SENTRA_BASE_URL"
)

// applyEnv overlays SENTRA_* environment variables onto the configuration.
func applyEnv(cfg *Config) {
	if v := os.Getenv(envUsername); v != "" {
		cfg.Username = v
	}

	if v := os.Getenv(envPassword); v != "" {
		cfg.Password = v
	}

	if v := os.Getenv(envKeypadPin); v != "" {
		cfg.KeypadPin = v
	}

	if v := os.Getenv(envBaseURL); v != "" {
		cfg.BaseURL = v
	}
}
