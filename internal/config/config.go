package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings for the bridge daemon.
type Config struct {
	// Name is the display name of the bridged panel accessory.
	Name string `yaml:"name"`
	// Username is the vendor cloud account email.
	Username string `yaml:"username"`
	// Password is the vendor cloud account password.
	Password string `yaml:"password"`
	// KeypadPin is the panel keypad PIN required to disarm.
	KeypadPin string `yaml:"keypad_pin"`
	// BaseURL is the vendor cloud API endpoint.
	BaseURL string `yaml:"base_url"`
	// CacheTTL is how long a fetched panel snapshot stays fresh.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// CheckPeriod is how often the cache watcher looks for expiry.
	CheckPeriod time.Duration `yaml:"check_period"`
	// CallTimeout is the duration for vendor cloud HTTP calls.
	CallTimeout time.Duration `yaml:"call_timeout"`
	// StayProfileID selects the vendor stay profile for armed-stay requests.
	StayProfileID int64 `yaml:"stay_profile_id"`
	// PartitionID targets a specific partition in arming requests, 0 for all.
	PartitionID int64 `yaml:"partition_id"`
	// PreferencesRefresh is how often user preferences are re-fetched.
	PreferencesRefresh time.Duration `yaml:"preferences_refresh"`
	// ResyncInterval is how often a full forced resync runs.
	ResyncInterval time.Duration `yaml:"resync_interval"`
	// MetricsAddress enables the Prometheus listener when set, e.g. ":9145".
	MetricsAddress string `yaml:"metrics_addr"`
	// NATSURL enables publishing panel state changes to NATS when set.
	NATSURL string `yaml:"nats_url"`
	// NATSSubject is the subject state changes are published to.
	NATSSubject string `yaml:"nats_subject"`
}

const (
	// DefaultConfigFilename is the default filename for bridge settings.
	DefaultConfigFilename = "sentra-bridge.yaml"

	// DefaultBaseURL is the production vendor cloud endpoint.
	DefaultBaseURL = "https://cloud.sentra-home.com"

	// DefaultCacheTTL is the default freshness duration for panel snapshots.
	DefaultCacheTTL = 5 * time.Second

	// DefaultCheckPeriod is the default cache expiry check interval.
	DefaultCheckPeriod = time.Second

	// DefaultCallTimeout is the default duration for vendor cloud calls.
	DefaultCallTimeout = 10 * time.Second

	// DefaultPreferencesRefresh is the default user preferences refresh interval.
	DefaultPreferencesRefresh = 12 * time.Hour

	// DefaultResyncInterval is the default forced resync interval.
	DefaultResyncInterval = time.Hour

	// DefaultNATSSubject is the default subject for state change events.
	DefaultNATSSubject = "sentra.panel.state"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUsernameRequired is returned when the account email is missing.
	errUsernameRequired = errors.New("username must be provided")
	// errPasswordRequired is returned when the account password is missing.
	errPasswordRequired = errors.New("password must be provided")
)

// Load reads configuration from the provided path, overlays SENTRA_*
// environment variables and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	applyEnv(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions, the file carries account credentials.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
// Missing credentials fail here, before any network call is attempted.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Username == "" {
		return errUsernameRequired
	}

	if cfg.Password == "" {
		return errPasswordRequired
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	if cfg.CheckPeriod <= 0 {
		cfg.CheckPeriod = DefaultCheckPeriod
	}

	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}

	if cfg.PreferencesRefresh <= 0 {
		cfg.PreferencesRefresh = DefaultPreferencesRefresh
	}

	if cfg.ResyncInterval <= 0 {
		cfg.ResyncInterval = DefaultResyncInterval
	}

	if cfg.NATSSubject == "" {
		cfg.NATSSubject = DefaultNATSSubject
	}

	if cfg.MetricsAddress == "" {
		return nil
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.MetricsAddress); err != nil {
		return fmt.Errorf("invalid metrics socket: %w", err)
	}

	return nil
}
