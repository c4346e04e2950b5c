package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Storage
	StorageBackend string `yaml:"storage_backend"`

	// Autosave
	AutosaveIntervalSeconds int `yaml:"autosave_interval_seconds"`
	AutosaveMaxAgeHours     int `yaml:"autosave_max_age_hours"`

	// Remote feed
	FeedBaseURL         string `yaml:"feed_base_url"`
	FeedTimeoutSeconds  int    `yaml:"feed_timeout_seconds"`
	FeedRefreshSchedule string `yaml:"feed_refresh_schedule"`

	// Serve
	ServeAddr  string `yaml:"serve_addr"`
	SiteTitle  string `yaml:"site_title"`
	AuthorName string `yaml:"author_name"`

	// Listing
	DefaultSort string `yaml:"default_sort"`
	ReverseSort bool   `yaml:"reverse_sort"`

	// Export
	ExportDir           string `yaml:"export_dir"`
	ExportRetentionDays int    `yaml:"export_retention_days"`

	// Featured images
	ImageMaxWidth  int `yaml:"image_max_width"`
	ImageMaxHeight int `yaml:"image_max_height"`
	ImageQuality   int `yaml:"image_quality"`

	// UI Settings
	DisplayDateFormat   string `yaml:"display_date_format"`
	ColorTheme          string `yaml:"color_theme"`
	SyntaxHighlighting  bool   `yaml:"syntax_highlighting"`
	NotificationSeconds int    `yaml:"notification_seconds"`

	// Performance
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	LogLevel string `yaml:"log_level"`
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		StorageBackend:          BackendFile,
		AutosaveIntervalSeconds: 30,
		AutosaveMaxAgeHours:     24,
		FeedBaseURL:             "http://127.0.0.1:8001/api",
		FeedTimeoutSeconds:      10,
		FeedRefreshSchedule:     "@every 5m",
		ServeAddr:               ":8080",
		SiteTitle:               "Latest posts",
		AuthorName:              "",
		DefaultSort:             "created",
		ReverseSort:             false,
		ExportDir:               "",
		ExportRetentionDays:     0,
		ImageMaxWidth:           1200,
		ImageMaxHeight:          800,
		ImageQuality:            85,
		DisplayDateFormat:       "2006-01-02",
		ColorTheme:              "auto",
		SyntaxHighlighting:      true,
		NotificationSeconds:     3,
		WatchDebounceMS:         500,
		LogLevel:                "info",
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// A missing file means defaults
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults repairs missing or out-of-range values
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if !isValidBackend(c.StorageBackend) {
		c.StorageBackend = def.StorageBackend
	}
	if c.AutosaveIntervalSeconds <= 0 {
		c.AutosaveIntervalSeconds = def.AutosaveIntervalSeconds
	}
	if c.AutosaveMaxAgeHours <= 0 {
		c.AutosaveMaxAgeHours = def.AutosaveMaxAgeHours
	}
	if c.FeedBaseURL == "" {
		c.FeedBaseURL = def.FeedBaseURL
	}
	if c.FeedTimeoutSeconds <= 0 {
		c.FeedTimeoutSeconds = def.FeedTimeoutSeconds
	}
	if c.FeedRefreshSchedule == "" {
		c.FeedRefreshSchedule = def.FeedRefreshSchedule
	}
	if c.ServeAddr == "" {
		c.ServeAddr = def.ServeAddr
	}
	if c.SiteTitle == "" {
		c.SiteTitle = def.SiteTitle
	}
	if !isValidSort(c.DefaultSort) {
		c.DefaultSort = def.DefaultSort
	}
	if c.ImageMaxWidth <= 0 {
		c.ImageMaxWidth = def.ImageMaxWidth
	}
	if c.ImageMaxHeight <= 0 {
		c.ImageMaxHeight = def.ImageMaxHeight
	}
	if c.ImageQuality <= 0 || c.ImageQuality > 100 {
		c.ImageQuality = def.ImageQuality
	}
	if c.DisplayDateFormat == "" {
		c.DisplayDateFormat = def.DisplayDateFormat
	}
	if c.ColorTheme == "" {
		c.ColorTheme = def.ColorTheme
	}
	if c.NotificationSeconds <= 0 {
		c.NotificationSeconds = def.NotificationSeconds
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = def.WatchDebounceMS
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the process
// environment. Missing files are ignored and existing variables are never overwritten.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from FOLIO_* variables found through lookup.
// Pass os.LookupEnv in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"FOLIO_STORAGE_BACKEND": &c.StorageBackend,
		"FOLIO_FEED_URL":        &c.FeedBaseURL,
		"FOLIO_FEED_REFRESH":    &c.FeedRefreshSchedule,
		"FOLIO_SERVE_ADDR":      &c.ServeAddr,
		"FOLIO_AUTHOR":          &c.AuthorName,
		"FOLIO_EXPORT_DIR":      &c.ExportDir,
		"FOLIO_LOG_LEVEL":       &c.LogLevel,
		"FOLIO_COLOR_THEME":     &c.ColorTheme,
	}
	for name, field := range str {
		if v, ok := lookup(name); ok && v != "" {
			*field = v
		}
	}

	ints := map[string]*int{
		"FOLIO_AUTOSAVE_INTERVAL": &c.AutosaveIntervalSeconds,
		"FOLIO_FEED_TIMEOUT":      &c.FeedTimeoutSeconds,
	}
	for name, field := range ints {
		v, ok := lookup(name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: expected an integer, got %q", name, v)
		}
		*field = n
	}

	if !isValidBackend(c.StorageBackend) {
		return fmt.Errorf("unknown storage backend %q (want %s or %s)", c.StorageBackend, BackendFile, BackendSQLite)
	}
	c.applyDefaults()
	return nil
}

// AutosaveInterval returns the autosave tick period
func (c *Config) AutosaveInterval() time.Duration {
	return time.Duration(c.AutosaveIntervalSeconds) * time.Second
}

// AutosaveMaxAge returns how long an autosave entry stays restorable
func (c *Config) AutosaveMaxAge() time.Duration {
	return time.Duration(c.AutosaveMaxAgeHours) * time.Hour
}

// FeedTimeout returns the HTTP timeout for remote feed requests
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.FeedTimeoutSeconds) * time.Second
}

// NotificationDuration returns how long status messages stay visible
func (c *Config) NotificationDuration() time.Duration {
	return time.Duration(c.NotificationSeconds) * time.Second
}

// WatchDebounce returns the delay used to coalesce store file events
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

// ExportRetention returns how long exports are kept; zero keeps them forever
func (c *Config) ExportRetention() time.Duration {
	return time.Duration(c.ExportRetentionDays) * 24 * time.Hour
}

func isValidBackend(backend string) bool {
	return backend == BackendFile || backend == BackendSQLite
}

func isValidSort(sort string) bool {
	return slices.Contains([]string{"created", "updated", "title"}, sort)
}
