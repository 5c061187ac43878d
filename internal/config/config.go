// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/deckhtml/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete deckhtml configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// Where cards are read from
	Collection CollectionConfig `toml:"collection" json:"collection"`

	// How cards are written
	Export ExportConfig `toml:"export" json:"export"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Diagnostic log configuration
	Log LogConfig `toml:"log" json:"log"`
}

// Collection sources.
const (
	SourceSQLite      = "sqlite"
	SourceAnkiConnect = "ankiconnect"
)

// CollectionConfig selects and locates the card collection.
type CollectionConfig struct {
	// Source is "sqlite" (read the collection file) or "ankiconnect"
	// (talk to a running Anki).
	Source string `toml:"source" json:"source"`
	// Path is the collection file. Empty means the default profile location.
	Path string `toml:"path" json:"path"`
	// MediaDir overrides the media folder. Empty means the folder the
	// collection reports.
	MediaDir string `toml:"media_dir" json:"media_dir"`
	// AnkiConnectURL is the AnkiConnect endpoint.
	AnkiConnectURL string `toml:"ankiconnect_url" json:"ankiconnect_url"`
	// TimeoutSecs bounds each AnkiConnect request.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// ExportConfig contains export defaults.
type ExportConfig struct {
	// Style is the page layout: "styled" or "plain"
	Style string `toml:"style" json:"style"`
	// DefaultDir pre-fills the directory prompt.
	DefaultDir string `toml:"default_dir" json:"default_dir"`
	// UnicodeFilenames keeps Unicode letters and digits in file names.
	UnicodeFilenames bool `toml:"unicode_filenames" json:"unicode_filenames"`
	// OpenAfterExport opens the output directory when a run finishes.
	OpenAfterExport bool `toml:"open_after_export" json:"open_after_export"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
}

// LogConfig contains diagnostic log settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error"
	Level string `toml:"level" json:"level"`
	// File is the log file. Empty means deckhtml.log in the config directory.
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Collection: CollectionConfig{
			Source:         SourceSQLite,
			AnkiConnectURL: "http://127.0.0.1:8765",
			TimeoutSecs:    10,
		},

		Export: ExportConfig{
			Style:      "styled",
			DefaultDir: "~/Desktop",
		},

		UI: UIConfig{
			Theme: "dark",
		},

		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the deckhtml configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".deckhtml"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ExpandPath expands a leading "~" to the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// DefaultCollectionPath returns the collection file of the default Anki
// profile ("User 1") for the current platform.
func DefaultCollectionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(home, "AppData", "Roaming")
		}
	case "darwin":
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			base = filepath.Join(home, ".local", "share")
		}
	}
	return filepath.Join(base, "Anki2", "User 1", "collection.anki2"), nil
}

// CollectionPath returns the configured collection file with "~" expanded,
// falling back to DefaultCollectionPath.
func (c *Config) CollectionPath() (string, error) {
	if c.Collection.Path != "" {
		return ExpandPath(c.Collection.Path), nil
	}
	return DefaultCollectionPath()
}

// LogPath returns the diagnostic log file path.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return ExpandPath(c.Log.File), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "deckhtml.log"), nil
}

// Timeout returns the AnkiConnect request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Collection.TimeoutSecs) * time.Second
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
//
// A file that exists but cannot be decoded does not stop Load: defaults are
// returned together with the decode error.
func Load() (*Config, error) {
	var loadErr error

	for _, locate := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := locate()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}

		cfg := Default()
		if err := loadFile(cfg, path); err != nil {
			loadErr = err
			continue
		}
		if err := cfg.finish(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg := Default()
	if err := cfg.finish(); err != nil {
		return nil, err
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes path by extension; anything but .json is TOML.
func loadFile(cfg *Config, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
		return nil
	}
	if err := LoadTOML(cfg, path); err != nil {
		return fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes the config file at path over the defaults without
// environment overrides, for commands that edit the file itself. A missing
// file yields the defaults.
func ReadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}
	if err := cfg.Migrate(); err != nil {
		return nil, fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	return cfg, nil
}

// finish applies environment overrides, migration, defaults and validation.
func (c *Config) finish() error {
	c.ApplyEnvOverrides()
	if err := c.Migrate(); err != nil {
		return fmt.Errorf("config migration failed: %w", err)
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer

	// Write header comment
	fmt.Fprintln(&buf, "# deckhtml configuration file")
	fmt.Fprintln(&buf, "# Generated by deckhtml - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// oneOf appends a ValidationError when value is not in allowed.
func oneOf(errs ValidateErrors, field, value string, allowed ...string) ValidateErrors {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return errs
		}
	}
	return append(errs, ValidationError{
		Field:   field,
		Message: fmt.Sprintf("invalid value '%s', must be one of: %s", value, strings.Join(allowed, ", ")),
	})
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	errs = oneOf(errs, "collection.source", c.Collection.Source, SourceSQLite, SourceAnkiConnect)

	if u, err := url.Parse(c.Collection.AnkiConnectURL); err != nil {
		errs = append(errs, ValidationError{
			Field:   "collection.ankiconnect_url",
			Message: fmt.Sprintf("invalid URL: %v", err),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{
			Field:   "collection.ankiconnect_url",
			Message: fmt.Sprintf("unsupported scheme '%s', must be http or https", u.Scheme),
		})
	}

	if c.Collection.TimeoutSecs < 1 || c.Collection.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "collection.timeout_secs",
			Message: fmt.Sprintf("timeout %d out of range 1-300", c.Collection.TimeoutSecs),
		})
	}

	errs = oneOf(errs, "export.style", c.Export.Style, "styled", "plain")
	errs = oneOf(errs, "ui.theme", c.UI.Theme, "dark", "light", "auto")
	errs = oneOf(errs, "log.level", c.Log.Level, "debug", "info", "warn", "error")

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	// Collection defaults
	if c.Collection.Source == "" {
		c.Collection.Source = defaults.Collection.Source
	}
	if c.Collection.AnkiConnectURL == "" {
		c.Collection.AnkiConnectURL = defaults.Collection.AnkiConnectURL
	}
	if c.Collection.TimeoutSecs == 0 {
		c.Collection.TimeoutSecs = defaults.Collection.TimeoutSecs
	}

	// Export defaults
	if c.Export.Style == "" {
		c.Export.Style = defaults.Export.Style
	}
	if c.Export.DefaultDir == "" {
		c.Export.DefaultDir = defaults.Export.DefaultDir
	}

	// UI defaults
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// Migrate normalises older or alternative spellings of enumerated values.
func (c *Config) Migrate() error {
	c.Collection.Source = strings.ToLower(strings.TrimSpace(c.Collection.Source))
	switch c.Collection.Source {
	case "anki-connect", "anki_connect", "connect":
		c.Collection.Source = SourceAnkiConnect
	case "file", "sqlite3":
		c.Collection.Source = SourceSQLite
	}

	// The two layouts were once named after their colour scheme.
	c.Export.Style = strings.ToLower(strings.TrimSpace(c.Export.Style))
	switch c.Export.Style {
	case "dark":
		c.Export.Style = "styled"
	case "light":
		c.Export.Style = "plain"
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "warning" {
		c.Log.Level = "warn"
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - DECKHTML_SOURCE: overrides collection.source
//   - DECKHTML_COLLECTION: overrides collection.path
//   - DECKHTML_MEDIA_DIR: overrides collection.media_dir
//   - DECKHTML_ANKICONNECT_URL: overrides collection.ankiconnect_url
//   - DECKHTML_STYLE: overrides export.style
//   - DECKHTML_OUTPUT_DIR: overrides export.default_dir
//   - DECKHTML_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"DECKHTML_SOURCE", &c.Collection.Source},
		{"DECKHTML_COLLECTION", &c.Collection.Path},
		{"DECKHTML_MEDIA_DIR", &c.Collection.MediaDir},
		{"DECKHTML_ANKICONNECT_URL", &c.Collection.AnkiConnectURL},
		{"DECKHTML_STYLE", &c.Export.Style},
		{"DECKHTML_OUTPUT_DIR", &c.Export.DefaultDir},
		{"DECKHTML_LOG_LEVEL", &c.Log.Level},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "export.style").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "export.style").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks a dot-notation key to a leaf field.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("'%s' is a section, not a value", key)
			}
			return field, nil
		}

		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"collection.source",
		"collection.path",
		"collection.media_dir",
		"collection.ankiconnect_url",
		"collection.timeout_secs",
		"export.style",
		"export.default_dir",
		"export.unicode_filenames",
		"export.open_after_export",
		"ui.theme",
		"log.level",
		"log.file",
	}
}

// String returns the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
