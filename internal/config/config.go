package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	TimestampFilesystem = "filesystem"
	TimestampEXIF       = "exif"

	DefaultSourceDir = "/Volumes/LUMIX"
	DefaultTargetDir = "./auto-backup"
)

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config holds everything a backup run needs. Values are layered: defaults,
// then the TOML file, then SHOOTCOPY_* environment variables, then flags.
type Config struct {
	SourceDir       string   `toml:"source_dir"`
	TargetDir       string   `toml:"target_dir"`
	GapMinutes      int      `toml:"gap_minutes"`
	Extensions      []string `toml:"extensions"`
	SkipDirs        []string `toml:"skip_dirs"`
	RequireDCIM     bool     `toml:"require_dcim"`
	TimestampSource string   `toml:"timestamp_source"`
	Parallelism     int      `toml:"parallelism"`
	HashBufferSize  int      `toml:"hash_buffer_size"`
	Logging         Logging  `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		GapMinutes:      120,
		Extensions:      []string{"jpg", "mov", "rw2"},
		SkipDirs:        []string{".Spotlight-V100", ".fseventsd", ".Trashes", ".DocumentRevisions-V100", ".TemporaryItems"},
		RequireDCIM:     true,
		TimestampSource: TimestampFilesystem,
		HashBufferSize:  64 * 1024,
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/shootcopy/config.toml")
}

// Load reads the config file at path, or the first of the per-user and the
// project config files when path is empty, and applies environment
// overrides. A missing file is not an error. The result is not validated so
// callers can still apply flags.
func Load(path string) (Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return Config{}, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return Config{}, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return Config{}, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, "", false, err
	}
	return cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("shootcopy.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// ApplyEnv overrides fields from SHOOTCOPY_* variables that are set.
func (c *Config) ApplyEnv() error {
	if value := envOrEmpty("SHOOTCOPY_SOURCE_DIR"); value != "" {
		c.SourceDir = value
	}
	if value := envOrEmpty("SHOOTCOPY_TARGET_DIR"); value != "" {
		c.TargetDir = value
	}
	if value := envOrEmpty("SHOOTCOPY_GAP_MINUTES"); value != "" {
		minutes, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("SHOOTCOPY_GAP_MINUTES: invalid number %q", value)
		}
		c.GapMinutes = minutes
	}
	if value := envOrEmpty("SHOOTCOPY_PARALLELISM"); value != "" {
		units, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("SHOOTCOPY_PARALLELISM: invalid number %q", value)
		}
		c.Parallelism = units
	}
	if envTruthy("SHOOTCOPY_VERBOSE") {
		c.Logging.Level = "debug"
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.GapMinutes < 0 {
		return errors.New("gap_minutes must be zero or positive")
	}
	if c.Parallelism < 0 {
		return errors.New("parallelism must be zero or positive")
	}
	if c.HashBufferSize <= 0 {
		return errors.New("hash_buffer_size must be positive")
	}
	if len(c.Extensions) == 0 {
		return errors.New("extensions must list at least one extension")
	}
	switch c.TimestampSource {
	case TimestampFilesystem, TimestampEXIF:
	default:
		return fmt.Errorf("timestamp_source must be %q or %q, got %q", TimestampFilesystem, TimestampEXIF, c.TimestampSource)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info":
	default:
		return fmt.Errorf("logging.level must be debug or info, got %q", c.Logging.Level)
	}
	return nil
}

// GapThreshold is the largest gap between two files of the same shoot.
func (c Config) GapThreshold() time.Duration {
	return time.Duration(c.GapMinutes) * time.Minute
}

// Verbose reports whether per-file trace output is enabled.
func (c Config) Verbose() bool {
	return strings.EqualFold(c.Logging.Level, "debug")
}

// SkipDirSet returns SkipDirs as a lookup set.
func (c Config) SkipDirSet() map[string]bool {
	set := make(map[string]bool, len(c.SkipDirs))
	for _, name := range c.SkipDirs {
		set[name] = true
	}
	return set
}

// ExpandPath turns a user-entered path into a clean absolute path: shell
// escapes are removed and a leading ~ becomes the home directory.
func ExpandPath(pathValue string) (string, error) {
	pathValue = UnescapeBackslashes(strings.TrimSpace(pathValue))
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// UnescapeBackslashes drops the backslashes a terminal adds when a folder is
// dragged in, so "My\ Card" becomes "My Card". "\\" yields one backslash.
func UnescapeBackslashes(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	escaped := false
	for _, r := range value {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envTruthy(key string) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
