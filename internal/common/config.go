package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Storage     StorageConfig   `toml:"storage"`
	Workspace   WorkspaceConfig `toml:"workspace"`
	Artifacts   ArtifactsConfig `toml:"artifacts"`
	Limits      LimitsConfig    `toml:"limits"`
	Render      RenderConfig    `toml:"render"`
	Janitor     JanitorConfig   `toml:"janitor"`
}

type ServerConfig struct {
	Port         int    `toml:"port"`
	Host         string `toml:"host"`
	PublicURL    string `toml:"public_url"`    // Base URL used in download links handed to MCP clients (default: http://host:port)
	WriteTimeout string `toml:"write_timeout"` // Conversions can be slow; default "2m"
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup
}

// WorkspaceConfig controls the per-request temporary directories
type WorkspaceConfig struct {
	Root   string `toml:"root"`    // Parent directory for request workspaces (default: $TMPDIR/lovedocu)
	MaxAge string `toml:"max_age"` // Workspaces older than this are swept by the janitor (default: "30m")
}

// ArtifactsConfig controls how long unclaimed downloads are kept
type ArtifactsConfig struct {
	TTL string `toml:"ttl"` // e.g., "15m"
}

// LimitsConfig bounds request size and rate
type LimitsConfig struct {
	MaxUploadMB       int     `toml:"max_upload_mb"`       // Maximum multipart body size
	RequestsPerSecond float64 `toml:"requests_per_second"` // Token bucket refill rate for operation endpoints (0 disables)
	Burst             int     `toml:"burst"`               // Token bucket size
}

// RenderConfig controls rasterization for previews and JPG conversion
type RenderConfig struct {
	JPGDPI         float64 `toml:"jpg_dpi"`         // default 150
	JPGQuality     int     `toml:"jpg_quality"`     // 1-100, default 90
	PreviewDPI     float64 `toml:"preview_dpi"`     // default 72
	PreviewMaxSize int     `toml:"preview_max_size"` // Longest thumbnail edge in pixels, default 240
}

// JanitorConfig controls the background sweep of expired state
type JanitorConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule (robfig/cron syntax, descriptors allowed)
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:         8085,
			Host:         "localhost",
			WriteTimeout: "2m",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/artifacts",
			},
		},
		Workspace: WorkspaceConfig{
			Root:   "", // Resolved to os.TempDir()/lovedocu at startup
			MaxAge: "30m",
		},
		Artifacts: ArtifactsConfig{
			TTL: "15m",
		},
		Limits: LimitsConfig{
			MaxUploadMB:       64,
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Render: RenderConfig{
			JPGDPI:         150,
			JPGQuality:     90,
			PreviewDPI:     72,
			PreviewMaxSize: 240,
		},
		Janitor: JanitorConfig{
			Enabled:  true,
			Schedule: "@every 5m",
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files. CLI flags are applied afterwards by ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LOVEDOCU_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("LOVEDOCU_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LOVEDOCU_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if publicURL := os.Getenv("LOVEDOCU_SERVER_PUBLIC_URL"); publicURL != "" {
		config.Server.PublicURL = publicURL
	}

	// Logging configuration
	if level := os.Getenv("LOVEDOCU_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("LOVEDOCU_LOG_OUTPUT"); output != "" {
		var outputs []string
		for _, o := range strings.Split(output, ",") {
			if o = strings.TrimSpace(o); o != "" {
				outputs = append(outputs, o)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Storage configuration
	if badgerPath := os.Getenv("LOVEDOCU_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Workspace and artifacts
	if root := os.Getenv("LOVEDOCU_WORKSPACE_ROOT"); root != "" {
		config.Workspace.Root = root
	}
	if maxAge := os.Getenv("LOVEDOCU_WORKSPACE_MAX_AGE"); maxAge != "" {
		config.Workspace.MaxAge = maxAge
	}
	if ttl := os.Getenv("LOVEDOCU_ARTIFACTS_TTL"); ttl != "" {
		config.Artifacts.TTL = ttl
	}

	// Limits
	if maxUpload := os.Getenv("LOVEDOCU_MAX_UPLOAD_MB"); maxUpload != "" {
		if v, err := strconv.Atoi(maxUpload); err == nil {
			config.Limits.MaxUploadMB = v
		}
	}
	if rps := os.Getenv("LOVEDOCU_REQUESTS_PER_SECOND"); rps != "" {
		if v, err := strconv.ParseFloat(rps, 64); err == nil {
			config.Limits.RequestsPerSecond = v
		}
	}

	// Janitor
	if schedule := os.Getenv("LOVEDOCU_JANITOR_SCHEDULE"); schedule != "" {
		config.Janitor.Schedule = schedule
	}
	if enabled := os.Getenv("LOVEDOCU_JANITOR_ENABLED"); enabled != "" {
		if v, err := strconv.ParseBool(enabled); err == nil {
			config.Janitor.Enabled = v
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks values that would otherwise fail late at runtime
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	for name, value := range map[string]string{
		"server.write_timeout": c.Server.WriteTimeout,
		"workspace.max_age":    c.Workspace.MaxAge,
		"artifacts.ttl":        c.Artifacts.TTL,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}
	if c.Render.JPGQuality < 1 || c.Render.JPGQuality > 100 {
		return fmt.Errorf("render.jpg_quality must be between 1 and 100, got %d", c.Render.JPGQuality)
	}
	if c.Janitor.Enabled {
		if _, err := cron.ParseStandard(c.Janitor.Schedule); err != nil {
			return fmt.Errorf("invalid janitor schedule %q: %w", c.Janitor.Schedule, err)
		}
	}
	return nil
}

// ArtifactTTL returns the parsed artifact lifetime
func (c *Config) ArtifactTTL() time.Duration {
	return mustDuration(c.Artifacts.TTL, 15*time.Minute)
}

// WorkspaceMaxAge returns the parsed workspace sweep age
func (c *Config) WorkspaceMaxAge() time.Duration {
	return mustDuration(c.Workspace.MaxAge, 30*time.Minute)
}

// ServerWriteTimeout returns the parsed HTTP write timeout
func (c *Config) ServerWriteTimeout() time.Duration {
	return mustDuration(c.Server.WriteTimeout, 2*time.Minute)
}

// MaxUploadBytes returns the request body limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Limits.MaxUploadMB) << 20
}

// BaseURL returns the externally reachable base URL without a trailing slash
func (c *Config) BaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

func mustDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
