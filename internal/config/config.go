package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port             int           `yaml:"port" envconfig:"PORT" default:"8900"`
	ReadTimeout      time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout     time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout      time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes   int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	TransformTimeout time.Duration `yaml:"transform_timeout" envconfig:"TRANSFORM_TIMEOUT" default:"5m"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8900"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/lcpipe.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	OutputsDir    string `yaml:"outputs_dir" envconfig:"OUTPUTS_DIR"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom behaves like Load but reads the given config file instead of
// searching the default locations. An empty path falls back to the search.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	// Environment variables and envconfig defaults first; the file merge
	// below only keeps env values that were explicitly set.
	if err := envconfig.Process("LCPIPE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Resolve relative paths
	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays explicitly-set environment variables onto the file
// configuration. envconfig fills its defaults for every variable that is
// unset, so a zero-value check cannot tell "not set" from "defaulted";
// presence in the environment is the test. Booleans stay env-or-default
// because an absent YAML key is indistinguishable from false.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig

	if !envSet("LCPIPE_SERVER_PORT", "PORT") && fileConfig.Server.Port != 0 {
		merged.Server.Port = fileConfig.Server.Port
	}
	if !envSet("LCPIPE_SERVER_READ_TIMEOUT", "READ_TIMEOUT") && fileConfig.Server.ReadTimeout != 0 {
		merged.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if !envSet("LCPIPE_SERVER_WRITE_TIMEOUT", "WRITE_TIMEOUT") && fileConfig.Server.WriteTimeout != 0 {
		merged.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if !envSet("LCPIPE_SERVER_IDLE_TIMEOUT", "IDLE_TIMEOUT") && fileConfig.Server.IdleTimeout != 0 {
		merged.Server.IdleTimeout = fileConfig.Server.IdleTimeout
	}
	if !envSet("LCPIPE_SERVER_MAX_HEADER_BYTES", "MAX_HEADER_BYTES") && fileConfig.Server.MaxHeaderBytes != 0 {
		merged.Server.MaxHeaderBytes = fileConfig.Server.MaxHeaderBytes
	}
	if !envSet("LCPIPE_SERVER_SHUTDOWN_TIMEOUT", "SHUTDOWN_TIMEOUT") && fileConfig.Server.ShutdownTimeout != 0 {
		merged.Server.ShutdownTimeout = fileConfig.Server.ShutdownTimeout
	}
	if !envSet("LCPIPE_SERVER_TRANSFORM_TIMEOUT", "TRANSFORM_TIMEOUT") && fileConfig.Server.TransformTimeout != 0 {
		merged.Server.TransformTimeout = fileConfig.Server.TransformTimeout
	}

	if !envSet("LCPIPE_SECURITY_ALLOWED_ORIGINS", "ALLOWED_ORIGINS") && len(fileConfig.Security.AllowedOrigins) > 0 {
		merged.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
	}
	if !envSet("LCPIPE_SECURITY_RATE_LIMIT_RPS", "RPS") && fileConfig.Security.RateLimit.RPS > 0 {
		merged.Security.RateLimit.RPS = fileConfig.Security.RateLimit.RPS
	}
	if !envSet("LCPIPE_SECURITY_RATE_LIMIT_BURST", "BURST") && fileConfig.Security.RateLimit.Burst > 0 {
		merged.Security.RateLimit.Burst = fileConfig.Security.RateLimit.Burst
	}

	if !envSet("LCPIPE_LOGGING_LEVEL", "LEVEL") && fileConfig.Logging.Level != "" {
		merged.Logging.Level = fileConfig.Logging.Level
	}
	if !envSet("LCPIPE_LOGGING_FORMAT", "FORMAT") && fileConfig.Logging.Format != "" {
		merged.Logging.Format = fileConfig.Logging.Format
	}
	if !envSet("LCPIPE_LOGGING_OUTPUT", "OUTPUT") && fileConfig.Logging.Output != "" {
		merged.Logging.Output = fileConfig.Logging.Output
	}
	if !envSet("LCPIPE_LOGGING_FILE_PATH", "FILE_PATH") && fileConfig.Logging.FilePath != "" {
		merged.Logging.FilePath = fileConfig.Logging.FilePath
	}

	if !envSet("LCPIPE_PATHS_DATA_DIR", "DATA_DIR") && fileConfig.Paths.DataDir != "" {
		merged.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if !envSet("LCPIPE_PATHS_OUTPUTS_DIR", "OUTPUTS_DIR") && fileConfig.Paths.OutputsDir != "" {
		merged.Paths.OutputsDir = fileConfig.Paths.OutputsDir
	}
	if !envSet("LCPIPE_PATHS_LOGS_DIR", "LOGS_DIR") && fileConfig.Paths.LogsDir != "" {
		merged.Paths.LogsDir = fileConfig.Paths.LogsDir
	}

	return merged
}

// envSet reports whether any of the given variables is present in the
// environment. envconfig accepts both the prefixed key and the bare tag
// name, so both spellings are checked.
func envSet(keys ...string) bool {
	for _, key := range keys {
		if _, ok := os.LookupEnv(key); ok {
			return true
		}
	}
	return false
}

// resolvePaths fills the executable directory so relative paths resolve
// consistently regardless of the working directory.
func (c *Config) resolvePaths() error {
	if c.Paths.ExecutableDir != "" {
		return nil
	}
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}
	c.Paths.ExecutableDir = paths.ExecutableDir
	return nil
}

// ResolvedPaths returns the full path set derived from the configured data
// directory.
func (c *Config) ResolvedPaths() *Paths {
	paths := PathsForDataDir(c.GetDataDir())
	paths.ExecutableDir = c.Paths.ExecutableDir
	paths.LogsDir = c.GetLogsDir()
	if c.Paths.OutputsDir != "" {
		paths = paths.WithOutputsDir(c.resolveDir(c.Paths.OutputsDir))
	}
	return paths
}

// GetDataDir returns the resolved data directory path
func (c *Config) GetDataDir() string {
	return c.resolveDir(c.Paths.DataDir)
}

// GetLogsDir returns the resolved logs directory path
func (c *Config) GetLogsDir() string {
	return c.resolveDir(c.Paths.LogsDir)
}

func (c *Config) resolveDir(dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Paths.ExecutableDir, dir)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "stdout" {
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"lcpipe.yaml",
		"configs/lcpipe.yaml",
		"../configs/lcpipe.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             8900,
			ReadTimeout:      15 * time.Second,
			WriteTimeout:     15 * time.Second,
			IdleTimeout:      60 * time.Second,
			MaxHeaderBytes:   1 << 20, // 1MB
			ShutdownTimeout:  30 * time.Second,
			TransformTimeout: DefaultTransformTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8900"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "both",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			DataDir: DefaultDataDir,
			LogsDir: DefaultLogsDir,
		},
	}
}
