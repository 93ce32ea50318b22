package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	originalEnv := make(map[string]string)
	envVars := []string{
		"LCPIPE_SERVER_PORT", "LCPIPE_SERVER_READ_TIMEOUT", "LCPIPE_SERVER_WRITE_TIMEOUT",
		"LCPIPE_SECURITY_ALLOWED_ORIGINS", "LCPIPE_SECURITY_ENABLE_CORS",
		"LCPIPE_LOGGING_LEVEL", "LCPIPE_LOGGING_FORMAT", "LCPIPE_LOGGING_OUTPUT",
		"LCPIPE_PATHS_DATA_DIR", "LCPIPE_PATHS_OUTPUTS_DIR", "LCPIPE_PATHS_LOGS_DIR",
	}

	for _, envVar := range envVars {
		originalEnv[envVar] = os.Getenv(envVar)
	}

	defer func() {
		for _, envVar := range envVars {
			if val, exists := originalEnv[envVar]; exists && val != "" {
				os.Setenv(envVar, val)
			} else {
				os.Unsetenv(envVar)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func()
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			setupEnv: func() {
				for _, envVar := range envVars {
					os.Unsetenv(envVar)
				}
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8900, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
				assert.Equal(t, 5*time.Minute, cfg.Server.TransformTimeout)

				assert.Equal(t, []string{"http://localhost:8900"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.EnableCORS)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
				assert.Equal(t, 50, cfg.Security.RateLimit.Burst)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "both", cfg.Logging.Output)
				assert.Equal(t, "logs/lcpipe.log", cfg.Logging.FilePath)

				assert.Equal(t, "data", cfg.Paths.DataDir)
				assert.Equal(t, "logs", cfg.Paths.LogsDir)
				assert.NotEmpty(t, cfg.Paths.ExecutableDir)
			},
		},
		{
			name: "custom environment variables",
			setupEnv: func() {
				os.Setenv("LCPIPE_SERVER_PORT", "9090")
				os.Setenv("LCPIPE_SERVER_READ_TIMEOUT", "30s")
				os.Setenv("LCPIPE_SECURITY_ALLOWED_ORIGINS", "http://example.com,https://example.com")
				os.Setenv("LCPIPE_LOGGING_LEVEL", "debug")
				os.Setenv("LCPIPE_LOGGING_FORMAT", "text")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format) // validate() forces json
			},
		},
		{
			name: "custom data directory",
			setupEnv: func() {
				for _, envVar := range envVars {
					os.Unsetenv(envVar)
				}
				os.Setenv("LCPIPE_PATHS_DATA_DIR", "/srv/lcpipe/data")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/lcpipe/data", cfg.Paths.DataDir)
				assert.Equal(t, "/srv/lcpipe/data", cfg.GetDataDir())

				paths := cfg.ResolvedPaths()
				assert.Equal(t, filepath.Join("/srv/lcpipe/data", "outputs"), paths.OutputsDir)
				assert.Equal(t, filepath.Join("/srv/lcpipe/data", "detections.csv"), paths.DetectionsCSV)
			},
		},
		{
			name: "invalid port rejected",
			setupEnv: func() {
				for _, envVar := range envVars {
					os.Unsetenv(envVar)
				}
				os.Setenv("LCPIPE_SERVER_PORT", "70000")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()

			cfg, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid default",
			mutate:  func(cfg *Config) {},
			wantErr: "",
		},
		{
			name:    "zero port",
			mutate:  func(cfg *Config) { cfg.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "negative read timeout",
			mutate:  func(cfg *Config) { cfg.Server.ReadTimeout = -time.Second },
			wantErr: "read timeout must be positive",
		},
		{
			name:    "no allowed origins",
			mutate:  func(cfg *Config) { cfg.Security.AllowedOrigins = nil },
			wantErr: "at least one allowed origin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
}

func TestMergeConfigs_FileOverridesDefaults(t *testing.T) {
	fileCfg := *Default()
	fileCfg.Server.Port = 7000
	fileCfg.Logging.Level = "warn"
	fileCfg.Paths.DataDir = "/from/file"

	// envCfg carries only envconfig defaults; no variable is set, so the
	// file values win.
	envCfg := *Default()

	merged := mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, 7000, merged.Server.Port, "file port wins over default")
	assert.Equal(t, "warn", merged.Logging.Level)
	assert.Equal(t, "/from/file", merged.Paths.DataDir)
}

func TestMergeConfigs_ExplicitEnvWins(t *testing.T) {
	t.Setenv("LCPIPE_SERVER_PORT", "9100")

	fileCfg := *Default()
	fileCfg.Server.Port = 7000
	fileCfg.Logging.Level = "warn"

	envCfg := *Default()
	envCfg.Server.Port = 9100

	merged := mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, 9100, merged.Server.Port, "explicit env wins over file")
	assert.Equal(t, "warn", merged.Logging.Level, "unset env falls back to file")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lcpipe.yaml")
	content := []byte(`
server:
  port: 9200
logging:
  level: debug
paths:
  data_dir: /var/lib/lcpipe
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/var/lib/lcpipe", cfg.Paths.DataDir)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lcpipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := loadFromFile(path)
	assert.Error(t, err)
}

func TestLoadFrom_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := []byte(`
server:
  port: 9300
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 9300, cfg.Server.Port)
}

func TestLoadFrom_MissingExplicitPath(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
