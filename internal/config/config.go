package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	CORS      CORSConfig
	Upload    UploadConfig
	Audit     AuditConfig
	Extractor ExtractorConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UploadConfig holds bill upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// AuditConfig holds the audit engine's decision thresholds.
type AuditConfig struct {
	OCRMin           int     `mapstructure:"ocr_min"`
	Publish          int     `mapstructure:"publish"`
	NotesMin         int     `mapstructure:"notes_min"`
	MaxFindings      int     `mapstructure:"max_findings"`
	HighValueCents   int64   `mapstructure:"high_value_cents"`
	AdjustmentMinPct float64 `mapstructure:"adjustment_min_pct"`
}

// ExtractorProviderConfig holds settings for a single text-extraction provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds text extractor settings with multi-provider support.
type ExtractorConfig struct {
	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
	Tertiary  ExtractorProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary extractor provider config.
func (e *ExtractorConfig) PrimaryConfig() *ExtractorProviderConfig {
	return &e.Primary
}

// SecondaryConfig returns the secondary extractor provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary extractor provider config, or nil if not configured.
func (e *ExtractorConfig) TertiaryConfig() *ExtractorProviderConfig {
	if e.Tertiary.Provider != "" {
		return &e.Tertiary
	}
	return nil
}

// Load reads configuration from environment variables with the VERITY_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VERITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)

	// Audit threshold defaults
	v.SetDefault("audit.ocr_min", 60)
	v.SetDefault("audit.publish", 85)
	v.SetDefault("audit.notes_min", 75)
	v.SetDefault("audit.max_findings", 3)
	v.SetDefault("audit.high_value_cents", 10_000_000)
	v.SetDefault("audit.adjustment_min_pct", 2.0)

	// Extractor defaults
	v.SetDefault("extractor.primary.provider", "gemini")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.default_model", "gemini-2.0-flash")
	v.SetDefault("extractor.primary.max_retries", 2)
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.default_model", "")
	v.SetDefault("extractor.secondary.max_retries", 2)
	v.SetDefault("extractor.secondary.timeout_secs", 120)
	v.SetDefault("extractor.tertiary.provider", "")
	v.SetDefault("extractor.tertiary.api_key", "")
	v.SetDefault("extractor.tertiary.default_model", "")
	v.SetDefault("extractor.tertiary.max_retries", 2)
	v.SetDefault("extractor.tertiary.timeout_secs", 120)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "VERITY_SERVER_PORT",
		"server.read_timeout":       "VERITY_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "VERITY_SERVER_WRITE_TIMEOUT",
		"server.environment":        "VERITY_SERVER_ENVIRONMENT",
		"log.level":                 "VERITY_LOG_LEVEL",
		"log.format":                "VERITY_LOG_FORMAT",
		"cors.allowed_origins":      "VERITY_CORS_ALLOWED_ORIGINS",
		"upload.max_file_size_mb":   "VERITY_UPLOAD_MAX_FILE_SIZE_MB",
		"audit.ocr_min":             "VERITY_AUDIT_OCR_MIN",
		"audit.publish":             "VERITY_AUDIT_PUBLISH",
		"audit.notes_min":           "VERITY_AUDIT_NOTES_MIN",
		"audit.max_findings":        "VERITY_AUDIT_MAX_FINDINGS",
		"audit.high_value_cents":    "VERITY_AUDIT_HIGH_VALUE_CENTS",
		"audit.adjustment_min_pct":  "VERITY_AUDIT_ADJUSTMENT_MIN_PCT",

		"extractor.primary.provider":        "VERITY_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":         "VERITY_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.default_model":   "VERITY_EXTRACTOR_PRIMARY_DEFAULT_MODEL",
		"extractor.primary.max_retries":     "VERITY_EXTRACTOR_PRIMARY_MAX_RETRIES",
		"extractor.primary.timeout_secs":    "VERITY_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":      "VERITY_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":       "VERITY_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.default_model": "VERITY_EXTRACTOR_SECONDARY_DEFAULT_MODEL",
		"extractor.secondary.max_retries":   "VERITY_EXTRACTOR_SECONDARY_MAX_RETRIES",
		"extractor.secondary.timeout_secs":  "VERITY_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"extractor.tertiary.provider":       "VERITY_EXTRACTOR_TERTIARY_PROVIDER",
		"extractor.tertiary.api_key":        "VERITY_EXTRACTOR_TERTIARY_API_KEY",
		"extractor.tertiary.default_model":  "VERITY_EXTRACTOR_TERTIARY_DEFAULT_MODEL",
		"extractor.tertiary.max_retries":    "VERITY_EXTRACTOR_TERTIARY_MAX_RETRIES",
		"extractor.tertiary.timeout_secs":   "VERITY_EXTRACTOR_TERTIARY_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if VERITY_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("VERITY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Audit = AuditConfig{
		OCRMin:           v.GetInt("audit.ocr_min"),
		Publish:          v.GetInt("audit.publish"),
		NotesMin:         v.GetInt("audit.notes_min"),
		MaxFindings:      v.GetInt("audit.max_findings"),
		HighValueCents:   v.GetInt64("audit.high_value_cents"),
		AdjustmentMinPct: v.GetFloat64("audit.adjustment_min_pct"),
	}
	cfg.Extractor = ExtractorConfig{
		Primary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.primary.provider"),
			APIKey:       v.GetString("extractor.primary.api_key"),
			DefaultModel: v.GetString("extractor.primary.default_model"),
			MaxRetries:   v.GetInt("extractor.primary.max_retries"),
			TimeoutSecs:  v.GetInt("extractor.primary.timeout_secs"),
		},
		Secondary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.secondary.provider"),
			APIKey:       v.GetString("extractor.secondary.api_key"),
			DefaultModel: v.GetString("extractor.secondary.default_model"),
			MaxRetries:   v.GetInt("extractor.secondary.max_retries"),
			TimeoutSecs:  v.GetInt("extractor.secondary.timeout_secs"),
		},
		Tertiary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.tertiary.provider"),
			APIKey:       v.GetString("extractor.tertiary.api_key"),
			DefaultModel: v.GetString("extractor.tertiary.default_model"),
			MaxRetries:   v.GetInt("extractor.tertiary.max_retries"),
			TimeoutSecs:  v.GetInt("extractor.tertiary.timeout_secs"),
		},
	}

	return cfg, nil
}
