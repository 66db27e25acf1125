// Package config loads the service settings from an optional YAML file, a
// .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/finance"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings is the full runtime configuration of the service.
type Settings struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Supabase SupabaseConfig `mapstructure:"supabase" yaml:"supabase"`
	Keycloak KeycloakConfig `mapstructure:"keycloak" yaml:"keycloak"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	CORS     CORSConfig     `mapstructure:"cors" yaml:"cors"`
	Finance  FinanceConfig  `mapstructure:"finance" yaml:"finance"`
	Redis    RedisConfig    `mapstructure:"redis" yaml:"redis"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port" yaml:"port"`
	Env             string        `mapstructure:"env" yaml:"env"` // "production" enables gin release mode
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`             // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format"`           // json, console
	OutputFile string `mapstructure:"output_file" yaml:"output_file"` // optional file output
}

type SupabaseConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Key     string        `mapstructure:"key" yaml:"key"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type KeycloakConfig struct {
	ClientID     string        `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string        `mapstructure:"client_secret" yaml:"client_secret"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type StorageConfig struct {
	BucketName string `mapstructure:"bucket_name" yaml:"bucket_name"`
}

type AuthConfig struct {
	AdminRoleName string `mapstructure:"admin_role_name" yaml:"admin_role_name"`
	// RequireForFinancial puts the /financial endpoints behind bearer
	// authentication. Off by default.
	RequireForFinancial bool `mapstructure:"require_for_financial" yaml:"require_for_financial"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
}

type FinanceConfig struct {
	// MaintenancePolicy is "legacy" (default) or "once"; see finance.MaintenancePolicy.
	MaintenancePolicy string `mapstructure:"maintenance_policy" yaml:"maintenance_policy"`
}

// RedisConfig enables a shared Keycloak token cache when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

// envBindings maps setting keys to the environment variable names used by
// existing deployments.
var envBindings = map[string]string{
	"server.port":                "API_PORT",
	"server.env":                 "API_ENV",
	"logging.level":              "LOG_LEVEL",
	"logging.format":             "LOG_FORMAT",
	"supabase.url":               "SUPABASE_URL",
	"supabase.key":               "SUPABASE_KEY",
	"keycloak.client_id":         "KEYCLOAK_CLIENT_ID",
	"keycloak.client_secret":     "KEYCLOAK_CLIENT_SECRET",
	"storage.bucket_name":        "BUCKET_NAME",
	"auth.admin_role_name":       "ADMIN_ROLE_NAME",
	"auth.require_for_financial": "REQUIRE_AUTH_FOR_FINANCIAL",
	"cors.allowed_origins":       "CORS_ALLOWED_ORIGINS",
	"finance.maintenance_policy": "MAINTENANCE_POLICY",
	"redis.addr":                 "REDIS_ADDR",
	"redis.password":             "REDIS_PASSWORD",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("supabase.timeout", 30*time.Second)
	v.SetDefault("keycloak.timeout", 30*time.Second)
	v.SetDefault("storage.bucket_name", "default_bucket")
	v.SetDefault("auth.admin_role_name", "relife_admin")
	v.SetDefault("auth.require_for_financial", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("finance.maintenance_policy", string(finance.MaintenanceLegacy))
}

// Load reads .env (if present), then the YAML file at path (if set and
// present), then the environment, and validates the result. Environment
// variables win over the file.
func Load(path string) (*Settings, error) {
	s, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadUnchecked loads and merges settings, but does not validate them.
func LoadUnchecked(path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file, %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	s.CORS.AllowedOrigins = splitList(s.CORS.AllowedOrigins)
	return &s, nil
}

// Validate checks that everything needed to serve requests is present.
func (s *Settings) Validate() error {
	if s == nil {
		return errors.New("settings are nil")
	}

	var missing []string
	if s.Supabase.URL == "" {
		missing = append(missing, envBindings["supabase.url"])
	}
	if s.Supabase.Key == "" {
		missing = append(missing, envBindings["supabase.key"])
	}
	if s.Keycloak.ClientID == "" {
		missing = append(missing, envBindings["keycloak.client_id"])
	}
	if s.Keycloak.ClientSecret == "" {
		missing = append(missing, envBindings["keycloak.client_secret"])
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	if strings.TrimSpace(s.Server.Port) == "" {
		return errors.New("server.port is required")
	}
	if _, err := s.MaintenancePolicy(); err != nil {
		return fmt.Errorf("finance config invalid: %w", err)
	}
	return nil
}

// MaintenancePolicy parses Finance.MaintenancePolicy.
func (s *Settings) MaintenancePolicy() (finance.MaintenancePolicy, error) {
	return finance.ParseMaintenancePolicy(s.Finance.MaintenancePolicy)
}

// IsProduction reports whether the service runs in production mode.
func (s *Settings) IsProduction() bool {
	return s.Server.Env == "production"
}

// Addr is the listen address derived from the configured port.
func (s *Settings) Addr() string {
	return ":" + strings.TrimPrefix(s.Server.Port, ":")
}

// splitList flattens comma-separated entries, as produced by
// CORS_ALLOWED_ORIGINS, and drops blanks.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
