package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Reporting facility identity, emitted in every report header.
	FacilityCode string `mapstructure:"FACILITY_CODE"`
	FacilityName string `mapstructure:"FACILITY_NAME"`
	FacilityNIT  string `mapstructure:"FACILITY_NIT"`
	Address      string `mapstructure:"FACILITY_ADDRESS"`
	Municipality string `mapstructure:"FACILITY_MUNICIPALITY"`
	Department   string `mapstructure:"FACILITY_DEPARTMENT"`
	LegalRep     string `mapstructure:"FACILITY_LEGAL_REP"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("FACILITY_MUNICIPALITY", "Bogotá")
	v.SetDefault("FACILITY_DEPARTMENT", "Cundinamarca")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("FACILITY_CODE")
	v.BindEnv("FACILITY_NAME")
	v.BindEnv("FACILITY_NIT")
	v.BindEnv("FACILITY_ADDRESS")
	v.BindEnv("FACILITY_MUNICIPALITY")
	v.BindEnv("FACILITY_DEPARTMENT")
	v.BindEnv("FACILITY_LEGAL_REP")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Reports carry the
// facility identity verbatim, so in production the identity block must be
// complete: a declaration without provider code, NIT or legal representative
// is rejected by the receiving authority.
func (c *Config) Validate() error {
	if !c.IsProduction() {
		return nil
	}
	required := []struct {
		name  string
		value string
	}{
		{"FACILITY_CODE", c.FacilityCode},
		{"FACILITY_NAME", c.FacilityName},
		{"FACILITY_NIT", c.FacilityNIT},
		{"FACILITY_LEGAL_REP", c.LegalRep},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required in production", r.name)
		}
	}
	return nil
}
