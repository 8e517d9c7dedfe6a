package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/treeai-operations/alex-cli/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	AFISS   AFISSConfig   `yaml:"afiss" mapstructure:"afiss"`
	Costing CostingConfig `yaml:"costing" mapstructure:"costing"`
	Refdata RefdataConfig `yaml:"refdata" mapstructure:"refdata"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string            `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string            `yaml:"database_url" mapstructure:"database_url"`
	Pool        *store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// AFISSConfig configures risk scoring.
type AFISSConfig struct {
	// CatalogPath points at a YAML risk factor catalog. Empty disables
	// factor-code input; raw domain scores still work.
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"`

	AccessWeight       float64 `yaml:"access_weight" mapstructure:"access_weight"`
	FallZoneWeight     float64 `yaml:"fall_zone_weight" mapstructure:"fall_zone_weight"`
	InterferenceWeight float64 `yaml:"interference_weight" mapstructure:"interference_weight"`
	SeverityWeight     float64 `yaml:"severity_weight" mapstructure:"severity_weight"`
	SiteWeight         float64 `yaml:"site_weight" mapstructure:"site_weight"`
}

// CostingConfig holds tunable cost model rates.
type CostingConfig struct {
	FuelPricePerGallon float64 `yaml:"fuel_price_per_gallon" mapstructure:"fuel_price_per_gallon"`
	InterestRate       float64 `yaml:"interest_rate" mapstructure:"interest_rate"`
	InsuranceRate      float64 `yaml:"insurance_rate" mapstructure:"insurance_rate"`
	AnnualHours        float64 `yaml:"annual_hours" mapstructure:"annual_hours"`
	DefaultState       string  `yaml:"default_state" mapstructure:"default_state"`
}

// RefdataConfig configures reference data imports (equipment specs, wage
// tables). Sources may be local paths, http(s) URLs, or ftp URLs.
type RefdataConfig struct {
	EquipmentSpecsURL string `yaml:"equipment_specs_url" mapstructure:"equipment_specs_url"`
	WageTableURL      string `yaml:"wage_table_url" mapstructure:"wage_table_url"`
	TempDir           string `yaml:"temp_dir" mapstructure:"temp_dir"`
	UserAgent         string `yaml:"user_agent" mapstructure:"user_agent"`
}

// BatchConfig configures batch pricing.
type BatchConfig struct {
	MaxConcurrentJobs int `yaml:"max_concurrent_jobs" mapstructure:"max_concurrent_jobs"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks the configuration fields required for the given run mode.
func (c *Config) Validate(mode string) error {
	var errs []string

	weightSum := c.AFISS.AccessWeight + c.AFISS.FallZoneWeight +
		c.AFISS.InterferenceWeight + c.AFISS.SeverityWeight + c.AFISS.SiteWeight
	if weightSum < 1.0-1e-9 || weightSum > 1.0+1e-9 {
		errs = append(errs, "afiss weights must sum to 1.0")
	}
	for _, w := range []float64{
		c.AFISS.AccessWeight, c.AFISS.FallZoneWeight, c.AFISS.InterferenceWeight,
		c.AFISS.SeverityWeight, c.AFISS.SiteWeight,
	} {
		if w < 0 {
			errs = append(errs, "afiss weights must be >= 0")
			break
		}
	}
	if c.Costing.AnnualHours <= 0 {
		errs = append(errs, "costing.annual_hours must be > 0")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	case "batch":
		if c.Batch.MaxConcurrentJobs < 1 || c.Batch.MaxConcurrentJobs > 50 {
			errs = append(errs, "batch.max_concurrent_jobs must be between 1 and 50")
		}
	case "assess", "price":
		// Core calculators run without a store.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ALEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "alex.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent_jobs", 5)
	v.SetDefault("afiss.access_weight", 0.20)
	v.SetDefault("afiss.fall_zone_weight", 0.25)
	v.SetDefault("afiss.interference_weight", 0.20)
	v.SetDefault("afiss.severity_weight", 0.30)
	v.SetDefault("afiss.site_weight", 0.05)
	v.SetDefault("costing.fuel_price_per_gallon", 4.25)
	v.SetDefault("costing.interest_rate", 0.06)
	v.SetDefault("costing.insurance_rate", 0.03)
	v.SetDefault("costing.annual_hours", 1200)
	v.SetDefault("costing.default_state", "florida")
	v.SetDefault("refdata.temp_dir", "/tmp/alex-refdata")
	v.SetDefault("refdata.user_agent", "alex-cli/1.0")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
