package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Risk   RiskConfig   `yaml:"risk" mapstructure:"risk"`
}

// DataConfig configures where the gold tables are read from and how
// parsed tables are cached.
type DataConfig struct {
	Dirs  []string    `yaml:"dirs" mapstructure:"dirs"`
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`
}

// CacheConfig selects the table-cache backend. Driver is one of
// "memory", "sqlite" or "off".
type CacheConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// RiskConfig holds the weights, thresholds and keyword points of the
// regulatory risk score. Defaults live in the risk package.
type RiskConfig struct {
	WarnDays     float64 `yaml:"warn_days" mapstructure:"warn_days"`
	CriticalDays float64 `yaml:"critical_days" mapstructure:"critical_days"`

	TimeShortPoints    float64 `yaml:"time_short_points" mapstructure:"time_short_points"`
	TimeMediumPoints   float64 `yaml:"time_medium_points" mapstructure:"time_medium_points"`
	TimeCriticalPoints float64 `yaml:"time_critical_points" mapstructure:"time_critical_points"`

	AddressDivergencePoints float64 `yaml:"address_divergence_points" mapstructure:"address_divergence_points"`
	SeatDivergencePoints    float64 `yaml:"seat_divergence_points" mapstructure:"seat_divergence_points"`
	RemoteSeatPoints        float64 `yaml:"remote_seat_points" mapstructure:"remote_seat_points"`

	KeywordPoints map[string]float64 `yaml:"keyword_points" mapstructure:"keyword_points"`

	LowMax    float64 `yaml:"low_max" mapstructure:"low_max"`
	MediumMax float64 `yaml:"medium_max" mapstructure:"medium_max"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("REGDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dirs", []string{"gold/output", "gold"})
	v.SetDefault("data.cache.driver", "memory")
	v.SetDefault("data.cache.path", ".regdash-cache.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("risk.warn_days", 365)
	v.SetDefault("risk.critical_days", 730)
	v.SetDefault("risk.time_short_points", 10)
	v.SetDefault("risk.time_medium_points", 25)
	v.SetDefault("risk.time_critical_points", 40)
	v.SetDefault("risk.address_divergence_points", 12)
	v.SetDefault("risk.seat_divergence_points", 12)
	v.SetDefault("risk.remote_seat_points", 6)
	v.SetDefault("risk.keyword_points", map[string]float64{
		"CREDENCI": 10,
		"AUTORIZ":  10,
		"PORTARIA": 8,
		"GABINETE": 8,
		"MINISTRO": 6,
	})
	v.SetDefault("risk.low_max", 33)
	v.SetDefault("risk.medium_max", 66)

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

// WriteDefaultFile writes a config.yaml populated with the loaded
// defaults to the given path. Refuses to overwrite an existing file.
func WriteDefaultFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "config: marshal defaults")
	}
	header := []byte("# regdash configuration. Values can be overridden via REGDASH_* env vars.\n")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return eris.Wrapf(err, "config: create %s", path)
	}
	defer f.Close()

	if _, err := f.Write(append(header, data...)); err != nil {
		return eris.Wrapf(err, "config: write %s", path)
	}
	return nil
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
