package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
	Store         StoreConfig         `yaml:"store" mapstructure:"store"`
	Database      DatabaseConfig      `yaml:"database" mapstructure:"database"`
	Minio         MinioConfig         `yaml:"minio" mapstructure:"minio"`
	AI            AIConfig            `yaml:"ai" mapstructure:"ai"`
	Analysis      AnalysisConfig      `yaml:"analysis" mapstructure:"analysis"`
	Questionnaire QuestionnaireConfig `yaml:"questionnaire" mapstructure:"questionnaire"`
	RateLimit     RateLimitConfig     `yaml:"ratelimit" mapstructure:"ratelimit"`
	CORS          CORSConfig          `yaml:"cors" mapstructure:"cors"`
}

type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
	// WriteTimeoutSecs must cover a full submission including video analysis.
	WriteTimeoutSecs int `yaml:"write_timeout_secs" mapstructure:"write_timeout_secs"`
	ReadTimeoutSecs  int `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig selects the screening repository backend.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	// DatabaseURL is the sqlite path or postgres DSN; mysql uses the database section.
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Name     string `yaml:"name" mapstructure:"name"`
}

type MinioConfig struct {
	Endpoint   string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey  string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey  string `yaml:"secret_key" mapstructure:"secret_key"`
	BucketName string `yaml:"bucket_name" mapstructure:"bucket_name"`
	Region     string `yaml:"region" mapstructure:"region"`
	UseSSL     bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
}

// Enabled reports whether uploads and bucket references are available.
func (m MinioConfig) Enabled() bool { return m.Endpoint != "" }

type AIConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

type AnalysisConfig struct {
	TimeoutSecs      int   `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	FetchTimeoutSecs int   `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	MaxVideoBytes    int64 `yaml:"max_video_bytes" mapstructure:"max_video_bytes"`
	Concurrency      int   `yaml:"concurrency" mapstructure:"concurrency"`
	Cloudinary       bool  `yaml:"cloudinary" mapstructure:"cloudinary"`
}

func (a AnalysisConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

type QuestionnaireConfig struct {
	// CatalogPath overrides the built-in questionnaires when set.
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" mapstructure:"rps"`
	Burst int     `yaml:"burst" mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// Load reads configuration from file and environment. An empty path looks
// for ./config.yaml and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, eris.Wrapf(err, "config: %s", path)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("DEVSCREEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.write_timeout_secs", 300)
	v.SetDefault("server.read_timeout_secs", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "devscreen.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "devscreen")
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket_name", "screening-videos")
	v.SetDefault("minio.region", "us-east-1")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com/v1beta/openai")
	v.SetDefault("analysis.timeout_secs", 30)
	v.SetDefault("analysis.fetch_timeout_secs", 30)
	v.SetDefault("analysis.max_video_bytes", 20<<20)
	v.SetDefault("analysis.concurrency", 0)
	v.SetDefault("analysis.cloudinary", true)
	v.SetDefault("questionnaire.catalog_path", "")
	v.SetDefault("ratelimit.rps", 5.0)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("cors.allowed_origins", []string{"*"})

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
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return eris.Errorf("config: unknown store.driver %q (sqlite, mysql, postgres)", c.Store.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server.port %d", c.Server.Port)
	}
	if c.Analysis.TimeoutSecs <= 0 {
		return eris.New("config: analysis.timeout_secs must be positive")
	}
	return nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
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
