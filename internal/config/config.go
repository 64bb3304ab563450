package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Mongo       MongoConfig       `mapstructure:"mongo"`
	Auth        AuthConfig        `mapstructure:"auth"`
	CORS        CORSConfig        `mapstructure:"cors"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Translation TranslationConfig `mapstructure:"translation"`
	Classifier  ClassifierConfig  `mapstructure:"classifier"`
	VirusTotal  VirusTotalConfig  `mapstructure:"virustotal"`
	Analysis    AnalysisConfig    `mapstructure:"analysis"`
	Reports     ReportsConfig     `mapstructure:"reports"`
}

type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"oneof=development staging production test"`
	Version     string `mapstructure:"version"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port" validate:"min=1,max=65535"`
	GRPCPort        int           `mapstructure:"grpc_port" validate:"min=0,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type MongoConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	URI      string        `mapstructure:"uri" validate:"required_if=Enabled true"`
	Database string        `mapstructure:"database" validate:"required_if=Enabled true"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" validate:"min=0"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=console json"`
	TimeFormat string `mapstructure:"time_format"`
}

// TranslationConfig points at the machine translation collaborator
type TranslationConfig struct {
	Endpoint string        `mapstructure:"endpoint" validate:"required,url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ClassifierConfig points at the ML scam classifier
type ClassifierConfig struct {
	Endpoint string        `mapstructure:"endpoint" validate:"required,url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// VirusTotalConfig holds URL reputation API settings
type VirusTotalConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url" validate:"required,url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// AnalysisConfig bounds the message analysis pipeline
type AnalysisConfig struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	MaxConcurrentScans int           `mapstructure:"max_concurrent_scans" validate:"min=0"`
	ExpandURLs         bool          `mapstructure:"expand_urls"`
}

// ReportsConfig controls scam report retention
type ReportsConfig struct {
	Retention     time.Duration `mapstructure:"retention"`
	PurgeSchedule string        `mapstructure:"purge_schedule"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "elderguard")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.grpc_port", 9090)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 75*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "elderguard")
	v.SetDefault("database.dbname", "elderguard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "elderguard:")

	v.SetDefault("mongo.enabled", false)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "elderguard")
	v.SetDefault("mongo.timeout", 10*time.Second)

	v.SetDefault("auth.issuer", "elderguard")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 30)

	v.SetDefault("logger.time_format", time.RFC3339)

	v.SetDefault("translation.endpoint", "https://translate.googleapis.com/translate_a/single")
	v.SetDefault("translation.timeout", 10*time.Second)

	v.SetDefault("classifier.endpoint", "https://scam-detection-iitkgp.onrender.com/predict")
	v.SetDefault("classifier.timeout", 20*time.Second)

	v.SetDefault("virustotal.base_url", "https://www.virustotal.com/api/v3")
	v.SetDefault("virustotal.timeout", 30*time.Second)
	v.SetDefault("virustotal.cache_ttl", 6*time.Hour)

	v.SetDefault("analysis.timeout", 45*time.Second)
	v.SetDefault("analysis.max_concurrent_scans", 0)
	v.SetDefault("analysis.expand_urls", false)

	v.SetDefault("reports.retention", 90*24*time.Hour)
	v.SetDefault("reports.purge_schedule", "0 3 * * *")
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/elderguard")
	}

	v.SetEnvPrefix("ELDERGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Nested keys are only resolved from env once bound
	v.BindEnv("app.environment", "ELDERGUARD_APP_ENVIRONMENT")
	v.BindEnv("redis.enabled", "ELDERGUARD_REDIS_ENABLED")
	v.BindEnv("redis.host", "ELDERGUARD_REDIS_HOST")
	v.BindEnv("redis.port", "ELDERGUARD_REDIS_PORT")
	v.BindEnv("redis.password", "ELDERGUARD_REDIS_PASSWORD")
	v.BindEnv("database.enabled", "ELDERGUARD_DATABASE_ENABLED")
	v.BindEnv("database.host", "ELDERGUARD_DATABASE_HOST")
	v.BindEnv("database.port", "ELDERGUARD_DATABASE_PORT")
	v.BindEnv("database.user", "ELDERGUARD_DATABASE_USER")
	v.BindEnv("database.password", "ELDERGUARD_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "ELDERGUARD_DATABASE_DBNAME")
	v.BindEnv("mongo.enabled", "ELDERGUARD_MONGO_ENABLED")
	v.BindEnv("mongo.uri", "ELDERGUARD_MONGO_URI", "MONGODB_URI")
	v.BindEnv("auth.jwt_secret", "ELDERGUARD_AUTH_JWT_SECRET", "NEXTAUTH_SECRET")
	v.BindEnv("virustotal.api_key", "ELDERGUARD_VIRUSTOTAL_API_KEY", "VIRUSTOTAL_API_KEY")
	v.BindEnv("classifier.endpoint", "ELDERGUARD_CLASSIFIER_ENDPOINT")
	v.BindEnv("translation.endpoint", "ELDERGUARD_TRANSLATION_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}
