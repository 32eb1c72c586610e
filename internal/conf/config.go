package conf

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Tiering  TieringConfig
	Database DatabaseConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// StorageConfig selects the backing implementations. The engine and use
// cases are backend-agnostic; swapping backends is a config change only.
type StorageConfig struct {
	MetadataBackend string `mapstructure:"metadata_backend"` // memory, postgres, redis
	BlobBackend     string `mapstructure:"blob_backend"`     // memory, minio
}

// TieringConfig carries the policy knobs. Defaults match the production
// schedule: HOT->WARM at 30 days, WARM->COLD at 90, retention hold 180.
type TieringConfig struct {
	HotToWarmDays    int    `mapstructure:"hot_to_warm_days"`
	WarmToColdDays   int    `mapstructure:"warm_to_cold_days"`
	PriorityMarker   string `mapstructure:"priority_marker"`
	RetentionPrefix  string `mapstructure:"retention_prefix"`
	RetentionMaxDays int    `mapstructure:"retention_max_days"`
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

func LoadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)

	viper.SetDefault("storage.metadata_backend", "memory")
	viper.SetDefault("storage.blob_backend", "memory")

	viper.SetDefault("tiering.hot_to_warm_days", 30)
	viper.SetDefault("tiering.warm_to_cold_days", 90)
	viper.SetDefault("tiering.priority_marker", "PRIORITY")
	viper.SetDefault("tiering.retention_prefix", "LEGAL_")
	viper.SetDefault("tiering.retention_max_days", 180)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output", "console")
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
