package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger    `mapstructure:"logger"`
	DB        Database  `mapstructure:"database"`
	API       API       `mapstructure:"api"`
	ML        ML        `mapstructure:"ml"`
	Inference Inference `mapstructure:"inference"`
	Upload    Upload    `mapstructure:"upload"`
	Cache     Cache     `mapstructure:"cache"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

// ML describes where the pretrained classifier artifacts live and how the
// model exposes its confidence signal.
type ML struct {
	ModelPath     string `mapstructure:"model_path"`
	ScalerPath    string `mapstructure:"scaler_path"`
	OrtLibPath    string `mapstructure:"ort_lib_path"`
	InputName     string `mapstructure:"input_name"`
	OutputName    string `mapstructure:"output_name"`
	Capability    string `mapstructure:"capability"` // probability, margin or none
	DisableScaler bool   `mapstructure:"disable_scaler"`
}

type Inference struct {
	ChunkSize           int           `mapstructure:"chunk_size"`
	MaxConcurrency      int           `mapstructure:"max_concurrency"`
	StaleAfter          time.Duration `mapstructure:"stale_after"`
	ReconcileCronExpr   string        `mapstructure:"reconcile_cron_expr"`
	ReconcileBatchLimit int           `mapstructure:"reconcile_batch_limit"`
}

type Upload struct {
	MaxFileSizeBytes int64 `mapstructure:"max_file_size_bytes"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

func Load() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("ml.input_name", "float_input")
	viper.SetDefault("ml.output_name", "probabilities")
	viper.SetDefault("ml.capability", "probability")
	viper.SetDefault("inference.chunk_size", 100)
	viper.SetDefault("inference.max_concurrency", 4)
	viper.SetDefault("inference.stale_after", 30*time.Minute)
	viper.SetDefault("inference.reconcile_cron_expr", "*/10 * * * *")
	viper.SetDefault("inference.reconcile_batch_limit", 500)
	viper.SetDefault("upload.max_file_size_bytes", 50*1024*1024)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
}
