package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration, loaded once at startup and
// threaded explicitly through constructors — no process-wide mutable config
// state is kept.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Etcd      EtcdConfig      `mapstructure:"etcd"`
	Transcode TranscodeConfig `mapstructure:"transcode"`
	Log       LogConfig       `mapstructure:"log"`
}

// DatabaseConfig configures the MySQL-backed job repository.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Charset         string        `mapstructure:"charset"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig configures the non-authoritative heartbeat cache.
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableTLS    bool          `mapstructure:"enable_tls"`
	HeartbeatTTL time.Duration `mapstructure:"heartbeat_ttl"`
}

// KafkaConfig configures the best-effort job-lifecycle event publisher.
type KafkaConfig struct {
	BootstrapServers []string          `mapstructure:"bootstrap_servers"`
	ClientID         string            `mapstructure:"client_id"`
	Enabled          bool              `mapstructure:"enabled"`
	Topics           KafkaTopicsConfig `mapstructure:"topics"`
}

type KafkaTopicsConfig struct {
	JobEvents string `mapstructure:"job_events"`
}

// EtcdConfig configures both the server's own service registration and the
// per-worker advisory liveness registry.
type EtcdConfig struct {
	Endpoints       []string      `mapstructure:"endpoints"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	ServiceName     string        `mapstructure:"service_name"`
	ServiceID       string        `mapstructure:"service_id"`
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	WorkerLeaseTTL  time.Duration `mapstructure:"worker_lease_ttl"`
}

// TranscodeConfig configures decomposition and the external tool.
type TranscodeConfig struct {
	FFmpegBinaryPath  string        `mapstructure:"ffmpeg_binary_path"`
	FFprobeBinaryPath string        `mapstructure:"ffprobe_binary_path"`
	ProbeTimeout      time.Duration `mapstructure:"probe_timeout"`
	ChunkSeconds      int           `mapstructure:"chunk_seconds"`
	TimeoutSeconds    int           `mapstructure:"timeout_seconds"`
	EnableCrf         bool          `mapstructure:"enable_crf"`
}

// LogConfig configures the logrus-backed logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from configPath and fills defaults for unset or
// non-positive values; it does not reject any value.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("transcode.chunk_seconds", 60)
	viper.SetDefault("transcode.timeout_seconds", 120)
	viper.SetDefault("transcode.ffmpeg_binary_path", "ffmpeg")
	viper.SetDefault("transcode.ffprobe_binary_path", "ffprobe")
	viper.SetDefault("transcode.probe_timeout", 30*time.Second)
	viper.SetDefault("kafka.enabled", true)
	viper.SetDefault("kafka.client_id", "jobplane")
	viper.SetDefault("kafka.bootstrap_servers", []string{"localhost:9092"})
	viper.SetDefault("kafka.topics.job_events", "job-events")
	viper.SetDefault("etcd.service_name", "jobplane")
	viper.SetDefault("etcd.ttl", 30*time.Second)
	viper.SetDefault("etcd.refresh_interval", 10*time.Second)
	viper.SetDefault("etcd.worker_lease_ttl", 15*time.Second)
	viper.SetDefault("redis.heartbeat_ttl", 30*time.Second)
	viper.SetDefault("log.level", "info")

	viper.SetEnvPrefix("JOBPLANE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	if c.Transcode.ChunkSeconds <= 0 {
		c.Transcode.ChunkSeconds = 60
	}
	if c.Transcode.TimeoutSeconds <= 0 {
		c.Transcode.TimeoutSeconds = 120
	}
	if c.Transcode.FFmpegBinaryPath == "" {
		c.Transcode.FFmpegBinaryPath = "ffmpeg"
	}
	if c.Transcode.FFprobeBinaryPath == "" {
		c.Transcode.FFprobeBinaryPath = "ffprobe"
	}
	if c.Transcode.ProbeTimeout <= 0 {
		c.Transcode.ProbeTimeout = 30 * time.Second
	}
	if len(c.Kafka.BootstrapServers) == 0 {
		c.Kafka.BootstrapServers = []string{"localhost:9092"}
	}
	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = "jobplane"
	}
	if c.Redis.HeartbeatTTL <= 0 {
		c.Redis.HeartbeatTTL = 30 * time.Second
	}
	if c.Etcd.WorkerLeaseTTL <= 0 {
		c.Etcd.WorkerLeaseTTL = 15 * time.Second
	}
}

// DSN builds the MySQL data source name gorm expects.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// Addr builds the host:port go-redis expects.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
