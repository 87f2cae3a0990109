package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Postgres DBConfig
	Redis    RedisConfig
	S3       S3Config
	Logger   Logger
	Worker   WorkerConfig
	Store    StoreConfig
	Queue    QueueConfig
	Remote   RemoteConfig
	Outputs  OutputsConfig
}

type ServerConfig struct {
	AppVersion   string
	Port         string
	Mode         string
	JwtSecretKey string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
	AllowOrigins []string
}

type WorkerConfig struct {
	WorkerCount int
	MaxCPUUsage float64
	Embedded    bool
	JobTimeout  int
	// standalone worker only; empty disables /metrics
	MetricsPort string
}

type StoreConfig struct {
	// memory, redis or postgres
	Driver string
	JobTTL int
}

type QueueConfig struct {
	// memory or redis
	Driver   string
	Key      string
	Capacity int
}

type RemoteConfig struct {
	URL            string
	RequestTimeout int
	DefaultFrames  int
}

type OutputsConfig struct {
	Dir string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PgDriver string
	SSLMode  string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	UseTLS        bool
	KeyPrefix     string
}

type S3Config struct {
	Enabled      bool
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	OutputBucket string
	PresignTTL   int
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.SetEnvPrefix("VEDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.AppVersion == "" {
		c.Server.AppVersion = "0.2.0"
	}
	if c.Server.Port == "" {
		c.Server.Port = ":8000"
	}
	if c.Worker.WorkerCount <= 0 {
		c.Worker.WorkerCount = 1
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Queue.Driver == "" {
		c.Queue.Driver = "memory"
	}
	if c.Queue.Key == "" {
		c.Queue.Key = "veda:generation_jobs"
	}
	if c.Queue.Capacity <= 0 {
		c.Queue.Capacity = 64
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "veda:job:"
	}
	if c.Remote.RequestTimeout <= 0 {
		c.Remote.RequestTimeout = 600
	}
	if c.Remote.DefaultFrames <= 0 {
		c.Remote.DefaultFrames = 16
	}
	if c.Outputs.Dir == "" {
		c.Outputs.Dir = "outputs/api"
	}
	if c.S3.PresignTTL <= 0 {
		c.S3.PresignTTL = 3600
	}
	if c.Logger.Encoding == "" {
		c.Logger.Encoding = "console"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "memory", "redis", "postgres":
	default:
		return errors.New("store.driver must be one of memory, redis, postgres")
	}
	switch c.Queue.Driver {
	case "memory", "redis":
	default:
		return errors.New("queue.driver must be one of memory, redis")
	}
	if c.Queue.Driver == "memory" && !c.Worker.Embedded {
		return errors.New("memory queue requires worker.embedded")
	}
	if c.Store.Driver == "memory" && !c.Worker.Embedded {
		return errors.New("memory store requires worker.embedded")
	}
	if c.S3.Enabled && c.S3.OutputBucket == "" {
		return errors.New("s3.outputBucket is required when s3 is enabled")
	}
	return nil
}
