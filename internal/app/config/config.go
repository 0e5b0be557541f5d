package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	MySQL     MySQLConfig     `mapstructure:"mysql"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Lmstfy    LmstfyConfig    `mapstructure:"lmstfy"`
	Marking   MarkingConfig   `mapstructure:"marking"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type ServerConfig struct {
	Port       string `mapstructure:"port"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

type MySQLConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	ChannelPrefix string `mapstructure:"channel_prefix"`
}

type LmstfyConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Namespace  string `mapstructure:"namespace"`
	Token      string `mapstructure:"token"`
	AuditQueue string `mapstructure:"audit_queue"`
}

// MarkingConfig 批量打标执行参数
type MarkingConfig struct {
	Concurrency     int           `mapstructure:"concurrency"`      // 单批并发数，1 为顺序执行
	CallTimeout     time.Duration `mapstructure:"call_timeout"`     // 单次存储过程调用超时
	SuccessSentinel string        `mapstructure:"success_sentinel"` // 存储过程成功返回值
}

// TelemetryConfig 链路追踪（OTLP/HTTP），默认关闭
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // 如 http://otel-collector:4318
}

// envOverrides 环境变量覆盖（密钥类配置不落盘）
type envOverrides struct {
	DSN            string `env:"DB_DSN"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	LmstfyToken    string `env:"LMSTFY_TOKEN"`
	Port           string `env:"PORT"`
	LogLevel       string `env:"LOG_LEVEL"`
	MarkingWorkers int    `env:"MARKING_CONCURRENCY"`
	OTelEndpoint   string `env:"OTEL_ENDPOINT"`
}

// Load 从配置文件加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("app.name", "marcas")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("redis.channel_prefix", "marcas:batch:")
	v.SetDefault("lmstfy.port", 7777)
	v.SetDefault("lmstfy.audit_queue", "marcas_audit")
	v.SetDefault("marking.concurrency", 1)
	v.SetDefault("marking.call_timeout", "15s")
	v.SetDefault("marking.success_sentinel", "BIEN")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault 加载默认配置文件路径
func LoadDefault() (*Config, error) {
	return Load("config/config.yaml")
}

func (c *Config) applyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env failed: %w", err)
	}

	if o.DSN != "" {
		c.MySQL.DSN = o.DSN
	}
	if o.RedisPassword != "" {
		c.Redis.Password = o.RedisPassword
	}
	if o.LmstfyToken != "" {
		c.Lmstfy.Token = o.LmstfyToken
	}
	if o.Port != "" {
		c.Server.Port = o.Port
	}
	if o.LogLevel != "" {
		c.App.LogLevel = o.LogLevel
	}
	if o.MarkingWorkers > 0 {
		c.Marking.Concurrency = o.MarkingWorkers
	}
	if o.OTelEndpoint != "" {
		c.Telemetry.Enabled = true
		c.Telemetry.Endpoint = o.OTelEndpoint
	}
	return nil
}

// Validate 验证配置完整性
func (c *Config) Validate() error {
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql dsn is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy host is required")
	}
	if c.Lmstfy.Token == "" {
		return fmt.Errorf("lmstfy token is required")
	}
	if c.Marking.Concurrency < 1 {
		return fmt.Errorf("marking.concurrency must be >= 1")
	}
	if c.Marking.SuccessSentinel == "" {
		return fmt.Errorf("marking.success_sentinel is required")
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
	}
	return nil
}
