package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	Cache    CacheConfig    `yaml:"cache"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address        string `yaml:"address"`
	FrontendOrigin string `yaml:"frontend_origin"`
	SwaggerDir     string `yaml:"swagger_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL is the connection string form golang-migrate expects.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	ReservationsTopic  string   `yaml:"reservations_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type AuthConfig struct {
	// Secret signs access and refresh tokens and keys the stored refresh
	// token hashes. Set via SECRET_KEY, never committed.
	Secret          string `yaml:"-"`
	AccessTokenTTL  int    `yaml:"access_token_ttl_seconds"`
	RefreshTokenTTL int    `yaml:"refresh_token_ttl_seconds"`
}

type UploadsConfig struct {
	Dir string `yaml:"dir"`
}

type CacheConfig struct {
	AirportsTTL int `yaml:"airports_ttl_seconds"`
	SeatLockTTL int `yaml:"seat_lock_ttl_seconds"`
}

type WorkerConfig struct {
	TokenSweepMinutes int `yaml:"token_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("ACCESS_TOKEN_EXPIRY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Auth.AccessTokenTTL = n
		}
	}
	if v := os.Getenv("REFRESH_TOKEN_EXPIRY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Auth.RefreshTokenTTL = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Auth.AccessTokenTTL == 0 {
		c.Auth.AccessTokenTTL = 900
	}
	if c.Auth.RefreshTokenTTL == 0 {
		c.Auth.RefreshTokenTTL = 432000
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "uploads"
	}
	if c.Cache.AirportsTTL == 0 {
		c.Cache.AirportsTTL = 300
	}
	if c.Cache.SeatLockTTL == 0 {
		c.Cache.SeatLockTTL = 120
	}
	if c.Worker.TokenSweepMinutes == 0 {
		c.Worker.TokenSweepMinutes = 60
	}
}
