package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
		RateLimit      struct {
			Capacity   int `yaml:"capacity"`
			RefillRate int `yaml:"refillRate"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Log struct {
		Level       string `yaml:"level"`
		Environment string `yaml:"environment"`
	} `yaml:"log"`

	Database struct {
		Driver   string `yaml:"driver"` // memory | mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`

		MaxOpenConns    int           `yaml:"maxOpenConns"`
		MaxIdleConns    int           `yaml:"maxIdleConns"`
		ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
	} `yaml:"database"`

	Storage struct {
		Driver        string `yaml:"driver"` // inline | minio
		MaxImageBytes int64  `yaml:"maxImageBytes"`
	} `yaml:"storage"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Analysis struct {
		Delay         time.Duration `yaml:"delay"`
		ResultTTL     time.Duration `yaml:"resultTTL"`
		SweepInterval time.Duration `yaml:"sweepInterval"`
		Seed          int64         `yaml:"seed"`
		CatalogPath   string        `yaml:"catalogPath"`
	} `yaml:"analysis"`

	Session struct {
		UserID    string `yaml:"userID"`
		UserName  string `yaml:"userName"`
		UserEmail string `yaml:"userEmail"`
	} `yaml:"session"`
}

// Load baca .env (kalau ada) lalu file config.yaml di atas default.
// A missing config file is not an error: defaults and env vars still apply.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SERVER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	envString(&c.Log.Level, "LOG_LEVEL")
	envString(&c.Database.Driver, "DATABASE_DRIVER")
	envString(&c.Database.Password, "DATABASE_PASSWORD")
	envString(&c.Storage.Driver, "STORAGE_DRIVER")
	envString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	envString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	if v := os.Getenv("ANALYSIS_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ANALYSIS_DELAY: %w", err)
		}
		c.Analysis.Delay = d
	}
	return nil
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	c := &Config{}
	c.Server.Port = 8080
	c.Server.AllowedOrigins = []string{"http://localhost:5173"}
	c.Server.RateLimit.Capacity = 60
	c.Server.RateLimit.RefillRate = 1
	c.Log.Level = "info"
	c.Log.Environment = "development"
	c.Database.Driver = "memory"
	c.Database.SSLMode = "disable"
	c.Database.MaxOpenConns = 25
	c.Database.MaxIdleConns = 10
	c.Database.ConnMaxLifetime = 30 * time.Minute
	c.Storage.Driver = "inline"
	c.Storage.MaxImageBytes = 10 << 20
	c.Analysis.Delay = 2 * time.Second
	c.Analysis.ResultTTL = 30 * time.Minute
	c.Analysis.SweepInterval = time.Minute
	c.Session.UserID = "mock-user-id-123"
	c.Session.UserName = "Demo User"
	c.Session.UserEmail = "demo.user@example.com"
	return c
}

// Validate rejects unknown drivers and an incomplete minio section.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "memory", "mysql", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q (allowed: memory, mysql, postgres)", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "inline":
	case "minio":
		if c.Minio.Endpoint == "" || c.Minio.BucketName == "" {
			return fmt.Errorf("minio storage needs minio.endpoint and minio.bucketName")
		}
	default:
		return fmt.Errorf("unknown storage driver %q (allowed: inline, minio)", c.Storage.Driver)
	}
	if c.Server.RateLimit.Capacity <= 0 || c.Server.RateLimit.RefillRate < 0 {
		return fmt.Errorf("server.rateLimit needs a positive capacity and a non-negative refillRate")
	}
	if c.Analysis.Delay < 0 {
		return fmt.Errorf("analysis.delay must not be negative")
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

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
