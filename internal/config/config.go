package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	OpenAI struct {
		APIKeyEnv string `yaml:"apiKeyEnv"`
		Model     string `yaml:"model"`
	} `yaml:"openai"`

	Analysis struct {
		MaxRetries   int `yaml:"maxRetries"`
		RetryDelayMS int `yaml:"retryDelayMs"`
	} `yaml:"analysis"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`
}

// Load reads the config.yaml file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.OpenAI.APIKeyEnv == "" {
		c.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Analysis.MaxRetries == 0 {
		c.Analysis.MaxRetries = 3
	}
	if c.Analysis.RetryDelayMS == 0 {
		c.Analysis.RetryDelayMS = 1000
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 30
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 5
	}
}

// APIKey resolves the OpenAI key from the configured env variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.OpenAI.APIKeyEnv)
}

// RetryDelay returns the base backoff delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Analysis.RetryDelayMS) * time.Millisecond
}
