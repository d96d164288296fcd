package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Env       string `envconfig:"APP_ENV" default:"development"`
	Port      int    `envconfig:"APP_PORT" default:"8080"`
	DB        DBConfig
	Redis     RedisConfig
	Groq      GroqConfig
	Session   SessionConfig
	Interview InterviewConfig
	CORS      CORSConfig
}

// database configuration
type DBConfig struct {
	DSN          string        `envconfig:"DATABASE_URL" required:"true"`
	MaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleTime  time.Duration `envconfig:"DB_MAX_IDLE_TIME" default:"15m"`
}

// Redis configuration; used only when SESSION_STORE=redis
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Groq AI configuration
type GroqConfig struct {
	APIKey  string        `envconfig:"GROQ_API_KEY" required:"true"`
	Model   string        `envconfig:"GROQ_MODEL" default:"meta-llama/llama-4-maverick-17b-128e-instruct"`
	Timeout time.Duration `envconfig:"GROQ_TIMEOUT" default:"30s"`
}

// session store configuration
type SessionConfig struct {
	Store         string        `envconfig:"SESSION_STORE" default:"memory"`
	TTL           time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"10m"`
}

// interview engine tuning
type InterviewConfig struct {
	NumQuestions      int     `envconfig:"INTERVIEW_NUM_QUESTIONS" default:"5"`
	FollowUpLowProb   float64 `envconfig:"FOLLOWUP_LOW_PROB" default:"0.6"`
	FollowUpHighProb  float64 `envconfig:"FOLLOWUP_HIGH_PROB" default:"0.3"`
	FollowUpLowScore  float64 `envconfig:"FOLLOWUP_LOW_SCORE" default:"7"`
	FollowUpHighScore float64 `envconfig:"FOLLOWUP_HIGH_SCORE" default:"8"`
}

// CORS configuration
type CORSConfig struct {
	TrustedOrigins []string `envconfig:"CORS_TRUSTED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if c.DB.MaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1")
	}
	if c.Session.Store != "memory" && c.Session.Store != "redis" {
		return fmt.Errorf("invalid session store: %s (must be memory or redis)", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Interview.NumQuestions < 1 || c.Interview.NumQuestions > 20 {
		return fmt.Errorf("INTERVIEW_NUM_QUESTIONS must be between 1 and 20")
	}
	if c.Interview.FollowUpLowProb < 0 || c.Interview.FollowUpLowProb > 1 {
		return fmt.Errorf("FOLLOWUP_LOW_PROB must be in [0,1]")
	}
	if c.Interview.FollowUpHighProb < 0 || c.Interview.FollowUpHighProb > 1 {
		return fmt.Errorf("FOLLOWUP_HIGH_PROB must be in [0,1]")
	}
	if c.Interview.FollowUpLowScore > c.Interview.FollowUpHighScore {
		return fmt.Errorf("FOLLOWUP_LOW_SCORE cannot exceed FOLLOWUP_HIGH_SCORE")
	}
	if len(c.CORS.TrustedOrigins) == 0 {
		return fmt.Errorf("at least one trusted origin must be specified")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
