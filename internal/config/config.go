package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/maumlabs/anbu/internal/core/model"
)

type ServerConfig struct {
	Port string `toml:"port"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type DatabaseConfig struct {
	DSN string `toml:"dsn"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RiskConfig holds the keyword lexicons for emergency detection. The
// tables are loaded once at startup and passed into the detector; they are
// never mutated at runtime.
type RiskConfig struct {
	HealthEmergency []string `toml:"health_emergency"`
	SafetyRisk      []string `toml:"safety_risk"`
	MentalCrisis    []string `toml:"mental_crisis"`
}

// Keywords returns the lexicons keyed by alert type.
func (r RiskConfig) Keywords() map[model.AlertType][]string {
	return map[model.AlertType][]string{
		model.AlertHealthEmergency: r.HealthEmergency,
		model.AlertSafetyRisk:      r.SafetyRisk,
		model.AlertMentalCrisis:    r.MentalCrisis,
	}
}

// PromptsConfig carries the completion prompt templates. Each template is
// a fmt.Sprintf format string; see defaults.go for the expected verbs.
type PromptsConfig struct {
	Health        string `toml:"health"`
	Emotion       string `toml:"emotion"`
	Needs         string `toml:"needs"`
	Corroboration string `toml:"corroboration"`
	Overview      string `toml:"overview"`
	Tips          string `toml:"tips"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	LLM      LLMConfig      `toml:"llm"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Risk     RiskConfig     `toml:"risk"`
	Prompts  PromptsConfig  `toml:"prompts"`
}

// Load reads TOML configuration from path on top of the compiled-in
// defaults, then applies environment overrides. A missing file is not an
// error; the defaults plus environment are a complete configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setIfEnv(&c.Server.Port, "PORT")
	setIfEnv(&c.LLM.Provider, "LLM_PROVIDER")
	setIfEnv(&c.LLM.Model, "LLM_MODEL")
	setIfEnv(&c.LLM.APIKey, "LLM_API_KEY")
	setIfEnv(&c.LLM.BaseURL, "LLM_BASE_URL")
	setIfEnv(&c.Database.DSN, "DATABASE_DSN")
	setIfEnv(&c.Redis.Addr, "REDIS_ADDR")
	setIfEnv(&c.Redis.Password, "REDIS_PASSWORD")
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
