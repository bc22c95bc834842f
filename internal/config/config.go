package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Duration accepts "30s" style strings in config.json.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalText lets env parse WIKIRAG_*_TIMEOUT values.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

type WikipediaConfig struct {
	APIURL           string   `json:"api_url" env:"WIKIRAG_WIKIPEDIA_API_URL" validate:"required,url"`
	TopK             int      `json:"top_k" env:"WIKIRAG_WIKIPEDIA_TOP_K" validate:"min=1,max=20"`
	MaxChars         int      `json:"max_chars" env:"WIKIRAG_WIKIPEDIA_MAX_CHARS" validate:"min=1"`
	Timeout          Duration `json:"timeout" env:"WIKIRAG_WIKIPEDIA_TIMEOUT"`
	UserAgent        string   `json:"user_agent" env:"WIKIRAG_WIKIPEDIA_USER_AGENT" validate:"required"`
	FullPageFallback bool     `json:"full_page_fallback" env:"WIKIRAG_WIKIPEDIA_FULL_PAGE_FALLBACK"`
}

type LLMConfig struct {
	Provider    string   `json:"provider" env:"WIKIRAG_LLM_PROVIDER" validate:"oneof=openai openai-chat bedrock"`
	Model       string   `json:"model" env:"WIKIRAG_LLM_MODEL" validate:"required"`
	BaseURL     string   `json:"base_url" env:"WIKIRAG_LLM_BASE_URL" validate:"omitempty,url"`
	APIKey      string   `json:"-" env:"OPENAI_API_KEY"`
	Temperature float64  `json:"temperature" env:"WIKIRAG_LLM_TEMPERATURE" validate:"gte=0,lte=2"`
	MaxTokens   int      `json:"max_tokens" env:"WIKIRAG_LLM_MAX_TOKENS" validate:"min=1"`
	Timeout     Duration `json:"timeout" env:"WIKIRAG_LLM_TIMEOUT"`
	Region      string   `json:"region" env:"AWS_REGION" validate:"required_if=Provider bedrock"`
}

type Config struct {
	Server struct {
		Host    string `json:"host" env:"WIKIRAG_HOST"`
		Port    int    `json:"port" env:"WIKIRAG_PORT" validate:"min=1,max=65535"`
		Subpath string `json:"subpath" env:"WIKIRAG_SUBPATH"`
	} `json:"server"`
	Wikipedia    WikipediaConfig `json:"wikipedia"`
	LLM          LLMConfig       `json:"llm"`
	DefaultQuery string          `json:"default_query" env:"WIKIRAG_DEFAULT_QUERY"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error

	validate = validator.New()
)

// Defaults returns the built-in settings used when config.json omits a field.
func Defaults() *Config {
	c := &Config{}
	c.Server.Host = "0.0.0.0"
	c.Server.Port = 8501
	c.Wikipedia = WikipediaConfig{
		APIURL:    "https://en.wikipedia.org/w/api.php",
		TopK:      2,
		MaxChars:  2000,
		Timeout:   Duration(15 * time.Second),
		UserAgent: "wikirag/1.0 (comparison demo)",
	}
	c.LLM = LLMConfig{
		Provider:    "openai",
		Model:       "gpt-3.5-turbo-instruct",
		Temperature: 0.6,
		MaxTokens:   256,
		Timeout:     Duration(120 * time.Second),
	}
	c.DefaultQuery = "iphone 16?"
	return c
}

// LoadConfig reads config.json from disk (singleton). A missing file is not an
// error: defaults plus environment overrides are used instead.
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		c := Defaults()
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Printf("[Config] %s not found, using defaults", path)
		case err != nil:
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		default:
			if err := json.Unmarshal(raw, c); err != nil {
				cfgErr = fmt.Errorf("invalid config format: %w", err)
				return
			}
		}
		if err := env.Parse(c); err != nil {
			cfgErr = fmt.Errorf("invalid environment override: %w", err)
			return
		}
		if err := c.Validate(); err != nil {
			cfgErr = err
			return
		}
		cfg = c
	})
	return cfg, cfgErr
}

// Validate checks field constraints and the credentials the chosen provider needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.LLM.Provider != "bedrock" && c.LLM.BaseURL == "" && c.LLM.APIKey == "" {
		return errors.New("OPENAI_API_KEY must be set when llm.base_url is empty")
	}
	return nil
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
