// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values
// Validate config

package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go-leadgen-automation/internal/errors"
	"go-leadgen-automation/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

type Config struct {
	Debug bool `yaml:"debug"`

	//Default search, overridable per run
	Keyword    string   `yaml:"keyword"`
	Location   string   `yaml:"location"`
	Field      string   `yaml:"field"`
	Experience string   `yaml:"experience"`
	Sources    []string `yaml:"sources"`

	Fetch  FetchConfig  `yaml:"fetch"`
	Cache  CacheConfig  `yaml:"cache"`
	Ranker RankerConfig `yaml:"ranker"`
	Output OutputConfig `yaml:"output"`

	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
	DigestTopN     int    `yaml:"digest_top_n"`

	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	OTELEndpoint   string   `yaml:"otel_endpoint"`
}

type FetchConfig struct {
	Mode          string        `yaml:"mode"`
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxRecords    int           `yaml:"max_records"`
	PauseMin      time.Duration `yaml:"pause_min"`
	PauseMax      time.Duration `yaml:"pause_max"`
	CookiesPath   string        `yaml:"cookies_path"`
	ScreenshotDir string        `yaml:"screenshot_dir"`
}

type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

type RankerConfig struct {
	Keywords          []string `yaml:"keywords"`
	EmbeddingsAPIKey  string   `yaml:"embeddings_api_key"`
	EmbeddingsBaseURL string   `yaml:"embeddings_base_url"`
	EmbeddingsModel   string   `yaml:"embeddings_model"`
	Dimensions        int      `yaml:"dimensions"`
}

type OutputConfig struct {
	RawPath        string `yaml:"raw_path"`
	RankedPath     string `yaml:"ranked_path"`
	ReportTemplate string `yaml:"report_template"`
}

// TelegramEnabled reports whether a digest can be sent.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// CacheEnabled reports whether fetched pages go through Redis.
func (c *Config) CacheEnabled() bool {
	return c.Cache.RedisAddr != ""
}

// Query builds the default search from the config.
func (c *Config) Query() models.Query {
	return models.Query{
		Keyword:    c.Keyword,
		Location:   c.Location,
		Field:      c.Field,
		Experience: c.Experience,
	}
}

// SourceList returns the configured sources, or nil for the default order.
func (c *Config) SourceList() []models.Source {
	if len(c.Sources) == 0 {
		return nil
	}
	sources, _ := models.ParseSources(c.Sources)
	return sources
}

func Load() (*Config, error) {
	return LoadFrom(DefaultPath)
}

// LoadFrom reads the YAML file at path (a missing file is fine), applies
// environment overrides and defaults, then validates.
func LoadFrom(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Keyword = getEnvString("LEADGEN_KEYWORD", c.Keyword)
	c.Location = getEnvString("LEADGEN_LOCATION", c.Location)
	c.Field = getEnvString("LEADGEN_FIELD", c.Field)
	c.Experience = getEnvString("LEADGEN_EXPERIENCE", c.Experience)
	if s := os.Getenv("LEADGEN_SOURCES"); s != "" {
		c.Sources = strings.Split(s, ",")
	}
	c.Fetch.Mode = getEnvString("LEADGEN_FETCH_MODE", c.Fetch.Mode)
	c.Output.RawPath = getEnvString("LEADGEN_RAW_PATH", c.Output.RawPath)
	c.Output.RankedPath = getEnvString("LEADGEN_RANKED_PATH", c.Output.RankedPath)

	c.TelegramToken = getEnvString("TELEGRAM_BOT_TOKEN", c.TelegramToken)
	c.Cache.RedisAddr = getEnvString("REDIS_ADDR", c.Cache.RedisAddr)
	c.Cache.RedisPassword = getEnvString("REDIS_PASSWORD", c.Cache.RedisPassword)
	c.Ranker.EmbeddingsAPIKey = getEnvString("EMBEDDINGS_API_KEY", c.Ranker.EmbeddingsAPIKey)
	c.OTELEndpoint = getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTELEndpoint)
	c.Port = getEnvString("PORT", c.Port)

	if v := os.Getenv("LEADGEN_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LEADGEN_DEBUG: %w", err)
		}
		c.Debug = debug
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}

	var err error
	if c.Fetch.Timeout, err = getEnvDuration("LEADGEN_FETCH_TIMEOUT", c.Fetch.Timeout); err != nil {
		return err
	}
	if c.Fetch.MaxRecords, err = getEnvInt("LEADGEN_MAX_RECORDS", c.Fetch.MaxRecords); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Keyword == "" {
		c.Keyword = "AI"
	}
	if c.Fetch.Mode == "" {
		c.Fetch.Mode = FetchModeHTTP
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 10 * time.Second
	}
	if c.Fetch.MaxRecords == 0 {
		c.Fetch.MaxRecords = 20
	}
	if c.Fetch.PauseMin == 0 && c.Fetch.PauseMax == 0 {
		c.Fetch.PauseMin = time.Second
	}
	if c.Fetch.PauseMax == 0 {
		c.Fetch.PauseMax = max(c.Fetch.PauseMin, 3*time.Second)
	}
	if c.Fetch.ScreenshotDir == "" {
		c.Fetch.ScreenshotDir = "logs/screenshots"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}
	if c.Ranker.Dimensions == 0 {
		c.Ranker.Dimensions = 256
	}
	if c.Output.RawPath == "" {
		c.Output.RawPath = "data/leads_raw.csv"
	}
	if c.Output.RankedPath == "" {
		c.Output.RankedPath = "data/leads_ranked.csv"
	}
	if c.DigestTopN == 0 {
		c.DigestTopN = 10
	}
	if c.Port == "" {
		c.Port = "8080"
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if _, unknown := models.ParseSources(c.Sources); len(unknown) > 0 {
		return errors.InvalidInput(fmt.Sprintf("unknown sources: %s", strings.Join(unknown, ", ")), nil)
	}
	switch c.Fetch.Mode {
	case FetchModeHTTP, FetchModeBrowser:
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown fetch mode %q", c.Fetch.Mode), nil)
	}
	if c.Fetch.Timeout <= 0 {
		return errors.InvalidInput("fetch timeout must be positive", nil)
	}
	if c.Fetch.MaxRecords <= 0 {
		return errors.InvalidInput("max records must be positive", nil)
	}
	if c.Fetch.PauseMin < 0 || c.Fetch.PauseMax < c.Fetch.PauseMin {
		return errors.InvalidInput(fmt.Sprintf("invalid pause range [%s, %s]", c.Fetch.PauseMin, c.Fetch.PauseMax), nil)
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
