package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the recommender.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Vectorize VectorizeConfig `yaml:"vectorize"`
	Recommend RecommendConfig `yaml:"recommend"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CatalogConfig controls catalog file discovery and decoding.
type CatalogConfig struct {
	Includes []string `yaml:"includes" validate:"min=1,dive,required"`
	Excludes []string `yaml:"excludes"`
	Comma    string   `yaml:"comma" validate:"len=1"`
}

// VectorizeConfig holds TF-IDF settings.
type VectorizeConfig struct {
	Weighting   string `yaml:"weighting" validate:"oneof=smooth raw"` // "smooth" or "raw"
	Normalize   bool   `yaml:"normalize"`
	Stopwords   bool   `yaml:"stopwords"`
	MinTokenLen int    `yaml:"min_token_len" validate:"gte=1,lte=32"`
}

// RecommendConfig holds ranking settings.
type RecommendConfig struct {
	TopK        int     `yaml:"top_k" validate:"gte=0"`
	MinScore    float64 `yaml:"min_score" validate:"gte=0,lte=1"` // 0 = disabled
	Filter      string  `yaml:"filter"`                            // CEL expression over item
	Concurrency int     `yaml:"concurrency" validate:"gte=1,lte=256"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Includes: []string{"**/*.csv"},
			Excludes: []string{"**/.git/**", "**/.recsys/**", "**/node_modules/**", "**/vendor/**"},
			Comma:    ",",
		},
		Vectorize: VectorizeConfig{
			Weighting:   "smooth",
			Normalize:   true,
			Stopwords:   false,
			MinTokenLen: 2,
		},
		Recommend: RecommendConfig{
			TopK:        5,
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for recsys.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "recsys.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".recsys", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// ApplyEnv loads a .env file from dir if one exists and applies RECSYS_*
// overrides from the environment.
func (c *Config) ApplyEnv(dir string) error {
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	if v, ok := os.LookupEnv("RECSYS_TOP_K"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("RECSYS_TOP_K: %w", err)
		}
		c.Recommend.TopK = n
	}
	if v, ok := os.LookupEnv("RECSYS_LOG_LEVEL"); ok {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("RECSYS_LOG_FORMAT"); ok {
		c.Logging.Format = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("RECSYS_FILTER"); ok {
		c.Recommend.Filter = v
	}
	return nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s: failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
		} else {
			msgs[i] = fmt.Sprintf("%s: failed %s (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// CommaRune returns the CSV field separator.
func (c *Config) CommaRune() rune {
	for _, r := range c.Catalog.Comma {
		return r
	}
	return ','
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CatalogDBPath returns the path to the catalog snapshot database.
func CatalogDBPath(dir string) string {
	return filepath.Join(dir, ".recsys", "catalog.db")
}

// EnsureDataDir ensures the .recsys directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".recsys"), 0755)
}
