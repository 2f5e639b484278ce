package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "config.yaml"

	defaultProvider      = "gemini"
	defaultBackend       = "gemini"
	defaultLocation      = "us-central1"
	defaultGenre         = "fantasy"
	defaultBrand         = "DiGi Brand"
	defaultExportDir     = "./exports"
	defaultExportPrefix  = "drafts"
	defaultGeminiKeyName = "gemini-api-key"
)

var ErrMissingCredential = errors.New("missing credential")

type Config struct {
	GeminiAPIKey   string `yaml:"-"`
	GroqAPIKey     string `yaml:"-"`
	DeepSeekAPIKey string `yaml:"-"`
	GCPProject     string `yaml:"-"`

	Generation  GenerationConfig `yaml:"generation"`
	Gemini      GeminiConfig     `yaml:"gemini"`
	Groq        GroqConfig       `yaml:"groq"`
	DeepSeek    DeepSeekConfig   `yaml:"deepseek"`
	Defaults    DefaultsConfig   `yaml:"defaults"`
	Export      ExportConfig     `yaml:"export"`
	Secrets     SecretsConfig    `yaml:"secrets"`
	PromptsPath string           `yaml:"prompts_path"`
}

type GenerationConfig struct {
	Provider   string        `yaml:"provider" validate:"oneof=gemini groq deepseek"`
	MaxRetries int           `yaml:"max_retries" validate:"gte=0,lte=10"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
}

type GeminiConfig struct {
	Backend    string `yaml:"backend" validate:"oneof=gemini vertex"`
	Location   string `yaml:"location"`
	BaseURL    string `yaml:"base_url" validate:"omitempty,url"`
	StoryModel string `yaml:"story_model"`
	TextModel  string `yaml:"text_model"`
	ImageModel string `yaml:"image_model"`
}

type GroqConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
}

type DeepSeekConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
}

type DefaultsConfig struct {
	Genre string `yaml:"genre"`
	Brand string `yaml:"brand"`
}

type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

type SecretsConfig struct {
	GeminiKey string `yaml:"gemini_key"`
}

// SecretAccessor returns the payload of the latest version of a secret.
type SecretAccessor func(ctx context.Context, project, name string) (string, error)

func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, DefaultConfigPath, AccessSecretManager)
}

// LoadFrom reads .env, then the YAML file at path (if present), applies
// defaults, and resolves the Gemini key from Secret Manager when it is not
// in the environment. accessor may be nil to skip the Secret Manager lookup.
func LoadFrom(ctx context.Context, path string, accessor SecretAccessor) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GeminiAPIKey:   firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
		GroqAPIKey:     os.Getenv("GROQ_API_KEY"),
		DeepSeekAPIKey: os.Getenv("DEEPSEEK_API_KEY"),
		GCPProject:     os.Getenv("GOOGLE_CLOUD_PROJECT"),
	}

	if err := loadYAMLConfig(path, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if cfg.GeminiAPIKey == "" && cfg.GCPProject != "" && cfg.Gemini.Backend == defaultBackend && accessor != nil {
		key, err := accessor(ctx, cfg.GCPProject, cfg.Secrets.GeminiKey)
		if err != nil {
			slog.Warn("Could not read Gemini key from Secret Manager", "secret", cfg.Secrets.GeminiKey, "error", err)
		} else {
			cfg.GeminiAPIKey = key
		}
	}

	return cfg, nil
}

func loadYAMLConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No config file found, using defaults", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v, _ := strconv.ParseBool(os.Getenv("GOOGLE_GENAI_USE_VERTEXAI")); v {
		cfg.Gemini.Backend = "vertex"
	}
	if v := os.Getenv("GOOGLE_CLOUD_LOCATION"); v != "" {
		cfg.Gemini.Location = v
	}
	if v := os.Getenv("DIGI_EXPORT_BUCKET"); v != "" {
		cfg.Export.Bucket = v
	}
}

func applyDefaults(cfg *Config) {
	applyGenerationDefaults(cfg)
	applyGeminiDefaults(cfg)
	applyContentDefaults(cfg)
	applyExportDefaults(cfg)
	applySecretsDefaults(cfg)
}

func applyGenerationDefaults(cfg *Config) {
	if cfg.Generation.Provider == "" {
		cfg.Generation.Provider = defaultProvider
	}
}

func applyGeminiDefaults(cfg *Config) {
	if cfg.Gemini.Backend == "" {
		cfg.Gemini.Backend = defaultBackend
	}
	if cfg.Gemini.Location == "" {
		cfg.Gemini.Location = defaultLocation
	}
}

func applyContentDefaults(cfg *Config) {
	if cfg.Defaults.Genre == "" {
		cfg.Defaults.Genre = defaultGenre
	}
	if cfg.Defaults.Brand == "" {
		cfg.Defaults.Brand = defaultBrand
	}
}

func applyExportDefaults(cfg *Config) {
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = defaultExportDir
	}
	if cfg.Export.Prefix == "" {
		cfg.Export.Prefix = defaultExportPrefix
	}
}

func applySecretsDefaults(cfg *Config) {
	if cfg.Secrets.GeminiKey == "" {
		cfg.Secrets.GeminiKey = defaultGeminiKeyName
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and that every credential the selected
// backends need is present. Images always go through Gemini, so its
// credential is required even when text runs on Groq.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.Gemini.Backend {
	case "vertex":
		if c.GCPProject == "" {
			return fmt.Errorf("%w: GOOGLE_CLOUD_PROJECT is required for the vertex backend", ErrMissingCredential)
		}
	default:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrMissingCredential)
		}
	}

	switch {
	case c.Generation.Provider == "groq" && c.GroqAPIKey == "":
		return fmt.Errorf("%w: GROQ_API_KEY is not set", ErrMissingCredential)
	case c.Generation.Provider == "deepseek" && c.DeepSeekAPIKey == "":
		return fmt.Errorf("%w: DEEPSEEK_API_KEY is not set", ErrMissingCredential)
	}
	return nil
}

// AccessSecretManager reads projects/<project>/secrets/<name>/versions/latest.
func AccessSecretManager(ctx context.Context, project, name string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create secret manager client: %w", err)
	}
	defer func() { _ = client.Close() }()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", project, name),
	})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	return string(resp.GetPayload().GetData()), nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
