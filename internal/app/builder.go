package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"digicreative/internal/llm"
	"digicreative/internal/llm/deepseek"
	"digicreative/internal/llm/gemini"
	"digicreative/internal/llm/groq"
	"digicreative/internal/storage"
	"digicreative/pkg/config"
	"digicreative/pkg/prompts"
	"digicreative/pkg/retry"
)

func BuildStudio(ctx context.Context, cfg *config.Config) (*Studio, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := loadPrompts(cfg.PromptsPath)
	if err != nil {
		return nil, err
	}

	geminiClient, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		Backend:    cfg.Gemini.Backend,
		Project:    cfg.GCPProject,
		Location:   cfg.Gemini.Location,
		BaseURL:    cfg.Gemini.BaseURL,
		StoryModel: cfg.Gemini.StoryModel,
		TextModel:  cfg.Gemini.TextModel,
		ImageModel: cfg.Gemini.ImageModel,
		HTTPClient: &http.Client{Timeout: cfg.Generation.Timeout},
	}, p)
	if err != nil {
		return nil, err
	}

	text, err := buildTextGenerator(cfg, p, geminiClient)
	if err != nil {
		return nil, err
	}
	slog.Debug("Studio configured", "provider", cfg.Generation.Provider, "backend", cfg.Gemini.Backend)

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.Generation.MaxRetries

	exporter, err := BuildExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewStudio(StudioOptions{
		Text:     text,
		Images:   geminiClient,
		Exporter: exporter,
		Retry:    retryCfg,
		Timeout:  cfg.Generation.Timeout,
		Genre:    cfg.Defaults.Genre,
		Brand:    cfg.Defaults.Brand,
	}), nil
}

// buildTextGenerator returns the configured text backend. Images always go
// through Gemini, so it is the fallback.
func buildTextGenerator(cfg *config.Config, p *prompts.Prompts, fallback *gemini.Client) (llm.TextGenerator, error) {
	switch cfg.Generation.Provider {
	case "groq":
		client, err := groq.NewClient(groq.Config{
			APIKey:  cfg.GroqAPIKey,
			Model:   cfg.Groq.Model,
			BaseURL: cfg.Groq.BaseURL,
		}, p)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "deepseek":
		dc := deepseek.Config{
			APIKey:  cfg.DeepSeekAPIKey,
			Model:   cfg.DeepSeek.Model,
			BaseURL: cfg.DeepSeek.BaseURL,
		}
		if cfg.Generation.Timeout > 0 {
			dc.HTTPClient = &http.Client{Timeout: cfg.Generation.Timeout}
		}
		client, err := deepseek.NewClient(dc, p)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return fallback, nil
	}
}

// BuildExporter picks GCS when a bucket is configured and the local export
// directory otherwise.
func BuildExporter(ctx context.Context, cfg *config.Config) (storage.Exporter, error) {
	if cfg.Export.Bucket == "" {
		return storage.NewLocalExporter(cfg.Export.Dir), nil
	}

	exporter, err := storage.NewGCSExporter(ctx, cfg.Export.Bucket, cfg.Export.Prefix)
	if err != nil {
		return nil, fmt.Errorf("build exporter: %w", err)
	}
	return exporter, nil
}

func loadPrompts(path string) (*prompts.Prompts, error) {
	if path == "" {
		return prompts.Load()
	}
	return prompts.LoadFrom(path)
}
