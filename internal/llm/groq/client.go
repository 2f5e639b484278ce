package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/conneroisu/groq-go"
	"google.golang.org/genai"

	"digicreative/internal/content"
	"digicreative/internal/llm"
	"digicreative/internal/schema"
	"digicreative/pkg/prompts"
)

const DefaultModel = "llama-3.3-70b-versatile"

var _ llm.TextGenerator = (*Client)(nil)

type Client struct {
	client  *groq.Client
	model   groq.ChatModel
	prompts *prompts.Prompts
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

func NewClient(cfg Config, p *prompts.Prompts) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("create groq client: %w", llm.ErrMissingCredential)
	}

	var (
		client *groq.Client
		err    error
	)
	if cfg.BaseURL != "" {
		client, err = groq.NewClient(cfg.APIKey, groq.WithBaseURL(cfg.BaseURL))
	} else {
		client, err = groq.NewClient(cfg.APIKey)
	}
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	if p == nil {
		p = prompts.Default()
	}

	return &Client{
		client:  client,
		model:   groq.ChatModel(model),
		prompts: p,
	}, nil
}

func (c *Client) GenerateStory(ctx context.Context, prompt, genre string) (*content.StoryResult, error) {
	instruction, err := c.prompts.RenderStory(prompts.StoryParams{Prompt: prompt, Genre: genre})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	return generateJSON[content.StoryResult](ctx, c, content.KindStory, instruction, schema.Story)
}

func (c *Client) GenerateCampaign(ctx context.Context, brand, goals string) (*content.CampaignResult, error) {
	instruction, err := c.prompts.RenderCampaign(prompts.CampaignParams{Brand: brand, Goals: goals})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	return generateJSON[content.CampaignResult](ctx, c, content.KindCampaign, instruction, schema.Campaign)
}

func (c *Client) GeneratePdfLayout(ctx context.Context, topic string) (*content.PdfLayoutResult, error) {
	instruction, err := c.prompts.RenderPdf(prompts.PdfParams{Topic: topic})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	return generateJSON[content.PdfLayoutResult](ctx, c, content.KindPDF, instruction, schema.PdfLayout)
}

func generateJSON[T any](ctx context.Context, c *Client, kind content.Kind, instruction string, s *genai.Schema) (*T, error) {
	const op = "generate"

	shape, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	system, err := c.prompts.RenderJSONSystem(prompts.JSONParams{Schema: string(shape)})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	slog.Debug("Generating via groq", "model", c.model, "kind", kind)

	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: c.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: system},
			{Role: groq.RoleUser, Content: instruction},
		},
		ResponseFormat: &groq.ChatResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, &llm.GenerationError{Op: op, Kind: kind, Err: &llm.NetworkError{Err: err}}
	}

	if len(resp.Choices) == 0 {
		return nil, &llm.GenerationError{Op: op, Kind: kind, Err: &llm.SchemaMismatchError{Err: fmt.Errorf("no response")}}
	}

	out, err := llm.ParseStructured[T](resp.Choices[0].Message.Content, s)
	if err != nil {
		return nil, &llm.GenerationError{Op: op, Kind: kind, Err: err}
	}
	return out, nil
}
