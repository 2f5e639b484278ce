package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"digicreative/internal/content"
	"digicreative/internal/llm"
	"digicreative/internal/schema"
	"digicreative/pkg/prompts"
)

const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"

	DefaultStoryModel = "gemini-3-pro-preview"
	DefaultTextModel  = "gemini-3-flash-preview"
	DefaultImageModel = "gemini-2.5-flash-image"

	imageAspectRatio = "1:1"
	jsonMIMEType     = "application/json"
)

var (
	_ llm.TextGenerator  = (*Client)(nil)
	_ llm.ImageGenerator = (*Client)(nil)
)

type Config struct {
	APIKey     string
	Backend    string
	Project    string
	Location   string
	BaseURL    string
	StoryModel string
	TextModel  string
	ImageModel string
	HTTPClient *http.Client
}

// models is the subset of *genai.Models the client calls.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models     models
	prompts    *prompts.Prompts
	storyModel string
	textModel  string
	imageModel string
	tracer     trace.Tracer
}

func NewClient(ctx context.Context, cfg Config, p *prompts.Prompts) (*Client, error) {
	cc := &genai.ClientConfig{HTTPClient: cfg.HTTPClient}

	switch cfg.Backend {
	case BackendVertex:
		if cfg.Project == "" {
			return nil, fmt.Errorf("create gemini client: vertex backend requires a project: %w", llm.ErrMissingCredential)
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	case BackendGemini, "":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, fmt.Errorf("create gemini client: %w", llm.ErrMissingCredential)
		}
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	default:
		return nil, fmt.Errorf("create gemini client: unknown backend %q", cfg.Backend)
	}

	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return newClient(client.Models, cfg, p), nil
}

func newClient(m models, cfg Config, p *prompts.Prompts) *Client {
	if p == nil {
		p = prompts.Default()
	}
	return &Client{
		models:     m,
		prompts:    p,
		storyModel: orDefault(cfg.StoryModel, DefaultStoryModel),
		textModel:  orDefault(cfg.TextModel, DefaultTextModel),
		imageModel: orDefault(cfg.ImageModel, DefaultImageModel),
		tracer:     otel.Tracer("digicreative/gemini"),
	}
}

func (c *Client) GenerateStory(ctx context.Context, prompt, genre string) (*content.StoryResult, error) {
	instruction, err := c.prompts.RenderStory(prompts.StoryParams{Prompt: prompt, Genre: genre})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	slog.Debug("Generating story", "model", c.storyModel, "genre", genre)
	return generateJSON[content.StoryResult](ctx, c, content.KindStory, c.storyModel, instruction, schema.Story)
}

func (c *Client) GenerateCampaign(ctx context.Context, brand, goals string) (*content.CampaignResult, error) {
	instruction, err := c.prompts.RenderCampaign(prompts.CampaignParams{Brand: brand, Goals: goals})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	slog.Debug("Generating campaign", "model", c.textModel, "brand", brand)
	return generateJSON[content.CampaignResult](ctx, c, content.KindCampaign, c.textModel, instruction, schema.Campaign)
}

func (c *Client) GeneratePdfLayout(ctx context.Context, topic string) (*content.PdfLayoutResult, error) {
	instruction, err := c.prompts.RenderPdf(prompts.PdfParams{Topic: topic})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	slog.Debug("Generating PDF layout", "model", c.textModel)
	return generateJSON[content.PdfLayoutResult](ctx, c, content.KindPDF, c.textModel, instruction, schema.PdfLayout)
}

func (c *Client) GenerateImage(ctx context.Context, prompt string) (*content.ImageResult, error) {
	const op = "generate image"

	instruction, err := c.prompts.RenderImage(prompts.ImageParams{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	ctx, span := c.startSpan(ctx, "gemini.generate_image", c.imageModel, "")
	defer span.End()

	config := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: imageAspectRatio},
	}

	resp, err := c.models.GenerateContent(ctx, c.imageModel, genai.Text(instruction), config)
	if err != nil {
		return nil, fail(span, &llm.GenerationError{Op: op, Err: &llm.NetworkError{Err: err}})
	}

	img := firstInlineImage(resp)
	span.SetAttributes(attribute.Bool("digicreative.image.present", img != nil))
	if img == nil {
		slog.Debug("Image response had no inline data", "model", c.imageModel)
	}
	return img, nil
}

func generateJSON[T any](ctx context.Context, c *Client, kind content.Kind, model, instruction string, s *genai.Schema) (*T, error) {
	const op = "generate"

	ctx, span := c.startSpan(ctx, "gemini.generate_"+string(kind), model, kind)
	defer span.End()

	// The instruction travels as content only; the schema carries the shape.
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   s,
	}

	resp, err := c.models.GenerateContent(ctx, model, genai.Text(instruction), config)
	if err != nil {
		return nil, fail(span, &llm.GenerationError{Op: op, Kind: kind, Err: &llm.NetworkError{Err: err}})
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, fail(span, &llm.GenerationError{Op: op, Kind: kind, Err: &llm.SchemaMismatchError{Err: err}})
	}

	out, err := llm.ParseStructured[T](text, s)
	if err != nil {
		return nil, fail(span, &llm.GenerationError{Op: op, Kind: kind, Err: err})
	}
	return out, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response")
	}
	return sb.String(), nil
}

// firstInlineImage returns the first part carrying inline data, skipping any
// text parts before it.
func firstInlineImage(resp *genai.GenerateContentResponse) *content.ImageResult {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		return &content.ImageResult{
			MIMEType: part.InlineData.MIMEType,
			Data:     part.InlineData.Data,
		}
	}
	return nil
}

func (c *Client) startSpan(ctx context.Context, name, model string, kind content.Kind) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("gen_ai.request.model", model)}
	if kind != "" {
		attrs = append(attrs, attribute.String("digicreative.kind", string(kind)))
	}
	return c.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
