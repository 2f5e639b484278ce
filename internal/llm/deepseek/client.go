package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"

	"digicreative/internal/content"
	"digicreative/internal/llm"
	"digicreative/internal/schema"
	"digicreative/pkg/prompts"
)

const (
	DefaultModel = "deepseek-chat"

	defaultBaseURL = "https://api.deepseek.com/v1/chat/completions"
	defaultTimeout = 60 * time.Second
	roleSystem     = "system"
	roleUser       = "user"
)

var _ llm.TextGenerator = (*Client)(nil)

type Client struct {
	apiKey     string
	httpClient *http.Client
	model      string
	baseURL    string
	prompts    *prompts.Prompts
}

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type request struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type response struct {
	ID      string    `json:"id"`
	Choices []choice  `json:"choices"`
	Error   *apiError `json:"error,omitempty"`
}

type choice struct {
	Message message `json:"message"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewClient(cfg Config, p *prompts.Prompts) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("create deepseek client: %w", llm.ErrMissingCredential)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if p == nil {
		p = prompts.Default()
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		prompts:    p,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	return c, nil
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

func (c *Client) Model() string {
	return c.model
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

	data, err := json.Marshal(request{
		Model: c.model,
		Messages: []message{
			{Role: roleSystem, Content: system},
			{Role: roleUser, Content: instruction},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	slog.Debug("Generating via deepseek", "model", c.model, "kind", kind)

	body, err := c.doRequest(ctx, data)
	if err != nil {
		return nil, &llm.GenerationError{Op: op, Kind: kind, Err: &llm.NetworkError{Err: err}}
	}

	text, err := c.parseResponse(body)
	if err != nil {
		return nil, &llm.GenerationError{Op: op, Kind: kind, Err: err}
	}

	out, err := llm.ParseStructured[T](text, s)
	if err != nil {
		return nil, &llm.GenerationError{Op: op, Kind: kind, Err: err}
	}
	return out, nil
}

func (c *Client) doRequest(ctx context.Context, data []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// parseResponse extracts the first choice. API errors reported in a 200 body
// count as endpoint failures, a body that isn't a completion as a shape mismatch.
func (c *Client) parseResponse(data []byte) (string, error) {
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", &llm.SchemaMismatchError{Raw: string(data), Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if resp.Error != nil {
		return "", &llm.NetworkError{Err: fmt.Errorf("deepseek error: %s", resp.Error.Message)}
	}

	if len(resp.Choices) == 0 {
		return "", &llm.SchemaMismatchError{Raw: string(data), Err: fmt.Errorf("no response choices")}
	}

	return resp.Choices[0].Message.Content, nil
}
