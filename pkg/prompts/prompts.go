package prompts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

//go:embed prompts.yaml
var defaultPrompts []byte

type Prompts struct {
	System  SystemPrompts  `yaml:"system"`
	Content ContentPrompts `yaml:"content"`
}

type SystemPrompts struct {
	JSON string `yaml:"json"`
}

type ContentPrompts struct {
	Story    string `yaml:"story"`
	Campaign string `yaml:"campaign"`
	Pdf      string `yaml:"pdf"`
	Image    string `yaml:"image"`
}

type StoryParams struct {
	Prompt string
	Genre  string
}

type CampaignParams struct {
	Brand string
	Goals string
}

type PdfParams struct {
	Topic string
}

type ImageParams struct {
	Prompt string
}

type JSONParams struct {
	Schema string
}

// Default returns the built-in prompt set.
func Default() *Prompts {
	var p Prompts
	if err := yaml.Unmarshal(defaultPrompts, &p); err != nil {
		panic(fmt.Sprintf("embedded prompts: %v", err))
	}
	return &p
}

// Load reads prompts.yaml from the working directory, falling back to the
// built-in set when the file does not exist.
func Load() (*Prompts, error) {
	p, err := LoadFrom(defaultPromptsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return p, err
}

func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	p.fillFrom(Default())
	return &p, nil
}

func (p *Prompts) fillFrom(d *Prompts) {
	setIfEmpty(&p.System.JSON, d.System.JSON)
	setIfEmpty(&p.Content.Story, d.Content.Story)
	setIfEmpty(&p.Content.Campaign, d.Content.Campaign)
	setIfEmpty(&p.Content.Pdf, d.Content.Pdf)
	setIfEmpty(&p.Content.Image, d.Content.Image)
}

func setIfEmpty(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}

func (p *Prompts) RenderStory(params StoryParams) (string, error) {
	return render(p.Content.Story, params)
}

func (p *Prompts) RenderCampaign(params CampaignParams) (string, error) {
	return render(p.Content.Campaign, params)
}

func (p *Prompts) RenderPdf(params PdfParams) (string, error) {
	return render(p.Content.Pdf, params)
}

func (p *Prompts) RenderImage(params ImageParams) (string, error) {
	return render(p.Content.Image, params)
}

func (p *Prompts) RenderJSONSystem(params JSONParams) (string, error) {
	return render(p.System.JSON, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
