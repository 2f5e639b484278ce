package llm

import (
	"context"

	"digicreative/internal/content"
)

// TextGenerator produces the structured content kinds.
type TextGenerator interface {
	GenerateStory(ctx context.Context, prompt, genre string) (*content.StoryResult, error)
	GenerateCampaign(ctx context.Context, brand, goals string) (*content.CampaignResult, error)
	GeneratePdfLayout(ctx context.Context, topic string) (*content.PdfLayoutResult, error)
}

// ImageGenerator returns nil, nil when the service answers without image data.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*content.ImageResult, error)
}
