package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"digicreative/internal/content"
	"digicreative/internal/llm"
	"digicreative/internal/storage"
	"digicreative/pkg/retry"
)

// FailureNotice is the only failure text shown to users; details go to the log.
const FailureNotice = "Something went wrong. Please try again."

var ErrNoExporter = errors.New("no export destination configured")

type Outcome struct {
	Result  *content.Result
	Preview *content.ImageResult
}

// Generate runs one request end to end. A story gets one follow-up image
// call for its opening chapter when that chapter carries an image prompt; a
// failed image call fails the whole request, an absent image does not.
func (s *Studio) Generate(ctx context.Context, req content.Request) (*Outcome, error) {
	req = req.WithDefaults(s.genre, s.brand)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := otel.Tracer("digicreative/app").Start(ctx, "studio.generate")
	span.SetAttributes(attribute.String("kind", req.Kind.String()))
	defer span.End()

	outcome, err := s.dispatch(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Generation failed", "kind", req.Kind, "error", err)
		return nil, err
	}

	slog.Info("Generation complete", "kind", req.Kind, "title", outcome.Result.Title(), "preview", outcome.Preview != nil)
	return outcome, nil
}

func (s *Studio) dispatch(ctx context.Context, req content.Request) (*Outcome, error) {
	switch req.Kind {
	case content.KindStory:
		return s.generateStory(ctx, req)
	case content.KindCampaign:
		slog.Info("Generating campaign...", "brand", req.Brand)
		campaign, err := withRetry(ctx, s.retry, func(ctx context.Context) (*content.CampaignResult, error) {
			return s.text.GenerateCampaign(ctx, req.Brand, req.Prompt)
		})
		if err != nil {
			return nil, err
		}
		return &Outcome{Result: content.NewCampaignResult(campaign)}, nil
	case content.KindPDF:
		slog.Info("Generating PDF layout...")
		layout, err := withRetry(ctx, s.retry, func(ctx context.Context) (*content.PdfLayoutResult, error) {
			return s.text.GeneratePdfLayout(ctx, req.Prompt)
		})
		if err != nil {
			return nil, err
		}
		return &Outcome{Result: content.NewPdfLayoutResult(layout)}, nil
	default:
		slog.Debug("No generator for kind, returning placeholder", "kind", req.Kind)
		return &Outcome{Result: content.NewGenericResult(req.Kind, content.Placeholder())}, nil
	}
}

func (s *Studio) generateStory(ctx context.Context, req content.Request) (*Outcome, error) {
	slog.Info("Generating story...", "genre", req.Genre)
	story, err := withRetry(ctx, s.retry, func(ctx context.Context) (*content.StoryResult, error) {
		return s.text.GenerateStory(ctx, req.Prompt, req.Genre)
	})
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Result: content.NewStoryResult(story)}

	imagePrompt := story.FirstImagePrompt()
	if imagePrompt == "" || s.images == nil {
		return outcome, nil
	}

	slog.Info("Generating cover image...")
	image, err := withRetry(ctx, s.retry, func(ctx context.Context) (*content.ImageResult, error) {
		return s.images.GenerateImage(ctx, imagePrompt)
	})
	if err != nil {
		return nil, err
	}
	if image == nil {
		slog.Debug("No inline image returned, story has no preview")
	}

	outcome.Preview = image
	return outcome, nil
}

// SaveDraft exports a copy of the outcome and returns where it was written.
func (s *Studio) SaveDraft(ctx context.Context, outcome *Outcome, status content.Status) (string, error) {
	if s.exporter == nil {
		return "", ErrNoExporter
	}
	if outcome == nil || outcome.Result == nil {
		return "", fmt.Errorf("save draft: nothing to save")
	}

	draft := content.NewDraft(outcome.Result, outcome.Preview, status)
	location, err := s.exporter.Export(ctx, draft)
	if err != nil {
		return "", fmt.Errorf("save draft: %w", err)
	}

	slog.Info("Draft saved", "id", draft.ID, "kind", draft.Kind, "location", location)
	return location, nil
}

func (s *Studio) Library(ctx context.Context) ([]storage.Entry, error) {
	if s.exporter == nil {
		return nil, ErrNoExporter
	}
	return s.exporter.List(ctx)
}

func withRetry[T any](ctx context.Context, cfg retry.Config, fn func(context.Context) (T, error)) (T, error) {
	return retry.Do(ctx, cfg, llm.IsNetwork, fn)
}
