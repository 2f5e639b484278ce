package app

import (
	"io"
	"time"

	"digicreative/internal/llm"
	"digicreative/internal/storage"
	"digicreative/pkg/retry"
)

type Studio struct {
	text     llm.TextGenerator
	images   llm.ImageGenerator
	exporter storage.Exporter
	retry    retry.Config
	timeout  time.Duration
	genre    string
	brand    string
}

type StudioOptions struct {
	Text     llm.TextGenerator
	Images   llm.ImageGenerator
	Exporter storage.Exporter
	// Retry applies to network failures only. Zero MaxRetries means a single attempt.
	Retry   retry.Config
	Timeout time.Duration
	Genre   string
	Brand   string
}

func NewStudio(opts StudioOptions) *Studio {
	return &Studio{
		text:     opts.Text,
		images:   opts.Images,
		exporter: opts.Exporter,
		retry:    opts.Retry,
		timeout:  opts.Timeout,
		genre:    opts.Genre,
		brand:    opts.Brand,
	}
}

func (s *Studio) Text() llm.TextGenerator    { return s.text }
func (s *Studio) Images() llm.ImageGenerator { return s.images }
func (s *Studio) Exporter() storage.Exporter { return s.exporter }

// Close releases the exporter's client, if it holds one.
func (s *Studio) Close() error {
	if c, ok := s.exporter.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
