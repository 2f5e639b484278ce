package content

import (
	"encoding/base64"
	"fmt"
)

const fallbackTitle = "Generation Complete"

type StoryResult struct {
	Title    string    `json:"title"`
	Chapters []Chapter `json:"chapters"`
}

type Chapter struct {
	ChapterTitle string `json:"chapterTitle"`
	Content      string `json:"content"`
	ImagePrompt  string `json:"imagePrompt"`
}

// FirstImagePrompt returns the image prompt of the opening chapter, if any.
func (s *StoryResult) FirstImagePrompt() string {
	if s == nil || len(s.Chapters) == 0 {
		return ""
	}
	return s.Chapters[0].ImagePrompt
}

type CampaignResult struct {
	StrategyName   string        `json:"strategyName"`
	TargetPersonas []string      `json:"targetPersonas"`
	AdVariations   []AdVariation `json:"adVariations"`
	Calendar       []string      `json:"calendar"`
}

type AdVariation struct {
	Headline     string `json:"headline"`
	Body         string `json:"body"`
	CallToAction string `json:"cta"`
}

type PdfLayoutResult struct {
	Pages []Page `json:"pages"`
}

type Page struct {
	PageNumber int      `json:"pageNumber"`
	LayoutType string   `json:"layoutType"`
	Sections   []string `json:"sections"`
}

type GenericResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func Placeholder() *GenericResult {
	return &GenericResult{Title: "Draft", Content: "AI generation simulation"}
}

type ImageResult struct {
	MIMEType string
	Data     []byte
}

func (i *ImageResult) DataURI() string {
	if i == nil {
		return ""
	}
	mime := i.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(i.Data))
}

// Result is a tagged union: exactly one variant is set, chosen by Kind.
type Result struct {
	Kind      Kind
	Story     *StoryResult
	Campaign  *CampaignResult
	PdfLayout *PdfLayoutResult
	Generic   *GenericResult
}

func NewStoryResult(s *StoryResult) *Result { return &Result{Kind: KindStory, Story: s} }

func NewCampaignResult(c *CampaignResult) *Result { return &Result{Kind: KindCampaign, Campaign: c} }

func NewPdfLayoutResult(p *PdfLayoutResult) *Result { return &Result{Kind: KindPDF, PdfLayout: p} }

func NewGenericResult(kind Kind, g *GenericResult) *Result { return &Result{Kind: kind, Generic: g} }

func (r *Result) Title() string {
	switch {
	case r == nil:
		return fallbackTitle
	case r.Story != nil && r.Story.Title != "":
		return r.Story.Title
	case r.Campaign != nil && r.Campaign.StrategyName != "":
		return r.Campaign.StrategyName
	case r.Generic != nil && r.Generic.Title != "":
		return r.Generic.Title
	}
	return fallbackTitle
}

// Payload returns the populated variant for serialization.
func (r *Result) Payload() any {
	if r == nil {
		return nil
	}
	switch {
	case r.Story != nil:
		return r.Story
	case r.Campaign != nil:
		return r.Campaign
	case r.PdfLayout != nil:
		return r.PdfLayout
	case r.Generic != nil:
		return r.Generic
	}
	return nil
}
