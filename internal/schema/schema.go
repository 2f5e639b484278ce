// Package schema declares the response shape the generation service must
// return for each structured content kind. The declarations mirror the
// result types in internal/content field for field.
package schema

import (
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"digicreative/internal/content"
)

var stringSchema = &genai.Schema{Type: genai.TypeString}

var chapterSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"chapterTitle": {Type: genai.TypeString},
		"content":      {Type: genai.TypeString},
		"imagePrompt":  {Type: genai.TypeString, Description: "Illustration prompt for the chapter's key scene"},
	},
	Required:         []string{"chapterTitle", "content", "imagePrompt"},
	PropertyOrdering: []string{"chapterTitle", "content", "imagePrompt"},
}

var Story = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":    {Type: genai.TypeString},
		"chapters": {Type: genai.TypeArray, Items: chapterSchema},
	},
	Required:         []string{"title", "chapters"},
	PropertyOrdering: []string{"title", "chapters"},
}

var adVariationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"headline": {Type: genai.TypeString},
		"body":     {Type: genai.TypeString},
		"cta":      {Type: genai.TypeString, Description: "Call to action"},
	},
	Required:         []string{"headline", "body", "cta"},
	PropertyOrdering: []string{"headline", "body", "cta"},
}

var Campaign = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"strategyName":   {Type: genai.TypeString},
		"targetPersonas": {Type: genai.TypeArray, Items: stringSchema, Description: "Distinct personas, order irrelevant"},
		"adVariations":   {Type: genai.TypeArray, Items: adVariationSchema},
		"calendar":       {Type: genai.TypeArray, Items: stringSchema, Description: "Content calendar entries in publishing order"},
	},
	Required:         []string{"strategyName", "targetPersonas", "adVariations", "calendar"},
	PropertyOrdering: []string{"strategyName", "targetPersonas", "adVariations", "calendar"},
}

var pageSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"pageNumber": {Type: genai.TypeInteger},
		"layoutType": {Type: genai.TypeString},
		"sections":   {Type: genai.TypeArray, Items: stringSchema},
	},
	Required:         []string{"pageNumber", "layoutType", "sections"},
	PropertyOrdering: []string{"pageNumber", "layoutType", "sections"},
}

var PdfLayout = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"pages": {Type: genai.TypeArray, Items: pageSchema},
	},
	Required:         []string{"pages"},
	PropertyOrdering: []string{"pages"},
}

// For returns the declared shape of kind, or nil for kinds without one.
func For(kind content.Kind) *genai.Schema {
	switch kind {
	case content.KindStory:
		return Story
	case content.KindCampaign:
		return Campaign
	case content.KindPDF:
		return PdfLayout
	}
	return nil
}

func JSON(kind content.Kind) ([]byte, error) {
	s := For(kind)
	if s == nil {
		return nil, fmt.Errorf("no schema for kind %q", kind)
	}
	return json.Marshal(s)
}
