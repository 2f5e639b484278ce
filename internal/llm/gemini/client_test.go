package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	"digicreative/internal/content"
	"digicreative/internal/llm"
	"digicreative/internal/schema"
	"digicreative/pkg/prompts"
)

type call struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// fakeModels answers each call with the next queued response.
type fakeModels struct {
	calls     []call
	responses []*genai.GenerateContentResponse
	err       error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, call{model: model, contents: contents, config: config})
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return &genai.GenerateContentResponse{}, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return partsResponse(&genai.Part{Text: text})
}

func partsResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: parts},
		}},
	}
}

func newTestClient(m models) *Client {
	return newClient(m, Config{}, prompts.Default())
}

func instructionOf(c call) string {
	var sb strings.Builder
	for _, content := range c.contents {
		for _, part := range content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

const storyJSON = `{"title":"Bolt and the Bird","chapters":[
  {"chapterTitle":"Alone","content":"Bolt swept the empty city.","imagePrompt":"a rusty robot in an empty street"},
  {"chapterTitle":"Found","content":"A sparrow landed on his arm.","imagePrompt":"a robot holding a sparrow"}]}`

const campaignJSON = `{"strategyName":"Signup Surge","targetPersonas":["students","freelancers"],
  "adVariations":[{"headline":"Create more","body":"Templates that ship.","cta":"Sign up"}],
  "calendar":["Week 1: teaser","Week 2: launch"]}`

const pdfJSON = `{"pages":[{"pageNumber":1,"layoutType":"cover","sections":["Title","Hero image"]},
  {"pageNumber":2,"layoutType":"two-column","sections":["Summary","Chart"]}]}`

func TestGenerateStory(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse(storyJSON)}}
	client := newTestClient(fake)

	got, err := client.GenerateStory(context.Background(), "a lonely robot finds a friend", "fantasy")
	if err != nil {
		t.Fatalf("GenerateStory() error = %v", err)
	}

	want := &content.StoryResult{
		Title: "Bolt and the Bird",
		Chapters: []content.Chapter{
			{ChapterTitle: "Alone", Content: "Bolt swept the empty city.", ImagePrompt: "a rusty robot in an empty street"},
			{ChapterTitle: "Found", Content: "A sparrow landed on his arm.", ImagePrompt: "a robot holding a sparrow"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GenerateStory() mismatch (-want +got):\n%s", diff)
	}

	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(fake.calls))
	}
	req := fake.calls[0]
	if req.model != DefaultStoryModel {
		t.Errorf("model = %q, want %q", req.model, DefaultStoryModel)
	}
	instruction := instructionOf(req)
	for _, literal := range []string{"a lonely robot finds a friend", "fantasy"} {
		if !strings.Contains(instruction, literal) {
			t.Errorf("instruction %q missing %q", instruction, literal)
		}
	}
	if req.config.ResponseMIMEType != "application/json" {
		t.Errorf("ResponseMIMEType = %q", req.config.ResponseMIMEType)
	}
	if req.config.ResponseSchema != schema.Story {
		t.Error("story request did not declare the story schema")
	}
	if req.config.SystemInstruction != nil {
		t.Errorf("SystemInstruction = %+v, want none", req.config.SystemInstruction)
	}
	chapter := req.config.ResponseSchema.Properties["chapters"].Items
	for _, field := range []string{"chapterTitle", "content", "imagePrompt"} {
		if chapter.Properties[field].Type != genai.TypeString {
			t.Errorf("chapter field %q is not a string", field)
		}
	}
}

func TestGenerateCampaign(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse(campaignJSON)}}
	client := newTestClient(fake)

	got, err := client.GenerateCampaign(context.Background(), "DiGi Brand", "increase signups")
	if err != nil {
		t.Fatalf("GenerateCampaign() error = %v", err)
	}

	want := &content.CampaignResult{
		StrategyName:   "Signup Surge",
		TargetPersonas: []string{"students", "freelancers"},
		AdVariations:   []content.AdVariation{{Headline: "Create more", Body: "Templates that ship.", CallToAction: "Sign up"}},
		Calendar:       []string{"Week 1: teaser", "Week 2: launch"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GenerateCampaign() mismatch (-want +got):\n%s", diff)
	}

	req := fake.calls[0]
	if req.model != DefaultTextModel {
		t.Errorf("model = %q, want %q", req.model, DefaultTextModel)
	}
	instruction := instructionOf(req)
	for _, literal := range []string{"DiGi Brand", "increase signups"} {
		if !strings.Contains(instruction, literal) {
			t.Errorf("instruction %q missing %q", instruction, literal)
		}
	}
	s := req.config.ResponseSchema
	if s != schema.Campaign {
		t.Fatal("campaign request did not declare the campaign schema")
	}
	for _, field := range []string{"strategyName", "targetPersonas", "adVariations", "calendar"} {
		if _, ok := s.Properties[field]; !ok {
			t.Errorf("campaign schema missing %q", field)
		}
	}
	for _, field := range []string{"headline", "body", "cta"} {
		if _, ok := s.Properties["adVariations"].Items.Properties[field]; !ok {
			t.Errorf("ad variation schema missing %q", field)
		}
	}
}

func TestGeneratePdfLayout(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse(pdfJSON)}}
	client := newTestClient(fake)

	got, err := client.GeneratePdfLayout(context.Background(), "annual report")
	if err != nil {
		t.Fatalf("GeneratePdfLayout() error = %v", err)
	}

	want := &content.PdfLayoutResult{Pages: []content.Page{
		{PageNumber: 1, LayoutType: "cover", Sections: []string{"Title", "Hero image"}},
		{PageNumber: 2, LayoutType: "two-column", Sections: []string{"Summary", "Chart"}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GeneratePdfLayout() mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(instructionOf(fake.calls[0]), "annual report") {
		t.Error("instruction missing topic")
	}
	if fake.calls[0].config.ResponseSchema != schema.PdfLayout {
		t.Error("pdf request did not declare the pdf schema")
	}
}

func TestGenerateStoryErrors(t *testing.T) {
	tests := []struct {
		name         string
		fake         *fakeModels
		wantNetwork  bool
		wantMismatch bool
	}{
		{
			name:        "transportFailure",
			fake:        &fakeModels{err: errors.New("dial tcp: connection refused")},
			wantNetwork: true,
		},
		{
			name:         "notJSON",
			fake:         &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("Once upon a time")}},
			wantMismatch: true,
		},
		{
			name:         "wrongShape",
			fake:         &fakeModels{responses: []*genai.GenerateContentResponse{textResponse(`{"title":"x","chapters":{}}`)}},
			wantMismatch: true,
		},
		{
			name:         "noCandidates",
			fake:         &fakeModels{responses: []*genai.GenerateContentResponse{{}}},
			wantMismatch: true,
		},
		{
			name:         "emptyText",
			fake:         &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("")}},
			wantMismatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(tt.fake)
			got, err := client.GenerateStory(context.Background(), "prompt", "fantasy")
			if got != nil {
				t.Errorf("GenerateStory() returned partial result %+v", got)
			}
			if err == nil {
				t.Fatal("GenerateStory() expected error")
			}

			var genErr *llm.GenerationError
			if !errors.As(err, &genErr) || genErr.Kind != content.KindStory {
				t.Errorf("error %v is not a story GenerationError", err)
			}
			if llm.IsNetwork(err) != tt.wantNetwork {
				t.Errorf("IsNetwork(%v) = %v, want %v", err, llm.IsNetwork(err), tt.wantNetwork)
			}
			if llm.IsSchemaMismatch(err) != tt.wantMismatch {
				t.Errorf("IsSchemaMismatch(%v) = %v, want %v", err, llm.IsSchemaMismatch(err), tt.wantMismatch)
			}
		})
	}
}

func TestConsecutiveCallsDoNotShareState(t *testing.T) {
	second := `{"title":"Sea Song","chapters":[{"chapterTitle":"Tide","content":"Waves.","imagePrompt":"ocean"}]}`
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse(storyJSON), textResponse(second)}}
	client := newTestClient(fake)

	first, err := client.GenerateStory(context.Background(), "robots", "fantasy")
	if err != nil {
		t.Fatalf("first call error = %v", err)
	}
	next, err := client.GenerateStory(context.Background(), "the sea", "poetry")
	if err != nil {
		t.Fatalf("second call error = %v", err)
	}

	if next.Title != "Sea Song" || len(next.Chapters) != 1 {
		t.Errorf("second result leaked state: %+v", next)
	}
	for _, ch := range next.Chapters {
		for _, old := range first.Chapters {
			if ch.ChapterTitle == old.ChapterTitle || ch.Content == old.Content {
				t.Errorf("second result contains value from first: %+v", ch)
			}
		}
	}
	if strings.Contains(instructionOf(fake.calls[1]), "robots") {
		t.Error("second instruction contains first prompt")
	}
}

func TestGenerateImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}

	tests := []struct {
		name     string
		resp     *genai.GenerateContentResponse
		wantData []byte
		wantMIME string
	}{
		{
			name: "skipsLeadingText",
			resp: partsResponse(
				&genai.Part{Text: "Here is your image"},
				&genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: png}},
				&genai.Part{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: []byte("second")}},
			),
			wantData: png,
			wantMIME: "image/png",
		},
		{
			name: "textOnly",
			resp: partsResponse(&genai.Part{Text: "I cannot draw that"}),
		},
		{
			name: "noCandidates",
			resp: &genai.GenerateContentResponse{},
		},
		{
			name: "emptyInlineData",
			resp: partsResponse(&genai.Part{InlineData: &genai.Blob{MIMEType: "image/png"}}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModels{responses: []*genai.GenerateContentResponse{tt.resp}}
			client := newTestClient(fake)

			got, err := client.GenerateImage(context.Background(), "a robot holding a sparrow")
			if err != nil {
				t.Fatalf("GenerateImage() error = %v", err)
			}

			if tt.wantData == nil {
				if got != nil {
					t.Errorf("GenerateImage() = %+v, want absent", got)
				}
				return
			}
			if got == nil {
				t.Fatal("GenerateImage() = nil, want image")
			}
			if diff := cmp.Diff(tt.wantData, got.Data); diff != "" {
				t.Errorf("image data mismatch:\n%s", diff)
			}
			if got.MIMEType != tt.wantMIME {
				t.Errorf("MIMEType = %q, want %q", got.MIMEType, tt.wantMIME)
			}
		})
	}
}

func TestGenerateImageRequest(t *testing.T) {
	fake := &fakeModels{}
	client := newTestClient(fake)

	if _, err := client.GenerateImage(context.Background(), "a robot holding a sparrow"); err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}

	req := fake.calls[0]
	if req.model != DefaultImageModel {
		t.Errorf("model = %q, want %q", req.model, DefaultImageModel)
	}
	if req.config.ImageConfig == nil || req.config.ImageConfig.AspectRatio != "1:1" {
		t.Errorf("ImageConfig = %+v, want square aspect ratio", req.config.ImageConfig)
	}
	if instructionOf(req) != "a robot holding a sparrow" {
		t.Errorf("instruction = %q", instructionOf(req))
	}
}

func TestGenerateImageNetworkError(t *testing.T) {
	client := newTestClient(&fakeModels{err: errors.New("503 unavailable")})

	got, err := client.GenerateImage(context.Background(), "x")
	if got != nil || !llm.IsNetwork(err) {
		t.Errorf("GenerateImage() = %v, %v; want nil, NetworkError", got, err)
	}
}

func TestNewClientRequiresCredential(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "emptyKey", cfg: Config{Backend: BackendGemini}},
		{name: "blankKey", cfg: Config{APIKey: "   "}},
		{name: "vertexWithoutProject", cfg: Config{Backend: BackendVertex}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(context.Background(), tt.cfg, nil)
			if !errors.Is(err, llm.ErrMissingCredential) {
				t.Errorf("NewClient() error = %v, want ErrMissingCredential", err)
			}
		})
	}

	if _, err := NewClient(context.Background(), Config{APIKey: "k", Backend: "openai"}, nil); err == nil {
		t.Error("NewClient() accepted unknown backend")
	}
}

func TestClientAgainstHTTPServer(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": campaignJSON}},
				},
				"finishReason": "STOP",
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), Config{
		APIKey:     "test-api-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	}, prompts.Default())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	got, err := client.GenerateCampaign(context.Background(), "DiGi Brand", "increase signups")
	if err != nil {
		t.Fatalf("GenerateCampaign() error = %v", err)
	}
	if got.StrategyName != "Signup Surge" {
		t.Errorf("StrategyName = %q", got.StrategyName)
	}

	if !strings.HasSuffix(gotPath, "models/"+DefaultTextModel+":generateContent") {
		t.Errorf("request path = %q", gotPath)
	}
	if gotKey != "test-api-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	genCfg, _ := gotBody["generationConfig"].(map[string]any)
	if genCfg["responseMimeType"] != "application/json" {
		t.Errorf("generationConfig = %v", genCfg)
	}
}

func TestClientAgainstFailingServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), Config{APIKey: "bad", BaseURL: server.URL, HTTPClient: server.Client()}, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.GeneratePdfLayout(context.Background(), "topic")
	if !llm.IsNetwork(err) {
		t.Errorf("GeneratePdfLayout() error = %v, want NetworkError", err)
	}
}
