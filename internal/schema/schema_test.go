package schema

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	"digicreative/internal/content"
)

// assertLockstep walks a result type and its schema together so that adding a
// field to one without the other fails.
func assertLockstep(t *testing.T, path string, typ reflect.Type, s *genai.Schema) {
	t.Helper()

	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	switch typ.Kind() {
	case reflect.Struct:
		if s.Type != genai.TypeObject {
			t.Fatalf("%s: schema type %q, want OBJECT", path, s.Type)
		}
		var fields []string
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			name := strings.Split(f.Tag.Get("json"), ",")[0]
			fields = append(fields, name)
			prop, ok := s.Properties[name]
			if !ok {
				t.Errorf("%s: field %q missing from schema", path, name)
				continue
			}
			assertLockstep(t, path+"."+name, f.Type, prop)
		}
		var props []string
		for name := range s.Properties {
			props = append(props, name)
		}
		ordering := append([]string(nil), s.PropertyOrdering...)
		sort.Strings(fields)
		sort.Strings(props)
		sort.Strings(ordering)
		if diff := cmp.Diff(fields, props); diff != "" {
			t.Errorf("%s: fields and schema properties differ (-type +schema):\n%s", path, diff)
		}
		if diff := cmp.Diff(props, ordering); diff != "" {
			t.Errorf("%s: PropertyOrdering does not list every property (-properties +ordering):\n%s", path, diff)
		}
	case reflect.Slice:
		if s.Type != genai.TypeArray {
			t.Fatalf("%s: schema type %q, want ARRAY", path, s.Type)
		}
		assertLockstep(t, path+"[]", typ.Elem(), s.Items)
	case reflect.String:
		if s.Type != genai.TypeString {
			t.Errorf("%s: schema type %q, want STRING", path, s.Type)
		}
	case reflect.Int:
		if s.Type != genai.TypeInteger {
			t.Errorf("%s: schema type %q, want INTEGER", path, s.Type)
		}
	default:
		t.Fatalf("%s: unsupported field kind %s", path, typ.Kind())
	}
}

func TestSchemasMatchResultTypes(t *testing.T) {
	tests := []struct {
		kind content.Kind
		typ  reflect.Type
	}{
		{content.KindStory, reflect.TypeOf(content.StoryResult{})},
		{content.KindCampaign, reflect.TypeOf(content.CampaignResult{})},
		{content.KindPDF, reflect.TypeOf(content.PdfLayoutResult{})},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assertLockstep(t, "$", tt.typ, For(tt.kind))
		})
	}
}

func TestStorySchemaRequiresChapterFields(t *testing.T) {
	if diff := cmp.Diff([]string{"title", "chapters"}, Story.Required); diff != "" {
		t.Errorf("Story.Required mismatch:\n%s", diff)
	}
	chapters := Story.Properties["chapters"]
	if chapters.Type != genai.TypeArray {
		t.Fatalf("chapters type = %q, want ARRAY", chapters.Type)
	}
	if diff := cmp.Diff([]string{"chapterTitle", "content", "imagePrompt"}, chapters.Items.Required); diff != "" {
		t.Errorf("chapter Required mismatch:\n%s", diff)
	}
}

func TestCampaignSchemaUsesCTA(t *testing.T) {
	ads := Campaign.Properties["adVariations"]
	if _, ok := ads.Items.Properties["cta"]; !ok {
		t.Error("ad variation schema missing cta")
	}
	if Campaign.Properties["targetPersonas"].Items.Type != genai.TypeString {
		t.Error("targetPersonas must be a list of strings")
	}
	if Campaign.Properties["calendar"].Type != genai.TypeArray {
		t.Error("calendar must be an array")
	}
}

func TestForUnstructuredKind(t *testing.T) {
	for _, k := range []content.Kind{content.KindUGC, content.KindPodcast, content.KindEbook} {
		if s := For(k); s != nil {
			t.Errorf("For(%q) = %v, want nil", k, s)
		}
		if _, err := JSON(k); err == nil {
			t.Errorf("JSON(%q) expected error", k)
		}
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(content.KindStory)
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	for _, want := range []string{"chapterTitle", "imagePrompt", "OBJECT"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON() missing %q: %s", want, data)
		}
	}
}

func TestConform(t *testing.T) {
	tests := []struct {
		name    string
		schema  *genai.Schema
		raw     string
		wantErr string
	}{
		{
			name:   "validStory",
			schema: Story,
			raw:    `{"title":"Robo","chapters":[{"chapterTitle":"One","content":"...","imagePrompt":"robot"}]}`,
		},
		{
			name:   "extraFieldsIgnored",
			schema: Story,
			raw:    `{"title":"Robo","chapters":[],"mood":"sad"}`,
		},
		{
			name:    "missingTitle",
			schema:  Story,
			raw:     `{"chapters":[]}`,
			wantErr: `missing required field "title"`,
		},
		{
			name:    "chaptersNotArray",
			schema:  Story,
			raw:     `{"title":"Robo","chapters":"none"}`,
			wantErr: "$.chapters: expected array",
		},
		{
			name:    "chapterMissingImagePrompt",
			schema:  Story,
			raw:     `{"title":"Robo","chapters":[{"chapterTitle":"One","content":"..."}]}`,
			wantErr: `$.chapters[0]: missing required field "imagePrompt"`,
		},
		{
			name:    "fractionalPageNumber",
			schema:  PdfLayout,
			raw:     `{"pages":[{"pageNumber":1.5,"layoutType":"grid","sections":[]}]}`,
			wantErr: "expected integer",
		},
		{
			name:   "integralPageNumber",
			schema: PdfLayout,
			raw:    `{"pages":[{"pageNumber":2,"layoutType":"grid","sections":["Intro"]}]}`,
		},
		{
			name:    "personaNotString",
			schema:  Campaign,
			raw:     `{"strategyName":"s","targetPersonas":[1],"adVariations":[],"calendar":[]}`,
			wantErr: "$.targetPersonas[0]: expected string",
		},
		{
			name:    "topLevelNull",
			schema:  Campaign,
			raw:     `null`,
			wantErr: "expected object, got null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v any
			if err := json.Unmarshal([]byte(tt.raw), &v); err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			err := Conform(tt.schema, v)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Conform() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Conform() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
