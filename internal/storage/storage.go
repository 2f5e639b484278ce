package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"digicreative/internal/content"
)

// Exporter writes a copy of a draft somewhere the user can pick it up.
// Nothing is read back into the studio.
type Exporter interface {
	Export(ctx context.Context, draft content.Draft) (string, error)
	List(ctx context.Context) ([]Entry, error)
}

type Entry struct {
	Name      string
	Kind      content.Kind
	Location  string
	Size      int64
	UpdatedAt time.Time
}

func draftName(d content.Draft) string {
	return fmt.Sprintf("%s-%s.json", d.Kind, d.ID)
}

func previewName(d content.Draft) string {
	return fmt.Sprintf("%s-%s%s", d.Kind, d.ID, ImageExt(d.Preview.MIMEType))
}

// ImageExt maps an image MIME type to a file extension, defaulting to .png.
func ImageExt(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

func encodeDraft(d content.Draft) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	return data, nil
}

// kindFromName recovers the kind from "<kind>-<id>.json". Kinds never contain
// a dash, so the first one separates them.
func kindFromName(name string) (content.Kind, bool) {
	base := path.Base(name)
	if !strings.HasSuffix(base, ".json") {
		return "", false
	}
	prefix, _, ok := strings.Cut(base, "-")
	if !ok {
		return "", false
	}
	kind, err := content.ParseKind(prefix)
	if err != nil {
		return "", false
	}
	return kind, true
}
