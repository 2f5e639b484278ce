package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"digicreative/internal/content"
)

type LocalExporter struct {
	dir string
}

func NewLocalExporter(dir string) *LocalExporter {
	return &LocalExporter{dir: dir}
}

func (e *LocalExporter) Export(ctx context.Context, d content.Draft) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	data, err := encodeDraft(d)
	if err != nil {
		return "", err
	}

	// The draft JSON goes last so a listed draft always has its preview.
	var preview string
	if d.Preview != nil && len(d.Preview.Data) > 0 {
		preview = filepath.Join(e.dir, previewName(d))
		if err := os.WriteFile(preview, d.Preview.Data, 0644); err != nil {
			return "", fmt.Errorf("failed to write preview: %w", err)
		}
	}

	path := filepath.Join(e.dir, draftName(d))
	if err := os.WriteFile(path, data, 0644); err != nil {
		if preview != "" {
			_ = os.Remove(preview)
		}
		return "", fmt.Errorf("failed to write draft: %w", err)
	}

	return path, nil
}

func (e *LocalExporter) List(ctx context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(e.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export directory: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		kind, ok := kindFromName(de.Name())
		if !ok {
			continue
		}
		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", de.Name(), err)
		}
		entries = append(entries, Entry{
			Name:      de.Name(),
			Kind:      kind,
			Location:  filepath.Join(e.dir, de.Name()),
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
	}

	sortNewestFirst(entries)
	return entries, nil
}

func sortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
}
