package storage

import (
	"context"
	"fmt"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"digicreative/internal/content"
)

type GCSExporter struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSExporter(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCSExporter, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSExporter{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (e *GCSExporter) Close() error {
	return e.client.Close()
}

func (e *GCSExporter) Export(ctx context.Context, d content.Draft) (string, error) {
	data, err := encodeDraft(d)
	if err != nil {
		return "", err
	}

	var preview string
	if d.Preview != nil && len(d.Preview.Data) > 0 {
		mimeType := d.Preview.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		preview = e.objectName(previewName(d))
		if err := e.write(ctx, preview, mimeType, d.Preview.Data); err != nil {
			return "", err
		}
	}

	name := e.objectName(draftName(d))
	if err := e.write(ctx, name, "application/json", data); err != nil {
		if preview != "" {
			_ = e.client.Bucket(e.bucket).Object(preview).Delete(ctx)
		}
		return "", err
	}

	return fmt.Sprintf("gs://%s/%s", e.bucket, name), nil
}

func (e *GCSExporter) List(ctx context.Context) ([]Entry, error) {
	query := &storage.Query{Prefix: e.listPrefix()}

	var entries []Entry
	it := e.client.Bucket(e.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		kind, ok := kindFromName(attrs.Name)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Name:      path.Base(attrs.Name),
			Kind:      kind,
			Location:  fmt.Sprintf("gs://%s/%s", e.bucket, attrs.Name),
			Size:      attrs.Size,
			UpdatedAt: attrs.Updated,
		})
	}

	sortNewestFirst(entries)
	return entries, nil
}

func (e *GCSExporter) objectName(name string) string {
	if e.prefix == "" {
		return name
	}
	return path.Join(e.prefix, name)
}

// listPrefix ends in a slash so "drafts" does not also match "drafts-old/".
func (e *GCSExporter) listPrefix() string {
	if e.prefix == "" {
		return ""
	}
	return path.Join(e.prefix) + "/"
}

func (e *GCSExporter) write(ctx context.Context, name, contentType string, data []byte) error {
	w := e.client.Bucket(e.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return nil
}
