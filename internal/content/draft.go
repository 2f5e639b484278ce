package content

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
)

type Draft struct {
	ID        string       `json:"id"`
	Kind      Kind         `json:"type"`
	Title     string       `json:"title"`
	CreatedAt time.Time    `json:"timestamp"`
	Status    Status       `json:"status"`
	Data      any          `json:"data"`
	Preview   *ImageResult `json:"-"`
}

func NewDraft(res *Result, preview *ImageResult, status Status) Draft {
	var kind Kind
	if res != nil {
		kind = res.Kind
	}
	return Draft{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     res.Title(),
		CreatedAt: time.Now().UTC(),
		Status:    status,
		Data:      res.Payload(),
		Preview:   preview,
	}
}
