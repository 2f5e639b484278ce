package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultGenre = "fantasy"
	DefaultBrand = "DiGi Brand"
)

var ErrEmptyPrompt = errors.New("prompt is required")

var validate = validator.New(validator.WithRequiredStructEnabled())

type Request struct {
	Kind   Kind   `validate:"required,oneof=pdf story ugc campaign ebook social presentation podcast"`
	Prompt string `validate:"required"`
	Genre  string
	Brand  string
}

// WithDefaults fills the auxiliary parameters the form doesn't expose.
func (r Request) WithDefaults(genre, brand string) Request {
	r.Prompt = strings.TrimSpace(r.Prompt)
	if r.Genre = strings.TrimSpace(r.Genre); r.Genre == "" {
		r.Genre = genre
	}
	if r.Genre == "" {
		r.Genre = DefaultGenre
	}
	if r.Brand = strings.TrimSpace(r.Brand); r.Brand == "" {
		r.Brand = brand
	}
	if r.Brand == "" {
		r.Brand = DefaultBrand
	}
	return r
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid request: %s failed %q", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}
