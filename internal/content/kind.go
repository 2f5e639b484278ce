package content

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindPDF          Kind = "pdf"
	KindStory        Kind = "story"
	KindUGC          Kind = "ugc"
	KindCampaign     Kind = "campaign"
	KindEbook        Kind = "ebook"
	KindSocial       Kind = "social"
	KindPresentation Kind = "presentation"
	KindPodcast      Kind = "podcast"
)

var kinds = []Kind{
	KindPDF,
	KindStory,
	KindUGC,
	KindCampaign,
	KindEbook,
	KindSocial,
	KindPresentation,
	KindPodcast,
}

func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown content kind %q", s)
	}
	return k, nil
}

func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Structured reports whether the generation service is asked for a typed
// result. Every other kind falls back to a local placeholder draft.
func (k Kind) Structured() bool {
	switch k {
	case KindStory, KindCampaign, KindPDF:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }
