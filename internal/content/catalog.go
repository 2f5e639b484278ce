package content

type Module struct {
	Kind        Kind
	Title       string
	Label       string
	Description string
	Icon        string
	Dashboard   bool
}

var catalog = map[Kind]Module{
	KindPDF:          {Kind: KindPDF, Title: "Interactive PDF Designer", Label: "Interactive PDF", Description: "Design docs with AI", Icon: "📄", Dashboard: true},
	KindStory:        {Kind: KindStory, Title: "Story Book Creator", Label: "Story Book", Description: "Narrative generation", Icon: "📖", Dashboard: true},
	KindUGC:          {Kind: KindUGC, Title: "UGC Ad Generator", Label: "UGC Ads", Description: "Viral social media ads", Icon: "🤳", Dashboard: true},
	KindCampaign:     {Kind: KindCampaign, Title: "Campaign Strategist", Label: "Campaign Bot", Description: "Full-funnel strategies", Icon: "🚀", Dashboard: true},
	KindEbook:        {Kind: KindEbook, Title: "E-Book Research Lab", Label: "E-Book Creator", Description: "Long-form professional", Icon: "📚", Dashboard: true},
	KindSocial:       {Kind: KindSocial, Title: "Social Content Engine", Label: "Social Suite", Description: "30-day content plans", Icon: "📱", Dashboard: true},
	KindPresentation: {Kind: KindPresentation, Title: "Presentation deck", Label: "Presentation", Description: "Slide decks", Icon: "📊"},
	KindPodcast:      {Kind: KindPodcast, Title: "Podcast Scripting", Label: "Podcast", Description: "Episode scripts", Icon: "🎙️"},
}

func Lookup(k Kind) (Module, bool) {
	m, ok := catalog[k]
	return m, ok
}

// Catalog returns every module in declaration order.
func Catalog() []Module {
	out := make([]Module, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, catalog[k])
	}
	return out
}

func Dashboard() []Module {
	var out []Module
	for _, m := range Catalog() {
		if m.Dashboard {
			out = append(out, m)
		}
	}
	return out
}
