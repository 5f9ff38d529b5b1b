// Package intent classifies an inbound student message into the closed
// set of dispatch intents the tutor understands. Classification is a
// fixed, ordered substring check: time queries win over news queries,
// which win over the general tutoring path.
package intent

import "strings"

// Kind is the dispatch intent of a message.
type Kind int

const (
	// General routes through search enrichment and the generation model.
	General Kind = iota
	// Time is answered directly with the current timestamp.
	Time
	// News is answered with live headlines, bypassing generation.
	News
)

// News categories.
const (
	CategoryGeneral    = "general"
	CategoryTechnology = "technology"
	CategoryBusiness   = "business"
)

// Intent is the classification result for one message.
type Intent struct {
	Kind Kind
	// Category is set for News intents.
	Category string
	// SearchWorthy marks General messages that should be enriched with
	// web-search results before prompting.
	SearchWorthy bool
}

var searchTriggers = []string{"explain", "what is", "how", "define", "show", "solve"}

// Classify inspects the lower-cased message and returns its intent.
// The priority ordering (time > news > general) is fixed.
func Classify(message string) Intent {
	m := strings.ToLower(message)

	if strings.Contains(m, "time") || strings.Contains(m, "date") {
		return Intent{Kind: Time}
	}

	if strings.Contains(m, "news") || strings.Contains(m, "headlines") {
		return Intent{Kind: News, Category: newsCategory(m)}
	}

	return Intent{Kind: General, SearchWorthy: containsAny(m, searchTriggers)}
}

func newsCategory(m string) string {
	switch {
	case strings.Contains(m, "tech news"), strings.Contains(m, "technology news"):
		return CategoryTechnology
	case strings.Contains(m, "business news"):
		return CategoryBusiness
	default:
		return CategoryGeneral
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
