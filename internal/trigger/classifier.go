package trigger

import (
	"strings"
)

// Classifier guesses the trigger ("Ausloeser") of a work session from
// its description. It is a stateless keyword matcher used to default
// the field when the client did not supply one; it plays no part in
// the session lifecycle.
type Classifier struct {
	keywords map[string][]string
}

// Config for the trigger classifier
type Config struct {
	// Keywords maps a trigger bucket to the substrings that select it.
	// Leave nil for the built-in German defaults.
	Keywords map[string][]string
}

// New creates a new trigger classifier
func New(cfg *Config) *Classifier {
	keywords := map[string][]string{
		"kundenmeldung":  {"kunde", "ticket", "support", "beschwerde"},
		"bugfix":         {"bug", "fehler", "fix", "defekt", "broken"},
		"wartung":        {"update", "upgrade", "wartung", "migration", "backup"},
		"sprintplanung":  {"sprint", "planung", "konzept", "meeting"},
		"neuentwicklung": {"neu", "feature", "implementier", "umsetz"},
	}
	if cfg != nil && cfg.Keywords != nil {
		keywords = cfg.Keywords
	}

	return &Classifier{
		keywords: keywords,
	}
}

// Classify returns the trigger bucket whose keywords match the
// description, or an empty string when nothing matches
func (c *Classifier) Classify(description string) string {
	lowered := strings.ToLower(description)

	best := ""
	bestHits := 0
	for bucket, words := range c.keywords {
		hits := 0
		for _, word := range words {
			if strings.Contains(lowered, word) {
				hits++
			}
		}
		if hits > bestHits || (hits == bestHits && hits > 0 && bucket < best) {
			best = bucket
			bestHits = hits
		}
	}

	return best
}
