package assistant

import (
	"regexp"
	"strings"
)

// Extraction holds the raw place phrases found in one utterance. Empty means not mentioned.
type Extraction struct {
	Pickup  string
	Dropoff string
}

// Empty reports whether no endpoint phrase was found.
func (e Extraction) Empty() bool {
	return e.Pickup == "" && e.Dropoff == ""
}

// Extractor turns an utterance into place phrases. PatternExtractor is the
// default; an NLU-backed implementation can replace it without touching Handle.
type Extractor interface {
	Extract(utterance string) Extraction
}

var (
	fromToPattern  = regexp.MustCompile(`(?i)\bfrom\s+(.+?)\s+to\s+(.+)`)
	pickupPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bpick\s+(?:me\s+)?up\s+(?:at|from)\s+(.+)`),
		regexp.MustCompile(`(?i)\bfrom\s+(.+)`),
	}
	dropoffPattern = regexp.MustCompile(`(?i)\b(?:go|going|travel|ride|head|heading|drive|get|take\s+me|drop\s+(?:me\s+)?off)\s+to\s+(.+)`)

	// A phrase ends at punctuation or at the first conjunction or time marker.
	phraseEnd = regexp.MustCompile(`(?i)[.,!?;]|\s+(?:(?:and|but|then|from|on|tomorrow|today|tonight|now|with|for|by|around|please|asap|using|in\s+(?:a|an|the))\b|at\s+\d|in\s+\d)`)
)

// PatternExtractor recognises "from X to Y" and the single-endpoint forms
// "from X", "pick me up at X" and "go to Y".
type PatternExtractor struct{}

func (PatternExtractor) Extract(utterance string) Extraction {
	if m := fromToPattern.FindStringSubmatch(utterance); m != nil {
		ex := Extraction{Pickup: trimPhrase(m[1]), Dropoff: trimPhrase(m[2])}
		if ex.Pickup != "" && ex.Dropoff != "" {
			return ex
		}
	}

	var ex Extraction
	for _, p := range pickupPatterns {
		if m := p.FindStringSubmatch(utterance); m != nil {
			if phrase := trimPhrase(m[1]); phrase != "" {
				ex.Pickup = phrase
				break
			}
		}
	}
	if m := dropoffPattern.FindStringSubmatch(utterance); m != nil {
		ex.Dropoff = trimPhrase(m[1])
	}
	return ex
}

func trimPhrase(s string) string {
	if loc := phraseEnd.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.Join(strings.Fields(s), " ")
}
