package assistant

import (
	"regexp"
	"strconv"
	"strings"

	"ride-booking/internal/models"
)

var (
	typePattern     = regexp.MustCompile(`(?i)\b(economy|budget|suv|luxury|premium)\b`)
	capacityPattern = regexp.MustCompile(`(?i)\b(\d{1,2}|one|two|three|four|five|six|seven|eight|nine|ten)\s+(?:passengers?|people|persons?|seats?|pax|of\s+us)\b`)
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

var typeAliases = map[string]models.VehicleType{
	"budget":  models.VehicleEconomy,
	"premium": models.VehicleLuxury,
}

// featureAliases maps colloquial names to fleet feature labels.
var featureAliases = []struct{ alias, label string }{
	{"ac", "Air Conditioning"},
	{"a/c", "Air Conditioning"},
	{"aircon", "Air Conditioning"},
	{"wi-fi", "WiFi"},
	{"baby seat", "Child Seat"},
	{"car seat", "Child Seat"},
	{"luggage", "Luggage Space"},
	{"leather", "Leather Seats"},
}

// parseConstraints reads vehicle preferences from the utterance. features is the
// label vocabulary of the current fleet; pass nil to skip feature matching.
func parseConstraints(utterance string, features []string) models.VehicleConstraints {
	var c models.VehicleConstraints

	if m := typePattern.FindStringSubmatch(utterance); m != nil {
		word := strings.ToLower(m[1])
		if t, ok := typeAliases[word]; ok {
			c.Type = &t
		} else if t, err := models.ParseVehicleType(word); err == nil {
			c.Type = &t
		}
	}

	if m := capacityPattern.FindStringSubmatch(utterance); m != nil {
		word := strings.ToLower(m[1])
		n, ok := numberWords[word]
		if !ok {
			n, _ = strconv.Atoi(word)
		}
		if n > 0 {
			c.MinCapacity = &n
		}
	}

	lower := " " + strings.ToLower(utterance) + " "
	seen := map[string]bool{}
	add := func(label string) {
		if !seen[strings.ToLower(label)] {
			seen[strings.ToLower(label)] = true
			c.Features = append(c.Features, label)
		}
	}
	for _, label := range features {
		if containsWord(lower, strings.ToLower(label)) {
			add(label)
		}
	}
	for _, fa := range featureAliases {
		if !containsWord(lower, fa.alias) {
			continue
		}
		for _, known := range features {
			if strings.EqualFold(known, fa.label) {
				add(known)
			}
		}
	}
	return c
}

// containsWord reports whether phrase occurs in padded, bounded by non-letters.
func containsWord(padded, phrase string) bool {
	if strings.TrimSpace(phrase) == "" {
		return false
	}
	for i := 0; ; {
		j := strings.Index(padded[i:], phrase)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(phrase)
		if (start == 0 || !isLetter(padded[start-1])) && (end >= len(padded) || !isLetter(padded[end])) {
			return true
		}
		i = start + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// featureVocabulary lists the distinct feature labels across vehicles.
func featureVocabulary(vehicles []models.Vehicle) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range vehicles {
		for _, f := range v.Features {
			key := strings.ToLower(strings.TrimSpace(f))
			if key == "" {
				continue
			}
			if !seen[key] {
				seen[key] = true
				out = append(out, f)
			}
		}
	}
	return out
}
