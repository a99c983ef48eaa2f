// Package taxonomy holds the closed vocabulary of property issues the vision
// step can report. Raw detection labels are free-form text; everything the
// rest of the pipeline touches is one of the canonical labels below.
package taxonomy

import (
	"sort"
	"strings"
)

type Label string

const (
	Structural Label = "structural-damage"
	Water      Label = "water-damage"
	Mold       Label = "mold"
	Electrical Label = "electrical-issues"
	Plumbing   Label = "plumbing-issues"
	Cosmetic   Label = "cosmetic-wear"
	Other      Label = "other"
)

// priority breaks confidence ties: lower value sorts first.
var priority = map[Label]int{
	Structural: 0,
	Water:      1,
	Mold:       2,
	Electrical: 3,
	Plumbing:   4,
	Cosmetic:   5,
	Other:      6,
}

// synonyms maps raw detection phrasing and user phrasing to canonical labels.
// Matching is substring-based on lowercased text.
var synonyms = map[string]Label{
	"structural":       Structural,
	"crack":            Structural,
	"foundation":       Structural,
	"uneven floor":     Structural,
	"water damage":     Water,
	"water stain":      Water,
	"leak":             Water,
	"moisture":         Water,
	"damp":             Water,
	"mold":             Mold,
	"mould":            Mold,
	"mildew":           Mold,
	"fungus":           Mold,
	"black spots":      Mold,
	"electrical":       Electrical,
	"wiring":           Electrical,
	"exposed wire":     Electrical,
	"plumbing":         Plumbing,
	"pipe":             Plumbing,
	"drainage":         Plumbing,
	"water pressure":   Plumbing,
	"paint peeling":    Cosmetic,
	"peeling paint":    Cosmetic,
	"poor lighting":    Cosmetic,
	"broken fixture":   Cosmetic,
	"wall damage":      Cosmetic,
	"floor damage":     Cosmetic,
	"ceiling damage":   Cosmetic,
	"window":           Cosmetic,
	"cosmetic":         Cosmetic,
	"wear":             Cosmetic,
}

var recommendations = map[Label]string{
	Structural: "Have a structural engineer assess the severity. This could indicate foundation issues.",
	Water:      "Contact a water damage restoration specialist immediately. This could lead to mold and structural issues if not addressed.",
	Mold:       "Schedule a mold inspection and remediation service. Ensure proper ventilation and fix any water leaks.",
	Electrical: "Contact a licensed electrician for an inspection. Electrical problems can pose serious safety risks.",
	Plumbing:   "Have a professional plumber inspect the system. Address leaks and water pressure issues promptly.",
	Cosmetic:   "A general contractor can handle cosmetic repairs. Check for underlying moisture issues before repainting.",
	Other:      "Please consult a specialist for this issue.",
}

// All returns every canonical label except Other, in priority order.
func All() []Label {
	return []Label{Structural, Water, Mold, Electrical, Plumbing, Cosmetic}
}

// orderedPhrases fixes the iteration order over the synonyms map so that
// matching stays deterministic.
var orderedPhrases = func() []string {
	phrases := make([]string, 0, len(synonyms))
	for phrase := range synonyms {
		phrases = append(phrases, phrase)
	}
	sort.Strings(phrases)
	return phrases
}()

// Canonicalize maps a raw detection label to a canonical one. Labels outside
// the taxonomy map to Other rather than being dropped. When several synonym
// phrases match ("pipe leaks" hits both "pipe" and "leak"), the leftmost
// match wins, then the longest, then taxonomy priority, so the mapping is a
// pure function of the input.
func Canonicalize(raw string) Label {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return Other
	}

	best := Other
	bestIdx := -1
	bestLen := 0
	for _, phrase := range orderedPhrases {
		idx := strings.Index(text, phrase)
		if idx < 0 {
			continue
		}

		label := synonyms[phrase]
		better := bestIdx == -1 ||
			idx < bestIdx ||
			(idx == bestIdx && len(phrase) > bestLen) ||
			(idx == bestIdx && len(phrase) == bestLen && Priority(label) < Priority(best))
		if better {
			best = label
			bestIdx = idx
			bestLen = len(phrase)
		}
	}
	if bestIdx >= 0 {
		return best
	}

	for _, label := range All() {
		if text == string(label) {
			return label
		}
	}

	return Other
}

// LabelsInText returns the canonical labels a free-form message refers to,
// via synonym substring matching. Used to tell whether a user question is
// about something the analysis actually found.
func LabelsInText(text string) []Label {
	text = strings.ToLower(text)
	seen := make(map[Label]bool)

	var result []Label
	for phrase, label := range synonyms {
		if strings.Contains(text, phrase) && !seen[label] {
			seen[label] = true
			result = append(result, label)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return Priority(result[i]) < Priority(result[j])
	})

	return result
}

// Priority returns the tie-break rank of a label, lower first. Unknown labels
// rank with Other.
func Priority(label Label) int {
	if p, ok := priority[label]; ok {
		return p
	}
	return priority[Other]
}

// Recommendation returns the canned quick assessment for a label.
func Recommendation(label Label) string {
	if r, ok := recommendations[label]; ok {
		return r
	}
	return recommendations[Other]
}

// Display renders a label for user-facing text ("water-damage" -> "water damage").
func Display(label Label) string {
	return strings.ReplaceAll(string(label), "-", " ")
}
