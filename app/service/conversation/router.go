package conversation

import (
	"proplens/app/service/analysis"
	"proplens/app/service/taxonomy"

	"github.com/elliotchance/pie/v2"
)

// Routing is pure keyword classification over the assembled context. No
// model call and no randomness: identical context always yields the same
// intent, and the function is total over well-formed contexts.

var costTimelineKeywords = []string{
	"cost", "price", "expensive", "money", "charges", "how much", "budget",
	"how long", "duration", "timeline", "time frame", "timeframe", "when will",
}

var imageKeywords = []string{
	"image", "photo", "picture", "upload", "attach", "screenshot",
}

var issueKeywords = []string{
	"damage", "broken", "leak", "mold", "crack", "repair", "fix",
	"issue", "problem", "wrong", "stain",
}

func route(rctx ReasoningContext) Intent {
	message := normalizeMessage(rctx.Message)
	if message == "" {
		return Unroutable
	}

	mentioned := taxonomy.LabelsInText(message)

	if rctx.Record == nil || len(rctx.Record.Issues) == 0 {
		// Without an analysis the only image-grounded move is to ask for one.
		if containsAny(message, imageKeywords) || containsAny(message, issueKeywords) || len(mentioned) > 0 {
			return NewImageExpected
		}
		return GeneralPropertyQuestion
	}

	recorded := pie.Map(rctx.Record.Issues, func(issue analysis.Issue) taxonomy.Label {
		return issue.Label
	})

	onRecord := pie.Filter(mentioned, func(label taxonomy.Label) bool {
		return pie.Contains(recorded, label)
	})

	if len(mentioned) > 0 && len(onRecord) == 0 {
		// The question names issues the analysis never found. Whatever the
		// phrasing, answering it as a followup or cost lookup would assert
		// facts the record cannot back.
		return GeneralPropertyQuestion
	}

	if containsAny(message, costTimelineKeywords) {
		return CostTimelineQuery
	}

	if len(onRecord) > 0 || containsAny(message, issueKeywords) {
		return AnalysisFollowup
	}

	return GeneralPropertyQuestion
}

// followupLabel picks which recorded issue a followup turn is about: the
// first issue the message names, else the top issue by confidence.
func followupLabel(rctx ReasoningContext) taxonomy.Label {
	message := normalizeMessage(rctx.Message)

	for _, label := range taxonomy.LabelsInText(message) {
		for _, issue := range rctx.Record.Issues {
			if issue.Label == label {
				return label
			}
		}
	}

	return rctx.Record.Issues[0].Label
}
