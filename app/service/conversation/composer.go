package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"proplens/app/client/llm"
	"proplens/app/service/knowledge"
	"proplens/app/service/taxonomy"

	_ "embed"
)

//go:embed reply_prompt_template.txt
var replyPromptTemplate string

// composer turns a routed context into a reply. Prose comes from the
// language-generation collaborator; facts come from the analysis record and
// the knowledge base. Generation failure degrades to a deterministic reply,
// never to an error for the caller.
type composer struct {
	generator    llm.Generator
	knowledgeSvc *knowledge.Service
}

func (c *composer) compose(ctx context.Context, rctx ReasoningContext, intent Intent) string {
	switch intent {
	case Unroutable:
		return "I didn't quite catch that. Could you rephrase your question, or upload a photo of the property issue you'd like me to look at?"
	case NewImageExpected:
		return "I can help you better if you upload an image of the issue. Could you please share a photo?"
	}

	prompt := c.buildPrompt(rctx, intent)

	reply, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Error("Reply generation failed, using fallback",
			"session", rctx.SessionID,
			"intent", intent,
			"error", err)
		return c.fallback(rctx, intent)
	}

	return c.reconcile(rctx, reply)
}

func (c *composer) buildPrompt(rctx ReasoningContext, intent Intent) string {
	location := rctx.Location
	if location == "" {
		location = "unknown"
	}

	focus := ""
	if intent == AnalysisFollowup {
		focus = fmt.Sprintf("The question is specifically about the %s issue.",
			taxonomy.Display(followupLabel(rctx)))
	}

	templateValues := map[string]any{
		"message":      rctx.Message,
		"chat_history": formatHistory(rctx.History),
		"issues":       formatIssues(rctx),
		"facts":        c.formatFacts(rctx, intent),
		"location":     location,
		"intent":       string(intent),
		"focus":        focus,
	}

	prompt := replyPromptTemplate
	for key, value := range templateValues {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", fmt.Sprint(value))
	}

	return prompt
}

func formatIssues(rctx ReasoningContext) string {
	if rctx.Record == nil || len(rctx.Record.Issues) == 0 {
		return "No analysis available"
	}

	var builder strings.Builder
	for _, issue := range rctx.Record.Issues {
		fmt.Fprintf(&builder, "- %s (confidence %.2f, severity %s)",
			taxonomy.Display(issue.Label), issue.Confidence, issue.Severity)
		if issue.Region != "" {
			fmt.Fprintf(&builder, " seen at: %s", issue.Region)
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

// followupTopic narrows an analysis followup to the part of the knowledge
// sheet the user is actually asking about.
type followupTopic int

const (
	topicOverview followupTopic = iota
	topicRepair
	topicPrevention
	topicProfessionals
)

var professionalKeywords = []string{
	"who", "professional", "expert", "contractor", "specialist", "call", "hire", "contact",
}

var repairKeywords = []string{
	"repair", "fix", "steps", "how do i", "how to", "process",
}

var preventionKeywords = []string{
	"prevent", "avoid", "stop", "future", "again",
}

func followupTopicOf(message string) followupTopic {
	message = normalizeMessage(message)

	switch {
	case containsAny(message, professionalKeywords):
		return topicProfessionals
	case containsAny(message, repairKeywords):
		return topicRepair
	case containsAny(message, preventionKeywords):
		return topicPrevention
	}

	return topicOverview
}

// formatFacts assembles the grounding block for the prompt: knowledge-base
// sheets for recorded issues, plus the FAQ answer for general questions.
// Followup turns get only the sheet for the issue in focus, trimmed to the
// sub-topic the question asked for.
func (c *composer) formatFacts(rctx ReasoningContext, intent Intent) string {
	var builder strings.Builder

	if rctx.Record != nil && len(rctx.Record.Issues) > 0 {
		if intent == AnalysisFollowup {
			c.writeIssueFacts(&builder, followupLabel(rctx), followupTopicOf(rctx.Message))
		} else {
			for _, issue := range rctx.Record.Issues {
				c.writeIssueFacts(&builder, issue.Label, topicOverview)
			}
		}
	}

	if intent == GeneralPropertyQuestion {
		if answer, ok := c.knowledgeSvc.AnswerFAQ(rctx.Message); ok {
			fmt.Fprintf(&builder, "Tenancy reference:\n%s\n", answer)
		}
	}

	if builder.Len() == 0 {
		return "None"
	}

	return builder.String()
}

func (c *composer) writeIssueFacts(builder *strings.Builder, label taxonomy.Label, topic followupTopic) {
	detail, ok := c.knowledgeSvc.Detail(label)
	if !ok {
		return
	}

	name := taxonomy.Display(label)
	if topic == topicOverview || topic == topicRepair {
		fmt.Fprintf(builder, "%s repair steps: %s\n", name, strings.Join(detail.RepairSteps, "; "))
		fmt.Fprintf(builder, "%s typical cost range: %s, typical timeline: %s\n", name, detail.EstimatedCost, detail.Timeline)
	}
	if topic == topicOverview || topic == topicPrevention {
		fmt.Fprintf(builder, "%s prevention: %s\n", name, strings.Join(detail.Prevention, "; "))
	}
	if topic == topicOverview || topic == topicProfessionals {
		if info, ok := c.knowledgeSvc.Professionals(label); ok {
			fmt.Fprintf(builder, "%s professionals to contact: %s\n", name, strings.Join(info.Professionals, ", "))
		}
	}
}

// reconcile guards against generated text asserting issues the analysis
// never found. Offending labels get an explicit speculative caveat.
func (c *composer) reconcile(rctx ReasoningContext, reply string) string {
	if rctx.Record == nil {
		return reply
	}

	recorded := make(map[taxonomy.Label]bool, len(rctx.Record.Issues))
	for _, issue := range rctx.Record.Issues {
		recorded[issue.Label] = true
	}

	var unsupported []string
	for _, label := range taxonomy.LabelsInText(reply) {
		if !recorded[label] {
			unsupported = append(unsupported, taxonomy.Display(label))
		}
	}

	if len(unsupported) == 0 {
		return reply
	}

	slog.Warn("Generated reply mentioned issues absent from the analysis",
		"session", rctx.SessionID,
		"labels", unsupported)

	return reply + fmt.Sprintf(
		"\n\nPlease note: the photo analysis did not detect %s, so anything above about it is speculative rather than an observed finding.",
		strings.Join(unsupported, ", "))
}

// fallback is the deterministic reply used when generation fails: it lists
// what the analysis actually found, answers followups straight from the
// knowledge base, and for cost questions explicitly holds back figures.
func (c *composer) fallback(rctx ReasoningContext, intent Intent) string {
	if rctx.Record == nil || len(rctx.Record.Issues) == 0 {
		if answer, ok := c.knowledgeSvc.AnswerFAQ(rctx.Message); ok {
			return answer
		}
		return "I'm having trouble generating a full answer right now. I don't have a photo analysis for this session yet; uploading a photo of the issue would let me give you grounded advice."
	}

	var builder strings.Builder
	builder.WriteString("I'm having trouble generating a full answer right now. Here is what the photo analysis found:\n")
	for _, issue := range rctx.Record.Issues {
		fmt.Fprintf(&builder, "- %s (%s severity)\n", taxonomy.Display(issue.Label), issue.Severity)
	}

	switch intent {
	case CostTimelineQuery:
		builder.WriteString("I can't give you reliable cost or timeline figures at the moment; please ask again shortly.")
	case AnalysisFollowup:
		label := followupLabel(rctx)
		name := taxonomy.Display(label)

		detail, ok := c.knowledgeSvc.Detail(label)
		if !ok {
			builder.WriteString("Please ask again shortly for more detail on any of these.")
			break
		}

		switch followupTopicOf(rctx.Message) {
		case topicPrevention:
			fmt.Fprintf(&builder, "To prevent %s in the future: %s.", name, strings.Join(detail.Prevention, "; "))
		case topicProfessionals:
			if info, ok := c.knowledgeSvc.Professionals(label); ok {
				fmt.Fprintf(&builder, "For %s you would typically contact: %s.", name, strings.Join(info.Professionals, ", "))
			}
		default:
			fmt.Fprintf(&builder, "Typical repair steps for %s: %s.", name, strings.Join(detail.RepairSteps, "; "))
		}
	default:
		builder.WriteString("Please ask again shortly for more detail on any of these.")
	}

	return builder.String()
}
