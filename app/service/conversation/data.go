package conversation

import "proplens/app/service/store"

// Intent is the closed routing category for one user turn. route returns
// exactly one of these for any well-formed context.
type Intent string

const (
	AnalysisFollowup        Intent = "analysis_followup"
	CostTimelineQuery       Intent = "cost_timeline_query"
	GeneralPropertyQuestion Intent = "general_property_question"
	NewImageExpected        Intent = "new_image_expected"
	Unroutable              Intent = "unroutable"
)

// ReasoningContext is the ephemeral per-turn bundle handed to routing and
// composition. It is rebuilt on every request and never persisted.
type ReasoningContext struct {
	SessionID string
	Message   string
	Location  string

	// Record is the latest analysis for the session, nil when none exists.
	// A nil record is a first-class state, not an error.
	Record *store.AnalysisRecord

	// History is the most recent slice of the transcript, oldest first.
	History []store.ConversationTurn
}
