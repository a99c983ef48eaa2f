package store

import (
	"time"

	"proplens/app/service/analysis"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AnalysisRecord is the durable result of one image analysis. Records are
// immutable once stored; a new upload in the same session supersedes the
// previous record instead of mutating it.
type AnalysisRecord struct {
	ID        string           `json:"id"`
	SessionID string           `json:"sessionId"`
	ImageRef  string           `json:"imageRef"`
	Issues    []analysis.Issue `json:"issues"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ConversationTurn is one exchange in a session transcript.
type ConversationTurn struct {
	Role             Role      `json:"role"`
	Text             string    `json:"text"`
	LinkedAnalysisID string    `json:"linkedAnalysisId,omitempty"`
	At               time.Time `json:"at"`
}

// session owns the transcript and every analysis version seen for one
// session key. Only the latest record is exposed to the pipeline; older
// versions stay for audit.
type session struct {
	records []*AnalysisRecord
	turns   []ConversationTurn
}

type auditLine struct {
	Kind      string            `json:"kind"`
	SessionID string            `json:"sessionId"`
	Record    *AnalysisRecord   `json:"record,omitempty"`
	Turn      *ConversationTurn `json:"turn,omitempty"`
}
