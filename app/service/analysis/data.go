package analysis

import "proplens/app/service/taxonomy"

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Issue is one canonical detected property problem. Labels are unique within
// one analysis; duplicate raw detections are merged keeping the max score.
type Issue struct {
	Label      taxonomy.Label `json:"label"`
	Confidence float64        `json:"confidence"`
	Severity   Severity       `json:"severity"`
	Region     string         `json:"region,omitempty"`
}
