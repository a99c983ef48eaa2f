package analysis

import (
	"log/slog"

	"proplens/app/client/vision"
	"proplens/app/config"
	"proplens/app/service/taxonomy"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

// Service normalizes raw vision detections into a canonical issue list:
// out-of-range scores are clamped, labels are folded onto the taxonomy,
// duplicates are max-merged, and the result is ordered by descending
// confidence with taxonomy priority breaking ties.
type Service struct {
	highThreshold   float64
	mediumThreshold float64
	minConfidence   float64
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Service{
		highThreshold:   cfg.Analysis.HighThreshold,
		mediumThreshold: cfg.Analysis.MediumThreshold,
		minConfidence:   cfg.Analysis.MinConfidence,
	}, nil
}

func (s *Service) Normalize(raw []vision.Detection) []Issue {
	merged := make(map[taxonomy.Label]Issue, len(raw))

	for _, det := range raw {
		score := det.Score
		if score < 0 || score > 1 {
			slog.Warn("Clamped out-of-range detection score",
				"label", det.Label,
				"score", det.Score)
			score = min(max(score, 0), 1)
		}

		label := taxonomy.Canonicalize(det.Label)

		existing, ok := merged[label]
		switch {
		case !ok:
			merged[label] = Issue{
				Label:      label,
				Confidence: score,
				Region:     det.Region,
			}
		case score > existing.Confidence:
			region := det.Region
			if region == "" {
				region = existing.Region
			}
			existing.Confidence = score
			existing.Region = region
			merged[label] = existing
		case existing.Region == "" && det.Region != "":
			// The stronger detection had no region; keep its score but take
			// the weaker duplicate's location hint.
			existing.Region = det.Region
			merged[label] = existing
		}
	}

	issues := make([]Issue, 0, len(merged))
	for _, issue := range merged {
		if issue.Confidence < s.minConfidence {
			continue
		}
		issue.Severity = s.severity(issue.Confidence)
		issues = append(issues, issue)
	}

	return pie.SortStableUsing(issues, func(a, b Issue) bool {
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return taxonomy.Priority(a.Label) < taxonomy.Priority(b.Label)
	})
}

func (s *Service) severity(confidence float64) Severity {
	switch {
	case confidence >= s.highThreshold:
		return SeverityHigh
	case confidence >= s.mediumThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
