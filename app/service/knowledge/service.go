// Package knowledge serves the curated reference data the composer grounds
// replies in: per-issue repair/cost/timeline/prevention sheets, professional
// directories, and a tenancy FAQ matched by question keywords.
package knowledge

import (
	"sort"
	"strings"

	"proplens/app/service/taxonomy"

	"github.com/samber/do"
)

type Service struct{}

func New(_ *do.Injector) (*Service, error) {
	return &Service{}, nil
}

// Detail returns the reference sheet for an issue category. Other has no
// sheet; callers should fall back to a generic recommendation.
func (s *Service) Detail(label taxonomy.Label) (IssueDetail, bool) {
	detail, ok := issueDetails[label]
	return detail, ok
}

// Professionals returns who to contact for an issue category.
func (s *Service) Professionals(label taxonomy.Label) (ProfessionalInfo, bool) {
	info, ok := professionals[label]
	return info, ok
}

// AnswerFAQ finds the tenancy FAQ topic whose patterns best match the
// question. The topic with the most pattern hits wins; topic name breaks
// ties so the answer is deterministic.
func (s *Service) AnswerFAQ(question string) (string, bool) {
	question = strings.ToLower(question)

	names := make([]string, 0, len(faqTopics))
	for name := range faqTopics {
		names = append(names, name)
	}
	sort.Strings(names)

	bestName := ""
	maxMatches := 0
	for _, name := range names {
		matches := 0
		for _, pattern := range faqTopics[name].patterns {
			if strings.Contains(question, pattern) {
				matches++
			}
		}
		if matches > maxMatches {
			maxMatches = matches
			bestName = name
		}
	}

	if bestName == "" {
		return "", false
	}

	return faqTopics[bestName].response, true
}
