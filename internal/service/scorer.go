// Package service implements the symptom-to-risk scoring engine and the
// report submission workflow around it.
package service

import (
	"github.com/healthshield-server/internal/domain"
)

// Scoring constants. Thresholds are fixed, not configurable.
const (
	// minMatchPercentage is the inclusion threshold: diseases matching
	// below this fraction of their symptom set are excluded entirely.
	minMatchPercentage = 30.0

	// Risk tier cutoffs on the aggregate score.
	highRiskThreshold   = 15.0
	mediumRiskThreshold = 8.0
)

// RiskScorer maps a submitted symptom set to matching diseases and an
// aggregate risk score. It is a pure function over an immutable catalog:
// no side effects, no shared mutable state, and it never fails.
type RiskScorer struct {
	catalog domain.Catalog
}

// NewRiskScorer creates a scorer over the given disease catalog. The
// catalog is injected so tests can score against synthetic definitions.
func NewRiskScorer(catalog domain.Catalog) *RiskScorer {
	return &RiskScorer{catalog: catalog}
}

// Score evaluates a symptom set against every disease in catalog order.
// For each disease the matched fraction of its symptom set is computed;
// diseases matching below the inclusion threshold contribute nothing.
// Matching diseases accumulate severity weighted by match fraction, and
// the total maps to a risk tier. An empty symptom set yields a low tier
// with a zero score and no matches.
func (s *RiskScorer) Score(symptoms []int) domain.AnalysisResult {
	submitted := make(map[int]bool, len(symptoms))
	for _, id := range symptoms {
		submitted[id] = true
	}

	matches := make([]domain.MatchResult, 0)
	totalScore := 0.0

	for _, disease := range s.catalog {
		matched := make([]int, 0, len(disease.Symptoms))
		for _, id := range disease.Symptoms {
			if submitted[id] {
				matched = append(matched, id)
			}
		}
		if len(matched) == 0 {
			continue
		}

		matchPercentage := float64(len(matched)) / float64(len(disease.Symptoms)) * 100
		if matchPercentage < minMatchPercentage {
			continue
		}

		matches = append(matches, domain.MatchResult{
			Disease:         disease,
			MatchPercentage: matchPercentage,
			MatchedSymptoms: matched,
		})
		totalScore += disease.Severity * (matchPercentage / 100)
	}

	return domain.AnalysisResult{
		RiskTier:         riskTierFor(totalScore),
		RiskScore:        totalScore,
		MatchingDiseases: matches,
	}
}

// riskTierFor maps an aggregate score to its tier.
func riskTierFor(score float64) domain.RiskTier {
	switch {
	case score >= highRiskThreshold:
		return domain.RiskHigh
	case score >= mediumRiskThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
