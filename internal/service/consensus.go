package service

import "exoplanet-review/internal/model"

// Role base weights and the experience multiplier cap. A senior expert tops
// out at 3.0x a baseline researcher (1.5 role cap x 2.0 experience cap).
const (
	baseWeightResearcher = 1.0
	baseWeightModerator  = 1.2
	baseWeightAdmin      = 1.5

	experienceStep = 0.01
	experienceCap  = 2.0
)

// Consensus aggregates every feedback entry for one candidate.
type Consensus struct {
	Score                   float64
	TotalFeedback           int
	AgreementRate           float64
	ClassificationBreakdown map[string]int
	AverageConfidence       float64
	WeightedTotal           float64
}

// ComputeConsensus combines independent role- and experience-weighted expert
// opinions into a single reproducible consensus. The score is the
// weight-normalized mean of confidence scores; the average confidence is the
// plain unweighted mean and is reported separately.
func ComputeConsensus(entries []model.ResearcherFeedback) Consensus {
	if len(entries) == 0 {
		return Consensus{ClassificationBreakdown: map[string]int{}}
	}

	var (
		totalWeight        float64
		weightedConfidence float64
		confidenceSum      float64
		agreements         int
	)
	breakdown := make(map[string]int)

	for _, entry := range entries {
		totalWeight += entry.FeedbackWeight
		weightedConfidence += entry.ConfidenceScore * entry.FeedbackWeight
		confidenceSum += entry.ConfidenceScore
		breakdown[string(entry.ExpertClassification)]++

		if entry.AgreesWithAI != nil && *entry.AgreesWithAI {
			agreements++
		}
	}

	score := 0.0
	if totalWeight > 0 {
		score = weightedConfidence / totalWeight
	}

	return Consensus{
		Score:                   score,
		TotalFeedback:           len(entries),
		AgreementRate:           float64(agreements) / float64(len(entries)),
		ClassificationBreakdown: breakdown,
		AverageConfidence:       confidenceSum / float64(len(entries)),
		WeightedTotal:           totalWeight,
	}
}

// ComputeFeedbackWeight derives an expert's influence from role and track
// record. priorCount excludes the entry being created; the weight is frozen
// onto the entry and never recomputed as the expert's experience grows.
func ComputeFeedbackWeight(role model.UserRole, priorCount int64) float64 {
	base := baseWeightResearcher
	switch role {
	case model.RoleModerator:
		base = baseWeightModerator
	case model.RoleAdmin:
		base = baseWeightAdmin
	}

	multiplier := 1.0 + float64(priorCount)*experienceStep
	if multiplier > experienceCap {
		multiplier = experienceCap
	}
	return base * multiplier
}
