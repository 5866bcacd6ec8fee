package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"exoplanet-review/internal/model"
	"exoplanet-review/pkg/utils"
)

func TestComputeFeedbackWeight(t *testing.T) {
	tests := []struct {
		name       string
		role       model.UserRole
		priorCount int64
		want       float64
	}{
		{
			name:       "new researcher has base weight",
			role:       model.RoleResearcher,
			priorCount: 0,
			want:       1.0,
		},
		{
			name:       "new moderator has role bonus only",
			role:       model.RoleModerator,
			priorCount: 0,
			want:       1.2,
		},
		{
			name:       "new admin has role bonus only",
			role:       model.RoleAdmin,
			priorCount: 0,
			want:       1.5,
		},
		{
			name:       "experience grows weight linearly",
			role:       model.RoleResearcher,
			priorCount: 50,
			want:       1.5,
		},
		{
			name:       "experience multiplier caps at 2x",
			role:       model.RoleResearcher,
			priorCount: 150,
			want:       2.0,
		},
		{
			name:       "admin with capped experience",
			role:       model.RoleAdmin,
			priorCount: 500,
			want:       3.0,
		},
		{
			name:       "unknown role falls back to researcher base",
			role:       model.UserRole("intern"),
			priorCount: 10,
			want:       1.1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFeedbackWeight(tt.role, tt.priorCount)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestComputeConsensus(t *testing.T) {
	tests := []struct {
		name    string
		entries []model.ResearcherFeedback
		want    Consensus
	}{
		{
			name:    "no feedback yields zero values",
			entries: nil,
			want: Consensus{
				ClassificationBreakdown: map[string]int{},
			},
		},
		{
			name: "weighted score favors heavier voices",
			entries: []model.ResearcherFeedback{
				{
					ExpertClassification: model.ClassificationConfirmed,
					ConfidenceScore:      0.9,
					FeedbackWeight:       1.0,
					AgreesWithAI:         utils.ToPointer(true),
				},
				{
					ExpertClassification: model.ClassificationFalsePositive,
					ConfidenceScore:      0.5,
					FeedbackWeight:       2.0,
					AgreesWithAI:         utils.ToPointer(false),
				},
			},
			want: Consensus{
				Score:         (0.9*1.0 + 0.5*2.0) / 3.0,
				TotalFeedback: 2,
				AgreementRate: 0.5,
				ClassificationBreakdown: map[string]int{
					"CONFIRMED":      1,
					"FALSE_POSITIVE": 1,
				},
				AverageConfidence: 0.7,
				WeightedTotal:     3.0,
			},
		},
		{
			name: "unstated agreement counts in the denominator only",
			entries: []model.ResearcherFeedback{
				{
					ExpertClassification: model.ClassificationCandidate,
					ConfidenceScore:      0.8,
					FeedbackWeight:       1.0,
					AgreesWithAI:         utils.ToPointer(true),
				},
				{
					ExpertClassification: model.ClassificationCandidate,
					ConfidenceScore:      0.6,
					FeedbackWeight:       1.0,
					AgreesWithAI:         nil,
				},
			},
			want: Consensus{
				Score:         0.7,
				TotalFeedback: 2,
				AgreementRate: 0.5,
				ClassificationBreakdown: map[string]int{
					"CANDIDATE": 2,
				},
				AverageConfidence: 0.7,
				WeightedTotal:     2.0,
			},
		},
		{
			name: "single entry consensus equals its confidence",
			entries: []model.ResearcherFeedback{
				{
					ExpertClassification: model.ClassificationConfirmed,
					ConfidenceScore:      0.95,
					FeedbackWeight:       1.5,
					AgreesWithAI:         utils.ToPointer(true),
				},
			},
			want: Consensus{
				Score:         0.95,
				TotalFeedback: 1,
				AgreementRate: 1.0,
				ClassificationBreakdown: map[string]int{
					"CONFIRMED": 1,
				},
				AverageConfidence: 0.95,
				WeightedTotal:     1.5,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeConsensus(tt.entries)
			assert.InDelta(t, tt.want.Score, got.Score, 1e-9, "Score mismatch")
			assert.Equal(t, tt.want.TotalFeedback, got.TotalFeedback, "TotalFeedback mismatch")
			assert.InDelta(t, tt.want.AgreementRate, got.AgreementRate, 1e-9, "AgreementRate mismatch")
			assert.Equal(t, tt.want.ClassificationBreakdown, got.ClassificationBreakdown, "ClassificationBreakdown mismatch")
			assert.InDelta(t, tt.want.AverageConfidence, got.AverageConfidence, 1e-9, "AverageConfidence mismatch")
			assert.InDelta(t, tt.want.WeightedTotal, got.WeightedTotal, 1e-9, "WeightedTotal mismatch")
		})
	}
}
