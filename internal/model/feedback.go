package model

import "time"

type ExpertClassification string

const (
	ClassificationConfirmed     ExpertClassification = "CONFIRMED"
	ClassificationFalsePositive ExpertClassification = "FALSE_POSITIVE"
	ClassificationCandidate     ExpertClassification = "CANDIDATE"
)

func ParseExpertClassification(s string) (ExpertClassification, bool) {
	switch ExpertClassification(s) {
	case ClassificationConfirmed, ClassificationFalsePositive, ClassificationCandidate:
		return ExpertClassification(s), true
	}
	return "", false
}

// ResearcherFeedback is one expert's independent judgment on a candidate.
// FeedbackWeight is frozen at creation time and never recomputed on edit.
type ResearcherFeedback struct {
	ID           uint `gorm:"primarykey" json:"id"`
	CandidateID  uint `gorm:"not null;uniqueIndex:idx_feedback_candidate_researcher" json:"candidate_id"`
	ResearcherID uint `gorm:"not null;uniqueIndex:idx_feedback_candidate_researcher" json:"researcher_id"`

	FeedbackTimestamp time.Time `gorm:"autoCreateTime" json:"feedback_timestamp"`

	AgreesWithAI         *bool                `gorm:"column:agrees_with_ai" json:"agrees_with_ai"`
	ExpertClassification ExpertClassification `gorm:"type:varchar(50);not null" json:"expert_classification"`
	DetailedReasoning    string               `gorm:"type:text;not null" json:"detailed_reasoning"`
	ConfidenceScore      float64              `gorm:"not null" json:"confidence_score"`

	SupportingDataReferences *string `gorm:"type:text" json:"supporting_data_references"`
	MethodologyDescription   *string `gorm:"type:text" json:"methodology_description"`

	FeedbackWeight   float64 `gorm:"default:1" json:"feedback_weight"`
	PeerReviewStatus string  `gorm:"type:varchar(20);default:pending" json:"peer_review_status"`

	TimeSpentOnAnalysis *int    `json:"time_spent_on_analysis"`
	ToolsUsed           *string `gorm:"type:text" json:"tools_used"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ResearcherFeedback) TableName() string {
	return "researcher_feedback"
}
