package dto

// SubmitFeedbackRequest is one expert's judgment on a candidate. The
// classification label and verdict enums are validated against the model
// package, not here, so the service layer owns the error taxonomy.
type SubmitFeedbackRequest struct {
	CandidateID              uint    `json:"candidate_id" validate:"required,gt=0"`
	ExpertClassification     string  `json:"expert_classification" validate:"required"`
	DetailedReasoning        string  `json:"detailed_reasoning" validate:"required"`
	ConfidenceScore          float64 `json:"confidence_score" validate:"gte=0,lte=1"`
	AgreesWithAI             *bool   `json:"agrees_with_ai"`
	SupportingDataReferences *string `json:"supporting_data_references"`
	MethodologyDescription   *string `json:"methodology_description"`
	TimeSpentOnAnalysis      *int    `json:"time_spent_on_analysis"`
	ToolsUsed                *string `json:"tools_used"`
}

type UpdateFeedbackRequest struct {
	ExpertClassification     *string  `json:"expert_classification"`
	DetailedReasoning        *string  `json:"detailed_reasoning"`
	ConfidenceScore          *float64 `json:"confidence_score" validate:"omitempty,gte=0,lte=1"`
	AgreesWithAI             *bool    `json:"agrees_with_ai"`
	SupportingDataReferences *string  `json:"supporting_data_references"`
	MethodologyDescription   *string  `json:"methodology_description"`
}

type ConsensusResponse struct {
	CandidateID             uint           `json:"candidate_id"`
	ConsensusScore          float64        `json:"consensus_score"`
	TotalFeedback           int            `json:"total_feedback"`
	AgreementRate           float64        `json:"agreement_rate"`
	ClassificationBreakdown map[string]int `json:"classification_breakdown"`
	AverageConfidence       float64        `json:"average_confidence"`
	WeightedTotal           float64        `json:"weighted_total"`
}

type ResearcherStatsResponse struct {
	ResearcherID            uint           `json:"researcher_id"`
	TotalFeedback           int            `json:"total_feedback"`
	AverageConfidence       float64        `json:"average_confidence"`
	ClassificationBreakdown map[string]int `json:"classification_breakdown"`
	AIAgreementRate         float64        `json:"ai_agreement_rate"`
}
