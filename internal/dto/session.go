package dto

type CreateSessionRequest struct {
	CandidateID     uint    `json:"candidate_id" validate:"required,gt=0"`
	MethodologyUsed *string `json:"methodology_used"`
	AnalysisNotes   *string `json:"analysis_notes"`
	KeyObservations *string `json:"key_observations"`
	ConcernsRaised  *string `json:"concerns_raised"`
}

type UpdateSessionRequest struct {
	ResearcherVerdict  *string  `json:"researcher_verdict"`
	ConfidenceLevel    *float64 `json:"confidence_level" validate:"omitempty,gte=0,lte=1"`
	MethodologyUsed    *string  `json:"methodology_used"`
	AnalysisNotes      *string  `json:"analysis_notes"`
	KeyObservations    *string  `json:"key_observations"`
	ConcernsRaised     *string  `json:"concerns_raised"`
	TimeSpentAnalyzing *int     `json:"time_spent_analyzing" validate:"omitempty,gte=0"`
	SessionCompleted   *bool    `json:"session_completed"`
}
