package dto

import "time"

// PredictionResponse acknowledges an inference trigger. Prediction is the
// stored label for already completed records, or "PROCESSING" while the
// classification runs out of the request path.
type PredictionResponse struct {
	CandidateID       uint      `json:"candidate_id"`
	Prediction        string    `json:"prediction"`
	ConfidenceScore   float64   `json:"confidence_score"`
	AnalysisTimestamp time.Time `json:"analysis_timestamp"`
}

type BatchPredictionRequest struct {
	CandidateIDs []uint `json:"candidate_ids" validate:"required,min=1,dive,gt=0"`
}

type BatchPredictionResponse struct {
	QueuedCount      int `json:"queued_count"`
	AlreadyDoneCount int `json:"already_done_count"`
	TotalCount       int `json:"total_count"`
}

type VerdictRequest struct {
	Verdict string `json:"verdict" validate:"required"`
}

type VerdictResponse struct {
	CandidateID    uint    `json:"candidate_id"`
	FinalVerdict   string  `json:"final_verdict"`
	ConsensusScore float64 `json:"consensus_score"`
}

type CSVUploadResponse struct {
	UploadID          string   `json:"upload_id"`
	Filename          string   `json:"filename"`
	CandidatesCreated int      `json:"candidates_created"`
	Warnings          []string `json:"warnings,omitempty"`
}
