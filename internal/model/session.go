package model

import "time"

// AnalysisSession is one researcher's recorded working session on a
// candidate: how long they spent, what methodology they used, and the
// verdict they reached, if any. Sessions accumulate; a candidate can hold
// many per researcher.
type AnalysisSession struct {
	ID           uint `gorm:"primarykey" json:"id"`
	CandidateID  uint `gorm:"not null;index" json:"candidate_id"`
	ResearcherID uint `gorm:"not null;index" json:"researcher_id"`

	SessionTimestamp time.Time `gorm:"autoCreateTime" json:"session_timestamp"`

	TimeSpentAnalyzing int      `gorm:"default:0" json:"time_spent_analyzing"`
	ResearcherVerdict  *string  `gorm:"type:varchar(50)" json:"researcher_verdict"`
	ConfidenceLevel    *float64 `json:"confidence_level"`

	MethodologyUsed *string `gorm:"type:varchar(200)" json:"methodology_used"`
	AnalysisNotes   *string `gorm:"type:text" json:"analysis_notes"`
	KeyObservations *string `gorm:"type:text" json:"key_observations"`
	ConcernsRaised  *string `gorm:"type:text" json:"concerns_raised"`

	SessionCompleted bool `gorm:"default:false" json:"session_completed"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AnalysisSession) TableName() string {
	return "analysis_sessions"
}
