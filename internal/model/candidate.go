package model

import (
	"time"

	"gorm.io/datatypes"
)

type AnalysisStatus string

const (
	AnalysisStatusPending    AnalysisStatus = "pending"
	AnalysisStatusProcessing AnalysisStatus = "processing"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusError      AnalysisStatus = "error"
)

type FinalVerdict string

const (
	VerdictPending       FinalVerdict = "pending"
	VerdictConfirmed     FinalVerdict = "confirmed"
	VerdictFalsePositive FinalVerdict = "false_positive"
	VerdictCandidate     FinalVerdict = "candidate"
)

func ParseFinalVerdict(s string) (FinalVerdict, bool) {
	switch FinalVerdict(s) {
	case VerdictPending, VerdictConfirmed, VerdictFalsePositive, VerdictCandidate:
		return FinalVerdict(s), true
	}
	return "", false
}

// ExoplanetCandidate is one uploaded KOI measurement row under review.
type ExoplanetCandidate struct {
	ID uint `gorm:"primarykey" json:"id"`

	OriginalCSVFilename string    `gorm:"column:original_csv_filename;type:varchar(255);not null" json:"original_csv_filename"`
	UploadTimestamp     time.Time `gorm:"autoCreateTime" json:"upload_timestamp"`
	ResearcherID        uint      `gorm:"not null" json:"researcher_id"`

	AnalysisStatus AnalysisStatus `gorm:"type:varchar(20);default:pending" json:"analysis_status"`
	FinalVerdict   FinalVerdict   `gorm:"type:varchar(20);default:pending" json:"final_verdict"`
	ConsensusScore float64        `gorm:"default:0" json:"consensus_score"`

	AIPrediction      *string  `gorm:"column:ai_prediction;type:varchar(50)" json:"ai_prediction"`
	AIConfidenceScore *float64 `gorm:"column:ai_confidence_score" json:"ai_confidence_score"`

	// Core identification
	KepID      *int64  `gorm:"column:kepid;index" json:"kepid"`
	KepoiName  *string `gorm:"type:varchar(20)" json:"kepoi_name"`
	KeplerName *string `gorm:"type:varchar(20)" json:"kepler_name"`

	// Orbital parameters
	KoiPeriod      *float64 `json:"koi_period"`
	KoiPeriodErr1  *float64 `json:"koi_period_err1"`
	KoiPeriodErr2  *float64 `json:"koi_period_err2"`
	KoiTime0bk     *float64 `gorm:"column:koi_time0bk" json:"koi_time0bk"`
	KoiTime0bkErr1 *float64 `gorm:"column:koi_time0bk_err1" json:"koi_time0bk_err1"`
	KoiTime0bkErr2 *float64 `gorm:"column:koi_time0bk_err2" json:"koi_time0bk_err2"`

	// Transit parameters
	KoiImpact       *float64 `json:"koi_impact"`
	KoiImpactErr1   *float64 `json:"koi_impact_err1"`
	KoiImpactErr2   *float64 `json:"koi_impact_err2"`
	KoiDuration     *float64 `json:"koi_duration"`
	KoiDurationErr1 *float64 `json:"koi_duration_err1"`
	KoiDurationErr2 *float64 `json:"koi_duration_err2"`
	KoiDepth        *float64 `json:"koi_depth"`
	KoiDepthErr1    *float64 `json:"koi_depth_err1"`
	KoiDepthErr2    *float64 `json:"koi_depth_err2"`

	// False-positive flags
	KoiFpflagNt *float64 `gorm:"column:koi_fpflag_nt" json:"koi_fpflag_nt"`
	KoiFpflagSs *float64 `gorm:"column:koi_fpflag_ss" json:"koi_fpflag_ss"`
	KoiFpflagCo *float64 `gorm:"column:koi_fpflag_co" json:"koi_fpflag_co"`
	KoiFpflagEc *float64 `gorm:"column:koi_fpflag_ec" json:"koi_fpflag_ec"`

	// Planet properties
	KoiPrad     *float64 `json:"koi_prad"`
	KoiPradErr1 *float64 `json:"koi_prad_err1"`
	KoiPradErr2 *float64 `json:"koi_prad_err2"`
	KoiTeq      *float64 `json:"koi_teq"`
	KoiTeqErr1  *float64 `json:"koi_teq_err1"`
	KoiTeqErr2  *float64 `json:"koi_teq_err2"`

	// Insolation flux
	KoiInsol     *float64 `json:"koi_insol"`
	KoiInsolErr1 *float64 `json:"koi_insol_err1"`
	KoiInsolErr2 *float64 `json:"koi_insol_err2"`

	// Model parameters
	KoiModelSnr   *float64 `gorm:"column:koi_model_snr" json:"koi_model_snr"`
	KoiTcePlntNum *float64 `gorm:"column:koi_tce_plnt_num" json:"koi_tce_plnt_num"`

	// Stellar parameters
	KoiSteff     *float64 `json:"koi_steff"`
	KoiSteffErr1 *float64 `json:"koi_steff_err1"`
	KoiSteffErr2 *float64 `json:"koi_steff_err2"`
	KoiSlogg     *float64 `json:"koi_slogg"`
	KoiSloggErr1 *float64 `json:"koi_slogg_err1"`
	KoiSloggErr2 *float64 `json:"koi_slogg_err2"`
	KoiSrad      *float64 `json:"koi_srad"`
	KoiSradErr1  *float64 `json:"koi_srad_err1"`
	KoiSradErr2  *float64 `json:"koi_srad_err2"`

	// Sky coordinates and magnitude
	Ra        *float64 `json:"ra"`
	Dec       *float64 `json:"dec"`
	KoiKepmag *float64 `json:"koi_kepmag"`

	// Archive dispositions
	KoiDisposition  *string  `gorm:"type:varchar(20)" json:"koi_disposition"`
	KoiPdisposition *string  `gorm:"type:varchar(20)" json:"koi_pdisposition"`
	KoiScore        *float64 `json:"koi_score"`

	AnalysisNotes *string        `gorm:"type:text" json:"analysis_notes"`
	QualityFlags  datatypes.JSON `gorm:"type:jsonb" json:"quality_flags"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	FeedbackEntries []ResearcherFeedback `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ExoplanetCandidate) TableName() string {
	return "exoplanet_candidates"
}

// FeatureValues maps model feature column names to the candidate's stored
// measurements. Keys follow the KOI archive column naming used by the classifier.
func (c *ExoplanetCandidate) FeatureValues() map[string]*float64 {
	return map[string]*float64{
		"koi_score":        c.KoiScore,
		"koi_fpflag_nt":    c.KoiFpflagNt,
		"koi_fpflag_ss":    c.KoiFpflagSs,
		"koi_fpflag_co":    c.KoiFpflagCo,
		"koi_fpflag_ec":    c.KoiFpflagEc,
		"koi_period":       c.KoiPeriod,
		"koi_time0bk":      c.KoiTime0bk,
		"koi_impact":       c.KoiImpact,
		"koi_duration":     c.KoiDuration,
		"koi_depth":        c.KoiDepth,
		"koi_prad":         c.KoiPrad,
		"koi_teq":          c.KoiTeq,
		"koi_insol":        c.KoiInsol,
		"koi_model_snr":    c.KoiModelSnr,
		"koi_tce_plnt_num": c.KoiTcePlntNum,
		"koi_steff":        c.KoiSteff,
		"koi_slogg":        c.KoiSlogg,
		"koi_srad":         c.KoiSrad,
		"ra":               c.Ra,
		"dec":              c.Dec,
		"koi_kepmag":       c.KoiKepmag,
	}
}

type ListCandidatesParam struct {
	Status       *AnalysisStatus
	Verdict      *FinalVerdict
	ResearcherID *uint
	Offset       int
	Limit        int
}
