package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"exoplanet-review/internal/model"
	"exoplanet-review/pkg/utils"
)

type CandidateRepository interface {
	GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.ExoplanetCandidate, error)
	GetByIDs(ctx context.Context, ids []uint) ([]model.ExoplanetCandidate, error)
	List(ctx context.Context, param model.ListCandidatesParam) ([]model.ExoplanetCandidate, error)
	CreateBulk(ctx context.Context, candidates []model.ExoplanetCandidate, opts ...utils.DBOption) error
	UpdateAnalysisStatus(ctx context.Context, id uint, status model.AnalysisStatus, opts ...utils.DBOption) error
	UpdateStatusBulk(ctx context.Context, ids []uint, status model.AnalysisStatus) error
	UpdateAIPrediction(ctx context.Context, id uint, prediction string, confidence float64) error
	UpdateConsensusScore(ctx context.Context, id uint, score float64, opts ...utils.DBOption) error
	UpdateFinalVerdict(ctx context.Context, id uint, verdict model.FinalVerdict, opts ...utils.DBOption) error
	FindStaleProcessing(ctx context.Context, olderThan time.Time, limit int) ([]model.ExoplanetCandidate, error)
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.ExoplanetCandidate, error) {
	var candidate model.ExoplanetCandidate
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	result := tx.Where("id = ?", id).First(&candidate)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &candidate, nil
}

func (r *candidateRepository) GetByIDs(ctx context.Context, ids []uint) ([]model.ExoplanetCandidate, error) {
	var candidates []model.ExoplanetCandidate
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *candidateRepository) List(ctx context.Context, param model.ListCandidatesParam) ([]model.ExoplanetCandidate, error) {
	query := r.db.WithContext(ctx).Model(&model.ExoplanetCandidate{})

	if param.Status != nil {
		query = query.Where("analysis_status = ?", *param.Status)
	}
	if param.Verdict != nil {
		query = query.Where("final_verdict = ?", *param.Verdict)
	}
	if param.ResearcherID != nil {
		query = query.Where("researcher_id = ?", *param.ResearcherID)
	}
	if param.Offset > 0 {
		query = query.Offset(param.Offset)
	}
	if param.Limit > 0 {
		query = query.Limit(param.Limit)
	}

	var candidates []model.ExoplanetCandidate
	if err := query.Order("id ASC").Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *candidateRepository) CreateBulk(ctx context.Context, candidates []model.ExoplanetCandidate, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.CreateInBatches(candidates, 100).Error
}

func (r *candidateRepository) UpdateAnalysisStatus(ctx context.Context, id uint, status model.AnalysisStatus, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Model(&model.ExoplanetCandidate{}).
		Where("id = ?", id).
		Update("analysis_status", status).Error
}

func (r *candidateRepository) UpdateStatusBulk(ctx context.Context, ids []uint, status model.AnalysisStatus) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.ExoplanetCandidate{}).
		Where("id IN ?", ids).
		Update("analysis_status", status).Error
}

func (r *candidateRepository) UpdateAIPrediction(ctx context.Context, id uint, prediction string, confidence float64) error {
	return r.db.WithContext(ctx).Model(&model.ExoplanetCandidate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ai_prediction":       prediction,
			"ai_confidence_score": confidence,
			"analysis_status":     model.AnalysisStatusCompleted,
		}).Error
}

func (r *candidateRepository) UpdateConsensusScore(ctx context.Context, id uint, score float64, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Model(&model.ExoplanetCandidate{}).
		Where("id = ?", id).
		Update("consensus_score", score).Error
}

func (r *candidateRepository) UpdateFinalVerdict(ctx context.Context, id uint, verdict model.FinalVerdict, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Model(&model.ExoplanetCandidate{}).
		Where("id = ?", id).
		Update("final_verdict", verdict).Error
}

func (r *candidateRepository) FindStaleProcessing(ctx context.Context, olderThan time.Time, limit int) ([]model.ExoplanetCandidate, error) {
	query := r.db.WithContext(ctx).
		Where("analysis_status = ?", model.AnalysisStatusProcessing).
		Where("updated_at < ?", olderThan).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var candidates []model.ExoplanetCandidate
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *candidateRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Delete(&model.ExoplanetCandidate{}, id).Error
}
