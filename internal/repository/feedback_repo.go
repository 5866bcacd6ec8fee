package repository

import (
	"context"

	"gorm.io/gorm"

	"exoplanet-review/internal/model"
	"exoplanet-review/pkg/utils"
)

type FeedbackRepository interface {
	GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.ResearcherFeedback, error)
	GetByCandidate(ctx context.Context, candidateID uint) ([]model.ResearcherFeedback, error)
	GetByResearcher(ctx context.Context, researcherID uint, offset, limit int) ([]model.ResearcherFeedback, error)
	CountByResearcher(ctx context.Context, researcherID uint) (int64, error)
	ExistsForCandidateAndResearcher(ctx context.Context, candidateID, researcherID uint) (bool, error)
	Create(ctx context.Context, feedback *model.ResearcherFeedback, opts ...utils.DBOption) error
	Update(ctx context.Context, feedback *model.ResearcherFeedback, opts ...utils.DBOption) error
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.ResearcherFeedback, error) {
	var feedback model.ResearcherFeedback
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	result := tx.Where("id = ?", id).First(&feedback)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &feedback, nil
}

func (r *feedbackRepository) GetByCandidate(ctx context.Context, candidateID uint) ([]model.ResearcherFeedback, error) {
	var entries []model.ResearcherFeedback
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("feedback_timestamp DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *feedbackRepository) GetByResearcher(ctx context.Context, researcherID uint, offset, limit int) ([]model.ResearcherFeedback, error) {
	query := r.db.WithContext(ctx).Where("researcher_id = ?", researcherID)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []model.ResearcherFeedback
	if err := query.Order("feedback_timestamp DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *feedbackRepository) CountByResearcher(ctx context.Context, researcherID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ResearcherFeedback{}).
		Where("researcher_id = ?", researcherID).
		Count(&count).Error
	return count, err
}

func (r *feedbackRepository) ExistsForCandidateAndResearcher(ctx context.Context, candidateID, researcherID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ResearcherFeedback{}).
		Where("candidate_id = ? AND researcher_id = ?", candidateID, researcherID).
		Count(&count).Error
	return count > 0, err
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.ResearcherFeedback, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Create(feedback).Error
}

func (r *feedbackRepository) Update(ctx context.Context, feedback *model.ResearcherFeedback, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Save(feedback).Error
}

func (r *feedbackRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Delete(&model.ResearcherFeedback{}, id).Error
}
