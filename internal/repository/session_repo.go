package repository

import (
	"context"

	"gorm.io/gorm"

	"exoplanet-review/internal/model"
	"exoplanet-review/pkg/utils"
)

type SessionRepository interface {
	GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.AnalysisSession, error)
	GetByCandidate(ctx context.Context, candidateID uint) ([]model.AnalysisSession, error)
	GetByResearcher(ctx context.Context, researcherID uint, offset, limit int) ([]model.AnalysisSession, error)
	Create(ctx context.Context, session *model.AnalysisSession, opts ...utils.DBOption) error
	Update(ctx context.Context, session *model.AnalysisSession, opts ...utils.DBOption) error
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.AnalysisSession, error) {
	var session model.AnalysisSession
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	result := tx.Where("id = ?", id).First(&session)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &session, nil
}

func (r *sessionRepository) GetByCandidate(ctx context.Context, candidateID uint) ([]model.AnalysisSession, error) {
	var sessions []model.AnalysisSession
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("session_timestamp DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) GetByResearcher(ctx context.Context, researcherID uint, offset, limit int) ([]model.AnalysisSession, error) {
	query := r.db.WithContext(ctx).Where("researcher_id = ?", researcherID)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var sessions []model.AnalysisSession
	if err := query.Order("session_timestamp DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) Create(ctx context.Context, session *model.AnalysisSession, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Create(session).Error
}

func (r *sessionRepository) Update(ctx context.Context, session *model.AnalysisSession, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Save(session).Error
}

func (r *sessionRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Delete(&model.AnalysisSession{}, id).Error
}
