package service

import (
	"exoplanet-review/config"
	"exoplanet-review/internal/repository"
	"exoplanet-review/pkg/cache"
	"exoplanet-review/pkg/logger"
)

type Service struct {
	InferenceService  InferenceService
	FeedbackService   FeedbackService
	CandidateService  CandidateService
	SessionService    SessionService
	ReconcilerService ReconcilerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	classifier Classifier,
	c cache.Cache,
) *Service {
	return &Service{
		InferenceService:  NewInferenceService(cfg, log, repo.CandidateRepo, classifier),
		FeedbackService:   NewFeedbackService(cfg, log, repo, c),
		CandidateService:  NewCandidateService(cfg, log, repo),
		SessionService:    NewSessionService(cfg, log, repo),
		ReconcilerService: NewReconcilerService(cfg, log, repo.CandidateRepo),
	}
}
