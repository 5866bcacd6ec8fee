package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"exoplanet-review/config"
	"exoplanet-review/internal/dto"
	"exoplanet-review/internal/model"
	"exoplanet-review/internal/repository"
	"exoplanet-review/pkg/cache"
	"exoplanet-review/pkg/logger"
)

const consensusCacheKeyFmt = "consensus:candidate:%d"

type FeedbackService interface {
	SubmitFeedback(ctx context.Context, researcherID uint, req *dto.SubmitFeedbackRequest) (*model.ResearcherFeedback, error)
	GetFeedback(ctx context.Context, feedbackID uint) (*model.ResearcherFeedback, error)
	GetCandidateFeedback(ctx context.Context, candidateID uint) ([]model.ResearcherFeedback, error)
	UpdateFeedback(ctx context.Context, researcherID, feedbackID uint, req *dto.UpdateFeedbackRequest) (*model.ResearcherFeedback, error)
	DeleteFeedback(ctx context.Context, researcherID, feedbackID uint) error
	GetConsensus(ctx context.Context, candidateID uint) (*dto.ConsensusResponse, error)
	GetResearcherStats(ctx context.Context, researcherID uint) (*dto.ResearcherStatsResponse, error)
}

type feedbackService struct {
	cfg           *config.Config
	log           *logger.Logger
	candidateRepo repository.CandidateRepository
	feedbackRepo  repository.FeedbackRepository
	userRepo      repository.UserRepository
	cache         cache.Cache
	consensusSF   singleflight.Group
}

func NewFeedbackService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	c cache.Cache,
) FeedbackService {
	return &feedbackService{
		cfg:           cfg,
		log:           log,
		candidateRepo: repo.CandidateRepo,
		feedbackRepo:  repo.FeedbackRepo,
		userRepo:      repo.UserRepo,
		cache:         c,
	}
}

func (s *feedbackService) SubmitFeedback(ctx context.Context, researcherID uint, req *dto.SubmitFeedbackRequest) (*model.ResearcherFeedback, error) {
	classification, ok := model.ParseExpertClassification(req.ExpertClassification)
	if !ok {
		return nil, model.ErrUnknownClassification
	}

	candidate, err := s.candidateRepo.GetByID(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, model.ErrCandidateNotFound
	}

	user, err := s.userRepo.GetByID(ctx, researcherID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	exists, err := s.feedbackRepo.ExistsForCandidateAndResearcher(ctx, req.CandidateID, researcherID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrDuplicateFeedback
	}

	// The weight is derived from the role and the feedback count at submission
	// time, then frozen onto the row.
	priorCount, err := s.feedbackRepo.CountByResearcher(ctx, researcherID)
	if err != nil {
		return nil, err
	}

	feedback := &model.ResearcherFeedback{
		CandidateID:              req.CandidateID,
		ResearcherID:             researcherID,
		AgreesWithAI:             req.AgreesWithAI,
		ExpertClassification:     classification,
		DetailedReasoning:        req.DetailedReasoning,
		ConfidenceScore:          req.ConfidenceScore,
		SupportingDataReferences: req.SupportingDataReferences,
		MethodologyDescription:   req.MethodologyDescription,
		FeedbackWeight:           ComputeFeedbackWeight(user.Role, priorCount),
		TimeSpentOnAnalysis:      req.TimeSpentOnAnalysis,
		ToolsUsed:                req.ToolsUsed,
	}

	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, err
	}

	s.invalidateConsensus(req.CandidateID)
	s.log.InfoContext(ctx, "Feedback submitted",
		logger.IntField("candidate_id", int(req.CandidateID)),
		logger.IntField("researcher_id", int(researcherID)),
		logger.StringField("classification", string(classification)),
		logger.Field("weight", feedback.FeedbackWeight),
	)
	return feedback, nil
}

func (s *feedbackService) GetFeedback(ctx context.Context, feedbackID uint) (*model.ResearcherFeedback, error) {
	feedback, err := s.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if feedback == nil {
		return nil, model.ErrFeedbackNotFound
	}
	return feedback, nil
}

func (s *feedbackService) GetCandidateFeedback(ctx context.Context, candidateID uint) ([]model.ResearcherFeedback, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, model.ErrCandidateNotFound
	}
	return s.feedbackRepo.GetByCandidate(ctx, candidateID)
}

func (s *feedbackService) UpdateFeedback(ctx context.Context, researcherID, feedbackID uint, req *dto.UpdateFeedbackRequest) (*model.ResearcherFeedback, error) {
	feedback, err := s.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if feedback == nil {
		return nil, model.ErrFeedbackNotFound
	}
	if feedback.ResearcherID != researcherID {
		return nil, model.ErrNotFeedbackAuthor
	}

	if req.ExpertClassification != nil {
		classification, ok := model.ParseExpertClassification(*req.ExpertClassification)
		if !ok {
			return nil, model.ErrUnknownClassification
		}
		feedback.ExpertClassification = classification
	}
	if req.DetailedReasoning != nil {
		feedback.DetailedReasoning = *req.DetailedReasoning
	}
	if req.ConfidenceScore != nil {
		feedback.ConfidenceScore = *req.ConfidenceScore
	}
	if req.AgreesWithAI != nil {
		feedback.AgreesWithAI = req.AgreesWithAI
	}
	if req.SupportingDataReferences != nil {
		feedback.SupportingDataReferences = req.SupportingDataReferences
	}
	if req.MethodologyDescription != nil {
		feedback.MethodologyDescription = req.MethodologyDescription
	}

	// FeedbackWeight deliberately untouched: edits never reweigh.
	if err := s.feedbackRepo.Update(ctx, feedback); err != nil {
		return nil, err
	}

	s.invalidateConsensus(feedback.CandidateID)
	return feedback, nil
}

func (s *feedbackService) DeleteFeedback(ctx context.Context, researcherID, feedbackID uint) error {
	feedback, err := s.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		return err
	}
	if feedback == nil {
		return model.ErrFeedbackNotFound
	}
	if feedback.ResearcherID != researcherID {
		return model.ErrNotFeedbackAuthor
	}

	if err := s.feedbackRepo.Delete(ctx, feedbackID); err != nil {
		return err
	}

	s.invalidateConsensus(feedback.CandidateID)
	return nil
}

// GetConsensus recomputes the candidate's consensus from all stored feedback
// and persists the score back onto the candidate row. Concurrent requests for
// the same candidate collapse into a single computation.
func (s *feedbackService) GetConsensus(ctx context.Context, candidateID uint) (*dto.ConsensusResponse, error) {
	cacheKey := fmt.Sprintf(consensusCacheKeyFmt, candidateID)
	if cached, ok := cache.GetFromCache[*dto.ConsensusResponse](cacheKey); ok {
		return cached, nil
	}

	result, err, _ := s.consensusSF.Do(cacheKey, func() (interface{}, error) {
		candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
		if err != nil {
			return nil, err
		}
		if candidate == nil {
			return nil, model.ErrCandidateNotFound
		}

		entries, err := s.feedbackRepo.GetByCandidate(ctx, candidateID)
		if err != nil {
			return nil, err
		}

		consensus := ComputeConsensus(entries)
		if err := s.candidateRepo.UpdateConsensusScore(ctx, candidateID, consensus.Score); err != nil {
			s.log.ErrorContext(ctx, "Failed to persist consensus score",
				logger.IntField("candidate_id", int(candidateID)),
				logger.ErrorField(err),
			)
		}

		resp := &dto.ConsensusResponse{
			CandidateID:             candidateID,
			ConsensusScore:          consensus.Score,
			TotalFeedback:           consensus.TotalFeedback,
			AgreementRate:           consensus.AgreementRate,
			ClassificationBreakdown: consensus.ClassificationBreakdown,
			AverageConfidence:       consensus.AverageConfidence,
			WeightedTotal:           consensus.WeightedTotal,
		}
		s.cache.Set(cacheKey, resp, s.cfg.Cache.DefaultExpiration)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*dto.ConsensusResponse), nil
}

func (s *feedbackService) GetResearcherStats(ctx context.Context, researcherID uint) (*dto.ResearcherStatsResponse, error) {
	user, err := s.userRepo.GetByID(ctx, researcherID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	entries, err := s.feedbackRepo.GetByResearcher(ctx, researcherID, 0, 0)
	if err != nil {
		return nil, err
	}

	stats := &dto.ResearcherStatsResponse{
		ResearcherID:            researcherID,
		TotalFeedback:           len(entries),
		ClassificationBreakdown: map[string]int{},
	}
	if len(entries) == 0 {
		return stats, nil
	}

	var confidenceSum float64
	agreements := 0
	for _, entry := range entries {
		confidenceSum += entry.ConfidenceScore
		stats.ClassificationBreakdown[string(entry.ExpertClassification)]++
		if entry.AgreesWithAI != nil && *entry.AgreesWithAI {
			agreements++
		}
	}
	stats.AverageConfidence = confidenceSum / float64(len(entries))
	stats.AIAgreementRate = float64(agreements) / float64(len(entries))
	return stats, nil
}

func (s *feedbackService) invalidateConsensus(candidateID uint) {
	s.cache.Delete(fmt.Sprintf(consensusCacheKeyFmt, candidateID))
}
