package service

import (
	"context"

	"exoplanet-review/config"
	"exoplanet-review/internal/dto"
	"exoplanet-review/internal/model"
	"exoplanet-review/internal/repository"
	"exoplanet-review/pkg/logger"
)

type SessionService interface {
	CreateSession(ctx context.Context, researcherID uint, req *dto.CreateSessionRequest) (*model.AnalysisSession, error)
	GetSession(ctx context.Context, sessionID uint) (*model.AnalysisSession, error)
	GetCandidateSessions(ctx context.Context, candidateID uint) ([]model.AnalysisSession, error)
	UpdateSession(ctx context.Context, researcherID, sessionID uint, req *dto.UpdateSessionRequest) (*model.AnalysisSession, error)
	DeleteSession(ctx context.Context, researcherID, sessionID uint) error
}

// sessionService records researchers' working sessions on candidates.
// Sessions are free-form notes, not votes: they never feed the consensus.
type sessionService struct {
	cfg           *config.Config
	log           *logger.Logger
	candidateRepo repository.CandidateRepository
	sessionRepo   repository.SessionRepository
}

func NewSessionService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
) SessionService {
	return &sessionService{
		cfg:           cfg,
		log:           log,
		candidateRepo: repo.CandidateRepo,
		sessionRepo:   repo.SessionRepo,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, researcherID uint, req *dto.CreateSessionRequest) (*model.AnalysisSession, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, model.ErrCandidateNotFound
	}

	session := &model.AnalysisSession{
		CandidateID:     req.CandidateID,
		ResearcherID:    researcherID,
		MethodologyUsed: req.MethodologyUsed,
		AnalysisNotes:   req.AnalysisNotes,
		KeyObservations: req.KeyObservations,
		ConcernsRaised:  req.ConcernsRaised,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Analysis session started",
		logger.IntField("session_id", int(session.ID)),
		logger.IntField("candidate_id", int(req.CandidateID)),
		logger.IntField("researcher_id", int(researcherID)),
	)
	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, sessionID uint) (*model.AnalysisSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionService) GetCandidateSessions(ctx context.Context, candidateID uint) ([]model.AnalysisSession, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, model.ErrCandidateNotFound
	}
	return s.sessionRepo.GetByCandidate(ctx, candidateID)
}

func (s *sessionService) UpdateSession(ctx context.Context, researcherID, sessionID uint, req *dto.UpdateSessionRequest) (*model.AnalysisSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, model.ErrSessionNotFound
	}
	if session.ResearcherID != researcherID {
		return nil, model.ErrNotSessionAuthor
	}

	if req.ResearcherVerdict != nil {
		if _, ok := model.ParseExpertClassification(*req.ResearcherVerdict); !ok {
			return nil, model.ErrUnknownClassification
		}
		session.ResearcherVerdict = req.ResearcherVerdict
	}
	if req.ConfidenceLevel != nil {
		session.ConfidenceLevel = req.ConfidenceLevel
	}
	if req.MethodologyUsed != nil {
		session.MethodologyUsed = req.MethodologyUsed
	}
	if req.AnalysisNotes != nil {
		session.AnalysisNotes = req.AnalysisNotes
	}
	if req.KeyObservations != nil {
		session.KeyObservations = req.KeyObservations
	}
	if req.ConcernsRaised != nil {
		session.ConcernsRaised = req.ConcernsRaised
	}
	if req.TimeSpentAnalyzing != nil {
		session.TimeSpentAnalyzing = *req.TimeSpentAnalyzing
	}
	if req.SessionCompleted != nil {
		session.SessionCompleted = *req.SessionCompleted
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) DeleteSession(ctx context.Context, researcherID, sessionID uint) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return model.ErrSessionNotFound
	}
	if session.ResearcherID != researcherID {
		return model.ErrNotSessionAuthor
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}
