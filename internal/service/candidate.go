package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"exoplanet-review/config"
	"exoplanet-review/internal/dto"
	"exoplanet-review/internal/ingest"
	"exoplanet-review/internal/model"
	"exoplanet-review/internal/repository"
	"exoplanet-review/pkg/logger"
	"exoplanet-review/pkg/utils"
)

type CandidateService interface {
	GetCandidate(ctx context.Context, id uint) (*model.ExoplanetCandidate, error)
	ListCandidates(ctx context.Context, param model.ListCandidatesParam) ([]model.ExoplanetCandidate, error)
	DeleteCandidate(ctx context.Context, id uint) error
	SetFinalVerdict(ctx context.Context, id uint, verdict string) (*dto.VerdictResponse, error)
	UploadCSV(ctx context.Context, researcherID uint, filename string, r io.Reader) (*dto.CSVUploadResponse, error)
	MaxUploadBytes() int64
}

type candidateService struct {
	cfg           *config.Config
	log           *logger.Logger
	candidateRepo repository.CandidateRepository
	feedbackRepo  repository.FeedbackRepository
	unitOfWork    repository.UnitOfWork
}

func NewCandidateService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
) CandidateService {
	return &candidateService{
		cfg:           cfg,
		log:           log,
		candidateRepo: repo.CandidateRepo,
		feedbackRepo:  repo.FeedbackRepo,
		unitOfWork:    repo.UnitOfWork,
	}
}

func (s *candidateService) GetCandidate(ctx context.Context, id uint) (*model.ExoplanetCandidate, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, model.ErrCandidateNotFound
	}
	return candidate, nil
}

func (s *candidateService) ListCandidates(ctx context.Context, param model.ListCandidatesParam) ([]model.ExoplanetCandidate, error) {
	return s.candidateRepo.List(ctx, param)
}

func (s *candidateService) DeleteCandidate(ctx context.Context, id uint) error {
	candidate, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if candidate == nil {
		return model.ErrCandidateNotFound
	}
	return s.candidateRepo.Delete(ctx, id)
}

// SetFinalVerdict records the reviewer's decision and returns it alongside the
// freshly recomputed consensus score.
func (s *candidateService) SetFinalVerdict(ctx context.Context, id uint, verdict string) (*dto.VerdictResponse, error) {
	parsed, ok := model.ParseFinalVerdict(verdict)
	if !ok {
		return nil, model.ErrUnknownVerdict
	}

	candidate, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, model.ErrCandidateNotFound
	}

	entries, err := s.feedbackRepo.GetByCandidate(ctx, id)
	if err != nil {
		return nil, err
	}
	consensus := ComputeConsensus(entries)

	// Verdict and the consensus snapshot land together or not at all.
	err = s.unitOfWork.Run(func(opts ...utils.DBOption) error {
		if err := s.candidateRepo.UpdateFinalVerdict(ctx, id, parsed, opts...); err != nil {
			return err
		}
		return s.candidateRepo.UpdateConsensusScore(ctx, id, consensus.Score, opts...)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Final verdict recorded",
		logger.IntField("candidate_id", int(id)),
		logger.StringField("verdict", string(parsed)),
		logger.Field("consensus_score", consensus.Score),
	)

	return &dto.VerdictResponse{
		CandidateID:    id,
		FinalVerdict:   string(parsed),
		ConsensusScore: consensus.Score,
	}, nil
}

// UploadCSV parses and validates a KOI export, then bulk-inserts one pending
// candidate per row. A structurally invalid file creates nothing.
func (s *candidateService) UploadCSV(ctx context.Context, researcherID uint, filename string, r io.Reader) (*dto.CSVUploadResponse, error) {
	dataset, report, err := ingest.ParseCSV(r)
	if err != nil {
		return nil, err
	}
	if !report.Valid {
		return nil, errors.Wrapf(model.ErrBadParameter, "CSV validation failed: %v", report.Errors)
	}

	candidates := dataset.ToCandidates(filename, researcherID)
	if err := s.candidateRepo.CreateBulk(ctx, candidates); err != nil {
		return nil, err
	}

	uploadID := uuid.NewString()
	s.log.InfoContext(ctx, "CSV upload ingested",
		logger.StringField("upload_id", uploadID),
		logger.StringField("filename", filename),
		logger.IntField("researcher_id", int(researcherID)),
		logger.IntField("rows", len(candidates)),
		logger.IntField("warnings", len(report.Warnings)),
	)

	return &dto.CSVUploadResponse{
		UploadID:          uploadID,
		Filename:          filename,
		CandidatesCreated: len(candidates),
		Warnings:          report.Warnings,
	}, nil
}

func (s *candidateService) MaxUploadBytes() int64 {
	return s.cfg.Upload.MaxFileSizeBytes
}
