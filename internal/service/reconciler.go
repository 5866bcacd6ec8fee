package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"exoplanet-review/config"
	"exoplanet-review/internal/model"
	"exoplanet-review/internal/repository"
	"exoplanet-review/pkg/logger"
)

// ReconcilerService sweeps records stuck in processing. A crash between the
// status flip and the background classification leaves the record processing
// forever; the sweep moves anything older than the staleness window to error
// so it can be retried.
type ReconcilerService interface {
	Start() error
	Stop()
	SweepStaleProcessing(ctx context.Context) (int, error)
}

type reconcilerService struct {
	cfg           *config.Config
	log           *logger.Logger
	candidateRepo repository.CandidateRepository
	cron          *cron.Cron
}

func NewReconcilerService(
	cfg *config.Config,
	log *logger.Logger,
	candidateRepo repository.CandidateRepository,
) ReconcilerService {
	return &reconcilerService{
		cfg:           cfg,
		log:           log,
		candidateRepo: candidateRepo,
		cron:          cron.New(),
	}
}

func (s *reconcilerService) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Inference.ReconcileCronExpr, func() {
		ctx := context.Background()
		swept, err := s.SweepStaleProcessing(ctx)
		if err != nil {
			s.log.ErrorContext(ctx, "Stale processing sweep failed", logger.ErrorField(err))
			return
		}
		if swept > 0 {
			s.log.InfoContext(ctx, "Swept stale processing candidates", logger.IntField("count", swept))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Reconciler started",
		logger.StringField("cron", s.cfg.Inference.ReconcileCronExpr),
		logger.StringField("stale_after", s.cfg.Inference.StaleAfter.String()),
	)
	return nil
}

func (s *reconcilerService) Stop() {
	s.cron.Stop()
}

func (s *reconcilerService) SweepStaleProcessing(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.cfg.Inference.StaleAfter)
	stale, err := s.candidateRepo.FindStaleProcessing(ctx, cutoff, s.cfg.Inference.ReconcileBatchLimit)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, candidate := range stale {
		if err := s.candidateRepo.UpdateAnalysisStatus(ctx, candidate.ID, model.AnalysisStatusError); err != nil {
			s.log.ErrorContext(ctx, "Failed to mark stale candidate as errored",
				logger.IntField("candidate_id", int(candidate.ID)),
				logger.ErrorField(err),
			)
			continue
		}
		swept++
	}
	return swept, nil
}
