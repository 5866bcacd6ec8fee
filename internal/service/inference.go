package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"exoplanet-review/config"
	"exoplanet-review/internal/dto"
	"exoplanet-review/internal/ml"
	"exoplanet-review/internal/model"
	"exoplanet-review/internal/repository"
	"exoplanet-review/pkg/logger"
	"exoplanet-review/pkg/utils"
)

const processingLabel = "PROCESSING"

// Classifier is the slice of ml.Classifier the pipeline depends on.
type Classifier interface {
	Available() bool
	PredictOne(t *ml.Table) (ml.Prediction, error)
	PredictBatch(t *ml.Table) ([]ml.Prediction, error)
}

type InferenceService interface {
	TriggerInference(ctx context.Context, candidateID uint) (*dto.PredictionResponse, error)
	TriggerBatchInference(ctx context.Context, candidateIDs []uint) (*dto.BatchPredictionResponse, error)
}

// inferenceService drives the per-record state machine
// pending -> processing -> completed|error. Classification runs out of the
// request path; callers poll the record status for the outcome.
type inferenceService struct {
	cfg           *config.Config
	log           *logger.Logger
	candidateRepo repository.CandidateRepository
	classifier    Classifier
	semaphore     chan struct{}
}

func NewInferenceService(
	cfg *config.Config,
	log *logger.Logger,
	candidateRepo repository.CandidateRepository,
	classifier Classifier,
) InferenceService {
	return &inferenceService{
		cfg:           cfg,
		log:           log,
		candidateRepo: candidateRepo,
		classifier:    classifier,
		semaphore:     make(chan struct{}, cfg.Inference.MaxConcurrency),
	}
}

func (s *inferenceService) TriggerInference(ctx context.Context, candidateID uint) (*dto.PredictionResponse, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, model.ErrCandidateNotFound
	}

	// Completed records short-circuit with the stored result, no recomputation.
	if candidate.AnalysisStatus == model.AnalysisStatusCompleted {
		resp := &dto.PredictionResponse{
			CandidateID:       candidateID,
			AnalysisTimestamp: candidate.UpdatedAt,
		}
		if candidate.AIPrediction != nil {
			resp.Prediction = *candidate.AIPrediction
		}
		if candidate.AIConfidenceScore != nil {
			resp.ConfidenceScore = *candidate.AIConfidenceScore
		}
		return resp, nil
	}

	if !s.classifier.Available() {
		return nil, model.ErrModelUnavailable
	}

	if err := s.candidateRepo.UpdateAnalysisStatus(ctx, candidateID, model.AnalysisStatusProcessing); err != nil {
		return nil, err
	}

	utils.GoSafe(func() {
		s.runSingle(context.Background(), candidateID)
	})

	return &dto.PredictionResponse{
		CandidateID:       candidateID,
		Prediction:        processingLabel,
		ConfidenceScore:   0,
		AnalysisTimestamp: time.Now().UTC(),
	}, nil
}

func (s *inferenceService) runSingle(ctx context.Context, candidateID uint) {
	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		// The record was already flipped to processing; a failed refetch must
		// not leave it stuck there.
		s.markError(ctx, candidateID, err)
		return
	}
	if candidate == nil {
		s.markError(ctx, candidateID, errors.Wrap(model.ErrCandidateNotFound, "candidate vanished before classification"))
		return
	}

	table := tableFromCandidates([]model.ExoplanetCandidate{*candidate})
	prediction, err := s.classifier.PredictOne(table)
	if err != nil {
		s.markError(ctx, candidateID, err)
		return
	}

	if err := s.candidateRepo.UpdateAIPrediction(ctx, candidateID, prediction.Label, prediction.Confidence); err != nil {
		s.markError(ctx, candidateID, err)
		return
	}

	s.log.InfoContext(ctx, "Completed classification",
		logger.IntField("candidate_id", int(candidateID)),
		logger.StringField("prediction", prediction.Label),
		logger.Field("confidence", prediction.Confidence),
	)
}

func (s *inferenceService) TriggerBatchInference(ctx context.Context, candidateIDs []uint) (*dto.BatchPredictionResponse, error) {
	if len(candidateIDs) == 0 {
		return nil, model.ErrBadParameter
	}
	if !s.classifier.Available() {
		return nil, model.ErrModelUnavailable
	}

	candidates, err := s.candidateRepo.GetByIDs(ctx, candidateIDs)
	if err != nil {
		return nil, err
	}

	var queued []uint
	alreadyDone := 0
	for _, candidate := range candidates {
		if candidate.AnalysisStatus == model.AnalysisStatusCompleted {
			alreadyDone++
			continue
		}
		queued = append(queued, candidate.ID)
	}

	if err := s.candidateRepo.UpdateStatusBulk(ctx, queued, model.AnalysisStatusProcessing); err != nil {
		return nil, err
	}

	// Acquire the concurrency slot off the request path so a saturated
	// pipeline queues the batch instead of blocking the caller.
	utils.GoSafe(func() {
		s.semaphore <- struct{}{}
		defer func() { <-s.semaphore }()
		s.runBatch(context.Background(), queued)
	})

	return &dto.BatchPredictionResponse{
		QueuedCount:      len(queued),
		AlreadyDoneCount: alreadyDone,
		TotalCount:       len(candidateIDs),
	}, nil
}

// runBatch processes records in fixed-size chunks, strictly sequentially.
// A failure inside one chunk marks only that chunk's records and never
// aborts the chunks that follow.
func (s *inferenceService) runBatch(ctx context.Context, candidateIDs []uint) {
	chunkSize := s.cfg.Inference.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 100
	}

	var processed, succeeded, failed int
	for start := 0; start < len(candidateIDs); start += chunkSize {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		end := start + chunkSize
		if end > len(candidateIDs) {
			end = len(candidateIDs)
		}
		chunk := candidateIDs[start:end]

		candidates, err := s.candidateRepo.GetByIDs(ctx, chunk)
		if err != nil {
			s.markChunkError(ctx, chunk, err)
			processed += len(chunk)
			failed += len(chunk)
			continue
		}

		table := tableFromCandidates(candidates)
		predictions, err := s.classifier.PredictBatch(table)
		if err != nil {
			ids := candidateIDList(candidates)
			s.markChunkError(ctx, ids, err)
			processed += len(ids)
			failed += len(ids)
			continue
		}

		for i, candidate := range candidates {
			processed++
			if err := s.candidateRepo.UpdateAIPrediction(ctx, candidate.ID, predictions[i].Label, predictions[i].Confidence); err != nil {
				s.markError(ctx, candidate.ID, err)
				failed++
				continue
			}
			succeeded++
		}
	}

	s.log.InfoContext(ctx, "Batch classification finished",
		logger.IntField("total", len(candidateIDs)),
		logger.IntField("processed", processed),
		logger.IntField("succeeded", succeeded),
		logger.IntField("failed", failed),
	)
}

func (s *inferenceService) markError(ctx context.Context, candidateID uint, cause error) {
	s.log.ErrorContext(ctx, "Classification failed",
		logger.IntField("candidate_id", int(candidateID)),
		logger.ErrorField(cause),
	)
	if err := s.candidateRepo.UpdateAnalysisStatus(ctx, candidateID, model.AnalysisStatusError); err != nil {
		s.log.ErrorContext(ctx, "Failed to mark candidate as errored",
			logger.IntField("candidate_id", int(candidateID)),
			logger.ErrorField(err),
		)
	}
}

func (s *inferenceService) markChunkError(ctx context.Context, candidateIDs []uint, cause error) {
	s.log.ErrorContext(ctx, "Chunk classification failed",
		logger.IntField("chunk_size", len(candidateIDs)),
		logger.ErrorField(cause),
	)
	for _, id := range candidateIDs {
		if err := s.candidateRepo.UpdateAnalysisStatus(ctx, id, model.AnalysisStatusError); err != nil {
			s.log.ErrorContext(ctx, "Failed to mark candidate as errored",
				logger.IntField("candidate_id", int(id)),
				logger.ErrorField(err),
			)
		}
	}
}

func candidateIDList(candidates []model.ExoplanetCandidate) []uint {
	ids := make([]uint, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	return ids
}

// tableFromCandidates assembles the nullable feature table for a batch,
// preserving candidate order.
func tableFromCandidates(candidates []model.ExoplanetCandidate) *ml.Table {
	table := ml.NewTable(len(candidates))
	columns := make(map[string][]*float64, len(ml.FeatureColumns))
	for _, col := range ml.FeatureColumns {
		columns[col] = make([]*float64, len(candidates))
	}

	for i := range candidates {
		for col, value := range candidates[i].FeatureValues() {
			columns[col][i] = value
		}
	}

	for _, col := range ml.FeatureColumns {
		_ = table.SetColumn(col, columns[col])
	}
	return table
}
