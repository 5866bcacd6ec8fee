package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exoplanet-review/config"
	"exoplanet-review/internal/dto"
	"exoplanet-review/internal/model"
	"exoplanet-review/internal/repository"
	"exoplanet-review/pkg/cache"
	"exoplanet-review/pkg/logger"
	"exoplanet-review/pkg/utils"
)

type fakeFeedbackRepo struct {
	mu      sync.Mutex
	nextID  uint
	entries map[uint]*model.ResearcherFeedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{nextID: 1, entries: make(map[uint]*model.ResearcherFeedback)}
}

func (r *fakeFeedbackRepo) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.ResearcherFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (r *fakeFeedbackRepo) GetByCandidate(ctx context.Context, candidateID uint) ([]model.ResearcherFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ResearcherFeedback
	for _, entry := range r.entries {
		if entry.CandidateID == candidateID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *fakeFeedbackRepo) GetByResearcher(ctx context.Context, researcherID uint, offset, limit int) ([]model.ResearcherFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ResearcherFeedback
	for _, entry := range r.entries {
		if entry.ResearcherID == researcherID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *fakeFeedbackRepo) CountByResearcher(ctx context.Context, researcherID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, entry := range r.entries {
		if entry.ResearcherID == researcherID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFeedbackRepo) ExistsForCandidateAndResearcher(ctx context.Context, candidateID, researcherID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.CandidateID == candidateID && entry.ResearcherID == researcherID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, feedback *model.ResearcherFeedback, opts ...utils.DBOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	feedback.ID = r.nextID
	r.nextID++
	copied := *feedback
	r.entries[feedback.ID] = &copied
	return nil
}

func (r *fakeFeedbackRepo) Update(ctx context.Context, feedback *model.ResearcherFeedback, opts ...utils.DBOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *feedback
	r.entries[feedback.ID] = &copied
	return nil
}

func (r *fakeFeedbackRepo) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

type fakeUserRepo struct {
	users map[uint]*model.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func newTestFeedbackService(t *testing.T, candidateRepo *fakeCandidateRepo, feedbackRepo *fakeFeedbackRepo, users map[uint]*model.User) FeedbackService {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	cfg := &config.Config{
		Cache: config.Cache{
			DefaultExpiration: time.Minute,
			CleanupInterval:   time.Minute,
		},
	}
	repo := &repository.Repository{
		CandidateRepo: candidateRepo,
		FeedbackRepo:  feedbackRepo,
		UserRepo:      &fakeUserRepo{users: users},
	}
	return NewFeedbackService(cfg, log, repo, cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval))
}

func submitRequest(candidateID uint) *dto.SubmitFeedbackRequest {
	return &dto.SubmitFeedbackRequest{
		CandidateID:          candidateID,
		ExpertClassification: "CONFIRMED",
		DetailedReasoning:    "transit shape and odd-even depths are consistent",
		ConfidenceScore:      0.9,
		AgreesWithAI:         utils.ToPointer(true),
	}
}

func TestFeedbackService_SubmitFeedback(t *testing.T) {
	users := map[uint]*model.User{
		1: {ID: 1, Role: model.RoleResearcher},
		2: {ID: 2, Role: model.RoleModerator},
	}

	t.Run("creates feedback with a frozen weight", func(t *testing.T) {
		candidateRepo := newFakeCandidateRepo(pendingCandidate(10))
		feedbackRepo := newFakeFeedbackRepo()
		svc := newTestFeedbackService(t, candidateRepo, feedbackRepo, users)

		feedback, err := svc.SubmitFeedback(context.Background(), 2, submitRequest(10))
		require.NoError(t, err)
		assert.Equal(t, model.ClassificationConfirmed, feedback.ExpertClassification)
		assert.InDelta(t, 1.2, feedback.FeedbackWeight, 1e-9, "moderator with no prior feedback")
	})

	t.Run("rejects an unknown classification label", func(t *testing.T) {
		svc := newTestFeedbackService(t, newFakeCandidateRepo(pendingCandidate(10)), newFakeFeedbackRepo(), users)

		req := submitRequest(10)
		req.ExpertClassification = "PROBABLY"
		_, err := svc.SubmitFeedback(context.Background(), 1, req)
		assert.ErrorIs(t, err, model.ErrBadParameter)
	})

	t.Run("rejects a second submission for the same candidate", func(t *testing.T) {
		candidateRepo := newFakeCandidateRepo(pendingCandidate(10))
		feedbackRepo := newFakeFeedbackRepo()
		svc := newTestFeedbackService(t, candidateRepo, feedbackRepo, users)

		_, err := svc.SubmitFeedback(context.Background(), 1, submitRequest(10))
		require.NoError(t, err)

		_, err = svc.SubmitFeedback(context.Background(), 1, submitRequest(10))
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("unknown candidate fails", func(t *testing.T) {
		svc := newTestFeedbackService(t, newFakeCandidateRepo(), newFakeFeedbackRepo(), users)

		_, err := svc.SubmitFeedback(context.Background(), 1, submitRequest(404))
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("unknown researcher fails", func(t *testing.T) {
		svc := newTestFeedbackService(t, newFakeCandidateRepo(pendingCandidate(10)), newFakeFeedbackRepo(), users)

		_, err := svc.SubmitFeedback(context.Background(), 99, submitRequest(10))
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestFeedbackService_UpdateFeedback(t *testing.T) {
	users := map[uint]*model.User{1: {ID: 1, Role: model.RoleResearcher}}

	setup := func(t *testing.T) (FeedbackService, *fakeFeedbackRepo) {
		candidateRepo := newFakeCandidateRepo(pendingCandidate(10))
		feedbackRepo := newFakeFeedbackRepo()
		svc := newTestFeedbackService(t, candidateRepo, feedbackRepo, users)

		_, err := svc.SubmitFeedback(context.Background(), 1, submitRequest(10))
		require.NoError(t, err)
		return svc, feedbackRepo
	}

	t.Run("author can edit without reweighing", func(t *testing.T) {
		svc, feedbackRepo := setup(t)

		updated, err := svc.UpdateFeedback(context.Background(), 1, 1, &dto.UpdateFeedbackRequest{
			ConfidenceScore:      utils.ToPointer(0.4),
			ExpertClassification: utils.ToPointer("CANDIDATE"),
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.4, updated.ConfidenceScore, 1e-9)
		assert.Equal(t, model.ClassificationCandidate, updated.ExpertClassification)

		stored, err := feedbackRepo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, stored.FeedbackWeight, 1e-9, "weight stays frozen")
	})

	t.Run("non-author is rejected", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.UpdateFeedback(context.Background(), 2, 1, &dto.UpdateFeedbackRequest{
			ConfidenceScore: utils.ToPointer(0.1),
		})
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("unknown feedback fails", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.UpdateFeedback(context.Background(), 1, 42, &dto.UpdateFeedbackRequest{})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestFeedbackService_DeleteFeedback(t *testing.T) {
	users := map[uint]*model.User{1: {ID: 1, Role: model.RoleResearcher}}

	t.Run("author can delete", func(t *testing.T) {
		candidateRepo := newFakeCandidateRepo(pendingCandidate(10))
		feedbackRepo := newFakeFeedbackRepo()
		svc := newTestFeedbackService(t, candidateRepo, feedbackRepo, users)

		_, err := svc.SubmitFeedback(context.Background(), 1, submitRequest(10))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteFeedback(context.Background(), 1, 1))

		_, err = svc.GetFeedback(context.Background(), 1)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("non-author is rejected", func(t *testing.T) {
		candidateRepo := newFakeCandidateRepo(pendingCandidate(10))
		feedbackRepo := newFakeFeedbackRepo()
		svc := newTestFeedbackService(t, candidateRepo, feedbackRepo, users)

		_, err := svc.SubmitFeedback(context.Background(), 1, submitRequest(10))
		require.NoError(t, err)

		err = svc.DeleteFeedback(context.Background(), 9, 1)
		assert.ErrorIs(t, err, model.ErrForbidden)
	})
}

func TestFeedbackService_GetConsensus(t *testing.T) {
	users := map[uint]*model.User{
		1: {ID: 1, Role: model.RoleResearcher},
		2: {ID: 2, Role: model.RoleAdmin},
	}

	t.Run("aggregates all stored feedback", func(t *testing.T) {
		candidateRepo := newFakeCandidateRepo(pendingCandidate(10))
		feedbackRepo := newFakeFeedbackRepo()
		svc := newTestFeedbackService(t, candidateRepo, feedbackRepo, users)

		_, err := svc.SubmitFeedback(context.Background(), 1, submitRequest(10))
		require.NoError(t, err)

		adminReq := submitRequest(10)
		adminReq.ExpertClassification = "FALSE_POSITIVE"
		adminReq.ConfidenceScore = 0.6
		adminReq.AgreesWithAI = utils.ToPointer(false)
		_, err = svc.SubmitFeedback(context.Background(), 2, adminReq)
		require.NoError(t, err)

		consensus, err := svc.GetConsensus(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, 2, consensus.TotalFeedback)
		// researcher 0.9 @ weight 1.0, admin 0.6 @ weight 1.5
		assert.InDelta(t, (0.9+0.6*1.5)/2.5, consensus.ConsensusScore, 1e-9)
		assert.InDelta(t, 0.5, consensus.AgreementRate, 1e-9)
		assert.Equal(t, map[string]int{"CONFIRMED": 1, "FALSE_POSITIVE": 1}, consensus.ClassificationBreakdown)
	})

	t.Run("no feedback yields an empty consensus", func(t *testing.T) {
		candidateRepo := newFakeCandidateRepo(pendingCandidate(11))
		svc := newTestFeedbackService(t, candidateRepo, newFakeFeedbackRepo(), users)

		consensus, err := svc.GetConsensus(context.Background(), 11)
		require.NoError(t, err)
		assert.Zero(t, consensus.ConsensusScore)
		assert.Zero(t, consensus.TotalFeedback)
		assert.Empty(t, consensus.ClassificationBreakdown)
	})

	t.Run("unknown candidate fails", func(t *testing.T) {
		svc := newTestFeedbackService(t, newFakeCandidateRepo(), newFakeFeedbackRepo(), users)

		_, err := svc.GetConsensus(context.Background(), 404)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestFeedbackService_GetResearcherStats(t *testing.T) {
	users := map[uint]*model.User{1: {ID: 1, Role: model.RoleResearcher}}

	candidateRepo := newFakeCandidateRepo(pendingCandidate(10), pendingCandidate(11))
	feedbackRepo := newFakeFeedbackRepo()
	svc := newTestFeedbackService(t, candidateRepo, feedbackRepo, users)

	_, err := svc.SubmitFeedback(context.Background(), 1, submitRequest(10))
	require.NoError(t, err)

	second := submitRequest(11)
	second.ExpertClassification = "CANDIDATE"
	second.ConfidenceScore = 0.5
	second.AgreesWithAI = nil
	_, err = svc.SubmitFeedback(context.Background(), 1, second)
	require.NoError(t, err)

	stats, err := svc.GetResearcherStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFeedback)
	assert.InDelta(t, 0.7, stats.AverageConfidence, 1e-9)
	assert.InDelta(t, 0.5, stats.AIAgreementRate, 1e-9)
	assert.Equal(t, map[string]int{"CONFIRMED": 1, "CANDIDATE": 1}, stats.ClassificationBreakdown)
}
