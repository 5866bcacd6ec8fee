package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exoplanet-review/config"
	"exoplanet-review/internal/dto"
	"exoplanet-review/internal/model"
	"exoplanet-review/internal/repository"
	"exoplanet-review/pkg/logger"
	"exoplanet-review/pkg/utils"
)

type fakeSessionRepo struct {
	mu       sync.Mutex
	nextID   uint
	sessions map[uint]*model.AnalysisSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{nextID: 1, sessions: make(map[uint]*model.AnalysisSession)}
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.AnalysisSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) GetByCandidate(ctx context.Context, candidateID uint) ([]model.AnalysisSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AnalysisSession
	for _, session := range r.sessions {
		if session.CandidateID == candidateID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) GetByResearcher(ctx context.Context, researcherID uint, offset, limit int) ([]model.AnalysisSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AnalysisSession
	for _, session := range r.sessions {
		if session.ResearcherID == researcherID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *model.AnalysisSession, opts ...utils.DBOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = r.nextID
	r.nextID++
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *model.AnalysisSession, opts ...utils.DBOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func newTestSessionService(t *testing.T, candidateRepo *fakeCandidateRepo, sessionRepo *fakeSessionRepo) SessionService {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	repo := &repository.Repository{
		CandidateRepo: candidateRepo,
		SessionRepo:   sessionRepo,
	}
	return NewSessionService(&config.Config{}, log, repo)
}

func TestSessionService_CreateSession(t *testing.T) {
	t.Run("creates a session for an existing candidate", func(t *testing.T) {
		sessionRepo := newFakeSessionRepo()
		svc := newTestSessionService(t, newFakeCandidateRepo(pendingCandidate(10)), sessionRepo)

		session, err := svc.CreateSession(context.Background(), 1, &dto.CreateSessionRequest{
			CandidateID:     10,
			MethodologyUsed: utils.ToPointer("transit photometry review"),
		})
		require.NoError(t, err)
		assert.Equal(t, uint(10), session.CandidateID)
		assert.Equal(t, uint(1), session.ResearcherID)
		assert.False(t, session.SessionCompleted)
	})

	t.Run("rejects an unknown candidate", func(t *testing.T) {
		svc := newTestSessionService(t, newFakeCandidateRepo(), newFakeSessionRepo())

		_, err := svc.CreateSession(context.Background(), 1, &dto.CreateSessionRequest{CandidateID: 99})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestSessionService_UpdateSession(t *testing.T) {
	seed := func(t *testing.T) (*fakeSessionRepo, SessionService) {
		t.Helper()
		sessionRepo := newFakeSessionRepo()
		svc := newTestSessionService(t, newFakeCandidateRepo(pendingCandidate(10)), sessionRepo)
		_, err := svc.CreateSession(context.Background(), 1, &dto.CreateSessionRequest{CandidateID: 10})
		require.NoError(t, err)
		return sessionRepo, svc
	}

	t.Run("author records verdict, time spent and completion", func(t *testing.T) {
		_, svc := seed(t)

		session, err := svc.UpdateSession(context.Background(), 1, 1, &dto.UpdateSessionRequest{
			ResearcherVerdict:  utils.ToPointer("CONFIRMED"),
			ConfidenceLevel:    utils.ToPointer(0.85),
			TimeSpentAnalyzing: utils.ToPointer(1800),
			SessionCompleted:   utils.ToPointer(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "CONFIRMED", *session.ResearcherVerdict)
		assert.Equal(t, 1800, session.TimeSpentAnalyzing)
		assert.True(t, session.SessionCompleted)
	})

	t.Run("rejects an unknown verdict label", func(t *testing.T) {
		_, svc := seed(t)

		_, err := svc.UpdateSession(context.Background(), 1, 1, &dto.UpdateSessionRequest{
			ResearcherVerdict: utils.ToPointer("MAYBE"),
		})
		assert.ErrorIs(t, err, model.ErrBadParameter)
	})

	t.Run("only the author can update", func(t *testing.T) {
		_, svc := seed(t)

		_, err := svc.UpdateSession(context.Background(), 2, 1, &dto.UpdateSessionRequest{
			SessionCompleted: utils.ToPointer(true),
		})
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("unknown session fails", func(t *testing.T) {
		_, svc := seed(t)

		_, err := svc.UpdateSession(context.Background(), 1, 99, &dto.UpdateSessionRequest{})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestSessionService_DeleteSession(t *testing.T) {
	t.Run("only the author can delete", func(t *testing.T) {
		sessionRepo := newFakeSessionRepo()
		svc := newTestSessionService(t, newFakeCandidateRepo(pendingCandidate(10)), sessionRepo)
		_, err := svc.CreateSession(context.Background(), 1, &dto.CreateSessionRequest{CandidateID: 10})
		require.NoError(t, err)

		err = svc.DeleteSession(context.Background(), 2, 1)
		assert.ErrorIs(t, err, model.ErrForbidden)

		err = svc.DeleteSession(context.Background(), 1, 1)
		require.NoError(t, err)

		_, err = svc.GetSession(context.Background(), 1)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestSessionService_GetCandidateSessions(t *testing.T) {
	t.Run("lists only the candidate's sessions", func(t *testing.T) {
		sessionRepo := newFakeSessionRepo()
		svc := newTestSessionService(t, newFakeCandidateRepo(pendingCandidate(10), pendingCandidate(11)), sessionRepo)

		_, err := svc.CreateSession(context.Background(), 1, &dto.CreateSessionRequest{CandidateID: 10})
		require.NoError(t, err)
		_, err = svc.CreateSession(context.Background(), 2, &dto.CreateSessionRequest{CandidateID: 10})
		require.NoError(t, err)
		_, err = svc.CreateSession(context.Background(), 1, &dto.CreateSessionRequest{CandidateID: 11})
		require.NoError(t, err)

		sessions, err := svc.GetCandidateSessions(context.Background(), 10)
		require.NoError(t, err)
		assert.Len(t, sessions, 2)
	})

	t.Run("unknown candidate fails", func(t *testing.T) {
		svc := newTestSessionService(t, newFakeCandidateRepo(), newFakeSessionRepo())

		_, err := svc.GetCandidateSessions(context.Background(), 99)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
