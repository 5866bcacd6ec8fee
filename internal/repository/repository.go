package repository

import (
	"gorm.io/gorm"
)

type Repository struct {
	CandidateRepo CandidateRepository
	FeedbackRepo  FeedbackRepository
	SessionRepo   SessionRepository
	UserRepo      UserRepository
	UnitOfWork    UnitOfWork
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		CandidateRepo: NewCandidateRepository(db),
		FeedbackRepo:  NewFeedbackRepository(db),
		SessionRepo:   NewSessionRepository(db),
		UserRepo:      NewUserRepository(db),
		UnitOfWork:    NewUnitOfWork(db),
	}
}
