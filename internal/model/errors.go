package model

import "github.com/pkg/errors"

// Base errors mapped to API status codes by the delivery layer.
var (
	ErrBadParameter = errors.New("bad parameter")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("duplicate value")
	ErrForbidden    = errors.New("forbidden")
)

var (
	ErrCandidateNotFound = errors.Wrap(ErrNotFound, "candidate not found")
	ErrFeedbackNotFound  = errors.Wrap(ErrNotFound, "feedback not found")
	ErrSessionNotFound   = errors.Wrap(ErrNotFound, "analysis session not found")
	ErrUserNotFound      = errors.Wrap(ErrNotFound, "user not found")

	ErrDuplicateFeedback = errors.Wrap(ErrConflict, "feedback already submitted for this candidate")

	ErrUnknownClassification = errors.Wrap(ErrBadParameter, "unknown expert classification")
	ErrUnknownVerdict        = errors.Wrap(ErrBadParameter, "unknown final verdict")
	ErrNotFeedbackAuthor     = errors.Wrap(ErrForbidden, "feedback belongs to another researcher")
	ErrNotSessionAuthor      = errors.Wrap(ErrForbidden, "analysis session belongs to another researcher")
)

// ErrModelUnavailable means the classifier failed to load; every inference
// call fails with it until the model is reprovisioned out of band.
var ErrModelUnavailable = errors.New("classifier model unavailable")
