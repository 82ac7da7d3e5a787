package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrEmptyResponse    = errors.New("empty model response")
	ErrContentRejected  = errors.New("content rejected by model")
	ErrValidationFailed = errors.New("model output failed validation")
	ErrSubmissionFailed = errors.New("generation submission failed")
	ErrProtocol         = errors.New("unexpected provider response shape")
	ErrPollTimeout      = errors.New("generation polling timed out")
)
