package apperrors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownSelector = errors.New("unknown selector value")
	ErrArtifact        = errors.New("artifact unavailable or malformed")
	ErrFeatureShape    = errors.New("feature vector does not match transform")
	ErrHistoryDisabled = errors.New("prediction history is not configured")
)
