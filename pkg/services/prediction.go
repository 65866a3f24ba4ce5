package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-growth/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-growth/pkg/cache"
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
	"github.com/ekaya-inc/ekaya-growth/pkg/repositories"
)

// Predictor evaluates the classifier for one validated request.
type Predictor interface {
	PredictRequest(req models.PredictionRequest) (float64, error)
	// Fingerprint identifies the loaded model; cache entries are scoped to it.
	Fingerprint() string
}

// PredictionService turns User Inputs form submissions into probabilities.
type PredictionService interface {
	// Predict validates req, then evaluates it (or returns the cached value).
	// Invalid input returns a *models.ValidationError and never reaches the model.
	Predict(ctx context.Context, req models.PredictionRequest, source string) (*models.PredictionResult, error)
	// Recent lists the newest submissions, or ErrHistoryDisabled.
	Recent(ctx context.Context, limit int) ([]*models.PredictionRecord, error)
	HistoryEnabled() bool
}

type predictionService struct {
	model    Predictor
	cache    cache.PredictionCache
	history  repositories.PredictionHistoryRepository
	maxCount int
	logger   *zap.Logger
}

var _ PredictionService = (*predictionService)(nil)

// NewPredictionService wires the classifier with its optional backends.
// predictionCache may be the no-op cache; history may be nil.
func NewPredictionService(
	model Predictor,
	predictionCache cache.PredictionCache,
	history repositories.PredictionHistoryRepository,
	maxCount int,
	logger *zap.Logger,
) PredictionService {
	return &predictionService{
		model:    model,
		cache:    predictionCache,
		history:  history,
		maxCount: maxCount,
		logger:   logger.Named("prediction-service"),
	}
}

func (s *predictionService) Predict(ctx context.Context, req models.PredictionRequest, source string) (*models.PredictionResult, error) {
	if err := req.Validate(s.maxCount); err != nil {
		return nil, err
	}

	probability, cached, err := s.cache.Get(ctx, s.model.Fingerprint(), req)
	if err != nil {
		s.logger.Warn("Prediction cache read failed", zap.Error(err))
		cached = false
	}

	if !cached {
		probability, err = s.model.PredictRequest(req)
		if err != nil {
			s.logger.Error("Classifier evaluation failed",
				zap.String("features", req.Key()),
				zap.Error(err))
			return nil, err
		}
		if err := s.cache.Set(ctx, s.model.Fingerprint(), req, probability); err != nil {
			s.logger.Warn("Prediction cache write failed", zap.Error(err))
		}
	}

	result := models.NewPredictionResult(probability)
	result.Cached = cached

	if s.history != nil {
		record := &models.PredictionRecord{
			Features:    req.Features(),
			Probability: probability,
			Source:      source,
		}
		if err := s.history.Create(ctx, record); err != nil {
			s.logger.Warn("Failed to record prediction history", zap.Error(err))
		} else {
			id := record.ID
			result.ID = &id
		}
	}

	s.logger.Debug("Prediction served",
		zap.String("features", req.Key()),
		zap.Float64("probability", probability),
		zap.Bool("cached", cached),
		zap.String("source", source))

	return result, nil
}

func (s *predictionService) Recent(ctx context.Context, limit int) ([]*models.PredictionRecord, error) {
	if s.history == nil {
		return nil, apperrors.ErrHistoryDisabled
	}

	records, err := s.history.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list prediction history", zap.Error(err))
		return nil, err
	}
	return records, nil
}

func (s *predictionService) HistoryEnabled() bool {
	return s.history != nil
}

