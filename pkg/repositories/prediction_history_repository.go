package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ekaya-inc/ekaya-growth/pkg/database"
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

// Bounds for ListRecent.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// PredictionHistoryRepository provides data access for submitted predictions.
type PredictionHistoryRepository interface {
	Create(ctx context.Context, record *models.PredictionRecord) error
	ListRecent(ctx context.Context, limit int) ([]*models.PredictionRecord, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type predictionHistoryRepository struct {
	db *database.DB
}

// NewPredictionHistoryRepository returns a repository over db.
func NewPredictionHistoryRepository(db *database.DB) PredictionHistoryRepository {
	return &predictionHistoryRepository{db: db}
}

var _ PredictionHistoryRepository = (*predictionHistoryRepository)(nil)

func (r *predictionHistoryRepository) Create(ctx context.Context, record *models.PredictionRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO prediction_history (
			id, is_private, mediacount, followers, followees,
			is_business_account, has_public_story,
			probability, source, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	f := record.Features
	_, err := r.db.Exec(ctx, query,
		record.ID,
		f.IsPrivate,
		int64(f.MediaCount),
		int64(f.Followers),
		int64(f.Followees),
		f.IsBusinessAccount,
		f.HasPublicStory,
		record.Probability,
		record.Source,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction history entry: %w", err)
	}

	return nil
}

func (r *predictionHistoryRepository) ListRecent(ctx context.Context, limit int) ([]*models.PredictionRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	query := `
		SELECT id, is_private, mediacount, followers, followees,
		       is_business_account, has_public_story,
		       probability, source, created_at
		FROM prediction_history
		ORDER BY created_at DESC, id
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list prediction history: %w", err)
	}
	defer rows.Close()

	records := make([]*models.PredictionRecord, 0, limit)
	for rows.Next() {
		var rec models.PredictionRecord
		var mediaCount, followers, followees int64

		err := rows.Scan(
			&rec.ID,
			&rec.Features.IsPrivate,
			&mediaCount,
			&followers,
			&followees,
			&rec.Features.IsBusinessAccount,
			&rec.Features.HasPublicStory,
			&rec.Probability,
			&rec.Source,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction history entry: %w", err)
		}
		rec.Features.MediaCount = float64(mediaCount)
		rec.Features.Followers = float64(followers)
		rec.Features.Followees = float64(followees)

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prediction history: %w", err)
	}

	return records, nil
}

func (r *predictionHistoryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM prediction_history WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old prediction history: %w", err)
	}

	return tag.RowsAffected(), nil
}
