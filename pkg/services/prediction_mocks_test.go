package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

// mockHistoryRepository keeps prediction records in memory.
type mockHistoryRepository struct {
	mu          sync.Mutex
	records     []*models.PredictionRecord
	createErr   error
	deleteCalls []time.Time
}

func (m *mockHistoryRepository) Create(ctx context.Context, record *models.PredictionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	m.records = append(m.records, record)
	return nil
}

func (m *mockHistoryRepository) ListRecent(ctx context.Context, limit int) ([]*models.PredictionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.PredictionRecord, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *mockHistoryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls = append(m.deleteCalls, cutoff)

	var remaining []*models.PredictionRecord
	var deleted int64
	for _, r := range m.records {
		if r.CreatedAt.Before(cutoff) {
			deleted++
		} else {
			remaining = append(remaining, r)
		}
	}
	m.records = remaining
	return deleted, nil
}

func (m *mockHistoryRepository) deleteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.deleteCalls)
}

// mockCache is an in-memory PredictionCache that can be made to fail.
type mockCache struct {
	values map[string]float64
	err    error
	sets   int
}

func newMockCache() *mockCache {
	return &mockCache{values: make(map[string]float64)}
}

func (c *mockCache) Get(ctx context.Context, model string, req models.PredictionRequest) (float64, bool, error) {
	if c.err != nil {
		return 0, false, c.err
	}
	p, ok := c.values[model+":"+req.Key()]
	return p, ok, nil
}

func (c *mockCache) Set(ctx context.Context, model string, req models.PredictionRequest, probability float64) error {
	if c.err != nil {
		return c.err
	}
	c.sets++
	c.values[model+":"+req.Key()] = probability
	return nil
}

// fakePredictor returns a fixed probability and counts calls.
type fakePredictor struct {
	probability float64
	err         error
	calls       int
	fingerprint string
}

func (f *fakePredictor) PredictRequest(req models.PredictionRequest) (float64, error) {
	f.calls++
	return f.probability, f.err
}

func (f *fakePredictor) Fingerprint() string {
	if f.fingerprint == "" {
		return "fake-model"
	}
	return f.fingerprint
}

var errBackendDown = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
