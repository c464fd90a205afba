package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/models"
)

// PredictionStore holds prediction records keyed by record ID. Append-only.
type PredictionStore struct {
	mu      sync.RWMutex
	logger  *common.Logger
	records map[string]*models.PredictionRecord

	// saveFault, when set, fails the next save. Used by pipeline tests.
	saveFault error
}

func NewPredictionStore(logger *common.Logger) *PredictionStore {
	return &PredictionStore{
		logger:  logger,
		records: make(map[string]*models.PredictionRecord),
	}
}

// SetSaveFault injects a failure into SavePrediction.
func (s *PredictionStore) SetSaveFault(err error) {
	s.mu.Lock()
	s.saveFault = err
	s.mu.Unlock()
}

func (s *PredictionStore) SavePrediction(ctx context.Context, record *models.PredictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveFault != nil {
		return s.saveFault
	}

	if record.RecordID == "" {
		record.RecordID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	// Store a copy so later caller mutations cannot touch the stored row.
	cp := *record
	s.records[record.RecordID] = &cp
	return nil
}

func (s *PredictionStore) ListPredictions(ctx context.Context, accountID string, limit int) ([]*models.PredictionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.PredictionRecord
	for _, r := range s.records {
		if r.AccountID != accountID {
			continue
		}
		cp := *r
		cp.ChartBase64 = ""
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *PredictionStore) GetPrediction(ctx context.Context, accountID, recordID string) (*models.PredictionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[recordID]
	if !ok || r.AccountID != accountID {
		return nil, common.ErrNotFound
	}
	cp := *r
	return &cp, nil
}
