package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/models"
)

type PredictionStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewPredictionStore(db *surrealdb.DB, logger *common.Logger) *PredictionStore {
	return &PredictionStore{
		db:     db,
		logger: logger,
	}
}

func (s *PredictionStore) SavePrediction(ctx context.Context, record *models.PredictionRecord) error {
	if record.RecordID == "" {
		record.RecordID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	// CREATE, not UPSERT: records are append-only and a duplicate ID must
	// fail rather than silently overwrite an existing record.
	sql := "CREATE type::record('prediction', $id) CONTENT $record"
	vars := map[string]any{"id": record.RecordID, "record": record}

	if _, err := surrealdb.Query[[]models.PredictionRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("%w: save prediction: %s", common.ErrPersistence, err)
	}
	return nil
}

func (s *PredictionStore) ListPredictions(ctx context.Context, accountID string, limit int) ([]*models.PredictionRecord, error) {
	sql := "SELECT * OMIT chart_base64 FROM prediction WHERE account_id = $account_id ORDER BY created_at DESC"
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}
	vars := map[string]any{"account_id": accountID}

	results, err := surrealdb.Query[[]models.PredictionRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: list predictions: %s", common.ErrPersistence, err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.PredictionRecord
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

func (s *PredictionStore) GetPrediction(ctx context.Context, accountID, recordID string) (*models.PredictionRecord, error) {
	record, err := surrealdb.Select[models.PredictionRecord](ctx, s.db, surrealmodels.NewRecordID("prediction", recordID))
	if err != nil {
		return nil, fmt.Errorf("%w: select prediction: %s", common.ErrPersistence, err)
	}
	if record == nil || record.RecordID == "" || record.AccountID != accountID {
		return nil, common.ErrNotFound
	}
	return record, nil
}
