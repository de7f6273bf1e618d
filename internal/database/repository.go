package database

import (
	"context"
	"errors"
	"fmt"

	"transaction-dashboard/internal/models"

	"gorm.io/gorm"
)

// ErrStorageRead is returned when the store cannot be scanned.
var ErrStorageRead = errors.New("storage read failed")

// TransactionRepository is the only gateway to the transactions table.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// All returns every stored transaction in insertion order.
func (r *TransactionRepository) All(ctx context.Context) ([]models.Transaction, error) {
	var items []models.Transaction
	if err := r.db.WithContext(ctx).Order("row_id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	return items, nil
}

// InsertBatch writes all records in a single database transaction.
// Nothing is written when any row is rejected. Duplicates are not checked.
func (r *TransactionRepository) InsertBatch(ctx context.Context, items []models.Transaction) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	// GORM writes generated keys back into the slice; keep the caller's copy untouched.
	rows := make([]models.Transaction, len(items))
	copy(rows, items)
	for i := range rows {
		rows[i].RowID = 0
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, 500).Error
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Count reports how many rows are stored.
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	return n, nil
}
