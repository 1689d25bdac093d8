package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/go-facturation/internal/export"
	"github.com/diewo77/go-facturation/internal/models"
)

// SnapshotRecord stores the latest export of an invoice's line items.
// Payload holds the export document; it is never read back by the application.
type SnapshotRecord struct {
	ID            string    `gorm:"primaryKey;size:36"`
	InvoiceNumber int64     `gorm:"uniqueIndex;not null"`
	ItemCount     int       `gorm:"not null"`
	Payload       string    `gorm:"type:text;not null"`
	ExportedAt    time.Time `gorm:"not null"`
}

// SnapshotStore is a models.Sink backed by a database table, keyed by invoice number.
type SnapshotStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{db: db, now: time.Now}
}

// WriteSnapshot inserts the snapshot, replacing any earlier export of the same invoice.
func (s *SnapshotStore) WriteSnapshot(ctx context.Context, snap models.Snapshot) error {
	payload, err := export.Marshal(snap)
	if err != nil {
		return err
	}
	rec := SnapshotRecord{
		ID:            uuid.NewString(),
		InvoiceNumber: snap.InvoiceNumber,
		ItemCount:     len(snap.Items),
		Payload:       string(payload),
		ExportedAt:    s.now(),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "invoice_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"item_count", "payload", "exported_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("store snapshot of invoice %d: %w", snap.InvoiceNumber, err)
	}
	return nil
}

// Count returns the number of stored snapshots.
func (s *SnapshotStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&SnapshotRecord{}).Count(&n).Error
	return n, err
}
