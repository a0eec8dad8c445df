// Package repository holds the gorm record access layer. Every query on a
// tenant-owned table is scoped by empresa_id.
package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// lote is the batch size used when restoring a backup.
const lote = 200

// apagar deletes one tenant row and reports gorm.ErrRecordNotFound when
// nothing matched.
func apagar(db *gorm.DB, m interface{}, empresaID, id uuid.UUID) error {
	res := db.Where("empresa_id = ? AND id = ?", empresaID, id).Delete(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// substituir replaces every row the tenant owns in the table of T with rows.
// It must run inside the caller's transaction.
func substituir[T any](tx *gorm.DB, empresaID uuid.UUID, rows []T) error {
	var zero T
	if err := tx.Where("empresa_id = ?", empresaID).Delete(&zero).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(&rows, lote).Error
}
