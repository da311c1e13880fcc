package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"invoice-prize-checker-go/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetHistory returns the check history, newest first, capped at the history
// limit.
func (r *Repository) GetHistory() ([]models.HistoryItem, error) {
	var items []models.HistoryItem
	result := r.db.Order("timestamp desc").Limit(models.HistoryLimit).Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get history: %w", result.Error)
	}
	return items, nil
}

// SaveHistoryList replaces the whole history with the given list, truncated
// to the limit. Used after a scan merges its findings with prior history.
func (r *Repository) SaveHistoryList(list []models.HistoryItem) error {
	if len(list) > models.HistoryLimit {
		list = list[:models.HistoryLimit]
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.HistoryItem{}).Error; err != nil {
			return err
		}
		if len(list) == 0 {
			return nil
		}
		return tx.Create(&list).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// SaveHistoryItem records one manual check. When the new number extends the
// newest entry (progressive typing) that entry is replaced in place instead
// of appending a near-duplicate; an identical number is a no-op.
func (r *Repository) SaveHistoryItem(item models.HistoryItem) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var newest models.HistoryItem
		result := tx.Order("timestamp desc").First(&newest)
		if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
			return result.Error
		}
		if result.Error == nil {
			if newest.Number == item.Number {
				return nil
			}
			if strings.HasPrefix(item.Number, newest.Number) && len(item.Number) > len(newest.Number) {
				newest.Number = item.Number
				newest.Timestamp = item.Timestamp
				newest.Result = item.Result
				return tx.Save(&newest).Error
			}
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return trimHistory(tx)
	})
	if err != nil {
		return fmt.Errorf("failed to save history item: %w", err)
	}
	return nil
}

// trimHistory deletes the oldest rows beyond the history limit, inside the
// caller's transaction.
func trimHistory(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.HistoryItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count <= models.HistoryLimit {
		return nil
	}
	var overflow []models.HistoryItem
	if err := tx.Order("timestamp asc").Limit(int(count) - models.HistoryLimit).Find(&overflow).Error; err != nil {
		return err
	}
	if len(overflow) == 0 {
		return nil
	}
	return tx.Delete(&overflow).Error
}

// ClearHistory deletes the whole check history.
func (r *Repository) ClearHistory() error {
	if err := r.db.Where("1 = 1").Delete(&models.HistoryItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// GetRecords returns stored invoice records, newest first, capped at the
// record limit.
func (r *Repository) GetRecords() ([]models.InvoiceRecord, error) {
	var records []models.InvoiceRecord
	result := r.db.Order("created_at desc").Limit(models.RecordLimit).Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get records: %w", result.Error)
	}
	return records, nil
}

// SaveRecords inserts new invoice records and trims the store to the record
// limit in the same transaction.
func (r *Repository) SaveRecords(records []models.InvoiceRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&records).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.InvoiceRecord{}).Count(&count).Error; err != nil {
			return err
		}
		if count <= models.RecordLimit {
			return nil
		}
		var overflow []models.InvoiceRecord
		if err := tx.Order("created_at asc").Limit(int(count) - models.RecordLimit).Find(&overflow).Error; err != nil {
			return err
		}
		if len(overflow) == 0 {
			return nil
		}
		return tx.Delete(&overflow).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}
	return nil
}

// ClearRecords deletes all stored invoice records.
func (r *Repository) ClearRecords() error {
	if err := r.db.Where("1 = 1").Delete(&models.InvoiceRecord{}).Error; err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}
