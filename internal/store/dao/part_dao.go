package dao

import (
	"context"

	"gorm.io/gorm"

	"jobplane/internal/store/po"
)

// PartDAO wraps gorm access to the parts table.
type PartDAO struct {
	db *gorm.DB
}

func NewPartDAO(db *gorm.DB) *PartDAO {
	return &PartDAO{db: db}
}

func (d *PartDAO) CreateMany(ctx context.Context, tx *gorm.DB, parts []*po.Part) error {
	if len(parts) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&parts).Error
}
