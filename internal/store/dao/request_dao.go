package dao

import (
	"context"

	"gorm.io/gorm"

	"jobplane/internal/store/po"
)

// RequestDAO wraps gorm access to the requests table.
type RequestDAO struct {
	db *gorm.DB
}

func NewRequestDAO(db *gorm.DB) *RequestDAO {
	return &RequestDAO{db: db}
}

func (d *RequestDAO) Create(ctx context.Context, tx *gorm.DB, req *po.Request) error {
	return tx.WithContext(ctx).Create(req).Error
}
