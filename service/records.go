package service

import (
	"context"

	"robohub/hub-api/model"

	"gorm.io/gorm"
)

// Records is the gorm-backed RecordStore used in production
type Records struct {
	DB *gorm.DB
}

func NewRecords(db *gorm.DB) *Records {
	return &Records{DB: db}
}

// CreateModel inserts the record and bumps the owner's stats in one
// transaction, a model must never exist with stale counters
func (r *Records) CreateModel(ctx context.Context, m *model.Model) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"uploaded_models": gorm.Expr("uploaded_models + ?", 1),
			"used_storage":    gorm.Expr("used_storage + ?", m.Size),
		}
		if m.IsPublic {
			updates["public_models"] = gorm.Expr("public_models + ?", 1)
		}

		return tx.Model(model.Stats{}).
			Where("user_id = ?", m.UserID).
			Updates(updates).
			Error
	})
}
