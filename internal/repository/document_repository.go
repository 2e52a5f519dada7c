package repository

import (
	"fmt"

	"gorm.io/gorm"

	"docassist/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) ListByUserID(userID string) ([]model.Document, error) {
	var docs []model.Document
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents by user failed: %w", err)
	}
	return docs, nil
}
