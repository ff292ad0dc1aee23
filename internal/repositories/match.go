package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-matcher/internal/models"
)

type MatchRepository interface {
	Create(record *models.MatchRecord) error
	FindByID(id uuid.UUID) (*models.MatchRecord, error)
	FindRecent(limit int) ([]models.MatchRecord, error)
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Create(record *models.MatchRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create match record: %w", err)
	}
	return nil
}

func (r *matchRepository) FindByID(id uuid.UUID) (*models.MatchRecord, error) {
	var record models.MatchRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("match %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find match record: %w", err)
	}
	return &record, nil
}

func (r *matchRepository) FindRecent(limit int) ([]models.MatchRecord, error) {
	var records []models.MatchRecord
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find match records: %w", err)
	}

	return records, nil
}
