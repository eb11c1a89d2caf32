package repository

import (
	"survivor_draft/internal/models"
	"survivor_draft/internal/storage"
)

// MatchRepository 結束對局的存檔查詢介面
type MatchRepository interface {
	Create(record *models.MatchRecord) error
	FindRecent(limit int) ([]models.MatchRecord, error)
}

type matchRepository struct {
	db *storage.PostgresDB
}

func NewMatchRepository(db *storage.PostgresDB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Create(record *models.MatchRecord) error {
	return r.db.Create(record).Error
}

// FindRecent 查詢最近結束的對局，由新到舊
func (r *matchRepository) FindRecent(limit int) ([]models.MatchRecord, error) {
	var records []models.MatchRecord
	err := r.db.Order("finished_at DESC").Limit(limit).Find(&records).Error
	return records, err
}
