package store

import (
	"gorm.io/gorm"

	"github.com/echoboard/backend/internal/models"
)

// ReportStore defines the interface for report intake. Reports are a pure
// append: a user may file the same report twice, review happens elsewhere.
type ReportStore interface {
	Insert(r *models.Report) error
}

type reportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) ReportStore {
	return &reportStore{db: db}
}

func (s *reportStore) Insert(r *models.Report) error {
	return translate(s.db.Create(r).Error)
}
