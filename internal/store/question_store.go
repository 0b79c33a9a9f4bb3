package store

import (
	"gorm.io/gorm"

	"github.com/echoboard/backend/internal/models"
)

// QuestionStore defines the interface for question persistence.
type QuestionStore interface {
	// Find returns the question for (scope, community-or-nil, date), or
	// ErrNotFound.
	Find(scope string, communityID *int, date string) (*models.Question, error)
	FindByID(id int) (*models.Question, error)
	// Insert creates the question. A lost creation race returns ErrConflict.
	Insert(q *models.Question) error
}

type questionStore struct {
	db *gorm.DB
}

func NewQuestionStore(db *gorm.DB) QuestionStore {
	return &questionStore{db: db}
}

func (s *questionStore) Find(scope string, communityID *int, date string) (*models.Question, error) {
	var q models.Question
	tx := s.db.Where("scope = ? AND effective_date = ?", scope, date)
	if communityID != nil {
		tx = tx.Where("community_id = ?", *communityID)
	} else {
		tx = tx.Where("community_id IS NULL")
	}
	if err := tx.First(&q).Error; err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (s *questionStore) FindByID(id int) (*models.Question, error) {
	var q models.Question
	if err := s.db.First(&q, id).Error; err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (s *questionStore) Insert(q *models.Question) error {
	return translate(s.db.Create(q).Error)
}
