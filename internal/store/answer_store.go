package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/echoboard/backend/internal/models"
)

// AnswerWithLikes is an answer row annotated with its aggregated like
// count, produced by the most-liked listing query.
type AnswerWithLikes struct {
	models.Answer
	LikeCount int64
}

// AnswerStore defines the interface for answer persistence.
type AnswerStore interface {
	// FindActive returns the user's non-deleted answer to the question,
	// or ErrNotFound.
	FindActive(questionID, userID int) (*models.Answer, error)
	FindByID(id int) (*models.Answer, error)
	// Insert creates the answer. A second active answer for the same
	// (question, user) returns ErrConflict.
	Insert(a *models.Answer) error
	// SoftDelete marks the user's answer deleted. Deleting an answer that
	// is not the caller's, or is already deleted, returns ErrNotFound.
	SoftDelete(answerID, userID int) error
	// ListOthers returns active answers to the question by everyone except
	// excludeUserID, newest first (created_at desc, id desc).
	ListOthers(questionID, excludeUserID, limit, offset int) ([]models.Answer, error)
	// ListOthersMostLiked is ListOthers ordered by like count desc, ties
	// broken newest first then id desc. The count is aggregated in the
	// store so the ordering holds across pages.
	ListOthersMostLiked(questionID, excludeUserID, limit, offset int) ([]AnswerWithLikes, error)
	// ListByUser returns the user's own active answers, newest first.
	ListByUser(userID, limit, offset int) ([]models.Answer, error)
}

type answerStore struct {
	db *gorm.DB
}

func NewAnswerStore(db *gorm.DB) AnswerStore {
	return &answerStore{db: db}
}

func (s *answerStore) FindActive(questionID, userID int) (*models.Answer, error) {
	var a models.Answer
	err := s.db.
		Where("question_id = ? AND user_id = ? AND deleted_at IS NULL", questionID, userID).
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *answerStore) FindByID(id int) (*models.Answer, error) {
	var a models.Answer
	if err := s.db.First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *answerStore) Insert(a *models.Answer) error {
	return translate(s.db.Create(a).Error)
}

func (s *answerStore) SoftDelete(answerID, userID int) error {
	now := time.Now().UTC()
	res := s.db.Model(&models.Answer{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NULL", answerID, userID).
		Update("deleted_at", &now)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *answerStore) ListOthers(questionID, excludeUserID, limit, offset int) ([]models.Answer, error) {
	var answers []models.Answer
	err := s.db.
		Where("question_id = ? AND user_id <> ? AND deleted_at IS NULL", questionID, excludeUserID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&answers).Error
	if err != nil {
		return nil, translate(err)
	}
	return answers, nil
}

func (s *answerStore) ListOthersMostLiked(questionID, excludeUserID, limit, offset int) ([]AnswerWithLikes, error) {
	var rows []AnswerWithLikes
	err := s.db.
		Table("answers").
		Select("answers.*, COUNT(reactions.id) AS like_count").
		Joins("LEFT JOIN reactions ON reactions.answer_id = answers.id AND reactions.type = ?", models.ReactionLike).
		Where("answers.question_id = ? AND answers.user_id <> ? AND answers.deleted_at IS NULL", questionID, excludeUserID).
		Group("answers.id").
		Order("like_count DESC, answers.created_at DESC, answers.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (s *answerStore) ListByUser(userID, limit, offset int) ([]models.Answer, error) {
	var answers []models.Answer
	err := s.db.
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&answers).Error
	if err != nil {
		return nil, translate(err)
	}
	return answers, nil
}
