package store

import (
	"gorm.io/gorm"

	"github.com/echoboard/backend/internal/models"
)

// ReactionStore defines the interface for like persistence.
type ReactionStore interface {
	// Insert records a like. Liking the same answer twice returns
	// ErrConflict.
	Insert(answerID, userID int, reactionType string) error
	// Delete removes a like. Removing a like that does not exist is a
	// successful no-op.
	Delete(answerID, userID int, reactionType string) error
	// CountForAnswers returns like counts keyed by answer id. Answers
	// with no likes are absent from the map.
	CountForAnswers(answerIDs []int) (map[int]int64, error)
	// ExistsForAnswers reports which of the given answers the user has
	// liked.
	ExistsForAnswers(answerIDs []int, userID int) (map[int]bool, error)
}

type reactionStore struct {
	db *gorm.DB
}

func NewReactionStore(db *gorm.DB) ReactionStore {
	return &reactionStore{db: db}
}

func (s *reactionStore) Insert(answerID, userID int, reactionType string) error {
	r := models.Reaction{
		AnswerID: answerID,
		UserID:   userID,
		Type:     reactionType,
	}
	return translate(s.db.Create(&r).Error)
}

func (s *reactionStore) Delete(answerID, userID int, reactionType string) error {
	err := s.db.
		Where("answer_id = ? AND user_id = ? AND type = ?", answerID, userID, reactionType).
		Delete(&models.Reaction{}).Error
	return translate(err)
}

func (s *reactionStore) CountForAnswers(answerIDs []int) (map[int]int64, error) {
	counts := make(map[int]int64, len(answerIDs))
	if len(answerIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AnswerID int
		N        int64
	}
	err := s.db.Model(&models.Reaction{}).
		Select("answer_id, COUNT(*) AS n").
		Where("answer_id IN ? AND type = ?", answerIDs, models.ReactionLike).
		Group("answer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	for _, row := range rows {
		counts[row.AnswerID] = row.N
	}
	return counts, nil
}

func (s *reactionStore) ExistsForAnswers(answerIDs []int, userID int) (map[int]bool, error) {
	liked := make(map[int]bool, len(answerIDs))
	if len(answerIDs) == 0 {
		return liked, nil
	}

	var ids []int
	err := s.db.Model(&models.Reaction{}).
		Where("answer_id IN ? AND user_id = ? AND type = ?", answerIDs, userID, models.ReactionLike).
		Pluck("answer_id", &ids).Error
	if err != nil {
		return nil, translate(err)
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
