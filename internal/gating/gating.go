package gating

import (
	"errors"
	"fmt"

	"github.com/echoboard/backend/internal/store"
)

// Engine decides whether a user may read other users' answers to a
// question. The rule: admins always pass, everyone else must have an
// active answer to that exact question.
//
// The check is a pure predicate re-evaluated from the store on every call.
// Nothing is cached, so an answer submitted just before a re-request
// unlocks immediately, and a soft-deleted answer locks again.
type Engine struct {
	users   store.UserStore
	answers store.AnswerStore
}

func New(users store.UserStore, answers store.AnswerStore) *Engine {
	return &Engine{users: users, answers: answers}
}

// CanViewAnswers reports whether userID may read others' answers to
// questionID. A false result with a nil error is the "answer required"
// outcome; errors are store faults and must not be read as a denial.
func (e *Engine) CanViewAnswers(userID, questionID int) (bool, error) {
	user, err := e.users.FindByID(userID)
	if err != nil {
		return false, fmt.Errorf("loading profile %d: %w", userID, err)
	}
	if user.IsAdmin {
		return true, nil
	}

	_, err = e.answers.FindActive(questionID, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("checking answer for user %d question %d: %w", userID, questionID, err)
}
