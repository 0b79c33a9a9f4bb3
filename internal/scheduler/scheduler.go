package scheduler

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/echoboard/backend/internal/models"
	"github.com/echoboard/backend/internal/store"
)

// fallbackQuestions is the pool drawn from when no admin-authored text is
// supplied for a system-generated question.
var fallbackQuestions = []string{
	"What made you smile today?",
	"What's one thing you're grateful for?",
	"What did you learn today?",
	"What's the best part of your day so far?",
	"What are you looking forward to tomorrow?",
}

// Result is the outcome of EnsureQuestion. Created is true only for the
// invocation that actually inserted the row.
type Result struct {
	Question *models.Question `json:"question"`
	Created  bool             `json:"created"`
}

// Service guarantees one question per (scope, community, date). It is safe
// to invoke repeatedly and concurrently: creation races are resolved by
// the question store's uniqueness constraint, never by a process lock.
type Service struct {
	questions store.QuestionStore

	now   func() time.Time
	randn func(n int) int
}

func New(questions store.QuestionStore) *Service {
	return &Service{
		questions: questions,
		now:       time.Now,
		randn:     rand.Intn,
	}
}

// EffectiveDate returns today's UTC calendar date as YYYY-MM-DD. The daily
// boundary is UTC for every scope; a per-community timezone would be a
// policy change, not a configuration knob.
func (s *Service) EffectiveDate() string {
	return s.now().UTC().Format("2006-01-02")
}

// EnsureQuestion returns the question for (scope, community, date),
// creating it if absent. date defaults to today (UTC) when empty; text
// defaults to a random pick from the fallback pool. createdBy is nil for
// system-generated questions.
//
// If a concurrent invocation wins the insert race, the store rejects the
// duplicate and the now-existing row is re-fetched and returned with
// Created=false. Only store faults unrelated to that race propagate.
func (s *Service) EnsureQuestion(scope string, communityID *int, date, text string, createdBy *int) (*Result, error) {
	if scope != models.ScopeGlobal && scope != models.ScopeCommunity {
		return nil, fmt.Errorf("unknown question scope %q", scope)
	}
	if (scope == models.ScopeCommunity) != (communityID != nil) {
		return nil, fmt.Errorf("community id must be set exactly for community scope")
	}
	if date == "" {
		date = s.EffectiveDate()
	}

	existing, err := s.questions.Find(scope, communityID, date)
	if err == nil {
		return &Result{Question: existing, Created: false}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("looking up question for %s/%s: %w", scope, date, err)
	}

	if text == "" {
		text = fallbackQuestions[s.randn(len(fallbackQuestions))]
	}

	q := &models.Question{
		Scope:         scope,
		CommunityID:   communityID,
		EffectiveDate: date,
		Text:          text,
		CreatedBy:     createdBy,
	}

	err = s.questions.Insert(q)
	if err == nil {
		return &Result{Question: q, Created: true}, nil
	}
	if !errors.Is(err, store.ErrConflict) {
		return nil, fmt.Errorf("inserting question for %s/%s: %w", scope, date, err)
	}

	// Lost the race: another invocation created the row between our
	// lookup and insert. Return the winner.
	winner, err := s.questions.Find(scope, communityID, date)
	if err != nil {
		return nil, fmt.Errorf("re-reading question after conflict for %s/%s: %w", scope, date, err)
	}
	return &Result{Question: winner, Created: false}, nil
}
