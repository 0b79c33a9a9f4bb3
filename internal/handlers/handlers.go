package handlers

import (
	"gorm.io/gorm"

	"github.com/echoboard/backend/internal/gating"
	"github.com/echoboard/backend/internal/scheduler"
	"github.com/echoboard/backend/internal/store"
	"github.com/echoboard/backend/internal/visibility"
)

// Handler combines all handler types
type Handler struct {
	Auth      *AuthHandler
	Question  *QuestionHandler
	Answer    *AnswerHandler
	Community *CommunityHandler
	Report    *ReportHandler
	User      *UserHandler
}

// Stores bundles the repositories the handlers run on. Tests swap in
// in-memory implementations.
type Stores struct {
	Users       store.UserStore
	Questions   store.QuestionStore
	Answers     store.AnswerStore
	Reactions   store.ReactionStore
	Communities store.CommunityStore
	Reports     store.ReportStore
}

// NewStores builds the gorm-backed repositories.
func NewStores(db *gorm.DB) Stores {
	return Stores{
		Users:       store.NewUserStore(db),
		Questions:   store.NewQuestionStore(db),
		Answers:     store.NewAnswerStore(db),
		Reactions:   store.NewReactionStore(db),
		Communities: store.NewCommunityStore(db),
		Reports:     store.NewReportStore(db),
	}
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(stores Stores) *Handler {
	sched := scheduler.New(stores.Questions)
	gate := gating.New(stores.Users, stores.Answers)
	feed := visibility.New(stores.Answers, stores.Reactions, stores.Users)

	return &Handler{
		Auth:      NewAuthHandler(stores.Users),
		Question:  NewQuestionHandler(stores.Questions, stores.Communities, stores.Users, sched),
		Answer:    NewAnswerHandler(stores.Questions, stores.Answers, stores.Reactions, stores.Users, gate, feed),
		Community: NewCommunityHandler(stores.Communities),
		Report:    NewReportHandler(stores.Reports),
		User:      NewUserHandler(stores.Users, stores.Answers),
	}
}
