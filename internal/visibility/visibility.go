package visibility

import (
	"fmt"
	"time"

	"github.com/echoboard/backend/internal/models"
	"github.com/echoboard/backend/internal/store"
)

// Sort orders for the feed.
const (
	SortNewest    = "newest"
	SortMostLiked = "most_liked"
)

// Page size bounds. Requests above MaxPageSize are clamped, never refused.
const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// AnnotatedAnswer is one feed entry: the answer plus author display, like
// count and whether the requesting user has liked it.
type AnnotatedAnswer struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	UserID    int       `json:"user_id"`
	Author    string    `json:"author"`
	Anonymous bool      `json:"anonymous"`
	Avatar    string    `json:"avatar,omitempty"`
	LikeCount int64     `json:"like_count"`
	LikedByMe bool      `json:"liked_by_me"`
	CreatedAt time.Time `json:"created_at"`
}

// Service produces the others'-answers feed. Callers are expected to have
// passed the gating check for the question already; the requester's own
// answer and soft-deleted answers are excluded here unconditionally.
type Service struct {
	answers   store.AnswerStore
	reactions store.ReactionStore
	users     store.UserStore
}

func New(answers store.AnswerStore, reactions store.ReactionStore, users store.UserStore) *Service {
	return &Service{answers: answers, reactions: reactions, users: users}
}

// ClampPage normalizes a requested page to the supported bounds.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListOthersAnswers returns a page of other users' answers to questionID,
// ordered by sort (newest unless most_liked), annotated with author
// display and like state for userID.
func (s *Service) ListOthersAnswers(userID, questionID int, sort string, limit, offset int) ([]AnnotatedAnswer, error) {
	limit, offset = ClampPage(limit, offset)

	var (
		answers []models.Answer
		counts  map[int]int64
		err     error
	)

	if sort == SortMostLiked {
		rows, err := s.answers.ListOthersMostLiked(questionID, userID, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("listing answers by likes for question %d: %w", questionID, err)
		}
		counts = make(map[int]int64, len(rows))
		for _, row := range rows {
			answers = append(answers, row.Answer)
			counts[row.Answer.ID] = row.LikeCount
		}
	} else {
		answers, err = s.answers.ListOthers(questionID, userID, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("listing answers for question %d: %w", questionID, err)
		}
		counts, err = s.reactions.CountForAnswers(answerIDs(answers))
		if err != nil {
			return nil, fmt.Errorf("counting likes for question %d: %w", questionID, err)
		}
	}

	ids := answerIDs(answers)

	liked, err := s.reactions.ExistsForAnswers(ids, userID)
	if err != nil {
		return nil, fmt.Errorf("checking viewer likes for question %d: %w", questionID, err)
	}

	authors, err := s.users.FindByIDs(authorIDs(answers))
	if err != nil {
		return nil, fmt.Errorf("loading authors for question %d: %w", questionID, err)
	}

	feed := make([]AnnotatedAnswer, 0, len(answers))
	for _, a := range answers {
		entry := AnnotatedAnswer{
			ID:        a.ID,
			Text:      a.Text,
			UserID:    a.UserID,
			LikeCount: counts[a.ID],
			LikedByMe: liked[a.ID],
			CreatedAt: a.CreatedAt,
		}
		if author, ok := authors[a.UserID]; ok {
			if author.IsAnonymous {
				// Never leak the real username for anonymous authors.
				entry.Author = models.AnonymousLabel
				entry.Anonymous = true
			} else {
				entry.Author = author.Username
				entry.Avatar = author.Avatar
			}
		}
		feed = append(feed, entry)
	}

	return feed, nil
}

func answerIDs(answers []models.Answer) []int {
	ids := make([]int, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.ID)
	}
	return ids
}

func authorIDs(answers []models.Answer) []int {
	seen := make(map[int]bool, len(answers))
	ids := make([]int, 0, len(answers))
	for _, a := range answers {
		if !seen[a.UserID] {
			seen[a.UserID] = true
			ids = append(ids, a.UserID)
		}
	}
	return ids
}
