package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echoboard/backend/internal/gating"
	"github.com/echoboard/backend/internal/models"
	"github.com/echoboard/backend/internal/store"
	"github.com/echoboard/backend/internal/visibility"
)

type AnswerHandler struct {
	questions store.QuestionStore
	answers   store.AnswerStore
	reactions store.ReactionStore
	users     store.UserStore
	gate      *gating.Engine
	feed      *visibility.Service
}

func NewAnswerHandler(
	questions store.QuestionStore,
	answers store.AnswerStore,
	reactions store.ReactionStore,
	users store.UserStore,
	gate *gating.Engine,
	feed *visibility.Service,
) *AnswerHandler {
	return &AnswerHandler{
		questions: questions,
		answers:   answers,
		reactions: reactions,
		users:     users,
		gate:      gate,
		feed:      feed,
	}
}

// currentUserID extracts the authenticated user id set by the auth
// middleware.
func currentUserID(c *gin.Context) (int, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch id := v.(type) {
	case int:
		return id, true
	case float64:
		return int(id), true
	}
	return 0, false
}

// ListAnswers returns other users' answers to a question. The caller must
// have answered it first (admins excepted); a denial is the distinct
// "answer required" outcome so clients can prompt for an answer rather
// than treat it as a permissions failure.
func (h *AnswerHandler) ListAnswers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question id"})
		return
	}

	if _, err := h.questions.FindByID(questionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		// Store fault, not an absent row: retryable, never a 404.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch question"})
		return
	}

	allowed, err := h.gate.CanViewAnswers(userID, questionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Answer required",
			"message": "You must answer this question before viewing others' answers",
		})
		return
	}

	sort := c.DefaultQuery("sort", visibility.SortNewest)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	feed, err := h.feed.ListOthersAnswers(userID, questionID, sort, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answers"})
		return
	}

	// If no answers, return empty array not null
	if feed == nil {
		feed = []visibility.AnnotatedAnswer{}
	}

	c.JSON(http.StatusOK, gin.H{"answers": feed})
}

// CreateAnswer submits the user's answer to a question. The rate-limit
// middleware has already run for this route.
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question id"})
		return
	}

	var input models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answer text is required"})
		return
	}

	if _, err := h.questions.FindByID(questionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch question"})
		return
	}

	answer := models.Answer{
		QuestionID: questionID,
		UserID:     userID,
		Text:       text,
	}

	if err := h.answers.Insert(&answer); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// The unique constraint is the serialization point: a
			// double-click lands here, not in a second row.
			c.JSON(http.StatusConflict, gin.H{"error": "You have already answered this question"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create answer"})
		return
	}

	// First accepted answer completes onboarding.
	if err := h.users.MarkOnboarded(userID, time.Now().UTC()); err != nil {
		c.Error(err) //nolint:errcheck // logged by gin, the answer is already in
	}

	c.JSON(http.StatusCreated, answer)
}

// DeleteAnswer soft-deletes the caller's own answer.
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	answerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer id"})
		return
	}

	if err := h.answers.SoftDelete(answerID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}

// LikeAnswer records a like. Repeat likes surface the true outcome (409);
// clients treat it as a no-op.
func (h *AnswerHandler) LikeAnswer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	answerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer id"})
		return
	}

	answer, err := h.answers.FindByID(answerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answer"})
		return
	}
	if !answer.Active() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	if err := h.reactions.Insert(answerID, userID, models.ReactionLike); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Already liked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Like recorded"})
}

// UnlikeAnswer removes a like. Unliking an answer that was never liked is
// a successful no-op.
func (h *AnswerHandler) UnlikeAnswer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	answerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer id"})
		return
	}

	if err := h.reactions.Delete(answerID, userID, models.ReactionLike); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Like removed"})
}
