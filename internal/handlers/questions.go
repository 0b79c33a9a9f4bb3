package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echoboard/backend/internal/models"
	"github.com/echoboard/backend/internal/scheduler"
	"github.com/echoboard/backend/internal/store"
)

type QuestionHandler struct {
	questions   store.QuestionStore
	communities store.CommunityStore
	users       store.UserStore
	scheduler   *scheduler.Service
}

func NewQuestionHandler(questions store.QuestionStore, communities store.CommunityStore, users store.UserStore, sched *scheduler.Service) *QuestionHandler {
	return &QuestionHandler{
		questions:   questions,
		communities: communities,
		users:       users,
		scheduler:   sched,
	}
}

// GetToday returns today's global question, or null when the scheduler
// has not run yet.
func (h *QuestionHandler) GetToday(c *gin.Context) {
	q, err := h.questions.Find(models.ScopeGlobal, nil, h.scheduler.EffectiveDate())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"question": nil, "message": "No question for today yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"question": q})
}

// GetQuestion returns a single question by ID
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question id"})
		return
	}

	q, err := h.questions.FindByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch question"})
		return
	}

	c.JSON(http.StatusOK, q)
}

// CreateQuestion lets an admin author the question for a scope/date ahead
// of the scheduler. Runs through the same ensure path, so a question that
// already exists for the tuple comes back with created=false instead of
// an error.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.users.FindByID(userID.(int))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(input.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question text is required"})
		return
	}
	if input.EffectiveDate != "" {
		// A malformed date would create a row no daily lookup ever matches.
		if _, err := time.Parse("2006-01-02", input.EffectiveDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "effective_date must be YYYY-MM-DD"})
			return
		}
	}
	if input.Scope == "" {
		input.Scope = models.ScopeGlobal
	}
	if input.Scope == models.ScopeCommunity {
		if input.CommunityID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "community_id is required for community questions"})
			return
		}
		if _, err := h.communities.FindByID(*input.CommunityID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Community not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch community"})
			return
		}
	}

	creatorID := user.ID
	result, err := h.scheduler.EnsureQuestion(input.Scope, input.CommunityID, input.EffectiveDate, strings.TrimSpace(input.Text), &creatorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// RunDailyQuestion is the cron trigger: it ensures today's global question
// plus one per active community. Guarded by CRON_SECRET when set.
func (h *QuestionHandler) RunDailyQuestion(c *gin.Context) {
	if secret := os.Getenv("CRON_SECRET"); secret != "" {
		if c.GetHeader("Authorization") != "Bearer "+secret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
	}

	global, err := h.scheduler.EnsureQuestion(models.ScopeGlobal, nil, "", "", nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create daily question"})
		return
	}

	communities, err := h.communities.ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list communities"})
		return
	}

	created := 0
	if global.Created {
		created++
	}
	for _, community := range communities {
		communityID := community.ID
		result, err := h.scheduler.EnsureQuestion(models.ScopeCommunity, &communityID, "", "", nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create daily question"})
			return
		}
		if result.Created {
			created++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"created":  created,
		"question": global.Question,
	})
}
