package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/echoboard/backend/internal/models"
	"github.com/echoboard/backend/internal/store"
	"github.com/echoboard/backend/internal/visibility"
)

type UserHandler struct {
	users   store.UserStore
	answers store.AnswerStore
}

func NewUserHandler(users store.UserStore, answers store.AnswerStore) *UserHandler {
	return &UserHandler{users: users, answers: answers}
}

// GetMyAnswers returns the caller's own answers, newest first. Gating
// never applies to reading one's own answers.
func (h *UserHandler) GetMyAnswers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, offset = visibility.ClampPage(limit, offset)

	answers, err := h.answers.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answers"})
		return
	}

	if answers == nil {
		answers = []models.Answer{}
	}

	c.JSON(http.StatusOK, gin.H{"answers": answers})
}

// UpdateProfile updates the caller's own profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Bio         *string `json:"bio"`
		Avatar      *string `json:"avatar"`
		IsAnonymous *bool   `json:"is_anonymous"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.FindByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.IsAnonymous != nil {
		user.IsAnonymous = *input.IsAnonymous
	}

	if err := h.users.Update(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}
