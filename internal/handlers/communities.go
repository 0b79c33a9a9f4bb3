package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/echoboard/backend/internal/models"
	"github.com/echoboard/backend/internal/store"
	"github.com/echoboard/backend/internal/visibility"
)

type CommunityHandler struct {
	communities store.CommunityStore
}

func NewCommunityHandler(communities store.CommunityStore) *CommunityHandler {
	return &CommunityHandler{communities: communities}
}

var slugCleanup = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := slugCleanup.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// GetCommunities lists communities, optionally filtered by a name/slug
// substring
func (h *CommunityHandler) GetCommunities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, offset = visibility.ClampPage(limit, offset)

	communities, err := h.communities.List(c.Query("q"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch communities"})
		return
	}

	if communities == nil {
		communities = []models.Community{}
	}

	c.JSON(http.StatusOK, gin.H{"communities": communities})
}

// CreateCommunity creates a new community owned by the caller
func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateCommunityRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Community name is required"})
		return
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = slugify(name)
	}

	viz := input.Visibility
	if viz == "" {
		viz = models.VisibilityOpen
	}

	community := models.Community{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		Rules:       strings.TrimSpace(input.Rules),
		Visibility:  viz,
		OwnerID:     userID,
	}

	if err := h.communities.Insert(&community); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Community slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create community"})
		return
	}

	// The owner is a member from the start.
	if err := h.communities.Join(community.ID, userID, models.RoleOwner); err != nil {
		c.Error(err) //nolint:errcheck
	}

	c.JSON(http.StatusCreated, community)
}

// lookupCommunity resolves the :id param and writes the error response on
// failure. An absent community is a 404; a store fault is a 500, never a
// false not-found.
func (h *CommunityHandler) lookupCommunity(c *gin.Context) (*models.Community, bool) {
	community, err := h.communities.FindByIDOrSlug(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Community not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch community"})
		}
		return nil, false
	}
	return community, true
}

// GetCommunity returns a community by id or slug
func (h *CommunityHandler) GetCommunity(c *gin.Context) {
	community, ok := h.lookupCommunity(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, community)
}

// GetMembers returns a community's members
func (h *CommunityHandler) GetMembers(c *gin.Context) {
	community, ok := h.lookupCommunity(c)
	if !ok {
		return
	}

	memberships, err := h.communities.Members(community.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	var members []gin.H
	for _, m := range memberships {
		members = append(members, gin.H{
			"role":      m.Role,
			"joined_at": m.JoinedAt,
			"profile": gin.H{
				"id":       m.User.ID,
				"username": m.User.Username,
				"avatar":   m.User.Avatar,
			},
		})
	}
	if members == nil {
		members = []gin.H{}
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// JoinCommunity adds the caller to a community
func (h *CommunityHandler) JoinCommunity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	community, ok := h.lookupCommunity(c)
	if !ok {
		return
	}

	if err := h.communities.Join(community.ID, userID, models.RoleMember); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Already a member"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join community"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined community"})
}
