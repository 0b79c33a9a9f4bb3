package store

import (
	"strconv"

	"gorm.io/gorm"

	"github.com/echoboard/backend/internal/models"
)

// CommunityStore defines the interface for community persistence.
type CommunityStore interface {
	// List returns non-deleted communities, newest first, optionally
	// filtered by a name/slug substring.
	List(query string, limit, offset int) ([]models.Community, error)
	// FindByIDOrSlug accepts a numeric id or a slug.
	FindByIDOrSlug(idOrSlug string) (*models.Community, error)
	FindByID(id int) (*models.Community, error)
	// ListActive returns every non-deleted community (for the daily
	// question fan-out).
	ListActive() ([]models.Community, error)
	// Insert creates a community. A taken slug returns ErrConflict.
	Insert(c *models.Community) error
	// Members returns the memberships of a community with profiles loaded.
	Members(communityID int) ([]models.Membership, error)
	// Join adds a membership. Joining twice returns ErrConflict.
	Join(communityID, userID int, role string) error
}

type communityStore struct {
	db *gorm.DB
}

func NewCommunityStore(db *gorm.DB) CommunityStore {
	return &communityStore{db: db}
}

func (s *communityStore) List(query string, limit, offset int) ([]models.Community, error) {
	tx := s.db.Where("deleted_at IS NULL")
	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where("name ILIKE ? OR slug ILIKE ?", pattern, pattern)
	}

	var communities []models.Community
	err := tx.Order("created_at DESC").Limit(limit).Offset(offset).Find(&communities).Error
	if err != nil {
		return nil, translate(err)
	}
	return communities, nil
}

func (s *communityStore) FindByIDOrSlug(idOrSlug string) (*models.Community, error) {
	var c models.Community
	tx := s.db.Where("deleted_at IS NULL")
	if id, err := strconv.Atoi(idOrSlug); err == nil {
		tx = tx.Where("id = ? OR slug = ?", id, idOrSlug)
	} else {
		tx = tx.Where("slug = ?", idOrSlug)
	}
	if err := tx.First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *communityStore) FindByID(id int) (*models.Community, error) {
	var c models.Community
	if err := s.db.Where("deleted_at IS NULL").First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *communityStore) ListActive() ([]models.Community, error) {
	var communities []models.Community
	if err := s.db.Where("deleted_at IS NULL").Find(&communities).Error; err != nil {
		return nil, translate(err)
	}
	return communities, nil
}

func (s *communityStore) Insert(c *models.Community) error {
	return translate(s.db.Create(c).Error)
}

func (s *communityStore) Members(communityID int) ([]models.Membership, error) {
	var members []models.Membership
	err := s.db.Where("community_id = ?", communityID).Preload("User").Find(&members).Error
	if err != nil {
		return nil, translate(err)
	}
	return members, nil
}

func (s *communityStore) Join(communityID, userID int, role string) error {
	m := models.Membership{
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
	}
	return translate(s.db.Create(&m).Error)
}
