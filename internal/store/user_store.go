package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/echoboard/backend/internal/models"
)

// UserStore defines the interface for profile persistence.
type UserStore interface {
	FindByID(id int) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	// FindByIDs returns the users keyed by id. Missing ids are simply
	// absent from the map.
	FindByIDs(ids []int) (map[int]models.User, error)
	// Insert creates a user. A taken username or email returns ErrConflict.
	Insert(u *models.User) error
	Update(u *models.User) error
	// MarkOnboarded stamps onboarding_completed_at if it is still unset.
	MarkOnboarded(userID int, at time.Time) error
}

type userStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) UserStore {
	return &userStore{db: db}
}

func (s *userStore) FindByID(id int) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *userStore) FindByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *userStore) FindByIDs(ids []int) (map[int]models.User, error) {
	users := make(map[int]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var rows []models.User
	if err := s.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	for _, u := range rows {
		users[u.ID] = u
	}
	return users, nil
}

func (s *userStore) Insert(u *models.User) error {
	return translate(s.db.Create(u).Error)
}

func (s *userStore) Update(u *models.User) error {
	return translate(s.db.Save(u).Error)
}

func (s *userStore) MarkOnboarded(userID int, at time.Time) error {
	err := s.db.Model(&models.User{}).
		Where("id = ? AND onboarding_completed_at IS NULL", userID).
		Update("onboarding_completed_at", &at).Error
	return translate(err)
}
