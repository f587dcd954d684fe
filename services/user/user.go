// Package user manages accounts, avatars and author subscriptions.
package user

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"foodgram-backend/models"
	"foodgram-backend/services/auth"
	"foodgram-backend/services/errs"
	"foodgram-backend/services/image"
	"foodgram-backend/services/presenter"
	"foodgram-backend/services/recipe"
	"foodgram-backend/services/trackLog"
	"foodgram-backend/structs"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ValidUsername reports whether value is an acceptable username. "me" is
// reserved for the /users/me/ route.
func ValidUsername(value string) bool {
	return usernamePattern.MatchString(value) && !strings.EqualFold(value, "me")
}

type UserService struct {
	db      *gorm.DB
	images  *image.Store
	recipes *recipe.RecipeService
}

func NewUserService(db *gorm.DB, images *image.Store, recipes *recipe.RecipeService) *UserService {
	return &UserService{db: db, images: images, recipes: recipes}
}

func (s *UserService) Get(userID uint) (models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return user, errs.ErrNotFound
		}
		return user, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return user, nil
}

func (s *UserService) Register(param structs.RegisterParam) (models.User, error) {
	email := strings.TrimSpace(param.Email)
	username := strings.TrimSpace(param.Username)

	v := &errs.ValidationError{}
	if !ValidUsername(username) {
		v.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	var count int
	if err := s.db.Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(email)).Count(&count).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		v.Add("email", "user with this email already exists.")
	}
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		v.Add("username", "A user with that username already exists.")
	}
	if !v.Empty() {
		return models.User{}, v
	}

	hash, err := auth.HashPassword(param.Password)
	if err != nil {
		return models.User{}, err
	}
	now := time.Now().UTC()
	user := models.User{
		Email:        email,
		Username:     username,
		FirstName:    strings.TrimSpace(param.FirstName),
		LastName:     strings.TrimSpace(param.LastName),
		PasswordHash: hash,
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// List returns one page of users ordered by username as seen by viewerID.
func (s *UserService) List(viewerID uint, page structs.PageParam, defaultLimit int) ([]structs.UserResponse, int, error) {
	var count int
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	_, limit, offset := page.Normalize(defaultLimit)
	var users []models.User
	if err := s.db.Order("username").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	subscribed, err := s.subscribedTo(viewerID, users)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]structs.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, presenter.User(user, subscribed[user.ID]))
	}
	return responses, count, nil
}

func (s *UserService) Profile(viewerID, userID uint) (structs.UserResponse, error) {
	user, err := s.Get(userID)
	if err != nil {
		return structs.UserResponse{}, err
	}
	subscribed, err := s.subscribedTo(viewerID, []models.User{user})
	if err != nil {
		return structs.UserResponse{}, err
	}
	return presenter.User(user, subscribed[user.ID]), nil
}

func (s *UserService) SetAvatar(userID uint, param structs.AvatarParam) (structs.AvatarResponse, error) {
	user, err := s.Get(userID)
	if err != nil {
		return structs.AvatarResponse{}, err
	}
	url, err := s.images.Save("avatar", image.AvatarDir, param.Avatar)
	if err != nil {
		return structs.AvatarResponse{}, err
	}
	if err := s.db.Model(&user).Update("avatar", url).Error; err != nil {
		s.discardImage(url)
		return structs.AvatarResponse{}, fmt.Errorf("failed to save avatar: %w", err)
	}
	return structs.AvatarResponse{Avatar: url}, nil
}

func (s *UserService) DeleteAvatar(userID uint) error {
	user, err := s.Get(userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return errs.NewNotFound("There is no avatar to delete.")
	}
	old := user.Avatar
	if err := s.db.Model(&user).Update("avatar", "").Error; err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	s.discardImage(old)
	return nil
}

func (s *UserService) SetPassword(userID uint, param structs.SetPasswordParam) error {
	user, err := s.Get(userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, param.CurrentPassword) {
		return errs.NewValidation("current_password", "Invalid password.")
	}
	hash, err := auth.HashPassword(param.NewPassword)
	if err != nil {
		return err
	}
	tx := s.db.Begin()
	if err := tx.Error; err != nil {
		return err
	}
	if err := tx.Model(&user).Update("password_hash", hash).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := auth.RevokeTokens(tx, user.ID); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// subscribedTo reports which of users viewerID follows.
func (s *UserService) subscribedTo(viewerID uint, users []models.User) (map[uint]bool, error) {
	subscribed := map[uint]bool{}
	if viewerID == 0 || len(users) == 0 {
		return subscribed, nil
	}
	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	var authorIDs []uint
	err := s.db.Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN (?)", viewerID, ids).
		Pluck("author_id", &authorIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, id := range authorIDs {
		subscribed[id] = true
	}
	return subscribed, nil
}

func (s *UserService) discardImage(url string) {
	if err := s.images.Delete(url); err != nil {
		trackLog.WithFields(logrus.Fields{"image": url, "error_message": err.Error()}).Warn("failed to delete avatar")
	}
}

// ParseRecipesLimit reads the recipes_limit query value; anything that is not
// a positive integer means no limit.
func ParseRecipesLimit(value string) int {
	limit, err := strconv.Atoi(value)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
