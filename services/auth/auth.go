// Package auth handles password hashing, bearer tokens and login.
package auth

import (
	"fmt"
	"strings"

	"foodgram-backend/models"
	"foodgram-backend/services/errs"
	"foodgram-backend/structs"

	"github.com/jinzhu/gorm"
)

type AuthService struct {
	db     *gorm.DB
	tokens *TokenManager
}

func NewAuthService(db *gorm.DB, tokens *TokenManager) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// Login exchanges an email and password for a token.
func (s *AuthService) Login(param structs.LoginParam) (structs.TokenResponse, error) {
	var user models.User
	err := s.db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(param.Email))).First(&user).Error
	if err != nil && !gorm.IsRecordNotFoundError(err) {
		return structs.TokenResponse{}, fmt.Errorf("failed to load user: %w", err)
	}
	if err != nil || !CheckPassword(user.PasswordHash, param.Password) {
		return structs.TokenResponse{}, errs.NewValidation("non_field_errors", "Unable to log in with provided credentials.")
	}

	token, err := s.tokens.Issue(user.ID, user.TokenVersion)
	if err != nil {
		return structs.TokenResponse{}, err
	}
	return structs.TokenResponse{AuthToken: token}, nil
}

// Authenticate resolves a token to its user. Unknown users and revoked tokens
// are rejected like bad tokens.
func (s *AuthService) Authenticate(token string) (models.User, error) {
	var user models.User
	userID, version, err := s.tokens.Parse(token)
	if err != nil {
		return user, err
	}
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return user, fmt.Errorf("%w: user not found", errs.ErrAuth)
		}
		return user, fmt.Errorf("failed to load user: %w", err)
	}
	if user.TokenVersion != version {
		return models.User{}, fmt.Errorf("%w: token revoked", errs.ErrAuth)
	}
	return user, nil
}

// Logout revokes every token issued to userID.
func (s *AuthService) Logout(userID uint) error {
	return RevokeTokens(s.db, userID)
}

// RevokeTokens bumps the user's token version so earlier tokens stop authenticating.
func RevokeTokens(db *gorm.DB, userID uint) error {
	err := db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}
