package user

import (
	"fmt"

	"foodgram-backend/models"
	"foodgram-backend/services/errs"
	"foodgram-backend/services/presenter"
	"foodgram-backend/structs"
)

// Subscriptions returns one page of the authors userID follows, each with up
// to recipesLimit of their newest recipes (0 means all).
func (s *UserService) Subscriptions(userID uint, page structs.PageParam, recipesLimit, defaultLimit int) ([]structs.SubscriptionResponse, int, error) {
	following := s.db.Table("subscriptions").Select("author_id").Where("user_id = ?", userID).QueryExpr()
	query := s.db.Model(&models.User{}).Where("id IN (?)", following)

	var count int
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	_, limit, offset := page.Normalize(defaultLimit)
	var authors []models.User
	if err := query.Order("username").Offset(offset).Limit(limit).Find(&authors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	responses := make([]structs.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		response, err := s.subscription(author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, response)
	}
	return responses, count, nil
}

// Subscribe makes userID follow authorID.
func (s *UserService) Subscribe(userID, authorID uint, recipesLimit int) (structs.SubscriptionResponse, error) {
	author, err := s.Get(authorID)
	if err != nil {
		return structs.SubscriptionResponse{}, err
	}
	if author.ID == userID {
		return structs.SubscriptionResponse{}, errs.NewConflict("You can't subscribe to yourself.")
	}

	var count int
	err = s.db.Model(&models.Subscription{}).Where("user_id = ? AND author_id = ?", userID, author.ID).Count(&count).Error
	if err != nil {
		return structs.SubscriptionResponse{}, fmt.Errorf("failed to check subscription: %w", err)
	}
	if count > 0 {
		return structs.SubscriptionResponse{}, errs.NewConflict("You are already subscribed for this user.")
	}
	if err := s.db.Create(&models.Subscription{UserID: userID, AuthorID: author.ID}).Error; err != nil {
		return structs.SubscriptionResponse{}, fmt.Errorf("failed to subscribe: %w", err)
	}
	return s.subscription(author, recipesLimit)
}

func (s *UserService) Unsubscribe(userID, authorID uint) error {
	author, err := s.Get(authorID)
	if err != nil {
		return err
	}
	result := s.db.Where("user_id = ? AND author_id = ?", userID, author.ID).Delete(&models.Subscription{})
	if result.Error != nil {
		return fmt.Errorf("failed to unsubscribe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewConflict("You are not subscribed to this user.")
	}
	return nil
}

// subscription renders a followed author; the follower is subscribed by definition.
func (s *UserService) subscription(author models.User, recipesLimit int) (structs.SubscriptionResponse, error) {
	recipes, err := s.recipes.ShortRecipes(author.ID, recipesLimit)
	if err != nil {
		return structs.SubscriptionResponse{}, err
	}
	recipesCount, err := s.recipes.CountByAuthor(author.ID)
	if err != nil {
		return structs.SubscriptionResponse{}, err
	}
	return structs.SubscriptionResponse{
		UserResponse: presenter.User(author, true),
		Recipes:      recipes,
		RecipesCount: recipesCount,
	}, nil
}
