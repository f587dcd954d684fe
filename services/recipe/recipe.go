// Package recipe implements recipe authoring and the per-user favorite and
// shopping cart relations.
package recipe

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"foodgram-backend/models"
	"foodgram-backend/services/errs"
	"foodgram-backend/services/image"
	"foodgram-backend/services/ingredient"
	"foodgram-backend/services/presenter"
	"foodgram-backend/services/tag"
	"foodgram-backend/services/trackLog"
	"foodgram-backend/structs"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	gormbulk "github.com/t-tiger/gorm-bulk-insert/v2"
)

const (
	MinAmount      = 1
	MaxAmount      = 32000
	MinCookingTime = 1
	MaxCookingTime = 32000
	nameMaxLength  = 256

	shortLinkSize     = 8
	shortLinkChars    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shortLinkAttempts = 10

	bulkChunkSize = 1000
)

type RecipeService struct {
	db          *gorm.DB
	images      *image.Store
	ingredients *ingredient.IngredientService
	tags        *tag.TagService
}

func NewRecipeService(db *gorm.DB, images *image.Store) *RecipeService {
	return &RecipeService{
		db:          db,
		images:      images,
		ingredients: ingredient.NewIngredientService(db),
		tags:        tag.NewTagService(db),
	}
}

func (s *RecipeService) Get(recipeID uint) (models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.Where("id = ?", recipeID).First(&recipe).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return recipe, errs.ErrNotFound
		}
		return recipe, fmt.Errorf("failed to get recipe %d: %w", recipeID, err)
	}
	return recipe, nil
}

func (s *RecipeService) ByShortLinkToken(token string) (models.Recipe, error) {
	var recipe models.Recipe
	if token == "" {
		return recipe, errs.ErrNotFound
	}
	if err := s.db.Where("short_link_token = ?", token).First(&recipe).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return recipe, errs.ErrNotFound
		}
		return recipe, fmt.Errorf("failed to resolve short link: %w", err)
	}
	return recipe, nil
}

// Create validates param, stores the image and writes the recipe with its
// ingredient and tag rows in one transaction.
func (s *RecipeService) Create(authorID uint, param structs.RecipeParam) (models.Recipe, error) {
	if err := s.validate(param, 0, true); err != nil {
		return models.Recipe{}, err
	}
	token, err := s.newShortLinkToken()
	if err != nil {
		return models.Recipe{}, err
	}
	imageURL, err := s.images.Save("image", image.RecipeDir, param.Image)
	if err != nil {
		return models.Recipe{}, err
	}

	now := time.Now().UTC()
	recipe := models.Recipe{
		AuthorID:       authorID,
		Name:           strings.TrimSpace(param.Name),
		Image:          imageURL,
		Text:           strings.TrimSpace(param.Text),
		CookingTime:    *param.CookingTime,
		ShortLinkToken: token,
		PubDate:        &now,
	}

	tx := s.db.Begin()
	if err := tx.Error; err != nil {
		s.discardImage(imageURL)
		return models.Recipe{}, err
	}
	if err := tx.Create(&recipe).Error; err != nil {
		tx.Rollback()
		s.discardImage(imageURL)
		return models.Recipe{}, fmt.Errorf("failed to create recipe: %w", err)
	}
	if err := writeRelations(tx, recipe.ID, param); err != nil {
		tx.Rollback()
		s.discardImage(imageURL)
		return models.Recipe{}, err
	}
	if err := tx.Commit().Error; err != nil {
		s.discardImage(imageURL)
		return models.Recipe{}, fmt.Errorf("failed to commit recipe: %w", err)
	}
	return recipe, nil
}

// Update replaces the ingredient and tag sets of a recipe owned by userID.
// Name, text, cooking time and image change only when present in param.
func (s *RecipeService) Update(userID, recipeID uint, param structs.RecipeParam) (models.Recipe, error) {
	recipe, err := s.Get(recipeID)
	if err != nil {
		return recipe, err
	}
	if recipe.AuthorID != userID {
		return recipe, errs.ErrForbidden
	}
	if err := s.validate(param, recipe.ID, false); err != nil {
		return recipe, err
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(param.Name); name != "" {
		updates["name"] = name
	}
	if text := strings.TrimSpace(param.Text); text != "" {
		updates["text"] = text
	}
	if param.CookingTime != nil {
		updates["cooking_time"] = *param.CookingTime
	}
	oldImage := ""
	if param.Image != "" {
		imageURL, err := s.images.Save("image", image.RecipeDir, param.Image)
		if err != nil {
			return recipe, err
		}
		oldImage = recipe.Image
		updates["image"] = imageURL
	}

	tx := s.db.Begin()
	if err := tx.Error; err != nil {
		return recipe, err
	}
	rollback := func(err error) (models.Recipe, error) {
		tx.Rollback()
		if imageURL, ok := updates["image"].(string); ok {
			s.discardImage(imageURL)
		}
		return recipe, err
	}
	if len(updates) > 0 {
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return rollback(fmt.Errorf("failed to update recipe: %w", err))
		}
	}
	if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return rollback(fmt.Errorf("failed to clear recipe ingredients: %w", err))
	}
	if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
		return rollback(fmt.Errorf("failed to clear recipe tags: %w", err))
	}
	if err := writeRelations(tx, recipe.ID, param); err != nil {
		return rollback(err)
	}
	if err := tx.Commit().Error; err != nil {
		return rollback(fmt.Errorf("failed to commit recipe: %w", err))
	}

	if oldImage != "" {
		s.discardImage(oldImage)
	}
	return s.Get(recipe.ID)
}

// Delete removes a recipe owned by userID together with every row that refers to it.
func (s *RecipeService) Delete(userID, recipeID uint) error {
	recipe, err := s.Get(recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return errs.ErrForbidden
	}

	tx := s.db.Begin()
	if err := tx.Error; err != nil {
		return err
	}
	dependents := []interface{}{
		&models.RecipeIngredient{},
		&models.RecipeTag{},
		&models.FavoriteRecipe{},
		&models.ShoppingCart{},
	}
	for _, dependent := range dependents {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(dependent).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to delete recipe relations: %w", err)
		}
	}
	if err := tx.Delete(&recipe).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit recipe deletion: %w", err)
	}

	s.discardImage(recipe.Image)
	return nil
}

// List returns one page of recipes matching filter, newest first, and the
// total number of matches. viewerID 0 is an anonymous caller, for whom the
// favorite and shopping cart filters are ignored.
func (s *RecipeService) List(viewerID uint, filter structs.RecipeFilter, page structs.PageParam, defaultLimit int) ([]structs.RecipeResponse, int, error) {
	query := s.db.Model(&models.Recipe{})
	if len(filter.Tags) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN (?)", filter.Tags).
			QueryExpr()
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.Author != 0 {
		query = query.Where("recipes.author_id = ?", filter.Author)
	}
	if viewerID != 0 && isTrue(filter.IsFavorited) {
		favorited := s.db.Table("favorite_recipes").Select("recipe_id").Where("user_id = ?", viewerID).QueryExpr()
		query = query.Where("recipes.id IN (?)", favorited)
	}
	if viewerID != 0 && isTrue(filter.IsInShoppingCart) {
		inCart := s.db.Table("shopping_carts").Select("recipe_id").Where("user_id = ?", viewerID).QueryExpr()
		query = query.Where("recipes.id IN (?)", inCart)
	}

	var count int
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	_, limit, offset := page.Normalize(defaultLimit)
	var recipes []models.Recipe
	if err := query.Order("pub_date desc, id desc").Offset(offset).Limit(limit).Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}

	responses, err := s.Represent(viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return responses, count, nil
}

func (s *RecipeService) Detail(viewerID, recipeID uint) (structs.RecipeResponse, error) {
	recipe, err := s.Get(recipeID)
	if err != nil {
		return structs.RecipeResponse{}, err
	}
	responses, err := s.Represent(viewerID, []models.Recipe{recipe})
	if err != nil {
		return structs.RecipeResponse{}, err
	}
	return responses[0], nil
}

// ShortLink returns the public short link of a recipe, assigning a token to
// recipes created without one.
func (s *RecipeService) ShortLink(recipeID uint, baseURL string) (structs.ShortLinkResponse, error) {
	recipe, err := s.Get(recipeID)
	if err != nil {
		return structs.ShortLinkResponse{}, err
	}
	if recipe.ShortLinkToken == "" {
		token, err := s.newShortLinkToken()
		if err != nil {
			return structs.ShortLinkResponse{}, err
		}
		if err := s.db.Model(&recipe).Update("short_link_token", token).Error; err != nil {
			return structs.ShortLinkResponse{}, fmt.Errorf("failed to assign short link: %w", err)
		}
		recipe.ShortLinkToken = token
	}
	return structs.ShortLinkResponse{ShortLink: strings.TrimRight(baseURL, "/") + "/r/" + recipe.ShortLinkToken + "/"}, nil
}

func (s *RecipeService) newShortLinkToken() (string, error) {
	limit := big.NewInt(int64(len(shortLinkChars)))
	for attempt := 0; attempt < shortLinkAttempts; attempt++ {
		token := make([]byte, shortLinkSize)
		for i := range token {
			n, err := rand.Int(rand.Reader, limit)
			if err != nil {
				return "", fmt.Errorf("failed to generate short link: %w", err)
			}
			token[i] = shortLinkChars[n.Int64()]
		}

		var count int
		if err := s.db.Model(&models.Recipe{}).Where("short_link_token = ?", string(token)).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check short link: %w", err)
		}
		if count == 0 {
			return string(token), nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique short link after %d attempts", shortLinkAttempts)
}

func (s *RecipeService) validate(param structs.RecipeParam, recipeID uint, creating bool) error {
	v := &errs.ValidationError{}

	name := strings.TrimSpace(param.Name)
	switch {
	case name == "" && creating:
		v.Add("name", "This field is required.")
	case name == "":
	case utf8.RuneCountInString(name) > nameMaxLength:
		v.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", nameMaxLength))
	default:
		var count int
		if err := s.db.Model(&models.Recipe{}).Where("name = ? AND id <> ?", name, recipeID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check recipe name: %w", err)
		}
		if count > 0 {
			v.Add("name", "recipe with this name already exists.")
		}
	}

	if creating && strings.TrimSpace(param.Text) == "" {
		v.Add("text", "This field is required.")
	}
	if param.CookingTime == nil {
		if creating {
			v.Add("cooking_time", "This field is required.")
		}
	} else if *param.CookingTime < MinCookingTime || *param.CookingTime > MaxCookingTime {
		v.Add("cooking_time", fmt.Sprintf("Cooking time must be between %d and %d minutes.", MinCookingTime, MaxCookingTime))
	}
	if creating && param.Image == "" {
		v.Add("image", "This field is required.")
	}

	if err := s.validateIngredients(v, param.Ingredients); err != nil {
		return err
	}
	if err := s.validateTags(v, param.Tags); err != nil {
		return err
	}

	if v.Empty() {
		return nil
	}
	return v
}

func (s *RecipeService) validateIngredients(v *errs.ValidationError, items []structs.IngredientAmount) error {
	if items == nil {
		v.Add("ingredients", "This field is required.")
		return nil
	}
	if len(items) == 0 {
		v.Add("ingredients", "At least one ingredient must be specified.")
		return nil
	}

	ids := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if seen[item.ID] {
			v.Add("ingredients", "Ingredients should not be repeated.")
			return nil
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)
		if item.Amount < MinAmount || item.Amount > MaxAmount {
			v.Add("ingredients", fmt.Sprintf("Amount must be between %d and %d.", MinAmount, MaxAmount))
		}
	}

	existing, err := s.ingredients.ExistingIDs(ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !existing[id] {
			v.Add("ingredients", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		}
	}
	return nil
}

func (s *RecipeService) validateTags(v *errs.ValidationError, ids []uint) error {
	if ids == nil {
		v.Add("tags", "This field is required.")
		return nil
	}
	if len(ids) == 0 {
		v.Add("tags", "At least one tag must be specified.")
		return nil
	}

	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			v.Add("tags", "Tags should not be repeated.")
			return nil
		}
		seen[id] = true
	}

	existing, err := s.tags.ByIDs(ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			v.Add("tags", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		}
	}
	return nil
}

func writeRelations(tx *gorm.DB, recipeID uint, param structs.RecipeParam) error {
	ingredientRecords := make([]interface{}, 0, len(param.Ingredients))
	for _, item := range param.Ingredients {
		ingredientRecords = append(ingredientRecords, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	if err := gormbulk.BulkInsert(tx, ingredientRecords, bulkChunkSize); err != nil {
		return fmt.Errorf("failed to insert recipe ingredients: %w", err)
	}

	tagRecords := make([]interface{}, 0, len(param.Tags))
	for _, tagID := range param.Tags {
		tagRecords = append(tagRecords, models.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	if err := gormbulk.BulkInsert(tx, tagRecords, bulkChunkSize); err != nil {
		return fmt.Errorf("failed to insert recipe tags: %w", err)
	}
	return nil
}

func (s *RecipeService) discardImage(url string) {
	if err := s.images.Delete(url); err != nil {
		trackLog.WithFields(logrus.Fields{"image": url, "error_message": err.Error()}).Warn("failed to delete recipe image")
	}
}

func isTrue(value string) bool {
	b, err := strconv.ParseBool(value)
	return err == nil && b
}

// ShortRecipes returns the newest recipes of authorID in short form. limit <= 0
// means no limit.
func (s *RecipeService) ShortRecipes(authorID uint, limit int) ([]structs.ShortRecipeResponse, error) {
	query := s.db.Where("author_id = ?", authorID).Order("pub_date desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes of author %d: %w", authorID, err)
	}
	return presenter.ShortRecipes(recipes), nil
}

func (s *RecipeService) CountByAuthor(authorID uint) (int, error) {
	var count int
	if err := s.db.Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes of author %d: %w", authorID, err)
	}
	return count, nil
}
