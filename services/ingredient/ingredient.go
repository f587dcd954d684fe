// Package ingredient serves the read-only ingredient catalog.
package ingredient

import (
	"fmt"
	"strings"

	"foodgram-backend/models"
	"foodgram-backend/services/errs"
	"foodgram-backend/structs"

	"github.com/jinzhu/gorm"
)

type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// Search lists ingredients ordered by name. A non-empty filter name restricts
// the result to names starting with it, ignoring case.
func (s *IngredientService) Search(filter structs.IngredientFilter) ([]models.Ingredient, error) {
	query := s.db.Model(&models.Ingredient{})
	if prefix := strings.TrimSpace(filter.Name); prefix != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!'", escapeLike(strings.ToLower(prefix))+"%")
	}

	ingredients := []models.Ingredient{}
	if err := query.Order("name, measurement_unit").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *IngredientService) Get(id uint) (models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.Where("id = ?", id).First(&ingredient).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return ingredient, errs.ErrNotFound
		}
		return ingredient, fmt.Errorf("failed to get ingredient %d: %w", id, err)
	}
	return ingredient, nil
}

// ExistingIDs returns the subset of ids present in the catalog.
func (s *IngredientService) ExistingIDs(ids []uint) (map[uint]bool, error) {
	found := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var rows []models.Ingredient
	if err := s.db.Select("id").Where("id IN (?)", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to look up ingredients: %w", err)
	}
	for _, row := range rows {
		found[row.ID] = true
	}
	return found, nil
}

// '!' is the LIKE escape character in Search.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
