// Package shopping builds the consolidated shopping list for a user: every
// ingredient row of the recipes in their shopping cart, summed per
// (ingredient name, measurement unit) and sorted by name.
//
// Nothing is persisted. The list is recomputed from the cart on each call.
package shopping

import (
	"fmt"
	"sort"

	"github.com/jinzhu/gorm"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Row is one RecipeIngredient reachable from a user's shopping cart.
type Row struct {
	RecipeID        uint
	IngredientID    uint
	Name            string
	MeasurementUnit string
	Amount          int
}

// Line is one consolidated entry of the shopping list.
type Line struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int64  `json:"amount"`
}

// RowSource loads the ingredient rows behind a user's shopping cart.
type RowSource interface {
	ShoppingCartRows(userID uint) ([]Row, error)
}

// GormSource reads rows with a single join over the cart, recipe ingredients and ingredients.
type GormSource struct {
	DB *gorm.DB
}

func (s GormSource) ShoppingCartRows(userID uint) ([]Row, error) {
	var rows []Row
	err := s.DB.Table("shopping_carts").
		Select("recipe_ingredients.recipe_id AS recipe_id, ingredients.id AS ingredient_id, "+
			"ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, "+
			"recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart rows: %w", err)
	}
	return rows, nil
}

type Aggregator struct {
	source RowSource
	locale language.Tag
}

// NewAggregator reads from db and orders names by the collation rules of locale
// (a BCP 47 tag such as "ru" or "en"); an unparsable locale falls back to root collation.
func NewAggregator(db *gorm.DB, locale string) *Aggregator {
	return NewAggregatorWithSource(GormSource{DB: db}, locale)
}

func NewAggregatorWithSource(source RowSource, locale string) *Aggregator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Aggregator{source: source, locale: tag}
}

// Aggregate returns the user's consolidated list. An empty cart yields an empty list.
func (a *Aggregator) Aggregate(userID uint) ([]Line, error) {
	rows, err := a.source.ShoppingCartRows(userID)
	if err != nil {
		return nil, err
	}
	return Consolidate(rows, a.locale), nil
}

type groupKey struct {
	name string
	unit string
}

// Consolidate groups rows by (name, unit), sums amounts and sorts the result
// by name under the collation of tag. Rows with equal names but different units
// stay separate lines.
func Consolidate(rows []Row, tag language.Tag) []Line {
	totals := make(map[groupKey]int64, len(rows))
	order := make([]groupKey, 0, len(rows))
	for _, row := range rows {
		key := groupKey{name: row.Name, unit: row.MeasurementUnit}
		if _, ok := totals[key]; !ok {
			order = append(order, key)
		}
		totals[key] += int64(row.Amount)
	}

	lines := make([]Line, 0, len(order))
	for _, key := range order {
		lines = append(lines, Line{Name: key.name, MeasurementUnit: key.unit, Total: totals[key]})
	}

	// collators are not safe for concurrent use
	collator := collate.New(tag)
	sort.SliceStable(lines, func(i, j int) bool {
		if c := collator.CompareString(lines[i].Name, lines[j].Name); c != 0 {
			return c < 0
		}
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return collator.CompareString(lines[i].MeasurementUnit, lines[j].MeasurementUnit) < 0
	})
	return lines
}
