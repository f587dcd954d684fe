// Package testinfra holds fixtures shared by package tests: an in-memory
// SQLite pool with the production schema and small row builders.
package testinfra

import (
	"fmt"
	"testing"

	"foodgram-backend/database"
	"foodgram-backend/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// NewSQLite opens a private in-memory database with the schema migrated.
func NewSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	// a single connection keeps every query on the same in-memory database
	db, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	db.DB().SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: username,
		LastName:  "Tester",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("Failed to create ingredient %s: %v", name, err)
	}
	return ingredient
}

func CreateTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("Failed to create tag %s: %v", slug, err)
	}
	return tag
}

// CreateRecipe stores a recipe with the given ingredient amounts keyed by ingredient id.
func CreateRecipe(t *testing.T, db *gorm.DB, author models.User, name string, amounts map[uint]int, tags ...models.Tag) models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		AuthorID:       author.ID,
		Name:           name,
		Image:          "/media/recipes/images/" + name + ".png",
		Text:           "Mix and cook.",
		CookingTime:    15,
		ShortLinkToken: shortToken(name),
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("Failed to create recipe %s: %v", name, err)
	}
	for ingredientID, amount := range amounts {
		row := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ingredientID, Amount: amount}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("Failed to add ingredient to %s: %v", name, err)
		}
	}
	for _, tag := range tags {
		if err := db.Create(&models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error; err != nil {
			t.Fatalf("Failed to tag %s: %v", name, err)
		}
	}
	return recipe
}

func AddToShoppingCart(t *testing.T, db *gorm.DB, user models.User, recipe models.Recipe) {
	t.Helper()
	if err := db.Create(&models.ShoppingCart{UserID: user.ID, RecipeID: recipe.ID}).Error; err != nil {
		t.Fatalf("Failed to add %s to shopping cart: %v", recipe.Name, err)
	}
}

var tokenSeq int

func shortToken(seed string) string {
	tokenSeq++
	return fmt.Sprintf("%.4s%04d", seed+"xxxx", tokenSeq)
}
