package shopping

import (
	"errors"
	"reflect"
	"testing"

	"foodgram-backend/testinfra"

	"golang.org/x/text/language"
)

func TestConsolidate(t *testing.T) {
	t.Run("SumsAcrossRecipes", func(t *testing.T) {
		rows := []Row{
			{RecipeID: 1, IngredientID: 1, Name: "flour", MeasurementUnit: "g", Amount: 200},
			{RecipeID: 1, IngredientID: 2, Name: "eggs", MeasurementUnit: "pieces", Amount: 3},
			{RecipeID: 2, IngredientID: 1, Name: "flour", MeasurementUnit: "g", Amount: 300},
			{RecipeID: 2, IngredientID: 2, Name: "eggs", MeasurementUnit: "pieces", Amount: 2},
		}
		got := Consolidate(rows, language.English)
		want := []Line{
			{Name: "eggs", MeasurementUnit: "pieces", Total: 5},
			{Name: "flour", MeasurementUnit: "g", Total: 500},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
		if FormatLine(got[1]) != "flour (g) — 500" {
			t.Errorf("Unexpected line format: %s", FormatLine(got[1]))
		}
		if FormatLine(got[0]) != "eggs (pieces) — 5" {
			t.Errorf("Unexpected line format: %s", FormatLine(got[0]))
		}
	})

	t.Run("DifferentUnitsNeverMerge", func(t *testing.T) {
		rows := []Row{
			{IngredientID: 1, Name: "sugar", MeasurementUnit: "g", Amount: 100},
			{IngredientID: 2, Name: "sugar", MeasurementUnit: "tbsp", Amount: 2},
			{IngredientID: 1, Name: "sugar", MeasurementUnit: "g", Amount: 50},
		}
		got := Consolidate(rows, language.English)
		want := []Line{
			{Name: "sugar", MeasurementUnit: "g", Total: 150},
			{Name: "sugar", MeasurementUnit: "tbsp", Total: 2},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		got := Consolidate(nil, language.English)
		if len(got) != 0 {
			t.Errorf("Expected no lines, got %v", got)
		}
	})

	t.Run("LocaleAwareOrder", func(t *testing.T) {
		rows := []Row{
			{Name: "яйца", MeasurementUnit: "шт", Amount: 1},
			{Name: "Банан", MeasurementUnit: "шт", Amount: 1},
			{Name: "апельсин", MeasurementUnit: "шт", Amount: 1},
		}
		got := Consolidate(rows, language.Russian)
		names := []string{got[0].Name, got[1].Name, got[2].Name}
		want := []string{"апельсин", "Банан", "яйца"}
		if !reflect.DeepEqual(names, want) {
			t.Errorf("Expected %v, got %v", want, names)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		rows := []Row{
			{Name: "milk", MeasurementUnit: "ml", Amount: 250},
			{Name: "butter", MeasurementUnit: "g", Amount: 30},
			{Name: "milk", MeasurementUnit: "ml", Amount: 250},
		}
		first := Consolidate(rows, language.English)
		second := Consolidate(rows, language.English)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Expected identical output, got %v and %v", first, second)
		}
	})
}

type stubSource struct {
	rows []Row
	err  error
}

func (s stubSource) ShoppingCartRows(userID uint) ([]Row, error) {
	return s.rows, s.err
}

func TestAggregatorPropagatesReadFailure(t *testing.T) {
	readErr := errors.New("connection reset")
	aggregator := NewAggregatorWithSource(stubSource{err: readErr}, "en")
	if _, err := aggregator.Aggregate(1); !errors.Is(err, readErr) {
		t.Errorf("Expected read error to surface, got %v", err)
	}
}

func TestAggregatorWithDatabase(t *testing.T) {
	db := testinfra.NewSQLite(t)

	alice := testinfra.CreateUser(t, db, "alice")
	bob := testinfra.CreateUser(t, db, "bob")
	flour := testinfra.CreateIngredient(t, db, "flour", "g")
	eggs := testinfra.CreateIngredient(t, db, "eggs", "pieces")
	milk := testinfra.CreateIngredient(t, db, "milk", "ml")

	pancakes := testinfra.CreateRecipe(t, db, bob, "pancakes", map[uint]int{flour.ID: 200, eggs.ID: 3})
	pie := testinfra.CreateRecipe(t, db, bob, "pie", map[uint]int{flour.ID: 300, eggs.ID: 2})
	latte := testinfra.CreateRecipe(t, db, alice, "latte", map[uint]int{milk.ID: 200})

	testinfra.AddToShoppingCart(t, db, alice, pancakes)
	testinfra.AddToShoppingCart(t, db, alice, pie)
	testinfra.AddToShoppingCart(t, db, bob, latte)

	aggregator := NewAggregator(db, "en")

	t.Run("OnlyOwnCart", func(t *testing.T) {
		got, err := aggregator.Aggregate(alice.ID)
		if err != nil {
			t.Fatalf("Aggregate failed: %v", err)
		}
		want := []Line{
			{Name: "eggs", MeasurementUnit: "pieces", Total: 5},
			{Name: "flour", MeasurementUnit: "g", Total: 500},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("EmptyCart", func(t *testing.T) {
		carol := testinfra.CreateUser(t, db, "carol")
		got, err := aggregator.Aggregate(carol.ID)
		if err != nil {
			t.Fatalf("Expected no error for empty cart, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected empty list, got %v", got)
		}
	})

	t.Run("ReadOnly", func(t *testing.T) {
		var before, after int
		db.Table("recipe_ingredients").Count(&before)
		if _, err := aggregator.Aggregate(alice.ID); err != nil {
			t.Fatalf("Aggregate failed: %v", err)
		}
		db.Table("recipe_ingredients").Count(&after)
		if before != after {
			t.Errorf("Expected row count %d to be unchanged, got %d", before, after)
		}
	})
}
