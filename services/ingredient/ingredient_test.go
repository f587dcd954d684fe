package ingredient

import (
	"errors"
	"testing"

	"foodgram-backend/services/errs"
	"foodgram-backend/structs"
	"foodgram-backend/testinfra"
)

func TestSearch(t *testing.T) {
	db := testinfra.NewSQLite(t)
	testinfra.CreateIngredient(t, db, "sugar", "g")
	testinfra.CreateIngredient(t, db, "Salt", "g")
	testinfra.CreateIngredient(t, db, "salmon", "g")
	testinfra.CreateIngredient(t, db, "flour", "g")
	testinfra.CreateIngredient(t, db, "50%_cream", "ml")
	service := NewIngredientService(db)

	cases := []struct {
		name   string
		filter string
		want   []string
	}{
		{"NoFilter", "", []string{"50%_cream", "Salt", "flour", "salmon", "sugar"}},
		{"PrefixIgnoresCase", "SAL", []string{"Salt", "salmon"}},
		{"PrefixOnly", "our", nil},
		{"WildcardsAreLiteral", "50%_", []string{"50%_cream"}},
		{"PercentDoesNotMatchAll", "%", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := service.Search(structs.IngredientFilter{Name: c.filter})
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if len(got) != len(c.want) {
				t.Fatalf("Expected %d ingredients, got %d (%+v)", len(c.want), len(got), got)
			}
			for i := range got {
				if got[i].Name != c.want[i] {
					t.Errorf("Position %d: expected %q, got %q", i, c.want[i], got[i].Name)
				}
			}
		})
	}
}

func TestGet(t *testing.T) {
	db := testinfra.NewSQLite(t)
	flour := testinfra.CreateIngredient(t, db, "flour", "g")
	service := NewIngredientService(db)

	got, err := service.Get(flour.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "flour" || got.MeasurementUnit != "g" {
		t.Errorf("Unexpected ingredient: %+v", got)
	}

	if _, err := service.Get(flour.ID + 100); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestExistingIDs(t *testing.T) {
	db := testinfra.NewSQLite(t)
	flour := testinfra.CreateIngredient(t, db, "flour", "g")
	service := NewIngredientService(db)

	found, err := service.ExistingIDs([]uint{flour.ID, flour.ID + 1})
	if err != nil {
		t.Fatalf("ExistingIDs failed: %v", err)
	}
	if !found[flour.ID] || found[flour.ID+1] {
		t.Errorf("Unexpected lookup result: %v", found)
	}
}
