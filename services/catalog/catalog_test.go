package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foodgram-backend/models"
	"foodgram-backend/services/activity"
	"foodgram-backend/testinfra"
)

const ingredientsCSV = `абрикосовое варенье,г
абрикосы,шт
flour,g
flour,kg
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ingredients.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write csv: %v", err)
	}
	return path
}

func countRows(t *testing.T, service *ImportService, value interface{}) int {
	t.Helper()
	var count int
	if err := service.db.Model(value).Count(&count).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	return count
}

func TestImportIngredientsIsIdempotent(t *testing.T) {
	db := testinfra.NewSQLite(t)
	service := NewImportService(db, nil)
	path := writeFile(t, ingredientsCSV)

	first, err := service.ImportFile(KindIngredients, path)
	if err != nil {
		t.Fatalf("First import failed: %v", err)
	}
	if first.Created != 4 || first.Total != 4 || first.Skipped != 0 {
		t.Errorf("Unexpected first report: %+v", first)
	}

	second, err := service.ImportFile(KindIngredients, path)
	if err != nil {
		t.Fatalf("Second import failed: %v", err)
	}
	if second.Created != 0 || second.Duplicates != 4 {
		t.Errorf("Unexpected second report: %+v", second)
	}

	if got := countRows(t, service, &models.Ingredient{}); got != 4 {
		t.Errorf("Expected 4 ingredients after two imports, got %d", got)
	}

	logs, err := activity.Latest(db, "catalog.import.ingredients", 5)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("Expected one activity row per run, got %d", len(logs))
	}
}

func TestImportIngredientsSkipsMalformedRows(t *testing.T) {
	db := testinfra.NewSQLite(t)
	service := NewImportService(db, nil)

	input := strings.Join([]string{
		"name,measurement_unit",
		"salt,g",
		"lonely",
		",ml",
		`bad"quote,g`,
		strings.Repeat("x", 129) + ",g",
		"salt,g",
		"pepper,g",
	}, "\n")

	report, err := service.ImportIngredients(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if report.Created != 2 {
		t.Errorf("Expected 2 created, got %d", report.Created)
	}
	if report.Skipped != 4 {
		t.Errorf("Expected 4 skipped, got %d (%+v)", report.Skipped, report.Warnings)
	}
	if report.Duplicates != 1 {
		t.Errorf("Expected 1 duplicate, got %d", report.Duplicates)
	}
	if report.Total != 7 {
		t.Errorf("Expected header to be excluded from total 7, got %d", report.Total)
	}
	if len(report.Warnings) != 4 || report.Warnings[0].Line != 3 {
		t.Errorf("Expected first warning on line 3, got %+v", report.Warnings)
	}
}

func TestImportTags(t *testing.T) {
	db := testinfra.NewSQLite(t)
	service := NewImportService(db, nil)
	testinfra.CreateTag(t, db, "Breakfast", "breakfast")

	input := "Breakfast,breakfast\nLunch,lunch\nDinner,dinner\nBad,not a slug\n"
	report, err := service.ImportTags(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if report.Created != 2 || report.Duplicates != 1 || report.Skipped != 1 {
		t.Errorf("Unexpected report: %+v", report)
	}
	if got := countRows(t, service, &models.Tag{}); got != 3 {
		t.Errorf("Expected 3 tags, got %d", got)
	}
}

func TestImportFileMissing(t *testing.T) {
	db := testinfra.NewSQLite(t)
	service := NewImportService(db, nil)

	if _, err := service.ImportFile(KindIngredients, filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("Expected an error for a missing file, got nil")
	}
}

func TestParseKind(t *testing.T) {
	if kind, err := ParseKind(""); err != nil || kind != KindIngredients {
		t.Errorf("Expected default kind ingredients, got %s (%v)", kind, err)
	}
	if kind, err := ParseKind("tags"); err != nil || kind != KindTags {
		t.Errorf("Expected tags, got %s (%v)", kind, err)
	}
	if _, err := ParseKind("units"); err == nil {
		t.Error("Expected an error for an unknown kind")
	}
}

func TestImportCountsIndexConflictsAsDuplicates(t *testing.T) {
	db := testinfra.NewSQLite(t)
	// case-insensitive indexes, like the default MySQL collation
	for _, statement := range []string{
		"CREATE UNIQUE INDEX idx_ingredient_name_unit_nocase ON ingredients (name COLLATE NOCASE, measurement_unit COLLATE NOCASE)",
		"CREATE UNIQUE INDEX idx_tag_slug_nocase ON tags (slug COLLATE NOCASE)",
	} {
		if err := db.Exec(statement).Error; err != nil {
			t.Fatalf("Failed to create index: %v", err)
		}
	}
	service := NewImportService(db, nil)

	t.Run("Ingredients", func(t *testing.T) {
		report, err := service.ImportIngredients(strings.NewReader("Flour,g\nflour,g\nsalt,g\nflour,G\n"))
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if report.Total != 4 || report.Created != 2 || report.Duplicates != 2 || report.Skipped != 0 {
			t.Errorf("Unexpected report: %+v", report)
		}
		if got := countRows(t, service, &models.Ingredient{}); got != 2 {
			t.Errorf("Expected 2 ingredients, got %d", got)
		}
	})

	t.Run("Tags", func(t *testing.T) {
		report, err := service.ImportTags(strings.NewReader("Lunch,lunch\nLunch again,LUNCH\nDinner,dinner\n"))
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if report.Created != 2 || report.Duplicates != 1 {
			t.Errorf("Unexpected report: %+v", report)
		}
	})
}
