package image

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foodgram-backend/services/errs"
)

func TestSave(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, "/media")
	payload := []byte("not really a png")
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	url, err := store.Save("image", RecipeDir, dataURL)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(url, "/media/recipes/images/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("Unexpected url %q", url)
	}

	stored := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(url, "/media/")))
	content, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("Stored file missing: %v", err)
	}
	if string(content) != string(payload) {
		t.Errorf("Stored content mismatch: %q", content)
	}

	if err := store.Delete(url); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Errorf("Expected file to be removed, stat err = %v", err)
	}
	if err := store.Delete(url); err != nil {
		t.Errorf("Deleting twice should be a no-op, got %v", err)
	}
}

func TestSaveRejectsInvalidPayloads(t *testing.T) {
	store := NewStore(t.TempDir(), "/media/")
	cases := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"PlainText", "hello"},
		{"NoBase64Marker", "data:image/png,abc"},
		{"BadBase64", "data:image/png;base64,###"},
		{"BadExtension", "data:image/p%ng;base64,aGk="},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := store.Save("avatar", AvatarDir, c.input)
			var validation *errs.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("Expected a validation error, got %v", err)
			}
			if len(validation.Fields["avatar"]) == 0 {
				t.Errorf("Expected the avatar field to be flagged, got %+v", validation.Fields)
			}
		})
	}
}

func TestDeleteIgnoresForeignURLs(t *testing.T) {
	store := NewStore(t.TempDir(), "/media/")
	if err := store.Delete("https://example.com/a.png"); err != nil {
		t.Errorf("Expected foreign url to be ignored, got %v", err)
	}
}
