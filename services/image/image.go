// Package image stores base64 "data:image/<ext>;base64,..." payloads under the
// media root and maps stored files back to public URLs.
package image

import (
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"foodgram-backend/services/errs"

	"github.com/google/uuid"
)

const (
	RecipeDir = "recipes/images"
	AvatarDir = "users/avatars"
)

var extPattern = regexp.MustCompile(`^[a-z0-9+.-]{1,10}$`)

type Store struct {
	Root string
	URL  string
}

func NewStore(root, url string) *Store {
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return &Store{Root: root, URL: url}
}

// Save decodes a data URL into dir and returns its public URL. field names the
// request field reported on validation errors.
func (s *Store) Save(field, dir, dataURL string) (string, error) {
	if dataURL == "" {
		return "", errs.NewValidation(field, "Image can not be empty.")
	}
	if !strings.HasPrefix(dataURL, "data:image") {
		return "", errs.NewValidation(field, "Invalid image format, base64 line is expected.")
	}
	header, payload, ok := strings.Cut(dataURL, ";base64,")
	if !ok {
		return "", errs.NewValidation(field, "Invalid image format, base64 line is expected.")
	}
	ext := strings.ToLower(header[strings.LastIndex(header, "/")+1:])
	if !extPattern.MatchString(ext) {
		return "", errs.NewValidation(field, fmt.Sprintf("Invalid image format: unsupported type %q", ext))
	}
	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", errs.NewValidation(field, fmt.Sprintf("Invalid image format: %s", err.Error()))
	}

	name := uuid.New().String() + "." + ext
	target := filepath.Join(s.Root, filepath.FromSlash(dir))
	if err := os.MkdirAll(target, 0755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(target, name), content, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.URL + path.Join(dir, name), nil
}

// Delete removes the file behind url. URLs outside the media prefix and
// missing files are ignored.
func (s *Store) Delete(url string) error {
	if url == "" || !strings.HasPrefix(url, s.URL) {
		return nil
	}
	relative := path.Clean("/" + strings.TrimPrefix(url, s.URL))
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(relative)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
