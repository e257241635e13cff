// Package pictures persists profile images as fixed-bound thumbnails under
// randomly generated filenames.
package pictures

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// thumbnail bound; images are fitted inside, aspect preserved, never upscaled.
const (
	maxWidth  = 125
	maxHeight = 125
)

// Store saves profile pictures into a directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create picture directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Save decodes the uploaded image, downscales it to fit the thumbnail bound
// and writes it under a random filename that keeps only the extension of the
// upload. The user-supplied name itself is never used, so uploads cannot
// collide or escape the directory.
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		return "", fmt.Errorf("picture %q has no file extension", originalName)
	}
	name := fmt.Sprintf("%x%s", uuid.New(), ext)

	img, err := imaging.Decode(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode picture: %w", err)
	}
	thumb := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	if err := imaging.Save(thumb, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("failed to save picture: %w", err)
	}
	return name, nil
}
