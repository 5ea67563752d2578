package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Beigelman/house-crawler/internal/models"
)

// EncodeJSON writes props as an indented JSON array. Non-ASCII text and
// HTML-significant characters are written literally.
func EncodeJSON(w io.Writer, props []models.Property) error {
	if props == nil {
		props = []models.Property{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(props)
}

// WriteJSONFile replaces path with the JSON encoding of props.
func WriteJSONFile(path string, props []models.Property) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := EncodeJSON(file, props); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
