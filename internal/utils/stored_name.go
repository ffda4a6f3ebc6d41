package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GenerateStoredFileName returns a random storage key that keeps the extension of
// originalName. Nothing else from the original name leaks into the key.
func GenerateStoredFileName(originalName string) string {
	ext := filepath.Ext(filepath.Base(originalName))
	if ext == "." || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return uuid.NewString() + ext
}
