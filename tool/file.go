package tool

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// GuessMimeType returns the MIME type for a file path based on its
// extension, defaulting to application/octet-stream.
func GuessMimeType(path string) string {
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		return "application/octet-stream"
	}
	return mimeType
}

// FileExtension returns the extension without the leading dot, or "".
func FileExtension(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimPrefix(ext, ".")
}

// SanitizeFilename replaces characters that are unsafe in a
// Content-Disposition filename or as a saved file name.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '/', ':', '*', '?', '<', '>', '|':
			return '_'
		case '\r', '\n':
			return '_'
		}
		return r
	}, name)
}

// HumanSize renders a byte count like "1.5 MiB".
func HumanSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}
