package handlers

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// Uploader writes uploaded images into a fixed public directory and
// returns the path they will be served from.
type Uploader struct {
	dir string
}

func NewUploader(dir string) *Uploader {
	return &Uploader{dir: dir}
}

// ResolveImage implements the media ingestion rules: a named multipart
// file wins, otherwise a non-empty URL is stored verbatim, otherwise the
// reference stays empty. Same-named uploads silently overwrite.
func (u *Uploader) ResolveImage(c *gin.Context, imageURL string) (string, error) {
	file, err := c.FormFile("image_file")
	if err == nil && file != nil && file.Filename != "" {
		filename := SanitizeFilename(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(u.dir, filename)); err != nil {
			return "", err
		}
		return "/static/uploads/" + filename, nil
	}

	if imageURL != "" {
		return imageURL, nil
	}

	return "", nil
}

// SanitizeFilename strips any directory components and replaces runes that
// are unsafe in a served path.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = "upload"
	}
	return out
}
