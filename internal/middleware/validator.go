package middleware

import (
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
)

// Input validation and sanitization utilities for request data

// MaxImageBytes caps a single uploaded image.
const MaxImageBytes = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidateID checks that a path id is a uuid.
func ValidateID(field, id string) error {
	if id == "" {
		return errs.Invalid(field, "is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return errs.Invalid(field, "must be a uuid")
	}
	return nil
}

// ValidateImageUpload checks the declared content type and size of an upload.
func ValidateImageUpload(contentType string, size int64) error {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if !allowedImageTypes[ct] {
		return errs.Invalid("image", "unsupported content type "+contentType)
	}
	if size <= 0 {
		return errs.Invalid("image", "file is empty")
	}
	if size > MaxImageBytes {
		return errs.Invalid("image", "file exceeds 10 MiB")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates list limits
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 100 // default
	}
	if limit > 500 {
		return 500
	}
	return limit
}
