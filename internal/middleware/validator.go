package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// ValidateFileType checks if the media kind is in the allowed list
func ValidateFileType(fileType string) error {
	allowed := map[string]bool{
		"image": true,
		"audio": true,
		"video": true,
		"text":  true,
		"url":   true,
	}

	if !allowed[strings.ToLower(fileType)] {
		return fmt.Errorf("invalid file type: %s (allowed: image, audio, video, text, url)", fileType)
	}
	return nil
}

var fingerprintPattern = regexp.MustCompile(`^[a-z0-9-]+:[0-9a-f]+$`)

// ValidateFingerprint checks the "<algorithm>:<hex digest>" shape
func ValidateFingerprint(hash string) error {
	if hash == "" {
		return fmt.Errorf("file hash cannot be empty")
	}
	if !fingerprintPattern.MatchString(hash) {
		return fmt.Errorf("invalid fingerprint format (expected <algorithm>:<hex digest>)")
	}
	return nil
}

var tokenPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{8,128}$`)

// ValidateShareToken checks the URL-safe token alphabet; anything outside it
// can be rejected before touching the database
func ValidateShareToken(token string) error {
	if token == "" {
		return fmt.Errorf("share token cannot be empty")
	}
	if !tokenPattern.MatchString(token) {
		return fmt.Errorf("invalid share token format")
	}
	return nil
}

// ValidateFileName rejects path separators and control characters
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if len(name) > 255 {
		return fmt.Errorf("file name too long (max 255 chars)")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid characters in file name")
	}
	for _, r := range name {
		if r < 32 {
			return fmt.Errorf("invalid characters in file name")
		}
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
