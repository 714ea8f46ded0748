package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var documentIDPattern = regexp.MustCompile(`^[a-fA-F0-9-]{1,64}$`)

// ValidateDocumentID checks the session ID format (UUID-shaped)
func ValidateDocumentID(id string) error {
	if id == "" {
		return fmt.Errorf("document ID cannot be empty")
	}
	if !documentIDPattern.MatchString(id) {
		return fmt.Errorf("invalid document ID format")
	}
	return nil
}

// ValidateDocumentName checks name length and rejects control characters
func ValidateDocumentName(name string) error {
	if len(name) > 256 {
		return fmt.Errorf("document name too long (max 256 chars)")
	}
	for _, r := range name {
		if r < 32 && r != '\t' {
			return fmt.Errorf("invalid characters in document name")
		}
	}
	return nil
}

// ValidatePages bounds the number and size of extracted page texts
func ValidatePages(pages []string) error {
	const maxPages = 2000
	const maxPageBytes = 1 << 20 // 1 MiB per page of extracted text

	if len(pages) == 0 {
		return fmt.Errorf("pages cannot be empty")
	}
	if len(pages) > maxPages {
		return fmt.Errorf("too many pages: %d (max %d)", len(pages), maxPages)
	}
	for i, p := range pages {
		if len(p) > maxPageBytes {
			return fmt.Errorf("page %d text too large (max %d bytes)", i+1, maxPageBytes)
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
