package errors

import (
	"strings"
	"unicode"
)

// ValidateEntityName validates an entity name from untrusted input.
//
// The rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// Entity names are display strings, so anything printable is allowed.
func ValidateEntityName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidEntity, "entity name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidEntity, "entity name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidEntity, "entity name contains invalid control characters")
		}
	}

	return nil
}

// ValidateAssetSymbol validates an asset symbol from untrusted input.
// Symbols are matched exactly against the index, so validation only
// guards against garbage, not against unknown symbols.
func ValidateAssetSymbol(symbol string) error {
	if symbol == "" {
		return New(ErrCodeInvalidAsset, "asset symbol cannot be empty")
	}

	if len(symbol) > 32 {
		return New(ErrCodeInvalidAsset, "asset symbol too long (max 32 characters)")
	}

	for _, r := range symbol {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidAsset, "asset symbol contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
