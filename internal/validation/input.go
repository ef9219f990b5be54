package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input length limits to prevent resource exhaustion
const (
	MaxCategoryLength  = 64
	MaxMessageLength   = 100000 // 100KB for ticket message content
	MaxPromoCodeLength = 64
	MaxBundleIDLength  = 255
)

var promoCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidatePromoCode validates a promo code string.
func ValidatePromoCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("promo code cannot be empty")
	}
	if len(code) > MaxPromoCodeLength {
		return fmt.Errorf("promo code exceeds maximum length of %d characters (got %d)", MaxPromoCodeLength, len(code))
	}
	if !promoCodePattern.MatchString(code) {
		return fmt.Errorf("promo code may only contain letters, digits, '-' and '_'")
	}
	return nil
}

// ValidateMessage validates a support ticket message body.
func ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message cannot be empty")
	}

	length := utf8.RuneCountInString(message)
	if length > MaxMessageLength {
		return fmt.Errorf("message exceeds maximum length of %d characters (got %d)", MaxMessageLength, length)
	}
	return nil
}

// ValidateCategory validates a support ticket category name.
func ValidateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("category cannot be empty")
	}

	length := utf8.RuneCountInString(category)
	if length > MaxCategoryLength {
		return fmt.Errorf("category exceeds maximum length of %d characters (got %d)", MaxCategoryLength, length)
	}
	return nil
}

// ValidateBundleID validates an app bundle identifier used for store lookups.
func ValidateBundleID(bundleID string) error {
	if bundleID == "" {
		return fmt.Errorf("bundle id cannot be empty")
	}
	if len(bundleID) > MaxBundleIDLength {
		return fmt.Errorf("bundle id exceeds maximum length of %d characters", MaxBundleIDLength)
	}
	for _, part := range strings.Split(bundleID, ".") {
		if part == "" {
			return fmt.Errorf("bundle id contains an empty segment")
		}
	}
	return nil
}
