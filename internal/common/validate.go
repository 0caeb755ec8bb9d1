package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidateUUID validates UUID format with comprehensive checks
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewValidationError(fieldName, fmt.Sprintf("%s is required", fieldName))
	}

	if len(idStr) != 36 {
		return uuid.Nil, NewValidationError(fieldName, fmt.Sprintf("%s must be exactly 36 characters (including hyphens)", fieldName))
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError(fieldName, fmt.Sprintf("%s has invalid UUID format", fieldName))
	}

	return id, nil
}

// ValidatePositiveInteger validates positive integer values with upper bounds
func ValidatePositiveInteger(value int, fieldName string, maxValue int) error {
	if value <= 0 {
		return NewValidationError(fieldName, fmt.Sprintf("%s must be positive", fieldName))
	}
	if value > maxValue {
		return NewValidationError(fieldName, fmt.Sprintf("%s cannot exceed %d", fieldName, maxValue))
	}
	return nil
}

// ValidatePositiveFloat validates positive float values with upper bounds
func ValidatePositiveFloat(value float64, fieldName string, maxValue float64) error {
	if value <= 0 {
		return NewValidationError(fieldName, fmt.Sprintf("%s must be positive", fieldName))
	}
	if value > maxValue {
		return NewValidationError(fieldName, fmt.Sprintf("%s cannot exceed %.2f", fieldName, maxValue))
	}
	return nil
}

// ValidateNonNegativeFloat validates float values that may be zero
func ValidateNonNegativeFloat(value float64, fieldName string, maxValue float64) error {
	if value < 0 {
		return NewValidationError(fieldName, fmt.Sprintf("%s cannot be negative", fieldName))
	}
	if value > maxValue {
		return NewValidationError(fieldName, fmt.Sprintf("%s cannot exceed %.2f", fieldName, maxValue))
	}
	return nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fieldName, fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidateDateFormat parses YYYY-MM-DD date strings
func ValidateDateFormat(dateStr, fieldName string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, NewValidationError(fieldName, fmt.Sprintf("%s must be in YYYY-MM-DD format", fieldName))
	}
	return parsed, nil
}

// ValidatePaginationParams clamps limit/offset into sane bounds
func ValidatePaginationParams(limit, offset, defaultLimit, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// SanitizeSearchQuery strips LIKE wildcards and control characters from a
// free-text search term so it can be embedded in an ILIKE pattern.
func SanitizeSearchQuery(query string) string {
	query = strings.TrimSpace(query)
	replacer := strings.NewReplacer("%", "", "_", "", ";", "", "--", "")
	return replacer.Replace(query)
}
