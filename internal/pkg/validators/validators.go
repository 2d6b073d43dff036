package validators

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	xerrors "dabbatrack-service/internal/pkg/errors"
)

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// NormalizeIndianMobile trims the input and checks it against the strict
// 10-digit pattern used for all phone columns.
func NormalizeIndianMobile(phone, label string) (string, error) {
	normalized := strings.TrimSpace(phone)
	if !mobilePattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: %s must be a valid 10-digit Indian mobile number", xerrors.ErrInvalidInput, label)
	}
	return normalized, nil
}

// ParseMonth parses a YYYY-MM string and returns the first day of that month.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month must be in YYYY-MM format", xerrors.ErrInvalidInput)
	}
	return t, nil
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be in YYYY-MM-DD format", xerrors.ErrInvalidInput)
	}
	return t, nil
}

// MonthRange returns the first day of the month and the first day of the
// following month for a YYYY-MM string.
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := ParseMonth(month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}
