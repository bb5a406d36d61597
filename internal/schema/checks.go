package schema

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/povarna/ai-output-validator/internal/models"
)

// Check inspects a value that already passed the type check for its field.
// It returns nil when the value is acceptable; the validator fills in the
// field path on the returned error.
type Check func(value any) *models.ValidationError

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func checkEmail(value any) *models.ValidationError {
	s, ok := value.(string)
	if !ok {
		return nil
	}

	if !emailPattern.MatchString(s) {
		return &models.ValidationError{
			Type:       models.KindInvalidEmail,
			Msg:        "value is not a valid email address",
			Suggestion: "Provide an address in the form user@example.com",
		}
	}

	return nil
}

// checkDate accepts ISO dates only: zero-padded YYYY-MM-DD that name a real
// calendar day. Other orderings and separators fail.
func checkDate(value any) *models.ValidationError {
	s, ok := value.(string)
	if !ok {
		return nil
	}

	if !datePattern.MatchString(s) {
		return &models.ValidationError{
			Type:       models.KindInvalidDate,
			Msg:        "value is not a valid date, expected YYYY-MM-DD",
			Suggestion: "Use the ISO format, e.g. 2023-10-15",
		}
	}

	if _, err := time.Parse("2006-01-02", s); err != nil {
		return &models.ValidationError{
			Type:       models.KindInvalidDate,
			Msg:        "value is not a valid calendar date",
			Suggestion: "Use the ISO format, e.g. 2023-10-15",
		}
	}

	return nil
}

// newPatternCheck matches the regex against the whole value. A partial match
// is a failure, so the expression is anchored at compile time.
func newPatternCheck(pattern string) (Check, error) {
	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	return func(value any) *models.ValidationError {
		s, ok := value.(string)
		if !ok {
			return nil
		}

		if !re.MatchString(s) {
			return &models.ValidationError{
				Type:       models.KindPatternMismatch,
				Msg:        fmt.Sprintf("string does not match pattern %q", pattern),
				Suggestion: fmt.Sprintf("Provide a value matching %q", pattern),
			}
		}

		return nil
	}, nil
}

func newLengthCheck(minLength, maxLength *int) Check {
	return func(value any) *models.ValidationError {
		s, ok := value.(string)
		if !ok {
			return nil
		}

		length := utf8.RuneCountInString(s)

		if minLength != nil && length < *minLength {
			return &models.ValidationError{
				Type:       models.KindLengthViolation,
				Msg:        fmt.Sprintf("string has %d characters, expected at least %d", length, *minLength),
				Suggestion: fmt.Sprintf("Provide at least %d characters", *minLength),
			}
		}

		if maxLength != nil && length > *maxLength {
			return &models.ValidationError{
				Type:       models.KindLengthViolation,
				Msg:        fmt.Sprintf("string has %d characters, expected at most %d", length, *maxLength),
				Suggestion: fmt.Sprintf("Provide at most %d characters", *maxLength),
			}
		}

		return nil
	}
}

// newBoundsCheck enforces exclusive numeric bounds.
func newBoundsCheck(gt, lt *float64) Check {
	return func(value any) *models.ValidationError {
		n, ok := value.(float64)
		if !ok {
			return nil
		}

		if gt != nil && n <= *gt {
			return &models.ValidationError{
				Type:       models.KindOutOfRange,
				Msg:        fmt.Sprintf("value %v must be greater than %v", n, *gt),
				Suggestion: fmt.Sprintf("Provide a value greater than %v", *gt),
			}
		}

		if lt != nil && n >= *lt {
			return &models.ValidationError{
				Type:       models.KindOutOfRange,
				Msg:        fmt.Sprintf("value %v must be less than %v", n, *lt),
				Suggestion: fmt.Sprintf("Provide a value less than %v", *lt),
			}
		}

		return nil
	}
}

func newEnumCheck(allowed []any) Check {
	return func(value any) *models.ValidationError {
		for _, candidate := range allowed {
			if value == candidate {
				return nil
			}
		}

		return &models.ValidationError{
			Type:       models.KindNotInEnum,
			Msg:        fmt.Sprintf("value %v is not in the allowed set %v", value, allowed),
			Suggestion: fmt.Sprintf("Use one of %v", allowed),
		}
	}
}
