package validation

import (
	"fmt"
	"math"
	"regexp"
	"unicode/utf8"
)

const (
	MaxPlaceNameLength    = 100
	MaxDescriptionLength  = 5000
	MaxCommentLength      = 1000
	MaxCategoryNameLength = 50
)

var colorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func checkLength(field, value string, max int) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s must be at most %d characters", field, max)
	}
	return nil
}

func ValidatePlaceName(name string) error {
	return checkLength("name", name, MaxPlaceNameLength)
}

func ValidateDescription(description string) error {
	return checkLength("description", description, MaxDescriptionLength)
}

// ValidateComment checks that content is 1-1000 characters.
func ValidateComment(content string) error {
	return checkLength("content", content, MaxCommentLength)
}

// ValidateCoordinates checks WGS84 bounds.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

func ValidateCategoryName(name string) error {
	return checkLength("category name", name, MaxCategoryNameLength)
}

// ValidateColor accepts #RRGGBB.
func ValidateColor(color string) error {
	if !colorRegex.MatchString(color) {
		return fmt.Errorf("color must be a hex value like #FF5733")
	}
	return nil
}
