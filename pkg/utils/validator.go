package utils

import (
	"fmt"
	"regexp"
	"time"
)

var (
	matricRegex = regexp.MustCompile(`^[A-Z]{2,4}/\d{2}/\d{3,5}$`)
	phoneRegex  = regexp.MustCompile(`^\+?\d{10,15}$`)
)

// ValidateMatricNumber validates a student matriculation number
// (e.g. VUG/21/4102)
func ValidateMatricNumber(matric string) error {
	if !matricRegex.MatchString(matric) {
		return fmt.Errorf("invalid matric number format: %s", matric)
	}
	return nil
}

// ValidatePhone validates a parent contact phone number
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid phone number format: %s", phone)
	}
	return nil
}

// ValidateDateRange checks that an exeat's return date does not precede its
// departure date
func ValidateDateRange(departure, ret time.Time) error {
	if ret.Before(departure) {
		return fmt.Errorf("return date %s precedes departure date %s",
			ret.Format("2006-01-02"), departure.Format("2006-01-02"))
	}
	return nil
}

// SanitizeString removes control characters from free-text input
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
