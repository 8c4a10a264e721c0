package utils

import (
	"testing"
	"time"
)

func TestValidateMatricNumber(t *testing.T) {
	tests := []struct {
		matric  string
		wantErr bool
	}{
		{"VUG/21/4102", false},
		{"CS/19/123", false},
		{"ABCD/22/12345", false},
		{"vug/21/4102", true},
		{"VUG-21-4102", true},
		{"VUG/2021/4102", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateMatricNumber(tt.matric)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMatricNumber(%q) error = %v, wantErr %v", tt.matric, err, tt.wantErr)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone   string
		wantErr bool
	}{
		{"+2348012345678", false},
		{"08012345678", false},
		{"12345", true},
		{"phone", true},
	}

	for _, tt := range tests {
		err := ValidatePhone(tt.phone)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePhone(%q) error = %v, wantErr %v", tt.phone, err, tt.wantErr)
		}
	}
}

func TestValidateDateRange(t *testing.T) {
	departure := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

	if err := ValidateDateRange(departure, departure.Add(48*time.Hour)); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}
	if err := ValidateDateRange(departure, departure); err != nil {
		t.Errorf("same-day return rejected: %v", err)
	}
	if err := ValidateDateRange(departure, departure.Add(-time.Hour)); err == nil {
		t.Error("inverted range accepted")
	}
}

func TestSanitizeString(t *testing.T) {
	got := SanitizeString("family\x00 event\x1f")
	if got != "family event" {
		t.Errorf("SanitizeString = %q", got)
	}
}
