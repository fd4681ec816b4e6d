package util

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr bool
	}{
		{"0", false},
		{"100.50", false},
		{"-100.50", false},
		{"99999999.99", false},
		{"-99999999.99", false},
		{"100000000", true},
		{"-100000000", true},
		{"10.123", true},
		{"0.001", true},
	}
	for _, tt := range tests {
		amount, err := decimal.NewFromString(tt.amount)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.amount, err)
		}
		err = ValidateAmount(amount)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAmount(%s) error = %v, wantErr %v", tt.amount, err, tt.wantErr)
		}
	}
}

func TestValidatePositiveAmount(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr bool
	}{
		{"0.01", false},
		{"500", false},
		{"0", true},
		{"-1", true},
		{"100000000", true},
	}
	for _, tt := range tests {
		amount, err := decimal.NewFromString(tt.amount)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.amount, err)
		}
		err = ValidatePositiveAmount(amount)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePositiveAmount(%s) error = %v, wantErr %v", tt.amount, err, tt.wantErr)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", time.Time{}, false},
		{"2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"2025-03-01T12:30:00", time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC), false},
		{"2025-03-01T12:30:00Z", time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC), false},
		{"01.03.2025", time.Time{}, true},
		{"not-a-date", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
