package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestNewExpense(t *testing.T) {
	owner := uuid.New()

	t.Run("defaults createdAt to now", func(t *testing.T) {
		before := time.Now().UTC()
		e := NewExpense(owner, decimal.NewFromInt(50), "Food", nil)
		after := time.Now().UTC()

		if e.ID == uuid.Nil {
			t.Error("expected a generated ID")
		}
		if e.OwnerID != owner {
			t.Errorf("expected owner %s, got %s", owner, e.OwnerID)
		}
		if e.CreatedAt.Before(before) || e.CreatedAt.After(after) {
			t.Errorf("createdAt %s not within [%s, %s]", e.CreatedAt, before, after)
		}
	})

	t.Run("keeps a back-dated timestamp in UTC", func(t *testing.T) {
		loc := time.FixedZone("IST", 5*3600+1800)
		date := time.Date(2026, 1, 5, 9, 0, 0, 0, loc)

		e := NewExpense(owner, decimal.NewFromInt(50), "Food", &date)

		if !e.CreatedAt.Equal(date) {
			t.Errorf("expected %s, got %s", date, e.CreatedAt)
		}
		if e.CreatedAt.Location() != time.UTC {
			t.Errorf("expected UTC location, got %s", e.CreatedAt.Location())
		}
	})
}

func TestValidAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"0.01", true},
		{"12.5", true},
		{"12.500", true},
		{"9999999999999.99", true},
		{"0", false},
		{"-1", false},
		{"0.001", false},
		{"10000000000000", false},
		{"1e20", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			if got := ValidAmount(decimal.RequireFromString(tt.amount)); got != tt.want {
				t.Errorf("ValidAmount(%s) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}
