package membershipcard_test

import (
	"errors"
	"testing"
	"time"

	"fitclub/internal/domain/membershipcard"
)

var cardNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func TestCardIsValidAt(t *testing.T) {
	tests := []struct {
		name string
		card membershipcard.Card
		want bool
	}{
		{
			name: "active and unexpired",
			card: membershipcard.Card{Status: membershipcard.StatusActive, EndDate: cardNow.AddDate(0, 1, 0)},
			want: true,
		},
		{
			name: "active ending exactly now",
			card: membershipcard.Card{Status: membershipcard.StatusActive, EndDate: cardNow},
			want: true,
		},
		{
			name: "active but past end date",
			card: membershipcard.Card{Status: membershipcard.StatusActive, EndDate: cardNow.Add(-time.Second)},
			want: false,
		},
		{
			name: "inactive",
			card: membershipcard.Card{Status: membershipcard.StatusInactive, EndDate: cardNow.AddDate(1, 0, 0)},
			want: false,
		},
		{
			name: "expired status",
			card: membershipcard.Card{Status: membershipcard.StatusExpired, EndDate: cardNow.AddDate(1, 0, 0)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.IsValidAt(cardNow); got != tt.want {
				t.Errorf("IsValidAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCardValidate(t *testing.T) {
	valid := membershipcard.Card{
		MemberID:  "m1",
		StartDate: cardNow,
		EndDate:   cardNow.AddDate(0, 1, 0),
		Status:    membershipcard.StatusActive,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	reversed := valid
	reversed.EndDate = cardNow.AddDate(0, -1, 0)
	if err := reversed.Validate(); err == nil {
		t.Error("expected error for end before start")
	}

	orphan := valid
	orphan.MemberID = ""
	if err := orphan.Validate(); err == nil {
		t.Error("expected error for missing member")
	}
}

func TestCardRenew(t *testing.T) {
	c := membershipcard.Card{Status: membershipcard.StatusExpired, EndDate: cardNow.AddDate(0, 0, -3)}

	if err := c.Renew(cardNow.AddDate(0, 0, -5)); !errors.Is(err, membershipcard.ErrRenewNotLater) {
		t.Errorf("Renew(earlier) error = %v, want ErrRenewNotLater", err)
	}
	if err := c.Renew(cardNow.AddDate(0, 1, 0)); err != nil {
		t.Fatalf("Renew() unexpected error: %v", err)
	}
	if c.Status != membershipcard.StatusActive {
		t.Errorf("status = %q, want active", c.Status)
	}
	if !c.IsValidAt(cardNow) {
		t.Error("renewed card should be valid")
	}

	inactive := membershipcard.Card{Status: membershipcard.StatusInactive, EndDate: cardNow}
	if err := inactive.Renew(cardNow.AddDate(0, 1, 0)); !errors.Is(err, membershipcard.ErrCardInactive) {
		t.Errorf("Renew(inactive) error = %v, want ErrCardInactive", err)
	}
}

func TestCardRemainingDays(t *testing.T) {
	c := membershipcard.Card{Status: membershipcard.StatusActive, EndDate: cardNow.Add(72 * time.Hour)}
	if got := c.RemainingDays(cardNow); got != 3 {
		t.Errorf("RemainingDays() = %d, want 3", got)
	}
	if got := c.RemainingDays(cardNow.AddDate(0, 0, 5)); got != 0 {
		t.Errorf("RemainingDays() after end = %d, want 0", got)
	}
}
