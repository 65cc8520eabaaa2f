package member_test

import (
	"errors"
	"testing"

	"fitclub/internal/domain/member"
)

// TestMemberValidation tests validation of Member.
func TestMemberValidation(t *testing.T) {
	tests := []struct {
		name    string
		member  member.Member
		wantErr bool
	}{
		{
			name:    "valid member",
			member:  member.Member{ID: "m1", Name: "Ana Lima", Email: "ana@example.com", Status: member.StatusActive},
			wantErr: false,
		},
		{
			name:    "valid frozen member without email",
			member:  member.Member{ID: "m1", Name: "Ana Lima", Status: member.StatusFrozen},
			wantErr: false,
		},
		{
			name:    "empty name",
			member:  member.Member{ID: "m1", Name: "  ", Status: member.StatusActive},
			wantErr: true,
		},
		{
			name:    "invalid email",
			member:  member.Member{ID: "m1", Name: "Ana Lima", Email: "ana.example.com", Status: member.StatusActive},
			wantErr: true,
		},
		{
			name:    "unknown status",
			member:  member.Member{ID: "m1", Name: "Ana Lima", Status: "archived"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.member.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestMemberFreezeUnfreeze tests the freeze round trip.
func TestMemberFreezeUnfreeze(t *testing.T) {
	m := member.Member{ID: "m1", Name: "Ana", Status: member.StatusActive}

	if err := m.Freeze(); err != nil {
		t.Fatalf("Freeze() unexpected error: %v", err)
	}
	if m.IsActive() {
		t.Error("frozen member reported active")
	}
	if err := m.Freeze(); !errors.Is(err, member.ErrAlreadyFrozen) {
		t.Errorf("second Freeze() error = %v, want ErrAlreadyFrozen", err)
	}
	if err := m.Unfreeze(); err != nil {
		t.Fatalf("Unfreeze() unexpected error: %v", err)
	}
	if !m.IsActive() {
		t.Error("unfrozen member should be active")
	}
	if err := m.Unfreeze(); !errors.Is(err, member.ErrNotFrozen) {
		t.Errorf("second Unfreeze() error = %v, want ErrNotFrozen", err)
	}
}
