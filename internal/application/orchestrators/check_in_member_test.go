package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitclub/internal/adapters/events"
	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/checkin"
	"fitclub/internal/domain/failure"
	"fitclub/internal/domain/member"
	"fitclub/internal/domain/membershipcard"
)

func newCheckInDeps(store *mockCheckInStore) CheckInMemberDeps {
	return CheckInMemberDeps{
		MemberStore:  &mockMemberStore{members: map[string]member.Member{"m1": activeMember("m1")}},
		CardStore:    &mockCardStore{cards: map[string]membershipcard.Card{"m1": validCard("m1")}},
		CheckInStore: store,
		Events:       &events.Recorder{},
		GenerateID:   fixedID,
		Now:          fixedNow,
	}
}

func TestExecuteCheckInMember_OpensSession(t *testing.T) {
	store := &mockCheckInStore{sessions: map[string]checkin.CheckIn{}}
	c, err := ExecuteCheckInMember(context.Background(), CheckInMemberInput{MemberID: "m1"}, newCheckInDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != checkin.StateOpen || !c.CheckInTime.Equal(fixedTime) {
		t.Errorf("unexpected session %+v", c)
	}

	_, err = ExecuteCheckInMember(context.Background(), CheckInMemberInput{MemberID: "m1"}, newCheckInDeps(store))
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Errorf("expected already checked in, got %v", err)
	}
}

func TestExecuteCheckInMember_Gated(t *testing.T) {
	deps := newCheckInDeps(&mockCheckInStore{sessions: map[string]checkin.CheckIn{}})
	_, err := ExecuteCheckInMember(context.Background(), CheckInMemberInput{MemberID: "ghost"}, deps)
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("expected member not found, got %v", err)
	}
}

func TestExecuteCheckOutMember(t *testing.T) {
	open := checkin.CheckIn{ID: "s1", MemberID: "m1", CheckInTime: fixedTime.Add(-90 * time.Minute)}
	closed := checkin.CheckIn{ID: "s0", MemberID: "m1", CheckInTime: fixedTime.Add(-48 * time.Hour), CheckOutTime: fixedTime.Add(-47 * time.Hour)}

	tests := []struct {
		name    string
		input   CheckOutMemberInput
		wantErr error
	}{
		{"by member", CheckOutMemberInput{MemberID: "m1"}, nil},
		{"by id", CheckOutMemberInput{CheckInID: "s1"}, nil},
		{"closed by id", CheckOutMemberInput{CheckInID: "s0"}, ErrSessionClosed},
		{"unknown id", CheckOutMemberInput{CheckInID: "nope"}, ErrCheckInNotFound},
		{"no open session", CheckOutMemberInput{MemberID: "m2"}, ErrNoOpenSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockCheckInStore{sessions: map[string]checkin.CheckIn{"s1": open, "s0": closed}}
			deps := CheckOutMemberDeps{CheckInStore: store, Now: fixedNow}
			s, err := ExecuteCheckOutMember(context.Background(), tt.input, deps)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				if store.sessions["s0"] != closed {
					t.Error("closed session must not be modified")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.DurationMinutes != 90 || s.DurationText != "1h 30m" {
				t.Errorf("got %d minutes %q", s.DurationMinutes, s.DurationText)
			}
			if !store.sessions["s1"].CheckOutTime.Equal(fixedTime) {
				t.Error("expected check-out time to be stored")
			}
		})
	}
}

func TestExecuteCheckOutMember_InputValidation(t *testing.T) {
	deps := CheckOutMemberDeps{CheckInStore: &mockCheckInStore{}, Now: fixedNow}
	for _, input := range []CheckOutMemberInput{{}, {MemberID: "m1", CheckInID: "s1"}} {
		_, err := ExecuteCheckOutMember(context.Background(), input, deps)
		if failure.KindOf(err) != failure.KindValidation {
			t.Errorf("input %+v: expected validation failure, got %v", input, err)
		}
	}
}

func TestExecuteCheckOutMember_ConcurrentCloseLoses(t *testing.T) {
	store := &mockCheckInStore{
		sessions:    map[string]checkin.CheckIn{"s1": {ID: "s1", MemberID: "m1", CheckInTime: fixedTime.Add(-time.Hour)}},
		checkOutErr: storage.ErrConflict,
	}
	_, err := ExecuteCheckOutMember(context.Background(), CheckOutMemberInput{CheckInID: "s1"}, CheckOutMemberDeps{CheckInStore: store, Now: fixedNow})
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected session closed, got %v", err)
	}
}

type stubOverdueCloser struct {
	gotCutoff time.Time
	closed    []checkin.CheckIn
}

func (s *stubOverdueCloser) CloseOverdue(_ context.Context, cutoff, _ time.Time) ([]checkin.CheckIn, error) {
	s.gotCutoff = cutoff
	out := s.closed
	s.closed = nil
	return out, nil
}

func TestExecuteAutoCheckOut(t *testing.T) {
	rec := &events.Recorder{}
	store := &stubOverdueCloser{closed: []checkin.CheckIn{{ID: "s1", MemberID: "m1"}}}
	deps := AutoCheckOutDeps{CheckInStore: store, Events: rec, Now: fixedNow}

	got, err := ExecuteAutoCheckOut(context.Background(), 12, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Closed != 1 || got.CheckInIDs[0] != "s1" {
		t.Errorf("unexpected result %+v", got)
	}
	if !store.gotCutoff.Equal(fixedTime.Add(-12 * time.Hour)) {
		t.Errorf("unexpected cutoff %v", store.gotCutoff)
	}
	if types := rec.Types(); len(types) != 1 || types[0] != events.CheckInAutoClose {
		t.Errorf("unexpected events %v", types)
	}

	got, err = ExecuteAutoCheckOut(context.Background(), 12, deps)
	if err != nil || got.Closed != 0 {
		t.Errorf("second run: got %+v, %v", got, err)
	}
}

func TestExecuteAutoCheckOut_RejectsNonPositiveHours(t *testing.T) {
	for _, h := range []int{0, -3} {
		_, err := ExecuteAutoCheckOut(context.Background(), h, AutoCheckOutDeps{CheckInStore: &stubOverdueCloser{}})
		if failure.KindOf(err) != failure.KindValidation {
			t.Errorf("maxHours=%d: expected validation failure, got %v", h, err)
		}
	}
}
