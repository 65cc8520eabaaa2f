package orchestrators

import (
	"context"
	"testing"
	"time"

	"fitclub/internal/domain/failure"
	"fitclub/internal/domain/member"
	"fitclub/internal/domain/membershipcard"
)

func TestExecuteCheckMembershipValidity(t *testing.T) {
	frozen := activeMember("frozen")
	frozen.Status = member.StatusFrozen
	inactive := activeMember("inactive")
	inactive.Status = member.StatusInactive

	lapsed := validCard("lapsed")
	lapsed.EndDate = fixedTime.Add(-time.Second)
	lastDay := validCard("lastday")
	lastDay.EndDate = fixedTime
	suspended := validCard("suspended")
	suspended.Status = membershipcard.StatusInactive

	members := &mockMemberStore{members: map[string]member.Member{
		"ok":        activeMember("ok"),
		"frozen":    frozen,
		"inactive":  inactive,
		"nocard":    activeMember("nocard"),
		"lapsed":    activeMember("lapsed"),
		"lastday":   activeMember("lastday"),
		"suspended": activeMember("suspended"),
	}}
	cards := &mockCardStore{cards: map[string]membershipcard.Card{
		"ok":        validCard("ok"),
		"frozen":    validCard("frozen"),
		"inactive":  validCard("inactive"),
		"lapsed":    lapsed,
		"lastday":   lastDay,
		"suspended": suspended,
	}}
	deps := MembershipValidityDeps{MemberStore: members, CardStore: cards, Now: fixedNow}

	tests := []struct {
		memberID   string
		wantValid  bool
		wantReason string
	}{
		{"ok", true, ""},
		{"ghost", false, "member not found"},
		{"", false, "member not found"},
		{"frozen", false, "member frozen"},
		{"inactive", false, "member inactive"},
		{"nocard", false, "no valid card"},
		{"lapsed", false, "no valid card"},
		{"lastday", true, ""},
		{"suspended", false, "no valid card"},
	}
	for _, tt := range tests {
		t.Run(tt.memberID, func(t *testing.T) {
			got, err := ExecuteCheckMembershipValidity(context.Background(), tt.memberID, deps)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Valid != tt.wantValid || got.Reason != tt.wantReason {
				t.Errorf("got %+v, want valid=%v reason=%q", got, tt.wantValid, tt.wantReason)
			}
		})
	}
}

func TestExecuteCheckMembershipValidity_StoreFailure(t *testing.T) {
	deps := MembershipValidityDeps{
		MemberStore: &mockMemberStore{err: errDiskGone},
		CardStore:   &mockCardStore{},
		Now:         fixedNow,
	}
	_, err := ExecuteCheckMembershipValidity(context.Background(), "m1", deps)
	if failure.KindOf(err) != failure.KindStore {
		t.Fatalf("expected store failure, got %v", err)
	}
}

func TestExecuteCheckMembershipValidity_ReadsFreshState(t *testing.T) {
	members := &mockMemberStore{members: map[string]member.Member{"m1": activeMember("m1")}}
	cards := &mockCardStore{cards: map[string]membershipcard.Card{"m1": validCard("m1")}}
	deps := MembershipValidityDeps{MemberStore: members, CardStore: cards, Now: fixedNow}

	got, _ := ExecuteCheckMembershipValidity(context.Background(), "m1", deps)
	if !got.Valid {
		t.Fatal("expected valid member")
	}

	m := members.members["m1"]
	m.Status = member.StatusFrozen
	members.members["m1"] = m

	got, _ = ExecuteCheckMembershipValidity(context.Background(), "m1", deps)
	if got.Valid || got.Reason != "member frozen" {
		t.Errorf("expected freeze to take effect immediately, got %+v", got)
	}
}
