package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from DocumentStatus
		to   DocumentStatus
		want bool
	}{
		{name: "not started to pending", from: StatusNotStarted, to: StatusPending, want: true},
		{name: "pending to in progress", from: StatusPending, to: StatusInProgress, want: true},
		{name: "pending straight to approved", from: StatusPending, to: StatusApproved, want: true},
		{name: "pending to rejected", from: StatusPending, to: StatusRejected, want: true},
		{name: "in progress to approved", from: StatusInProgress, to: StatusApproved, want: true},
		{name: "rejected back to pending", from: StatusRejected, to: StatusPending, want: true},
		{name: "approved superseded by resubmission", from: StatusApproved, to: StatusPending, want: true},
		{name: "same status re-asserted", from: StatusInProgress, to: StatusInProgress, want: true},
		{name: "not started straight to approved", from: StatusNotStarted, to: StatusApproved, want: false},
		{name: "rejected straight to approved", from: StatusRejected, to: StatusApproved, want: false},
		{name: "approved to in progress", from: StatusApproved, to: StatusInProgress, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestParseDocumentStatus(t *testing.T) {
	for _, valid := range []string{"NOT_STARTED", "PENDING", "IN_PROGRESS", "APPROVED", "REJECTED"} {
		if _, err := ParseDocumentStatus(valid); err != nil {
			t.Fatalf("ParseDocumentStatus(%q): unexpected error %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "pending", "COMPLETED", "DONE"} {
		if _, err := ParseDocumentStatus(invalid); err == nil {
			t.Fatalf("ParseDocumentStatus(%q): expected error", invalid)
		}
	}
}

func TestStatusOfDefaultsToNotStarted(t *testing.T) {
	state := CargoDocumentState{DocumentStatus: map[string]DocumentStatusRecord{
		"Safety_Data_Sheet": {Status: StatusPending},
	}}
	if got := state.StatusOf("Safety_Data_Sheet"); got != StatusPending {
		t.Fatalf("StatusOf existing record = %s, want PENDING", got)
	}
	if got := state.StatusOf("Dangerous_Goods_Declaration"); got != StatusNotStarted {
		t.Fatalf("StatusOf missing record = %s, want NOT_STARTED", got)
	}
}
