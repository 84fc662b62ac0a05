package domain

import (
	"reflect"
	"testing"
)

func checkEdges[S ~string](t *testing.T, all []S, legal map[S][]S, can func(from, to S) bool) {
	t.Helper()
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, allowed := range legal[from] {
				if allowed == to {
					want = true
				}
			}
			if got := can(from, to); got != want {
				t.Errorf("transition %s -> %s = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestConstructionTransitions(t *testing.T) {
	checkEdges(t, AllConstructionStatuses, map[ConstructionStatus][]ConstructionStatus{
		ConstructionPlanned:    {ConstructionInProgress, ConstructionSuspended, ConstructionCancelled},
		ConstructionInProgress: {ConstructionSuspended, ConstructionCompleted, ConstructionCancelled},
		ConstructionSuspended:  {ConstructionInProgress, ConstructionCancelled},
	}, CanTransitionConstruction)

	for _, s := range AllConstructionStatuses {
		if s.IsTerminal() != (len(AllowedConstructionTransitions(s)) == 0) {
			t.Errorf("construction %s: terminal=%v but targets %v", s, s.IsTerminal(), AllowedConstructionTransitions(s))
		}
	}
}

func TestProcurementTransitions(t *testing.T) {
	checkEdges(t, AllProcurementStatuses, map[ProcurementStatus][]ProcurementStatus{
		ProcurementPending:   {ProcurementOrdered, ProcurementCancelled},
		ProcurementOrdered:   {ProcurementShipped, ProcurementCancelled},
		ProcurementShipped:   {ProcurementDelivered},
		ProcurementDelivered: {ProcurementInstalled},
	}, CanTransitionProcurement)

	if CanMoveProcurement(ProcurementShipped, ProcurementDelivered) {
		t.Error("delivery is not a manual status change")
	}
	if !CanMoveProcurement(ProcurementOrdered, ProcurementShipped) {
		t.Error("ORDERED -> SHIPPED should be a manual status change")
	}
}

func TestLicenseTransitions(t *testing.T) {
	checkEdges(t, AllLicenseStatuses, map[LicenseStatus][]LicenseStatus{
		LicensePreparing:   {LicenseSubmitted, LicenseIssued},
		LicenseSubmitted:   {LicenseUnderReview, LicenseIssued},
		LicenseUnderReview: {LicenseRejected, LicenseIssued},
		LicenseRejected:    {LicensePreparing, LicenseIssued},
		LicenseIssued:      {LicenseIssued, LicenseExpired},
		LicenseExpired:     {LicenseIssued},
	}, CanTransitionLicense)

	for _, from := range AllLicenseStatuses {
		if CanMoveLicense(from, LicenseIssued) || CanMoveLicense(from, LicenseExpired) {
			t.Errorf("processing steps from %s must not issue or expire", from)
		}
	}
	if LicenseIssued.AcceptsProcessing() || LicenseExpired.AcceptsProcessing() || !LicenseRejected.AcceptsProcessing() {
		t.Error("only licenses under way accept processing steps")
	}
}

func TestRecruitmentTransitions(t *testing.T) {
	checkEdges(t, AllRecruitmentStatuses, map[RecruitmentStatus][]RecruitmentStatus{
		RecruitmentRecruiting:    {RecruitmentRecruiting, RecruitmentInterviewing, RecruitmentOfferSent, RecruitmentOfferAccepted, RecruitmentCancelled},
		RecruitmentInterviewing:  {RecruitmentInterviewing, RecruitmentOfferSent, RecruitmentOfferAccepted, RecruitmentCancelled},
		RecruitmentOfferSent:     {RecruitmentOfferSent, RecruitmentOfferAccepted, RecruitmentCancelled},
		RecruitmentOfferAccepted: {RecruitmentInterviewing, RecruitmentOfferSent, RecruitmentOfferAccepted, RecruitmentCompleted, RecruitmentCancelled},
	}, CanTransitionRecruitment)

	for _, s := range AllRecruitmentStatuses {
		if s.IsTerminal() != (len(AllowedRecruitmentTransitions(s)) == 0) {
			t.Errorf("recruitment %s: terminal=%v but targets %v", s, s.IsTerminal(), AllowedRecruitmentTransitions(s))
		}
	}
}

func TestMilestoneTransitions(t *testing.T) {
	checkEdges(t, AllMilestoneStatuses, map[MilestoneStatus][]MilestoneStatus{
		MilestonePending:    {MilestoneInProgress, MilestoneCompleted, MilestoneDelayed},
		MilestoneInProgress: {MilestoneCompleted, MilestoneDelayed},
		MilestoneDelayed:    {MilestoneInProgress, MilestoneCompleted},
		MilestoneCompleted:  {MilestoneApproved},
	}, CanTransitionMilestone)

	want := []MilestoneStatus{MilestonePending, MilestoneInProgress}
	if got := DelayableMilestoneStatuses(); !reflect.DeepEqual(got, want) {
		t.Errorf("DelayableMilestoneStatuses = %v, want %v", got, want)
	}
}

func TestNextMilestoneStatus(t *testing.T) {
	tests := []struct {
		current  MilestoneStatus
		progress int
		want     MilestoneStatus
		ok       bool
	}{
		{MilestonePending, 0, MilestoneInProgress, true},
		{MilestonePending, 100, MilestoneCompleted, true},
		{MilestoneInProgress, 70, MilestoneInProgress, true},
		{MilestoneDelayed, 40, MilestoneInProgress, true},
		{MilestoneDelayed, 100, MilestoneCompleted, true},
		{MilestoneCompleted, 100, MilestoneCompleted, true},
		{MilestoneCompleted, 60, MilestoneInProgress, false},
		{MilestoneApproved, 100, MilestoneCompleted, false},
	}
	for _, tt := range tests {
		got, ok := NextMilestoneStatus(tt.current, tt.progress)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NextMilestoneStatus(%s, %d) = %s, %v; want %s, %v", tt.current, tt.progress, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNextConstructionStatus(t *testing.T) {
	if got := NextConstructionStatus(ConstructionPlanned, 0); got != ConstructionPlanned {
		t.Errorf("zero progress moved planned construction to %s", got)
	}
	if got := NextConstructionStatus(ConstructionPlanned, 5); got != ConstructionInProgress {
		t.Errorf("first progress gave %s", got)
	}
	if got := NextConstructionStatus(ConstructionInProgress, 100); got != ConstructionInProgress {
		t.Errorf("progress alone must not complete a construction, got %s", got)
	}
}

func TestStatusValidity(t *testing.T) {
	if ConstructionStatus("DONE").IsValid() || !ConstructionSuspended.IsValid() {
		t.Error("construction validity")
	}
	if ProcurementStatus("LOST").IsValid() || !ProcurementInstalled.IsValid() {
		t.Error("procurement validity")
	}
	if LicenseStatus("").IsValid() || !LicenseExpired.IsValid() {
		t.Error("license validity")
	}
	if RecruitmentStatus("HIRING").IsValid() || !RecruitmentCancelled.IsValid() {
		t.Error("recruitment validity")
	}
	if MilestoneStatus("late").IsValid() || !MilestoneApproved.IsValid() {
		t.Error("milestone validity")
	}
}
