package domain

import (
	"strings"
	"testing"
	"time"
)

func TestCanTransitionExhaustive(t *testing.T) {
	legal := map[Status][]Status{
		StatusPlanning:   {StatusInProgress, StatusCancelled},
		StatusInProgress: {StatusPaused, StatusCompleted, StatusCancelled},
		StatusPaused:     {StatusInProgress, StatusCancelled},
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := false
			for _, allowed := range legal[from] {
				if allowed == to {
					want = true
				}
			}
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatusesHaveNoEdges(t *testing.T) {
	for _, s := range AllStatuses {
		if s.IsTerminal() && len(AllowedTransitions(s)) != 0 {
			t.Errorf("terminal status %s has transitions %v", s, AllowedTransitions(s))
		}
		if !s.IsTerminal() && len(AllowedTransitions(s)) == 0 {
			t.Errorf("non-terminal status %s has no transitions", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := ParseStatus("IN_PROGRESS"); !ok || s != StatusInProgress {
		t.Fatalf("ParseStatus(IN_PROGRESS) = %q, %v", s, ok)
	}
	for _, raw := range []string{"", "in_progress", "DONE"} {
		if _, ok := ParseStatus(raw); ok {
			t.Errorf("ParseStatus(%q) should fail", raw)
		}
	}
	if CanTransition(Status("UNKNOWN"), StatusCancelled) {
		t.Fatal("unknown source status must not transition")
	}
}

func TestFormatProjectCode(t *testing.T) {
	tests := []struct {
		region string
		seq    int
		want   string
	}{
		{"SH", 1, "PP-2025-SH-0001"},
		{"bj-01", 42, "PP-2025-BJ01-0042"},
		{"", 7, "PP-2025-XX-0007"},
		{"GZ", 12345, "PP-2025-GZ-12345"},
	}
	for _, tt := range tests {
		got := FormatProjectCode(2025, tt.region, tt.seq)
		if got != tt.want {
			t.Errorf("FormatProjectCode(%q, %d) = %q, want %q", tt.region, tt.seq, got, tt.want)
		}
		if !ProjectCodePattern.MatchString(got) {
			t.Errorf("%q does not match ProjectCodePattern", got)
		}
	}
}

func TestAppendAuditNote(t *testing.T) {
	at := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)

	first := AppendAuditNote("", at, StatusInProgress, "kick-off", "")
	if first != "[2025-03-04 10:30:00] status changed to IN_PROGRESS: kick-off" {
		t.Fatalf("unexpected first note: %q", first)
	}

	second := AppendAuditNote(first, at.Add(time.Hour), StatusPaused, "", "waiting for permit")
	lines := strings.Split(second, "\n")
	if len(lines) != 2 || lines[0] != first {
		t.Fatalf("earlier line must be preserved, got %q", second)
	}
	if lines[1] != "[2025-03-04 11:30:00] status changed to PAUSED (waiting for permit)" {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	if !IsOverdue(StatusInProgress, &past, now) {
		t.Error("in-progress project past its date should be overdue")
	}
	if IsOverdue(StatusCompleted, &past, now) {
		t.Error("completed project is never overdue")
	}
	if IsOverdue(StatusPlanning, &future, now) {
		t.Error("future date is not overdue")
	}
	if IsOverdue(StatusPlanning, nil, now) {
		t.Error("missing date is not overdue")
	}
}

func TestIsOverdueComparesCalendarDays(t *testing.T) {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if IsOverdue(StatusInProgress, &due, time.Date(2025, 6, 1, 17, 45, 0, 0, time.UTC)) {
		t.Error("project due today is not overdue yet")
	}
	if !IsOverdue(StatusInProgress, &due, time.Date(2025, 6, 2, 0, 5, 0, 0, time.UTC)) {
		t.Error("project due yesterday is overdue")
	}
}

func TestIsApprovedPlanStatus(t *testing.T) {
	for status, want := range map[string]bool{
		"APPROVED":  true,
		"EXECUTING": true,
		"approved":  true,
		"DRAFT":     false,
		"REJECTED":  false,
	} {
		if got := IsApprovedPlanStatus(status); got != want {
			t.Errorf("IsApprovedPlanStatus(%q) = %v", status, got)
		}
	}
}
