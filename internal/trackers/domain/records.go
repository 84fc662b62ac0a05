package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProgressUpdate is one entry in a construction or milestone progress log.
type ProgressUpdate struct {
	Progress    int       `json:"progress"`
	Description string    `json:"description,omitempty"`
	Operator    string    `json:"operator,omitempty"`
	RecordedAt  time.Time `json:"recordedAt"`
}

// Acceptance records the sign-off of a finished construction.
type Acceptance struct {
	AcceptedByID   uuid.UUID `json:"acceptedById"`
	AcceptedByName string    `json:"acceptedByName"`
	Remarks        string    `json:"remarks,omitempty"`
	AcceptedAt     time.Time `json:"acceptedAt"`
}

// QualityInspection is recorded when delivered equipment is checked.
type QualityInspection struct {
	Inspector   string    `json:"inspector"`
	InspectedAt time.Time `json:"inspectedAt"`
	Passed      bool      `json:"passed"`
	Score       *int      `json:"score,omitempty"`
	Remarks     string    `json:"remarks,omitempty"`
	PhotoKeys   []string  `json:"photoKeys"`
}

// StatusChange is one entry in a procurement status history.
type StatusChange struct {
	From      ProcurementStatus `json:"from"`
	To        ProcurementStatus `json:"to"`
	Operator  string            `json:"operator,omitempty"`
	Note      string            `json:"note,omitempty"`
	ChangedAt time.Time         `json:"changedAt"`
}

// ProcessingStep is one entry in a license processing log.
type ProcessingStep struct {
	Step        string    `json:"step"`
	Status      string    `json:"status"`
	Operator    string    `json:"operator,omitempty"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// FollowUpRecord is a free-text follow-up on a license application.
type FollowUpRecord struct {
	Note      string    `json:"note"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Interview is one interview round of a candidate.
type Interview struct {
	CandidateName  string    `json:"candidateName"`
	CandidatePhone string    `json:"candidatePhone,omitempty"`
	Position       string    `json:"position"`
	Round          int       `json:"round"`
	Result         string    `json:"result"`
	Interviewer    string    `json:"interviewer,omitempty"`
	Comments       string    `json:"comments,omitempty"`
	InterviewedAt  time.Time `json:"interviewedAt"`
}

// Offer is an offer made to a candidate.
type Offer struct {
	CandidateName  string     `json:"candidateName"`
	CandidatePhone string     `json:"candidatePhone,omitempty"`
	Position       string     `json:"position"`
	Salary         string     `json:"salary,omitempty"`
	Accepted       bool       `json:"accepted"`
	SentAt         time.Time  `json:"sentAt"`
	RespondedAt    *time.Time `json:"respondedAt,omitempty"`
}

// HiredCandidate is a candidate who has onboarded.
type HiredCandidate struct {
	CandidateName  string    `json:"candidateName"`
	CandidatePhone string    `json:"candidatePhone,omitempty"`
	Position       string    `json:"position"`
	StartDate      time.Time `json:"startDate"`
	OnboardedAt    time.Time `json:"onboardedAt"`
}

// ApplicationStats summarizes a recruitment's interview and hiring history.
type ApplicationStats struct {
	Interviewed    int `json:"interviewed"`
	Passed         int `json:"passed"`
	Failed         int `json:"failed"`
	Pending        int `json:"pending"`
	OffersSent     int `json:"offersSent"`
	OffersAccepted int `json:"offersAccepted"`
	Hired          int `json:"hired"`
}

// CriterionItem is one acceptance criterion of a milestone.
type CriterionItem struct {
	Name        string     `json:"name"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Approval is the sign-off of a completed milestone.
type Approval struct {
	ApproverID   uuid.UUID `json:"approverId"`
	ApproverName string    `json:"approverName"`
	Comment      string    `json:"comment,omitempty"`
	ApprovedAt   time.Time `json:"approvedAt"`
}

// ComputeApplicationStats derives the stats from the full history. Interviewed
// counts distinct candidates; pass/fail/pending use each candidate's latest round.
func ComputeApplicationStats(interviews []Interview, offers []Offer, hired []HiredCandidate) ApplicationStats {
	latest := make(map[string]Interview)
	for _, iv := range interviews {
		key := candidateKey(iv.CandidateName, iv.CandidatePhone)
		if prev, ok := latest[key]; !ok || iv.Round >= prev.Round {
			latest[key] = iv
		}
	}

	stats := ApplicationStats{Interviewed: len(latest), OffersSent: len(offers), Hired: len(hired)}
	for _, iv := range latest {
		switch iv.Result {
		case InterviewPassed:
			stats.Passed++
		case InterviewFailed:
			stats.Failed++
		default:
			stats.Pending++
		}
	}
	for _, o := range offers {
		if o.Accepted {
			stats.OffersAccepted++
		}
	}
	return stats
}

// RecruitmentProgress is the share of positions filled, capped at 100.
func RecruitmentProgress(hired, positions int) int {
	if positions <= 0 {
		positions = 1
	}
	progress := hired * 100 / positions
	if progress > 100 {
		progress = 100
	}
	return progress
}

// RecruitmentStatusFor derives an open recruitment's status from its history.
// Each candidate counts with their latest offer; onboarded candidates are done.
// An accepted offer still waiting for onboarding outranks pending offers, so
// sending a new offer never hides a candidate who is ready to join.
func RecruitmentStatusFor(interviews []Interview, offers []Offer, hired []HiredCandidate, positions int) RecruitmentStatus {
	if positions <= 0 {
		positions = 1
	}
	if len(hired) >= positions {
		return RecruitmentCompleted
	}

	latest := make(map[string]Offer, len(offers))
	order := make([]string, 0, len(offers))
	for _, o := range offers {
		key := candidateKey(o.CandidateName, o.CandidatePhone)
		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}
		latest[key] = o
	}

	accepted, pending := false, false
	for _, key := range order {
		o := latest[key]
		if IsHired(hired, o.CandidateName, o.CandidatePhone) {
			continue
		}
		if o.Accepted {
			accepted = true
		} else {
			pending = true
		}
	}

	switch {
	case accepted:
		return RecruitmentOfferAccepted
	case pending:
		return RecruitmentOfferSent
	case len(interviews) > 0 || len(offers) > 0 || len(hired) > 0:
		return RecruitmentInterviewing
	}
	return RecruitmentRecruiting
}

// HasAcceptedOffer reports whether the candidate's latest offer was accepted.
func HasAcceptedOffer(offers []Offer, name, phone string) bool {
	found := false
	for _, o := range offers {
		if sameCandidate(o.CandidateName, o.CandidatePhone, name, phone) {
			found = o.Accepted
		}
	}
	return found
}

// IsHired reports whether the candidate has already onboarded.
func IsHired(hired []HiredCandidate, name, phone string) bool {
	for _, h := range hired {
		if sameCandidate(h.CandidateName, h.CandidatePhone, name, phone) {
			return true
		}
	}
	return false
}

// sameCandidate matches on phone when both records carry one, else on name.
func sameCandidate(nameA, phoneA, nameB, phoneB string) bool {
	if phoneA != "" && phoneB != "" {
		return phoneA == phoneB
	}
	return strings.EqualFold(strings.TrimSpace(nameA), strings.TrimSpace(nameB))
}

// MergeCriteria marks the named criteria complete. Names not on the checklist
// are added as completed items; completed items stay completed.
func MergeCriteria(checklist []CriterionItem, completed []string, at time.Time) []CriterionItem {
	out := make([]CriterionItem, len(checklist))
	copy(out, checklist)

	for _, name := range completed {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		matched := false
		for i := range out {
			if strings.EqualFold(out[i].Name, name) {
				matched = true
				if !out[i].Completed {
					ts := at
					out[i].Completed = true
					out[i].CompletedAt = &ts
				}
				break
			}
		}
		if !matched {
			ts := at
			out = append(out, CriterionItem{Name: name, Completed: true, CompletedAt: &ts})
		}
	}
	return out
}

// NewChecklist builds an open checklist from criterion names.
func NewChecklist(names []string) []CriterionItem {
	out := make([]CriterionItem, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, CriterionItem{Name: name})
		}
	}
	return out
}

func candidateKey(name, phone string) string {
	if phone != "" {
		return phone
	}
	return strings.ToLower(strings.TrimSpace(name))
}
