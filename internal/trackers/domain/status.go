// Package domain holds the status rules and typed history records of the five
// sub-workflow trackers that hang off a preparation project.
package domain

// table is the closed set of legal edges of one tracker. A status missing
// from the table is unknown; a status with no targets is terminal.
type table[S ~string] map[S]map[S]struct{}

func (t table[S]) has(s S) bool {
	_, ok := t[s]
	return ok
}

func (t table[S]) allows(from, to S) bool {
	targets, ok := t[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

func (t table[S]) targets(from S, order []S) []S {
	out := make([]S, 0, len(t[from]))
	for _, candidate := range order {
		if t.allows(from, candidate) {
			out = append(out, candidate)
		}
	}
	return out
}

// ConstructionStatus is the state of a construction project.
type ConstructionStatus string

const (
	ConstructionPlanned    ConstructionStatus = "PLANNED"
	ConstructionInProgress ConstructionStatus = "IN_PROGRESS"
	ConstructionSuspended  ConstructionStatus = "SUSPENDED"
	ConstructionCompleted  ConstructionStatus = "COMPLETED"
	ConstructionCancelled  ConstructionStatus = "CANCELLED"
)

// AllConstructionStatuses lists every construction status in lifecycle order.
var AllConstructionStatuses = []ConstructionStatus{
	ConstructionPlanned,
	ConstructionInProgress,
	ConstructionSuspended,
	ConstructionCompleted,
	ConstructionCancelled,
}

// Completion only happens through acceptance.
var constructionTransitions = table[ConstructionStatus]{
	ConstructionPlanned: {
		ConstructionInProgress: {},
		ConstructionSuspended:  {},
		ConstructionCancelled:  {},
	},
	ConstructionInProgress: {
		ConstructionSuspended: {},
		ConstructionCompleted: {},
		ConstructionCancelled: {},
	},
	ConstructionSuspended: {
		ConstructionInProgress: {},
		ConstructionCancelled:  {},
	},
	ConstructionCompleted: {},
	ConstructionCancelled: {},
}

// IsValid reports whether s is a known construction status.
func (s ConstructionStatus) IsValid() bool { return constructionTransitions.has(s) }

// IsTerminal reports whether the construction is closed for good.
func (s ConstructionStatus) IsTerminal() bool {
	return s == ConstructionCompleted || s == ConstructionCancelled
}

func (s ConstructionStatus) String() string { return string(s) }

// CanTransitionConstruction reports whether from -> to is a legal edge.
func CanTransitionConstruction(from, to ConstructionStatus) bool {
	return constructionTransitions.allows(from, to)
}

// AllowedConstructionTransitions returns the legal targets from s.
func AllowedConstructionTransitions(s ConstructionStatus) []ConstructionStatus {
	return constructionTransitions.targets(s, AllConstructionStatuses)
}

// NextConstructionStatus returns the status after a progress update. The
// first progress above zero starts a planned construction.
func NextConstructionStatus(current ConstructionStatus, progress int) ConstructionStatus {
	if current == ConstructionPlanned && progress > 0 {
		return ConstructionInProgress
	}
	return current
}

// ProcurementStatus is the state of an equipment procurement.
type ProcurementStatus string

const (
	ProcurementPending   ProcurementStatus = "PENDING"
	ProcurementOrdered   ProcurementStatus = "ORDERED"
	ProcurementShipped   ProcurementStatus = "SHIPPED"
	ProcurementDelivered ProcurementStatus = "DELIVERED"
	ProcurementInstalled ProcurementStatus = "INSTALLED"
	ProcurementCancelled ProcurementStatus = "CANCELLED"
)

// AllProcurementStatuses lists every procurement status in lifecycle order.
var AllProcurementStatuses = []ProcurementStatus{
	ProcurementPending,
	ProcurementOrdered,
	ProcurementShipped,
	ProcurementDelivered,
	ProcurementInstalled,
	ProcurementCancelled,
}

// Shipped equipment can no longer be cancelled.
var procurementTransitions = table[ProcurementStatus]{
	ProcurementPending: {
		ProcurementOrdered:   {},
		ProcurementCancelled: {},
	},
	ProcurementOrdered: {
		ProcurementShipped:   {},
		ProcurementCancelled: {},
	},
	ProcurementShipped:   {ProcurementDelivered: {}},
	ProcurementDelivered: {ProcurementInstalled: {}},
	ProcurementInstalled: {},
	ProcurementCancelled: {},
}

// IsValid reports whether s is a known procurement status.
func (s ProcurementStatus) IsValid() bool { return procurementTransitions.has(s) }

// IsTerminal reports whether the procurement is closed for good.
func (s ProcurementStatus) IsTerminal() bool {
	return s == ProcurementInstalled || s == ProcurementCancelled
}

// IsManualTarget reports whether s can be requested through a plain status
// change. Delivery and installation carry their own records.
func (s ProcurementStatus) IsManualTarget() bool {
	return s == ProcurementOrdered || s == ProcurementShipped || s == ProcurementCancelled
}

func (s ProcurementStatus) String() string { return string(s) }

// CanTransitionProcurement reports whether from -> to is a legal edge.
func CanTransitionProcurement(from, to ProcurementStatus) bool {
	return procurementTransitions.allows(from, to)
}

// AllowedProcurementTransitions returns the legal targets from s.
func AllowedProcurementTransitions(s ProcurementStatus) []ProcurementStatus {
	return procurementTransitions.targets(s, AllProcurementStatuses)
}

// CanMoveProcurement reports whether from -> to is a legal manual status change.
func CanMoveProcurement(from, to ProcurementStatus) bool {
	return to.IsManualTarget() && CanTransitionProcurement(from, to)
}

// ProcurementProgress is the progress implied by a procurement status.
func ProcurementProgress(status ProcurementStatus) int {
	switch status {
	case ProcurementOrdered:
		return 30
	case ProcurementShipped:
		return 60
	case ProcurementDelivered, ProcurementInstalled:
		return 100
	}
	return 0
}

// LicenseStatus is the state of a license application.
type LicenseStatus string

const (
	LicensePreparing   LicenseStatus = "PREPARING"
	LicenseSubmitted   LicenseStatus = "SUBMITTED"
	LicenseUnderReview LicenseStatus = "UNDER_REVIEW"
	LicenseIssued      LicenseStatus = "ISSUED"
	LicenseRejected    LicenseStatus = "REJECTED"
	LicenseExpired     LicenseStatus = "EXPIRED"
)

// AllLicenseStatuses lists every license status in lifecycle order.
var AllLicenseStatuses = []LicenseStatus{
	LicensePreparing,
	LicenseSubmitted,
	LicenseUnderReview,
	LicenseIssued,
	LicenseRejected,
	LicenseExpired,
}

// Issuing is reachable from every status: authorities may issue at any step,
// an issued license may be corrected and an expired one renewed.
var licenseTransitions = table[LicenseStatus]{
	LicensePreparing: {
		LicenseSubmitted: {},
		LicenseIssued:    {},
	},
	LicenseSubmitted: {
		LicenseUnderReview: {},
		LicenseIssued:      {},
	},
	LicenseUnderReview: {
		LicenseRejected: {},
		LicenseIssued:   {},
	},
	LicenseRejected: {
		LicensePreparing: {},
		LicenseIssued:    {},
	},
	LicenseIssued: {
		LicenseIssued:  {},
		LicenseExpired: {},
	},
	LicenseExpired: {
		LicenseIssued: {},
	},
}

// IsValid reports whether s is a known license status.
func (s LicenseStatus) IsValid() bool { return licenseTransitions.has(s) }

// AcceptsProcessing reports whether processing steps may still be recorded.
func (s LicenseStatus) AcceptsProcessing() bool {
	return s != LicenseIssued && s != LicenseExpired
}

func (s LicenseStatus) String() string { return string(s) }

// CanTransitionLicense reports whether from -> to is a legal edge.
func CanTransitionLicense(from, to LicenseStatus) bool {
	return licenseTransitions.allows(from, to)
}

// AllowedLicenseTransitions returns the legal targets from s.
func AllowedLicenseTransitions(s LicenseStatus) []LicenseStatus {
	return licenseTransitions.targets(s, AllLicenseStatuses)
}

// CanMoveLicense reports whether from -> to is a legal processing move.
// Issuing and expiry have their own operations.
func CanMoveLicense(from, to LicenseStatus) bool {
	if to == LicenseIssued || to == LicenseExpired {
		return false
	}
	return CanTransitionLicense(from, to)
}

// LicenseProgress is the progress implied by a license status.
func LicenseProgress(status LicenseStatus) int {
	switch status {
	case LicenseSubmitted:
		return 40
	case LicenseUnderReview:
		return 70
	case LicenseIssued, LicenseExpired:
		return 100
	}
	return 10
}

// RecruitmentStatus is the state of a staff recruitment.
type RecruitmentStatus string

const (
	RecruitmentRecruiting    RecruitmentStatus = "RECRUITING"
	RecruitmentInterviewing  RecruitmentStatus = "INTERVIEWING"
	RecruitmentOfferSent     RecruitmentStatus = "OFFER_SENT"
	RecruitmentOfferAccepted RecruitmentStatus = "OFFER_ACCEPTED"
	RecruitmentCompleted     RecruitmentStatus = "COMPLETED"
	RecruitmentCancelled     RecruitmentStatus = "CANCELLED"
)

// AllRecruitmentStatuses lists every recruitment status in lifecycle order.
var AllRecruitmentStatuses = []RecruitmentStatus{
	RecruitmentRecruiting,
	RecruitmentInterviewing,
	RecruitmentOfferSent,
	RecruitmentOfferAccepted,
	RecruitmentCompleted,
	RecruitmentCancelled,
}

// Open statuses keep themselves: a new interview or offer may leave the
// derived status unchanged. Only onboarding leaves OFFER_ACCEPTED backwards.
var recruitmentTransitions = table[RecruitmentStatus]{
	RecruitmentRecruiting: {
		RecruitmentRecruiting:    {},
		RecruitmentInterviewing:  {},
		RecruitmentOfferSent:     {},
		RecruitmentOfferAccepted: {},
		RecruitmentCancelled:     {},
	},
	RecruitmentInterviewing: {
		RecruitmentInterviewing:  {},
		RecruitmentOfferSent:     {},
		RecruitmentOfferAccepted: {},
		RecruitmentCancelled:     {},
	},
	RecruitmentOfferSent: {
		RecruitmentOfferSent:     {},
		RecruitmentOfferAccepted: {},
		RecruitmentCancelled:     {},
	},
	RecruitmentOfferAccepted: {
		RecruitmentInterviewing:  {},
		RecruitmentOfferSent:     {},
		RecruitmentOfferAccepted: {},
		RecruitmentCompleted:     {},
		RecruitmentCancelled:     {},
	},
	RecruitmentCompleted: {},
	RecruitmentCancelled: {},
}

// IsValid reports whether s is a known recruitment status.
func (s RecruitmentStatus) IsValid() bool { return recruitmentTransitions.has(s) }

// IsTerminal reports whether the recruitment no longer accepts candidates.
func (s RecruitmentStatus) IsTerminal() bool {
	return s == RecruitmentCompleted || s == RecruitmentCancelled
}

func (s RecruitmentStatus) String() string { return string(s) }

// CanTransitionRecruitment reports whether from -> to is a legal edge.
func CanTransitionRecruitment(from, to RecruitmentStatus) bool {
	return recruitmentTransitions.allows(from, to)
}

// AllowedRecruitmentTransitions returns the legal targets from s, including
// s itself while the recruitment is open.
func AllowedRecruitmentTransitions(s RecruitmentStatus) []RecruitmentStatus {
	return recruitmentTransitions.targets(s, AllRecruitmentStatuses)
}

// MilestoneStatus is the state of a milestone.
type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "PENDING"
	MilestoneInProgress MilestoneStatus = "IN_PROGRESS"
	MilestoneCompleted  MilestoneStatus = "COMPLETED"
	MilestoneApproved   MilestoneStatus = "APPROVED"
	MilestoneDelayed    MilestoneStatus = "DELAYED"
)

// AllMilestoneStatuses lists every milestone status in lifecycle order.
var AllMilestoneStatuses = []MilestoneStatus{
	MilestonePending,
	MilestoneInProgress,
	MilestoneCompleted,
	MilestoneApproved,
	MilestoneDelayed,
}

// A completed milestone only moves on to approval.
var milestoneTransitions = table[MilestoneStatus]{
	MilestonePending: {
		MilestoneInProgress: {},
		MilestoneCompleted:  {},
		MilestoneDelayed:    {},
	},
	MilestoneInProgress: {
		MilestoneCompleted: {},
		MilestoneDelayed:   {},
	},
	MilestoneDelayed: {
		MilestoneInProgress: {},
		MilestoneCompleted:  {},
	},
	MilestoneCompleted: {MilestoneApproved: {}},
	MilestoneApproved:  {},
}

// IsValid reports whether s is a known milestone status.
func (s MilestoneStatus) IsValid() bool { return milestoneTransitions.has(s) }

// CanDelay reports whether a milestone past its planned date may be marked delayed.
func (s MilestoneStatus) CanDelay() bool {
	return milestoneTransitions.allows(s, MilestoneDelayed)
}

func (s MilestoneStatus) String() string { return string(s) }

// CanTransitionMilestone reports whether from -> to is a legal edge.
func CanTransitionMilestone(from, to MilestoneStatus) bool {
	return milestoneTransitions.allows(from, to)
}

// AllowedMilestoneTransitions returns the legal targets from s.
func AllowedMilestoneTransitions(s MilestoneStatus) []MilestoneStatus {
	return milestoneTransitions.targets(s, AllMilestoneStatuses)
}

// DelayableMilestoneStatuses lists the statuses the overdue sweep may move to DELAYED.
func DelayableMilestoneStatuses() []MilestoneStatus {
	out := make([]MilestoneStatus, 0, 2)
	for _, s := range AllMilestoneStatuses {
		if s.CanDelay() {
			out = append(out, s)
		}
	}
	return out
}

// NextMilestoneStatus returns the status after a progress update. A milestone
// at 100% completes; less puts it in progress. A completed milestone keeps
// its status at 100% and may not lose progress.
func NextMilestoneStatus(current MilestoneStatus, progress int) (MilestoneStatus, bool) {
	next := MilestoneInProgress
	if progress >= 100 {
		next = MilestoneCompleted
	}
	if next == current {
		return next, current == MilestoneCompleted || current == MilestoneInProgress
	}
	return next, CanTransitionMilestone(current, next)
}

// Interview results.
const (
	InterviewPassed  = "PASSED"
	InterviewFailed  = "FAILED"
	InterviewPending = "PENDING"
)
