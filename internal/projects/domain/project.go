package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"store_opening_backend/internal/shared/calendar"
)

// Priority values.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// Store type values.
const (
	StoreTypeFlagship  = "FLAGSHIP"
	StoreTypeStandard  = "STANDARD"
	StoreTypeCommunity = "COMMUNITY"
	StoreTypeExpress   = "EXPRESS"
)

// Store plan statuses that allow new preparation projects.
const (
	StorePlanApproved  = "APPROVED"
	StorePlanExecuting = "EXECUTING"
)

// StoreStatusActive is the status of a store created by a completed project.
const StoreStatusActive = "active"

// ProjectCodePrefix starts every generated project code.
const ProjectCodePrefix = "PP"

// ProjectCodePattern matches codes produced by FormatProjectCode.
var ProjectCodePattern = regexp.MustCompile(`^PP-\d{4}-[A-Z0-9]+-\d{4,}$`)

var nonCodeChars = regexp.MustCompile(`[^A-Z0-9]`)

// IsApprovedPlanStatus reports whether a store plan in status may host projects.
func IsApprovedPlanStatus(status string) bool {
	switch strings.ToUpper(status) {
	case StorePlanApproved, StorePlanExecuting:
		return true
	}
	return false
}

// FormatProjectCode renders PP-<year>-<REGION>-<seq>. The region token keeps
// only upper-case letters and digits.
func FormatProjectCode(year int, regionCode string, seq int) string {
	return fmt.Sprintf("%s-%d-%s-%04d", ProjectCodePrefix, year, RegionToken(regionCode), seq)
}

// RegionToken normalizes a region code the same way FormatProjectCode does.
func RegionToken(regionCode string) string {
	token := nonCodeChars.ReplaceAllString(strings.ToUpper(regionCode), "")
	if token == "" {
		return "XX"
	}
	return token
}

// AppendAuditNote adds a status-change line to the existing notes. Earlier
// lines are never rewritten.
func AppendAuditNote(notes string, at time.Time, to Status, reason, comments string) string {
	line := fmt.Sprintf("[%s] status changed to %s", at.UTC().Format("2006-01-02 15:04:05"), to)
	if reason = strings.TrimSpace(reason); reason != "" {
		line += ": " + reason
	}
	if comments = strings.TrimSpace(comments); comments != "" {
		line += " (" + comments + ")"
	}
	if strings.TrimSpace(notes) == "" {
		return line
	}
	return strings.TrimRight(notes, "\n") + "\n" + line
}

// IsOverdue reports whether a project in status with the given expected open
// date is past due at now. The comparison is by calendar day, so a project
// due today is not overdue yet. Terminal projects are never overdue.
func IsOverdue(status Status, expectedOpenDate *time.Time, now time.Time) bool {
	if status.IsTerminal() || expectedOpenDate == nil {
		return false
	}
	return calendar.IsBeforeDay(*expectedOpenDate, now)
}
