// Package authz maps caller roles to the permissions each API operation requires.
// The mapping is loaded from a YAML file; without one the built-in policy applies.
package authz

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Permission names checked by the route guards.
const (
	ProjectsRead      = "projects.read"
	ProjectsWrite     = "projects.write"
	ProjectsStatus    = "projects.status"
	ProjectsBatch     = "projects.batch"
	TrackersRead      = "trackers.read"
	TrackersWrite     = "trackers.write"
	MilestonesApprove = "milestones.approve"
	DashboardRead     = "dashboard.read"
)

// Wildcard grants every permission.
const Wildcard = "*"

var knownPermissions = map[string]struct{}{
	ProjectsRead:      {},
	ProjectsWrite:     {},
	ProjectsStatus:    {},
	ProjectsBatch:     {},
	TrackersRead:      {},
	TrackersWrite:     {},
	MilestonesApprove: {},
	DashboardRead:     {},
	Wildcard:          {},
}

// Policy is an immutable role to permission table.
type Policy struct {
	roles map[string]map[string]struct{}
}

type policyFile struct {
	Roles map[string][]string `yaml:"roles"`
}

const defaultPolicy = `
roles:
  admin: ["*"]
  regional_manager:
    - projects.read
    - projects.write
    - projects.status
    - projects.batch
    - trackers.read
    - trackers.write
    - milestones.approve
    - dashboard.read
  project_manager:
    - projects.read
    - projects.write
    - projects.status
    - trackers.read
    - trackers.write
    - dashboard.read
  viewer:
    - projects.read
    - trackers.read
    - dashboard.read
`

// Default returns the built-in policy.
func Default() *Policy {
	policy, err := Parse([]byte(defaultPolicy))
	if err != nil {
		panic(fmt.Sprintf("authz: built-in policy is invalid: %v", err))
	}
	return policy
}

// Load reads a policy from path. An empty path yields the built-in policy.
func Load(path string) (*Policy, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read permission policy: %w", err)
	}
	return Parse(data)
}

// Parse builds a policy from YAML. Unknown permission names are rejected so
// that typos fail at startup rather than silently denying access.
func Parse(data []byte) (*Policy, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse permission policy: %w", err)
	}
	if len(file.Roles) == 0 {
		return nil, fmt.Errorf("parse permission policy: no roles defined")
	}

	roles := make(map[string]map[string]struct{}, len(file.Roles))
	for role, perms := range file.Roles {
		set := make(map[string]struct{}, len(perms))
		for _, perm := range perms {
			perm = strings.TrimSpace(perm)
			if _, ok := knownPermissions[perm]; !ok {
				return nil, fmt.Errorf("parse permission policy: role %q has unknown permission %q", role, perm)
			}
			set[perm] = struct{}{}
		}
		roles[strings.ToLower(strings.TrimSpace(role))] = set
	}
	return &Policy{roles: roles}, nil
}

// Allowed reports whether any of roles grants permission.
func (p *Policy) Allowed(roles []string, permission string) bool {
	for _, role := range roles {
		perms, ok := p.roles[strings.ToLower(role)]
		if !ok {
			continue
		}
		if _, ok := perms[Wildcard]; ok {
			return true
		}
		if _, ok := perms[permission]; ok {
			return true
		}
	}
	return false
}
