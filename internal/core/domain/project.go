package domain

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectArchived  ProjectStatus = "archived"
	ProjectCompleted ProjectStatus = "completed"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectArchived, ProjectCompleted:
		return true
	}
	return false
}

// Project groups tasks and the users allowed to work on them.
// CreatedBy is always present in Members.
type Project struct {
	ID          string
	Title       string
	Description string
	Members     []string
	CreatedBy   string
	Status      ProjectStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCreator reports whether userID created the project.
func (p *Project) IsCreator(userID string) bool {
	return userID != "" && p.CreatedBy == userID
}

// HasMember reports whether userID is listed in Members.
func (p *Project) HasMember(userID string) bool {
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// MissingMembers returns the ids from candidates that are not yet members,
// de-duplicated and in their original order.
func (p *Project) MissingMembers(candidates []string) []string {
	var out []string
	for _, id := range dedupe(candidates) {
		if !p.HasMember(id) {
			out = append(out, id)
		}
	}
	return out
}

// NormalizeMembers returns ids de-duplicated with the creator guaranteed to be
// present. Empty ids are dropped.
func NormalizeMembers(creatorID string, ids []string) []string {
	return dedupe(append([]string{creatorID}, ids...))
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
