package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Application table field names
const (
	// ApplicationIDField is the primary key column
	ApplicationIDField = "id"
	// ApplicationOwnerIDField is the owner column
	ApplicationOwnerIDField = "owner_id"
	// ApplicationCurrentStateField is the cached state column
	ApplicationCurrentStateField = "current_state"
	// ApplicationVersionField is the optimistic concurrency column
	ApplicationVersionField = "version"
	// ApplicationAppliedAtField is the applied date column
	ApplicationAppliedAtField = "applied_at"
	// ApplicationHotField is the hot flag column
	ApplicationHotField = "hot"
	// ApplicationHotDateField is the hot timestamp column
	ApplicationHotDateField = "hot_date"
)

// WorkLocation is the work arrangement of a posting
type WorkLocation string

// Work location constants
const (
	WorkLocationUnset    WorkLocation = ""
	WorkLocationRemote   WorkLocation = "REMOTE"
	WorkLocationOnsite   WorkLocation = "ONSITE"
	WorkLocationHybrid   WorkLocation = "HYBRID"
	WorkLocationContract WorkLocation = "CONTRACT"
)

// ParseWorkLocation converts a string to a WorkLocation. An empty string is the unset value.
func ParseWorkLocation(str string) (WorkLocation, error) {
	switch loc := WorkLocation(strings.ToUpper(strings.TrimSpace(str))); loc {
	case WorkLocationUnset, WorkLocationRemote, WorkLocationOnsite, WorkLocationHybrid, WorkLocationContract:
		return loc, nil
	default:
		return WorkLocationUnset, fmt.Errorf("invalid work location: %q", str)
	}
}

// Application is a tracked job application. CurrentState is a cached
// projection of the last ledger entry and is only written by moves.
type Application struct {
	ID                  uint         `json:"id" gorm:"primaryKey"`
	OwnerID             string       `json:"owner_id" gorm:"not null;index"`
	CompanyID           uint         `json:"company_id" gorm:"not null;index"`
	Company             *Company     `json:"company,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	JobTitle            string       `json:"job_title" gorm:"not null"`
	PostingURL          string       `json:"posting_url,omitempty" gorm:"type:text"`
	Description         string       `json:"description,omitempty" gorm:"type:text"`
	WorkLocation        WorkLocation `json:"work_location,omitempty"`
	EasyApply           bool         `json:"easy_apply" gorm:"not null;default:false"`
	CoverLetterRequired bool         `json:"cover_letter_required" gorm:"not null;default:false"`
	Hot                 bool         `json:"hot" gorm:"not null;default:false;index"`
	HotDate             *time.Time   `json:"hot_date,omitempty"`
	Tags                []string     `json:"tags" gorm:"serializer:json"`
	AppliedAt           *time.Time   `json:"applied_at,omitempty" gorm:"index"`
	CurrentState        State        `json:"current_state" gorm:"not null;index"`
	Version             uint         `json:"version" gorm:"not null;default:1"`
	Transitions         []Transition `json:"transitions,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// CompanyName returns the preloaded company name, or an empty string
func (a *Application) CompanyName() string {
	if a.Company == nil {
		return ""
	}
	return a.Company.Name
}

// Validate ensures that the application data is valid
func (a *Application) Validate() error {
	if err := ValidateOwnerID(a.OwnerID); err != nil {
		return err
	}
	if strings.TrimSpace(a.JobTitle) == "" {
		return fmt.Errorf("job title cannot be empty")
	}
	if a.CompanyID == 0 {
		return fmt.Errorf("company id is required")
	}
	if !a.CurrentState.Valid() {
		return fmt.Errorf("invalid state: %q", a.CurrentState)
	}
	if _, err := ParseWorkLocation(string(a.WorkLocation)); err != nil {
		return err
	}
	return nil
}

// NormalizeTags trims, drops empties and deduplicates tags, returning them sorted
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
