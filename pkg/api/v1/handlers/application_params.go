package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/services"
)

// CreateApplicationParams is the request body for creating an application
type CreateApplicationParams struct {
	CompanyID           uint                `json:"company_id"`
	JobTitle            string              `json:"job_title"`
	PostingURL          string              `json:"posting_url,omitempty"`
	Description         string              `json:"description,omitempty"`
	WorkLocation        models.WorkLocation `json:"work_location,omitempty"`
	EasyApply           bool                `json:"easy_apply"`
	CoverLetterRequired bool                `json:"cover_letter_required"`
	Hot                 bool                `json:"hot"`
	Tags                []string            `json:"tags,omitempty"`
	AppliedAt           *time.Time          `json:"applied_at,omitempty"`
	InitialState        *models.State       `json:"initial_state,omitempty"`
}

// Validate validates the create application params
func (p CreateApplicationParams) Validate() error {
	if p.CompanyID == 0 {
		return fmt.Errorf("%s", strings.ToLower(ErrMsgCompanyIDRequired))
	}
	if strings.TrimSpace(p.JobTitle) == "" {
		return fmt.Errorf("%s", strings.ToLower(ErrMsgJobTitleRequired))
	}
	if _, err := models.ParseWorkLocation(string(p.WorkLocation)); err != nil {
		return err
	}
	return nil
}

func (p CreateApplicationParams) toService() services.CreateApplicationParams {
	loc, _ := models.ParseWorkLocation(string(p.WorkLocation))
	return services.CreateApplicationParams{
		CompanyID:           p.CompanyID,
		JobTitle:            strings.TrimSpace(p.JobTitle),
		PostingURL:          p.PostingURL,
		Description:         p.Description,
		WorkLocation:        loc,
		EasyApply:           p.EasyApply,
		CoverLetterRequired: p.CoverLetterRequired,
		Hot:                 p.Hot,
		Tags:                p.Tags,
		AppliedAt:           p.AppliedAt,
		InitialState:        p.InitialState,
	}
}

// UpdateApplicationParams is the request body for patching application attributes.
// Nil fields are left untouched.
type UpdateApplicationParams struct {
	CompanyID           *uint                `json:"company_id,omitempty"`
	JobTitle            *string              `json:"job_title,omitempty"`
	PostingURL          *string              `json:"posting_url,omitempty"`
	Description         *string              `json:"description,omitempty"`
	WorkLocation        *models.WorkLocation `json:"work_location,omitempty"`
	EasyApply           *bool                `json:"easy_apply,omitempty"`
	CoverLetterRequired *bool                `json:"cover_letter_required,omitempty"`
	Hot                 *bool                `json:"hot,omitempty"`
	Tags                *[]string            `json:"tags,omitempty"`
	AppliedAt           *time.Time           `json:"applied_at,omitempty"`
}

// Validate validates the update application params
func (p UpdateApplicationParams) Validate() error {
	if p.CompanyID == nil && p.JobTitle == nil && p.PostingURL == nil && p.Description == nil &&
		p.WorkLocation == nil && p.EasyApply == nil && p.CoverLetterRequired == nil &&
		p.Hot == nil && p.Tags == nil && p.AppliedAt == nil {
		return fmt.Errorf("%s", strings.ToLower(ErrMsgEmptyPatch))
	}
	if p.CompanyID != nil && *p.CompanyID == 0 {
		return fmt.Errorf("%s", strings.ToLower(ErrMsgCompanyIDRequired))
	}
	if p.JobTitle != nil && strings.TrimSpace(*p.JobTitle) == "" {
		return fmt.Errorf("%s", strings.ToLower(ErrMsgJobTitleRequired))
	}
	if p.WorkLocation != nil {
		if _, err := models.ParseWorkLocation(string(*p.WorkLocation)); err != nil {
			return err
		}
	}
	return nil
}

func (p UpdateApplicationParams) toService() services.ApplicationPatch {
	patch := services.ApplicationPatch{
		CompanyID:           p.CompanyID,
		JobTitle:            p.JobTitle,
		PostingURL:          p.PostingURL,
		Description:         p.Description,
		EasyApply:           p.EasyApply,
		CoverLetterRequired: p.CoverLetterRequired,
		Hot:                 p.Hot,
		Tags:                p.Tags,
		AppliedAt:           p.AppliedAt,
	}
	if p.WorkLocation != nil {
		loc, _ := models.ParseWorkLocation(string(*p.WorkLocation))
		patch.WorkLocation = &loc
	}
	return patch
}

// MoveApplicationParams is the request body for moving an application
type MoveApplicationParams struct {
	ToState       models.State  `json:"to_state"`
	Note          *string       `json:"note,omitempty"`
	ExpectedState *models.State `json:"expected_state,omitempty"`
}

// Validate validates the move params
func (p MoveApplicationParams) Validate() error {
	if p.ToState == "" {
		return fmt.Errorf("%s", strings.ToLower(ErrMsgToStateRequired))
	}
	return nil
}

// UpdateTransitionParams is the request body for correcting a ledger entry
type UpdateTransitionParams struct {
	TransitionedAt *time.Time `json:"transitioned_at,omitempty"`
	Note           *string    `json:"note,omitempty"`
}

// Validate validates the update transition params
func (p UpdateTransitionParams) Validate() error {
	if p.TransitionedAt == nil && p.Note == nil {
		return fmt.Errorf("%s", strings.ToLower(ErrMsgEmptyPatch))
	}
	return nil
}

// CreateCompanyParams is the request body for creating a company
type CreateCompanyParams struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
}

// Validate validates the create company params
func (p CreateCompanyParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%s", strings.ToLower(ErrMsgCompanyNameRequired))
	}
	return nil
}
