package model

import (
	"time"

	"github.com/google/uuid"
)

// Application status lifecycle: SUBMITTED is the only non-terminal state.
const (
	ApplicationStatusSubmitted = "SUBMITTED"
	ApplicationStatusApproved  = "APPROVED"
	ApplicationStatusDenied    = "DENIED"
)

// ClinicianApplication captures a clinician's request to join the network.
// It stays separate from Account until an admin approves it; the record is
// mutated exactly once (status flip) and never deleted.
type ClinicianApplication struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	Status        string        `json:"status" db:"status"`
	FullName      string        `json:"full_name" db:"full_name"`
	Email         string        `json:"email" db:"email"`
	Phone         string        `json:"phone" db:"phone"`
	NPI           string        `json:"npi" db:"npi"`
	Licenses      []License     `json:"licenses" db:"-"`
	LicensesJSON  string        `json:"-" db:"licenses"`
	Documents     *DocumentRefs `json:"documents,omitempty" db:"-"`
	DocumentsJSON string        `json:"-" db:"documents"`
	Specialties   []string      `json:"specialties" db:"-"`
	Flags         *Flags        `json:"flags,omitempty" db:"-"`
	FlagsJSON     string        `json:"-" db:"flags"`
	DenialReason  string        `json:"denial_reason,omitempty" db:"denial_reason"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// AllowedStates derives the practice states from the submitted licenses.
func (a *ClinicianApplication) AllowedStates() []string {
	seen := make(map[string]bool, len(a.Licenses))
	states := make([]string, 0, len(a.Licenses))
	for _, lic := range a.Licenses {
		if lic.State == "" || seen[lic.State] {
			continue
		}
		seen[lic.State] = true
		states = append(states, lic.State)
	}
	return states
}

// License is a single state medical license on an application.
type License struct {
	State          string `json:"state" validate:"required"`
	LicenseNumber  string `json:"licenseNumber" validate:"required"`
	ExpirationDate string `json:"expirationDate"`
	DocKey         string `json:"docKey,omitempty"`
}

// DocumentRefs holds blob-store keys, never blob contents.
type DocumentRefs struct {
	MalpracticeKey string   `json:"malpracticeKey,omitempty"`
	DEAKey         string   `json:"deaKey,omitempty"`
	Extras         []string `json:"extras,omitempty"`
}

type DEARegistration struct {
	Number string `json:"number"`
	State  string `json:"state"`
}

type Flags struct {
	PECOSEnrolled bool             `json:"pecosEnrolled"`
	DEA           *DEARegistration `json:"dea,omitempty"`
	Modalities    []string         `json:"modalities,omitempty"`
}

// SubmitApplicationRequest is the payload for POST /clinician/apply.
type SubmitApplicationRequest struct {
	FullName    string        `json:"fullName" validate:"required"`
	Email       string        `json:"email" validate:"required,email"`
	Phone       string        `json:"phone" validate:"required"`
	NPI         string        `json:"npi" validate:"required"`
	Licenses    []License     `json:"licenses" validate:"required,min=1,dive"`
	Specialties []string      `json:"specialties" validate:"required,min=1"`
	Documents   *DocumentRefs `json:"documents"`
	Flags       *Flags        `json:"flags"`
	Consent     bool          `json:"consent"`
}

// DenyApplicationRequest is the payload for POST /admin/clinician/:id/deny.
type DenyApplicationRequest struct {
	Reason string `json:"reason"`
}

// ReviewResult is returned by a successful approval.
type ReviewResult struct {
	AccountID     uuid.UUID `json:"accountId"`
	AllowedStates []string  `json:"allowedStates"`
}
