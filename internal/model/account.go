package model

import (
	"time"

	"github.com/google/uuid"
)

// Role constants. Role is fixed at creation and never changes.
const (
	RolePatient   = "PATIENT"
	RoleClinician = "CLINICIAN"
	RoleAdmin     = "ADMIN"
)

// Patient lifecycle states
const (
	PatientStatePendingVerification = "PENDING_CONTACT_VERIFICATION"
	PatientStateProvisioned         = "PROVISIONED"
	PatientStateActive              = "ACTIVE"
)

// Clinician lifecycle states
const (
	ClinicianStateInvited = "INVITED"
	ClinicianStateActive  = "ACTIVE"
)

// Account represents a patient, clinician, or admin user. The OTP digest
// and expiry are populated only while State is PENDING_CONTACT_VERIFICATION
// and cleared on successful verification.
type Account struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Role          string     `json:"role" db:"role"`
	State         string     `json:"state" db:"state"`
	FirstName     string     `json:"first_name" db:"first_name"`
	LastName      string     `json:"last_name" db:"last_name"`
	Email         string     `json:"email" db:"email"`
	Phone         string     `json:"phone,omitempty" db:"phone"`
	DateOfBirth   string     `json:"date_of_birth,omitempty" db:"date_of_birth"`
	NPI           string     `json:"npi,omitempty" db:"npi"`
	AllowedStates []string   `json:"allowed_states,omitempty" db:"-"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	Profile       JSONMap    `json:"profile,omitempty" db:"-"`
	ProfileJSON   string     `json:"-" db:"profile"`
	OTPDigest     *string    `json:"-" db:"otp_digest"`
	OTPExpiresAt  *time.Time `json:"-" db:"otp_expires_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// AwaitingVerification reports whether the account still holds a live OTP slot.
func (a *Account) AwaitingVerification() bool {
	return a.State == PatientStatePendingVerification
}

// PatientSignupRequest is the payload for POST /patient/signup.
type PatientSignupRequest struct {
	FirstName        string         `json:"firstName" binding:"required"`
	LastName         string         `json:"lastName" binding:"required"`
	DOB              string         `json:"dob" binding:"required"`
	Email            string         `json:"email" binding:"required,email"`
	Phone            string         `json:"phone"`
	Address          *SignupAddress `json:"address" binding:"required"`
	Insurance        *Insurance     `json:"insurance"`
	PreferredContact string         `json:"preferredContact"`
	Consent          bool           `json:"consent"`
}

type SignupAddress struct {
	Address1   string `json:"address1" binding:"required"`
	Address2   string `json:"address2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
}

type Insurance struct {
	HasInsurance bool                 `json:"hasInsurance"`
	Type         string               `json:"type,omitempty"`
	Medicare     *MedicareInsurance   `json:"medicare,omitempty"`
	Medicaid     *MedicaidInsurance   `json:"medicaid,omitempty"`
	Commercial   *CommercialInsurance `json:"commercial,omitempty"`
}

type MedicareInsurance struct {
	Type             string `json:"type"`
	ID               string `json:"id"`
	AdvantageCarrier string `json:"advantageCarrier,omitempty"`
	AdvantagePlan    string `json:"advantagePlanName,omitempty"`
}

type MedicaidInsurance struct {
	State string `json:"state"`
	ID    string `json:"id"`
}

type CommercialInsurance struct {
	Carrier  string `json:"carrier"`
	PlanName string `json:"planName,omitempty"`
	MemberID string `json:"memberId"`
	GroupID  string `json:"groupId,omitempty"`
}

// VerifyRequest is the payload for POST /patient/verify.
type VerifyRequest struct {
	RequestID string `json:"requestId" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

// ResendOTPRequest is the payload for POST /patient/resend-otp.
type ResendOTPRequest struct {
	Contact string `json:"contact" binding:"required"`
}
