package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is an append-only record of a state-changing action. Entries
// are never updated or deleted.
type AuditEntry struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ActorID    string          `json:"actor_id" db:"actor_id"`
	ActorRole  string          `json:"actor_role" db:"actor_role"`
	Action     string          `json:"action" db:"action"`
	TargetType string          `json:"target_type" db:"target_type"`
	Metadata   json.RawMessage `json:"metadata" db:"metadata"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

const (
	// Action tags
	AuditActionPatientSignup        = "PATIENT_SIGNUP"
	AuditActionPatientVerified      = "PATIENT_VERIFIED"
	AuditActionApplicationSubmitted = "CLINICIAN_APPLICATION_SUBMITTED"
	AuditActionApplicationApproved  = "CLINICIAN_APPLICATION_APPROVED"
	AuditActionApplicationDenied    = "CLINICIAN_APPLICATION_DENIED"
	AuditActionContentUpdated       = "CONTENT_UPDATED"
	AuditActionImageUploaded        = "IMAGE_UPLOADED"
	AuditActionAdminLogin           = "ADMIN_LOGIN"

	// Target entity types
	AuditTargetUser         = "USER"
	AuditTargetClinicianApp = "CLINICIAN_APP"
	AuditTargetContent      = "CONTENT"
	AuditTargetImage        = "IMAGE"

	// Actor identities for unauthenticated automated actions
	AuditActorSystem = "SYSTEM"
	AuditActorAdmin  = "ADMIN"
)
