package model

import (
	"encoding/json"
	"time"
)

// Content document names. Each is stored as a single versioned JSON document.
const (
	ContentDocSite     = "site"
	ContentDocMappings = "section-mappings"
)

// ContentDocument is an opaque JSON document edited through the admin panel.
// The service never interprets the body beyond checking it is valid JSON.
type ContentDocument struct {
	Name      string          `json:"name" db:"name"`
	Body      json.RawMessage `json:"body" db:"body"`
	UpdatedBy string          `json:"updated_by" db:"updated_by"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// SiteImage is metadata for an image uploaded through the admin panel.
// Bytes live in the blob store; only the key and attributes are recorded.
type SiteImage struct {
	Name       string    `json:"name" db:"name"`
	Key        string    `json:"key" db:"key"`
	URL        string    `json:"url" db:"url"`
	SizeBytes  int64     `json:"size" db:"size_bytes"`
	UploadedAt time.Time `json:"last_modified" db:"uploaded_at"`
}

// RegisterImageRequest records an image after its presigned upload completes.
type RegisterImageRequest struct {
	Name      string `json:"name" binding:"required"`
	Key       string `json:"key" binding:"required"`
	SizeBytes int64  `json:"size" binding:"required"`
}

// ContactRequest is the payload for POST /contact.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Role    string `json:"role" binding:"required,oneof=patient clinician other"`
	Message string `json:"message" binding:"required"`
}

// PresignRequest asks for a time-limited upload authorization.
type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	SizeBytes   int64  `json:"size"`
}

// PresignResponse carries the signed URL and the chosen object key.
type PresignResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the signed session token for the admin panel.
type TokenResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
