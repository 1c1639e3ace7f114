package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eudaura/telehealth-api/internal/model"
)

// All repository interfaces in one file
type (
	// AccountRepository handles account records. Status transitions go
	// through conditional updates so concurrent writers cannot both win.
	AccountRepository interface {
		Create(ctx context.Context, account *model.Account) error
		Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
		GetByContact(ctx context.Context, contact string) (*model.Account, error)
		GetByEmail(ctx context.Context, email string) (*model.Account, error)
		// SetOTP overwrites the stored digest and expiry on an account
		// still awaiting verification.
		SetOTP(ctx context.Context, id uuid.UUID, digest string, expiresAt time.Time) error
		// CompleteVerification clears the OTP fields and advances the
		// account to PROVISIONED, but only while the stored state is
		// still PENDING_CONTACT_VERIFICATION.
		CompleteVerification(ctx context.Context, id uuid.UUID) error
	}

	// ApplicationRepository handles clinician applications.
	ApplicationRepository interface {
		Create(ctx context.Context, app *model.ClinicianApplication) error
		Get(ctx context.Context, id uuid.UUID) (*model.ClinicianApplication, error)
		ListByStatus(ctx context.Context, status string) ([]*model.ClinicianApplication, error)
		// TransitionStatus flips status from `from` to `to` in a single
		// conditional write. It returns InvalidState when the stored
		// status no longer matches `from` (a lost race or a repeat call).
		TransitionStatus(ctx context.Context, id uuid.UUID, from, to, reason string) error
	}

	// AuditRepository is an append-only sink.
	AuditRepository interface {
		Create(ctx context.Context, entry *model.AuditEntry) error
		List(ctx context.Context, limit int) ([]*model.AuditEntry, error)
	}

	// ContentRepository stores admin-editable JSON documents and image
	// metadata.
	ContentRepository interface {
		GetDocument(ctx context.Context, name string) (*model.ContentDocument, error)
		PutDocument(ctx context.Context, doc *model.ContentDocument) error
		ListImages(ctx context.Context) ([]*model.SiteImage, error)
		CreateImage(ctx context.Context, img *model.SiteImage) error
		DeleteImage(ctx context.Context, name string) error
	}
)
