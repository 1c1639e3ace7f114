package notification

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/eudaura/telehealth-api/internal/email"
	"github.com/eudaura/telehealth-api/pkg/metrics"
)

// Message kinds, used as log/metric labels.
const (
	KindOTP        = "otp"
	KindAdminAlert = "admin_alert"
	KindApproval   = "approval"
	KindDenial     = "denial"
	KindContact    = "contact"
)

// Dispatcher sends email fire-and-forget. Failures are logged and counted
// but never join back into the caller's result.
type Dispatcher struct {
	emailSvc email.Service
	metrics  *metrics.Metrics
}

func NewDispatcher(emailSvc email.Service, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{emailSvc: emailSvc, metrics: m}
}

// Dispatch hands the message to the sender on its own goroutine. The kind
// label identifies the message class for logs and metrics.
func (d *Dispatcher) Dispatch(kind string, msg *email.Message) {
	if d.metrics != nil {
		d.metrics.EmailsDispatched.WithLabelValues(kind).Inc()
	}

	go func() {
		if err := d.emailSvc.Send(context.Background(), msg); err != nil {
			if d.metrics != nil {
				d.metrics.EmailsFailed.WithLabelValues(kind).Inc()
			}
			log.Error().Err(err).
				Str("kind", kind).
				Str("to", msg.To).
				Msg("failed to send notification email")
			return
		}

		log.Info().Str("kind", kind).Str("to", msg.To).Msg("notification email sent")
	}()
}
