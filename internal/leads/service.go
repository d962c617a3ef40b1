package leads

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/observability/metrics"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

var leadsTracer = otel.Tracer("deiw2.leads")

// Notifier tells operators about a new lead.
type Notifier interface {
	NotifyNewLead(ctx context.Context, lead *Lead) error
}

// Service is the submission sink: it stores or forwards a lead and then
// notifies operators.
type Service struct {
	creator       Creator
	notifier      Notifier
	metrics       *metrics.LeadMetrics
	logger        *logging.Logger
	notifyTimeout time.Duration
}

// NewService builds the sink. notifier and m may be nil.
func NewService(creator Creator, notifier Notifier, m *metrics.LeadMetrics, logger *logging.Logger) *Service {
	if creator == nil {
		panic("leads: creator required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		creator:       creator,
		notifier:      notifier,
		metrics:       m,
		logger:        logger,
		notifyTimeout: 10 * time.Second,
	}
}

// Submit normalizes, validates and persists the request. Notification
// failures are logged and never fail the submit.
func (s *Service) Submit(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	ctx, span := leadsTracer.Start(ctx, "leads.submit")
	defer span.End()

	req.Normalize()
	span.SetAttributes(
		attribute.String("lead.source", req.Source),
		attribute.String("lead.service_id", req.ServiceID),
	)
	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	lead, err := s.creator.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, fmt.Errorf("leads: submit: %w", err)
	}
	span.SetAttributes(attribute.String("lead.id", lead.ID))
	s.metrics.ObserveCreated(lead.Source, lead.Status)
	s.logger.Info("lead created", "id", lead.ID, "source", lead.Source, "service_id", lead.ServiceID)

	s.notify(ctx, lead)
	return lead, nil
}

func (s *Service) notify(ctx context.Context, lead *Lead) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyNewLead(ctx, lead); err != nil {
		s.metrics.ObserveNotification("failed")
		s.logger.Warn("lead notification failed", "id", lead.ID, "error", err)
		return
	}
	s.metrics.ObserveNotification("sent")
}
