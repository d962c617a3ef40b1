package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/catalog"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/forms"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/identity"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/leads"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/observability/metrics"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

var wizardTracer = otel.Tracer("deiw2.wizard")

// Sink receives finished bookings. leads.Service implements it.
type Sink interface {
	Submit(ctx context.Context, req *leads.CreateLeadRequest) (*leads.Lead, error)
}

var errStaleSubmit = errors.New("wizard: stale submission result")

// completeAttempts bounds how often a sink result is written back before
// the error is surfaced.
const completeAttempts = 3

// Service runs wizard sessions on top of a Store.
type Service struct {
	source    catalog.Source
	store     Store
	sink      Sink
	cfg       Config
	sanitizer *forms.Sanitizer
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
	newID     func() string
}

// NewService wires the session service. m may be nil.
func NewService(source catalog.Source, store Store, sink Sink, cfg Config, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if source == nil {
		panic("wizard: catalog source required")
	}
	if store == nil {
		panic("wizard: session store required")
	}
	if sink == nil {
		panic("wizard: submission sink required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		source:    source,
		store:     store,
		sink:      sink,
		cfg:       cfg.withDefaults(),
		sanitizer: forms.NewSanitizer(),
		metrics:   m,
		logger:    logger.Component("wizard"),
		newID:     func() string { return uuid.New().String() },
	}
}

// Open fetches the category tree once and starts a new session on it. The
// caller's identity, when present in ctx, pre-fills the form.
func (s *Service) Open(ctx context.Context, categoryID catalog.ID) (*Wizard, error) {
	root, err := s.source.Tree(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("wizard: load category %s: %w", categoryID, err)
	}

	who, _ := identity.FromContext(ctx)
	w := Restore(s.cfg, State{ID: s.newID()})
	if err := w.Open(root, who); err != nil {
		return nil, err
	}

	st := w.State()
	if err := s.store.Create(ctx, &st); err != nil {
		return nil, err
	}
	s.metrics.ObserveSession("opened")
	s.logger.Info("booking session opened", "session_id", st.ID, "category_id", categoryID)
	return w, nil
}

// Get loads a session.
func (s *Service) Get(ctx context.Context, id string) (*Wizard, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return Restore(s.cfg, *st), nil
}

// Select picks an option in the service step.
func (s *Service) Select(ctx context.Context, id string, index int) (*Wizard, error) {
	return s.mutate(ctx, id, func(w *Wizard) error { return w.Select(index) })
}

// NavigateToBreadcrumb jumps back to an earlier trail entry.
func (s *Service) NavigateToBreadcrumb(ctx context.Context, id string, index int) (*Wizard, error) {
	return s.mutate(ctx, id, func(w *Wizard) error { return w.NavigateToBreadcrumb(index) })
}

// Back moves one step back. When that closes the wizard the session is
// deleted and closed is true.
func (s *Service) Back(ctx context.Context, id string) (w *Wizard, closed bool, err error) {
	w, err = s.mutate(ctx, id, func(w *Wizard) error {
		var err error
		closed, err = w.Back()
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if closed {
		if err := s.discard(ctx, id); err != nil {
			return nil, false, err
		}
	}
	return w, closed, nil
}

// NextMonth pages the calendar forward.
func (s *Service) NextMonth(ctx context.Context, id string) (*Wizard, error) {
	return s.mutate(ctx, id, func(w *Wizard) error { return w.NextMonth() })
}

// PrevMonth pages the calendar back.
func (s *Service) PrevMonth(ctx context.Context, id string) (*Wizard, error) {
	return s.mutate(ctx, id, func(w *Wizard) error { return w.PrevMonth() })
}

// PickDate selects a day.
func (s *Service) PickDate(ctx context.Context, id string, day time.Time) (*Wizard, error) {
	return s.mutate(ctx, id, func(w *Wizard) error { return w.PickDate(day) })
}

// Continue leaves the date step.
func (s *Service) Continue(ctx context.Context, id string) (*Wizard, error) {
	return s.mutate(ctx, id, func(w *Wizard) error { return w.Continue() })
}

// SetValues stores sanitised form input.
func (s *Service) SetValues(ctx context.Context, id string, values map[string]string) (*Wizard, error) {
	clean := s.sanitizer.Values(values)
	return s.mutate(ctx, id, func(w *Wizard) error { return w.SetValues(clean) })
}

// Submit validates the form and hands the booking to the sink. The sink
// call runs outside the session lock; its result is applied only if the
// session is still the one that started it. On sink failure the returned
// wizard is on the form step with LastError set and err wraps
// ErrSubmitFailed.
func (s *Service) Submit(ctx context.Context, id string) (*Wizard, error) {
	ctx, span := wizardTracer.Start(ctx, "wizard.submit",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("booking.session_id", id)),
	)
	defer span.End()

	var (
		req        *leads.CreateLeadRequest
		ticket     Ticket
		validation error
	)
	st, err := s.store.Update(ctx, id, func(st *State) error {
		w := Restore(s.cfg, *st)
		r, t, err := w.BeginSubmit()
		var verr *forms.ValidationError
		if errors.As(err, &verr) {
			validation = err
			*st = w.State()
			return nil
		}
		if err != nil {
			return err
		}
		req, ticket = r, t
		*st = w.State()
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if validation != nil {
		return Restore(s.cfg, *st), validation
	}

	// a closed session must not cancel the sink call
	sinkCtx := context.WithoutCancel(ctx)
	started := time.Now()
	lead, sinkErr := s.sink.Submit(sinkCtx, req)
	elapsed := time.Since(started).Seconds()

	complete := func() (*State, error) {
		return s.store.Update(sinkCtx, id, func(st *State) error {
			w := Restore(s.cfg, *st)
			if !w.CompleteSubmit(ticket, lead, sinkErr) {
				return errStaleSubmit
			}
			*st = w.State()
			return nil
		})
	}
	dropped := func(err error) bool {
		return errors.Is(err, errStaleSubmit) || errors.Is(err, ErrSessionNotFound)
	}
	st, err = complete()
	for attempt := 1; err != nil && !dropped(err) && attempt < completeAttempts; attempt++ {
		// a lost write would leave Submitting set and lock the session
		s.logger.Warn("retrying submission result write", "session_id", id, "attempt", attempt, "error", err)
		st, err = complete()
	}
	if dropped(err) {
		s.metrics.ObserveSubmit("stale", elapsed)
		s.logger.Info("dropping submission result for closed session", "session_id", id, "sink_error", sinkErr)
		return nil, ErrSessionNotFound
	}
	if err != nil {
		s.metrics.ObserveSubmit("unrecorded", elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission result not stored")
		s.logger.Error("submission result could not be stored", "session_id", id, "sink_error", sinkErr, "error", err)
		return nil, err
	}

	w := Restore(s.cfg, *st)
	if sinkErr != nil {
		s.metrics.ObserveSubmit("failure", elapsed)
		span.RecordError(sinkErr)
		span.SetStatus(codes.Error, "sink failed")
		s.logger.Error("booking submission failed", "session_id", id, "error", sinkErr)
		return w, fmt.Errorf("%w: %v", ErrSubmitFailed, sinkErr)
	}

	s.metrics.ObserveSubmit("success", elapsed)
	s.metrics.ObserveTransition(StepSuccess.String())
	span.SetAttributes(attribute.String("lead.id", lead.ID))
	s.logger.Info("booking submitted", "session_id", id, "lead_id", lead.ID, "service_id", req.ServiceID)
	return w, nil
}

// Close ends the session. Closing an unknown session is not an error.
func (s *Service) Close(ctx context.Context, id string) error {
	return s.discard(ctx, id)
}

func (s *Service) discard(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.ObserveSession("closed")
	return nil
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*Wizard) error) (*Wizard, error) {
	var before, after Step
	st, err := s.store.Update(ctx, id, func(st *State) error {
		w := Restore(s.cfg, *st)
		before = w.Step()
		if err := fn(w); err != nil {
			return err
		}
		after = w.Step()
		*st = w.State()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if before != after {
		s.metrics.ObserveTransition(after.String())
	}
	return Restore(s.cfg, *st), nil
}
