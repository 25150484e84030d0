package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/luxe-salon/internal/catalog"
	"github.com/wolfman30/luxe-salon/internal/confirmation"
	"github.com/wolfman30/luxe-salon/internal/notify"
	"github.com/wolfman30/luxe-salon/internal/observability/metrics"
	"github.com/wolfman30/luxe-salon/internal/payments"
	"github.com/wolfman30/luxe-salon/internal/pricing"
	"github.com/wolfman30/luxe-salon/internal/schedule"
	"github.com/wolfman30/luxe-salon/internal/validation"
	"github.com/wolfman30/luxe-salon/internal/wizard"
	"github.com/wolfman30/luxe-salon/pkg/logging"
)

const archiveTimeout = 10 * time.Second

var tracer = otel.Tracer("luxe.internal.booking")

// ServiceConfig wires the orchestrator. Store, Catalog and Processor are required.
type ServiceConfig struct {
	Store      SessionStore
	Catalog    *catalog.Catalog
	Rules      schedule.Rules
	Salon      catalog.Salon
	Processor  payments.Processor
	Dispatcher notify.ConfirmationDispatcher
	Archive    *confirmation.Archive
	Metrics    *metrics.BookingMetrics
	Logger     *logging.Logger
	Now        func() time.Time
}

// Service applies wizard actions to stored sessions. Mutations on one session
// are serialized; different sessions proceed independently.
type Service struct {
	store      SessionStore
	catalog    *catalog.Catalog
	rules      schedule.Rules
	salon      catalog.Salon
	processor  payments.Processor
	dispatcher notify.ConfirmationDispatcher
	archive    *confirmation.Archive
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
	now        func() time.Time
	locks      sessionLocks
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.Store == nil {
		panic("booking: session store required")
	}
	if cfg.Catalog == nil {
		panic("booking: catalog required")
	}
	if cfg.Processor == nil {
		panic("booking: payment processor required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rules.Location == nil {
		cfg.Rules = schedule.DefaultRules(time.UTC)
	}
	return &Service{
		store:      cfg.Store,
		catalog:    cfg.Catalog,
		rules:      cfg.Rules,
		salon:      cfg.Salon,
		processor:  cfg.Processor,
		dispatcher: cfg.Dispatcher,
		archive:    cfg.Archive,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		now:        cfg.Now,
		locks:      sessionLocks{held: make(map[string]*sessionLock)},
	}
}

// Catalog exposes the services and staff offered.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Rules exposes the booking calendar.
func (s *Service) Rules() schedule.Rules { return s.rules }

// Now is the service clock.
func (s *Service) Now() time.Time { return s.now() }

// Start opens a session on the first step. A positive preselectedServiceID
// seeds the service choice.
func (s *Service) Start(ctx context.Context, preselectedServiceID int) (*Session, error) {
	ctx, span := tracer.Start(ctx, "booking.start")
	defer span.End()

	state := wizard.New()
	if preselectedServiceID > 0 {
		svc, err := s.catalog.Service(preselectedServiceID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		state = wizard.NewWithService(svc)
	}

	now := s.now()
	session := &Session{
		ID:        uuid.NewString(),
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, session); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("luxe.session_id", session.ID))
	s.metrics.ObserveSession("started")
	s.logger.Info("booking session started", "session_id", session.ID, "preselected_service", preselectedServiceID)
	return session, nil
}

// Get returns the current session.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) SelectService(ctx context.Context, id string, serviceID int) (*Session, error) {
	svc, err := s.catalog.Service(serviceID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "select_service", func(st wizard.State) (wizard.State, error) {
		return st.SelectService(svc)
	})
}

func (s *Service) SelectStaff(ctx context.Context, id string, staffID int) (*Session, error) {
	staff, err := s.catalog.StaffMember(staffID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "select_staff", func(st wizard.State) (wizard.State, error) {
		return st.SelectStaff(staff)
	})
}

// SelectSchedule records the day and, when slot is non-empty, the time.
func (s *Service) SelectSchedule(ctx context.Context, id string, date time.Time, slot string) (*Session, error) {
	now := s.now()
	return s.mutate(ctx, id, "select_schedule", func(st wizard.State) (wizard.State, error) {
		return st.SelectSchedule(date, slot, s.rules, now)
	})
}

// SubmitClientInfo validates the contact form and moves on to payment.
func (s *Service) SubmitClientInfo(ctx context.Context, id string, info wizard.ClientInfo) (*Session, error) {
	return s.mutate(ctx, id, "submit_client_info", func(st wizard.State) (wizard.State, error) {
		return st.SubmitClientInfo(info)
	})
}

// Advance moves one step forward. Leaving the payment step goes through
// SubmitPayment instead.
func (s *Service) Advance(ctx context.Context, id string) (*Session, error) {
	return s.mutate(ctx, id, "advance", func(st wizard.State) (wizard.State, error) {
		if st.Step == wizard.StepPayment {
			return st, ErrPaymentRequired
		}
		return st.Advance()
	})
}

func (s *Service) Retreat(ctx context.Context, id string) (*Session, error) {
	return s.mutate(ctx, id, "retreat", func(st wizard.State) (wizard.State, error) {
		return st.Retreat()
	})
}

// Abandon discards the session. There is no resume.
func (s *Service) Abandon(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.ObserveSession("abandoned")
	s.logger.Info("booking session abandoned", "session_id", id)
	return nil
}

// Quote prices the session's current service.
func (s *Service) Quote(ctx context.Context, id string) (pricing.Breakdown, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	return session.State.Quote(), nil
}

// SubmitPayment validates the card, holds the session in Processing while the
// processor runs, then confirms the booking. The confirmation email is sent in
// the background and the export is archived on a best-effort basis.
func (s *Service) SubmitPayment(ctx context.Context, id string, p wizard.Payment) (*Session, error) {
	ctx, span := tracer.Start(ctx, "booking.submit_payment", trace.WithAttributes(attribute.String("luxe.session_id", id)))
	defer span.End()

	pending, err := s.beginPayment(ctx, id, p)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	quote := pending.State.Quote()
	charge := payments.Charge{
		SessionID:  id,
		Amount:     pricing.Round2(quote.Total),
		CardLast4:  last4(pending.State.Booking.Payment.CardNumber),
		NameOnCard: pending.State.Booking.Payment.NameOnCard,
	}
	started := s.now()
	receipt, procErr := s.processor.Process(ctx, charge)
	elapsed := s.now().Sub(started).Seconds()

	session, err := s.finishPayment(context.WithoutCancel(ctx), id, procErr)
	if procErr != nil {
		s.metrics.ObservePayment("failed", elapsed)
		span.RecordError(procErr)
		if err != nil {
			return nil, err
		}
		return nil, procErr
	}
	s.metrics.ObservePayment("approved", elapsed)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	bookingID := session.State.Confirmation.BookingID
	span.SetAttributes(attribute.String("luxe.booking_id", bookingID))
	category := ""
	if svc := session.State.Booking.Service; svc != nil {
		category = string(svc.Category)
	}
	s.metrics.ObserveConfirmed(category)
	s.logger.Info("booking confirmed",
		"session_id", id,
		"booking_id", bookingID,
		"receipt_id", receipt.ID,
		"amount", charge.Amount,
	)

	s.dispatchConfirmation(ctx, session)
	s.archiveConfirmation(ctx, session)
	return session, nil
}

func (s *Service) beginPayment(ctx context.Context, id string, p wizard.Payment) (*Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Processing {
		s.metrics.ObserveRejection("submit_payment", "processing")
		return nil, ErrPaymentInProgress
	}
	next, err := session.State.SubmitPayment(p)
	if err != nil {
		s.metrics.ObserveRejection("submit_payment", rejectionReason(err))
		return nil, err
	}
	session.State = next
	session.Processing = true
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) finishPayment(ctx context.Context, id string, procErr error) (*Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			s.logger.Warn("booking session gone before payment finished", "session_id", id)
		}
		return nil, err
	}
	session.Processing = false
	session.UpdatedAt = s.now()
	if procErr == nil {
		from := session.State.Step
		confirmed, err := session.State.Confirm(session.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("booking: confirm after payment: %w", err)
		}
		session.State = confirmed
		s.metrics.ObserveTransition(stepLabel(from), stepLabel(confirmed.Step))
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) dispatchConfirmation(ctx context.Context, session *Session) {
	if s.dispatcher == nil {
		return
	}
	payload, err := notify.NewConfirmationPayload(session.State)
	if err != nil {
		s.logger.Warn("confirmation payload not built", "session_id", session.ID, "error", err)
		return
	}
	s.dispatcher.Dispatch(ctx, payload)
}

func (s *Service) archiveConfirmation(ctx context.Context, session *Session) {
	if !s.archive.Enabled() {
		s.metrics.ObserveArchive("skipped")
		return
	}
	doc, err := confirmation.Render(session.State, s.salon, s.now())
	if err != nil {
		s.metrics.ObserveArchive("error")
		s.logger.Warn("confirmation render failed", "session_id", session.ID, "error", err)
		return
	}
	archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()
	if _, err := s.archive.Put(archiveCtx, session.State.Confirmation.BookingID, session.State.Confirmation.ConfirmedAt, doc); err != nil {
		s.metrics.ObserveArchive("error")
		s.logger.Warn("confirmation archive failed", "session_id", session.ID, "error", err)
		return
	}
	s.metrics.ObserveArchive("ok")
}

// Export renders the text confirmation of a confirmed session along with its
// attachment filename.
func (s *Service) Export(ctx context.Context, id string) ([]byte, string, error) {
	ctx, span := tracer.Start(ctx, "booking.export")
	defer span.End()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	doc, err := confirmation.Render(session.State, s.salon, s.now())
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	return doc, confirmation.Filename(session.State.Confirmation.BookingID), nil
}

func (s *Service) mutate(ctx context.Context, id, action string, apply func(wizard.State) (wizard.State, error)) (*Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Processing {
		s.metrics.ObserveRejection(action, "processing")
		return nil, ErrPaymentInProgress
	}

	from := session.State.Step
	next, err := apply(session.State)
	if err != nil {
		s.metrics.ObserveRejection(action, rejectionReason(err))
		s.logger.Debug("booking action rejected", "session_id", id, "action", action, "error", err)
		return nil, err
	}
	session.State = next
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	if next.Step != from {
		s.metrics.ObserveTransition(stepLabel(from), stepLabel(next.Step))
	}
	return session, nil
}

func rejectionReason(err error) string {
	switch {
	case validation.Fields(err) != nil && !errors.Is(err, wizard.ErrStepIncomplete):
		return "validation"
	case errors.Is(err, wizard.ErrStepIncomplete):
		return "incomplete"
	case errors.Is(err, wizard.ErrWrongStep), errors.Is(err, ErrPaymentRequired),
		errors.Is(err, wizard.ErrConfirmRequired):
		return "wrong_step"
	case errors.Is(err, wizard.ErrTerminal):
		return "terminal"
	case errors.Is(err, wizard.ErrCannotRetreat):
		return "cannot_retreat"
	default:
		return "schedule"
	}
}

func stepLabel(step wizard.Step) string {
	return strconv.Itoa(int(step))
}

func last4(card string) string {
	if len(card) < 4 {
		return card
	}
	return card[len(card)-4:]
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// sessionLocks hands out one mutex per session id and forgets it once unused.
type sessionLocks struct {
	mu   sync.Mutex
	held map[string]*sessionLock
}

func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.held[id]
	if !ok {
		entry = &sessionLock{}
		l.held[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.held, id)
		}
		l.mu.Unlock()
	}
}
