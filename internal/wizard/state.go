// Package wizard is the booking wizard's state machine. State is a plain value:
// every operation returns a new State and never mutates the receiver, so callers
// own exactly one copy and hand it down explicitly.
package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/wolfman30/luxe-salon/internal/catalog"
	"github.com/wolfman30/luxe-salon/internal/pricing"
	"github.com/wolfman30/luxe-salon/internal/schedule"
)

// Step is the wizard position. StepConfirmed is terminal.
type Step int

const (
	StepService Step = iota + 1
	StepSchedule
	StepClientInfo
	StepPayment
	StepConfirmed
)

var stepTitles = map[Step]string{
	StepService:    "Select Service",
	StepSchedule:   "Choose Date & Time",
	StepClientInfo: "Your Information",
	StepPayment:    "Payment",
	StepConfirmed:  "Confirmation",
}

// Title is the label used by the progress indicator.
func (s Step) Title() string {
	if t, ok := stepTitles[s]; ok {
		return t
	}
	return "Step " + strconv.Itoa(int(s))
}

// Valid reports whether s is one of the five wizard steps.
func (s Step) Valid() bool {
	return s >= StepService && s <= StepConfirmed
}

var (
	ErrWrongStep       = errors.New("wizard: action not allowed on the current step")
	ErrStepIncomplete  = errors.New("wizard: current step is incomplete")
	ErrTerminal        = errors.New("wizard: booking is already confirmed")
	ErrCannotRetreat   = errors.New("wizard: cannot go back from this step")
	ErrConfirmRequired = errors.New("wizard: the payment step is left through Confirm")
)

// BookingData accumulates the client's choices. It is filled in step order.
type BookingData struct {
	Service    *catalog.Service `json:"service,omitempty"`
	Staff      *catalog.Staff   `json:"staff,omitempty"`
	Date       *time.Time       `json:"date,omitempty"`
	Time       string           `json:"time"`
	ClientInfo ClientInfo       `json:"clientInfo"`
	Payment    Payment          `json:"payment"`
}

// Confirmation is assigned once, when the booking first reaches StepConfirmed.
type Confirmation struct {
	BookingID   string    `json:"bookingId"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// State is the whole wizard: where the client is and what they entered.
type State struct {
	Step         Step          `json:"step"`
	Booking      BookingData   `json:"booking"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

// New starts a wizard on the first step with nothing chosen.
func New() State {
	return State{
		Step:    StepService,
		Booking: BookingData{Payment: Payment{Method: DefaultPaymentMethod}},
	}
}

// NewWithService starts a wizard with svc already chosen, as when the client
// arrives from the service catalog.
func NewWithService(svc catalog.Service) State {
	s := New()
	s.Booking.Service = &svc
	return s
}

// Terminal reports whether the booking is confirmed.
func (s State) Terminal() bool {
	return s.Step == StepConfirmed
}

func (s State) requireStep(step Step) error {
	if s.Step == StepConfirmed {
		return ErrTerminal
	}
	if s.Step != step {
		return fmt.Errorf("%w: on %q, need %q", ErrWrongStep, s.Step.Title(), step.Title())
	}
	return nil
}

// SelectService records the chosen service. Later steps keep their data even if
// the service changes after a retreat.
func (s State) SelectService(svc catalog.Service) (State, error) {
	if err := s.requireStep(StepService); err != nil {
		return s, err
	}
	s.Booking.Service = &svc
	return s, nil
}

// SelectStaff records the chosen provider.
func (s State) SelectStaff(staff catalog.Staff) (State, error) {
	if err := s.requireStep(StepService); err != nil {
		return s, err
	}
	staff.Specialties = append([]string(nil), staff.Specialties...)
	s.Booking.Staff = &staff
	return s, nil
}

// SelectSchedule records the appointment day and, if given, the slot. The day
// must pass rules as of now; a non-empty slot must be free. An empty slot keeps
// the time picked earlier.
func (s State) SelectSchedule(date time.Time, slot string, rules schedule.Rules, now time.Time) (State, error) {
	if err := s.requireStep(StepSchedule); err != nil {
		return s, err
	}
	if err := rules.CheckDate(date, now); err != nil {
		return s, err
	}
	if slot != "" {
		if err := rules.CheckSlot(slot); err != nil {
			return s, err
		}
	}
	day := rules.Day(date)
	s.Booking.Date = &day
	if slot != "" {
		s.Booking.Time = slot
	}
	return s, nil
}

// SubmitClientInfo validates info and, when every field passes, stores it and
// moves to payment. On failure the state is returned unchanged.
func (s State) SubmitClientInfo(info ClientInfo) (State, error) {
	if err := s.requireStep(StepClientInfo); err != nil {
		return s, err
	}
	info = info.Normalize()
	if err := info.Validate(); err != nil {
		return s, err
	}
	next := s
	next.Booking.ClientInfo = info
	return next.Advance()
}

// SubmitPayment validates and stores the payment details without leaving the
// payment step; the caller advances once processing finishes.
func (s State) SubmitPayment(p Payment) (State, error) {
	if err := s.requireStep(StepPayment); err != nil {
		return s, err
	}
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return s, err
	}
	s.Booking.Payment = p
	return s, nil
}

// CanAdvance reports why the current step cannot be left, or nil.
func (s State) CanAdvance() error {
	switch s.Step {
	case StepService:
		if s.Booking.Service == nil || s.Booking.Staff == nil {
			return fmt.Errorf("%w: choose a service and a stylist", ErrStepIncomplete)
		}
	case StepSchedule:
		if s.Booking.Date == nil || s.Booking.Time == "" {
			return fmt.Errorf("%w: choose a date and a time", ErrStepIncomplete)
		}
	case StepClientInfo:
		if err := s.Booking.ClientInfo.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrStepIncomplete, err)
		}
	case StepPayment:
		if err := s.Booking.Payment.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrStepIncomplete, err)
		}
	case StepConfirmed:
		return ErrTerminal
	default:
		return fmt.Errorf("wizard: invalid step %d", s.Step)
	}
	return nil
}

// Advance moves exactly one step forward. When the current step is incomplete
// the same state comes back with the reason. The payment step only ends through
// Confirm, so a confirmed state always carries a booking id.
func (s State) Advance() (State, error) {
	if err := s.CanAdvance(); err != nil {
		return s, err
	}
	if s.Step == StepPayment {
		return s, ErrConfirmRequired
	}
	s.Step++
	return s, nil
}

// Retreat moves exactly one step back from steps 2-4. Entered data is kept.
func (s State) Retreat() (State, error) {
	if s.Step <= StepService || s.Step >= StepConfirmed {
		return s, ErrCannotRetreat
	}
	s.Step--
	return s, nil
}

// EnsureConfirmation assigns the booking id the first time a confirmed state is
// seen. It reports whether an id was generated by this call.
func (s State) EnsureConfirmation(now time.Time) (State, bool) {
	if s.Step != StepConfirmed || s.Confirmation != nil {
		return s, false
	}
	s.Confirmation = &Confirmation{
		BookingID:   NewBookingID(now),
		ConfirmedAt: now,
	}
	return s, true
}

// Confirm leaves the payment step and assigns the booking id. The stored payment
// must still pass validation.
func (s State) Confirm(now time.Time) (State, error) {
	if err := s.requireStep(StepPayment); err != nil {
		return s, err
	}
	if err := s.CanAdvance(); err != nil {
		return s, err
	}
	next := s
	next.Step = StepConfirmed
	next, _ = next.EnsureConfirmation(now)
	return next, nil
}

// NewBookingID builds the "LX<epoch millis>" reference shown to the client.
func NewBookingID(now time.Time) string {
	return "LX" + strconv.FormatInt(now.UnixMilli(), 10)
}

// Quote prices the selected service. Without one the quote is zero.
func (s State) Quote() pricing.Breakdown {
	if s.Booking.Service == nil {
		return pricing.Breakdown{}
	}
	return pricing.Quote(s.Booking.Service.Price)
}

// ProgressStep is one entry of the four-step progress indicator.
type ProgressStep struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

// Progress lists the editable steps with their completion flags.
func (s State) Progress() []ProgressStep {
	out := make([]ProgressStep, 0, int(StepPayment))
	for step := StepService; step <= StepPayment; step++ {
		out = append(out, ProgressStep{
			Number:    int(step),
			Title:     step.Title(),
			Completed: s.Step > step,
			Current:   s.Step == step,
		})
	}
	return out
}
