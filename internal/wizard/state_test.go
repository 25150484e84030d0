package wizard

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/luxe-salon/internal/catalog"
	"github.com/wolfman30/luxe-salon/internal/schedule"
	"github.com/wolfman30/luxe-salon/internal/validation"
)

var (
	cutAndStyle = catalog.Service{ID: 1, Name: "Precision Cut & Style", Price: "$85-120", Duration: "90 min"}
	isabella    = catalog.Staff{ID: 1, Name: "Isabella Martinez", Role: "Master Stylist", Specialties: []string{"Hair Cutting"}, Rating: 4.9}
	jane        = ClientInfo{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "+15551234567"}
	janesCard   = Payment{NameOnCard: "Jane Doe", CardNumber: "4111111111111111", ExpiryDate: "12/27", CVV: "123"}
)

func testRules(t *testing.T) (schedule.Rules, time.Time) {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// Friday 10:00.
	return schedule.DefaultRules(loc), time.Date(2026, 10, 16, 10, 0, 0, 0, loc)
}

func must(t *testing.T) func(State, error) State {
	t.Helper()
	return func(s State, err error) State {
		t.Helper()
		require.NoError(t, err)
		return s
	}
}

func TestNewStartsOnFirstStep(t *testing.T) {
	s := New()
	assert.Equal(t, StepService, s.Step)
	assert.Nil(t, s.Booking.Service)
	assert.Nil(t, s.Booking.Staff)
	assert.Equal(t, DefaultPaymentMethod, s.Booking.Payment.Method)
	assert.False(t, s.Terminal())
}

func TestNewWithServicePreselects(t *testing.T) {
	s := NewWithService(cutAndStyle)
	require.NotNil(t, s.Booking.Service)
	assert.Equal(t, 1, s.Booking.Service.ID)
	assert.Equal(t, StepService, s.Step)
}

func TestAdvanceWithoutSelectionIsNoOp(t *testing.T) {
	start := New()

	next, err := start.Advance()
	assert.ErrorIs(t, err, ErrStepIncomplete)
	if diff := cmp.Diff(start, next); diff != "" {
		t.Fatalf("state changed on rejected advance (-want +got):\n%s", diff)
	}

	withService := must(t)(start.SelectService(cutAndStyle))
	next, err = withService.Advance()
	assert.ErrorIs(t, err, ErrStepIncomplete)
	assert.Equal(t, StepService, next.Step)
}

func TestAdvanceAfterSelectionReachesSchedule(t *testing.T) {
	s := must(t)(New().SelectService(cutAndStyle))
	s = must(t)(s.SelectStaff(isabella))

	s = must(t)(s.Advance())
	assert.Equal(t, StepSchedule, s.Step)
}

func TestRetreatKeepsSelections(t *testing.T) {
	s := must(t)(New().SelectService(cutAndStyle))
	s = must(t)(s.SelectStaff(isabella))
	s = must(t)(s.Advance())

	back := must(t)(s.Retreat())
	assert.Equal(t, StepService, back.Step)
	require.NotNil(t, back.Booking.Service)
	require.NotNil(t, back.Booking.Staff)
	assert.Equal(t, "Isabella Martinez", back.Booking.Staff.Name)
}

func TestRetreatBounds(t *testing.T) {
	_, err := New().Retreat()
	assert.ErrorIs(t, err, ErrCannotRetreat)

	confirmed := State{Step: StepConfirmed}
	_, err = confirmed.Retreat()
	assert.ErrorIs(t, err, ErrCannotRetreat)
}

func TestOperationsAreImmutable(t *testing.T) {
	s := New()
	_, err := s.SelectService(cutAndStyle)
	require.NoError(t, err)
	assert.Nil(t, s.Booking.Service, "receiver must not change")
}

func TestWritesOnlyOnCurrentStep(t *testing.T) {
	rules, now := testRules(t)

	_, err := New().SelectSchedule(now, "9:00 AM", rules, now)
	assert.ErrorIs(t, err, ErrWrongStep)

	_, err = New().SubmitClientInfo(jane)
	assert.ErrorIs(t, err, ErrWrongStep)

	_, err = New().SubmitPayment(janesCard)
	assert.ErrorIs(t, err, ErrWrongStep)

	_, err = State{Step: StepConfirmed}.SelectService(cutAndStyle)
	assert.ErrorIs(t, err, ErrTerminal)
}

func atSchedule(t *testing.T) State {
	t.Helper()
	s := must(t)(NewWithService(cutAndStyle).SelectStaff(isabella))
	return must(t)(s.Advance())
}

func TestScheduleStepGuards(t *testing.T) {
	rules, now := testRules(t)
	s := atSchedule(t)

	sunday := time.Date(2026, 10, 18, 0, 0, 0, 0, rules.Location)
	_, err := s.SelectSchedule(sunday, "9:00 AM", rules, now)
	assert.ErrorIs(t, err, schedule.ErrClosedDay)

	yesterday := now.AddDate(0, 0, -1)
	_, err = s.SelectSchedule(yesterday, "9:00 AM", rules, now)
	assert.ErrorIs(t, err, schedule.ErrPastDate)

	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, rules.Location)
	_, err = s.SelectSchedule(monday, "10:00 AM", rules, now)
	assert.ErrorIs(t, err, schedule.ErrSlotBooked)

	dateOnly := must(t)(s.SelectSchedule(monday, "", rules, now))
	_, err = dateOnly.Advance()
	assert.ErrorIs(t, err, ErrStepIncomplete)

	picked := must(t)(s.SelectSchedule(monday, "9:00 AM", rules, now))
	picked = must(t)(picked.Advance())
	assert.Equal(t, StepClientInfo, picked.Step)
	assert.Equal(t, "9:00 AM", picked.Booking.Time)
	assert.Equal(t, 19, picked.Booking.Date.Day())
}

func TestSelectScheduleDateOnlyKeepsPickedTime(t *testing.T) {
	rules, now := testRules(t)
	s := atSchedule(t)

	s = must(t)(s.SelectSchedule(time.Date(2026, 10, 19, 0, 0, 0, 0, rules.Location), "9:00 AM", rules, now))
	s = must(t)(s.SelectSchedule(time.Date(2026, 10, 20, 0, 0, 0, 0, rules.Location), "", rules, now))

	require.NotNil(t, s.Booking.Date)
	assert.Equal(t, 20, s.Booking.Date.Day())
	assert.Equal(t, "9:00 AM", s.Booking.Time)
	next := must(t)(s.Advance())
	assert.Equal(t, StepClientInfo, next.Step)
}

func TestSubmitClientInfoValidates(t *testing.T) {
	rules, now := testRules(t)
	s := atSchedule(t)
	s = must(t)(s.SelectSchedule(time.Date(2026, 10, 19, 0, 0, 0, 0, rules.Location), "9:00 AM", rules, now))
	s = must(t)(s.Advance())

	bad := ClientInfo{FirstName: "J", LastName: "Doe", Email: "jane", Phone: "0123"}
	next, err := s.SubmitClientInfo(bad)
	require.Error(t, err)
	assert.Equal(t, StepClientInfo, next.Step)
	fields := validation.Fields(err)
	require.Len(t, fields, 3)
	assert.Equal(t, "firstName", fields[0].Field)
	assert.Equal(t, "email", fields[1].Field)
	assert.Equal(t, "phone", fields[2].Field)

	next = must(t)(s.SubmitClientInfo(jane))
	assert.Equal(t, StepPayment, next.Step)
	assert.Equal(t, "Jane Doe", next.Booking.ClientInfo.FullName())
}

func atPayment(t *testing.T) State {
	t.Helper()
	rules, now := testRules(t)
	s := atSchedule(t)
	s = must(t)(s.SelectSchedule(time.Date(2026, 10, 19, 0, 0, 0, 0, rules.Location), "9:00 AM", rules, now))
	s = must(t)(s.Advance())
	return must(t)(s.SubmitClientInfo(jane))
}

func TestSubmitPaymentNormalizesAndStays(t *testing.T) {
	s := atPayment(t)

	formatted := Payment{NameOnCard: " Jane Doe ", CardNumber: "4111 1111 1111 1111", ExpiryDate: "1227", CVV: "123"}
	s = must(t)(s.SubmitPayment(formatted))
	assert.Equal(t, StepPayment, s.Step)
	assert.Equal(t, "4111111111111111", s.Booking.Payment.CardNumber)
	assert.Equal(t, "12/27", s.Booking.Payment.ExpiryDate)
	assert.Equal(t, "Jane Doe", s.Booking.Payment.NameOnCard)
	assert.Equal(t, "card", s.Booking.Payment.Method)

	_, err := s.SubmitPayment(Payment{NameOnCard: "Jane Doe", CardNumber: "4111", ExpiryDate: "13/27", CVV: "1"})
	assert.Len(t, validation.Fields(err), 3)
}

func TestAdvanceFromPaymentNeedsValidPayment(t *testing.T) {
	s := atPayment(t)

	_, err := s.Advance()
	assert.ErrorIs(t, err, ErrStepIncomplete)
	assert.NotEmpty(t, validation.Fields(err))

	s = must(t)(s.SubmitPayment(janesCard))
	next, err := s.Advance()
	assert.ErrorIs(t, err, ErrConfirmRequired)
	if diff := cmp.Diff(s, next); diff != "" {
		t.Fatalf("state changed on rejected advance (-want +got):\n%s", diff)
	}
	assert.Nil(t, next.Confirmation)

	confirmed := must(t)(s.Confirm(time.UnixMilli(7)))
	assert.Equal(t, StepConfirmed, confirmed.Step)
	require.NotNil(t, confirmed.Confirmation)

	_, err = confirmed.Advance()
	assert.ErrorIs(t, err, ErrTerminal)
}

func TestEnsureConfirmationGeneratesOnce(t *testing.T) {
	s := atPayment(t)
	s = must(t)(s.SubmitPayment(janesCard))

	notYet, generated := s.EnsureConfirmation(time.Now())
	assert.False(t, generated)
	assert.Nil(t, notYet.Confirmation)

	s.Step = StepConfirmed
	first := time.UnixMilli(1781000000123)
	s, generated = s.EnsureConfirmation(first)
	require.True(t, generated)
	assert.Equal(t, "LX1781000000123", s.Confirmation.BookingID)
	assert.Regexp(t, regexp.MustCompile(`^LX\d+$`), s.Confirmation.BookingID)

	again, generated := s.EnsureConfirmation(first.Add(time.Minute))
	assert.False(t, generated)
	assert.Equal(t, "LX1781000000123", again.Confirmation.BookingID)
}

// Changing the service after going back keeps later answers as they were.
// The quote follows the new service.
func TestRetreatThenChangeServiceKeepsDownstreamData(t *testing.T) {
	s := atPayment(t)
	for s.Step > StepService {
		s = must(t)(s.Retreat())
	}

	manicure := catalog.Service{ID: 4, Name: "Luxury Manicure", Price: "$45-65", Duration: "60 min"}
	s = must(t)(s.SelectService(manicure))

	assert.NotNil(t, s.Booking.Date)
	assert.Equal(t, "9:00 AM", s.Booking.Time)
	assert.Equal(t, jane, s.Booking.ClientInfo)
	assert.Equal(t, 45.0, s.Quote().Subtotal)
}

func TestQuote(t *testing.T) {
	assert.Zero(t, New().Quote().Total)
	assert.InDelta(t, 91.8, NewWithService(cutAndStyle).Quote().Total, 1e-9)
}

func TestProgress(t *testing.T) {
	s := atSchedule(t)
	progress := s.Progress()
	require.Len(t, progress, 4)

	assert.True(t, progress[0].Completed)
	assert.False(t, progress[0].Current)
	assert.True(t, progress[1].Current)
	assert.False(t, progress[1].Completed)
	assert.Equal(t, "Choose Date & Time", progress[1].Title)
	assert.Equal(t, "Payment", progress[3].Title)
}

func TestStepTitleFallback(t *testing.T) {
	assert.Equal(t, "Step 9", Step(9).Title())
	assert.False(t, Step(0).Valid())
	assert.True(t, StepConfirmed.Valid())
}

func TestCanAdvanceRejectsInvalidStep(t *testing.T) {
	err := State{Step: 0}.CanAdvance()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrStepIncomplete))
}

func TestConfirm(t *testing.T) {
	_, err := atSchedule(t).Confirm(time.Now())
	assert.ErrorIs(t, err, ErrWrongStep)

	s := atPayment(t)
	_, err = s.Confirm(time.Now())
	assert.ErrorIs(t, err, ErrStepIncomplete)

	s = must(t)(s.SubmitPayment(janesCard))
	confirmed := must(t)(s.Confirm(time.UnixMilli(42)))
	assert.True(t, confirmed.Terminal())
	require.NotNil(t, confirmed.Confirmation)
	assert.Equal(t, "LX42", confirmed.Confirmation.BookingID)

	_, err = confirmed.Confirm(time.Now())
	assert.ErrorIs(t, err, ErrTerminal)
}
