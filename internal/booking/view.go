package booking

import (
	"time"

	"github.com/wolfman30/luxe-salon/internal/pricing"
	"github.com/wolfman30/luxe-salon/internal/wizard"
)

// SessionView is a session as shown to the client. Card data is masked.
type SessionView struct {
	ID           string                `json:"id"`
	Step         wizard.Step           `json:"step"`
	StepTitle    string                `json:"stepTitle"`
	Processing   bool                  `json:"processing"`
	Progress     []wizard.ProgressStep `json:"progress"`
	Booking      wizard.BookingData    `json:"booking"`
	Quote        pricing.Display       `json:"quote"`
	PayLabel     string                `json:"payLabel"`
	Confirmation *wizard.Confirmation  `json:"confirmation,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// NewSessionView builds the client-facing view of session.
func NewSessionView(session *Session) SessionView {
	st := session.State
	booking := st.Booking
	booking.Payment = booking.Payment.Masked()
	quote := st.Quote()
	return SessionView{
		ID:           session.ID,
		Step:         st.Step,
		StepTitle:    st.Step.Title(),
		Processing:   session.Processing,
		Progress:     st.Progress(),
		Booking:      booking,
		Quote:        quote.Display(),
		PayLabel:     quote.PayLabel(),
		Confirmation: st.Confirmation,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
	}
}

// QuoteView is the order summary of the payment step.
type QuoteView struct {
	Breakdown pricing.Breakdown `json:"breakdown"`
	Display   pricing.Display   `json:"display"`
	PayLabel  string            `json:"payLabel"`
}

func NewQuoteView(b pricing.Breakdown) QuoteView {
	return QuoteView{Breakdown: b, Display: b.Display(), PayLabel: b.PayLabel()}
}
