package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/luxe-salon/internal/catalog"
	"github.com/wolfman30/luxe-salon/internal/formatting"
	"github.com/wolfman30/luxe-salon/internal/wizard"
)

// ConfirmationPayload is what the client is told after a booking is confirmed.
// The JSON names are the template parameters of the confirmation email.
type ConfirmationPayload struct {
	ToName          string `json:"to_name"`
	ToEmail         string `json:"to_email"`
	BookingID       string `json:"booking_id"`
	ServiceName     string `json:"service_name"`
	StylistName     string `json:"stylist_name"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	ClientPhone     string `json:"client_phone"`
	SpecialNotes    string `json:"special_notes"`
}

// NewConfirmationPayload builds the payload for a confirmed booking.
func NewConfirmationPayload(state wizard.State) (ConfirmationPayload, error) {
	if !state.Terminal() || state.Confirmation == nil {
		return ConfirmationPayload{}, fmt.Errorf("notify: booking is not confirmed")
	}
	b := state.Booking
	p := ConfirmationPayload{
		ToName:          b.ClientInfo.FullName(),
		ToEmail:         b.ClientInfo.Email,
		BookingID:       state.Confirmation.BookingID,
		AppointmentTime: b.Time,
		ClientPhone:     b.ClientInfo.Phone,
		SpecialNotes:    b.ClientInfo.Notes,
	}
	if b.Service != nil {
		p.ServiceName = b.Service.Name
	}
	if b.Staff != nil {
		p.StylistName = b.Staff.Name
	}
	if b.Date != nil {
		p.AppointmentDate = formatting.FormatLongDate(*b.Date)
	}
	if strings.TrimSpace(p.SpecialNotes) == "" {
		p.SpecialNotes = "None"
	}
	return p, nil
}

// ConfirmationSender delivers a payload over one transport.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, payload ConfirmationPayload) error
}

// EmailConfirmations renders the payload as an email to the client.
type EmailConfirmations struct {
	sender EmailSender
	salon  catalog.Salon
}

func NewEmailConfirmations(sender EmailSender, salon catalog.Salon) *EmailConfirmations {
	if sender == nil {
		panic("notify: email sender required")
	}
	return &EmailConfirmations{sender: sender, salon: salon}
}

func (e *EmailConfirmations) SendConfirmation(ctx context.Context, payload ConfirmationPayload) error {
	if payload.ToEmail == "" {
		return fmt.Errorf("notify: confirmation %s has no recipient", payload.BookingID)
	}
	return e.sender.Send(ctx, EmailMessage{
		To:      payload.ToEmail,
		ToName:  payload.ToName,
		ReplyTo: e.salon.Email,
		Subject: ConfirmationSubject(e.salon, payload),
		Body:    ConfirmationBody(e.salon, payload),
	})
}

// ConfirmationSubject is the email subject line.
func ConfirmationSubject(salon catalog.Salon, p ConfirmationPayload) string {
	return fmt.Sprintf("Your %s appointment is confirmed (%s)", salon.Name, p.BookingID)
}

// ConfirmationBody is the plain-text email body.
func ConfirmationBody(salon catalog.Salon, p ConfirmationPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", p.ToName)
	fmt.Fprintf(&b, "Your appointment at %s is confirmed.\n\n", salon.Name)
	fmt.Fprintf(&b, "Booking ID: %s\n", p.BookingID)
	fmt.Fprintf(&b, "Service: %s\n", p.ServiceName)
	fmt.Fprintf(&b, "Stylist: %s\n", p.StylistName)
	fmt.Fprintf(&b, "Date: %s\n", p.AppointmentDate)
	fmt.Fprintf(&b, "Time: %s\n", p.AppointmentTime)
	fmt.Fprintf(&b, "Phone on file: %s\n", p.ClientPhone)
	fmt.Fprintf(&b, "Special notes: %s\n\n", p.SpecialNotes)
	b.WriteString("Please arrive 10 minutes early. Need to reschedule? Call us at least 24 hours ahead.\n")
	fmt.Fprintf(&b, "%s | %s | %s\n", salon.Phone, salon.Email, salon.Address)
	return b.String()
}
