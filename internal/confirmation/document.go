// Package confirmation renders the downloadable booking confirmation and archives
// copies of it.
package confirmation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/luxe-salon/internal/catalog"
	"github.com/wolfman30/luxe-salon/internal/formatting"
	"github.com/wolfman30/luxe-salon/internal/wizard"
)

// ContentType is served with the export.
const ContentType = "text/plain; charset=utf-8"

const generatedLayout = "1/2/2006"

var ErrNotConfirmed = errors.New("confirmation: booking is not confirmed")

// Filename is the attachment name for bookingID.
func Filename(bookingID string) string {
	return "Confirmation_" + bookingID + ".txt"
}

// Render produces the plain-text confirmation for a confirmed booking.
// generatedAt is printed as the document date.
func Render(state wizard.State, salon catalog.Salon, generatedAt time.Time) ([]byte, error) {
	if !state.Terminal() || state.Confirmation == nil {
		return nil, ErrNotConfirmed
	}
	b := state.Booking

	var serviceName, duration, stylist, date string
	if b.Service != nil {
		serviceName, duration = b.Service.Name, b.Service.Duration
	}
	if b.Staff != nil {
		stylist = b.Staff.Name
	}
	if b.Date != nil {
		date = formatting.FormatLongDate(*b.Date)
	}
	notes := b.ClientInfo.Notes
	if strings.TrimSpace(notes) == "" {
		notes = "None"
	}

	title := strings.ToUpper(salon.Name) + " - APPOINTMENT CONFIRMATION"

	var w strings.Builder
	w.WriteString(title + "\n")
	w.WriteString(strings.Repeat("=", len(title)) + "\n\n")
	fmt.Fprintf(&w, "Booking ID: %s\n", state.Confirmation.BookingID)
	fmt.Fprintf(&w, "Date: %s\n\n", generatedAt.Format(generatedLayout))

	w.WriteString("CLIENT INFORMATION:\n")
	fmt.Fprintf(&w, "Name: %s\n", b.ClientInfo.FullName())
	fmt.Fprintf(&w, "Email: %s\n", b.ClientInfo.Email)
	fmt.Fprintf(&w, "Phone: %s\n\n", b.ClientInfo.Phone)

	w.WriteString("APPOINTMENT DETAILS:\n")
	fmt.Fprintf(&w, "Service: %s\n", serviceName)
	fmt.Fprintf(&w, "Stylist: %s\n", stylist)
	fmt.Fprintf(&w, "Date: %s\n", date)
	fmt.Fprintf(&w, "Time: %s\n", b.Time)
	fmt.Fprintf(&w, "Duration: %s\n\n", duration)

	fmt.Fprintf(&w, "Special Notes: %s\n\n", notes)

	w.WriteString("SALON CONTACT:\n")
	fmt.Fprintf(&w, "Phone: %s\n", salon.Phone)
	fmt.Fprintf(&w, "Email: %s\n", salon.Email)
	fmt.Fprintf(&w, "Address: %s\n\n", salon.Address)

	fmt.Fprintf(&w, "Thank you for choosing %s!\n", salon.Name)
	return []byte(w.String()), nil
}
