package events

import "time"

// BookingConfirmedV1 is published once per booking after payment succeeds.
type BookingConfirmedV1 struct {
	BookingID       string    `json:"booking_id"`
	ClientName      string    `json:"client_name"`
	ClientEmail     string    `json:"client_email"`
	ClientPhone     string    `json:"client_phone"`
	ServiceName     string    `json:"service_name"`
	StylistName     string    `json:"stylist_name"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	SpecialNotes    string    `json:"special_notes"`
	ConfirmedAt     time.Time `json:"confirmed_at"`
}

func (BookingConfirmedV1) EventType() string { return "booking.confirmed.v1" }

func (e BookingConfirmedV1) BookingRef() string { return e.BookingID }
