// Package schedule decides which calendar days and time slots a client may pick.
package schedule

import (
	"errors"
	"time"
)

const (
	defaultWindowDays = 30
	slotLayout        = "3:04 PM"
)

var (
	ErrNoDate        = errors.New("schedule: date is required")
	ErrPastDate      = errors.New("schedule: date is in the past")
	ErrClosedDay     = errors.New("schedule: salon is closed on that day")
	ErrOutsideWindow = errors.New("schedule: date is beyond the booking window")
	ErrUnknownSlot   = errors.New("schedule: unknown time slot")
	ErrSlotBooked    = errors.New("schedule: time slot is already booked")
)

// Slot is one half-hour label and whether it can still be picked.
type Slot struct {
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

// Rules holds the booking calendar for the salon.
type Rules struct {
	Location   *time.Location
	WindowDays int
	Closed     time.Weekday
	labels     []string
	booked     map[string]struct{}
}

// DefaultSlots are the half-hour starts from 9:00 AM to 5:30 PM.
func DefaultSlots() []string {
	start := time.Date(2000, 1, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2000, 1, 1, 17, 30, 0, 0, time.UTC)
	var out []string
	for t := start; !t.After(end); t = t.Add(30 * time.Minute) {
		out = append(out, t.Format(slotLayout))
	}
	return out
}

// DefaultBooked is the fixed set of slots shown as taken.
func DefaultBooked() []string {
	return []string{"10:00 AM", "2:00 PM", "4:00 PM"}
}

// NewRules builds rules for loc with the given slots and booked labels.
func NewRules(loc *time.Location, slots, booked []string) Rules {
	if loc == nil {
		loc = time.UTC
	}
	r := Rules{
		Location:   loc,
		WindowDays: defaultWindowDays,
		Closed:     time.Sunday,
		labels:     append([]string(nil), slots...),
		booked:     make(map[string]struct{}, len(booked)),
	}
	for _, b := range booked {
		r.booked[b] = struct{}{}
	}
	return r
}

// DefaultRules uses the salon's standard slots and booked list.
func DefaultRules(loc *time.Location) Rules {
	return NewRules(loc, DefaultSlots(), DefaultBooked())
}

// Day truncates t to midnight in the salon's time zone.
func (r Rules) Day(t time.Time) time.Time {
	local := t.In(r.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.Location)
}

// CheckDate reports why date cannot be booked as of now, or nil if it can.
// Today is selectable; Sundays, past days and days beyond the window are not.
func (r Rules) CheckDate(date, now time.Time) error {
	if date.IsZero() {
		return ErrNoDate
	}
	day := r.Day(date)
	today := r.Day(now)
	if day.Before(today) {
		return ErrPastDate
	}
	if day.Weekday() == r.Closed {
		return ErrClosedDay
	}
	if day.After(today.AddDate(0, 0, r.WindowDays)) {
		return ErrOutsideWindow
	}
	return nil
}

// DateSelectable is CheckDate as a predicate.
func (r Rules) DateSelectable(date, now time.Time) bool {
	return r.CheckDate(date, now) == nil
}

// Slots lists every slot; booked ones are returned with Available false.
func (r Rules) Slots() []Slot {
	out := make([]Slot, 0, len(r.labels))
	for _, label := range r.labels {
		_, taken := r.booked[label]
		out = append(out, Slot{Label: label, Available: !taken})
	}
	return out
}

// CheckSlot reports why label cannot be picked, or nil if it can.
func (r Rules) CheckSlot(label string) error {
	known := false
	for _, l := range r.labels {
		if l == label {
			known = true
			break
		}
	}
	if !known {
		return ErrUnknownSlot
	}
	if _, taken := r.booked[label]; taken {
		return ErrSlotBooked
	}
	return nil
}

// SelectableDates lists the bookable days from today through the end of the window.
func (r Rules) SelectableDates(now time.Time) []time.Time {
	today := r.Day(now)
	var out []time.Time
	for i := 0; i <= r.WindowDays; i++ {
		d := today.AddDate(0, 0, i)
		if r.CheckDate(d, now) == nil {
			out = append(out, d)
		}
	}
	return out
}

// DayAvailability is what the date/time step shows for one day.
type DayAvailability struct {
	Date       string `json:"date"`
	Selectable bool   `json:"selectable"`
	Reason     string `json:"reason,omitempty"`
	Slots      []Slot `json:"slots,omitempty"`
}

// Availability describes date as of now. Slots are only listed for selectable days.
func (r Rules) Availability(date, now time.Time) DayAvailability {
	out := DayAvailability{Date: r.Day(date).Format("2006-01-02")}
	if err := r.CheckDate(date, now); err != nil {
		out.Reason = err.Error()
		return out
	}
	out.Selectable = true
	out.Slots = r.Slots()
	return out
}

// SlotSelectable is CheckSlot as a predicate.
func (r Rules) SlotSelectable(label string) bool {
	return r.CheckSlot(label) == nil
}
