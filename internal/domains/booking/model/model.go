package model

import (
	"time"

	"hms/shared/model"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID         = "id"
	FieldName       = "name"
	FieldGuestName  = "guest_name"
	FieldGuestEmail = "guest_email"
	FieldGuestPhone = "guest_phone"
	FieldState      = "state"
)

const (
	LineTableName  = "room_booking_lines"
	LineEntityName = "booking_line"

	FieldLineID        = "id"
	FieldLineBookingID = "booking_id"
	FieldLineRoomID    = "room_id"
	FieldCheckinDate   = "checkin_date"
	FieldCheckoutDate  = "checkout_date"
	FieldNights        = "nights"
	FieldPriceUnit     = "price_unit"
	FieldPriceSubtotal = "price_subtotal"
	FieldPriceTax      = "price_tax"
	FieldPriceTotal    = "price_total"
)

// Booking states. A booking blocks sibling configurations only while active
// (reserved or check_in).
const (
	StateDraft     = "draft"
	StateReserved  = "reserved"
	StateCheckIn   = "check_in"
	StateCheckOut  = "check_out"
	StateCancelled = "cancelled"
)

// IsActiveState reports whether bookings in the given state occupy their
// rooms for availability purposes.
func IsActiveState(state string) bool {
	return state == StateReserved || state == StateCheckIn
}

type Booking struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	GuestName  string `db:"guest_name"`
	GuestEmail string `db:"guest_email"`
	GuestPhone string `db:"guest_phone"`
	State      string `db:"state"`
	model.Metadata
}

// BookingLine reserves one room configuration for a half-open interval
// [checkin_date, checkout_date).
type BookingLine struct {
	ID            string    `db:"id"`
	BookingID     string    `db:"booking_id"`
	RoomID        string    `db:"room_id"`
	CheckinDate   time.Time `db:"checkin_date"`
	CheckoutDate  time.Time `db:"checkout_date"`
	Nights        int       `db:"nights"`
	PriceUnit     float64   `db:"price_unit"`
	PriceSubtotal float64   `db:"price_subtotal"`
	PriceTax      float64   `db:"price_tax"`
	PriceTotal    float64   `db:"price_total"`
	model.Metadata
}

// ActiveLine is a booking line joined with its booking and room
// configuration, as returned by the availability queries.
type ActiveLine struct {
	LineID           string    `db:"line_id"`
	BookingID        string    `db:"booking_id"`
	BookingName      string    `db:"booking_name"`
	BookingState     string    `db:"booking_state"`
	RoomID           string    `db:"room_id"`
	RoomName         string    `db:"room_name"`
	PhysicalRoomCode string    `db:"physical_room_code"`
	CheckinDate      time.Time `db:"checkin_date"`
	CheckoutDate     time.Time `db:"checkout_date"`
}

// ContainsTime reports whether the line's half-open interval contains t.
func (l ActiveLine) ContainsTime(t time.Time) bool {
	return !t.Before(l.CheckinDate) && t.Before(l.CheckoutDate)
}

// Overlaps reports a strict overlap with [checkin, checkout): intervals that
// only touch at an endpoint do not conflict.
func (l ActiveLine) Overlaps(checkin, checkout time.Time) bool {
	return l.CheckinDate.Before(checkout) && l.CheckoutDate.After(checkin)
}

// Nights converts a stay duration into billable nights: the number of whole
// days, plus one when a partial day remains.
func Nights(checkin, checkout time.Time) int {
	duration := checkout.Sub(checkin)
	if duration <= 0 {
		return 0
	}

	nights := int(duration / (24 * time.Hour))
	if duration%(24*time.Hour) > 0 {
		nights++
	}

	return nights
}
