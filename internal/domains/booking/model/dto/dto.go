package dto

import (
	"fmt"
	"time"

	"hms/internal/domains/booking/model"
	"hms/shared"
	"hms/shared/constant"
	gDto "hms/shared/dto"
	gModel "hms/shared/model"
	"hms/shared/timezone"

	"github.com/google/uuid"
)

type BookingLineRequest struct {
	RoomID       string   `json:"room_id"       validate:"required"`
	CheckinDate  string   `json:"checkin_date"  validate:"required"`
	CheckoutDate string   `json:"checkout_date" validate:"required"`
	PriceUnit    *float64 `json:"price_unit"    validate:"omitempty,min=0"`
}

// ParseInterval parses the line's dates in the app timezone. The interval is
// half-open, so equality of checkin and checkout is rejected as empty.
func (l *BookingLineRequest) ParseInterval() (checkin, checkout time.Time, err error) {
	checkin, err = timezone.Parse(constant.DateTimeFormat, l.CheckinDate)
	if err != nil {
		return checkin, checkout, fmt.Errorf("invalid checkin date %q: %w", l.CheckinDate, err)
	}

	checkout, err = timezone.Parse(constant.DateTimeFormat, l.CheckoutDate)
	if err != nil {
		return checkin, checkout, fmt.Errorf("invalid checkout date %q: %w", l.CheckoutDate, err)
	}

	return checkin, checkout, nil
}

type CreateBookingRequest struct {
	GuestName  string               `json:"guest_name"  validate:"required,max=100"`
	GuestEmail string               `json:"guest_email" validate:"omitempty,email,max=100"`
	GuestPhone string               `json:"guest_phone" validate:"omitempty,max=20"`
	Lines      []BookingLineRequest `json:"lines"       validate:"required,min=1,dive"`
}

func (c *CreateBookingRequest) ToModel(user string) model.Booking {
	now := timezone.Now()

	return model.Booking{
		ID:         uuid.NewString(),
		Name:       fmt.Sprintf("BK-%s-%s", now.Format("20060102"), uuid.NewString()[:8]),
		GuestName:  c.GuestName,
		GuestEmail: c.GuestEmail,
		GuestPhone: c.GuestPhone,
		State:      model.StateDraft,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateBookingRequest struct {
	GuestName  string `db:"guest_name"  json:"guest_name"  validate:"omitempty,max=100"`
	GuestEmail string `db:"guest_email" json:"guest_email" validate:"omitempty,email,max=100"`
	GuestPhone string `db:"guest_phone" json:"guest_phone" validate:"omitempty,max=20"`
}

type UpdateBookingLineRequest struct {
	RoomID       string   `json:"room_id"       validate:"omitempty"`
	CheckinDate  string   `json:"checkin_date"  validate:"omitempty"`
	CheckoutDate string   `json:"checkout_date" validate:"omitempty"`
	PriceUnit    *float64 `json:"price_unit"    validate:"omitempty,min=0"`
}

type BookingLineResponse struct {
	ID            string  `json:"id"`
	RoomID        string  `json:"room_id"`
	CheckinDate   string  `json:"checkin_date"`
	CheckoutDate  string  `json:"checkout_date"`
	Nights        int     `json:"nights"`
	PriceUnit     float64 `json:"price_unit"`
	PriceSubtotal float64 `json:"price_subtotal"`
	PriceTax      float64 `json:"price_tax"`
	PriceTotal    float64 `json:"price_total"`
}

func (r *BookingLineResponse) FromModel(line model.BookingLine) {
	r.ID = line.ID
	r.RoomID = line.RoomID
	r.CheckinDate = timezone.Format(line.CheckinDate, constant.DateTimeFormat)
	r.CheckoutDate = timezone.Format(line.CheckoutDate, constant.DateTimeFormat)
	r.Nights = line.Nights
	r.PriceUnit = line.PriceUnit
	r.PriceSubtotal = line.PriceSubtotal
	r.PriceTax = line.PriceTax
	r.PriceTotal = line.PriceTotal
}

type BookingResponse struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	GuestName  string                `json:"guest_name"`
	GuestEmail string                `json:"guest_email"`
	GuestPhone string                `json:"guest_phone"`
	State      string                `json:"state"`
	Lines      []BookingLineResponse `json:"lines,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking, lines []model.BookingLine) {
	r.ID = booking.ID
	r.Name = booking.Name
	r.GuestName = booking.GuestName
	r.GuestEmail = booking.GuestEmail
	r.GuestPhone = booking.GuestPhone
	r.State = booking.State
	r.Metadata.FromModel(booking.Metadata)

	r.Lines = make([]BookingLineResponse, len(lines))
	for i, line := range lines {
		r.Lines[i].FromModel(line)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod, nil)
	}
}
