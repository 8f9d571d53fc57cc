package booking

import (
	"context"
	"net/http"

	"hms/infras/otel"
	"hms/internal/domains/booking/model"
	"hms/internal/domains/booking/model/dto"
	"hms/internal/domains/booking/service"
	"hms/shared/constant"
	gDto "hms/shared/dto"
	"hms/shared/failure"
	"hms/shared/timezone"
	"hms/shared/validator"
	"hms/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const (
	requestParamLineID      = "lineId"
	requestParamCreatedFrom = "created_from"
	requestParamCreatedTo   = "created_to"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}", handler.UpdateBooking)
		routerGroup.Delete("/{id}", handler.DeleteBooking)

		routerGroup.Post("/{id}/lines", handler.AddBookingLine)
		routerGroup.Patch("/{id}/lines/{lineId}", handler.UpdateBookingLine)
		routerGroup.Delete("/{id}/lines/{lineId}", handler.DeleteBookingLine)

		routerGroup.Post("/{id}/reserve", handler.ReserveBooking)
		routerGroup.Post("/{id}/checkin", handler.CheckInBooking)
		routerGroup.Post("/{id}/checkout", handler.CheckOutBooking)
		routerGroup.Post("/{id}/cancel", handler.CancelBooking)
	})
}

// CreateBooking handles the creation of a new booking draft.
// @Summary Create a new booking
// @Description Create a draft booking with one or more room lines. Each line is validated against physical room availability.
// @Tags Booking
// @Accept json
// @Produce json
// @Param booking body dto.CreateBookingRequest true "Booking details"
// @Success 201 {object} response.Message "Booking created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	var req dto.CreateBookingRequest
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Booking created successfully")
}

// GetBookings retrieves all bookings based on query parameters.
// @Summary Get all bookings
// @Description Retrieve all bookings with optional filtering and pagination.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param state query string false "Filter by state (draft, reserved, check_in, check_out, cancelled)"
// @Param guest_name query string false "Filter by guest name (partial match)"
// @Param created_from query string false "Only bookings created at or after this time (format: 2006-01-02 15:04)"
// @Param created_to query string false "Only bookings created before this time (format: 2006-01-02 15:04)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	state := r.URL.Query().Get(model.FieldState)
	guestName := r.URL.Query().Get(model.FieldGuestName)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if state != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldState,
			Operator: gDto.FilterOperatorEq,
			Value:    state,
			Table:    model.TableName,
		})
	}

	if guestName != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldGuestName,
			Operator: gDto.FilterOperatorLike,
			Value:    guestName,
			Table:    model.TableName,
		})
	}

	if createdFrom := r.URL.Query().Get(requestParamCreatedFrom); createdFrom != "" {
		from, err := timezone.Parse(constant.DateTimeFormat, createdFrom)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString("invalid created_from, expected format: "+constant.DateTimeFormat))

			return
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  requestParamCreatedFrom,
			Field:    constant.FieldCreatedAt,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    from,
			Table:    model.TableName,
		})
	}

	if createdTo := r.URL.Query().Get(requestParamCreatedTo); createdTo != "" {
		to, err := timezone.Parse(constant.DateTimeFormat, createdTo)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString("invalid created_to, expected format: "+constant.DateTimeFormat))

			return
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  requestParamCreatedTo,
			Field:    constant.FieldCreatedAt,
			Operator: gDto.FilterOperatorLess,
			Value:    to,
			Table:    model.TableName,
		})
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking with its lines by ID.
// @Summary Get a booking by ID
// @Description Retrieve a booking and all of its room lines by its unique identifier.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking retrieved successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBooking updates guest details of an existing booking.
// @Summary Update a booking by ID
// @Description Update the guest details of a booking. Lines are managed through the line endpoints.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param booking body dto.UpdateBookingRequest true "Booking details"
// @Success 200 {object} response.Message "Booking updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [patch]
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	var req dto.UpdateBookingRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Booking updated successfully")
}

// DeleteBooking deletes a draft or cancelled booking.
// @Summary Delete a booking by ID
// @Description Delete a booking and its lines. Only draft and cancelled bookings can be deleted.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [delete]
func (handler *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Booking deleted successfully")
}

// AddBookingLine adds a room line to an existing booking.
// @Summary Add a line to a booking
// @Description Add a room line to a mutable booking. The line is validated against physical room availability.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param line body dto.BookingLineRequest true "Line details"
// @Success 201 {object} response.Message "Booking line added successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/lines [post]
func (handler *Handler) AddBookingLine(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddBookingLine")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	var req dto.BookingLineRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.AddLine(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add booking line")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking line added successfully")

	response.WithMessage(w, http.StatusCreated, "Booking line added successfully")
}

// UpdateBookingLine updates a line on an existing booking.
// @Summary Update a booking line
// @Description Update the room or dates of a line on a mutable booking. Changes are re-validated and re-priced.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param lineId path string true "Booking line ID"
// @Param line body dto.UpdateBookingLineRequest true "Line details"
// @Success 200 {object} response.Message "Booking line updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/lines/{lineId} [patch]
func (handler *Handler) UpdateBookingLine(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBookingLine")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	lineID := chi.URLParam(r, requestParamLineID)

	var req dto.UpdateBookingLineRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateLine(ctx, id, lineID, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking line")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking line updated successfully")

	response.WithMessage(w, http.StatusOK, "Booking line updated successfully")
}

// DeleteBookingLine removes a line from an existing booking.
// @Summary Delete a booking line
// @Description Remove a line from a mutable booking and recompute the affected room statuses.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param lineId path string true "Booking line ID"
// @Success 200 {object} response.Message "Booking line deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/lines/{lineId} [delete]
func (handler *Handler) DeleteBookingLine(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBookingLine")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	lineID := chi.URLParam(r, requestParamLineID)

	if err := handler.service.DeleteLine(ctx, id, lineID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete booking line")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking line deleted successfully")

	response.WithMessage(w, http.StatusOK, "Booking line deleted successfully")
}

// ReserveBooking confirms a draft booking.
// @Summary Reserve a booking
// @Description Move a draft booking to reserved. Every line is re-validated against availability before confirmation.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking reserved successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/reserve [post]
func (handler *Handler) ReserveBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "ReserveBooking", handler.service.Reserve, "Booking reserved successfully")
}

// CheckInBooking checks a reserved booking in.
// @Summary Check in a booking
// @Description Move a reserved booking to check_in.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking checked in successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/checkin [post]
func (handler *Handler) CheckInBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "CheckInBooking", handler.service.CheckIn, "Booking checked in successfully")
}

// CheckOutBooking checks a booking out.
// @Summary Check out a booking
// @Description Move a checked-in booking to check_out and free the rooms.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking checked out successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/checkout [post]
func (handler *Handler) CheckOutBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "CheckOutBooking", handler.service.CheckOut, "Booking checked out successfully")
}

// CancelBooking cancels a booking.
// @Summary Cancel a booking
// @Description Cancel a draft, reserved or checked-in booking and free the rooms.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking cancelled successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "CancelBooking", handler.service.Cancel, "Booking cancelled successfully")
}

func (handler *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	fn func(ctx context.Context, id string) error,
	message string,
) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := fn(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to transition booking state")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent(message + " by user " + user)

	response.WithMessage(w, http.StatusOK, message)
}
