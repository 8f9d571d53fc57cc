package room

import (
	"net/http"

	"hms/infras/otel"
	"hms/internal/domains/room/model"
	"hms/internal/domains/room/model/dto"
	"hms/internal/domains/room/service"
	"hms/shared"
	"hms/shared/constant"
	gDto "hms/shared/dto"
	"hms/shared/failure"
	"hms/shared/timezone"
	"hms/shared/validator"
	"hms/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoom)
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Get("/availability", handler.CheckAvailability)
		routerGroup.Get("/{id}", handler.GetRoomByID)
		routerGroup.Patch("/{id}", handler.UpdateRoom)
		routerGroup.Delete("/{id}", handler.DeleteRoom)
		routerGroup.Post("/{id}/maintenance", handler.SetMaintenance)
		routerGroup.Delete("/{id}/maintenance", handler.ClearMaintenance)
	})
}

// CreateRoom handles the creation of a new room configuration.
// @Summary Create a new room configuration
// @Description Create a new sellable room configuration. Physical room and configuration codes default from the name and type when omitted.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Room number"
// @Param physical_room_code formData string false "Physical room code"
// @Param config_code formData string false "Configuration code"
// @Param room_type formData string true "Room type"
// @Param capacity formData integer true "Capacity"
// @Param list_price formData number false "Nightly list price"
// @Param image formData file false "Room image"
// @Success 201 {object} response.Message "Room configuration created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [post]
func (handler *Handler) CreateRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, err)

		return
	}

	req := dto.CreateRoomRequest{
		Name:             request.FormValue(model.FieldName),
		PhysicalRoomCode: request.FormValue(model.FieldPhysicalRoomCode),
		ConfigCode:       request.FormValue(model.FieldConfigCode),
		RoomType:         request.FormValue(model.FieldRoomType),
	}

	if capStr := request.FormValue(model.FieldCapacity); capStr != "" {
		if c, err := shared.ConvertStringToInt(capStr); err == nil {
			req.Capacity = c
		}
	}

	if priceStr := request.FormValue(model.FieldListPrice); priceStr != "" {
		if p, err := shared.ConvertStringToFloat(priceStr); err == nil {
			req.ListPrice = p
		}
	}

	file, fileHeader, err := request.FormFile(model.FieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room configuration")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room configuration created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Room configuration created successfully")
}

// GetRooms retrieves all room configurations based on query parameters.
// @Summary Get all room configurations
// @Description Retrieve all room configurations with optional filtering and pagination.
// @Tags Room
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param physical_room_code query string false "Filter by physical room code"
// @Param room_type query string false "Filter by room type"
// @Param status query string false "Filter by status (available, reserved, occupied, unavailable, maintenance)"
// @Success 200 {object} response.Data[dto.RoomResponse] "List of room configurations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	physicalRoomCode := r.URL.Query().Get(model.FieldPhysicalRoomCode)
	roomType := r.URL.Query().Get(model.FieldRoomType)
	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if physicalRoomCode != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldPhysicalRoomCode,
			Operator: gDto.FilterOperatorEq,
			Value:    physicalRoomCode,
			Table:    model.TableName,
		})
	}

	if roomType != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRoomType,
			Operator: gDto.FilterOperatorEq,
			Value:    roomType,
			Table:    model.TableName,
		})
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	rooms, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room configurations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room configurations retrieved successfully")

	response.WithJSON(w, http.StatusOK, rooms)
}

// CheckAvailability reports whether a physical room is free for an interval.
// @Summary Check physical room availability
// @Description Read-only availability verdict for a physical room over a half-open interval, with conflicting bookings enumerated.
// @Tags Room
// @Accept json
// @Produce json
// @Param physical_room_code query string true "Physical room code"
// @Param checkin query string true "Checkin (YYYY-MM-DD HH:MM)"
// @Param checkout query string true "Checkout (YYYY-MM-DD HH:MM)"
// @Success 200 {object} response.Data[dto.AvailabilityResponse] "Availability verdict"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/availability [get]
func (handler *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	physicalRoomCode := r.URL.Query().Get(model.FieldPhysicalRoomCode)
	if physicalRoomCode == "" {
		response.WithError(w, failure.BadRequestFromString("physical_room_code is required"))

		return
	}

	checkin, err := timezone.Parse(constant.DateTimeFormat, r.URL.Query().Get("checkin"))
	if err != nil {
		response.WithError(w, failure.BadRequestFromString("invalid checkin date"))

		return
	}

	checkout, err := timezone.Parse(constant.DateTimeFormat, r.URL.Query().Get("checkout"))
	if err != nil {
		response.WithError(w, failure.BadRequestFromString("invalid checkout date"))

		return
	}

	res, err := handler.service.CheckAvailability(ctx, dto.CheckAvailabilityRequest{
		PhysicalRoomCode: physicalRoomCode,
		Checkin:          checkin,
		Checkout:         checkout,
	})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetRoomByID retrieves a room configuration by its ID.
// @Summary Get a room configuration by ID
// @Description Retrieve a room configuration by its unique identifier.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room configuration ID"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room configuration details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room configuration by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room configuration retrieved successfully")

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom updates an existing room configuration by its ID.
// @Summary Update a room configuration by ID
// @Description Update the details of an existing room configuration.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Room configuration ID"
// @Param name formData string false "Room number"
// @Param room_type formData string false "Room type"
// @Param capacity formData integer false "Capacity"
// @Param list_price formData number false "Nightly list price"
// @Param image formData file false "Room image"
// @Success 200 {object} response.Message "Room configuration updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [patch]
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.UpdateRoomRequest{
		Name:     r.FormValue(model.FieldName),
		RoomType: r.FormValue(model.FieldRoomType),
	}

	if capStr := r.FormValue(model.FieldCapacity); capStr != "" {
		if c, err := shared.ConvertStringToInt(capStr); err == nil {
			req.Capacity = &c
		}
	}

	if priceStr := r.FormValue(model.FieldListPrice); priceStr != "" {
		if p, err := shared.ConvertStringToFloat(priceStr); err == nil {
			req.ListPrice = &p
		}
	}

	file, fileHeader, err := r.FormFile(model.FieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room configuration")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room configuration updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Room configuration updated successfully")
}

// DeleteRoom deletes a room configuration by its ID.
// @Summary Delete a room configuration by ID
// @Description Delete a room configuration that has no active bookings.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room configuration ID"
// @Success 200 {object} response.Message "Room configuration deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [delete]
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete room configuration")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room configuration deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Room configuration deleted successfully")
}

// SetMaintenance flags a physical room as down for maintenance.
// @Summary Set a physical room to maintenance
// @Description Flag the physical room of this configuration, and all its sibling configurations, as unavailable for maintenance. Fails while active bookings remain.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room configuration ID"
// @Success 200 {object} response.Message "Physical room set to maintenance"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/maintenance [post]
func (handler *Handler) SetMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetMaintenance")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room configuration")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SetMaintenance(ctx, room.PhysicalRoomCode); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set maintenance")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Physical room set to maintenance: " + room.PhysicalRoomCode)

	response.WithMessage(w, http.StatusOK, "Physical room set to maintenance")
}

// ClearMaintenance lifts the maintenance flag from a physical room.
// @Summary Clear maintenance on a physical room
// @Description Clear the maintenance flag on the physical room of this configuration and recompute sibling statuses.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room configuration ID"
// @Success 200 {object} response.Message "Maintenance cleared"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/maintenance [delete]
func (handler *Handler) ClearMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ClearMaintenance")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room configuration")

		response.WithError(w, err)

		return
	}

	if err := handler.service.ClearMaintenance(ctx, room.PhysicalRoomCode); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to clear maintenance")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance cleared for physical room: " + room.PhysicalRoomCode)

	response.WithMessage(w, http.StatusOK, "Maintenance cleared")
}
