package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"hms/config"
	"hms/infras/kafka"
	"hms/infras/otel"
	"hms/infras/taxengine"
	"hms/internal/domains/booking/model"
	"hms/internal/domains/booking/model/dto"
	"hms/internal/domains/booking/repository"
	roomModel "hms/internal/domains/room/model"
	roomRepo "hms/internal/domains/room/repository"
	roomSvc "hms/internal/domains/room/service"
	"hms/shared"
	"hms/shared/cache"
	"hms/shared/constant"
	gDto "hms/shared/dto"
	"hms/shared/failure"
	gModel "hms/shared/model"
	"hms/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	eventBookingCreated      = "created"
	eventBookingStateChanged = "state_changed"
	eventBookingDeleted      = "deleted"
)

// stateTransitions lists the states a booking may move to from each state.
// check_out and cancelled are final.
var stateTransitions = map[string][]string{
	model.StateDraft:    {model.StateReserved, model.StateCancelled},
	model.StateReserved: {model.StateCheckIn, model.StateCancelled},
	model.StateCheckIn:  {model.StateCheckOut, model.StateCancelled},
}

func transitionAllowed(from, to string) bool {
	for _, state := range stateTransitions[from] {
		if state == to {
			return true
		}
	}

	return false
}

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Delete(ctx context.Context, id string) error
	AddLine(ctx context.Context, bookingID string, req dto.BookingLineRequest) error
	UpdateLine(ctx context.Context, bookingID, lineID string, req dto.UpdateBookingLineRequest) error
	DeleteLine(ctx context.Context, bookingID, lineID string) error
	Reserve(ctx context.Context, id string) error
	CheckIn(ctx context.Context, id string) error
	CheckOut(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Booking
	lineRepo  repository.BookingLine
	roomRepo  roomRepo.Room
	roomSvc   roomSvc.Room
	taxEngine taxengine.TaxEngine
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	producer  kafka.Client
}

func New(
	repo repository.Booking,
	lineRepo repository.BookingLine,
	roomRepo roomRepo.Room,
	roomSvc roomSvc.Room,
	taxEngine taxengine.TaxEngine,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	producer kafka.Client,
) Booking {
	return &serviceImpl{
		repo:      repo,
		lineRepo:  lineRepo,
		roomRepo:  roomRepo,
		roomSvc:   roomSvc,
		taxEngine: taxEngine,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		producer:  producer,
	}
}

// preparedLine is a validated, priced line ready for insertion.
type preparedLine struct {
	roomID           string
	physicalRoomCode string
	checkin          time.Time
	checkout         time.Time
	priceUnit        float64
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()
	booking := req.ToModel(user)

	prepared := make([]preparedLine, 0, len(req.Lines))
	seenCodes := make(map[string]bool)

	for _, lineReq := range req.Lines {
		checkin, checkout, err := lineReq.ParseInterval()
		if err != nil {
			return failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
		}

		if !checkout.After(checkin) {
			return failure.BadRequestFromString("checkout must be after checkin") // nolint:wrapcheck
		}

		room, err := s.resolveRoom(ctx, lineReq.RoomID)
		if err != nil {
			return err
		}

		if seenCodes[room.PhysicalRoomCode] {
			return failure.Conflict(fmt.Sprintf("physical room %s appears more than once in the booking", room.PhysicalRoomCode)) // nolint:wrapcheck
		}
		seenCodes[room.PhysicalRoomCode] = true

		priceUnit := room.ListPrice
		if lineReq.PriceUnit != nil {
			priceUnit = *lineReq.PriceUnit
		}

		prepared = append(prepared, preparedLine{
			roomID:           room.ID,
			physicalRoomCode: room.PhysicalRoomCode,
			checkin:          checkin,
			checkout:         checkout,
			priceUnit:        priceUnit,
		})
	}

	lines := make([]model.BookingLine, len(prepared))
	for i, p := range prepared {
		lines[i] = s.buildLine(ctx, booking, p, user, now)
	}

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.lockCodes(ctx, tx, seenCodes); err != nil {
			return err
		}

		for _, p := range prepared {
			if err := s.checkAvailabilityTx(ctx, tx, p.physicalRoomCode, p.checkin, p.checkout, booking.ID); err != nil {
				return err
			}
		}

		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}

		if err := s.lineRepo.InsertBulkTx(ctx, tx, lines); err != nil {
			return fmt.Errorf("failed to insert booking lines: %w", err)
		}

		return s.recomputeCodes(ctx, tx, seenCodes, now)
	})
	if err != nil {
		return err
	}

	s.publishBookingEvent(ctx, eventBookingCreated, booking.ID, booking.Name, booking.State)
	s.invalidateBookingCaches(ctx, booking.ID)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	lines, err := s.lineRepo.GetAll(ctx, gDto.QueryParams{}, s.filterByBookingID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking lines")

		return res, fmt.Errorf("failed to get booking lines: %w", err)
	}

	res.FromModel(booking, lines)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	s.invalidateBookingCaches(ctx, id)

	return nil
}

// Delete removes a booking and, through the schema cascade, its lines. Only
// draft and cancelled bookings can go; anything further along holds history.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()

	var bookingName string

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if booking.State != model.StateDraft && booking.State != model.StateCancelled {
			return failure.Conflict(fmt.Sprintf("booking %s in state %s cannot be deleted", booking.Name, booking.State)) // nolint:wrapcheck
		}

		bookingName = booking.Name

		codes, err := s.codesForBookingTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := s.lockCodes(ctx, tx, codes); err != nil {
			return err
		}

		if err := s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}

		return s.recomputeCodes(ctx, tx, codes, now)
	})
	if err != nil {
		return err
	}

	s.publishBookingEvent(ctx, eventBookingDeleted, id, bookingName, constant.Empty)
	s.invalidateBookingCaches(ctx, id)

	return nil
}

func (s *serviceImpl) AddLine(ctx context.Context, bookingID string, req dto.BookingLineRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddLine")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	checkin, checkout, err := req.ParseInterval()
	if err != nil {
		return failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	if !checkout.After(checkin) {
		return failure.BadRequestFromString("checkout must be after checkin") // nolint:wrapcheck
	}

	room, err := s.resolveRoom(ctx, req.RoomID)
	if err != nil {
		return err
	}

	priceUnit := room.ListPrice
	if req.PriceUnit != nil {
		priceUnit = *req.PriceUnit
	}

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.mutableBookingTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		codes, err := s.codesForBookingTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		codes[room.PhysicalRoomCode] = true

		if err := s.lockCodes(ctx, tx, codes); err != nil {
			return err
		}

		// The first read only seeds the lock set. A concurrent add may have
		// landed before the lock was taken, so the duplicate check re-reads
		// the lines under it.
		locked, err := s.codesForBookingTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if locked[room.PhysicalRoomCode] {
			return failure.Conflict(fmt.Sprintf("physical room %s appears more than once in the booking", room.PhysicalRoomCode)) // nolint:wrapcheck
		}

		if err := s.checkAvailabilityTx(ctx, tx, room.PhysicalRoomCode, checkin, checkout, booking.ID); err != nil {
			return err
		}

		line := s.buildLine(ctx, booking, preparedLine{
			roomID:           room.ID,
			physicalRoomCode: room.PhysicalRoomCode,
			checkin:          checkin,
			checkout:         checkout,
			priceUnit:        priceUnit,
		}, user, now)

		if err := s.lineRepo.InsertTx(ctx, tx, line); err != nil {
			return fmt.Errorf("failed to insert booking line: %w", err)
		}

		return s.roomSvc.RecomputeStatusTx(ctx, tx, room.PhysicalRoomCode, now)
	})
	if err != nil {
		return err
	}

	s.invalidateBookingCaches(ctx, bookingID)

	return nil
}

func (s *serviceImpl) UpdateLine(ctx context.Context, bookingID, lineID string, req dto.UpdateBookingLineRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateLine")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.mutableBookingTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		line, err := s.lineRepo.GetTx(ctx, tx, shared.FilterByID(lineID, model.FieldLineID, model.LineTableName))
		if err != nil {
			return fmt.Errorf("failed to get booking line: %w", err)
		}

		if line.ID == constant.Empty || line.BookingID != bookingID {
			return failure.NotFound("booking line not found") // nolint:wrapcheck
		}

		oldRoom, err := s.resolveRoomTx(ctx, tx, line.RoomID)
		if err != nil {
			return err
		}

		newRoom := oldRoom
		if req.RoomID != constant.Empty && req.RoomID != line.RoomID {
			newRoom, err = s.resolveRoomTx(ctx, tx, req.RoomID)
			if err != nil {
				return err
			}
		}

		checkin := line.CheckinDate
		checkout := line.CheckoutDate

		if req.CheckinDate != constant.Empty {
			checkin, err = timezone.Parse(constant.DateTimeFormat, req.CheckinDate)
			if err != nil {
				return failure.BadRequestFromString(fmt.Sprintf("invalid checkin date %q", req.CheckinDate)) // nolint:wrapcheck
			}
		}

		if req.CheckoutDate != constant.Empty {
			checkout, err = timezone.Parse(constant.DateTimeFormat, req.CheckoutDate)
			if err != nil {
				return failure.BadRequestFromString(fmt.Sprintf("invalid checkout date %q", req.CheckoutDate)) // nolint:wrapcheck
			}
		}

		if !checkout.After(checkin) {
			return failure.BadRequestFromString("checkout must be after checkin") // nolint:wrapcheck
		}

		codes := map[string]bool{oldRoom.PhysicalRoomCode: true, newRoom.PhysicalRoomCode: true}

		if err := s.lockCodes(ctx, tx, codes); err != nil {
			return err
		}

		// Read sibling lines only after the lock so a concurrent add to the
		// target physical room cannot slip past the duplicate check.
		otherLines, err := s.lineRepo.GetAllTx(ctx, tx, gDto.QueryParams{}, s.filterByBookingID(bookingID))
		if err != nil {
			return fmt.Errorf("failed to get booking lines: %w", err)
		}

		for _, other := range otherLines {
			if other.ID == line.ID {
				continue
			}

			otherRoom, err := s.resolveRoomTx(ctx, tx, other.RoomID)
			if err != nil {
				return err
			}

			if otherRoom.PhysicalRoomCode == newRoom.PhysicalRoomCode {
				return failure.Conflict(fmt.Sprintf("physical room %s appears more than once in the booking", newRoom.PhysicalRoomCode)) // nolint:wrapcheck
			}
		}

		if err := s.checkAvailabilityTx(ctx, tx, newRoom.PhysicalRoomCode, checkin, checkout, booking.ID); err != nil {
			return err
		}

		priceUnit := line.PriceUnit
		if newRoom.ID != oldRoom.ID {
			priceUnit = newRoom.ListPrice
		}
		if req.PriceUnit != nil {
			priceUnit = *req.PriceUnit
		}

		nights := model.Nights(checkin, checkout)
		subtotal, tax, total := s.priceLine(ctx, booking.GuestName, priceUnit, nights)

		fields := map[string]any{
			model.FieldLineRoomID:    newRoom.ID,
			model.FieldCheckinDate:   checkin,
			model.FieldCheckoutDate:  checkout,
			model.FieldNights:        nights,
			model.FieldPriceUnit:     priceUnit,
			model.FieldPriceSubtotal: subtotal,
			model.FieldPriceTax:      tax,
			model.FieldPriceTotal:    total,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if err := s.lineRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(lineID, model.FieldLineID, model.LineTableName)); err != nil {
			return fmt.Errorf("failed to update booking line: %w", err)
		}

		return s.recomputeCodes(ctx, tx, codes, now)
	})
	if err != nil {
		return err
	}

	s.invalidateBookingCaches(ctx, bookingID)

	return nil
}

func (s *serviceImpl) DeleteLine(ctx context.Context, bookingID, lineID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteLine")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.mutableBookingTx(ctx, tx, bookingID); err != nil {
			return err
		}

		line, err := s.lineRepo.GetTx(ctx, tx, shared.FilterByID(lineID, model.FieldLineID, model.LineTableName))
		if err != nil {
			return fmt.Errorf("failed to get booking line: %w", err)
		}

		if line.ID == constant.Empty || line.BookingID != bookingID {
			return failure.NotFound("booking line not found") // nolint:wrapcheck
		}

		room, err := s.resolveRoomTx(ctx, tx, line.RoomID)
		if err != nil {
			return err
		}

		codes := map[string]bool{room.PhysicalRoomCode: true}

		if err := s.lockCodes(ctx, tx, codes); err != nil {
			return err
		}

		if err := s.lineRepo.DeleteTx(ctx, tx, shared.FilterByID(lineID, model.FieldLineID, model.LineTableName)); err != nil {
			return fmt.Errorf("failed to delete booking line: %w", err)
		}

		return s.recomputeCodes(ctx, tx, codes, now)
	})
	if err != nil {
		return err
	}

	s.invalidateBookingCaches(ctx, bookingID)

	return nil
}

func (s *serviceImpl) Reserve(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StateReserved)
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StateCheckIn)
}

func (s *serviceImpl) CheckOut(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StateCheckOut)
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StateCancelled)
}

// transition moves a booking along its lifecycle and recomputes the status of
// every physical room it touches. Entering reserved re-validates each line:
// the booking only starts blocking siblings once active, so this is the moment
// conflicts must surface.
func (s *serviceImpl) transition(ctx context.Context, id, target string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	var bookingName string

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if !transitionAllowed(booking.State, target) {
			return failure.Conflict(fmt.Sprintf("booking %s cannot move from %s to %s", booking.Name, booking.State, target)) // nolint:wrapcheck
		}

		bookingName = booking.Name

		lines, err := s.lineRepo.GetAllTx(ctx, tx, gDto.QueryParams{}, s.filterByBookingID(id))
		if err != nil {
			return fmt.Errorf("failed to get booking lines: %w", err)
		}

		codes := make(map[string]bool)
		lineCodes := make(map[string]string)

		for _, line := range lines {
			room, err := s.resolveRoomTx(ctx, tx, line.RoomID)
			if err != nil {
				return err
			}

			codes[room.PhysicalRoomCode] = true
			lineCodes[line.ID] = room.PhysicalRoomCode
		}

		if err := s.lockCodes(ctx, tx, codes); err != nil {
			return err
		}

		if target == model.StateReserved {
			for _, line := range lines {
				if err := s.checkAvailabilityTx(ctx, tx, lineCodes[line.ID], line.CheckinDate, line.CheckoutDate, booking.ID); err != nil {
					return err
				}
			}
		}

		fields := map[string]any{
			model.FieldState:         target,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update booking state: %w", err)
		}

		return s.recomputeCodes(ctx, tx, codes, now)
	})
	if err != nil {
		return err
	}

	s.publishBookingEvent(ctx, eventBookingStateChanged, id, bookingName, target)
	s.invalidateBookingCaches(ctx, id)

	return nil
}

func (s *serviceImpl) buildLine(ctx context.Context, booking model.Booking, p preparedLine, user string, now time.Time) model.BookingLine {
	nights := model.Nights(p.checkin, p.checkout)
	subtotal, tax, total := s.priceLine(ctx, booking.GuestName, p.priceUnit, nights)

	return model.BookingLine{
		ID:            uuid.NewString(),
		BookingID:     booking.ID,
		RoomID:        p.roomID,
		CheckinDate:   p.checkin,
		CheckoutDate:  p.checkout,
		Nights:        nights,
		PriceUnit:     p.priceUnit,
		PriceSubtotal: subtotal,
		PriceTax:      tax,
		PriceTotal:    total,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// priceLine asks the tax engine for the line amounts. Engine failures never
// fail a booking: the untaxed fallback applies and the degradation is logged.
func (s *serviceImpl) priceLine(ctx context.Context, guest string, priceUnit float64, nights int) (subtotal, tax, total float64) {
	computeReq := taxengine.ComputeRequest{
		UnitPrice: priceUnit,
		Quantity:  float64(nights),
		Partner:   guest,
	}

	result, err := s.taxEngine.Compute(ctx, computeReq)
	if err != nil {
		log.Warn().Err(err).Msg("tax engine unavailable, falling back to untaxed amounts")

		result = taxengine.Fallback(computeReq)
	}

	return result.Subtotal, result.Tax, result.Total
}

func (s *serviceImpl) resolveRoom(ctx context.Context, roomID string) (roomModel.RoomConfiguration, error) {
	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return room, fmt.Errorf("failed to get room configuration: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.BadRequestFromString(fmt.Sprintf("room configuration %s does not exist", roomID)) // nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) resolveRoomTx(ctx context.Context, tx *sqlx.Tx, roomID string) (roomModel.RoomConfiguration, error) {
	room, err := s.roomRepo.GetTx(ctx, tx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return room, fmt.Errorf("failed to get room configuration: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.BadRequestFromString(fmt.Sprintf("room configuration %s does not exist", roomID)) // nolint:wrapcheck
	}

	return room, nil
}

// lockCodes takes the advisory lock for every physical room in sorted order,
// so two writers touching the same rooms cannot lock in opposite order.
func (s *serviceImpl) lockCodes(ctx context.Context, tx *sqlx.Tx, codes map[string]bool) error {
	sorted := make([]string, 0, len(codes))
	for code := range codes {
		sorted = append(sorted, code)
	}
	sort.Strings(sorted)

	for _, code := range sorted {
		if err := s.roomRepo.LockPhysicalRoomTx(ctx, tx, code); err != nil {
			return fmt.Errorf("failed to lock physical room %s: %w", code, err)
		}
	}

	return nil
}

func (s *serviceImpl) checkAvailabilityTx(ctx context.Context, tx *sqlx.Tx, code string, checkin, checkout time.Time, excludeBookingID string) error {
	available, conflicts, err := s.roomSvc.IsPhysicalRoomAvailableTx(ctx, tx, code, checkin, checkout, excludeBookingID)
	if err != nil {
		return fmt.Errorf("failed to check availability: %w", err)
	}

	if available {
		return nil
	}

	if len(conflicts) == 0 {
		return failure.Conflict(fmt.Sprintf("physical room %s is unavailable for maintenance", code)) // nolint:wrapcheck
	}

	descriptions := make([]string, len(conflicts))
	for i, conflict := range conflicts {
		descriptions[i] = conflict.String()
	}

	return failure.Conflict(fmt.Sprintf(
		"physical room %s is not available between %s and %s, conflicting bookings: %s",
		code,
		timezone.Format(checkin, constant.DateTimeFormat),
		timezone.Format(checkout, constant.DateTimeFormat),
		strings.Join(descriptions, "; "))) // nolint:wrapcheck
}

func (s *serviceImpl) codesForBookingTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (map[string]bool, error) {
	lines, err := s.lineRepo.GetAllTx(ctx, tx, gDto.QueryParams{}, s.filterByBookingID(bookingID))
	if err != nil {
		return nil, fmt.Errorf("failed to get booking lines: %w", err)
	}

	codes := make(map[string]bool)
	for _, line := range lines {
		room, err := s.resolveRoomTx(ctx, tx, line.RoomID)
		if err != nil {
			return nil, err
		}

		codes[room.PhysicalRoomCode] = true
	}

	return codes, nil
}

func (s *serviceImpl) recomputeCodes(ctx context.Context, tx *sqlx.Tx, codes map[string]bool, now time.Time) error {
	for code := range codes {
		if err := s.roomSvc.RecomputeStatusTx(ctx, tx, code, now); err != nil {
			return fmt.Errorf("failed to recompute status for %s: %w", code, err)
		}
	}

	return nil
}

// mutableBookingTx loads a booking whose lines may still change. Checked-out
// and cancelled bookings are frozen history.
func (s *serviceImpl) mutableBookingTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (model.Booking, error) {
	booking, err := s.repo.GetTx(ctx, tx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.State == model.StateCheckOut || booking.State == model.StateCancelled {
		return booking, failure.Conflict(fmt.Sprintf("booking %s in state %s cannot be modified", booking.Name, booking.State)) // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) filterByBookingID(bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldLineBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    model.LineTableName,
			},
		},
	}
}

func (s *serviceImpl) publishBookingEvent(ctx context.Context, event, id, name, state string) {
	go func() {
		c := context.WithoutCancel(ctx)

		message := kafka.Message{
			Key: id,
			Value: map[string]any{
				"event":       event,
				"booking_id":  id,
				"name":        name,
				"state":       state,
				"occurred_at": timezone.Now(),
			},
		}

		if err := s.producer.SendMessages(c, s.cfg.Kafka.Topics.Bookings, message); err != nil {
			log.Error().Err(err).Str("event", event).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
