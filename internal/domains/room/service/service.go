package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names Room=MockRoomService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hms/config"
	"hms/infras/kafka"
	"hms/infras/otel"
	"hms/infras/s3"
	bookingModel "hms/internal/domains/booking/model"
	bookingRepo "hms/internal/domains/booking/repository"
	"hms/internal/domains/room/model"
	"hms/internal/domains/room/model/dto"
	"hms/internal/domains/room/repository"
	"hms/shared"
	"hms/shared/cache"
	"hms/shared/constant"
	gDto "hms/shared/dto"
	"hms/shared/failure"
	"hms/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"

	eventRoomStatusChanged      = "status_changed"
	eventRoomMaintenanceSet     = "maintenance_set"
	eventRoomMaintenanceCleared = "maintenance_cleared"

	pqForeignKeyViolation = pq.ErrorCode("23503")
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	Delete(ctx context.Context, id string) error
	SetMaintenance(ctx context.Context, physicalRoomCode string) error
	ClearMaintenance(ctx context.Context, physicalRoomCode string) error
	RecomputeStatus(ctx context.Context, physicalRoomCode string) error
	RecomputeStatusTx(ctx context.Context, tx *sqlx.Tx, physicalRoomCode string, now time.Time) error
	IsPhysicalRoomAvailableTx(ctx context.Context, tx *sqlx.Tx, physicalRoomCode string, checkin, checkout time.Time, excludeBookingID string) (bool, []dto.BookingConflict, error)
	CheckAvailability(ctx context.Context, req dto.CheckAvailabilityRequest) (dto.AvailabilityResponse, error)
}

type serviceImpl struct {
	repo     repository.Room
	lineRepo bookingRepo.BookingLine
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	s3       s3.S3
	producer kafka.Client
}

func New(repo repository.Room, lineRepo bookingRepo.BookingLine, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3, producer kafka.Client) Room {
	return &serviceImpl{
		repo:     repo,
		lineRepo: lineRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		s3:       s3,
		producer: producer,
	}
}

// ComputeStatus derives a configuration's status from the maintenance flag
// and the active booking lines of its physical room at the given instant.
// Maintenance wins over everything; a line on the configuration itself beats
// a line on a sibling.
func ComputeStatus(cfg model.RoomConfiguration, activeLines []bookingModel.ActiveLine, now time.Time) string {
	if cfg.Maintenance {
		return model.StatusMaintenance
	}

	siblingActive := false

	for _, line := range activeLines {
		if !bookingModel.IsActiveState(line.BookingState) || !line.ContainsTime(now) {
			continue
		}

		if line.RoomID == cfg.ID {
			if line.BookingState == bookingModel.StateCheckIn {
				return model.StatusOccupied
			}

			return model.StatusReserved
		}

		siblingActive = true
	}

	if siblingActive {
		return model.StatusUnavailable
	}

	return model.StatusAvailable
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	imageURL := constant.Empty
	var uploadedObjectName string
	if req.Image != nil {
		bucketName := s.cfg.External.S3.BucketName
		filename := uuid.NewString()

		parts := strings.Split(req.Image.Filename, ".")
		if len(parts) > 1 {
			filename = fmt.Sprintf("%s.%s", filename, parts[len(parts)-1])
		}

		url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.ImageFile, req.Image, filename)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload image to S3")

			return fmt.Errorf("failed to upload image: %w", err)
		}
		imageURL = url
		uploadedObjectName = filename
	}

	room := req.ToModel(user, imageURL)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(room.ConfigCode, model.FieldConfigCode, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check config code uniqueness")

		return fmt.Errorf("failed to check config code uniqueness: %w", err)
	}

	if exist {
		return failure.Conflict(fmt.Sprintf("room configuration with code %s already exists", room.ConfigCode)) // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, room); err != nil {
		if uploadedObjectName != constant.Empty {
			bucketName := s.cfg.External.S3.BucketName
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, uploadedObjectName)
		}

		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room configuration not found") // nolint:wrapcheck
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	currentRoom, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return err
	}

	if currentRoom.ID == constant.Empty {
		log.Error().Msg("room configuration not found")

		return failure.NotFound("room configuration not found")
	}

	return s.updateInternal(ctx, req, currentRoom, user, filter)
}

func (s *serviceImpl) updateInternal(ctx context.Context, req dto.UpdateRoomRequest, currentRoom model.RoomConfiguration, user string, filter gDto.FilterGroup) error {
	imageURL := constant.Empty
	var uploadedObjectName string
	bucketName := s.cfg.External.S3.BucketName

	if req.Image != nil {
		filename := uuid.NewString()

		parts := strings.Split(req.Image.Filename, ".")
		if len(parts) > 1 {
			filename = fmt.Sprintf("%s.%s", filename, parts[len(parts)-1])
		}

		url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.ImageFile, req.Image, filename)
		if err != nil {
			return fmt.Errorf("failed to upload image: %w", err)
		}
		imageURL = url
		uploadedObjectName = filename
	}

	updatedFields := shared.TransformFields(req, user)
	if imageURL != constant.Empty {
		updatedFields[model.FieldImage] = imageURL
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update room")

		if uploadedObjectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, uploadedObjectName)
		}

		return fmt.Errorf("failed to update room: %w", err)
	}

	if imageURL != constant.Empty && currentRoom.Image != constant.Empty {
		oldObjectName := s.s3.GetObjectNameFromURL(bucketName, currentRoom.Image)
		if oldObjectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, oldObjectName)
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, currentRoom.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete room cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(nil)

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if room.ID == constant.Empty {
		log.Error().Msg("room configuration not found")

		return failure.NotFound("room configuration not found") // nolint:wrapcheck
	}

	activeLines, err := s.lineRepo.GetActiveLines(ctx, room.PhysicalRoomCode)
	if err != nil {
		log.Error().Err(err).Msg("failed to check active bookings")

		return fmt.Errorf("failed to check active bookings: %w", err)
	}

	for _, line := range activeLines {
		if line.RoomID == room.ID {
			return failure.Conflict(fmt.Sprintf("room configuration %s has an active booking %s", room.ConfigCode, line.BookingName)) // nolint:wrapcheck
		}
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		// Historical lines pass the active-lines guard but still reference
		// the configuration.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return failure.Conflict(fmt.Sprintf("room configuration %s is still referenced by booking lines", room.ConfigCode)) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()

	return nil
}

// SetMaintenance flags every configuration of a physical room as down for
// maintenance. Rejected while any active booking of the room still has a
// checkout in the future; the conflict message lists the blocking bookings.
func (s *serviceImpl) SetMaintenance(ctx context.Context, physicalRoomCode string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetMaintenance")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.LockPhysicalRoomTx(ctx, tx, physicalRoomCode); err != nil {
			return err
		}

		siblings, err := s.siblingsTx(ctx, tx, physicalRoomCode)
		if err != nil {
			return err
		}

		if len(siblings) == 0 {
			return failure.NotFound("physical room not found") // nolint:wrapcheck
		}

		blocking, err := s.lineRepo.FindActiveWithFutureCheckoutTx(ctx, tx, physicalRoomCode, now)
		if err != nil {
			return fmt.Errorf("failed to check active bookings: %w", err)
		}

		if len(blocking) > 0 {
			descriptions := make([]string, len(blocking))
			for i, line := range blocking {
				descriptions[i] = fmt.Sprintf("%s (room %s, checkout %s)",
					line.BookingName, line.RoomName, timezone.Format(line.CheckoutDate, constant.DateTimeFormat))
			}

			return failure.Conflict(fmt.Sprintf(
				"physical room %s cannot be set to maintenance, active bookings: %s",
				physicalRoomCode, strings.Join(descriptions, "; "))) // nolint:wrapcheck
		}

		fields := map[string]any{
			model.FieldMaintenance:   true,
			model.FieldStatus:        model.StatusMaintenance,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		return s.repo.UpdateTx(ctx, tx, fields, s.filterByPhysicalRoom(physicalRoomCode))
	})
	if err != nil {
		return err
	}

	s.publishRoomEvent(ctx, eventRoomMaintenanceSet, physicalRoomCode)
	s.invalidateRoomCaches(ctx)

	return nil
}

// ClearMaintenance has no precondition: the flag comes off and statuses are
// recomputed from whatever bookings exist.
func (s *serviceImpl) ClearMaintenance(ctx context.Context, physicalRoomCode string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ClearMaintenance")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.LockPhysicalRoomTx(ctx, tx, physicalRoomCode); err != nil {
			return err
		}

		siblings, err := s.siblingsTx(ctx, tx, physicalRoomCode)
		if err != nil {
			return err
		}

		if len(siblings) == 0 {
			return failure.NotFound("physical room not found") // nolint:wrapcheck
		}

		fields := map[string]any{
			model.FieldMaintenance:   false,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, s.filterByPhysicalRoom(physicalRoomCode)); err != nil {
			return err
		}

		return s.RecomputeStatusTx(ctx, tx, physicalRoomCode, now)
	})
	if err != nil {
		return err
	}

	s.publishRoomEvent(ctx, eventRoomMaintenanceCleared, physicalRoomCode)
	s.invalidateRoomCaches(ctx)

	return nil
}

func (s *serviceImpl) RecomputeStatus(ctx context.Context, physicalRoomCode string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecomputeStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.LockPhysicalRoomTx(ctx, tx, physicalRoomCode); err != nil {
			return err
		}

		return s.RecomputeStatusTx(ctx, tx, physicalRoomCode, timezone.Now())
	})
	if err != nil {
		return err
	}

	s.invalidateRoomCaches(ctx)

	return nil
}

// RecomputeStatusTx recomputes and persists the status of every sibling
// configuration inside the caller's transaction. Rows whose status did not
// change are left untouched, so recomputing twice is a no-op.
func (s *serviceImpl) RecomputeStatusTx(ctx context.Context, tx *sqlx.Tx, physicalRoomCode string, now time.Time) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecomputeStatusTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	siblings, err := s.siblingsTx(ctx, tx, physicalRoomCode)
	if err != nil {
		return err
	}

	activeLines, err := s.lineRepo.GetActiveLinesTx(ctx, tx, physicalRoomCode)
	if err != nil {
		return fmt.Errorf("failed to get active booking lines: %w", err)
	}

	changed := false

	for _, sibling := range siblings {
		newStatus := ComputeStatus(sibling, activeLines, now)
		if newStatus == sibling.Status {
			continue
		}

		fields := map[string]any{
			model.FieldStatus:        newStatus,
			constant.FieldModifiedAt: now,
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(sibling.ID, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update room status: %w", err)
		}

		changed = true
	}

	if changed {
		s.publishRoomEvent(ctx, eventRoomStatusChanged, physicalRoomCode)
	}

	return nil
}

// IsPhysicalRoomAvailableTx checks whether a physical room can host a stay on
// [checkin, checkout). The room is unavailable when flagged for maintenance or
// when any active booking line of the group strictly overlaps the interval;
// lines of excludeBookingID are ignored so a booking never conflicts with
// itself.
func (s *serviceImpl) IsPhysicalRoomAvailableTx(ctx context.Context, tx *sqlx.Tx, physicalRoomCode string, checkin, checkout time.Time, excludeBookingID string) (available bool, conflicts []dto.BookingConflict, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsPhysicalRoomAvailableTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	siblings, err := s.siblingsTx(ctx, tx, physicalRoomCode)
	if err != nil {
		return false, nil, err
	}

	if len(siblings) == 0 {
		return false, nil, failure.NotFound("physical room not found") // nolint:wrapcheck
	}

	for _, sibling := range siblings {
		if sibling.Maintenance {
			return false, nil, nil
		}
	}

	overlapping, err := s.lineRepo.FindOverlappingTx(ctx, tx, physicalRoomCode, checkin, checkout, excludeBookingID)
	if err != nil {
		return false, nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	conflicts = overlapConflicts(overlapping, checkin, checkout)
	if len(conflicts) == 0 {
		return true, nil, nil
	}

	return false, conflicts, nil
}

// overlapConflicts shapes the lines blocking [checkin, checkout) for the
// response, keeping only lines in an active state that strictly overlap the
// interval.
func overlapConflicts(lines []bookingModel.ActiveLine, checkin, checkout time.Time) []dto.BookingConflict {
	conflicts := make([]dto.BookingConflict, 0, len(lines))

	for _, line := range lines {
		if !bookingModel.IsActiveState(line.BookingState) || !line.Overlaps(checkin, checkout) {
			continue
		}

		conflicts = append(conflicts, dto.BookingConflict{
			BookingName: line.BookingName,
			RoomName:    line.RoomName,
			Checkin:     line.CheckinDate,
			Checkout:    line.CheckoutDate,
		})
	}

	return conflicts
}

// CheckAvailability is the read-only form of the booking validation: same
// verdict, no locks taken, conflicts enumerated for the caller.
func (s *serviceImpl) CheckAvailability(ctx context.Context, req dto.CheckAvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !req.Checkout.After(req.Checkin) {
		return res, failure.BadRequestFromString("checkout must be after checkin") // nolint:wrapcheck
	}

	res = dto.AvailabilityResponse{
		PhysicalRoomCode: req.PhysicalRoomCode,
		Checkin:          req.Checkin,
		Checkout:         req.Checkout,
	}

	siblings, err := s.repo.GetAll(ctx, gDto.QueryParams{}, s.filterByPhysicalRoom(req.PhysicalRoomCode))
	if err != nil {
		return res, fmt.Errorf("failed to get room configurations: %w", err)
	}

	if len(siblings) == 0 {
		return res, failure.NotFound("physical room not found") // nolint:wrapcheck
	}

	for _, sibling := range siblings {
		if sibling.Maintenance {
			res.Available = false

			return res, nil
		}
	}

	overlapping, err := s.lineRepo.FindOverlapping(ctx, req.PhysicalRoomCode, req.Checkin, req.Checkout, constant.Empty)
	if err != nil {
		return res, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	res.Conflicts = overlapConflicts(overlapping, req.Checkin, req.Checkout)
	res.Available = len(res.Conflicts) == 0

	return res, nil
}

func (s *serviceImpl) siblingsTx(ctx context.Context, tx *sqlx.Tx, physicalRoomCode string) ([]model.RoomConfiguration, error) {
	siblings, err := s.repo.GetAllTx(ctx, tx, gDto.QueryParams{}, s.filterByPhysicalRoom(physicalRoomCode))
	if err != nil {
		return nil, fmt.Errorf("failed to get sibling configurations: %w", err)
	}

	return siblings, nil
}

func (s *serviceImpl) filterByPhysicalRoom(physicalRoomCode string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldPhysicalRoomCode,
				Operator: gDto.FilterOperatorEq,
				Value:    physicalRoomCode,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) publishRoomEvent(ctx context.Context, event, physicalRoomCode string) {
	go func() {
		c := context.WithoutCancel(ctx)

		message := kafka.Message{
			Key: physicalRoomCode,
			Value: map[string]any{
				"event":              event,
				"physical_room_code": physicalRoomCode,
				"occurred_at":        timezone.Now(),
			},
		}

		if err := s.producer.SendMessages(c, s.cfg.Kafka.Topics.Rooms, message); err != nil {
			log.Error().Err(err).Str("event", event).Msg("failed to publish room event")
		}
	}()
}

func (s *serviceImpl) invalidateRoomCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetRoom)
		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()
}
