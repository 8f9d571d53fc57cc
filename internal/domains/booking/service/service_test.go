package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hms/config"
	kafkaMocks "hms/infras/kafka/mocks"
	"hms/infras/otel/mocks"
	"hms/infras/taxengine"
	taxMocks "hms/infras/taxengine/mocks"
	bookingMocks "hms/internal/domains/booking/mocks"
	"hms/internal/domains/booking/model"
	"hms/internal/domains/booking/model/dto"
	"hms/internal/domains/booking/service"
	roomMocks "hms/internal/domains/room/mocks"
	roomModel "hms/internal/domains/room/model"
	roomDto "hms/internal/domains/room/model/dto"
	cacheMocks "hms/shared/cache/mocks"
	"hms/shared/constant"
	gDto "hms/shared/dto"
)

type bookingMockSet struct {
	repo     *bookingMocks.MockBooking
	lineRepo *bookingMocks.MockBookingLine
	roomRepo *roomMocks.MockRoom
	roomSvc  *roomMocks.MockRoomService
	tax      *taxMocks.MockTaxEngine
}

func newBookingService(t *testing.T) (service.Booking, bookingMockSet) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	set := bookingMockSet{
		repo:     bookingMocks.NewMockBooking(ctrl),
		lineRepo: bookingMocks.NewMockBookingLine(ctrl),
		roomRepo: roomMocks.NewMockRoom(ctrl),
		roomSvc:  roomMocks.NewMockRoomService(ctrl),
		tax:      taxMocks.NewMockTaxEngine(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockProducer := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(set.repo, set.lineRepo, set.roomRepo, set.roomSvc, set.tax, cfg, mockCache, mockOtel, mockProducer)

	// cache invalidation and event publishing run on goroutines
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockProducer.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return svc, set
}

func inTransaction(repo *bookingMocks.MockBooking) {
	repo.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		})
}

var (
	roomDouble = roomModel.RoomConfiguration{
		ID:               "cfg-double",
		Name:             "101",
		PhysicalRoomCode: "RM-101",
		ConfigCode:       "RM-101-DOUBLE",
		ListPrice:        120,
	}
	roomTwin = roomModel.RoomConfiguration{
		ID:               "cfg-twin",
		Name:             "101",
		PhysicalRoomCode: "RM-101",
		ConfigCode:       "RM-101-TWIN",
		ListPrice:        100,
	}
	roomSuite = roomModel.RoomConfiguration{
		ID:               "cfg-suite",
		Name:             "201",
		PhysicalRoomCode: "RM-201",
		ConfigCode:       "RM-201-SUITE",
		ListPrice:        250,
	}
)

func taxedResult(req taxengine.ComputeRequest) (taxengine.ComputeResult, error) {
	subtotal := req.UnitPrice * req.Quantity

	return taxengine.ComputeResult{
		Subtotal: subtotal,
		Tax:      subtotal * 0.1,
		Total:    subtotal * 1.1,
	}, nil
}

func TestBookingService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(set bookingMockSet)
		wantErr   bool
		errSubstr string
	}{
		{
			name: "successful creation",
			req: dto.CreateBookingRequest{
				GuestName: "Alice",
				Lines: []dto.BookingLineRequest{
					{RoomID: "cfg-double", CheckinDate: "2026-03-10 14:00", CheckoutDate: "2026-03-12 11:00"},
				},
			},
			setupMock: func(set bookingMockSet) {
				set.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomDouble, nil)

				set.tax.EXPECT().
					Compute(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req taxengine.ComputeRequest) (taxengine.ComputeResult, error) {
						return taxedResult(req)
					})

				inTransaction(set.repo)

				set.roomRepo.EXPECT().
					LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-101").
					Return(nil)

				set.roomSvc.EXPECT().
					IsPhysicalRoomAvailableTx(gomock.Any(), gomock.Any(), "RM-101", gomock.Any(), gomock.Any(), gomock.Any()).
					Return(true, nil, nil)

				set.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
						assert.Equal(t, model.StateDraft, booking.State)
						assert.Contains(t, booking.Name, "BK-")

						return nil
					})

				set.lineRepo.EXPECT().
					InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, lines []model.BookingLine) error {
						assert.Len(t, lines, 1)
						assert.Equal(t, 2, lines[0].Nights)
						assert.Equal(t, float64(120), lines[0].PriceUnit)
						assert.InDelta(t, 240, lines[0].PriceSubtotal, 0.001)
						assert.InDelta(t, 24, lines[0].PriceTax, 0.001)
						assert.InDelta(t, 264, lines[0].PriceTotal, 0.001)

						return nil
					})

				set.roomSvc.EXPECT().
					RecomputeStatusTx(gomock.Any(), gomock.Any(), "RM-101", gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "tax engine failure falls back to untaxed amounts",
			req: dto.CreateBookingRequest{
				GuestName: "Alice",
				Lines: []dto.BookingLineRequest{
					{RoomID: "cfg-double", CheckinDate: "2026-03-10 14:00", CheckoutDate: "2026-03-12 11:00"},
				},
			},
			setupMock: func(set bookingMockSet) {
				set.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomDouble, nil)

				set.tax.EXPECT().
					Compute(gomock.Any(), gomock.Any()).
					Return(taxengine.ComputeResult{}, errors.New("connection refused"))

				inTransaction(set.repo)

				set.roomRepo.EXPECT().
					LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-101").
					Return(nil)

				set.roomSvc.EXPECT().
					IsPhysicalRoomAvailableTx(gomock.Any(), gomock.Any(), "RM-101", gomock.Any(), gomock.Any(), gomock.Any()).
					Return(true, nil, nil)

				set.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				set.lineRepo.EXPECT().
					InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, lines []model.BookingLine) error {
						assert.InDelta(t, 240, lines[0].PriceSubtotal, 0.001)
						assert.Zero(t, lines[0].PriceTax)
						assert.InDelta(t, 240, lines[0].PriceTotal, 0.001)

						return nil
					})

				set.roomSvc.EXPECT().
					RecomputeStatusTx(gomock.Any(), gomock.Any(), "RM-101", gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "invalid checkin date",
			req: dto.CreateBookingRequest{
				GuestName: "Alice",
				Lines: []dto.BookingLineRequest{
					{RoomID: "cfg-double", CheckinDate: "not-a-date", CheckoutDate: "2026-03-12 11:00"},
				},
			},
			setupMock: func(_ bookingMockSet) {},
			wantErr:   true,
		},
		{
			name: "checkout equal to checkin",
			req: dto.CreateBookingRequest{
				GuestName: "Alice",
				Lines: []dto.BookingLineRequest{
					{RoomID: "cfg-double", CheckinDate: "2026-03-10 14:00", CheckoutDate: "2026-03-10 14:00"},
				},
			},
			setupMock: func(_ bookingMockSet) {},
			wantErr:   true,
			errSubstr: "checkout must be after checkin",
		},
		{
			name: "unknown room configuration",
			req: dto.CreateBookingRequest{
				GuestName: "Alice",
				Lines: []dto.BookingLineRequest{
					{RoomID: "nonexistent-id", CheckinDate: "2026-03-10 14:00", CheckoutDate: "2026-03-12 11:00"},
				},
			},
			setupMock: func(set bookingMockSet) {
				set.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomModel.RoomConfiguration{}, nil)
			},
			wantErr: true,
		},
		{
			name: "two configurations of the same physical room",
			req: dto.CreateBookingRequest{
				GuestName: "Alice",
				Lines: []dto.BookingLineRequest{
					{RoomID: "cfg-double", CheckinDate: "2026-03-10 14:00", CheckoutDate: "2026-03-12 11:00"},
					{RoomID: "cfg-twin", CheckinDate: "2026-03-15 14:00", CheckoutDate: "2026-03-17 11:00"},
				},
			},
			setupMock: func(set bookingMockSet) {
				set.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomDouble, nil)

				set.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomTwin, nil)

				set.tax.EXPECT().
					Compute(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req taxengine.ComputeRequest) (taxengine.ComputeResult, error) {
						return taxedResult(req)
					}).
					AnyTimes()
			},
			wantErr:   true,
			errSubstr: "appears more than once",
		},
		{
			name: "availability conflict",
			req: dto.CreateBookingRequest{
				GuestName: "Alice",
				Lines: []dto.BookingLineRequest{
					{RoomID: "cfg-double", CheckinDate: "2026-03-10 14:00", CheckoutDate: "2026-03-12 11:00"},
				},
			},
			setupMock: func(set bookingMockSet) {
				set.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomDouble, nil)

				set.tax.EXPECT().
					Compute(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req taxengine.ComputeRequest) (taxengine.ComputeResult, error) {
						return taxedResult(req)
					})

				inTransaction(set.repo)

				set.roomRepo.EXPECT().
					LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-101").
					Return(nil)

				set.roomSvc.EXPECT().
					IsPhysicalRoomAvailableTx(gomock.Any(), gomock.Any(), "RM-101", gomock.Any(), gomock.Any(), gomock.Any()).
					Return(false, []roomDto.BookingConflict{
						{
							BookingName: "BK-20260309-cafebabe",
							RoomName:    "101",
							Checkin:     time.Date(2026, time.March, 11, 14, 0, 0, 0, time.UTC),
							Checkout:    time.Date(2026, time.March, 13, 11, 0, 0, 0, time.UTC),
						},
					}, nil)
			},
			wantErr:   true,
			errSubstr: "BK-20260309-cafebabe",
		},
		{
			name: "maintenance conflict",
			req: dto.CreateBookingRequest{
				GuestName: "Alice",
				Lines: []dto.BookingLineRequest{
					{RoomID: "cfg-double", CheckinDate: "2026-03-10 14:00", CheckoutDate: "2026-03-12 11:00"},
				},
			},
			setupMock: func(set bookingMockSet) {
				set.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomDouble, nil)

				set.tax.EXPECT().
					Compute(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req taxengine.ComputeRequest) (taxengine.ComputeResult, error) {
						return taxedResult(req)
					})

				inTransaction(set.repo)

				set.roomRepo.EXPECT().
					LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-101").
					Return(nil)

				set.roomSvc.EXPECT().
					IsPhysicalRoomAvailableTx(gomock.Any(), gomock.Any(), "RM-101", gomock.Any(), gomock.Any(), gomock.Any()).
					Return(false, nil, nil)
			},
			wantErr:   true,
			errSubstr: "unavailable for maintenance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set := newBookingService(t)
			tt.setupMock(set)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.errSubstr != "" {
					assert.Contains(t, err.Error(), tt.errSubstr)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Create_MultiRoom(t *testing.T) {
	svc, set := newBookingService(t)

	req := dto.CreateBookingRequest{
		GuestName: "Alice",
		Lines: []dto.BookingLineRequest{
			{RoomID: "cfg-suite", CheckinDate: "2026-03-10 14:00", CheckoutDate: "2026-03-12 11:00"},
			{RoomID: "cfg-double", CheckinDate: "2026-03-10 14:00", CheckoutDate: "2026-03-12 11:00"},
		},
	}

	set.roomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(roomSuite, nil)

	set.roomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(roomDouble, nil)

	set.tax.EXPECT().
		Compute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req taxengine.ComputeRequest) (taxengine.ComputeResult, error) {
			return taxedResult(req)
		}).
		Times(2)

	inTransaction(set.repo)

	// advisory locks taken in sorted code order
	gomock.InOrder(
		set.roomRepo.EXPECT().
			LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-101").
			Return(nil),
		set.roomRepo.EXPECT().
			LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-201").
			Return(nil),
	)

	set.roomSvc.EXPECT().
		IsPhysicalRoomAvailableTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil, nil).
		Times(2)

	set.repo.EXPECT().
		InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	set.lineRepo.EXPECT().
		InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, lines []model.BookingLine) error {
			assert.Len(t, lines, 2)

			return nil
		})

	set.roomSvc.EXPECT().
		RecomputeStatusTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)

	err := svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestBookingService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(set bookingMockSet)
		wantErr   bool
	}{
		{
			name: "draft booking deleted",
			setupMock: func(set bookingMockSet) {
				inTransaction(set.repo)

				set.repo.EXPECT().
					GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-id", Name: "BK-20260310-deadbeef", State: model.StateDraft}, nil)

				set.lineRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.BookingLine{{ID: "line-id", BookingID: "booking-id", RoomID: "cfg-double"}}, nil)

				set.roomRepo.EXPECT().
					GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(roomDouble, nil)

				set.roomRepo.EXPECT().
					LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-101").
					Return(nil)

				set.repo.EXPECT().
					DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				set.roomSvc.EXPECT().
					RecomputeStatusTx(gomock.Any(), gomock.Any(), "RM-101", gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "reserved booking cannot be deleted",
			setupMock: func(set bookingMockSet) {
				inTransaction(set.repo)

				set.repo.EXPECT().
					GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-id", Name: "BK-20260310-deadbeef", State: model.StateReserved}, nil)
			},
			wantErr: true,
		},
		{
			name: "booking not found",
			setupMock: func(set bookingMockSet) {
				inTransaction(set.repo)

				set.repo.EXPECT().
					GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set := newBookingService(t)
			tt.setupMock(set)

			err := svc.Delete(context.Background(), "booking-id")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Transitions(t *testing.T) {
	line := model.BookingLine{
		ID:           "line-id",
		BookingID:    "booking-id",
		RoomID:       "cfg-double",
		CheckinDate:  time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC),
		CheckoutDate: time.Date(2026, time.March, 12, 11, 0, 0, 0, time.UTC),
	}

	expectTransitionReads := func(set bookingMockSet, state string) {
		inTransaction(set.repo)

		set.repo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-id", Name: "BK-20260310-deadbeef", State: state}, nil)
	}

	expectLinesAndLock := func(set bookingMockSet) {
		set.lineRepo.EXPECT().
			GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.BookingLine{line}, nil)

		set.roomRepo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(roomDouble, nil)

		set.roomRepo.EXPECT().
			LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-101").
			Return(nil)
	}

	expectStateWrite := func(set bookingMockSet, target string) {
		set.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ interface{}) error {
				assert.Equal(t, target, fields[model.FieldState])

				return nil
			})

		set.roomSvc.EXPECT().
			RecomputeStatusTx(gomock.Any(), gomock.Any(), "RM-101", gomock.Any()).
			Return(nil)
	}

	t.Run("reserve re-validates every line", func(t *testing.T) {
		svc, set := newBookingService(t)

		expectTransitionReads(set, model.StateDraft)
		expectLinesAndLock(set)

		set.roomSvc.EXPECT().
			IsPhysicalRoomAvailableTx(gomock.Any(), gomock.Any(), "RM-101", line.CheckinDate, line.CheckoutDate, "booking-id").
			Return(true, nil, nil)

		expectStateWrite(set, model.StateReserved)

		assert.NoError(t, svc.Reserve(context.Background(), "booking-id"))
	})

	t.Run("reserve fails when a line lost its slot", func(t *testing.T) {
		svc, set := newBookingService(t)

		expectTransitionReads(set, model.StateDraft)
		expectLinesAndLock(set)

		set.roomSvc.EXPECT().
			IsPhysicalRoomAvailableTx(gomock.Any(), gomock.Any(), "RM-101", line.CheckinDate, line.CheckoutDate, "booking-id").
			Return(false, []roomDto.BookingConflict{{BookingName: "BK-20260309-cafebabe"}}, nil)

		err := svc.Reserve(context.Background(), "booking-id")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "BK-20260309-cafebabe")
	})

	t.Run("check in from reserved", func(t *testing.T) {
		svc, set := newBookingService(t)

		expectTransitionReads(set, model.StateReserved)
		expectLinesAndLock(set)
		expectStateWrite(set, model.StateCheckIn)

		assert.NoError(t, svc.CheckIn(context.Background(), "booking-id"))
	})

	t.Run("check out from checked in", func(t *testing.T) {
		svc, set := newBookingService(t)

		expectTransitionReads(set, model.StateCheckIn)
		expectLinesAndLock(set)
		expectStateWrite(set, model.StateCheckOut)

		assert.NoError(t, svc.CheckOut(context.Background(), "booking-id"))
	})

	t.Run("cancel from reserved", func(t *testing.T) {
		svc, set := newBookingService(t)

		expectTransitionReads(set, model.StateReserved)
		expectLinesAndLock(set)
		expectStateWrite(set, model.StateCancelled)

		assert.NoError(t, svc.Cancel(context.Background(), "booking-id"))
	})

	t.Run("check in from draft is rejected", func(t *testing.T) {
		svc, set := newBookingService(t)

		expectTransitionReads(set, model.StateDraft)

		err := svc.CheckIn(context.Background(), "booking-id")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot move from draft to check_in")
	})

	t.Run("checked out booking is final", func(t *testing.T) {
		svc, set := newBookingService(t)

		expectTransitionReads(set, model.StateCheckOut)

		assert.Error(t, svc.Cancel(context.Background(), "booking-id"))
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, set := newBookingService(t)

		inTransaction(set.repo)

		set.repo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		assert.Error(t, svc.Reserve(context.Background(), "nonexistent-id"))
	})
}

func TestBookingService_AddLine(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.BookingLineRequest
		setupMock func(set bookingMockSet)
		wantErr   bool
		errSubstr string
	}{
		{
			name: "line added to draft booking",
			req:  dto.BookingLineRequest{RoomID: "cfg-suite", CheckinDate: "2026-03-10 14:00", CheckoutDate: "2026-03-12 11:00"},
			setupMock: func(set bookingMockSet) {
				set.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomSuite, nil)

				inTransaction(set.repo)

				set.repo.EXPECT().
					GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-id", Name: "BK-20260310-deadbeef", State: model.StateDraft}, nil)

				set.lineRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil).
					Times(2)

				set.roomRepo.EXPECT().
					LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-201").
					Return(nil)

				set.roomSvc.EXPECT().
					IsPhysicalRoomAvailableTx(gomock.Any(), gomock.Any(), "RM-201", gomock.Any(), gomock.Any(), "booking-id").
					Return(true, nil, nil)

				set.tax.EXPECT().
					Compute(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req taxengine.ComputeRequest) (taxengine.ComputeResult, error) {
						return taxedResult(req)
					})

				set.lineRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, line model.BookingLine) error {
						assert.Equal(t, "booking-id", line.BookingID)
						assert.Equal(t, float64(250), line.PriceUnit)

						return nil
					})

				set.roomSvc.EXPECT().
					RecomputeStatusTx(gomock.Any(), gomock.Any(), "RM-201", gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "duplicate physical room in booking",
			req:  dto.BookingLineRequest{RoomID: "cfg-twin", CheckinDate: "2026-03-15 14:00", CheckoutDate: "2026-03-17 11:00"},
			setupMock: func(set bookingMockSet) {
				set.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomTwin, nil)

				inTransaction(set.repo)

				set.repo.EXPECT().
					GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-id", Name: "BK-20260310-deadbeef", State: model.StateDraft}, nil)

				set.lineRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.BookingLine{{ID: "line-id", BookingID: "booking-id", RoomID: "cfg-double"}}, nil).
					Times(2)

				set.roomRepo.EXPECT().
					GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(roomDouble, nil).
					Times(2)

				set.roomRepo.EXPECT().
					LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-101").
					Return(nil)
			},
			wantErr:   true,
			errSubstr: "appears more than once",
		},
		{
			name: "duplicate landing before the lock is caught",
			req:  dto.BookingLineRequest{RoomID: "cfg-suite", CheckinDate: "2026-03-10 14:00", CheckoutDate: "2026-03-12 11:00"},
			setupMock: func(set bookingMockSet) {
				set.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomSuite, nil)

				inTransaction(set.repo)

				set.repo.EXPECT().
					GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-id", Name: "BK-20260310-deadbeef", State: model.StateDraft}, nil)

				// Empty before the lock, the conflicting line appears in the
				// re-read after it.
				first := set.lineRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)

				lock := set.roomRepo.EXPECT().
					LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-201").
					Return(nil)

				second := set.lineRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.BookingLine{{ID: "line-id", BookingID: "booking-id", RoomID: "cfg-suite"}}, nil)

				set.roomRepo.EXPECT().
					GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(roomSuite, nil)

				gomock.InOrder(first, lock, second)
			},
			wantErr:   true,
			errSubstr: "appears more than once",
		},
		{
			name: "checked out booking is frozen",
			req:  dto.BookingLineRequest{RoomID: "cfg-suite", CheckinDate: "2026-03-10 14:00", CheckoutDate: "2026-03-12 11:00"},
			setupMock: func(set bookingMockSet) {
				set.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomSuite, nil)

				inTransaction(set.repo)

				set.repo.EXPECT().
					GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-id", Name: "BK-20260310-deadbeef", State: model.StateCheckOut}, nil)
			},
			wantErr:   true,
			errSubstr: "cannot be modified",
		},
		{
			name:      "invalid dates",
			req:       dto.BookingLineRequest{RoomID: "cfg-suite", CheckinDate: "2026-03-12 11:00", CheckoutDate: "2026-03-10 14:00"},
			setupMock: func(_ bookingMockSet) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set := newBookingService(t)
			tt.setupMock(set)

			err := svc.AddLine(context.Background(), "booking-id", tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.errSubstr != "" {
					assert.Contains(t, err.Error(), tt.errSubstr)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_UpdateLine(t *testing.T) {
	existingLine := model.BookingLine{
		ID:           "line-id",
		BookingID:    "booking-id",
		RoomID:       "cfg-twin",
		CheckinDate:  time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC),
		CheckoutDate: time.Date(2026, time.March, 12, 11, 0, 0, 0, time.UTC),
		PriceUnit:    100,
	}

	t.Run("line moved to another room", func(t *testing.T) {
		svc, set := newBookingService(t)

		inTransaction(set.repo)

		set.repo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-id", Name: "BK-20260310-deadbeef", State: model.StateDraft}, nil)

		set.lineRepo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(existingLine, nil)

		set.roomRepo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(roomTwin, nil)

		set.roomRepo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(roomSuite, nil)

		// Both physical rooms are locked, in code order, before the sibling
		// lines are read for the duplicate check.
		lockOld := set.roomRepo.EXPECT().
			LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-101").
			Return(nil)

		lockNew := set.roomRepo.EXPECT().
			LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-201").
			Return(nil)

		linesRead := set.lineRepo.EXPECT().
			GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.BookingLine{existingLine}, nil)

		gomock.InOrder(lockOld, lockNew, linesRead)

		set.roomSvc.EXPECT().
			IsPhysicalRoomAvailableTx(gomock.Any(), gomock.Any(), "RM-201", gomock.Any(), gomock.Any(), "booking-id").
			Return(true, nil, nil)

		set.tax.EXPECT().
			Compute(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req taxengine.ComputeRequest) (taxengine.ComputeResult, error) {
				return taxedResult(req)
			})

		set.lineRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "cfg-suite", fields[model.FieldLineRoomID])
				assert.Equal(t, float64(250), fields[model.FieldPriceUnit])

				return nil
			})

		set.roomSvc.EXPECT().
			RecomputeStatusTx(gomock.Any(), gomock.Any(), "RM-101", gomock.Any()).
			Return(nil)

		set.roomSvc.EXPECT().
			RecomputeStatusTx(gomock.Any(), gomock.Any(), "RM-201", gomock.Any()).
			Return(nil)

		err := svc.UpdateLine(context.Background(), "booking-id", "line-id", dto.UpdateBookingLineRequest{RoomID: "cfg-suite"})
		assert.NoError(t, err)
	})

	t.Run("target room already taken by a sibling line", func(t *testing.T) {
		svc, set := newBookingService(t)

		inTransaction(set.repo)

		set.repo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-id", Name: "BK-20260310-deadbeef", State: model.StateDraft}, nil)

		set.lineRepo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(existingLine, nil)

		set.roomRepo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(roomTwin, nil)

		set.roomRepo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(roomSuite, nil)

		set.roomRepo.EXPECT().
			LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-101").
			Return(nil)

		set.roomRepo.EXPECT().
			LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-201").
			Return(nil)

		set.lineRepo.EXPECT().
			GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.BookingLine{
				existingLine,
				{ID: "line-2", BookingID: "booking-id", RoomID: "cfg-suite"},
			}, nil)

		set.roomRepo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(roomSuite, nil)

		err := svc.UpdateLine(context.Background(), "booking-id", "line-id", dto.UpdateBookingLineRequest{RoomID: "cfg-suite"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "appears more than once")
	})

	t.Run("invalid dates", func(t *testing.T) {
		svc, set := newBookingService(t)

		inTransaction(set.repo)

		set.repo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-id", Name: "BK-20260310-deadbeef", State: model.StateDraft}, nil)

		set.lineRepo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(existingLine, nil)

		set.roomRepo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(roomTwin, nil)

		err := svc.UpdateLine(context.Background(), "booking-id", "line-id", dto.UpdateBookingLineRequest{CheckoutDate: "2026-03-09 11:00"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "checkout must be after checkin")
	})
}

func TestBookingService_DeleteLine(t *testing.T) {
	svc, set := newBookingService(t)

	inTransaction(set.repo)

	set.repo.EXPECT().
		GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(model.Booking{ID: "booking-id", Name: "BK-20260310-deadbeef", State: model.StateDraft}, nil)

	set.lineRepo.EXPECT().
		GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(model.BookingLine{ID: "line-id", BookingID: "booking-id", RoomID: "cfg-double"}, nil)

	set.roomRepo.EXPECT().
		GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(roomDouble, nil)

	set.roomRepo.EXPECT().
		LockPhysicalRoomTx(gomock.Any(), gomock.Any(), "RM-101").
		Return(nil)

	set.lineRepo.EXPECT().
		DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	set.roomSvc.EXPECT().
		RecomputeStatusTx(gomock.Any(), gomock.Any(), "RM-101", gomock.Any()).
		Return(nil)

	assert.NoError(t, svc.DeleteLine(context.Background(), "booking-id", "line-id"))
}

func TestBookingService_DeleteLine_WrongBooking(t *testing.T) {
	svc, set := newBookingService(t)

	inTransaction(set.repo)

	set.repo.EXPECT().
		GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(model.Booking{ID: "booking-id", Name: "BK-20260310-deadbeef", State: model.StateDraft}, nil)

	set.lineRepo.EXPECT().
		GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(model.BookingLine{ID: "line-id", BookingID: "other-booking-id", RoomID: "cfg-double"}, nil)

	assert.Error(t, svc.DeleteLine(context.Background(), "booking-id", "line-id"))
}

func TestBookingService_Update(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UpdateBookingRequest
		setupMock func(set bookingMockSet)
		wantErr   bool
	}{
		{
			name: "guest details updated",
			req:  dto.UpdateBookingRequest{GuestName: "Bob"},
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				set.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "empty request",
			req:       dto.UpdateBookingRequest{},
			setupMock: func(_ bookingMockSet) {},
			wantErr:   true,
		},
		{
			name: "booking not found",
			req:  dto.UpdateBookingRequest{GuestName: "Bob"},
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set := newBookingService(t)
			tt.setupMock(set)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Update(ctx, tt.req, "booking-id")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
