package dto

import (
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"hms/internal/domains/room/model"
	"hms/shared"
	"hms/shared/constant"
	gDto "hms/shared/dto"
	gModel "hms/shared/model"
	"hms/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Name             string                `json:"name"               validate:"required,max=100"`
	PhysicalRoomCode string                `json:"physical_room_code" validate:"omitempty,max=100"`
	ConfigCode       string                `json:"config_code"        validate:"omitempty,max=100"`
	RoomType         string                `json:"room_type"          validate:"required,max=50"`
	Capacity         int                   `json:"capacity"           validate:"required,gt=0"`
	ListPrice        float64               `json:"list_price"         validate:"omitempty,min=0"`
	Image            *multipart.FileHeader `json:"image"              validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile        multipart.File        `json:"-"`
}

// ToModel applies the code defaults: RM-<name> for the physical room code and
// <physical>-<TYPE> for the configuration code when the request leaves them
// blank.
func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.RoomConfiguration {
	physicalCode := c.PhysicalRoomCode
	if physicalCode == constant.Empty {
		physicalCode = fmt.Sprintf("RM-%s", c.Name)
	}

	configCode := c.ConfigCode
	if configCode == constant.Empty {
		configCode = fmt.Sprintf("%s-%s", physicalCode, strings.ToUpper(c.RoomType))
	}

	return model.RoomConfiguration{
		ID:               uuid.NewString(),
		Name:             c.Name,
		PhysicalRoomCode: physicalCode,
		ConfigCode:       configCode,
		RoomType:         c.RoomType,
		Capacity:         c.Capacity,
		ListPrice:        c.ListPrice,
		Image:            imageURL,
		Status:           model.StatusAvailable,
		Maintenance:      false,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name      string                `db:"name"       json:"name"       validate:"omitempty,max=100"`
	RoomType  string                `db:"room_type"  json:"room_type"  validate:"omitempty,max=50"`
	Capacity  *int                  `db:"capacity"   json:"capacity"   validate:"omitempty,gt=0"`
	ListPrice *float64              `db:"list_price" json:"list_price" validate:"omitempty,min=0"`
	Image     *multipart.FileHeader `json:"image"    validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile multipart.File        `json:"-"`
}

type RoomResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	PhysicalRoomCode string  `json:"physical_room_code"`
	ConfigCode       string  `json:"config_code"`
	RoomType         string  `json:"room_type"`
	Capacity         int     `json:"capacity"`
	ListPrice        float64 `json:"list_price"`
	Image            string  `json:"image"`
	Status           string  `json:"status"`
	Maintenance      bool    `json:"is_unavailable_for_maintenance"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.RoomConfiguration) {
	r.ID = model.ID
	r.Name = model.Name
	r.PhysicalRoomCode = model.PhysicalRoomCode
	r.ConfigCode = model.ConfigCode
	r.RoomType = model.RoomType
	r.Capacity = model.Capacity
	r.ListPrice = model.ListPrice
	r.Image = model.Image
	r.Status = model.Status
	r.Maintenance = model.Maintenance
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.RoomConfiguration, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type CheckAvailabilityRequest struct {
	PhysicalRoomCode string    `json:"physical_room_code"`
	Checkin          time.Time `json:"checkin"`
	Checkout         time.Time `json:"checkout"`
}

// BookingConflict is one active booking line overlapping a requested interval.
type BookingConflict struct {
	BookingName string    `json:"booking_name"`
	RoomName    string    `json:"room_name"`
	Checkin     time.Time `json:"checkin"`
	Checkout    time.Time `json:"checkout"`
}

func (b BookingConflict) String() string {
	return fmt.Sprintf("%s (room %s, %s to %s)",
		b.BookingName,
		b.RoomName,
		timezone.Format(b.Checkin, constant.DateTimeFormat),
		timezone.Format(b.Checkout, constant.DateTimeFormat),
	)
}

type AvailabilityResponse struct {
	PhysicalRoomCode string            `json:"physical_room_code"`
	Checkin          time.Time         `json:"checkin"`
	Checkout         time.Time         `json:"checkout"`
	Available        bool              `json:"available"`
	Conflicts        []BookingConflict `json:"conflicts,omitempty"`
}
