package model

import "hms/shared/model"

const (
	TableName  = "room_configurations"
	EntityName = "room_configuration"

	FieldID               = "id"
	FieldName             = "name"
	FieldPhysicalRoomCode = "physical_room_code"
	FieldConfigCode       = "config_code"
	FieldRoomType         = "room_type"
	FieldCapacity         = "capacity"
	FieldListPrice        = "list_price"
	FieldImage            = "image"
	FieldStatus           = "status"
	FieldMaintenance      = "is_unavailable_for_maintenance"
)

// Room configuration statuses. A physical room carries several sellable
// configurations sharing one physical_room_code; selling one of them makes
// the siblings unavailable.
const (
	StatusAvailable   = "available"
	StatusReserved    = "reserved"
	StatusOccupied    = "occupied"
	StatusUnavailable = "unavailable"
	StatusMaintenance = "maintenance"
)

type RoomConfiguration struct {
	ID               string  `db:"id"`
	Name             string  `db:"name"`
	PhysicalRoomCode string  `db:"physical_room_code"`
	ConfigCode       string  `db:"config_code"`
	RoomType         string  `db:"room_type"`
	Capacity         int     `db:"capacity"`
	ListPrice        float64 `db:"list_price"`
	Image            string  `db:"image"`
	Status           string  `db:"status"`
	Maintenance      bool    `db:"is_unavailable_for_maintenance"`
	model.Metadata
}
