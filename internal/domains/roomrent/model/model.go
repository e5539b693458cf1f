package model

import "conferent/shared/model"

const (
	TableName  = "room_rents"
	EntityName = "room_rent"

	FieldID     = "id"
	FieldRoomID = "room_id"
	FieldRentID = "rent_id"
)

// RoomRent links a reservation to every room it occupies. The first room of
// a rent is also denormalized onto the rent row itself.
type RoomRent struct {
	ID     int64 `db:"id"`
	RoomID int64 `db:"room_id"`
	RentID int64 `db:"rent_id"`
	model.Metadata
}
