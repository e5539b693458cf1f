package model

import (
	"strings"
	"time"

	"conferent/shared/constant"
	"conferent/shared/failure"
	"conferent/shared/model"
)

const (
	TableName  = "rents"
	EntityName = "rent"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldRoomID    = "room_id"
	FieldPurpose   = "purpose"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
	FieldStatus    = "status"
)

// Rent is a room reservation. RoomName is read through the rooms join and
// never written back.
type Rent struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	RoomID    int64     `db:"room_id"`
	RoomName  string    `db:"room_name" table:"rooms" column:"name"`
	Purpose   string    `db:"purpose"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	Status    string    `db:"status"`
	model.Metadata
}

func (Rent) GetJoinQuery() string {
	return "JOIN rooms ON rooms.id = rents.room_id"
}

// New builds a reservation that has not been persisted yet. An empty status
// defaults to PENDING.
func New(userID, roomID int64, roomName, purpose string, startTime, endTime time.Time, status string) (Rent, error) {
	if status == "" {
		status = constant.RentStatusPending
	}

	rent := Rent{
		UserID:    userID,
		RoomID:    roomID,
		RoomName:  roomName,
		Purpose:   purpose,
		StartTime: startTime,
		EndTime:   endTime,
		Status:    status,
	}

	if err := rent.validateFields(); err != nil {
		return Rent{}, err
	}

	return rent, nil
}

// Validate checks a persisted reservation, identity first.
func (r Rent) Validate() error {
	if r.ID <= 0 {
		return failure.Validation(FieldID, "must be a positive number")
	}

	return r.validateFields()
}

func (r Rent) validateFields() error {
	if r.UserID <= 0 {
		return failure.Validation(FieldUserID, "must be a positive number")
	}

	if r.RoomID <= 0 {
		return failure.Validation(FieldRoomID, "must be a positive number")
	}

	if strings.TrimSpace(r.RoomName) == "" {
		return failure.Validation("room_name", "must not be blank")
	}

	if strings.TrimSpace(r.Purpose) == "" {
		return failure.Validation(FieldPurpose, "must not be blank")
	}

	if !r.StartTime.Before(r.EndTime) {
		return failure.Validation(FieldStartTime, "must be before end time")
	}

	duration := r.DurationMinutes()
	if duration < constant.RentMinDurationMinutes {
		return failure.Validation(FieldEndTime, "duration must be at least 30 minutes")
	}

	if duration > constant.RentMaxDurationMinutes {
		return failure.Validation(FieldEndTime, "duration must be at most 480 minutes")
	}

	if !ValidStatus(r.Status) {
		return failure.Validation(FieldStatus, "must be a known status")
	}

	return nil
}

func ValidStatus(status string) bool {
	switch status {
	case constant.RentStatusPending,
		constant.RentStatusConfirmed,
		constant.RentStatusCancelled,
		constant.RentStatusCompleted:
		return true
	}

	return false
}

func (r Rent) DurationMinutes() int64 {
	return int64(r.EndTime.Sub(r.StartTime) / time.Minute)
}

func (r Rent) IsOwnedBy(userID int64) bool {
	return r.UserID == userID
}

// IsCancellable reports whether the reservation can still be cancelled at
// the given instant. Cancellation closes one hour before start.
func (r Rent) IsCancellable(now time.Time) bool {
	if r.Status == constant.RentStatusCancelled || r.Status == constant.RentStatusCompleted {
		return false
	}

	return now.Before(r.StartTime.Add(-constant.RentCancelCutoff))
}

// CanBeCancelled combines ownership and the cancellation window. Callers
// that need to tell the two failures apart check IsOwnedBy first.
func (r Rent) CanBeCancelled(userID int64, now time.Time) bool {
	return r.IsOwnedBy(userID) && r.IsCancellable(now)
}

// IsInProgress reports whether a confirmed reservation covers the given
// instant. Start is inclusive, end exclusive.
func (r Rent) IsInProgress(now time.Time) bool {
	if r.Status != constant.RentStatusConfirmed {
		return false
	}

	return !now.Before(r.StartTime) && now.Before(r.EndTime)
}

func (r Rent) IsPast(now time.Time) bool {
	return now.After(r.EndTime)
}

func (r Rent) IsUpcoming(now time.Time) bool {
	return r.Status != constant.RentStatusCancelled && now.Before(r.StartTime)
}

// Overlaps reports whether the reservation intersects the half-open
// interval [startTime, endTime).
func (r Rent) Overlaps(startTime, endTime time.Time) bool {
	return r.StartTime.Before(endTime) && r.EndTime.After(startTime)
}

// CanTransitionTo enforces the reservation status lifecycle. Cancelled and
// completed reservations are terminal.
func (r Rent) CanTransitionTo(next string) bool {
	switch r.Status {
	case constant.RentStatusPending:
		return next == constant.RentStatusConfirmed || next == constant.RentStatusCancelled
	case constant.RentStatusConfirmed:
		return next == constant.RentStatusCompleted || next == constant.RentStatusCancelled
	}

	return false
}
