package model

import (
	"database/sql"
	"time"

	"conferent/shared/constant"
	"conferent/shared/failure"
	"conferent/shared/model"
)

const (
	TableName  = "user_invites"
	EntityName = "user_invite"

	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldRentID      = "rent_id"
	FieldStatus      = "status"
	FieldInvitedAt   = "invited_at"
	FieldRespondedAt = "responded_at"
)

// UserInvite asks a user to join a reservation. It starts PENDING and is
// answered at most once.
type UserInvite struct {
	ID          int64        `db:"id"`
	UserID      int64        `db:"user_id"`
	RentID      int64        `db:"rent_id"`
	Status      string       `db:"status"`
	InvitedAt   time.Time    `db:"invited_at"`
	RespondedAt sql.NullTime `db:"responded_at"`
	model.Metadata
}

func New(userID, rentID int64, invitedAt time.Time) (UserInvite, error) {
	if userID <= 0 {
		return UserInvite{}, failure.Validation(FieldUserID, "must be a positive number")
	}

	if rentID <= 0 {
		return UserInvite{}, failure.Validation(FieldRentID, "must be a positive number")
	}

	return UserInvite{
		UserID:    userID,
		RentID:    rentID,
		Status:    constant.InviteStatusPending,
		InvitedAt: invitedAt,
	}, nil
}

func ValidStatus(status string) bool {
	switch status {
	case constant.InviteStatusPending,
		constant.InviteStatusAccepted,
		constant.InviteStatusDeclined:
		return true
	}

	return false
}

func (i UserInvite) IsPending() bool {
	return i.Status == constant.InviteStatusPending
}

// Respond answers the invite. Only a pending invite can be answered, and
// only with ACCEPTED or DECLINED.
func (i *UserInvite) Respond(status string, respondedAt time.Time) error {
	if status != constant.InviteStatusAccepted && status != constant.InviteStatusDeclined {
		return failure.Validation(FieldStatus, "must be ACCEPTED or DECLINED")
	}

	if !i.IsPending() {
		return failure.State("invite has already been answered")
	}

	i.Status = status
	i.RespondedAt = sql.NullTime{Time: respondedAt, Valid: true}

	return nil
}
