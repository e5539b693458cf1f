package dto

import (
	"conferent/internal/domains/invite/model"
	"conferent/shared"
	"conferent/shared/constant"
	gDto "conferent/shared/dto"
)

type CreateInviteRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
	RentID int64 `json:"rent_id" validate:"required,gt=0"`
}

type RespondInviteRequest struct {
	Status string `json:"status" validate:"required,oneof=ACCEPTED DECLINED"`
}

type InviteResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	RentID      int64  `json:"rent_id"`
	Status      string `json:"status"`
	InvitedAt   string `json:"invited_at"`
	RespondedAt string `json:"responded_at,omitempty"`
	gDto.Metadata
}

func (r *InviteResponse) FromModel(model model.UserInvite) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.RentID = model.RentID
	r.Status = model.Status
	r.InvitedAt = model.InvitedAt.Format(constant.DateFormat)

	if model.RespondedAt.Valid {
		r.RespondedAt = model.RespondedAt.Time.Format(constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetInvitesResponse struct {
	Invites   []InviteResponse `json:"invites"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetInvitesResponse) FromModels(models []model.UserInvite, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Invites = make([]InviteResponse, len(models))
	for i, mod := range models {
		r.Invites[i].FromModel(mod)
	}
}
