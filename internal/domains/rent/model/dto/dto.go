package dto

import (
	"time"

	"conferent/internal/domains/rent/model"
	"conferent/shared"
	"conferent/shared/constant"
	gDto "conferent/shared/dto"
	"conferent/shared/failure"
)

type CreateRentRequest struct {
	RoomID     int64   `json:"room_id"     validate:"required,gt=0"`
	Purpose    string  `json:"purpose"     validate:"required,max=255"`
	StartTime  string  `json:"start_time"  validate:"required"`
	EndTime    string  `json:"end_time"    validate:"required"`
	Status     string  `json:"status"      validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
	InviteeIDs []int64 `json:"invitee_ids" validate:"omitempty,dive,gt=0"`
}

// Window parses the requested reservation interval.
func (c *CreateRentRequest) Window() (startTime, endTime time.Time, err error) {
	startTime, err = time.Parse(constant.DateFormat, c.StartTime)
	if err != nil {
		return startTime, endTime, failure.Validation(model.FieldStartTime, "must be a RFC3339 timestamp")
	}

	endTime, err = time.Parse(constant.DateFormat, c.EndTime)
	if err != nil {
		return startTime, endTime, failure.Validation(model.FieldEndTime, "must be a RFC3339 timestamp")
	}

	return startTime, endTime, nil
}

// ListRentsQuery narrows a reservation listing. All fields are optional and
// combine with AND.
type ListRentsQuery struct {
	UserID   int64
	RoomID   int64
	Status   string
	From     time.Time
	To       time.Time
	Upcoming bool
	Purpose  string
}

func (q ListRentsQuery) ToFilter(now time.Time) gDto.FilterGroup {
	filters := []any{}

	if q.UserID > 0 {
		filters = append(filters, gDto.Filter{
			Field: model.FieldUserID, Table: model.TableName,
			Operator: gDto.FilterOperatorEq, Value: q.UserID,
		})
	}

	if q.RoomID > 0 {
		filters = append(filters, gDto.Filter{
			Field: model.FieldRoomID, Table: model.TableName,
			Operator: gDto.FilterOperatorEq, Value: q.RoomID,
		})
	}

	if q.Status != "" {
		filters = append(filters, gDto.Filter{
			Field: model.FieldStatus, Table: model.TableName,
			Operator: gDto.FilterOperatorEq, Value: q.Status,
		})
	}

	if !q.From.IsZero() {
		filters = append(filters, gDto.Filter{
			ArgName: "from", Field: model.FieldStartTime, Table: model.TableName,
			Operator: gDto.FilterOperatorGreaterEq, Value: q.From,
		})
	}

	if !q.To.IsZero() {
		filters = append(filters, gDto.Filter{
			ArgName: "to", Field: model.FieldEndTime, Table: model.TableName,
			Operator: gDto.FilterOperatorLessEq, Value: q.To,
		})
	}

	if q.Upcoming {
		filters = append(filters, gDto.Filter{
			ArgName: "now", Field: model.FieldStartTime, Table: model.TableName,
			Operator: gDto.FilterOperatorGreater, Value: now,
		})
		filters = append(filters, gDto.Filter{
			ArgName: "cancelled", Field: model.FieldStatus, Table: model.TableName,
			Operator: gDto.FilterOperatorNotEq, Value: constant.RentStatusCancelled,
		})
	}

	if q.Purpose != "" {
		filters = append(filters, gDto.Filter{
			Field: model.FieldPurpose, Table: model.TableName,
			Operator: gDto.FilterOperatorLike, Value: q.Purpose,
		})
	}

	return gDto.FilterGroup{Filters: filters}
}

type UpdateRentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
}

type RentResponse struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"user_id"`
	RoomID          int64  `json:"room_id"`
	RoomName        string `json:"room_name"`
	Purpose         string `json:"purpose"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Status          string `json:"status"`
	DurationMinutes int64  `json:"duration_minutes"`
	gDto.Metadata
}

func (r *RentResponse) FromModel(model model.Rent) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.RoomID = model.RoomID
	r.RoomName = model.RoomName
	r.Purpose = model.Purpose
	r.StartTime = model.StartTime.Format(constant.DateFormat)
	r.EndTime = model.EndTime.Format(constant.DateFormat)
	r.Status = model.Status
	r.DurationMinutes = model.DurationMinutes()
	r.Metadata.FromModel(model.Metadata)
}

type GetRentsResponse struct {
	Rents     []RentResponse `json:"rents"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRentsResponse) FromModels(models []model.Rent, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rents = make([]RentResponse, len(models))
	for i, mod := range models {
		r.Rents[i].FromModel(mod)
	}
}
