package rent

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"conferent/infras/otel"
	"conferent/internal/domains/rent/model"
	"conferent/internal/domains/rent/model/dto"
	"conferent/internal/domains/rent/service"
	"conferent/shared"
	"conferent/shared/constant"
	gDto "conferent/shared/dto"
	"conferent/shared/failure"
	"conferent/shared/validator"
	"conferent/transport/http/response"
)

const (
	queryParamFrom     = "from"
	queryParamTo       = "to"
	queryParamUpcoming = "upcoming"
)

type Handler struct {
	service service.Rent
	otel    otel.Otel
}

func New(service service.Rent, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rents", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRent)
		routerGroup.Get("/", handler.GetRents)
		routerGroup.Get("/myrents", handler.GetMyRents)
		routerGroup.Get("/{id}", handler.GetRentByID)
		routerGroup.Post("/{id}/cancel", handler.CancelRent)
		routerGroup.Patch("/{id}/status", handler.UpdateRentStatus)
		routerGroup.Delete("/{id}", handler.DeleteRent)
	})
}

// CreateRent handles the creation of a new reservation.
// @Summary Create a new reservation
// @Description Reserve a room for a time range, optionally inviting other users.
// @Tags Rent
// @Accept json
// @Produce json
// @Param request body dto.CreateRentRequest true "Create Rent Request"
// @Success 201 {object} response.Data[dto.RentResponse] "Reservation created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rents [post]
// @Security BearerAuth
func (handler *Handler) CreateRent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRent")
	defer scope.End()

	req := dto.CreateRentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetRents retrieves all reservations based on query parameters.
// @Summary Get all reservations
// @Description Retrieve all reservations with optional filtering and pagination.
// @Tags Rent
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param user_id query int false "Filter by user ID"
// @Param room_id query int false "Filter by room ID"
// @Param status query string false "Filter by status (PENDING, CONFIRMED, CANCELLED, COMPLETED)"
// @Param from query string false "Only reservations starting at or after this RFC3339 timestamp"
// @Param to query string false "Only reservations ending at or before this RFC3339 timestamp"
// @Param upcoming query bool false "Only upcoming, non-cancelled reservations"
// @Param purpose query string false "Filter by purpose substring"
// @Success 200 {object} response.Data[dto.GetRentsResponse] "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rents [get]
// @Security BearerAuth
func (handler *Handler) GetRents(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRents")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query, err := handler.listQueryFromRequest(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	rents, err := handler.service.GetAll(ctx, queryParams, query)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservations retrieved successfully")

	response.WithJSON(w, http.StatusOK, rents)
}

// GetMyRents retrieves the reservations of the authenticated user.
// @Summary Get my reservations
// @Description Retrieve the reservations of the currently authenticated user.
// @Tags Rent
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (PENDING, CONFIRMED, CANCELLED, COMPLETED)"
// @Param upcoming query bool false "Only upcoming, non-cancelled reservations"
// @Success 200 {object} response.Data[dto.GetRentsResponse] "List of the user's reservations"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/rents/myrents [get]
// @Security BearerAuth
func (handler *Handler) GetMyRents(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyRents")
	defer scope.End()

	rawUserID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	userID, err := shared.ParseID(rawUserID)
	if err != nil {
		err = failure.Unauthorized("missing user identity")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query, err := handler.listQueryFromRequest(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	// The owner filter always wins over whatever user_id was passed.
	query.UserID = userID

	rents, err := handler.service.GetAll(ctx, queryParams, query)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user reservations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User reservations retrieved successfully for user " + rawUserID)

	response.WithJSON(w, http.StatusOK, rents)
}

// GetRentByID retrieves a reservation by its ID.
// @Summary Get a reservation by ID
// @Description Retrieve a reservation by its unique identifier.
// @Tags Rent
// @Accept json
// @Produce json
// @Param id path int true "Rent ID"
// @Success 200 {object} response.Data[dto.RentResponse] "Reservation details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/rents/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRentByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRentByID")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	rent, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation retrieved successfully")

	response.WithJSON(w, http.StatusOK, rent)
}

// CancelRent cancels a reservation owned by the authenticated user.
// @Summary Cancel a reservation
// @Description Cancel a reservation. Only the owner or an admin may cancel, and only up to one hour before it starts.
// @Tags Rent
// @Accept json
// @Produce json
// @Param id path int true "Rent ID"
// @Success 200 {object} response.Message "Reservation cancelled successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/rents/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelRent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelRent")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := handler.service.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation cancelled successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Reservation cancelled successfully")
}

// UpdateRentStatus transitions a reservation to a new status.
// @Summary Update reservation status
// @Description Transition a reservation to a new status following the allowed lifecycle.
// @Tags Rent
// @Accept json
// @Produce json
// @Param id path int true "Rent ID"
// @Param request body dto.UpdateRentStatusRequest true "Update Rent Status Request"
// @Success 200 {object} response.Message "Reservation status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/rents/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRentStatus")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.UpdateRentStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update reservation status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation status updated successfully")

	response.WithMessage(w, http.StatusOK, "Reservation status updated successfully")
}

// DeleteRent deletes a reservation by its ID.
// @Summary Delete a reservation by ID
// @Description Permanently delete a reservation.
// @Tags Rent
// @Accept json
// @Produce json
// @Param id path int true "Rent ID"
// @Success 200 {object} response.Message "Reservation deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/rents/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRent")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation deleted successfully")

	response.WithMessage(w, http.StatusOK, "Reservation deleted successfully")
}

func (handler *Handler) listQueryFromRequest(r *http.Request) (dto.ListRentsQuery, error) {
	values := r.URL.Query()

	query := dto.ListRentsQuery{
		Status:   values.Get(model.FieldStatus),
		Purpose:  values.Get(model.FieldPurpose),
		Upcoming: values.Get(queryParamUpcoming) == "true",
	}

	if raw := values.Get(model.FieldUserID); raw != "" {
		userID, err := shared.ParseID(raw)
		if err != nil {
			return query, err
		}

		query.UserID = userID
	}

	if raw := values.Get(model.FieldRoomID); raw != "" {
		roomID, err := shared.ParseID(raw)
		if err != nil {
			return query, err
		}

		query.RoomID = roomID
	}

	if raw := values.Get(queryParamFrom); raw != "" {
		from, err := time.Parse(constant.DateFormat, raw)
		if err != nil {
			return query, failure.Validation(queryParamFrom, "must be a RFC3339 timestamp")
		}

		query.From = from
	}

	if raw := values.Get(queryParamTo); raw != "" {
		to, err := time.Parse(constant.DateFormat, raw)
		if err != nil {
			return query, failure.Validation(queryParamTo, "must be a RFC3339 timestamp")
		}

		query.To = to
	}

	return query, nil
}
