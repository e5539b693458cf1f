package invite

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"conferent/infras/otel"
	"conferent/internal/domains/invite/model"
	"conferent/internal/domains/invite/model/dto"
	"conferent/internal/domains/invite/service"
	"conferent/shared"
	"conferent/shared/constant"
	gDto "conferent/shared/dto"
	"conferent/shared/failure"
	"conferent/shared/validator"
	"conferent/transport/http/response"
)

type Handler struct {
	service service.Invite
	otel    otel.Otel
}

func New(service service.Invite, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/invites", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateInvite)
		routerGroup.Get("/myinvites", handler.GetMyInvites)
		routerGroup.Get("/rent/{id}", handler.GetInvitesByRent)
		routerGroup.Patch("/{id}/respond", handler.RespondInvite)
		routerGroup.Delete("/{id}", handler.DeleteInvite)
	})
}

// CreateInvite invites a user to a reservation.
// @Summary Invite a user to a reservation
// @Description Create an invitation for a user to join an existing reservation.
// @Tags Invite
// @Accept json
// @Produce json
// @Param request body dto.CreateInviteRequest true "Create Invite Request"
// @Success 201 {object} response.Data[dto.InviteResponse] "Invite created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/invites [post]
// @Security BearerAuth
func (handler *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateInvite")
	defer scope.End()

	req := dto.CreateInviteRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create invite")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Invite created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetMyInvites retrieves the invites of the authenticated user.
// @Summary Get my invites
// @Description Retrieve the invites of the currently authenticated user, optionally filtered by status.
// @Tags Invite
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (PENDING, ACCEPTED, DECLINED)"
// @Success 200 {object} response.Data[dto.GetInvitesResponse] "List of the user's invites"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/invites/myinvites [get]
// @Security BearerAuth
func (handler *Handler) GetMyInvites(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyInvites")
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

	status := r.URL.Query().Get(model.FieldStatus)

	var invites dto.GetInvitesResponse
	if status != "" {
		invites, err = handler.service.GetByUserAndStatus(ctx, queryParams, userID, status)
	} else {
		invites, err = handler.service.GetByUser(ctx, queryParams, userID)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user invites")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User invites retrieved successfully for user " + rawUserID)

	response.WithJSON(w, http.StatusOK, invites)
}

// GetInvitesByRent retrieves all invites of a reservation.
// @Summary Get invites of a reservation
// @Description Retrieve all invites attached to a reservation.
// @Tags Invite
// @Accept json
// @Produce json
// @Param id path int true "Rent ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetInvitesResponse] "List of the reservation's invites"
// @Failure 400 {object} response.Error
// @Router /v1/invites/rent/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetInvitesByRent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInvitesByRent")
	defer scope.End()

	rentID, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	invites, err := handler.service.GetByRent(ctx, queryParams, rentID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation invites")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation invites retrieved successfully")

	response.WithJSON(w, http.StatusOK, invites)
}

// RespondInvite answers a pending invite.
// @Summary Respond to an invite
// @Description Accept or decline a pending invite. An invite can only be answered once.
// @Tags Invite
// @Accept json
// @Produce json
// @Param id path int true "Invite ID"
// @Param request body dto.RespondInviteRequest true "Respond Invite Request"
// @Success 200 {object} response.Message "Invite answered successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/invites/{id}/respond [patch]
// @Security BearerAuth
func (handler *Handler) RespondInvite(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RespondInvite")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.RespondInviteRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Respond(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to respond to invite")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Invite answered successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Invite answered successfully")
}

// DeleteInvite deletes an invite by its ID.
// @Summary Delete an invite by ID
// @Description Delete an invite using its unique identifier.
// @Tags Invite
// @Accept json
// @Produce json
// @Param id path int true "Invite ID"
// @Success 200 {object} response.Message "Invite deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/invites/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteInvite(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteInvite")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete invite")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Invite deleted successfully")

	response.WithMessage(w, http.StatusOK, "Invite deleted successfully")
}
