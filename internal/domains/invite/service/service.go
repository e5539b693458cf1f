package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"conferent/config"
	"conferent/infras/otel"
	"conferent/internal/domains/invite/model"
	"conferent/internal/domains/invite/model/dto"
	"conferent/internal/domains/invite/repository"
	rentModel "conferent/internal/domains/rent/model"
	rentRepo "conferent/internal/domains/rent/repository"
	"conferent/shared"
	"conferent/shared/cache"
	"conferent/shared/constant"
	gDto "conferent/shared/dto"
	"conferent/shared/failure"
	gModel "conferent/shared/model"
	"conferent/shared/timezone"
)

const (
	cacheGetInvites = "invite:gets"
)

type Invite interface {
	Create(ctx context.Context, req dto.CreateInviteRequest) (dto.InviteResponse, error)
	GetByUser(ctx context.Context, params gDto.QueryParams, userID int64) (dto.GetInvitesResponse, error)
	GetByRent(ctx context.Context, params gDto.QueryParams, rentID int64) (dto.GetInvitesResponse, error)
	GetByUserAndStatus(ctx context.Context, params gDto.QueryParams, userID int64, status string) (dto.GetInvitesResponse, error)
	Respond(ctx context.Context, id int64, req dto.RespondInviteRequest) error
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo  repository.Invite
	rents rentRepo.Rent
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Invite, rents rentRepo.Rent, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Invite {
	return &serviceImpl{
		repo:  repo,
		rents: rents,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateInviteRequest) (res dto.InviteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".invite.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.rents.Exist(ctx, shared.FilterByID(req.RentID, rentModel.FieldID, rentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check rent existence for invite")

		return res, err
	}

	if !exist {
		return res, failure.NotFound("rent not found")
	}

	duplicate, err := s.repo.Exist(ctx, gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldUserID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: req.UserID},
		gDto.Filter{Field: model.FieldRentID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: req.RentID},
	}})
	if err != nil {
		log.Error().Err(err).Msg("failed to check invite uniqueness")

		return res, err
	}

	if duplicate {
		return res, failure.Conflict("user is already invited to this rent")
	}

	now := timezone.Now()

	invite, err := model.New(req.UserID, req.RentID, now)
	if err != nil {
		return res, err
	}

	creator, _ := ctx.Value(constant.ContextKeyUserID).(string)
	invite.Metadata = gModel.Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		CreatedBy:  creator,
		ModifiedBy: creator,
	}

	invite.ID, err = s.repo.InsertReturningID(ctx, invite)
	if err != nil {
		log.Error().Err(err).Msg("failed to create invite")

		return res, err
	}

	res.FromModel(invite)

	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) GetByUser(ctx context.Context, params gDto.QueryParams, userID int64) (dto.GetInvitesResponse, error) {
	return s.getAll(ctx, params, gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldUserID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: userID},
	}})
}

func (s *serviceImpl) GetByRent(ctx context.Context, params gDto.QueryParams, rentID int64) (dto.GetInvitesResponse, error) {
	return s.getAll(ctx, params, gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldRentID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: rentID},
	}})
}

func (s *serviceImpl) GetByUserAndStatus(ctx context.Context, params gDto.QueryParams, userID int64, status string) (res dto.GetInvitesResponse, err error) {
	if !model.ValidStatus(status) {
		return res, failure.Validation(model.FieldStatus, "must be a known status")
	}

	return s.getAll(ctx, params, gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldUserID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: userID},
		gDto.Filter{Field: model.FieldStatus, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: status},
	}})
}

func (s *serviceImpl) getAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetInvitesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".invite.getAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetInvites, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for invites")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count invites")

		return res, fmt.Errorf("failed to count invites: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invites")

		return res, fmt.Errorf("failed to get invites: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invites to cache")
		}
	}()

	return res, nil
}

// Respond answers an invite on behalf of the invited user.
func (s *serviceImpl) Respond(ctx context.Context, id int64, req dto.RespondInviteRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".invite.Respond")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	invite, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invite")

		return err
	}

	if invite.ID == 0 {
		return failure.NotFound("invite not found")
	}

	raw, _ := ctx.Value(constant.ContextKeyUserID).(string)
	userID, parseErr := shared.ParseID(raw)
	if parseErr != nil {
		return failure.Unauthorized("missing user identity")
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if invite.UserID != userID && role != constant.RoleAdmin {
		return failure.Authorization("only the invited user can answer the invite")
	}

	now := timezone.Now()
	if err = invite.Respond(req.Status, now); err != nil {
		return err
	}

	updated := map[string]any{
		model.FieldStatus:        invite.Status,
		model.FieldRespondedAt:   invite.RespondedAt,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: raw,
	}

	if err = s.repo.Update(ctx, updated, filter); err != nil {
		log.Error().Err(err).Msg("failed to update invite status")

		return fmt.Errorf("failed to update invite status: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".invite.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check invite existence")

		return err
	}

	if !exist {
		return failure.NotFound("invite not found")
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete invite")

		return fmt.Errorf("failed to delete invite: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetInvites)
	}()
}
