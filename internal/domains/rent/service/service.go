package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"conferent/config"
	"conferent/infras/kafka"
	"conferent/infras/otel"
	"conferent/infras/postgres"
	inviteModel "conferent/internal/domains/invite/model"
	inviteRepo "conferent/internal/domains/invite/repository"
	"conferent/internal/domains/rent/model"
	"conferent/internal/domains/rent/model/dto"
	"conferent/internal/domains/rent/repository"
	roomModel "conferent/internal/domains/room/model"
	roomRepo "conferent/internal/domains/room/repository"
	roomRentModel "conferent/internal/domains/roomrent/model"
	roomRentRepo "conferent/internal/domains/roomrent/repository"
	"conferent/shared"
	"conferent/shared/cache"
	"conferent/shared/constant"
	gDto "conferent/shared/dto"
	"conferent/shared/failure"
	gModel "conferent/shared/model"
	"conferent/shared/timezone"
)

const (
	cacheGetRent    = "rent:get"
	cacheGetAllRent = "rent:gets"
	cacheCountRent  = "rent:count"

	eventRentCreated   = "rent.created"
	eventRentCancelled = "rent.cancelled"
	eventRentInvited   = "rent.invited"
)

// RentEvent is the payload published on reservation lifecycle changes.
type RentEvent struct {
	RentID    int64   `json:"rent_id"`
	UserID    int64   `json:"user_id"`
	RoomID    int64   `json:"room_id"`
	Status    string  `json:"status"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Invitees  []int64 `json:"invitees,omitempty"`
}

type Rent interface {
	Create(ctx context.Context, req dto.CreateRentRequest) (dto.RentResponse, error)
	Get(ctx context.Context, id int64) (dto.RentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, query dto.ListRentsQuery) (dto.GetRentsResponse, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Cancel(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, req dto.UpdateRentStatusRequest) error
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo      repository.Rent
	rooms     roomRepo.Room
	roomRents roomRentRepo.RoomRent
	invites   inviteRepo.Invite
	db        *postgres.Connection
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	events    kafka.Client
}

func New(
	repo repository.Rent,
	rooms roomRepo.Room,
	roomRents roomRentRepo.RoomRent,
	invites inviteRepo.Invite,
	db *postgres.Connection,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	events kafka.Client,
) Rent {
	return &serviceImpl{
		repo:      repo,
		rooms:     rooms,
		roomRents: roomRents,
		invites:   invites,
		db:        db,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		events:    events,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRentRequest) (res dto.RentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".rent.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, err := s.contextUserID(ctx)
	if err != nil {
		return res, err
	}

	startTime, endTime, err := req.Window()
	if err != nil {
		return res, err
	}

	room, err := s.rooms.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room for rent")

		return res, err
	}

	if room.ID == 0 {
		return res, failure.NotFound("room not found")
	}

	if !room.Active {
		return res, failure.State("room is not available for reservations")
	}

	taken, err := s.repo.ExistOverlapping(ctx, req.RoomID, startTime, endTime)
	if err != nil {
		log.Error().Err(err).Msg("failed to check overlapping rents")

		return res, err
	}

	if taken {
		return res, failure.Conflict("room is already reserved for this time range")
	}

	rent, err := model.New(userID, req.RoomID, room.Name, req.Purpose, startTime, endTime, req.Status)
	if err != nil {
		return res, err
	}

	now := timezone.Now()
	user := fmt.Sprintf("%d", userID)
	rent.Metadata = gModel.Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		CreatedBy:  user,
		ModifiedBy: user,
	}

	rent.ID, err = s.persist(ctx, rent, req.InviteeIDs, now, user)
	if err != nil {
		return res, err
	}

	res.FromModel(rent)

	s.publish(ctx, eventRentCreated, RentEvent{
		RentID:    rent.ID,
		UserID:    rent.UserID,
		RoomID:    rent.RoomID,
		Status:    rent.Status,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Invitees:  req.InviteeIDs,
	})

	if len(req.InviteeIDs) > 0 {
		s.publish(ctx, eventRentInvited, RentEvent{
			RentID:   rent.ID,
			UserID:   rent.UserID,
			RoomID:   rent.RoomID,
			Status:   rent.Status,
			Invitees: req.InviteeIDs,
		})
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRent)
		shared.InvalidateCaches(c, s.cache, cacheCountRent)
	}()

	return res, nil
}

// persist writes the rent, its room link, and the pending invites in one
// transaction.
func (s *serviceImpl) persist(ctx context.Context, rent model.Rent, inviteeIDs []int64, now time.Time, user string) (id int64, err error) {
	sqltx, err := s.db.Write.Beginx()
	if err != nil {
		log.Error().Err(err).Msg("failed to begin rent transaction")

		return 0, fmt.Errorf("failed to begin rent transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := sqltx.Rollback(); rollbackErr != nil {
				log.Error().Err(rollbackErr).Msg("failed to roll back rent transaction")
			}
		}
	}()

	id, err = s.repo.InsertReturningIDTx(ctx, sqltx, rent)
	if err != nil {
		return 0, err
	}

	meta := gModel.Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		CreatedBy:  user,
		ModifiedBy: user,
	}

	links := []roomRentModel.RoomRent{{
		RoomID:   rent.RoomID,
		RentID:   id,
		Metadata: meta,
	}}

	if err = s.roomRents.InsertBulkTx(ctx, sqltx, links); err != nil {
		return 0, err
	}

	invites := make([]inviteModel.UserInvite, 0, len(inviteeIDs))
	for _, inviteeID := range inviteeIDs {
		invite, inviteErr := inviteModel.New(inviteeID, id, now)
		if inviteErr != nil {
			err = inviteErr

			return 0, err
		}

		invite.Metadata = meta
		invites = append(invites, invite)
	}

	if err = s.invites.InsertBulkTx(ctx, sqltx, invites); err != nil {
		return 0, err
	}

	if err = sqltx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit rent transaction")

		return 0, fmt.Errorf("failed to commit rent transaction: %w", err)
	}

	return id, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.RentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".rent.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRent, fmt.Sprintf("%d", id))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rent")

		return res, nil
	}

	rent, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get rent")

		return res, fmt.Errorf("failed to get rent: %w", err)
	}

	if rent.ID == 0 {
		return res, failure.NotFound("rent not found") // nolint:wrapcheck
	}

	res.FromModel(rent)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rent to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, query dto.ListRentsQuery) (res dto.GetRentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".rent.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := query.ToFilter(timezone.Now())
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRent, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rents")

		return res, nil
	}

	total, err := s.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rents")

		return res, fmt.Errorf("failed to count rents: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rents")

		return res, fmt.Errorf("failed to get rents: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rents to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".rent.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rents")

		return res, fmt.Errorf("failed to count rents: %w", err)
	}

	return res, nil
}

// Cancel enforces ownership before cancellability so a non-owner learns
// nothing about the reservation window.
func (s *serviceImpl) Cancel(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".rent.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, err := s.contextUserID(ctx)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	rent, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rent for cancellation")

		return err
	}

	if rent.ID == 0 {
		return failure.NotFound("rent not found")
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if !rent.IsOwnedBy(userID) && role != constant.RoleAdmin {
		return failure.Authorization("only the reservation owner can cancel it")
	}

	if !rent.IsCancellable(timezone.Now()) {
		return failure.State("reservation can no longer be cancelled")
	}

	user := fmt.Sprintf("%d", userID)
	updated := map[string]any{
		model.FieldStatus:        constant.RentStatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updated, filter); err != nil {
		log.Error().Err(err).Msg("failed to cancel rent")

		return fmt.Errorf("failed to cancel rent: %w", err)
	}

	s.publish(ctx, eventRentCancelled, RentEvent{
		RentID:    rent.ID,
		UserID:    rent.UserID,
		RoomID:    rent.RoomID,
		Status:    constant.RentStatusCancelled,
		StartTime: rent.StartTime.Format(constant.DateFormat),
		EndTime:   rent.EndTime.Format(constant.DateFormat),
	})

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id int64, req dto.UpdateRentStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".rent.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, err := s.contextUserID(ctx)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	rent, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rent for status update")

		return err
	}

	if rent.ID == 0 {
		return failure.NotFound("rent not found")
	}

	if !rent.CanTransitionTo(req.Status) {
		return failure.State(fmt.Sprintf("cannot move reservation from %s to %s", rent.Status, req.Status))
	}

	updated := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: fmt.Sprintf("%d", userID),
	}

	if err = s.repo.Update(ctx, updated, filter); err != nil {
		log.Error().Err(err).Msg("failed to update rent status")

		return fmt.Errorf("failed to update rent status: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".rent.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check rent existence")

		return err
	}

	if !exist {
		return failure.NotFound("rent not found")
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete rent")

		return fmt.Errorf("failed to delete rent: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) contextUserID(ctx context.Context) (int64, error) {
	raw, _ := ctx.Value(constant.ContextKeyUserID).(string)

	userID, err := shared.ParseID(raw)
	if err != nil {
		return 0, failure.Unauthorized("missing user identity")
	}

	return userID, nil
}

// publish is best effort. A lost event never fails the request.
func (s *serviceImpl) publish(ctx context.Context, key string, event RentEvent) {
	go func() {
		c := context.WithoutCancel(ctx)

		err := s.events.SendMessages(c, s.cfg.Kafka.TopicEvents, kafka.Message{Key: key, Value: event})
		if err != nil {
			log.Error().Err(err).Str("event", key).Msg("failed to publish rent event")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetRent)
		shared.InvalidateCaches(c, s.cache, cacheGetAllRent)
		shared.InvalidateCaches(c, s.cache, cacheCountRent)
	}()
}
