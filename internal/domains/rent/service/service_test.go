package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"conferent/config"
	"conferent/infras/kafka"
	"conferent/infras/otel/mocks"
	inviteMocks "conferent/internal/domains/invite/mocks"
	rentMocks "conferent/internal/domains/rent/mocks"
	"conferent/internal/domains/rent/model"
	"conferent/internal/domains/rent/model/dto"
	"conferent/internal/domains/rent/service"
	roomMocks "conferent/internal/domains/room/mocks"
	roomModel "conferent/internal/domains/room/model"
	roomRentMocks "conferent/internal/domains/roomrent/mocks"
	"conferent/shared/cache"
	"conferent/shared/constant"
	"conferent/shared/failure"
	"conferent/shared/timezone"
)

// stubEvents swallows events so the fire and forget publish goroutine
// never touches a mock controller after the test returns.
type stubEvents struct{}

func (stubEvents) SendMessages(_ context.Context, _ string, _ ...kafka.Message) error { return nil }

func (stubEvents) Consume(_ context.Context, _, _ string, _ func(message kafkaGo.Message)) {}

func (stubEvents) Reader(_, _ string) *kafkaGo.Reader { return nil }

// stubCache misses on every read. Invalidation also runs on a goroutine,
// so the same after-test concern applies here.
type stubCache struct{}

func (stubCache) Save(_ context.Context, _ string, _ any, _ int) error { return nil }

func (stubCache) Get(_ context.Context, _ string, _ any) error { return cache.Nil }

func (stubCache) Delete(_ context.Context, _ string) error { return nil }

func (stubCache) Clear(_ context.Context, _ string) error { return nil }

type rentServiceFixture struct {
	repo      *rentMocks.MockRent
	rooms     *roomMocks.MockRoom
	roomRents *roomRentMocks.MockRoomRent
	invites   *inviteMocks.MockInvite
	service   service.Rent
}

func newRentServiceFixture(t *testing.T) rentServiceFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := rentServiceFixture{
		repo:      rentMocks.NewMockRent(ctrl),
		rooms:     roomMocks.NewMockRoom(ctrl),
		roomRents: roomRentMocks.NewMockRoomRent(ctrl),
		invites:   inviteMocks.NewMockInvite(ctrl),
	}

	f.service = service.New(
		f.repo,
		f.rooms,
		f.roomRents,
		f.invites,
		nil,
		&config.Config{},
		stubCache{},
		mocks.NewOtel(),
		stubEvents{},
	)

	return f
}

func ownerContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "7")
}

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "99")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func activeRoom() roomModel.Room {
	return roomModel.Room{
		ID:       2,
		Name:     "Cendana",
		Location: "Lantai 3",
		Capacity: 8,
		Active:   true,
	}
}

func createRequest() dto.CreateRentRequest {
	start := timezone.Now().Add(48 * time.Hour).Truncate(time.Hour)

	return dto.CreateRentRequest{
		RoomID:    2,
		Purpose:   "Sprint planning",
		StartTime: start.Format(constant.DateFormat),
		EndTime:   start.Add(time.Hour).Format(constant.DateFormat),
	}
}

func storedRent(status string, startIn time.Duration) model.Rent {
	start := timezone.Now().Add(startIn)

	return model.Rent{
		ID:        11,
		UserID:    7,
		RoomID:    2,
		RoomName:  "Cendana",
		Purpose:   "Sprint planning",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    status,
	}
}

func TestRentService_Create(t *testing.T) {
	t.Run("rejects a request without a user identity", func(t *testing.T) {
		f := newRentServiceFixture(t)

		_, err := f.service.Create(context.Background(), createRequest())

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindAuth))
	})

	t.Run("rejects an unparseable reservation window", func(t *testing.T) {
		f := newRentServiceFixture(t)

		req := createRequest()
		req.StartTime = "tomorrow at nine"

		_, err := f.service.Create(ownerContext(), req)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindValidation))
	})

	t.Run("rejects an unknown room", func(t *testing.T) {
		f := newRentServiceFixture(t)

		f.rooms.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(roomModel.Room{}, nil)

		_, err := f.service.Create(ownerContext(), createRequest())

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})

	t.Run("rejects an inactive room", func(t *testing.T) {
		f := newRentServiceFixture(t)

		room := activeRoom()
		room.Active = false

		f.rooms.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(room, nil)

		_, err := f.service.Create(ownerContext(), createRequest())

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindState))
	})

	t.Run("rejects an overlapping reservation", func(t *testing.T) {
		f := newRentServiceFixture(t)

		f.rooms.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeRoom(), nil)
		f.repo.EXPECT().
			ExistOverlapping(gomock.Any(), int64(2), gomock.Any(), gomock.Any()).
			Return(true, nil)

		_, err := f.service.Create(ownerContext(), createRequest())

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindConflict))
		assert.Contains(t, err.Error(), "already reserved")
	})

	t.Run("propagates an overlap check failure", func(t *testing.T) {
		f := newRentServiceFixture(t)

		f.rooms.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeRoom(), nil)
		f.repo.EXPECT().
			ExistOverlapping(gomock.Any(), int64(2), gomock.Any(), gomock.Any()).
			Return(false, errors.New("db down"))

		_, err := f.service.Create(ownerContext(), createRequest())

		require.Error(t, err)
		assert.False(t, failure.IsKind(err, failure.KindConflict))
	})

	t.Run("rejects a window shorter than the minimum duration", func(t *testing.T) {
		f := newRentServiceFixture(t)

		f.rooms.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeRoom(), nil)
		f.repo.EXPECT().
			ExistOverlapping(gomock.Any(), int64(2), gomock.Any(), gomock.Any()).
			Return(false, nil)

		req := createRequest()
		start := timezone.Now().Add(48 * time.Hour).Truncate(time.Hour)
		req.StartTime = start.Format(constant.DateFormat)
		req.EndTime = start.Add(10 * time.Minute).Format(constant.DateFormat)

		_, err := f.service.Create(ownerContext(), req)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindValidation))
	})
}

func TestRentService_Cancel(t *testing.T) {
	t.Run("returns not found for an unknown reservation", func(t *testing.T) {
		f := newRentServiceFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Rent{}, nil)

		err := f.service.Cancel(ownerContext(), 11)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})

	t.Run("checks ownership before the cancellation window", func(t *testing.T) {
		f := newRentServiceFixture(t)

		// The reservation already started. A non-owner must still get the
		// ownership failure, not the window one.
		rent := storedRent(constant.RentStatusConfirmed, -30*time.Minute)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(rent, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "8")

		err := f.service.Cancel(ctx, rent.ID)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindAuthorization))
	})

	t.Run("rejects cancellation inside the cutoff", func(t *testing.T) {
		f := newRentServiceFixture(t)

		rent := storedRent(constant.RentStatusConfirmed, 30*time.Minute)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(rent, nil)

		err := f.service.Cancel(ownerContext(), rent.ID)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindState))
	})

	t.Run("rejects cancelling a cancelled reservation", func(t *testing.T) {
		f := newRentServiceFixture(t)

		rent := storedRent(constant.RentStatusCancelled, 48*time.Hour)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(rent, nil)

		err := f.service.Cancel(ownerContext(), rent.ID)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindState))
	})

	t.Run("lets the owner cancel before the cutoff", func(t *testing.T) {
		f := newRentServiceFixture(t)

		rent := storedRent(constant.RentStatusPending, 48*time.Hour)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(rent, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req map[string]any, _ any) error {
				assert.Equal(t, constant.RentStatusCancelled, req[model.FieldStatus])
				assert.Equal(t, "7", req[constant.FieldModifiedBy])

				return nil
			})

		err := f.service.Cancel(ownerContext(), rent.ID)

		require.NoError(t, err)
	})

	t.Run("lets an admin cancel another user's reservation", func(t *testing.T) {
		f := newRentServiceFixture(t)

		rent := storedRent(constant.RentStatusConfirmed, 48*time.Hour)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(rent, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		err := f.service.Cancel(adminContext(), rent.ID)

		require.NoError(t, err)
	})
}

func TestRentService_UpdateStatus(t *testing.T) {
	t.Run("rejects a transition out of a terminal status", func(t *testing.T) {
		f := newRentServiceFixture(t)

		rent := storedRent(constant.RentStatusCancelled, 48*time.Hour)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(rent, nil)

		err := f.service.UpdateStatus(ownerContext(), rent.ID, dto.UpdateRentStatusRequest{
			Status: constant.RentStatusConfirmed,
		})

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindState))
		assert.Contains(t, err.Error(), "cannot move reservation")
	})

	t.Run("confirms a pending reservation", func(t *testing.T) {
		f := newRentServiceFixture(t)

		rent := storedRent(constant.RentStatusPending, 48*time.Hour)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(rent, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req map[string]any, _ any) error {
				assert.Equal(t, constant.RentStatusConfirmed, req[model.FieldStatus])

				return nil
			})

		err := f.service.UpdateStatus(ownerContext(), rent.ID, dto.UpdateRentStatusRequest{
			Status: constant.RentStatusConfirmed,
		})

		require.NoError(t, err)
	})

	t.Run("returns not found for an unknown reservation", func(t *testing.T) {
		f := newRentServiceFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Rent{}, nil)

		err := f.service.UpdateStatus(ownerContext(), 11, dto.UpdateRentStatusRequest{
			Status: constant.RentStatusConfirmed,
		})

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})
}

func TestRentService_Delete(t *testing.T) {
	t.Run("returns not found for an unknown reservation", func(t *testing.T) {
		f := newRentServiceFixture(t)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := f.service.Delete(context.Background(), 11)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})

	t.Run("deletes an existing reservation", func(t *testing.T) {
		f := newRentServiceFixture(t)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		f.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := f.service.Delete(context.Background(), 11)

		require.NoError(t, err)
	})
}
