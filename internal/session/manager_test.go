package session_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"conferent/infras/authapi"
	authapimocks "conferent/infras/authapi/mocks"
	otelmocks "conferent/infras/otel/mocks"
	kvmocks "conferent/infras/sessionkv/mocks"
	"conferent/internal/session"
	"conferent/shared/constant"
	"conferent/shared/failure"
)

type stubInviteSource struct {
	invites    []session.Invite
	err        error
	respondErr error
	responded  []int64
}

func (s *stubInviteSource) InvitesForUser(_ context.Context, _ int64) ([]session.Invite, error) {
	return s.invites, s.err
}

func (s *stubInviteSource) RespondToInvite(_ context.Context, inviteID int64, _ string) error {
	if s.respondErr != nil {
		return s.respondErr
	}

	s.responded = append(s.responded, inviteID)

	return nil
}

type managerFixture struct {
	gateway *authapimocks.MockGateway
	kv      *kvmocks.MockStore
	source  *stubInviteSource
	manager *session.Manager
}

func newManagerFixture(t *testing.T) *managerFixture {
	ctrl := gomock.NewController(t)
	gateway := authapimocks.NewMockGateway(ctrl)
	kv := kvmocks.NewMockStore(ctrl)
	source := &stubInviteSource{}

	// The constructor probes the store for a leftover token.
	kv.EXPECT().Get(gomock.Any(), constant.SessionKeyToken).Return("", nil)

	return &managerFixture{
		gateway: gateway,
		kv:      kv,
		source:  source,
		manager: session.NewManager(gateway, kv, source, otelmocks.NewOtel()),
	}
}

func fullPayload() authapi.LoginPayload {
	return authapi.LoginPayload{
		AccessToken: "token-abc",
		UserID:      7,
		UserName:    "Ayu Lestari",
		UserEmail:   "ayu@example.com",
		UserRole:    constant.RoleUser,
	}
}

func TestNewManager(t *testing.T) {
	t.Run("starts logged out with an empty store", func(t *testing.T) {
		fixture := newManagerFixture(t)

		assert.Equal(t, session.StatusLoggedOut, fixture.manager.Current().Status)
	})

	t.Run("starts restoring when a token survives in the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gateway := authapimocks.NewMockGateway(ctrl)
		kv := kvmocks.NewMockStore(ctrl)

		kv.EXPECT().Get(gomock.Any(), constant.SessionKeyToken).Return("token-abc", nil)

		manager := session.NewManager(gateway, kv, &stubInviteSource{}, otelmocks.NewOtel())

		assert.Equal(t, session.StatusRestoring, manager.Current().Status)
	})
}

func TestManagerLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success persists all five keys and lands on LoggedIn", func(t *testing.T) {
		fixture := newManagerFixture(t)

		fixture.gateway.EXPECT().
			Login(gomock.Any(), "ayu@example.com", "secret").
			Return(fullPayload(), nil)
		fixture.kv.EXPECT().
			SetAll(gomock.Any(), map[string]string{
				constant.SessionKeyToken:     "token-abc",
				constant.SessionKeyUserID:    "7",
				constant.SessionKeyUserName:  "Ayu Lestari",
				constant.SessionKeyUserEmail: "ayu@example.com",
				constant.SessionKeyUserRole:  constant.RoleUser,
			}).
			Return(nil)

		res, err := fixture.manager.Login(ctx, "ayu@example.com", "secret")

		require.NoError(t, err)
		assert.Equal(t, session.StatusLoggedIn, res.Status)
		assert.Equal(t, "token-abc", res.Token)
		assert.Equal(t, int64(7), res.User.ID)
		assert.Equal(t, "ayu@example.com", res.User.Email)
	})

	t.Run("missing role persists nothing and lands on LoggedOut", func(t *testing.T) {
		fixture := newManagerFixture(t)

		payload := fullPayload()
		payload.UserRole = ""
		fixture.gateway.EXPECT().
			Login(gomock.Any(), "ayu@example.com", "secret").
			Return(payload, nil)

		res, err := fixture.manager.Login(ctx, "ayu@example.com", "secret")

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindMalformedResponse))
		assert.Equal(t, session.StatusLoggedOut, res.Status)
		assert.Equal(t, session.StatusLoggedOut, fixture.manager.Current().Status)
		assert.Empty(t, fixture.manager.Current().Token)
	})

	t.Run("missing token persists nothing", func(t *testing.T) {
		fixture := newManagerFixture(t)

		payload := fullPayload()
		payload.AccessToken = ""
		fixture.gateway.EXPECT().
			Login(gomock.Any(), "ayu@example.com", "secret").
			Return(payload, nil)

		_, err := fixture.manager.Login(ctx, "ayu@example.com", "secret")

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindMalformedResponse))
	})

	t.Run("gateway failure lands on LoggedOut", func(t *testing.T) {
		fixture := newManagerFixture(t)

		fixture.gateway.EXPECT().
			Login(gomock.Any(), "ayu@example.com", "wrong").
			Return(authapi.LoginPayload{}, failure.Unauthorized("invalid email or password"))

		res, err := fixture.manager.Login(ctx, "ayu@example.com", "wrong")

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindAuth))
		assert.Equal(t, session.StatusLoggedOut, res.Status)
	})

	t.Run("store failure lands on LoggedOut", func(t *testing.T) {
		fixture := newManagerFixture(t)

		fixture.gateway.EXPECT().
			Login(gomock.Any(), "ayu@example.com", "secret").
			Return(fullPayload(), nil)
		fixture.kv.EXPECT().
			SetAll(gomock.Any(), gomock.Any()).
			Return(errors.New("store unavailable"))

		_, err := fixture.manager.Login(ctx, "ayu@example.com", "secret")

		require.Error(t, err)
		assert.Equal(t, session.StatusLoggedOut, fixture.manager.Current().Status)
	})

	t.Run("invite fetch failure never fails the login", func(t *testing.T) {
		fixture := newManagerFixture(t)
		fixture.source.err = errors.New("invite service down")

		fixture.gateway.EXPECT().
			Login(gomock.Any(), "ayu@example.com", "secret").
			Return(fullPayload(), nil)
		fixture.kv.EXPECT().
			SetAll(gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := fixture.manager.Login(ctx, "ayu@example.com", "secret")

		require.NoError(t, err)
		assert.Equal(t, session.StatusLoggedIn, res.Status)
	})
}

func loginFixture(t *testing.T) *managerFixture {
	fixture := newManagerFixture(t)

	fixture.gateway.EXPECT().
		Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fullPayload(), nil)
	fixture.kv.EXPECT().
		SetAll(gomock.Any(), gomock.Any()).
		Return(nil)

	_, err := fixture.manager.Login(context.Background(), "ayu@example.com", "secret")
	require.NoError(t, err)

	return fixture
}

func TestManagerLogout(t *testing.T) {
	ctx := context.Background()

	sessionKeys := []any{
		constant.SessionKeyToken,
		constant.SessionKeyUserID,
		constant.SessionKeyUserName,
		constant.SessionKeyUserEmail,
		constant.SessionKeyUserRole,
	}

	t.Run("clears all five keys and the memory state", func(t *testing.T) {
		fixture := loginFixture(t)

		fixture.gateway.EXPECT().
			Logout(gomock.Any(), "token-abc").
			Return(nil)
		fixture.kv.EXPECT().
			DeleteAll(gomock.Any(), sessionKeys...).
			Return(nil)

		err := fixture.manager.Logout(ctx)

		require.NoError(t, err)
		assert.Equal(t, session.StatusLoggedOut, fixture.manager.Current().Status)
		assert.Empty(t, fixture.manager.Current().Token)
	})

	t.Run("clears local state even when the server call fails", func(t *testing.T) {
		fixture := loginFixture(t)

		fixture.gateway.EXPECT().
			Logout(gomock.Any(), "token-abc").
			Return(failure.Transport(errors.New("connection refused")))
		fixture.kv.EXPECT().
			DeleteAll(gomock.Any(), sessionKeys...).
			Return(nil)

		err := fixture.manager.Logout(ctx)

		require.NoError(t, err)
		assert.Equal(t, session.StatusLoggedOut, fixture.manager.Current().Status)
	})

	t.Run("skips the server call when not logged in", func(t *testing.T) {
		fixture := newManagerFixture(t)

		fixture.kv.EXPECT().
			DeleteAll(gomock.Any(), sessionKeys...).
			Return(nil)

		err := fixture.manager.Logout(ctx)

		require.NoError(t, err)
	})
}

func TestManagerRestore(t *testing.T) {
	ctx := context.Background()

	expectGet := func(fixture *managerFixture, key, value string) {
		fixture.kv.EXPECT().
			Get(gomock.Any(), key).
			Return(value, nil)
	}

	expectValid := func(fixture *managerFixture, token string) {
		fixture.gateway.EXPECT().
			Validate(gomock.Any(), token).
			Return(authapi.ValidatePayload{Valid: true}, nil)
	}

	t.Run("rebuilds the session from all five keys", func(t *testing.T) {
		fixture := newManagerFixture(t)

		expectGet(fixture, constant.SessionKeyToken, "token-abc")
		expectValid(fixture, "token-abc")
		expectGet(fixture, constant.SessionKeyUserID, "7")
		expectGet(fixture, constant.SessionKeyUserName, "Ayu Lestari")
		expectGet(fixture, constant.SessionKeyUserEmail, "ayu@example.com")
		expectGet(fixture, constant.SessionKeyUserRole, constant.RoleUser)

		res, err := fixture.manager.Restore(ctx)

		require.NoError(t, err)
		assert.Equal(t, session.StatusLoggedIn, res.Status)
		assert.Equal(t, int64(7), res.User.ID)
	})

	t.Run("missing email defaults to empty", func(t *testing.T) {
		fixture := newManagerFixture(t)

		expectGet(fixture, constant.SessionKeyToken, "token-abc")
		expectValid(fixture, "token-abc")
		expectGet(fixture, constant.SessionKeyUserID, "7")
		expectGet(fixture, constant.SessionKeyUserName, "Ayu Lestari")
		expectGet(fixture, constant.SessionKeyUserEmail, "")
		expectGet(fixture, constant.SessionKeyUserRole, constant.RoleUser)

		res, err := fixture.manager.Restore(ctx)

		require.NoError(t, err)
		assert.Equal(t, session.StatusLoggedIn, res.Status)
		assert.Empty(t, res.User.Email)
	})

	t.Run("no token means a clean logged out session", func(t *testing.T) {
		fixture := newManagerFixture(t)

		expectGet(fixture, constant.SessionKeyToken, "")

		res, err := fixture.manager.Restore(ctx)

		require.NoError(t, err)
		assert.Equal(t, session.StatusLoggedOut, res.Status)
	})

	t.Run("server-rejected token wipes the session", func(t *testing.T) {
		fixture := newManagerFixture(t)

		expectGet(fixture, constant.SessionKeyToken, "token-abc")
		fixture.gateway.EXPECT().
			Validate(gomock.Any(), "token-abc").
			Return(authapi.ValidatePayload{Valid: false}, nil)
		fixture.kv.EXPECT().
			DeleteAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := fixture.manager.Restore(ctx)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindAuth))
		assert.Equal(t, session.StatusLoggedOut, res.Status)
	})

	t.Run("validation transport failure wipes the session", func(t *testing.T) {
		fixture := newManagerFixture(t)

		expectGet(fixture, constant.SessionKeyToken, "token-abc")
		fixture.gateway.EXPECT().
			Validate(gomock.Any(), "token-abc").
			Return(authapi.ValidatePayload{}, failure.Transport(errors.New("connection refused")))
		fixture.kv.EXPECT().
			DeleteAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := fixture.manager.Restore(ctx)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindTransport))
	})

	t.Run("missing name wipes the corrupt session", func(t *testing.T) {
		fixture := newManagerFixture(t)

		expectGet(fixture, constant.SessionKeyToken, "token-abc")
		expectValid(fixture, "token-abc")
		expectGet(fixture, constant.SessionKeyUserID, "7")
		expectGet(fixture, constant.SessionKeyUserName, "")
		fixture.kv.EXPECT().
			DeleteAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := fixture.manager.Restore(ctx)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindMalformedResponse))
		assert.Equal(t, session.StatusLoggedOut, res.Status)
	})

	t.Run("unparseable user id wipes the corrupt session", func(t *testing.T) {
		fixture := newManagerFixture(t)

		expectGet(fixture, constant.SessionKeyToken, "token-abc")
		expectValid(fixture, "token-abc")
		expectGet(fixture, constant.SessionKeyUserID, "not-a-number")
		fixture.kv.EXPECT().
			DeleteAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := fixture.manager.Restore(ctx)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindMalformedResponse))
	})
}

func TestManagerUpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("persists only the changed keys", func(t *testing.T) {
		fixture := loginFixture(t)

		fixture.kv.EXPECT().
			SetAll(gomock.Any(), map[string]string{
				constant.SessionKeyUserName: "Ayu Rahma",
				constant.SessionKeyUserRole: constant.RoleAdmin,
			}).
			Return(nil)

		err := fixture.manager.UpdateUser(ctx, session.User{
			Name: "Ayu Rahma",
			Role: constant.RoleAdmin,
		})

		require.NoError(t, err)
		assert.Equal(t, "Ayu Rahma", fixture.manager.Current().User.Name)
		assert.Equal(t, "ayu@example.com", fixture.manager.Current().User.Email)
	})

	t.Run("no change means no write", func(t *testing.T) {
		fixture := loginFixture(t)

		err := fixture.manager.UpdateUser(ctx, session.User{Name: "Ayu Lestari"})

		require.NoError(t, err)
	})

	t.Run("a failed write leaves the identity untouched", func(t *testing.T) {
		fixture := loginFixture(t)

		fixture.kv.EXPECT().
			SetAll(gomock.Any(), gomock.Any()).
			Return(errors.New("store unavailable"))

		err := fixture.manager.UpdateUser(ctx, session.User{Name: "Ayu Rahma"})

		require.Error(t, err)
		assert.Equal(t, "Ayu Lestari", fixture.manager.Current().User.Name)
	})

	t.Run("rejected while logged out", func(t *testing.T) {
		fixture := newManagerFixture(t)

		err := fixture.manager.UpdateUser(ctx, session.User{ID: 7})

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindState))
	})
}

func TestManagerInvites(t *testing.T) {
	t.Run("counts and groups preserve insertion order", func(t *testing.T) {
		fixture := loginFixture(t)

		fixture.manager.AddInvite(session.Invite{ID: 1, RentID: 10, Status: constant.InviteStatusPending})
		fixture.manager.AddInvite(session.Invite{ID: 2, RentID: 11, Status: constant.InviteStatusAccepted})
		fixture.manager.AddInvite(session.Invite{ID: 3, RentID: 12, Status: constant.InviteStatusPending})
		fixture.manager.AddInvite(session.Invite{ID: 4, RentID: 13, Status: constant.InviteStatusDeclined})

		assert.Equal(t, 2, fixture.manager.PendingInvitesCount())
		assert.Equal(t, 1, fixture.manager.AcceptedInvitesCount())

		groups := fixture.manager.InvitesByStatus()
		require.Len(t, groups[constant.InviteStatusPending], 2)
		assert.Equal(t, int64(1), groups[constant.InviteStatusPending][0].ID)
		assert.Equal(t, int64(3), groups[constant.InviteStatusPending][1].ID)
	})

	t.Run("adding a duplicate id updates in place", func(t *testing.T) {
		fixture := loginFixture(t)

		fixture.manager.AddInvite(session.Invite{ID: 1, RentID: 10, Status: constant.InviteStatusPending})
		fixture.manager.AddInvite(session.Invite{ID: 1, RentID: 10, Status: constant.InviteStatusAccepted})

		require.Len(t, fixture.manager.Invites(), 1)
		assert.Equal(t, constant.InviteStatusAccepted, fixture.manager.Invites()[0].Status)
	})

	t.Run("answering an invite tells the server and mutates the copy", func(t *testing.T) {
		fixture := loginFixture(t)
		fixture.manager.AddInvite(session.Invite{ID: 1, RentID: 10, Status: constant.InviteStatusPending})

		err := fixture.manager.UpdateInviteStatus(context.Background(), 1, constant.InviteStatusAccepted)

		require.NoError(t, err)
		assert.Equal(t, []int64{1}, fixture.source.responded)
		assert.Equal(t, constant.InviteStatusAccepted, fixture.manager.Invites()[0].Status)
	})

	t.Run("a server failure leaves the tracked invite untouched", func(t *testing.T) {
		fixture := loginFixture(t)
		fixture.manager.AddInvite(session.Invite{ID: 1, RentID: 10, Status: constant.InviteStatusPending})
		fixture.source.respondErr = failure.Transport(errors.New("connection refused"))

		err := fixture.manager.UpdateInviteStatus(context.Background(), 1, constant.InviteStatusAccepted)

		require.Error(t, err)
		assert.Equal(t, constant.InviteStatusPending, fixture.manager.Invites()[0].Status)
	})

	t.Run("updating an unknown invite reports not found", func(t *testing.T) {
		fixture := loginFixture(t)

		err := fixture.manager.UpdateInviteStatus(context.Background(), 99, constant.InviteStatusAccepted)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
		assert.Empty(t, fixture.source.responded)
	})

	t.Run("remove drops the invite and an unknown id is a no-op", func(t *testing.T) {
		fixture := loginFixture(t)

		fixture.manager.AddInvite(session.Invite{ID: 1, RentID: 10, Status: constant.InviteStatusPending})
		fixture.manager.RemoveInvite(1)
		fixture.manager.RemoveInvite(99)

		assert.Empty(t, fixture.manager.Invites())
		assert.Zero(t, fixture.manager.PendingInvitesCount())
	})

	t.Run("fetch replaces tracked invites with the server view", func(t *testing.T) {
		fixture := loginFixture(t)
		fixture.source.invites = []session.Invite{
			{ID: 5, RentID: 20, Status: constant.InviteStatusPending},
		}

		require.NoError(t, fixture.manager.FetchInvites(context.Background()))
		require.Len(t, fixture.manager.Invites(), 1)
		assert.Equal(t, int64(5), fixture.manager.Invites()[0].ID)
	})

	t.Run("fetch is rejected while logged out", func(t *testing.T) {
		fixture := newManagerFixture(t)

		err := fixture.manager.FetchInvites(context.Background())

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindState))
	})
}
