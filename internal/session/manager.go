package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"conferent/infras/authapi"
	"conferent/infras/otel"
	"conferent/infras/sessionkv"
	"conferent/shared"
	"conferent/shared/constant"
	"conferent/shared/failure"
)

// InviteSource lists the invites of a user in server order and records
// the user's answer to an invite.
type InviteSource interface {
	InvitesForUser(ctx context.Context, userID int64) ([]Invite, error)
	RespondToInvite(ctx context.Context, inviteID int64, status string) error
}

// Manager holds the authenticated session of this process. The five session
// keys are written and removed as one group; observers never see a partial
// session in the store.
type Manager struct {
	gateway authapi.Gateway
	kv      sessionkv.Store
	invites InviteSource
	otel    otel.Otel

	mu      sync.RWMutex
	status  Status
	token   string
	user    User
	pending []Invite
}

// NewManager starts LoggedOut, or Restoring when the store already holds a
// token. The manager never restores by itself; the owner calls Restore.
func NewManager(gateway authapi.Gateway, kv sessionkv.Store, invites InviteSource, otl otel.Otel) *Manager {
	m := &Manager{
		gateway: gateway,
		kv:      kv,
		invites: invites,
		otel:    otl,
		status:  StatusLoggedOut,
	}

	if token, err := kv.Get(context.Background(), constant.SessionKeyToken); err == nil && token != "" {
		m.status = StatusRestoring
	}

	return m
}

var sessionKeys = []string{
	constant.SessionKeyToken,
	constant.SessionKeyUserID,
	constant.SessionKeyUserName,
	constant.SessionKeyUserEmail,
	constant.SessionKeyUserRole,
}

// Current returns a snapshot of the session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Session{Status: m.status, Token: m.token, User: m.user}
}

// Login exchanges credentials for a session. A response missing any of the
// five session fields is malformed: nothing is persisted and the session
// lands cleanly on LoggedOut.
func (m *Manager) Login(ctx context.Context, email, userPassword string) (res Session, err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelSessionScopeName, constant.OtelSessionScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	m.setStatus(StatusAuthenticating)

	defer func() {
		if err != nil {
			m.reset()
		}
	}()

	payload, err := m.gateway.Login(ctx, email, userPassword)
	if err != nil {
		return Session{Status: StatusLoggedOut}, err
	}

	if err = validateLoginPayload(payload); err != nil {
		return Session{Status: StatusLoggedOut}, err
	}

	user := User{
		ID:    payload.UserID,
		Name:  payload.UserName,
		Email: payload.UserEmail,
		Role:  payload.UserRole,
	}

	if err = m.persist(ctx, payload.AccessToken, user); err != nil {
		return Session{Status: StatusLoggedOut}, err
	}

	m.mu.Lock()
	m.status = StatusLoggedIn
	m.token = payload.AccessToken
	m.user = user
	m.mu.Unlock()

	// Invite sync is best effort, a failure never fails the login.
	if fetchErr := m.FetchInvites(ctx); fetchErr != nil {
		log.Warn().Err(fetchErr).Msg("failed to fetch invites after login")
	}

	return m.Current(), nil
}

// Logout tells the server, then clears local state. The local clear happens
// even when the server call fails.
func (m *Manager) Logout(ctx context.Context) (err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelSessionScopeName, constant.OtelSessionScopeName+".Logout")
	defer scope.End()
	defer scope.TraceIfError(err)

	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()

	if token != "" {
		if gatewayErr := m.gateway.Logout(ctx, token); gatewayErr != nil {
			log.Warn().Err(gatewayErr).Msg("server logout failed, clearing session anyway")
		}
	}

	clearErr := m.kv.DeleteAll(ctx, sessionKeys...)

	m.reset()

	if clearErr != nil {
		return fmt.Errorf("failed to clear persisted session: %w", clearErr)
	}

	return nil
}

// Restore rebuilds the session from the persisted keys. The stored token
// is checked against the auth server first. Email is optional and defaults
// to empty; a session with a rejected token or missing id, name, or role
// is treated as corrupt, wiped, and left LoggedOut.
func (m *Manager) Restore(ctx context.Context) (res Session, err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelSessionScopeName, constant.OtelSessionScopeName+".Restore")
	defer scope.End()
	defer scope.TraceIfError(err)

	m.setStatus(StatusRestoring)

	defer func() {
		if err != nil {
			if clearErr := m.kv.DeleteAll(ctx, sessionKeys...); clearErr != nil {
				log.Error().Err(clearErr).Msg("failed to wipe corrupt session")
			}

			m.reset()
		}
	}()

	token, err := m.kv.Get(ctx, constant.SessionKeyToken)
	if err != nil {
		return Session{Status: StatusLoggedOut}, err
	}

	if token == "" {
		m.reset()

		return Session{Status: StatusLoggedOut}, nil
	}

	check, err := m.gateway.Validate(ctx, token)
	if err != nil {
		return Session{Status: StatusLoggedOut}, err
	}

	if !check.Valid {
		err = failure.Auth("session token is no longer valid")

		return Session{Status: StatusLoggedOut}, err
	}

	rawID, err := m.kv.Get(ctx, constant.SessionKeyUserID)
	if err != nil {
		return Session{Status: StatusLoggedOut}, err
	}

	userID, parseErr := shared.ParseID(rawID)
	if parseErr != nil {
		err = failure.MalformedResponse(constant.SessionKeyUserID)

		return Session{Status: StatusLoggedOut}, err
	}

	name, err := m.kv.Get(ctx, constant.SessionKeyUserName)
	if err != nil {
		return Session{Status: StatusLoggedOut}, err
	}

	if name == "" {
		err = failure.MalformedResponse(constant.SessionKeyUserName)

		return Session{Status: StatusLoggedOut}, err
	}

	email, err := m.kv.Get(ctx, constant.SessionKeyUserEmail)
	if err != nil {
		return Session{Status: StatusLoggedOut}, err
	}

	role, err := m.kv.Get(ctx, constant.SessionKeyUserRole)
	if err != nil {
		return Session{Status: StatusLoggedOut}, err
	}

	if role == "" {
		err = failure.MalformedResponse(constant.SessionKeyUserRole)

		return Session{Status: StatusLoggedOut}, err
	}

	m.mu.Lock()
	m.status = StatusLoggedIn
	m.token = token
	m.user = User{ID: userID, Name: name, Email: email, Role: role}
	m.mu.Unlock()

	if fetchErr := m.FetchInvites(ctx); fetchErr != nil {
		log.Warn().Err(fetchErr).Msg("failed to fetch invites after restore")
	}

	return m.Current(), nil
}

// UpdateUser merges the non-zero fields of user into the session identity
// and re-persists only the keys that changed. The persisted subset still
// lands in the store as one write.
func (m *Manager) UpdateUser(ctx context.Context, user User) (err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelSessionScopeName, constant.OtelSessionScopeName+".UpdateUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	m.mu.RLock()
	status := m.status
	merged := m.user
	m.mu.RUnlock()

	if status != StatusLoggedIn {
		return failure.State("cannot update user while logged out")
	}

	changed := make(map[string]string)
	if user.ID != 0 && user.ID != merged.ID {
		merged.ID = user.ID
		changed[constant.SessionKeyUserID] = fmt.Sprintf("%d", user.ID)
	}
	if user.Name != "" && user.Name != merged.Name {
		merged.Name = user.Name
		changed[constant.SessionKeyUserName] = user.Name
	}
	if user.Email != "" && user.Email != merged.Email {
		merged.Email = user.Email
		changed[constant.SessionKeyUserEmail] = user.Email
	}
	if user.Role != "" && user.Role != merged.Role {
		merged.Role = user.Role
		changed[constant.SessionKeyUserRole] = user.Role
	}

	if len(changed) == 0 {
		return nil
	}

	if err = m.kv.SetAll(ctx, changed); err != nil {
		return err
	}

	m.mu.Lock()
	m.user = merged
	m.mu.Unlock()

	return nil
}

func (m *Manager) persist(ctx context.Context, token string, user User) error {
	return m.kv.SetAll(ctx, map[string]string{
		constant.SessionKeyToken:     token,
		constant.SessionKeyUserID:    fmt.Sprintf("%d", user.ID),
		constant.SessionKeyUserName:  user.Name,
		constant.SessionKeyUserEmail: user.Email,
		constant.SessionKeyUserRole:  user.Role,
	})
}

func (m *Manager) setStatus(status Status) {
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

// reset clears in-memory state. Persisted keys are the caller's problem.
func (m *Manager) reset() {
	m.mu.Lock()
	m.status = StatusLoggedOut
	m.token = ""
	m.user = User{}
	m.pending = nil
	m.mu.Unlock()
}

func validateLoginPayload(payload authapi.LoginPayload) error {
	if payload.AccessToken == "" {
		return failure.MalformedResponse("accessToken")
	}

	if payload.UserID <= 0 {
		return failure.MalformedResponse(constant.SessionKeyUserID)
	}

	if payload.UserName == "" {
		return failure.MalformedResponse(constant.SessionKeyUserName)
	}

	if payload.UserEmail == "" {
		return failure.MalformedResponse(constant.SessionKeyUserEmail)
	}

	if payload.UserRole == "" {
		return failure.MalformedResponse(constant.SessionKeyUserRole)
	}

	return nil
}
