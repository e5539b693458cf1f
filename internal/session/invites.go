package session

import (
	"context"

	"conferent/shared/constant"
	"conferent/shared/failure"
)

// FetchInvites replaces the tracked invites with the server's view. It
// requires a logged-in session.
func (m *Manager) FetchInvites(ctx context.Context) error {
	m.mu.RLock()
	status := m.status
	userID := m.user.ID
	m.mu.RUnlock()

	if status != StatusLoggedIn {
		return failure.State("cannot fetch invites while logged out")
	}

	invites, err := m.invites.InvitesForUser(ctx, userID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.pending = invites
	m.mu.Unlock()

	return nil
}

// AddInvite appends an invite. A duplicate id updates the existing entry in
// place instead of growing the list.
func (m *Manager) AddInvite(invite Invite) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.pending {
		if existing.ID == invite.ID {
			m.pending[i] = invite

			return
		}
	}

	m.pending = append(m.pending, invite)
}

// RemoveInvite drops the invite with the given id. Unknown ids are a no-op.
func (m *Manager) RemoveInvite(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.pending {
		if existing.ID == id {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)

			return
		}
	}
}

// UpdateInviteStatus records the user's answer with the server and then
// mutates the tracked invite. The local copy only changes when the server
// accepted the answer.
func (m *Manager) UpdateInviteStatus(ctx context.Context, id int64, status string) error {
	m.mu.RLock()
	known := false
	for _, existing := range m.pending {
		if existing.ID == id {
			known = true

			break
		}
	}
	m.mu.RUnlock()

	if !known {
		return failure.NotFound("invite")
	}

	if err := m.invites.RespondToInvite(ctx, id, status); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.pending {
		if existing.ID == id {
			m.pending[i].Status = status

			break
		}
	}

	return nil
}

// Invites returns a copy of the tracked invites in insertion order.
func (m *Manager) Invites() []Invite {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Invite, len(m.pending))
	copy(out, m.pending)

	return out
}

// PendingInvitesCount counts invites still waiting for an answer.
func (m *Manager) PendingInvitesCount() int {
	return m.countByStatus(constant.InviteStatusPending)
}

// AcceptedInvitesCount counts invites the user accepted.
func (m *Manager) AcceptedInvitesCount() int {
	return m.countByStatus(constant.InviteStatusAccepted)
}

func (m *Manager) countByStatus(status string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, invite := range m.pending {
		if invite.Status == status {
			count++
		}
	}

	return count
}

// InvitesByStatus groups the tracked invites by status. Within each group
// the insertion order is preserved.
func (m *Manager) InvitesByStatus() map[string][]Invite {
	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make(map[string][]Invite)
	for _, invite := range m.pending {
		groups[invite.Status] = append(groups[invite.Status], invite)
	}

	return groups
}
