package session

import (
	"context"

	inviteDto "conferent/internal/domains/invite/model/dto"
	inviteService "conferent/internal/domains/invite/service"
	gDto "conferent/shared/dto"
)

// inviteSource feeds the manager from the invite domain when the session
// core runs in the same process as the API.
type inviteSource struct {
	invites inviteService.Invite
}

func NewInviteSource(invites inviteService.Invite) InviteSource {
	return &inviteSource{invites: invites}
}

func (s *inviteSource) InvitesForUser(ctx context.Context, userID int64) ([]Invite, error) {
	params := gDto.QueryParams{
		Page:  1,
		Limit: 100,
	}

	res, err := s.invites.GetByUser(ctx, params, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Invite, len(res.Invites))
	for i, invite := range res.Invites {
		out[i] = Invite{
			ID:     invite.ID,
			RentID: invite.RentID,
			Status: invite.Status,
		}
	}

	return out, nil
}

func (s *inviteSource) RespondToInvite(ctx context.Context, inviteID int64, status string) error {
	return s.invites.Respond(ctx, inviteID, inviteDto.RespondInviteRequest{Status: status})
}
