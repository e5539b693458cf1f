package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferent/shared/constant"
	"conferent/shared/failure"
)

var now = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	t.Run("valid invite starts pending", func(t *testing.T) {
		invite, err := New(5, 9, now)

		require.NoError(t, err)
		assert.Equal(t, constant.InviteStatusPending, invite.Status)
		assert.Equal(t, now, invite.InvitedAt)
		assert.False(t, invite.RespondedAt.Valid)
	})

	t.Run("zero user id", func(t *testing.T) {
		_, err := New(0, 9, now)

		require.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})

	t.Run("zero rent id", func(t *testing.T) {
		_, err := New(5, 0, now)

		require.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})
}

func TestRespond(t *testing.T) {
	t.Run("accept pending invite", func(t *testing.T) {
		invite, err := New(5, 9, now)
		require.NoError(t, err)

		respondedAt := now.Add(time.Hour)
		err = invite.Respond(constant.InviteStatusAccepted, respondedAt)

		require.NoError(t, err)
		assert.Equal(t, constant.InviteStatusAccepted, invite.Status)
		require.True(t, invite.RespondedAt.Valid)
		assert.Equal(t, respondedAt, invite.RespondedAt.Time)
	})

	t.Run("decline pending invite", func(t *testing.T) {
		invite, err := New(5, 9, now)
		require.NoError(t, err)

		err = invite.Respond(constant.InviteStatusDeclined, now.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, constant.InviteStatusDeclined, invite.Status)
	})

	t.Run("cannot answer with pending", func(t *testing.T) {
		invite, err := New(5, 9, now)
		require.NoError(t, err)

		err = invite.Respond(constant.InviteStatusPending, now)

		require.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})

	t.Run("cannot answer twice", func(t *testing.T) {
		invite, err := New(5, 9, now)
		require.NoError(t, err)

		require.NoError(t, invite.Respond(constant.InviteStatusAccepted, now))
		err = invite.Respond(constant.InviteStatusDeclined, now)

		require.Error(t, err)
		assert.Equal(t, failure.KindState, failure.GetKind(err))
	})
}
