package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferent/shared/constant"
	"conferent/shared/failure"
)

var base = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func validRent() Rent {
	return Rent{
		ID:        1,
		UserID:    7,
		RoomID:    3,
		RoomName:  "Emerald",
		Purpose:   "Weekly sync",
		StartTime: base,
		EndTime:   base.Add(45 * time.Minute),
		Status:    constant.RentStatusPending,
	}
}

func TestNew(t *testing.T) {
	t.Run("valid reservation", func(t *testing.T) {
		rent, err := New(7, 3, "Emerald", "Weekly sync", base, base.Add(45*time.Minute), "")

		require.NoError(t, err)
		assert.Equal(t, constant.RentStatusPending, rent.Status)
		assert.Equal(t, int64(45), rent.DurationMinutes())
	})

	t.Run("explicit status is kept", func(t *testing.T) {
		rent, err := New(7, 3, "Emerald", "Weekly sync", base, base.Add(time.Hour), constant.RentStatusConfirmed)

		require.NoError(t, err)
		assert.Equal(t, constant.RentStatusConfirmed, rent.Status)
	})

	testCases := []struct {
		name      string
		userID    int64
		roomID    int64
		roomName  string
		purpose   string
		startTime time.Time
		endTime   time.Time
		status    string
	}{
		{
			name:     "zero user id",
			userID:   0,
			roomID:   3,
			roomName: "Emerald", purpose: "Weekly sync",
			startTime: base, endTime: base.Add(time.Hour),
		},
		{
			name:     "negative room id",
			userID:   7,
			roomID:   -1,
			roomName: "Emerald", purpose: "Weekly sync",
			startTime: base, endTime: base.Add(time.Hour),
		},
		{
			name:     "blank room name",
			userID:   7,
			roomID:   3,
			roomName: "   ", purpose: "Weekly sync",
			startTime: base, endTime: base.Add(time.Hour),
		},
		{
			name:     "blank purpose",
			userID:   7,
			roomID:   3,
			roomName: "Emerald", purpose: "",
			startTime: base, endTime: base.Add(time.Hour),
		},
		{
			name:     "start equals end",
			userID:   7,
			roomID:   3,
			roomName: "Emerald", purpose: "Weekly sync",
			startTime: base, endTime: base,
		},
		{
			name:     "start after end",
			userID:   7,
			roomID:   3,
			roomName: "Emerald", purpose: "Weekly sync",
			startTime: base.Add(time.Hour), endTime: base,
		},
		{
			name:     "shorter than 30 minutes",
			userID:   7,
			roomID:   3,
			roomName: "Emerald", purpose: "Weekly sync",
			startTime: base, endTime: base.Add(29 * time.Minute),
		},
		{
			name:     "longer than 480 minutes",
			userID:   7,
			roomID:   3,
			roomName: "Emerald", purpose: "Weekly sync",
			startTime: base, endTime: base.Add(481 * time.Minute),
		},
		{
			name:     "unknown status",
			userID:   7,
			roomID:   3,
			roomName: "Emerald", purpose: "Weekly sync",
			startTime: base, endTime: base.Add(time.Hour),
			status: "ARCHIVED",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.userID, tc.roomID, tc.roomName, tc.purpose, tc.startTime, tc.endTime, tc.status)

			require.Error(t, err)
			assert.Equal(t, failure.KindValidation, failure.GetKind(err))
		})
	}

	t.Run("boundary durations are valid", func(t *testing.T) {
		_, err := New(7, 3, "Emerald", "Weekly sync", base, base.Add(30*time.Minute), "")
		assert.NoError(t, err)

		_, err = New(7, 3, "Emerald", "Weekly sync", base, base.Add(480*time.Minute), "")
		assert.NoError(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validRent().Validate())
	})

	t.Run("missing id", func(t *testing.T) {
		rent := validRent()
		rent.ID = 0

		err := rent.Validate()

		require.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})
}

func TestDurationMinutes(t *testing.T) {
	rent := validRent()
	assert.Equal(t, int64(45), rent.DurationMinutes())

	rent.EndTime = base.Add(45*time.Minute + 30*time.Second)
	assert.Equal(t, int64(45), rent.DurationMinutes())

	rent.EndTime = base.Add(8 * time.Hour)
	assert.Equal(t, int64(480), rent.DurationMinutes())
}

func TestIsCancellable(t *testing.T) {
	testCases := []struct {
		name     string
		status   string
		now      time.Time
		expected bool
	}{
		{
			name:     "two hours before start",
			status:   constant.RentStatusConfirmed,
			now:      base.Add(-2 * time.Hour),
			expected: true,
		},
		{
			name:     "thirty minutes before start",
			status:   constant.RentStatusConfirmed,
			now:      base.Add(-30 * time.Minute),
			expected: false,
		},
		{
			name:     "exactly at the cutoff",
			status:   constant.RentStatusPending,
			now:      base.Add(-time.Hour),
			expected: false,
		},
		{
			name:     "just inside the cutoff",
			status:   constant.RentStatusPending,
			now:      base.Add(-time.Hour - time.Second),
			expected: true,
		},
		{
			name:     "already cancelled",
			status:   constant.RentStatusCancelled,
			now:      base.Add(-24 * time.Hour),
			expected: false,
		},
		{
			name:     "already completed",
			status:   constant.RentStatusCompleted,
			now:      base.Add(-24 * time.Hour),
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rent := validRent()
			rent.Status = tc.status

			assert.Equal(t, tc.expected, rent.IsCancellable(tc.now))
		})
	}
}

func TestCanBeCancelled(t *testing.T) {
	testCases := []struct {
		name     string
		userID   int64
		status   string
		now      time.Time
		expected bool
	}{
		{
			name:     "owner outside the cutoff",
			userID:   7,
			status:   constant.RentStatusConfirmed,
			now:      base.Add(-2 * time.Hour),
			expected: true,
		},
		{
			name:     "different user outside the cutoff",
			userID:   8,
			status:   constant.RentStatusConfirmed,
			now:      base.Add(-2 * time.Hour),
			expected: false,
		},
		{
			name:     "owner inside the cutoff",
			userID:   7,
			status:   constant.RentStatusConfirmed,
			now:      base.Add(-30 * time.Minute),
			expected: false,
		},
		{
			name:     "owner of a cancelled reservation",
			userID:   7,
			status:   constant.RentStatusCancelled,
			now:      base.Add(-24 * time.Hour),
			expected: false,
		},
		{
			name:     "owner of a completed reservation",
			userID:   7,
			status:   constant.RentStatusCompleted,
			now:      base.Add(-24 * time.Hour),
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rent := validRent()
			rent.Status = tc.status

			assert.Equal(t, tc.expected, rent.CanBeCancelled(tc.userID, tc.now))
		})
	}
}

func TestIsInProgress(t *testing.T) {
	testCases := []struct {
		name     string
		status   string
		now      time.Time
		expected bool
	}{
		{
			name:     "confirmed at start",
			status:   constant.RentStatusConfirmed,
			now:      base,
			expected: true,
		},
		{
			name:     "confirmed midway",
			status:   constant.RentStatusConfirmed,
			now:      base.Add(20 * time.Minute),
			expected: true,
		},
		{
			name:     "confirmed at end",
			status:   constant.RentStatusConfirmed,
			now:      base.Add(45 * time.Minute),
			expected: false,
		},
		{
			name:     "confirmed before start",
			status:   constant.RentStatusConfirmed,
			now:      base.Add(-time.Minute),
			expected: false,
		},
		{
			name:     "pending midway",
			status:   constant.RentStatusPending,
			now:      base.Add(20 * time.Minute),
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rent := validRent()
			rent.Status = tc.status

			assert.Equal(t, tc.expected, rent.IsInProgress(tc.now))
		})
	}
}

func TestIsPast(t *testing.T) {
	rent := validRent()

	assert.False(t, rent.IsPast(rent.EndTime))
	assert.True(t, rent.IsPast(rent.EndTime.Add(time.Second)))
	assert.False(t, rent.IsPast(rent.StartTime))
}

func TestIsUpcoming(t *testing.T) {
	rent := validRent()

	assert.True(t, rent.IsUpcoming(base.Add(-time.Hour)))
	assert.False(t, rent.IsUpcoming(base))

	rent.Status = constant.RentStatusCancelled
	assert.False(t, rent.IsUpcoming(base.Add(-time.Hour)))
}

func TestOverlaps(t *testing.T) {
	rent := validRent()

	assert.True(t, rent.Overlaps(base.Add(-time.Hour), base.Add(time.Minute)))
	assert.True(t, rent.Overlaps(base.Add(10*time.Minute), base.Add(20*time.Minute)))
	assert.False(t, rent.Overlaps(rent.EndTime, rent.EndTime.Add(time.Hour)))
	assert.False(t, rent.Overlaps(base.Add(-time.Hour), base))
}

func TestCanTransitionTo(t *testing.T) {
	testCases := []struct {
		from     string
		to       string
		expected bool
	}{
		{constant.RentStatusPending, constant.RentStatusConfirmed, true},
		{constant.RentStatusPending, constant.RentStatusCancelled, true},
		{constant.RentStatusPending, constant.RentStatusCompleted, false},
		{constant.RentStatusConfirmed, constant.RentStatusCompleted, true},
		{constant.RentStatusConfirmed, constant.RentStatusCancelled, true},
		{constant.RentStatusCancelled, constant.RentStatusConfirmed, false},
		{constant.RentStatusCompleted, constant.RentStatusCancelled, false},
	}

	for _, tc := range testCases {
		t.Run(tc.from+" to "+tc.to, func(t *testing.T) {
			rent := validRent()
			rent.Status = tc.from

			assert.Equal(t, tc.expected, rent.CanTransitionTo(tc.to))
		})
	}
}
