package chat

import (
	"testing"
	"time"

	"github.com/saathghoomo/go-saath/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestDayLabel(t *testing.T) {
	now := time.Date(2026, time.March, 15, 18, 30, 0, 0, time.UTC)

	tcases := []struct {
		name     string
		when     time.Time
		expected string
	}{
		{"same day", time.Date(2026, time.March, 15, 2, 0, 0, 0, time.UTC), "Today"},
		{"previous day", time.Date(2026, time.March, 14, 23, 59, 0, 0, time.UTC), "Yesterday"},
		{"same year", time.Date(2026, time.January, 3, 9, 0, 0, 0, time.UTC), "Jan 3"},
		{"previous year", time.Date(2025, time.December, 31, 9, 0, 0, 0, time.UTC), "Dec 31, 2025"},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DayLabel(tc.when, now))
		})
	}
}

func TestGroupByDay(t *testing.T) {
	now := time.Date(2026, time.March, 15, 18, 30, 0, 0, time.UTC)
	at := func(day, hour int) time.Time {
		return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
	}

	messages := []types.ChatMessage{
		{Id: "m1", Timestamp: at(14, 9)},
		{Id: "m2", Timestamp: at(14, 17)},
		{Id: "m3", Timestamp: at(15, 8)},
		{Id: "m4", Timestamp: at(15, 12)},
	}

	groups := GroupByDay(messages, now)

	assert.Len(t, groups, 2)
	assert.Equal(t, "Yesterday", groups[0].Label, "groups appear in first-appearance order")
	assert.Len(t, groups[0].Messages, 2)
	assert.Equal(t, "Today", groups[1].Label)
	assert.Equal(t, "m3", groups[1].Messages[0].Id, "arrival order is preserved within a group")
	assert.Equal(t, "m4", groups[1].Messages[1].Id)
}

func TestGroupByDay_Empty(t *testing.T) {
	assert.Empty(t, GroupByDay(nil, time.Now()))
}
