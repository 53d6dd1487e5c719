package chat

import (
	"time"

	"github.com/saathghoomo/go-saath/internal/types"
)

// DayGroup is one calendar day's worth of messages, in arrival order.
type DayGroup struct {
	Label    string
	Messages []types.ChatMessage
}

// DayLabel names a message's calendar day relative to now: "Today",
// "Yesterday", or a short month/day label with the year appended only when
// it differs from the current year.
func DayLabel(t, now time.Time) string {
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	if ty == ny && tm == nm && td == nd {
		return "Today"
	}

	yy, ym, yd := now.AddDate(0, 0, -1).Date()
	if ty == yy && tm == ym && td == yd {
		return "Yesterday"
	}

	if ty != ny {
		return t.Format("Jan 2, 2006")
	}
	return t.Format("Jan 2")
}

// GroupByDay buckets messages by calendar day, preserving arrival order
// within groups and first-appearance order across groups.
func GroupByDay(messages []types.ChatMessage, now time.Time) []DayGroup {
	var groups []DayGroup
	index := make(map[string]int)

	for _, msg := range messages {
		label := DayLabel(msg.Timestamp, now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, DayGroup{Label: label})
		}
		groups[i].Messages = append(groups[i].Messages, msg)
	}

	return groups
}
