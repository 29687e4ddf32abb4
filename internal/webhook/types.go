package webhook

import (
	"time"
)

const EventAttendanceMarked = "attendance.marked"

type EventPayload struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
