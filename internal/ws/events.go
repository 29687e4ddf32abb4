package ws

import (
	"time"
)

type EventType string

const (
	EventOverlay    EventType = "overlay.updated"
	EventAttendance EventType = "attendance.marked"
	EventEnrollment EventType = "enrollment.created"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
