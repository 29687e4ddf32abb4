package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

func newBufferedLogger() (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil))), &buf
}

func firstEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	return entry
}

func TestSlogLogger_Log(t *testing.T) {
	tests := []struct {
		name          string
		event         Event
		wantEventType string
		wantSuccess   bool
		wantContains  []string
	}{
		{
			name: "enrollment created",
			event: Event{
				EventType:    EventEnrollmentCreated,
				Name:         "Alice",
				SignatureKey: "0.5:0.5:0.5:0.5:0.5:0.5:0.5:0.5",
				Success:      true,
			},
			wantEventType: string(EventEnrollmentCreated),
			wantSuccess:   true,
			wantContains:  []string{"Alice", "0.5:0.5:0.5:0.5:0.5:0.5:0.5:0.5"},
		},
		{
			name: "enrollment rejected",
			event: Event{
				EventType: EventEnrollmentRejected,
				Name:      "Mallory",
				Success:   false,
				Error:     "ALREADY_ENROLLED",
				Metadata:  map[string]string{"existing_name": "Alice"},
			},
			wantEventType: string(EventEnrollmentRejected),
			wantSuccess:   false,
			wantContains:  []string{"ALREADY_ENROLLED", "existing_name"},
		},
		{
			name: "with IP and user agent",
			event: Event{
				EventType: EventEnrollmentCreated,
				Name:      "Bob",
				Success:   true,
				IPAddress: "192.168.1.1",
				UserAgent: "Mozilla/5.0",
			},
			wantEventType: string(EventEnrollmentCreated),
			wantSuccess:   true,
			wantContains:  []string{"192.168.1.1", "Mozilla/5.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auditLogger, buf := newBufferedLogger()

			err := auditLogger.Log(context.Background(), tt.event)
			require.NoError(t, err)

			entry := firstEntry(t, buf)
			assert.Equal(t, "audit_event", entry["msg"])
			assert.Equal(t, "audit", entry["component"])
			assert.Equal(t, tt.wantEventType, entry["event_type"])
			assert.Equal(t, tt.wantSuccess, entry["success"])

			for _, s := range tt.wantContains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestSlogLogger_Log_GeneratesIDAndTimestamp(t *testing.T) {
	auditLogger, buf := newBufferedLogger()

	err := auditLogger.Log(context.Background(), Event{
		EventType: EventEnrollmentCreated,
		Success:   true,
	})
	require.NoError(t, err)

	entry := firstEntry(t, buf)
	eventID, ok := entry["event_id"].(string)
	require.True(t, ok)
	_, err = uuid.Parse(eventID)
	assert.NoError(t, err)

	var data Event
	require.NoError(t, json.Unmarshal([]byte(entry["event_data"].(string)), &data))
	assert.False(t, data.Timestamp.IsZero())
}

func TestSlogLogger_Log_UsesProvidedIDAndTimestamp(t *testing.T) {
	auditLogger, buf := newBufferedLogger()
	expectedID := uuid.New()
	expectedTimestamp := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	err := auditLogger.Log(context.Background(), Event{
		ID:        expectedID,
		Timestamp: expectedTimestamp,
		EventType: EventEnrollmentCreated,
		Success:   true,
	})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, expectedID.String())
	assert.Contains(t, output, "2024-01-15T10:30:00Z")
}

func TestSlogLogger_Emit(t *testing.T) {
	auditLogger, buf := newBufferedLogger()
	attendance := domain.Attendance{
		ID:           uuid.New(),
		Name:         "Bob",
		SignatureKey: "0.1:0.2:0.1:0.2:0.3:0.4:0.2:0.3",
		Timestamp:    time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	err := auditLogger.Emit(context.Background(), attendance)
	require.NoError(t, err)

	entry := firstEntry(t, buf)
	assert.Equal(t, string(EventAttendanceMarked), entry["event_type"])
	assert.Equal(t, attendance.ID.String(), entry["event_id"])

	var data Event
	require.NoError(t, json.Unmarshal([]byte(entry["event_data"].(string)), &data))
	assert.Equal(t, "Bob", data.Name)
	assert.Equal(t, attendance.SignatureKey, data.SignatureKey)
	assert.True(t, data.Timestamp.Equal(attendance.Timestamp))
}

func TestNoOpLogger_Log(t *testing.T) {
	logger := &NoOpLogger{}

	err := logger.Log(context.Background(), Event{
		EventType: EventEnrollmentCreated,
		Success:   true,
	})

	assert.NoError(t, err)
}

func TestLoggerInterface_Compliance(t *testing.T) {
	var _ Logger = (*SlogLogger)(nil)
	var _ Logger = (*NoOpLogger)(nil)
}

func TestEvent_JSONSerialization_OmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(Event{
		EventType: EventAttendanceMarked,
		Success:   true,
	})
	require.NoError(t, err)

	jsonStr := string(data)
	assert.NotContains(t, jsonStr, "signature_key")
	assert.NotContains(t, jsonStr, "error")
	assert.NotContains(t, jsonStr, "ip_address")
	assert.NotContains(t, jsonStr, "user_agent")
}
