package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

type MockAttendanceLister struct {
	mock.Mock
}

func (m *MockAttendanceLister) List(ctx context.Context, since time.Time, limit int) ([]domain.Attendance, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attendance), args.Error(1)
}

func TestAttendanceHandler_List(t *testing.T) {
	since := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	records := []domain.Attendance{
		{ID: uuid.New(), Name: "Bob", SignatureKey: "k2", Timestamp: since.Add(time.Hour)},
		{ID: uuid.New(), Name: "Alice", SignatureKey: "k1", Timestamp: since.Add(time.Minute)},
	}

	tests := []struct {
		name       string
		query      string
		setupMock  func(*MockAttendanceLister)
		wantStatus int
		wantCode   string
		wantTotal  int
	}{
		{
			name:  "defaults",
			query: "",
			setupMock: func(m *MockAttendanceLister) {
				m.On("List", mock.Anything, time.Time{}, 0).Return(records, nil)
			},
			wantStatus: 200,
			wantTotal:  2,
		},
		{
			name:  "since and limit",
			query: "?since=2025-03-01T08:00:00Z&limit=1",
			setupMock: func(m *MockAttendanceLister) {
				m.On("List", mock.Anything, since, 1).Return(records[:1], nil)
			},
			wantStatus: 200,
			wantTotal:  1,
		},
		{
			name:  "empty log",
			query: "",
			setupMock: func(m *MockAttendanceLister) {
				m.On("List", mock.Anything, time.Time{}, 0).Return(nil, nil)
			},
			wantStatus: 200,
			wantTotal:  0,
		},
		{
			name:       "bad since",
			query:      "?since=yesterday",
			setupMock:  func(m *MockAttendanceLister) {},
			wantStatus: 400,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "bad limit",
			query:      "?limit=-5",
			setupMock:  func(m *MockAttendanceLister) {},
			wantStatus: 400,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:  "store unreachable",
			query: "",
			setupMock: func(m *MockAttendanceLister) {
				m.On("List", mock.Anything, time.Time{}, 0).Return(nil, domain.ErrStoreUnavailable.WithError(errors.New("dial tcp")))
			},
			wantStatus: 503,
			wantCode:   "STORE_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLister := new(MockAttendanceLister)
			tt.setupMock(mockLister)

			handler := NewAttendanceHandler(mockLister, testLogger())
			app := createTestApp()
			app.Get("/v1/attendance", handler.List)

			resp, err := app.Test(httptest.NewRequest("GET", "/v1/attendance"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantCode != "" {
				var body errorResponse
				decodeJSON(t, resp.Body, &body)
				assert.Equal(t, tt.wantCode, body.Error.Code)
				if tt.wantStatus == 400 {
					mockLister.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
				}
				mockLister.AssertExpectations(t)
				return
			}

			var body AttendanceListResponse
			decodeJSON(t, resp.Body, &body)
			assert.Equal(t, tt.wantTotal, body.Total)
			assert.Len(t, body.Records, tt.wantTotal)
			mockLister.AssertExpectations(t)
		})
	}
}
