package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"roomly/internal/errors"
	"roomly/internal/model"
)

func TestQuantizeTime(t *testing.T) {
	day := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "already on the grid",
			input:    day,
			expected: day,
		},
		{
			name:     "seconds are dropped",
			input:    day.Add(30 * time.Second),
			expected: day,
		},
		{
			name:     "7 minutes rounds down",
			input:    day.Add(7 * time.Minute),
			expected: day,
		},
		{
			name:     "8 minutes rounds up",
			input:    day.Add(8 * time.Minute),
			expected: day.Add(15 * time.Minute),
		},
		{
			name:     "22 minutes rounds down to quarter",
			input:    day.Add(22 * time.Minute),
			expected: day.Add(15 * time.Minute),
		},
		{
			name:     "53 minutes rounds up to the hour",
			input:    day.Add(53 * time.Minute),
			expected: day.Add(time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuantizeTime(tt.input)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)

			// Quantizing twice must not move the time again.
			assert.True(t, got.Equal(QuantizeTime(got)))
		})
	}
}

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		expected bool
	}{
		{
			name:   "partial overlap",
			aStart: at(10, 0), aEnd: at(11, 0),
			bStart: at(10, 30), bEnd: at(11, 30),
			expected: true,
		},
		{
			name:   "full containment",
			aStart: at(10, 0), aEnd: at(12, 0),
			bStart: at(10, 30), bEnd: at(11, 0),
			expected: true,
		},
		{
			name:   "identical windows",
			aStart: at(10, 0), aEnd: at(11, 0),
			bStart: at(10, 0), bEnd: at(11, 0),
			expected: true,
		},
		{
			name:   "back to back is allowed",
			aStart: at(10, 0), aEnd: at(11, 0),
			bStart: at(11, 0), bEnd: at(12, 0),
			expected: false,
		},
		{
			name:   "disjoint",
			aStart: at(10, 0), aEnd: at(11, 0),
			bStart: at(13, 0), bEnd: at(14, 0),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tt.expected, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestAvailabilityChecker_IsAvailable(t *testing.T) {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name          string
		location      model.Location
		start         time.Time
		end           time.Time
		setupMock     func(*MockReservationRepository)
		expected      bool
		expectedError error
	}{
		{
			name:     "free window",
			location: model.LocationCasino,
			start:    start,
			end:      end,
			setupMock: func(m *MockReservationRepository) {
				m.On("CountOverlapping", mock.Anything, model.LocationCasino, start, end, uuid.Nil).Return(int64(0), nil)
			},
			expected: true,
		},
		{
			name:     "occupied window",
			location: model.LocationGarden,
			start:    start,
			end:      end,
			setupMock: func(m *MockReservationRepository) {
				m.On("CountOverlapping", mock.Anything, model.LocationGarden, start, end, uuid.Nil).Return(int64(1), nil)
			},
			expected: false,
		},
		{
			name:          "unknown location",
			location:      model.Location("ballroom"),
			start:         start,
			end:           end,
			setupMock:     func(m *MockReservationRepository) {},
			expectedError: errors.ErrInvalidLocation,
		},
		{
			name:          "end before start",
			location:      model.LocationGarden,
			start:         end,
			end:           start,
			setupMock:     func(m *MockReservationRepository) {},
			expectedError: errors.ErrInvalidTimeRange,
		},
		{
			name:          "zero length window",
			location:      model.LocationGarden,
			start:         start,
			end:           start,
			setupMock:     func(m *MockReservationRepository) {},
			expectedError: errors.ErrInvalidTimeRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockReservationRepository)
			tt.setupMock(mockRepo)

			checker := NewAvailabilityChecker(mockRepo)
			available, err := checker.IsAvailable(context.Background(), tt.location, tt.start, tt.end, uuid.Nil)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, available)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAvailabilityChecker_IsAvailable_ExcludesSelf(t *testing.T) {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	reservationID := uuid.New()

	mockRepo := new(MockReservationRepository)
	mockRepo.On("CountOverlapping", mock.Anything, model.LocationLounge, start, end, reservationID).Return(int64(0), nil)

	checker := NewAvailabilityChecker(mockRepo)
	available, err := checker.IsAvailable(context.Background(), model.LocationLounge, start, end, reservationID)

	assert.NoError(t, err)
	assert.True(t, available)
	mockRepo.AssertExpectations(t)
}
