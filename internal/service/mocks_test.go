package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"

	"roomly/internal/model"
)

// MockReservationRepository is a mock implementation of ReservationRepository.
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) Update(ctx context.Context, reservation *model.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) Delete(ctx context.Context, reservation *model.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context) ([]model.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Reservation, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListRange(ctx context.Context, from, to time.Time, location model.Location) ([]model.Reservation, error) {
	args := m.Called(ctx, from, to, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) CountOverlapping(ctx context.Context, location model.Location, start, end time.Time, excludeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, location, start, end, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) UpdateRemoteEventID(ctx context.Context, id uuid.UUID, remoteEventID string) error {
	args := m.Called(ctx, id, remoteEventID)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken string, expiry time.Time) error {
	args := m.Called(ctx, id, accessToken, refreshToken, expiry)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, notifications []model.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

// MockLocationRepository is a mock implementation of LocationRepository.
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) List(ctx context.Context) ([]model.LocationInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LocationInfo), args.Error(1)
}

func (m *MockLocationRepository) FindByName(ctx context.Context, name model.Location) (*model.LocationInfo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LocationInfo), args.Error(1)
}

func (m *MockLocationRepository) Upsert(ctx context.Context, location *model.LocationInfo) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

// MockTokenRefresher is a mock implementation of TokenRefresher.
type MockTokenRefresher struct {
	mock.Mock
}

func (m *MockTokenRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

// MockEventAPI is a mock implementation of google.EventAPI.
type MockEventAPI struct {
	mock.Mock
}

func (m *MockEventAPI) Insert(ctx context.Context, accessToken, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	args := m.Called(ctx, accessToken, calendarID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*calendar.Event), args.Error(1)
}

func (m *MockEventAPI) Update(ctx context.Context, accessToken, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error) {
	args := m.Called(ctx, accessToken, calendarID, eventID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*calendar.Event), args.Error(1)
}

func (m *MockEventAPI) Delete(ctx context.Context, accessToken, calendarID, eventID string) error {
	args := m.Called(ctx, accessToken, calendarID, eventID)
	return args.Error(0)
}

func (m *MockEventAPI) List(ctx context.Context, accessToken, calendarID string, from, to time.Time) ([]*calendar.Event, error) {
	args := m.Called(ctx, accessToken, calendarID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*calendar.Event), args.Error(1)
}

// MockCalendarSync is a mock implementation of CalendarSync.
type MockCalendarSync struct {
	mock.Mock
}

func (m *MockCalendarSync) CreateRemoteEvent(ctx context.Context, reservation *model.Reservation, owner *model.User) SyncResult {
	args := m.Called(ctx, reservation, owner)
	return args.Get(0).(SyncResult)
}

func (m *MockCalendarSync) UpdateRemoteEvent(ctx context.Context, reservation *model.Reservation, owner *model.User) SyncResult {
	args := m.Called(ctx, reservation, owner)
	return args.Get(0).(SyncResult)
}

func (m *MockCalendarSync) DeleteRemoteEvent(ctx context.Context, reservation *model.Reservation, owner *model.User) SyncResult {
	args := m.Called(ctx, reservation, owner)
	return args.Get(0).(SyncResult)
}

func (m *MockCalendarSync) ListRemoteEvents(ctx context.Context, owner *model.User, from, to time.Time) ([]GoogleEventView, SyncResult) {
	args := m.Called(ctx, owner, from, to)
	if args.Get(0) == nil {
		return nil, args.Get(1).(SyncResult)
	}
	return args.Get(0).([]GoogleEventView), args.Get(1).(SyncResult)
}

// MockNotifier is a mock implementation of Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, kind model.NotificationKind, reservation *model.Reservation, recipient *model.User) {
	m.Called(ctx, kind, reservation, recipient)
}

// MockTokenService is a mock implementation of TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) ValidAccessToken(ctx context.Context, user *model.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
