package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrReservationConflict is returned when a requested time window overlaps
	// an existing non-cancelled reservation at the same location. It is the
	// only error that blocks an otherwise valid local mutation.
	ErrReservationConflict = errors.New("location is already reserved for this time window")
	// ErrReservationNotFound is returned when a reservation does not exist.
	ErrReservationNotFound = errors.New("reservation not found")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidTimeRange is returned when start is not strictly before end
	// after quantization.
	ErrInvalidTimeRange = errors.New("start time must be before end time")
	// ErrInvalidLocation is returned when the location is not one of the
	// known bookable spaces.
	ErrInvalidLocation = errors.New("unknown location")
	// ErrInvalidPeopleCount is returned when people_count is not positive or
	// exceeds the location capacity.
	ErrInvalidPeopleCount = errors.New("invalid people count")
	// ErrInvalidStatusTransition is returned when a status change is not
	// allowed by the reservation state machine.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	// ErrForbidden is returned when the caller is neither the owner of the
	// reservation nor an admin.
	ErrForbidden = errors.New("operation not allowed for this user")
	// ErrNoCredentials is returned when a user holds no OAuth credential pair
	// and must re-authenticate before calendar sync can work.
	ErrNoCredentials = errors.New("no stored credentials, re-authentication required")
	// ErrRefreshFailed is returned when exchanging the refresh token fails.
	// Stored tokens are left in place so the caller can prompt re-auth.
	ErrRefreshFailed = errors.New("token refresh failed, re-authentication required")
	// ErrEmailDomainNotAllowed is returned during login when the Google
	// account's email is outside the configured domain.
	ErrEmailDomainNotAllowed = errors.New("email domain is not allowed")
	// ErrInvalidOAuthState is returned when the OAuth callback state nonce is
	// missing, expired, or already consumed.
	ErrInvalidOAuthState = errors.New("invalid or expired oauth state")
	// ErrInvalidSession is returned when a session token does not match a
	// live server-side session record.
	ErrInvalidSession = errors.New("invalid or expired session")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrReservationConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "RESERVATION_CONFLICT")
	case errors.Is(err, ErrReservationNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RESERVATION_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidTimeRange):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TIME_RANGE")
	case errors.Is(err, ErrInvalidLocation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_LOCATION")
	case errors.Is(err, ErrInvalidPeopleCount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PEOPLE_COUNT")
	case errors.Is(err, ErrInvalidStatusTransition):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "INVALID_STATUS_TRANSITION")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrNoCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "NO_CREDENTIALS")
	case errors.Is(err, ErrRefreshFailed):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "REFRESH_FAILED")
	case errors.Is(err, ErrEmailDomainNotAllowed):
		return NewHTTPError(http.StatusForbidden, err.Error(), "EMAIL_DOMAIN_NOT_ALLOWED")
	case errors.Is(err, ErrInvalidOAuthState):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_OAUTH_STATE")
	case errors.Is(err, ErrInvalidSession):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_SESSION")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
