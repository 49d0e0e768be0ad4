package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     ReservationStatus
		to       ReservationStatus
		expected bool
	}{
		{ReservationStatusPending, ReservationStatusConfirmed, true},
		{ReservationStatusPending, ReservationStatusCancelled, true},
		{ReservationStatusPending, ReservationStatusCompleted, false},
		{ReservationStatusConfirmed, ReservationStatusCompleted, true},
		{ReservationStatusConfirmed, ReservationStatusCancelled, true},
		{ReservationStatusConfirmed, ReservationStatusPending, false},
		{ReservationStatusCancelled, ReservationStatusPending, false},
		{ReservationStatusCancelled, ReservationStatusConfirmed, false},
		{ReservationStatusCompleted, ReservationStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestLocation_Valid(t *testing.T) {
	for _, loc := range AllLocations {
		assert.True(t, loc.Valid(), "expected %s to be valid", loc)
	}
	assert.False(t, Location("ballroom").Valid())
	assert.False(t, Location("").Valid())
}

func TestReservation_HasRemoteEvent(t *testing.T) {
	r := &Reservation{}
	assert.False(t, r.HasRemoteEvent())

	r.RemoteEventID = "evt-1"
	assert.True(t, r.HasRemoteEvent())
}
