package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to BookingStatus
	}{
		{StatusPendingPayment, StatusConfirmed},
		{StatusPendingPayment, StatusPendingReview},
		{StatusPendingPayment, StatusCancelled},
		{StatusPendingReview, StatusConfirmed},
		{StatusPendingReview, StatusCancelled},
		{StatusConfirmed, StatusDelivered},
		{StatusConfirmed, StatusWaitingReturn},
		{StatusConfirmed, StatusCancelled},
		{StatusDelivered, StatusCompleted},
		{StatusDelivered, StatusFlagged},
		{StatusDelivered, StatusCancelled},
		{StatusWaitingReturn, StatusCompleted},
		{StatusWaitingReturn, StatusFlagged},
		{StatusWaitingReturn, StatusCancelled},
		{StatusFlagged, StatusCompleted},
		{StatusFlagged, StatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	forbidden := []struct {
		from, to BookingStatus
	}{
		{StatusPendingPayment, StatusDelivered},
		{StatusPendingPayment, StatusCompleted},
		{StatusConfirmed, StatusPendingPayment},
		{StatusDelivered, StatusConfirmed},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusConfirmed},
		{StatusCancelled, StatusPendingPayment},
		{StatusFlagged, StatusDelivered},
	}
	for _, tc := range forbidden {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, terminal := range TerminalStatuses {
		for _, to := range ValidStatuses {
			assert.False(t, CanTransition(terminal, to), "%s -> %s", terminal, to)
		}
	}
}

func TestCancelAllowedFromAnyNonTerminal(t *testing.T) {
	for _, from := range ActiveStatuses {
		assert.True(t, CanTransition(from, StatusCancelled), "отмена из %s", from)
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range ValidStatuses {
		assert.True(t, IsValidStatus(s), string(s))
	}
	assert.False(t, IsValidStatus("paid"))
	assert.False(t, IsValidStatus(""))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(StatusCompleted))
	assert.True(t, IsTerminalStatus(StatusCancelled))
	assert.False(t, IsTerminalStatus(StatusFlagged))
	assert.False(t, IsTerminalStatus(StatusPendingPayment))
	assert.False(t, IsTerminalStatus("unknown"))
}

func TestBookingLifecycleHelpers(t *testing.T) {
	t.Run("CanBeCancelled", func(t *testing.T) {
		b := &Booking{Status: StatusDelivered}
		assert.True(t, b.CanBeCancelled())

		b.Status = StatusCompleted
		assert.False(t, b.CanBeCancelled())
	})

	t.Run("CanBeExtended", func(t *testing.T) {
		for _, s := range []BookingStatus{StatusConfirmed, StatusDelivered, StatusWaitingReturn} {
			b := &Booking{Status: s}
			assert.True(t, b.CanBeExtended(), string(s))
		}
		for _, s := range []BookingStatus{StatusPendingPayment, StatusPendingReview, StatusFlagged, StatusCompleted, StatusCancelled} {
			b := &Booking{Status: s}
			assert.False(t, b.CanBeExtended(), string(s))
		}
	})
}
