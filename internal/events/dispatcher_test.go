package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string
	d.Subscribe(EventResetCodeIssued, func(_ context.Context, e Event) error {
		got = append(got, e.UserID)
		return nil
	})
	d.Subscribe(EventUserVerified, func(context.Context, Event) error {
		t.Fatal("unrelated handler invoked")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventResetCodeIssued, "u1", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, got)
}

func TestDispatcher_JoinsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	smtpDown := errors.New("smtp down")
	calls := 0
	d.Subscribe(EventVerificationCodeIssued, func(context.Context, Event) error {
		calls++
		return smtpDown
	})
	d.Subscribe(EventVerificationCodeIssued, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventVerificationCodeIssued, "u1", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, smtpDown)
	assert.Equal(t, 2, calls)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), NewEvent(EventPasswordReset, "u1", nil)))
}
