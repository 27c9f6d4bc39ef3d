package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/gobblego/utils"
)

func TestHubKeepsBoundedHistory(t *testing.T) {
	utils.SilenceLoggers()
	hub := NewHub(3)

	for i := 0; i < 5; i++ {
		hub.Info(EventNotice, "hello", i)
	}

	recent := hub.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, uint64(3), recent[0].ID)
	assert.Equal(t, uint64(5), recent[2].ID)

	last := hub.Recent(1)
	require.Len(t, last, 1)
	assert.Equal(t, 4, last[0].Data)
}

func TestHubSince(t *testing.T) {
	utils.SilenceLoggers()
	hub := NewHub(10)
	hub.Info(EventCartUpdated, "one", nil)
	hub.Error(EventCartError, "two", nil)

	notices := hub.Since(1)
	require.Len(t, notices, 1)
	assert.Equal(t, LevelError, notices[0].Level)
	assert.Equal(t, "two", notices[0].Message)
	assert.Empty(t, hub.Since(2))
}

func TestHubSubscribe(t *testing.T) {
	utils.SilenceLoggers()
	hub := NewHub(10)
	ch, cancel := hub.Subscribe(1)

	hub.Error(EventPaymentFailed, "verification failed", nil)
	notice := <-ch
	assert.Equal(t, EventPaymentFailed, notice.Event)

	// buffer penuh, publish tidak boleh blocking
	hub.Info(EventNotice, "a", nil)
	hub.Info(EventNotice, "b", nil)

	cancel()
	cancel()
	_, open := <-ch
	assert.True(t, open)
	_, open = <-ch
	assert.False(t, open)
}
