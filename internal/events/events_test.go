package events

import (
	"sync"
	"testing"
	"time"

	"hseinspect/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	userID := uuid.New()
	event, err := decodeEvent(`{"id":"1","type":"assignment_created","channel":"send","userId":"` +
		userID.String() + `","data":{"assignmentId":"a"}}`)

	require.NoError(t, err)
	assert.Equal(t, ASSIGNMENT_CREATED, event.Type)
	assert.Equal(t, SEND_CHANNEL, event.Channel)
	require.NotNil(t, event.UserID)
	assert.Equal(t, userID, *event.UserID)
	assert.Equal(t, "a", event.Data["assignmentId"])

	_, err = decodeEvent("not json")
	assert.Error(t, err)
}

func TestNotifyLocalHandlers(t *testing.T) {
	bus := New(nil, config.Config{})
	defer bus.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	received := make(chan MessageType, 2)
	handler := func(event Event) error {
		defer wg.Done()
		received <- event.Type
		return nil
	}
	bus.handlers[SEND_CHANNEL] = []EventHandler{handler, handler}

	bus.notifyLocalHandlers(SEND_CHANNEL, Event{Type: USER_APPROVED})
	bus.notifyLocalHandlers(BROADCAST_CHANNEL, Event{Type: PING})

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handlers were not called")
	}

	assert.Equal(t, USER_APPROVED, <-received)
	assert.Equal(t, USER_APPROVED, <-received)
}
