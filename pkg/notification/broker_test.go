package notification

import (
	"testing"

	"github.com/gatherhub/event-manager/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	broker := NewBroker()
	channel := broker.Subscribe(1)

	delivered := broker.Publish(model.Notification{UserID: 1, Message: "hello"})
	assert.True(t, delivered)

	notification := <-channel
	assert.Equal(t, "hello", notification.Message)
}

func TestPublishWithoutSubscriber(t *testing.T) {
	broker := NewBroker()

	delivered := broker.Publish(model.Notification{UserID: 1})
	assert.False(t, delivered)
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	broker := NewBroker()
	broker.Subscribe(1)

	for i := 0; i < 16; i++ {
		require.True(t, broker.Publish(model.Notification{UserID: 1}))
	}

	delivered := broker.Publish(model.Notification{UserID: 1})
	assert.False(t, delivered)
}

func TestSubscribeTwiceReturnsSameChannel(t *testing.T) {
	broker := NewBroker()

	first := broker.Subscribe(1)
	second := broker.Subscribe(1)
	assert.Equal(t, first, second)
}

func TestCloseDropsAllSubscribers(t *testing.T) {
	broker := NewBroker()
	first := broker.Subscribe(1)
	second := broker.Subscribe(2)

	broker.Close()

	_, open := <-first
	assert.False(t, open)
	_, open = <-second
	assert.False(t, open)
	assert.False(t, broker.Publish(model.Notification{UserID: 1}))
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	broker := NewBroker()
	channel := broker.Subscribe(1)

	broker.Unsubscribe(1)

	_, open := <-channel
	assert.False(t, open)
	assert.False(t, broker.Publish(model.Notification{UserID: 1}))
}
