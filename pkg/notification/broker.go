package notification

import (
	"sync"

	"github.com/gatherhub/event-manager/pkg/model"
	"golang.org/x/exp/maps"
)

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[uint]chan model.Notification),
	}
}

// Broker fans freshly created notifications out to users subscribed to the
// live stream. Delivery is best-effort, a subscriber with a full channel is
// skipped rather than blocking the publisher.
type Broker struct {
	subscribers map[uint]chan model.Notification
	lock        sync.Mutex
}

func (b *Broker) Subscribe(userID uint) <-chan model.Notification {
	b.lock.Lock()
	defer b.lock.Unlock()

	if channel, ok := b.subscribers[userID]; ok {
		return channel
	}

	channel := make(chan model.Notification, 16)
	b.subscribers[userID] = channel
	return channel
}

func (b *Broker) Unsubscribe(userID uint) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if channel, ok := b.subscribers[userID]; ok {
		close(channel)
		delete(b.subscribers, userID)
	}
}

// Close drops every remaining subscriber. Pending streams observe their
// channel closing and terminate.
func (b *Broker) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()

	for _, id := range maps.Keys(b.subscribers) {
		close(b.subscribers[id])
		delete(b.subscribers, id)
	}
}

func (b *Broker) Publish(notification model.Notification) bool {
	b.lock.Lock()
	defer b.lock.Unlock()

	channel, ok := b.subscribers[notification.UserID]
	if !ok {
		return false
	}

	select {
	case channel <- notification:
		return true
	default:
		return false
	}
}
