package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

const broadcastQueueName = "event-broadcast"

// Broadcast is the message put on the queue when an event is created. The
// consumer turns it into one notification per user except the creator.
type Broadcast struct {
	EventID    uint   `json:"eventId"`
	EventTitle string `json:"eventTitle"`
	CreatorID  uint   `json:"creatorId"`
	Link       string `json:"link"`
}

func NewQueue(url string, logger *slog.Logger) (*Queue, error) {
	connection, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %v", err)
	}

	_, err = channel.QueueDeclare(broadcastQueueName, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue %q: %v", broadcastQueueName, err)
	}

	return &Queue{
		connection: connection,
		channel:    channel,
		logger:     logger,
	}, nil
}

// Queue is the RabbitMQ backed broadcast queue. Event creation publishes one
// small message instead of writing a notification row per user in the HTTP
// request.
type Queue struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	logger     *slog.Logger
}

func (q *Queue) Publish(ctx context.Context, broadcast Broadcast) error {
	body, err := json.Marshal(broadcast)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast: %v", err)
	}

	err = q.channel.PublishWithContext(ctx, "", broadcastQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish broadcast: %v", err)
	}

	return nil
}

// Consume delivers queued broadcasts to handle until the channel is closed.
// A failing handle requeues the message once, a redelivered failure is
// dropped so a poisonous message can't wedge the queue.
func (q *Queue) Consume(handle func(ctx context.Context, broadcast Broadcast) error) error {
	deliveries, err := q.channel.Consume(broadcastQueueName, "event-manager", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume queue %q: %v", broadcastQueueName, err)
	}

	go func() {
		ctx := context.Background()
		for delivery := range deliveries {
			var broadcast Broadcast
			if err := json.Unmarshal(delivery.Body, &broadcast); err != nil {
				q.logger.ErrorContext(ctx, "Failed to unmarshal broadcast", "error", err)
				_ = delivery.Nack(false, false)
				continue
			}

			if err := handle(ctx, broadcast); err != nil {
				q.logger.ErrorContext(ctx, "Failed to handle broadcast", "error", err, "event", broadcast.EventID)
				_ = delivery.Nack(false, !delivery.Redelivered)
				continue
			}

			_ = delivery.Ack(false)
		}
	}()

	return nil
}

func (q *Queue) Close() error {
	if err := q.channel.Close(); err != nil {
		return err
	}
	return q.connection.Close()
}
