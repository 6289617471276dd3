// Package queue_publisher publishes domain events to RabbitMQ.
// Errors are logged and returned to allow callers to ignore failures
// without interrupting the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/evhart/dayhub/internal/model"
	q "github.com/evhart/dayhub/internal/queue"
)

// Publisher implements the handler.EventPublisher contract. A fresh
// connection per publish keeps the implementation robust against
// broker restarts at the cost of throughput, which is fine for the
// low event volume here.
type Publisher struct{}

func New() *Publisher { return &Publisher{} }

// AccountRegistered publishes an account.registered event.
func (p *Publisher) AccountRegistered(ctx context.Context, a model.Account) error {
	return publish(ctx, q.ActivityEvent{
		Type:        q.TypeAccountRegistered,
		AccountUUID: a.UUID,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

// BlogPublished publishes a blog.published event.
func (p *Publisher) BlogPublished(ctx context.Context, post model.BlogPost) error {
	return publish(ctx, q.ActivityEvent{
		Type:       q.TypeBlogPublished,
		BlogUUID:   post.UUID,
		AuthorUUID: post.AuthorUUID,
		Title:      post.Title,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// publish sends one persistent message to the activity queue. The
// function never panics; any error is logged and returned so the
// caller can choose to ignore it.
func publish(ctx context.Context, event q.ActivityEvent) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(q.ActivityQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.ActivityQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
