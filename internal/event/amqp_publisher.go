package event

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type AMQPPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewAMQPPublisher(conn *amqp.Connection, queueName string) *AMQPPublisher {
	return &AMQPPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, evt ReviewCreated) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := declareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal review event failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         "review.created",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
			Timestamp:    evt.CreatedAt,
		},
	); err != nil {
		return fmt.Errorf("publish review event failed: %w", err)
	}
	return nil
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s failed: %w", name, err)
	}
	return nil
}
