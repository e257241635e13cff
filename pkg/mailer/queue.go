package mailer

import (
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/streadway/amqp"
)

const mailQueue = "mail_queue"

// QueueClient holds the RabbitMQ connection and channel for mail jobs.
type QueueClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewQueueClient connects to RabbitMQ and declares the mail queue.
func NewQueueClient(url string) (*QueueClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		mailQueue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", mailQueue, err)
	}

	log.Printf("RabbitMQ client connected and %s declared", mailQueue)

	return &QueueClient{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *QueueClient) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// Publish enqueues a mail job as a persistent JSON message.
func (c *QueueClient) Publish(job Job) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal mail job: %w", err)
	}

	err = c.channel.Publish(
		"",        // exchange: default
		mailQueue, // routing key: the queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish mail job: %w", err)
	}
	return nil
}

// ConsumeMailJobs delivers each queued mail job to handler, acknowledging on
// success and requeueing on failure. Blocks until the channel closes.
func (c *QueueClient) ConsumeMailJobs(handler func(Job) error) error {
	msgs, err := c.channel.Consume(
		mailQueue, // queue
		"",        // consumer tag
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", mailQueue, err)
	}

	for msg := range msgs {
		var job Job
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			log.Printf("Discarding malformed mail job: %v", err)
			msg.Nack(false, false)
			continue
		}
		if err := handler(job); err != nil {
			log.Printf("Mail job for %s failed, requeueing: %v", job.To, err)
			msg.Nack(false, true)
			continue
		}
		msg.Ack(false)
	}
	return nil
}

// QueueMailer implements the notification interface by enqueueing jobs for
// the consumer to deliver.
type QueueMailer struct {
	client *QueueClient
}

// NewQueueMailer wraps a QueueClient as a mailer.
func NewQueueMailer(client *QueueClient) *QueueMailer {
	return &QueueMailer{client: client}
}

// SendPasswordReset enqueues the reset mail for asynchronous delivery.
func (m *QueueMailer) SendPasswordReset(to, link string) error {
	return m.client.Publish(resetJob(to, link))
}
