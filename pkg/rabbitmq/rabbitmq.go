package rabbitmq

import (
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

const (
	// ExchangeOrders is the topic exchange all order events flow through.
	ExchangeOrders = "orders"
	// QueueOrderEvents buffers order events for this service's consumer.
	QueueOrderEvents = "order_events"
	// BindingOrderEvents matches every order.* routing key.
	BindingOrderEvents = "order.#"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the orders
// topology: a durable topic exchange plus a durable queue bound to it.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		ExchangeOrders,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", ExchangeOrders, err)
	}

	if _, err := ch.QueueDeclare(
		QueueOrderEvents,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", QueueOrderEvents, err)
	}

	if err := ch.QueueBind(QueueOrderEvents, BindingOrderEvents, ExchangeOrders, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue %s: %w", QueueOrderEvents, err)
	}

	log.Println("RabbitMQ client connected, orders topology declared.")

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
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
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message to the given exchange with the
// given routing key.
func (c *Client) Publish(exchange, routingKey string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	err := c.channel.Publish(
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf(" [x] Sent %s: %s", routingKey, body)
	return nil
}

// ConsumeOrderEvents registers a consumer on the order events queue and
// processes deliveries with the given handler in a background goroutine.
// Failed messages are nacked and requeued.
func (c *Client) ConsumeOrderEvents(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		QueueOrderEvents,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for order events on %s", QueueOrderEvents)

	go func() {
		for msg := range msgs {
			if err := messageHandler(msg); err != nil {
				log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
				if requeueErr := msg.Nack(false, true); requeueErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, requeueErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}

// LogOrderMessage is a default consumer handler that records the event.
func LogOrderMessage(msg amqp.Delivery) error {
	log.Printf("Order event [%s]: %s", msg.RoutingKey, string(msg.Body))
	return nil
}
