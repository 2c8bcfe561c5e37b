package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ManishaKanyal21/customer-banking-app/internal/domain"
)

// TransactionPostedEvent is the payload published to the topic exchange
// whenever the posting engine commits a transaction. Downstream consumers
// (reporting, notifications) subscribe with the configured routing key.
type TransactionPostedEvent struct {
	EventID         string    `json:"eventId"`
	EventType       string    `json:"eventType"`
	TransactionID   int64     `json:"transactionId"`
	AccountID       int64     `json:"accountId"`
	OperationTypeID int       `json:"operationTypeId"`
	Amount          string    `json:"amount"`
	EventDate       time.Time `json:"eventDate"`
}

// RabbitMQPublisher implements domain.EventPublisher using RabbitMQ.
type RabbitMQPublisher struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

// NewRabbitMQPublisher connects to RabbitMQ and declares the topic exchange.
func NewRabbitMQPublisher(url, exchange, routingKey string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitMQPublisher{
		conn:       conn,
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

// PublishTransactionPosted publishes a transaction.posted event.
func (p *RabbitMQPublisher) PublishTransactionPosted(ctx context.Context, transaction *domain.Transaction) error {
	event := TransactionPostedEvent{
		EventID:         uuid.New().String(),
		EventType:       "transaction.posted",
		TransactionID:   transaction.ID,
		AccountID:       transaction.AccountID,
		OperationTypeID: transaction.OperationTypeID,
		Amount:          transaction.Amount.String(),
		EventDate:       transaction.EventDate,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close closes the channel and the connection.
func (p *RabbitMQPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return p.conn.Close()
}
