// Package notify turns account lifecycle events into email jobs on RabbitMQ.
package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oksasatya/recruitment-accounts/internal/domain/entity"
	"github.com/oksasatya/recruitment-accounts/pkg/mailer"
	mailtpl "github.com/oksasatya/recruitment-accounts/pkg/mailer/templates"
)

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitPublisher publishes JSON messages to one durable queue.
type RabbitPublisher struct {
	conn  *amqp.Connection
	ch    Channel
	Queue string
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitPublisher{conn: conn, ch: ch, Queue: queue}, nil
}

// NewRabbitPublisherWithChannel publishes over an already opened channel.
func NewRabbitPublisherWithChannel(ch Channel, queue string) *RabbitPublisher {
	return &RabbitPublisher{ch: ch, Queue: queue}
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if c, ok := p.ch.(*amqp.Channel); ok && c != nil {
		_ = c.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON publishes body to the queue through the default exchange.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, "", p.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
}

// Mail enqueues templated account emails for the email worker.
type Mail struct {
	pub     *RabbitPublisher
	appName string
	now     func() time.Time
}

func NewMail(pub *RabbitPublisher, appName string) *Mail {
	return &Mail{pub: pub, appName: appName, now: time.Now}
}

func (m *Mail) Welcome(ctx context.Context, p *entity.Profile) error {
	return m.pub.PublishJSON(ctx, mailer.EmailJob{
		To:       p.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(m.appName, p.Name, p.Email, mailtpl.WithDomain(p.Domain)),
	})
}

func (m *Mail) AccountDeleted(ctx context.Context, email, name string) error {
	return m.pub.PublishJSON(ctx, mailer.EmailJob{
		To:       email,
		Template: mailtpl.AccountDeleted,
		Data:     mailtpl.NewAccountDeletedData(m.appName, name, email, mailtpl.WithTime(m.now())),
	})
}
