package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shopspring/decimal"
)

// 订单事件类型
const (
	TypeCreated       = "created"
	TypeCancelled     = "cancelled"
	TypeStatusUpdated = "status_updated"
)

// OrderEvent 订单生命周期事件，事务提交后发布
type OrderEvent struct {
	OrderID  int64           `json:"order_id"`
	BuyerID  int64           `json:"buyer_id"`
	Type     string          `json:"type"`
	Status   string          `json:"status"`
	Total    decimal.Decimal `json:"total"`
	Occurred time.Time       `json:"occurred"`
}

// Publisher 订单事件发布器
type Publisher struct {
	conn  *amqp.Connection
	queue string
}

// NewPublisher 构建发布器，conn 为 nil 时 Publish 直接返回 nil（本地开发可不起 MQ）
func NewPublisher(conn *amqp.Connection, queue string) *Publisher {
	return &Publisher{conn: conn, queue: queue}
}

// Publish 发布一条订单事件
func (p *Publisher) Publish(ctx context.Context, ev *OrderEvent) error {
	if p == nil || p.conn == nil {
		return nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return err
	}

	if ev.Occurred.IsZero() {
		ev.Occurred = time.Now()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}
