package main

import (
	"encoding/json"
	"log"

	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/events"
	"github.com/example/goshop/internal/infra/mq"
)

// 订单事件消费者：目前只做通知日志，后续可以接邮件/站内信。
// 它不回写任何业务表，库存和状态的变更都发生在 API 进程的事务里。
func main() {
	cfg := config.Load()
	mqConn := mq.Init(&cfg.RabbitMQ)

	ch, err := mqConn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(cfg.RabbitMQ.OrderQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}

	// 手动确认模式（auto-ack=false）
	msgs, err := ch.Consume(cfg.RabbitMQ.OrderQueue, "notify-worker", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to consume: %v", err)
	}

	log.Println("notify worker started, waiting for order events...")

	for d := range msgs {
		var ev events.OrderEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Printf("invalid event: %v", err)
			// 消息格式错误，拒绝并丢弃
			_ = d.Nack(false, false)
			continue
		}

		switch ev.Type {
		case events.TypeCreated:
			log.Printf("order %d created by buyer %d, total %s", ev.OrderID, ev.BuyerID, ev.Total)
		case events.TypeCancelled:
			log.Printf("order %d cancelled, stock restored", ev.OrderID)
		case events.TypeStatusUpdated:
			log.Printf("order %d moved to status %s", ev.OrderID, ev.Status)
		default:
			log.Printf("order %d event %s", ev.OrderID, ev.Type)
		}

		if err := d.Ack(false); err != nil {
			log.Printf("failed to ack message: %v", err)
		}
	}
}
