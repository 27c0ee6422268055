package service

import (
	"context"
	"sync"
	"vault-archive-go/pkg/events"
	"vault-archive-go/pkg/kafka"
	"vault-archive-go/pkg/log"
)

// EventHub 把 Kafka 消费到的档案事件分发给所有 WebSocket 订阅者。
// 它实现了 kafka.EventProcessor 接口。
type EventHub struct {
	mu          sync.Mutex
	subscribers map[chan events.FileEvent]struct{}
}

// NewEventHub 创建一个新的 EventHub 实例。
func NewEventHub() *EventHub {
	return &EventHub{
		subscribers: make(map[chan events.FileEvent]struct{}),
	}
}

// Subscribe 注册一个订阅者，返回接收事件的通道。
func (h *EventHub) Subscribe() chan events.FileEvent {
	ch := make(chan events.FileEvent, 16)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe 注销订阅者并关闭其通道。重复注销是安全的。
func (h *EventHub) Unsubscribe(ch chan events.FileEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// Process 将一条档案事件广播给当前所有订阅者。
// 订阅者通道已满时丢弃该订阅者的这条事件，避免慢客户端阻塞分发。
func (h *EventHub) Process(ctx context.Context, event events.FileEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			log.Warnf("[EventHub] 订阅者通道已满，丢弃事件: action=%s, fileId=%d", event.Action, event.FileID)
		}
	}
	return nil
}

// 编译期断言：EventHub 必须满足消费者所需的接口。
var _ kafka.EventProcessor = (*EventHub)(nil)

// kafkaEventPublisher 通过全局 Kafka 生产者发布档案事件。
type kafkaEventPublisher struct{}

// NewKafkaEventPublisher 创建一个基于 Kafka 的事件发布器。
func NewKafkaEventPublisher() EventPublisher {
	return kafkaEventPublisher{}
}

// Publish 发送事件到 Kafka 主题。
func (kafkaEventPublisher) Publish(event events.FileEvent) error {
	return kafka.ProduceFileEvent(event)
}
