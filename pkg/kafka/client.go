// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"vault-archive-go/internal/config"
	"vault-archive-go/pkg/events"
	"vault-archive-go/pkg/log"

	"github.com/segmentio/kafka-go"
)

// EventProcessor defines the interface for any component that can consume an archive event.
// This decouples the Kafka consumer from the concrete event hub implementation.
type EventProcessor interface {
	Process(ctx context.Context, event events.FileEvent) error
}

var producer *kafka.Writer

// InitProducer 初始化 Kafka 生产者。
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
}

// ProduceFileEvent 发送一条档案事件到 Kafka。
func ProduceFileEvent(event events.FileEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = producer.WriteMessages(context.Background(),
		kafka.Message{
			Value: eventBytes,
		},
	)
	return err
}

// StartConsumer 启动一个 Kafka 消费者来分发档案事件。
// 事件只用于推送展示，处理失败时记录日志并提交 offset，不做重试。
func StartConsumer(cfg config.KafkaConfig, processor EventProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  "vault-archive-consumer",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("从 Kafka 读取消息失败", err)
			break
		}

		var event events.FileEvent
		if err := json.Unmarshal(m.Value, &event); err != nil {
			log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("提交错误消息失败: %v", err)
			}
			continue
		}

		if err := processor.Process(context.Background(), event); err != nil {
			log.Errorf("分发档案事件失败: action=%s, fileId=%d, error: %v", event.Action, event.FileID, err)
		}
		if err := r.CommitMessages(context.Background(), m); err != nil {
			log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
		}
	}

	if err := r.Close(); err != nil {
		log.Fatalf("关闭 Kafka 消费者失败: %v", err)
	}
}
