package pkg

import (
	"context"

	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &KafkaProducer{writer: w, topic: cfg.Topic}, nil
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Send key 用房间名，保证同一房间内事件的分区有序
func (p *KafkaProducer) Send(ctx context.Context, room string, eventType string, value []byte) error {
	msg := kafka.Message{
		Key:   []byte(room),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(eventType)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}
