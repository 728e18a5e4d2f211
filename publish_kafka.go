package match

import (
	"context"
	"strconv"
	"time"

	"github.com/0x5487/trading-core/protocol"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublishLog streams book logs to a Kafka topic, keyed by symbol so that
// every symbol's events land on one partition in sequence order.
type KafkaPublishLog struct {
	writer     kafkaWriter
	serializer protocol.Serializer
}

// NewKafkaPublishLog creates an asynchronous publisher; Publish never waits for the brokers.
func NewKafkaPublishLog(brokers []string, topic string) *KafkaPublishLog {
	return newKafkaPublishLog(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("kafka publish failed", zap.Int("messages", len(messages)), zap.Error(err))
			}
		},
	})
}

func newKafkaPublishLog(writer kafkaWriter) *KafkaPublishLog {
	return &KafkaPublishLog{
		writer:     writer,
		serializer: &protocol.DefaultJSONSerializer{},
	}
}

// Publish encodes the logs and hands them to the writer.
func (p *KafkaPublishLog) Publish(logs ...*OrderBookLog) {
	msgs := make([]kafka.Message, 0, len(logs))
	for _, log := range logs {
		value, err := p.serializer.Marshal(log)
		if err != nil {
			logger.Error("encode book log failed", zap.String("symbol", log.Symbol), zap.Uint64("seq_id", log.SequenceID), zap.Error(err))
			continue
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(log.Symbol),
			Value: value,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(log.Type)},
				{Key: "seq_id", Value: []byte(strconv.FormatUint(log.SequenceID, 10))},
			},
			Time: log.CreatedAt,
		})
	}
	if len(msgs) == 0 {
		return
	}

	if err := p.writer.WriteMessages(context.Background(), msgs...); err != nil {
		logger.Error("kafka write failed", zap.Int("messages", len(msgs)), zap.Error(err))
	}
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublishLog) Close() error {
	return p.writer.Close()
}
