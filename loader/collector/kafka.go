package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/utils"
)

// KafkaSource consumes topics as a consumer group. Offsets are marked once a record is handled.
type KafkaSource struct {
	config utils.Kafka
	format string
	emit   Emit
}

func NewKafkaSource(config utils.Kafka, format string) (*KafkaSource, error) {
	if len(config.Brokers) == 0 {
		return nil, fmt.Errorf("source.kafka.brokers is required for the kafka source")
	}
	if len(config.Topics) == 0 {
		return nil, fmt.Errorf("source.kafka.topics is required for the kafka source")
	}
	return &KafkaSource{config: config, format: format}, nil
}

func (s *KafkaSource) saramaConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	switch s.config.InitialOffset {
	case "oldest", "earliest":
		config.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		config.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	return config
}

func (s *KafkaSource) Run(ctx context.Context, emit Emit) error {
	s.emit = emit

	group, err := sarama.NewConsumerGroup(s.config.Brokers, s.config.Group, s.saramaConfig())
	if err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	defer group.Close()

	logger.Info().Strs("topics", s.config.Topics).Str("group", s.config.Group).Msg("joining kafka consumer group")

	for {
		if err := group.Consume(ctx, s.config.Topics, s); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			logger.Error().Str("err", err.Error()).Msg("consumer group error")
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (s *KafkaSource) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (s *KafkaSource) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (s *KafkaSource) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			record := s.toRecord(message)
			if err := s.emit(session.Context(), record); err != nil {
				logger.Error().Str("record", record.ID).Str("topic", message.Topic).Str("err", err.Error()).Msg("failed to emit message")
				return err
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (s *KafkaSource) toRecord(message *sarama.ConsumerMessage) schema.Record {
	headers := map[string]any{
		"kafka_topic":     message.Topic,
		"kafka_partition": message.Partition,
		"kafka_offset":    message.Offset,
	}
	if len(message.Key) > 0 {
		headers["kafka_key"] = string(message.Key)
	}
	for _, h := range message.Headers {
		if h == nil {
			continue
		}
		headers[string(h.Key)] = string(h.Value)
	}
	return schema.NewRecord(decodePayload(s.format, message.Value), headers)
}
