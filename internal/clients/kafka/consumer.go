package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/notify"
)

type consumerConfig interface {
	producerConfig
	ConsumerGroup() string
}

type notificationProcessor interface {
	Process(ctx context.Context, req notify.Request) error
}

type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	topic         string
	processor     notificationProcessor
}

func NewConsumer(cfg consumerConfig, processor notificationProcessor) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers(), cfg.ConsumerGroup(), config)
	return &Consumer{
		consumerGroup: consumerGroup,
		topic:         cfg.NotificationsTopic(),
		processor:     processor,
	}, err
}

func (c *Consumer) StartConsuming(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
			if err != nil {
				return errors.Wrap(err, fmt.Sprintf("consume from %s", c.topic))
			}
		}
	}
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - setup")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - cleanup")
	return nil
}

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var req notify.Request
		err := json.Unmarshal(message.Value, &req)
		if err != nil {
			logger.Error("cannot unmarshal kafka message", zap.Error(err))
		} else {
			logger.Info(
				"received notification request",
				zap.ByteString("key", message.Key),
				zap.Int64("userID", req.UserID),
				zap.String("recordID", req.Record.ID),
			)
			if procErr := c.processor.Process(session.Context(), req); procErr != nil {
				logger.Error("failed to process notification", zap.Error(procErr))
			}
		}
		session.MarkMessage(message, "")
	}

	return nil
}
