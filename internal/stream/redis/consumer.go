package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/loop"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/task"
)

// Consumer reads generation requests from a Redis stream, runs the
// validation loop and publishes outcomes to the result stream.
type Consumer struct {
	client       *redis.Client
	stream       string
	resultStream string
	groupID      string
	consumerName string
	loop         *loop.ValidationLoop
	tasks        *task.Set
	logger       *zerolog.Logger
}

func NewConsumer(
	client *redis.Client,
	stream string,
	resultStream string,
	groupID string,
	consumerName string,
	validationLoop *loop.ValidationLoop,
	tasks *task.Set,
	logger *zerolog.Logger,
) *Consumer {
	return &Consumer{
		client:       client,
		stream:       stream,
		resultStream: resultStream,
		groupID:      groupID,
		consumerName: consumerName,
		loop:         validationLoop,
		tasks:        tasks,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	// No-op
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var genRequest models.GenerationRequest
	if err := json.Unmarshal([]byte(payload), &genRequest); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message — ACK to skip it
		return
	}

	t, err := c.tasks.Get(genRequest.Task)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Str("task", genRequest.Task).Msg("Unknown task")
		c.ack(ctx, msg.ID)
		return
	}

	result := c.loop.Execute(ctx, t, genRequest.InputData, loop.Options{
		MaxRetries: genRequest.MaxRetries,
		Debug:      genRequest.Debug,
	})
	result.ID = genRequest.EventID

	c.logger.Info().
		Str("id", msg.ID).
		Str("event_id", result.ID).
		Bool("success", result.Success).
		Int("attempts", result.Attempts).
		Msg("Generation complete")

	c.publish(ctx, result)
	c.ack(ctx, msg.ID)
}

func (c *Consumer) publish(ctx context.Context, result models.GenerationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error().Err(err).Str("event_id", result.ID).Msg("Failed to serialize result")
		return
	}

	if err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultStream,
		Values: map[string]any{"payload": string(data)},
	}).Err(); err != nil {
		c.logger.Error().Err(err).Str("event_id", result.ID).Msg("Failed to publish result")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
