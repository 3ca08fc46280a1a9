package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/chativo/backend/internal/config"
	"github.com/chativo/backend/internal/notify"
	"github.com/chativo/backend/pkg/database"
)

const readBlock = 5 * time.Second

// Consumer reads notification jobs from the Redis stream and turns them
// into outbound mail. Jobs are acknowledged whether delivery succeeded or
// not: the notification contract is fire-and-forget and a broken address
// must not wedge the stream.
type Consumer struct {
	redis     *database.Redis
	cfg       config.MailerConfig
	ttl       time.Duration
	templates *Templates
	sender    *Sender
	logger    *zap.Logger
}

// NewConsumer creates a new stream consumer
func NewConsumer(
	redis *database.Redis,
	cfg config.MailerConfig,
	resetCodeTTL time.Duration,
	templates *Templates,
	sender *Sender,
	logger *zap.Logger,
) *Consumer {
	return &Consumer{
		redis:     redis,
		cfg:       cfg,
		ttl:       resetCodeTTL,
		templates: templates,
		sender:    sender,
		logger:    logger,
	}
}

// Run consumes the stream until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	err := c.redis.Client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !isBusyGroup(err) {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	c.logger.Info("Mailer consuming",
		zap.String("stream", c.cfg.Stream),
		zap.String("group", c.cfg.Group),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		streams, err := c.redis.Client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.Consumer,
			Streams:  []string{c.cfg.Stream, ">"},
			Count:    10,
			Block:    readBlock,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			c.logger.Error("failed to read stream", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				c.handle(message)
				if err := c.redis.Client.XAck(ctx, c.cfg.Stream, c.cfg.Group, message.ID).Err(); err != nil {
					c.logger.Error("failed to ack message",
						zap.String("id", message.ID), zap.Error(err))
				}
			}
		}
	}
}

func (c *Consumer) handle(message redis.XMessage) {
	kind := stringValue(message, notify.FieldKind)
	name := stringValue(message, notify.FieldName)
	email := stringValue(message, notify.FieldEmail)

	if email == "" {
		c.logger.Warn("notification without recipient", zap.String("id", message.ID))
		return
	}

	var (
		subject string
		body    string
		err     error
	)

	switch kind {
	case notify.KindVerification:
		url := fmt.Sprintf("%s/auth/confirm?token=%s", c.cfg.FrontendURL, stringValue(message, notify.FieldToken))
		subject = "Please confirm your email - Chativo"
		body, err = c.templates.Verification(name, url)
	case notify.KindResetCode:
		subject = "Your password reset code - Chativo"
		body, err = c.templates.ResetCode(name, stringValue(message, notify.FieldCode), int(c.ttl.Minutes()))
	default:
		c.logger.Warn("unknown notification kind",
			zap.String("id", message.ID), zap.String("kind", kind))
		return
	}

	if err != nil {
		c.logger.Error("failed to render notification",
			zap.String("id", message.ID), zap.Error(err))
		return
	}

	if err := c.sender.Send(email, subject, body); err != nil {
		c.logger.Error("failed to deliver notification",
			zap.String("id", message.ID), zap.Error(err))
	}
}

func stringValue(message redis.XMessage, field string) string {
	if v, ok := message.Values[field].(string); ok {
		return v
	}
	return ""
}

func isBusyGroup(err error) bool {
	return err != nil && err.Error() == "BUSYGROUP Consumer Group name already exists"
}
