package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/chativo/backend/internal/domain"
	"github.com/chativo/backend/pkg/database"
)

// Notification kinds carried on the stream.
const (
	KindVerification = "verification"
	KindResetCode    = "reset-code"
)

// Field names of a stream entry.
const (
	FieldKind  = "kind"
	FieldName  = "name"
	FieldEmail = "email"
	FieldToken = "token"
	FieldCode  = "code"
)

// StreamPublisher publishes notification jobs onto a Redis stream for the
// mailer worker. Publishing is the end of the auth service's involvement;
// delivery is the consumer's problem.
type StreamPublisher struct {
	redis  *database.Redis
	stream string
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(redis *database.Redis, stream string) *StreamPublisher {
	return &StreamPublisher{redis: redis, stream: stream}
}

// SendVerification enqueues an email verification notification.
func (p *StreamPublisher) SendVerification(ctx context.Context, user domain.UserView, token string) error {
	return p.publish(ctx, map[string]any{
		FieldKind:  KindVerification,
		FieldName:  user.Name,
		FieldEmail: user.Email,
		FieldToken: token,
	})
}

// SendResetCode enqueues a password reset code notification.
func (p *StreamPublisher) SendResetCode(ctx context.Context, user domain.UserView, code int) error {
	return p.publish(ctx, map[string]any{
		FieldKind:  KindResetCode,
		FieldName:  user.Name,
		FieldEmail: user.Email,
		FieldCode:  strconv.Itoa(code),
	})
}

func (p *StreamPublisher) publish(ctx context.Context, values map[string]any) error {
	err := p.redis.Client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}
