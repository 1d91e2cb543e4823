// Package notify is the notification sink: every notification is stored as
// a row for the in-app feed and published to the notification queue for the
// notifier worker to deliver by email. Both legs are best-effort.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rosterpro-dev/rosterpro/backend/internal/config"
	"github.com/rosterpro-dev/rosterpro/backend/internal/domain"
	"github.com/rosterpro-dev/rosterpro/backend/internal/repository"
)

const QueueName = "notification_queue"

type Service struct {
	cfg     *config.Config
	repo    *repository.Repository
	channel *amqp.Channel
}

func NewService(cfg *config.Config, repo *repository.Repository, ch *amqp.Channel) *Service {
	return &Service{
		cfg:     cfg,
		repo:    repo,
		channel: ch,
	}
}

// Enqueue never returns an error: notification failures are logged and must
// not fail the operation that raised them.
func (s *Service) Enqueue(ctx context.Context, n *domain.Notification) {
	if err := s.repo.InsertNotification(ctx, n); err != nil {
		slog.Warn("failed to store notification", "userID", n.UserID, "type", n.Type, "error", err)
	}

	user, err := s.repo.GetUserByID(ctx, n.UserID)
	if err != nil {
		slog.Warn("failed to resolve notification recipient", "userID", n.UserID, "error", err)
		return
	}

	body, err := json.Marshal(domain.NotificationMessage{
		Type:     n.Type,
		To:       user.Email,
		FullName: user.FullName,
		Title:    n.Title,
		Message:  n.Message,
	})
	if err != nil {
		slog.Warn("failed to marshal notification message", "userID", n.UserID, "error", err)
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := s.channel.PublishWithContext(
		publishCtx,
		"",
		QueueName,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		slog.Warn("failed to publish notification", "userID", n.UserID, "type", n.Type, "error", err)
	}
}
