package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *http.Client
}

const webhookTimeout = 5 * time.Second

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     &http.Client{Timeout: webhookTimeout},
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCustomerRegistered, n.handleCustomerRegistered)
	n.dispatcher.Subscribe(events.EventOrderCreated, n.handleOrderCreated)
	n.dispatcher.Subscribe(events.EventOrderStateChanged, n.handleOrderStateChanged)
	n.dispatcher.Subscribe(events.EventOrderItemAdded, n.handleOrderItemChanged)
	n.dispatcher.Subscribe(events.EventOrderItemUpdated, n.handleOrderItemChanged)
	n.dispatcher.Subscribe(events.EventOrderItemDeleted, n.handleOrderItemChanged)
}

// Admins activate new accounts by hand, so they hear about every registration.
func (n *NotificationService) handleCustomerRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("CustomerRegistered", zap.String("customer_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.logEmailNotification(event)
	return nil
}

func (n *NotificationService) handleOrderCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("OrderCreated", zap.String("order_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.logEmailNotification(event)
	return n.postWebhook(ctx, event)
}

func (n *NotificationService) handleOrderStateChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("OrderStateChanged",
		zap.String("order_id", event.AggregateID),
		zap.String("actor", event.Actor.Username),
		zap.Any("payload", event.Payload))
	n.logEmailNotification(event)
	return n.postWebhook(ctx, event)
}

func (n *NotificationService) handleOrderItemChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("OrderItemChanged",
		zap.String("order_id", event.AggregateID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload))
	return n.postWebhook(ctx, event)
}

// logEmailNotification records the mail an SMTP relay would send. No relay is configured yet.
func (n *NotificationService) logEmailNotification(event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email notification",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("aggregate_id", event.AggregateID),
		zap.String("event_type", string(event.Type)))
}

// postWebhook sends the event as JSON to the configured webhook URL.
func (n *NotificationService) postWebhook(ctx context.Context, event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	n.logger.Debug("webhook delivered",
		zap.String("event_type", string(event.Type)),
		zap.String("aggregate_id", event.AggregateID))
	return nil
}
