package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/infra/events"
	"github.com/furatpay/gateway/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func (d *paymentDomain) HandleNotification(ctx context.Context, body []byte, signature string) (*model.NotificationResult, error) {
	log := d.logger.With(zap.String("provider", ProviderName))

	if !d.verifier.Verify(body, signature) {
		// Never log the payload of an unauthenticated request.
		log.Warn("notification signature rejected",
			zap.String("payload", "[redacted]"),
			zap.Int("payload_bytes", len(body)),
		)
		d.notificationReceived(ctx, NotificationBadSignature)
		return nil, ErrInvalidSignature
	}

	payload, err := parseNotification(body)
	if err != nil {
		log.Warn("malformed notification", zap.Error(err))
		d.notificationReceived(ctx, NotificationMalformed)
		return nil, err
	}
	outcome, _ := model.ParseOutcome(payload.Status)
	log = log.With(
		zap.String("session_id", payload.SessionID),
		zap.String("event_id", payload.EventID),
		zap.String("outcome", string(outcome)),
	)

	// Unknown sessions are answered with not found so the provider retries
	// after the session has been attached.
	if _, err := d.orders.FindSession(ctx, payload.SessionID); err != nil {
		err = sessionLookupError(err)
		if errors.Is(err, ErrSessionUnknown) {
			log.Warn("notification for unknown session")
			d.notificationReceived(ctx, NotificationUnknownSession)
		}
		return nil, err
	}

	record := &model.PaymentNotification{
		ID:         uuid.New(),
		Provider:   ProviderName,
		EventID:    payload.DedupKey(),
		SessionID:  payload.SessionID,
		Outcome:    outcome,
		ReceivedAt: time.Now().UTC(),
	}
	fresh, err := d.notifications.Record(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("record notification: %w", err)
	}
	if !fresh {
		log.Info("notification replay acknowledged")
		d.notificationReceived(ctx, NotificationReplayed)
		return &model.NotificationResult{
			SessionID: payload.SessionID,
			Replayed:  true,
		}, nil
	}

	res, err := d.Resolve(ctx, payload.SessionID, outcome, model.ChannelNotification)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record.Applied = res.Applied
	record.ResolvedAt = &now
	if err := d.notifications.MarkResolved(ctx, record); err != nil {
		log.Warn("failed to mark notification resolved", zap.Error(err))
	}

	d.notificationReceived(ctx, NotificationAccepted)
	return &model.NotificationResult{
		SessionID: payload.SessionID,
		Status:    res.Session.Status,
		Applied:   res.Applied,
	}, nil
}

func (d *paymentDomain) notificationReceived(ctx context.Context, result string) {
	d.publish(ctx, &NotificationReceivedEvent{
		BaseEvent: events.NewBaseEvent(EventNotificationReceived, ProviderName),
		Result:    result,
	})
}

func parseNotification(body []byte) (*model.NotificationPayload, error) {
	var payload model.NotificationPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if err := validate.Struct(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return &payload, nil
}
