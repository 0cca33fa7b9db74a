package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/infra/events"
	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
	"github.com/furatpay/gateway/internal/utils/requestctx"
)

func (d *paymentDomain) Resolve(ctx context.Context, sessionID string, outcome model.Outcome, channel model.Channel) (*model.Resolution, error) {
	log := requestctx.Logger(ctx, d.logger).With(
		zap.String("session_id", sessionID),
		zap.String("channel", string(channel)),
		zap.String("outcome", string(outcome)),
	)
	target := outcome.SessionStatus()

	// Pending never mutates anything.
	if !target.IsTerminal() {
		session, err := d.orders.FindSession(ctx, sessionID)
		if err != nil {
			return nil, sessionLookupError(err)
		}
		return &model.Resolution{Session: session, Previous: session.Status}, nil
	}

	res, err := d.orders.ResolveSession(ctx, sessionID, target, channel, resolutionNote(target))
	if err != nil {
		log.Error("resolve session failed", zap.Error(err))
		return nil, sessionLookupError(err)
	}
	orderID := res.Session.OrderID
	log = log.With(zap.String("order_id", orderID))

	switch {
	case res.Applied && res.OrderMoved:
		if res.Current {
			log.Info("payment session resolved", zap.String("status", string(target)))
		} else {
			log.Warn("payment completed on superseded session, order marked paid")
		}
		d.publishResolved(ctx, res, channel, target, ResultApplied)
		if target == model.SessionStatusCompleted {
			d.publish(ctx, &PaymentCompletedEvent{
				BaseEvent: events.NewBaseEvent(EventPaymentCompleted, orderID),
				SessionID: sessionID,
				Channel:   channel,
			})
		} else {
			d.publish(ctx, &PaymentFailedEvent{
				BaseEvent: events.NewBaseEvent(EventPaymentFailed, orderID),
				SessionID: sessionID,
				Channel:   channel,
			})
		}

	case res.Applied:
		// The order is already paid or a newer attempt replaced this session.
		if target == model.SessionStatusCompleted {
			log.Error("payment completed on an order that is already paid, manual review required",
				zap.Error(ErrConflict),
			)
		} else {
			log.Info("payment session resolved without order change", zap.String("status", string(target)))
		}
		d.publishResolved(ctx, res, channel, target, ResultSuperseded)

	case res.Conflicting(target):
		log.Warn("conflicting outcome discarded",
			zap.String("kept", string(res.Previous)),
			zap.String("rejected", string(target)),
			zap.Error(ErrConflict),
		)
		d.publishResolved(ctx, res, channel, target, ResultConflict)
		d.publish(ctx, &ResolutionConflictEvent{
			BaseEvent: events.NewBaseEvent(EventResolutionConflict, orderID),
			SessionID: sessionID,
			Channel:   channel,
			Kept:      res.Previous,
			Rejected:  target,
		})

	default:
		log.Debug("duplicate outcome ignored")
		d.publishResolved(ctx, res, channel, target, ResultDuplicate)
	}

	return res, nil
}

func (d *paymentDomain) publishResolved(ctx context.Context, res *model.Resolution, channel model.Channel, target model.SessionStatus, result string) {
	d.publish(ctx, &SessionResolvedEvent{
		BaseEvent: events.NewBaseEvent(EventSessionResolved, res.Session.OrderID),
		SessionID: res.Session.SessionID,
		Channel:   channel,
		Status:    target,
		Result:    result,
	})
}

func (d *paymentDomain) QueryStatus(ctx context.Context, sessionID string) (model.SessionStatus, error) {
	session, err := d.orders.FindSession(ctx, sessionID)
	if err != nil {
		return "", sessionLookupError(err)
	}
	if session.Status.IsTerminal() {
		return session.Status, nil
	}

	outcome, err := d.provider.QueryStatus(ctx, sessionID)
	if err != nil {
		requestctx.Logger(ctx, d.logger).Warn("status query failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return "", providerError("query status", err)
	}

	if err := d.orders.TouchSession(ctx, sessionID, time.Now().UTC()); err != nil {
		d.logger.Warn("failed to record status check", zap.String("session_id", sessionID), zap.Error(err))
	}

	res, err := d.Resolve(ctx, sessionID, outcome, model.ChannelPoll)
	if err != nil {
		return "", err
	}
	return res.Session.Status, nil
}

func (d *paymentDomain) GetStatus(ctx context.Context, orderID, statusToken string) (*model.StatusView, error) {
	if err := d.tokens.Verify(statusToken, orderID); err != nil {
		return nil, ErrInvalidStatusToken
	}

	order, err := d.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	// A paid order is final whichever session paid it.
	status := model.SessionStatusCompleted
	if !order.Status.IsPaid() {
		session, err := d.orders.CurrentSession(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("current session: %w", err)
		}
		if session == nil {
			return nil, ErrNoSession
		}

		status, err = d.QueryStatus(ctx, session.SessionID)
		if err != nil {
			return nil, err
		}
	}

	d.publish(ctx, &StatusCheckedEvent{
		BaseEvent: events.NewBaseEvent(EventStatusChecked, orderID),
		Status:    status,
	})

	view := &model.StatusView{Status: status}
	switch status {
	case model.SessionStatusCompleted:
		view.RedirectURL = d.returnURL(order)
	case model.SessionStatusFailed:
		view.Message = MessagePaymentFailed
	}
	return view, nil
}

func (d *paymentDomain) PayPage(ctx context.Context, orderID, orderKey string) (*model.PayPage, error) {
	order, err := d.access.Authorize(ctx, orderID, orderKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		if errors.Is(err, ErrAuth) {
			return nil, ErrInvalidOrderKey
		}
		return nil, fmt.Errorf("authorize order: %w", err)
	}

	session, err := d.orders.CurrentSession(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("current session: %w", err)
	}
	if session == nil {
		return nil, ErrNoSession
	}

	token, expiresAt, err := d.tokens.Issue(order.ID)
	if err != nil {
		return nil, fmt.Errorf("issue status token: %w", err)
	}

	return &model.PayPage{
		OrderID:        order.ID,
		PaymentURL:     session.PaymentURL,
		Status:         session.Status,
		StatusToken:    token,
		TokenExpiresAt: expiresAt,
		PollIntervalMs: d.cfg.PollInterval.Milliseconds(),
		MaxAttempts:    d.cfg.MaxAttempts,
	}, nil
}

func (d *paymentDomain) returnURL(order *model.Order) string {
	if order.ReturnURL != "" {
		return order.ReturnURL
	}
	return expandOrderURL(d.cfg.ReturnURL, order.ID)
}

func resolutionNote(status model.SessionStatus) string {
	if status == model.SessionStatusCompleted {
		return NotePaymentComplete
	}
	return NotePaymentFailed
}

func sessionLookupError(err error) error {
	if errors.Is(err, outbound.ErrSessionNotFound) {
		return fmt.Errorf("%w: %w", ErrSessionUnknown, err)
	}
	return err
}
