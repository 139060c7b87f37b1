package messagebroker

import (
	"context"
	"encoding/json"

	"dogker/lintang/monitor-billing-service/biz/domain"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	monitorBillingExchange = "monitor-billing"

	routingKeyUserMetrics   = "billing.daily-metrics"
	routingKeyUserSuspended = "user.suspended"
)

// BillingPublisher pushes billing pipeline events onto the monitor-billing
// topic exchange. The dashboard service consumes daily-metrics messages; the
// containers service consumes suspension messages and tears the user's
// containers down.
type BillingPublisher struct {
	rmq *RabbitMQ
}

func NewBillingPublisher(rmq *RabbitMQ) *BillingPublisher {
	return &BillingPublisher{rmq}
}

func (p *BillingPublisher) PublishUserMetrics(ctx context.Context, msg domain.UserMetricsMessage) error {
	return p.publish(ctx, routingKeyUserMetrics, msg)
}

func (p *BillingPublisher) PublishUserSuspended(ctx context.Context, msg domain.UserSuspendedMessage) error {
	return p.publish(ctx, routingKeyUserSuspended, msg)
}

func (p *BillingPublisher) publish(ctx context.Context, routingKey string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		zap.L().Error("json.Marshal (publish) (BillingPublisher)", zap.Error(err), zap.String("routingKey", routingKey))
		return domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}

	err = p.rmq.Channel.Publish(
		monitorBillingExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         payload,
		},
	)
	if err != nil {
		zap.L().Error("p.rmq.Channel.Publish (publish) (BillingPublisher)", zap.Error(err), zap.String("routingKey", routingKey))
		return domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	return nil
}
