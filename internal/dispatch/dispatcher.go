package dispatch

import (
	"context"
	"encoding/json"

	"github.com/campuskart/campuskart-backend/pkg/errors"
	"github.com/campuskart/campuskart-backend/pkg/metrics"
)

// Envelope is the wire shape carried on every pub/sub channel.
type Envelope struct {
	Event string          `json:"event"`
	Order json.RawMessage `json:"order"`
}

// Dispatcher pushes order events toward connected clients. Callers treat
// dispatch as best-effort: a failed publish is logged and counted, never
// surfaced to the request that triggered it.
type Dispatcher interface {
	// NewDeliveryRequest announces an accepted order on the vendor's zone
	// channel.
	NewDeliveryRequest(ctx context.Context, vendorLocation string, order any) error
	// OrderUpdated announces any status change on the shared updates channel.
	OrderUpdated(ctx context.Context, order any) error
}

// publisher is the slice of the redis client the dispatcher needs.
type publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// RedisDispatcher publishes envelopes over redis pub/sub.
type RedisDispatcher struct {
	pub     publisher
	metrics *metrics.DispatchMetrics
}

func NewRedisDispatcher(pub publisher, m *metrics.DispatchMetrics) (*RedisDispatcher, error) {
	if pub == nil {
		return nil, errors.New(errors.CodeInternal, "dispatch: publisher is required")
	}
	return &RedisDispatcher{pub: pub, metrics: m}, nil
}

func (d *RedisDispatcher) NewDeliveryRequest(ctx context.Context, vendorLocation string, order any) error {
	return d.publish(ctx, ZoneChannel(vendorLocation), EventNewDeliveryRequest, order)
}

func (d *RedisDispatcher) OrderUpdated(ctx context.Context, order any) error {
	return d.publish(ctx, updatesChannel, EventOrderUpdated, order)
}

func (d *RedisDispatcher) publish(ctx context.Context, channel, event string, order any) error {
	raw, err := json.Marshal(order)
	if err != nil {
		d.metrics.IncFailed(event)
		return errors.Wrap(errors.CodeInternal, err, "dispatch: marshal order payload")
	}
	payload, err := json.Marshal(Envelope{Event: event, Order: raw})
	if err != nil {
		d.metrics.IncFailed(event)
		return errors.Wrap(errors.CodeInternal, err, "dispatch: marshal envelope")
	}
	if err := d.pub.Publish(ctx, channel, payload); err != nil {
		d.metrics.IncFailed(event)
		return errors.Wrap(errors.CodeDependency, err, "dispatch: publish "+event)
	}
	d.metrics.IncPublished(event)
	return nil
}

// Noop satisfies Dispatcher without side effects. Used in tests and in
// environments running without redis.
type Noop struct{}

func (Noop) NewDeliveryRequest(context.Context, string, any) error { return nil }
func (Noop) OrderUpdated(context.Context, any) error               { return nil }
