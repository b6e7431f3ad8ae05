package dispatch

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/campuskart/campuskart-backend/pkg/logger"
	"github.com/campuskart/campuskart-backend/pkg/metrics"
	redispkg "github.com/campuskart/campuskart-backend/pkg/redis"
)

// Subscription is one connected client's view of the event stream. Events
// arrive on C until Close is called or the hub shuts down.
type Subscription struct {
	C <-chan Envelope

	hub  *Hub
	zone string
	ch   chan Envelope
	once sync.Once
}

// Close detaches the subscription from the hub and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.ch)
	})
}

// Hub fans redis pub/sub messages out to in-process subscribers. Agents
// subscribe to a zone and receive that zone's delivery requests plus every
// order update; slow consumers have events dropped rather than blocking
// the fan-out loop.
type Hub struct {
	buffer  int
	logg    *logger.Logger
	metrics *metrics.DispatchMetrics

	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewHub(buffer int, logg *logger.Logger, m *metrics.DispatchMetrics) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		buffer:  buffer,
		logg:    logg,
		metrics: m,
		subs:    make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a client interested in the given location. The
// location is normalized with ZoneKey, so "Hostel A" and " hostel  a "
// land in the same zone.
func (h *Hub) Subscribe(location string) *Subscription {
	sub := &Subscription{
		zone: ZoneChannel(location),
		ch:   make(chan Envelope, h.buffer),
	}
	sub.C = sub.ch
	sub.hub = h
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

// Run consumes the redis pattern subscription covering every zone channel
// plus the shared updates channel, routing each message to matching
// subscribers. It blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context, client *redispkg.Client) error {
	pubsub := client.PSubscribe(ctx, zoneChannelPrefix+"*", updatesChannel)
	defer pubsub.Close()

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				h.closeAll()
				return nil
			}
			h.route(msg.Channel, []byte(msg.Payload))
		}
	}
}

// route delivers a raw payload from the named channel to the subscribers it
// concerns: zone channels reach that zone only, the updates channel reaches
// everyone.
func (h *Hub) route(channel string, payload []byte) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		if h.logg != nil {
			h.logg.Warn(context.Background(), "dispatch: dropping malformed payload on "+channel)
		}
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if channel != updatesChannel && channel != sub.zone {
			continue
		}
		select {
		case sub.ch <- env:
		default:
			h.metrics.IncDropped()
			if h.logg != nil {
				h.logg.Warn(context.Background(), "dispatch: subscriber queue full, dropping "+env.Event)
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = make(map[*Subscription]struct{})
	h.mu.Unlock()
	for _, sub := range subs {
		sub.once.Do(func() { close(sub.ch) })
	}
}
