// Package room implements per-room replica actors and the broadcast bus
// they converge over. Every connected client owns one Replica; replicas
// of the same room exchange typed events on a shared topic and reconcile
// a newly joined replica from a point-to-point state snapshot.
package room

import (
	"sync"

	"github.com/google/uuid"
)

// subscriberBuffer bounds each subscriber's mailbox. A full mailbox
// drops the event: delivery is at most once, no retries.
const subscriberBuffer = 64

// Delivery is an event as seen by a subscriber, tagged with the
// publishing subscriber's id.
type Delivery struct {
	From  string
	Event Event
}

// Subscriber is one attachment to a topic. Its channel is read by
// exactly one actor.
type Subscriber struct {
	ID    string
	Topic string
	C     chan Delivery
}

// Bus is an in-process topic broadcast. Publish fans out to every
// subscriber of a topic; SendTo targets a single subscriber. Both are
// best-effort and never block the publisher.
type Bus struct {
	mu     sync.RWMutex
	topics map[string]map[string]*Subscriber
}

func NewBus() *Bus {
	return &Bus{topics: make(map[string]map[string]*Subscriber)}
}

func (b *Bus) Subscribe(topic string) *Subscriber {
	sub := &Subscriber{
		ID:    uuid.NewString(),
		Topic: topic,
		C:     make(chan Delivery, subscriberBuffer),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[string]*Subscriber)
		b.topics[topic] = subs
	}
	subs[sub.ID] = sub
	return sub
}

func (b *Bus) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.topics[sub.Topic]
	if !ok {
		return
	}
	delete(subs, sub.ID)
	if len(subs) == 0 {
		delete(b.topics, sub.Topic)
	}
}

// Publish delivers the event to every subscriber of the topic,
// including the publisher's own subscription.
func (b *Bus) Publish(topic, from string, ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.topics[topic] {
		deliver(sub, Delivery{From: from, Event: ev})
	}
}

// SendTo delivers the event to a single subscriber. Returns false when
// the subscriber's mailbox was full and the event was dropped.
func (b *Bus) SendTo(sub *Subscriber, from string, ev Event) bool {
	return deliver(sub, Delivery{From: from, Event: ev})
}

func deliver(sub *Subscriber, d Delivery) bool {
	select {
	case sub.C <- d:
		return true
	default:
		return false
	}
}

// Topics lists the rooms that currently have at least one subscriber.
func (b *Bus) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	topics := make([]string, 0, len(b.topics))
	for topic := range b.topics {
		topics = append(topics, topic)
	}
	return topics
}

// SubscriberCount reports how many replicas are attached to a topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}
