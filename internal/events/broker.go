// Package events provides an in-process publish/subscribe broker.
package events

import "sync"

// TopicStateChanged is published after every gallery state transition.
const TopicStateChanged = "gallery.state"

// Event represents a message passed through the broker.
type Event struct {
	Topic string
	Data  any
}

// Broker implements a simple in-memory pub/sub system. Slow subscribers miss
// events rather than block publishers, so payloads should be treated as
// change notifications.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
	closed      bool
}

// NewBroker creates a new event broker.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[string][]chan Event),
	}
}

// Subscribe creates a new subscription to a topic.
// It returns a read-only channel where events for that topic will be sent.
func (b *Broker) Subscribe(topic string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 1)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch
}

// Unsubscribe removes and closes a subscription returned by Subscribe.
func (b *Broker) Unsubscribe(topic string, sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[topic]
	for i, ch := range subs {
		if ch == sub {
			close(ch)
			b.subscribers[topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers of a topic.
func (b *Broker) Publish(topic string, data any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	event := Event{Topic: topic, Data: data}
	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- event:
		default:
			// Subscriber is not ready, drop the event to avoid blocking.
		}
	}
}

// Close closes every subscription. Later publishes are ignored.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
		delete(b.subscribers, topic)
	}
}
