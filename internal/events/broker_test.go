package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToTopicSubscribers(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(TopicStateChanged)
	other := b.Subscribe("other")

	b.Publish(TopicStateChanged, 42)

	select {
	case ev := <-sub:
		assert.Equal(t, TopicStateChanged, ev.Topic)
		assert.Equal(t, 42, ev.Data)
	default:
		t.Fatal("expected event")
	}

	select {
	case <-other:
		t.Fatal("unexpected event on other topic")
	default:
	}
}

func TestPublishDropsWhenSubscriberFull(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(TopicStateChanged)

	b.Publish(TopicStateChanged, 1)
	b.Publish(TopicStateChanged, 2)

	ev := <-sub
	assert.Equal(t, 1, ev.Data)
	select {
	case <-sub:
		t.Fatal("second event should have been dropped")
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(TopicStateChanged)

	b.Unsubscribe(TopicStateChanged, sub)
	_, ok := <-sub
	assert.False(t, ok)

	require.NotPanics(t, func() { b.Publish(TopicStateChanged, nil) })
}

func TestCloseClosesAllAndIgnoresLaterCalls(t *testing.T) {
	b := NewBroker()
	first := b.Subscribe(TopicStateChanged)
	second := b.Subscribe("other")

	b.Close()
	_, ok := <-first
	assert.False(t, ok)
	_, ok = <-second
	assert.False(t, ok)

	require.NotPanics(t, func() {
		b.Publish(TopicStateChanged, nil)
		b.Close()
	})

	late := b.Subscribe(TopicStateChanged)
	_, ok = <-late
	assert.False(t, ok)
}
