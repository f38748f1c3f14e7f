// Package notify implements the keyed notification channel: at most one
// active notification per key, later shows replacing earlier ones.
package notify

import (
	"sync"

	"github.com/segmentio/ksuid"

	"modelreviews/internal/moderation"
)

type EventType string

const (
	EventShown    EventType = "shown"
	EventReplaced EventType = "replaced"
	EventHidden   EventType = "hidden"
)

type Event struct {
	Type         EventType
	Notification moderation.Notification
}

// Sink renders channel changes.
type Sink interface {
	Render(Event)
}

type SinkFunc func(Event)

func (f SinkFunc) Render(e Event) { f(e) }

type Channel struct {
	mu     sync.Mutex
	active map[string]moderation.Notification
	order  []string
	sink   Sink
}

func NewChannel(sink Sink) *Channel {
	if sink == nil {
		sink = SinkFunc(func(Event) {})
	}
	return &Channel{
		active: make(map[string]moderation.Notification),
		sink:   sink,
	}
}

// Show displays n under its key, replacing any notification already active
// under that key. An empty key gets a fresh one, which is returned.
func (c *Channel) Show(n moderation.Notification) string {
	if n.Key == "" {
		n.Key = ksuid.New().String()
	}

	c.mu.Lock()
	_, exists := c.active[n.Key]
	c.active[n.Key] = n
	if !exists {
		c.order = append(c.order, n.Key)
	}
	c.mu.Unlock()

	event := Event{Type: EventShown, Notification: n}
	if exists {
		event.Type = EventReplaced
	}
	c.sink.Render(event)
	return n.Key
}

// Hide dismisses the notification under key. Hiding an absent key is a no-op.
func (c *Channel) Hide(key string) {
	c.mu.Lock()
	n, ok := c.active[key]
	if ok {
		delete(c.active, key)
		for i, k := range c.order {
			if k == key {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
	c.mu.Unlock()

	if ok {
		c.sink.Render(Event{Type: EventHidden, Notification: n})
	}
}

func (c *Channel) Get(key string) (moderation.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.active[key]
	return n, ok
}

// Active returns the visible notifications, oldest first.
func (c *Channel) Active() []moderation.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]moderation.Notification, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.active[key])
	}
	return out
}
