package mock

import (
	"github.com/tasklane/tasklane/pkg/api/types/events"
	"github.com/tasklane/tasklane/pkg/hub"
)

type Publisher struct {
	Calls struct {
		Publish []events.Event
	}
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

var _ hub.Publisher = &Publisher{}

// Publish records the event. Publishing is fire-and-forget, so there
// is no Impl to delegate to.
func (m *Publisher) Publish(ev events.Event) {
	m.Calls.Publish = append(m.Calls.Publish, ev)
}
