package playback

import "context"

// Controller carries ControllerEvents from UI surfaces to the service.
// Send never blocks; events are delivered in order to a single consumer.
type Controller struct {
	events *queue[ControllerEvent]
}

// NewController creates an empty controller channel.
func NewController() *Controller {
	return &Controller{events: newQueue[ControllerEvent]()}
}

// Send enqueues an intent.
func (c *Controller) Send(e ControllerEvent) {
	c.events.push(e)
}

// Next blocks until an intent is available or ctx is done.
func (c *Controller) Next(ctx context.Context) (ControllerEvent, bool) {
	return c.events.pop(ctx)
}

// Pending returns the number of intents not yet consumed.
func (c *Controller) Pending() int {
	return c.events.len()
}
