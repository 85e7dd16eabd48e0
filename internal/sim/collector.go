package sim

import "tickpool/internal/model"

// Collector buffers the events a pool emits between storage flushes.
type Collector struct {
	events []model.PoolEvent
}

func NewCollector() *Collector {
	return &Collector{}
}

// Record implements pool.Recorder.
func (c *Collector) Record(event model.PoolEvent) {
	c.events = append(c.events, event)
}

// Drain returns the buffered events and resets the buffer.
func (c *Collector) Drain() []model.PoolEvent {
	events := c.events
	c.events = nil
	return events
}

// Len reports how many events are buffered.
func (c *Collector) Len() int {
	return len(c.events)
}
