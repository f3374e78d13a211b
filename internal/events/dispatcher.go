package events

import (
	"context"
	"time"

	"github.com/gocomet/carpool/pkg/logger"
)

// Dispatcher fans every event out to its sinks. A failing sink is logged
// and skipped; it never fails the operation that produced the event.
type Dispatcher struct {
	sinks   []Sink
	logger  *logger.Logger
	timeout time.Duration
}

// NewDispatcher creates a dispatcher with a per-sink delivery timeout
func NewDispatcher(log *logger.Logger, timeout time.Duration, sinks ...Sink) *Dispatcher {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Dispatcher{
		sinks:   sinks,
		logger:  log.Named("events"),
		timeout: timeout,
	}
}

// Add registers another sink
func (d *Dispatcher) Add(sink Sink) {
	d.sinks = append(d.sinks, sink)
}

// Sinks returns the names of the configured sinks
func (d *Dispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Publish delivers event to every sink in order
func (d *Dispatcher) Publish(ctx context.Context, event Event) {
	for _, sink := range d.sinks {
		sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		err := sink.Deliver(sinkCtx, event)
		cancel()
		if err != nil {
			d.logger.Warn("Failed to deliver event",
				logger.String("sink", sink.Name()),
				logger.String("event_type", string(event.Type)),
				logger.String("event_id", event.ID.String()),
				logger.Err(err),
			)
			continue
		}
		d.logger.Debug("Event delivered",
			logger.String("sink", sink.Name()),
			logger.String("event_type", string(event.Type)),
		)
	}
}
