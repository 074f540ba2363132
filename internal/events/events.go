// Package events provides in-process notification of committed lifecycle changes
package events

import (
	"context"
	"sync"

	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/logger"
)

// EventType represents the type of lifecycle event
type EventType string

const (
	// EventApplicationCreated is emitted after an application and its creation entry are committed
	EventApplicationCreated EventType = "application_created"
	// EventApplicationMoved is emitted after a move is committed
	EventApplicationMoved EventType = "application_moved"
	// EventApplicationDeleted is emitted after an application and its ledger are removed
	EventApplicationDeleted EventType = "application_deleted"
	// EventChannelSize is the buffer size for the event channel
	EventChannelSize = 100
)

// Event represents a committed lifecycle change
type Event struct {
	Type          EventType          // The type of event
	OwnerID       string             // The owner of the application
	ApplicationID uint               // The application id
	Transition    *models.Transition // The ledger entry written, if any
}

// Handler is a function that handles an event
type Handler func(context.Context, Event) error

// Bus fans events out to subscribers on a background loop
type Bus struct {
	handlers   map[EventType][]Handler
	handlersMu sync.RWMutex
	eventChan  chan Event
}

// NewBus creates a bus with a buffered channel
func NewBus() *Bus {
	return &Bus{
		handlers:  make(map[EventType][]Handler),
		eventChan: make(chan Event, EventChannelSize),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.handlersMu.Lock()
	defer b.handlersMu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	logger.Debugf("Registered handler for event type: %s", eventType)
}

// Publish queues an event. It never blocks the writer: when the buffer is full
// the event is dropped and logged.
func (b *Bus) Publish(event Event) {
	select {
	case b.eventChan <- event:
		logger.Debugf("Published event: %s (application %d)", event.Type, event.ApplicationID)
	default:
		logger.Warnf("Event buffer full, dropping %s for application %d", event.Type, event.ApplicationID)
	}
}

// Start starts the event processing loop
func (b *Bus) Start(ctx context.Context) {
	go b.processEvents(ctx)
	logger.Info("Started event processing loop")
}

// processEvents handles events in the background
func (b *Bus) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping event processing loop")
			return
		case event := <-b.eventChan:
			b.handlersMu.RLock()
			eventHandlers := b.handlers[event.Type]
			b.handlersMu.RUnlock()

			// Process event with all registered handlers
			for _, handler := range eventHandlers {
				go func(h Handler, e Event) {
					if err := h(ctx, e); err != nil {
						logger.Errorf("Failed to handle event %s: %v", e.Type, err)
					}
				}(handler, event)
			}
		}
	}
}

// LogOutcomes is a handler that records moves landing on a final outcome
func LogOutcomes(_ context.Context, e Event) error {
	if e.Transition == nil || !e.Transition.ToState.IsOutcome() {
		return nil
	}
	logger.InfoWithFields("application reached outcome", map[string]interface{}{
		"owner_id":       e.OwnerID,
		"application_id": e.ApplicationID,
		"outcome":        e.Transition.ToState,
		"from_state":     e.Transition.SourceLabel(),
	})
	return nil
}
