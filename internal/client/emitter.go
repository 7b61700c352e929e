package client

import (
	"log"

	"scholarboard/pkg/types"
)

// Emitter publishes domain events triggered by user actions. Fire and
// forget: an emit while the channel is not connected is dropped with exactly
// one user-visible warning, never an error to the caller. No retry, no queue.
type Emitter struct {
	manager  *Manager
	notifier Notifier
}

// NewEmitter creates an emitter over the manager's channel.
func NewEmitter(manager *Manager, notifier Notifier) *Emitter {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Emitter{manager: manager, notifier: notifier}
}

// Emit publishes one event. The payload is marshaled as-is; callers are
// responsible for well-formed payloads per the event type.
func (e *Emitter) Emit(eventType types.EventType, payload interface{}) {
	if e.manager.Status() != StatusConnected {
		log.Printf("Channel not connected, cannot emit event: %s", eventType)
		e.notifier.Warn("Real-time Action Failed", "Could not send update. Please check your connection.")
		return
	}

	event, err := types.NewEvent(eventType, payload)
	if err != nil {
		log.Printf("Failed to build event %s: %v", eventType, err)
		e.notifier.Warn("Real-time Action Failed", "Could not send update. Please check your connection.")
		return
	}

	if err := e.manager.writeEvent(event); err != nil {
		log.Printf("Failed to emit event %s: %v", eventType, err)
		e.notifier.Warn("Real-time Action Failed", "Could not send update. Please check your connection.")
		return
	}

	log.Printf("Emitted event: %s %s", eventType, string(event.Payload))
}
