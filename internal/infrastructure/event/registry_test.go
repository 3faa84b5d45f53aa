package event

import (
	"context"
	"testing"

	"github.com/mercato/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

// recordingHandler collects every event it sees; with no event types it
// registers as a wildcard.
type recordingHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{eventTypes: eventTypes}
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.handled = append(h.handled, event)
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func TestHandlerRegistry_Register(t *testing.T) {
	t.Run("specific event types", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := newRecordingHandler("order.placed", "order.completed")

		registry.Register(handler, "order.placed", "order.completed")

		assert.Equal(t, []shared.EventHandler{handler}, registry.GetHandlers("order.placed"))
		assert.Equal(t, []shared.EventHandler{handler}, registry.GetHandlers("order.completed"))
		assert.Empty(t, registry.GetHandlers("order.cancelled"))
	})

	t.Run("wildcard handler sees everything", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := newRecordingHandler()

		registry.Register(handler)

		assert.Equal(t, []shared.EventHandler{handler}, registry.GetHandlers("order.placed"))
		assert.Equal(t, []shared.EventHandler{handler}, registry.GetHandlers("seller.approved"))
	})

	t.Run("wildcard and specific handlers combine", func(t *testing.T) {
		registry := NewHandlerRegistry()
		specific := newRecordingHandler("payment.captured")
		wildcard := newRecordingHandler()

		registry.Register(specific, "payment.captured")
		registry.Register(wildcard)

		assert.Len(t, registry.GetHandlers("payment.captured"), 2)
		assert.Equal(t, []shared.EventHandler{wildcard}, registry.GetHandlers("payout.dispatched"))
	})
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	t.Run("removes only the given handler", func(t *testing.T) {
		registry := NewHandlerRegistry()
		first := newRecordingHandler("order.placed")
		second := newRecordingHandler("order.placed")

		registry.Register(first, "order.placed")
		registry.Register(second, "order.placed")
		assert.Len(t, registry.GetHandlers("order.placed"), 2)

		registry.Unregister(first)

		assert.Equal(t, []shared.EventHandler{second}, registry.GetHandlers("order.placed"))
	})

	t.Run("removes wildcard handlers", func(t *testing.T) {
		registry := NewHandlerRegistry()
		wildcard := newRecordingHandler()

		registry.Register(wildcard)
		assert.Len(t, registry.GetHandlers("escrow.released"), 1)

		registry.Unregister(wildcard)
		assert.Empty(t, registry.GetHandlers("escrow.released"))
	})
}

func TestHandlerRegistry_GetAllHandlers(t *testing.T) {
	registry := NewHandlerRegistry()
	orders := newRecordingHandler("order.placed")
	sellers := newRecordingHandler("seller.approved")
	wildcard := newRecordingHandler()

	registry.Register(orders, "order.placed")
	registry.Register(sellers, "seller.approved")
	registry.Register(wildcard)

	assert.Len(t, registry.GetAllHandlers(), 3)

	t.Run("multi type registration is not duplicated", func(t *testing.T) {
		r := NewHandlerRegistry()
		handler := newRecordingHandler("order.placed", "order.completed")
		r.Register(handler, "order.placed", "order.completed")

		assert.Len(t, r.GetAllHandlers(), 1)
	})
}
