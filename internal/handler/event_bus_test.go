// internal/handler/event_bus_test.go
package handler

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestEventBusTypedSubscription(t *testing.T) {
	bus := NewEventBus(zap.NewNop())
	go bus.Start()

	frames := bus.Subscribe("WAVEFORM_FRAME")
	readings := bus.Subscribe("METER_READING")

	bus.Publish(Event{
		Type:      "WAVEFORM_FRAME",
		Source:    "SCOPE_LAB_01",
		Data:      map[string]interface{}{"sequence": 7},
		Timestamp: time.Now(),
	})

	select {
	case event := <-frames:
		if event.Source != "SCOPE_LAB_01" {
			t.Errorf("expected source SCOPE_LAB_01, got %s", event.Source)
		}
		if event.Data["sequence"] != 7 {
			t.Errorf("expected sequence 7, got %v", event.Data["sequence"])
		}
	case <-time.After(time.Second):
		t.Fatal("frame subscriber never received the event")
	}

	select {
	case event := <-readings:
		t.Errorf("reading subscriber received a frame event: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBusTopicAll(t *testing.T) {
	bus := NewEventBus(zap.NewNop())
	go bus.Start()

	all := bus.Subscribe(TopicAll)

	published := []string{"INSTRUMENT_CONNECTED", "CAPTURE_STARTED", "METER_READING"}
	for _, eventType := range published {
		bus.Publish(Event{Type: eventType, Source: "SCOPE_LAB_01", Timestamp: time.Now()})
	}

	for _, want := range published {
		select {
		case event := <-all:
			if event.Type != want {
				t.Errorf("expected event type %s, got %s", want, event.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("wildcard subscriber never received %s", want)
		}
	}
}

func TestEventBusPublishNeverBlocks(t *testing.T) {
	// No Start goroutine, so the buffer fills and overflow is dropped
	bus := NewEventBus(zap.NewNop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1100; i++ {
			bus.Publish(Event{Type: "WAVEFORM_FRAME", Timestamp: time.Now()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full bus")
	}
}

func TestClientSubscriptionFilter(t *testing.T) {
	client := &Client{ID: "test-client"}

	if !client.WantsEvent("WAVEFORM_FRAME") {
		t.Error("client with no subscriptions should receive everything")
	}

	client.Subscribe("METER_READING")
	if client.WantsEvent("WAVEFORM_FRAME") {
		t.Error("subscribed client should only receive its topics")
	}
	if !client.WantsEvent("METER_READING") {
		t.Error("subscribed client should receive its topic")
	}

	client.Subscribe("CAPTURE_STARTED")
	topics := client.Subscriptions()
	if len(topics) != 2 {
		t.Errorf("expected 2 topics, got %d", len(topics))
	}

	client.Unsubscribe("METER_READING")
	if client.WantsEvent("METER_READING") {
		t.Error("unsubscribed topic should no longer be delivered")
	}
	if !client.WantsEvent("CAPTURE_STARTED") {
		t.Error("remaining subscription should still be delivered")
	}

	// Dropping the last topic restores the receive-everything default
	client.Unsubscribe("CAPTURE_STARTED")
	if !client.WantsEvent("WAVEFORM_FRAME") {
		t.Error("client with no subscriptions should receive everything")
	}
}
