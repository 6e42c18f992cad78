package commerce

import (
	"context"
	"testing"
	"time"

	"github.com/linanwx/shopchat/bus"
)

func TestEmitterPublishesAddToCart(t *testing.T) {
	b := bus.NewBus(4)
	defer b.Close()

	received := make(chan *bus.Event, 1)
	b.Subscribe(bus.EventAddToCart, func(ctx context.Context, event *bus.Event) {
		received <- event
	})

	emitter := &Emitter{Bus: b, AssistantID: "asst_1", ThreadID: "thread_1"}
	emitter.AddToCart(sampleProduct(), 3)

	select {
	case event := <-received:
		var payload EventPayload
		if err := event.ParseData(&payload); err != nil {
			t.Fatalf("ParseData: %v", err)
		}
		if payload.AssistantID != "asst_1" || payload.ThreadID != "thread_1" {
			t.Fatalf("ids = %q, %q", payload.AssistantID, payload.ThreadID)
		}
		if payload.Currency != "BRL" || payload.Value != 79.9 {
			t.Fatalf("currency, value = %q, %v", payload.Currency, payload.Value)
		}
		if len(payload.Items) != 1 || payload.Items[0].Index != 3 {
			t.Fatalf("items = %+v", payload.Items)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestEmitterViewItemOmitsOfferValue(t *testing.T) {
	b := bus.NewBus(4)
	defer b.Close()

	received := make(chan *bus.Event, 1)
	b.Subscribe(bus.EventViewItem, func(ctx context.Context, event *bus.Event) {
		received <- event
	})

	emitter := &Emitter{Bus: b}
	emitter.ViewItem(sampleProduct(), 0)

	select {
	case event := <-received:
		var payload EventPayload
		if err := event.ParseData(&payload); err != nil {
			t.Fatalf("ParseData: %v", err)
		}
		if payload.Value != 0 || payload.Currency != "" {
			t.Fatalf("view_item carried offer value: %v %q", payload.Value, payload.Currency)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestEmitterWithoutBusIsNoOp(t *testing.T) {
	emitter := &Emitter{}
	emitter.ViewItem(sampleProduct(), 0)
	emitter.AddToCart(sampleProduct(), 0)
}
