// Package commerce carries the storefront side-effects of the chat
// widget: add-to-cart calls and analytics events derived from the
// products the assistant surfaced.
package commerce

import (
	"fmt"
	"math"
	"strings"

	"github.com/linanwx/shopchat/bus"
	"github.com/linanwx/shopchat/logger"
	"github.com/linanwx/shopchat/transcript"
)

// maxCategoryLevels bounds how deep the ">"-separated category path is
// expanded into item_category fields.
const maxCategoryLevels = 5

// AnalyticsItem is one product line inside an analytics event.
type AnalyticsItem struct {
	ItemID      string  `json:"item_id"`
	ItemGroupID string  `json:"item_group_id,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price,omitempty"`
	Index       int     `json:"index"`
	Discount    float64 `json:"discount"`
	ItemName    string  `json:"item_name"`
	ItemVariant string  `json:"item_variant,omitempty"`
	ItemBrand   string  `json:"item_brand,omitempty"`
	ItemURL     string  `json:"item_url,omitempty"`

	ItemCategory  string `json:"item_category,omitempty"`
	ItemCategory2 string `json:"item_category2,omitempty"`
	ItemCategory3 string `json:"item_category3,omitempty"`
	ItemCategory4 string `json:"item_category4,omitempty"`
	ItemCategory5 string `json:"item_category5,omitempty"`
}

// ItemFromProduct maps a product into an analytics item. Discount is the
// list-vs-offer gap rounded to cents, zero when either price is missing.
func ItemFromProduct(p transcript.Product, index, quantity int) AnalyticsItem {
	if quantity <= 0 {
		quantity = 1
	}

	item := AnalyticsItem{
		ItemID:      p.ID,
		ItemGroupID: p.GroupID,
		Quantity:    quantity,
		Price:       p.Offer.Price,
		Index:       index,
		Discount:    discount(p.Offer.ListPrice, p.Offer.Price),
		ItemName:    p.Name,
		ItemVariant: p.Name,
		ItemBrand:   p.Brand,
		ItemURL:     p.URL,
	}
	applyCategories(&item, p.Category)
	return item
}

func discount(listPrice, price float64) float64 {
	if listPrice <= 0 || price <= 0 || listPrice <= price {
		return 0
	}
	return math.Round((listPrice-price)*100) / 100
}

// applyCategories splits the ">"-separated category path into the
// numbered item_category fields, up to five levels.
func applyCategories(item *AnalyticsItem, category string) {
	if strings.TrimSpace(category) == "" {
		return
	}
	levels := strings.Split(category, ">")
	targets := []*string{
		&item.ItemCategory,
		&item.ItemCategory2,
		&item.ItemCategory3,
		&item.ItemCategory4,
		&item.ItemCategory5,
	}
	for i, level := range levels {
		if i >= maxCategoryLevels {
			break
		}
		*targets[i] = strings.TrimSpace(level)
	}
}

// EventPayload is the body of a view_item or add_to_cart event.
type EventPayload struct {
	AssistantID string          `json:"assistantId,omitempty"`
	ThreadID    string          `json:"assistantThreadID,omitempty"`
	Currency    string          `json:"currency,omitempty"`
	Value       float64         `json:"value,omitempty"`
	Items       []AnalyticsItem `json:"items"`
}

// Emitter publishes analytics events on the widget bus. Fire-and-forget:
// failures are logged, never surfaced.
type Emitter struct {
	Bus         *bus.Bus
	AssistantID string
	ThreadID    string
}

// ViewItem reports that a product result came on screen.
func (e *Emitter) ViewItem(p transcript.Product, index int) {
	e.publish(bus.EventViewItem, EventPayload{
		AssistantID: e.AssistantID,
		ThreadID:    e.ThreadID,
		Items:       []AnalyticsItem{ItemFromProduct(p, index, 1)},
	})
}

// AddToCart reports a cart addition with the offer value attached.
func (e *Emitter) AddToCart(p transcript.Product, index int) {
	e.publish(bus.EventAddToCart, EventPayload{
		AssistantID: e.AssistantID,
		ThreadID:    e.ThreadID,
		Currency:    p.Offer.Currency,
		Value:       p.Offer.Price,
		Items:       []AnalyticsItem{ItemFromProduct(p, index, 1)},
	})
}

func (e *Emitter) publish(eventType bus.EventType, payload EventPayload) {
	if e.Bus == nil {
		return
	}
	event, err := bus.NewEvent(eventType, "widget", payload)
	if err != nil {
		logger.Error("analytics event dropped", "type", eventType, "err", err)
		return
	}
	e.Bus.Publish(event)
}

// Describe renders a compact log line for an event payload.
func (p EventPayload) Describe() string {
	if len(p.Items) == 0 {
		return "no items"
	}
	return fmt.Sprintf("%s (%s)", p.Items[0].ItemName, p.Items[0].ItemID)
}
