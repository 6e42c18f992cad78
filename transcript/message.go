// Package transcript holds the conversation model for the shop assistant
// widget: the ordered message list, the content sum type, and the derived
// presentation state the panels read from.
package transcript

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind classifies a transcript entry.
type Kind string

const (
	// KindMessage is a normal conversational turn.
	KindMessage Kind = "message"
	// KindFunctionCalls carries tool results from the assistant.
	KindFunctionCalls Kind = "function_calls"
	// KindStartFunctionCall is a transient marker emitted while a tool
	// runs; it only drives the typing indicator and renders nothing.
	KindStartFunctionCall Kind = "start_function_call"
)

// ContentType discriminates the Content union.
type ContentType string

const (
	ContentText           ContentType = "text"
	ContentFile           ContentType = "file"
	ContentAudio          ContentType = "audio"
	ContentFunctionResult ContentType = "function_result"
)

// Content is one item of a message body. Exactly the fields belonging to
// Type are set; the rest stay zero.
type Content struct {
	Type ContentType `json:"type"`

	// ContentText
	Value   string   `json:"value,omitempty"`
	Options []string `json:"options,omitempty"` // quick replies, assistant turns only

	// ContentFile
	URL     string `json:"url,omitempty"` // shared with ContentAudio
	Caption string `json:"caption,omitempty"`

	// ContentAudio
	Text string `json:"text,omitempty"` // transcription

	// ContentFunctionResult
	Name     string          `json:"name,omitempty"` // tool identifier
	Products []Product       `json:"products,omitempty"`
	Raw      json.RawMessage `json:"raw,omitempty"` // original response payload
}

// TextContent builds a text content item.
func TextContent(value string, options ...string) Content {
	return Content{Type: ContentText, Value: value, Options: options}
}

// FileContent builds a file content item (attached image plus caption).
func FileContent(url, caption string) Content {
	return Content{Type: ContentFile, URL: url, Caption: caption}
}

// AudioContent builds an audio content item (transcription plus clip URL).
func AudioContent(text, url string) Content {
	return Content{Type: ContentAudio, Text: text, URL: url}
}

// Message is one transcript entry.
type Message struct {
	ID        string    `json:"messageId,omitempty"` // set on assistant turns
	Role      Role      `json:"role"`
	Kind      Kind      `json:"type"`
	Content   []Content `json:"content"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// UserText builds a user message with a single text content item and no
// quick replies.
func UserText(value string) Message {
	return Message{
		Role:      RoleUser,
		Kind:      KindMessage,
		Content:   []Content{{Type: ContentText, Value: value, Options: []string{}}},
		CreatedAt: time.Now(),
	}
}

// UserFile builds a user message carrying an attached image and caption.
func UserFile(url, caption string) Message {
	return Message{
		Role:      RoleUser,
		Kind:      KindMessage,
		Content:   []Content{FileContent(url, caption)},
		CreatedAt: time.Now(),
	}
}

// UserAudio builds a user message carrying a transcribed voice clip.
func UserAudio(text, url string) Message {
	return Message{
		Role:      RoleUser,
		Kind:      KindMessage,
		Content:   []Content{AudioContent(text, url)},
		CreatedAt: time.Now(),
	}
}

// AssistantText builds an assistant message with optional quick replies.
func AssistantText(id, value string, options ...string) Message {
	return Message{
		ID:        id,
		Role:      RoleAssistant,
		Kind:      KindMessage,
		Content:   []Content{{Type: ContentText, Value: value, Options: options}},
		CreatedAt: time.Now(),
	}
}

// FirstTextValue returns the value of the first text content item, or ""
// when the message has none.
func (m Message) FirstTextValue() string {
	for _, c := range m.Content {
		if c.Type == ContentText {
			return c.Value
		}
	}
	return ""
}

// Product is a storefront item surfaced by the product-search tool. The
// widget only reads these fields; the catalog model stays upstream.
type Product struct {
	ID          string  `json:"productID"`
	Name        string  `json:"name"`
	Description string  `json:"description"` // HTML
	Images      []Image `json:"image"`
	Offer       Offer   `json:"offer"`
	Category    string  `json:"category"` // ">"-separated path
	Brand       string  `json:"brand"`
	GroupID     string  `json:"inProductGroupWithID"`
	URL         string  `json:"url"`
}

// Image is one product image reference.
type Image struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// Offer is the sellable side of a product.
type Offer struct {
	Price     float64 `json:"price"`
	ListPrice float64 `json:"listPrice,omitempty"`
	Currency  string  `json:"priceCurrency"`
	Seller    string  `json:"seller"`
}
