package assistant

import (
	"testing"

	"github.com/linanwx/shopchat/transcript"
)

func TestDecodeEventTextMessage(t *testing.T) {
	data := []byte(`{
		"type": "message",
		"role": "assistant",
		"messageId": "msg-1",
		"content": [
			{"type": "text", "value": "How about these?", "options": ["cheaper", "other colors"]}
		]
	}`)

	msg, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	if msg.ID != "msg-1" || msg.Role != transcript.RoleAssistant || msg.Kind != transcript.KindMessage {
		t.Fatalf("header = %q %q %q", msg.ID, msg.Role, msg.Kind)
	}
	if len(msg.Content) != 1 {
		t.Fatalf("content len = %d, want 1", len(msg.Content))
	}
	c := msg.Content[0]
	if c.Type != transcript.ContentText || c.Value != "How about these?" {
		t.Fatalf("content = %+v", c)
	}
	if len(c.Options) != 2 || c.Options[0] != "cheaper" {
		t.Fatalf("options = %v", c.Options)
	}
}

func TestDecodeEventFunctionResult(t *testing.T) {
	data := []byte(`{
		"type": "function_calls",
		"role": "assistant",
		"content": [
			{"name": "vtex/loaders/intelligentSearch/productList.ts",
			 "response": [{"productID": "p1", "name": "Red Shoe"}]}
		]
	}`)

	msg, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	if msg.Kind != transcript.KindFunctionCalls {
		t.Fatalf("Kind = %q", msg.Kind)
	}
	c := msg.Content[0]
	if c.Type != transcript.ContentFunctionResult {
		t.Fatalf("content type = %q", c.Type)
	}
	if len(c.Products) != 1 || c.Products[0].ID != "p1" || c.Products[0].Name != "Red Shoe" {
		t.Fatalf("products = %+v", c.Products)
	}
	if len(c.Raw) == 0 {
		t.Fatal("raw payload should be preserved")
	}
}

func TestDecodeEventStartFunctionCall(t *testing.T) {
	msg, err := DecodeEvent([]byte(`{"type": "start_function_call", "role": "assistant", "content": []}`))
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	if msg.Kind != transcript.KindStartFunctionCall || len(msg.Content) != 0 {
		t.Fatalf("msg = %+v", msg)
	}
}

func TestDecodeEventEmptyFunctionResponse(t *testing.T) {
	data := []byte(`{
		"type": "function_calls",
		"content": [{"name": "some/tool.ts", "response": []}]
	}`)

	msg, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	if len(msg.Content[0].Products) != 0 {
		t.Fatalf("products = %+v, want empty", msg.Content[0].Products)
	}
}

func TestDecodeEventMissingType(t *testing.T) {
	if _, err := DecodeEvent([]byte(`{"role": "assistant"}`)); err == nil {
		t.Fatal("DecodeEvent should reject a frame without a type")
	}
}

func TestDecodeEventUnknownContentItem(t *testing.T) {
	data := []byte(`{"type": "message", "content": [{"type": "sticker"}]}`)
	if _, err := DecodeEvent(data); err == nil {
		t.Fatal("DecodeEvent should reject unknown content kinds")
	}
}

func TestDecodeEventFileAndAudioItems(t *testing.T) {
	data := []byte(`{
		"type": "message",
		"role": "user",
		"content": [
			{"type": "file", "url": "blob:1", "message": "my sneaker"},
			{"type": "audio", "text": "find sandals", "url": "blob:2"}
		]
	}`)

	msg, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	if msg.Role != transcript.RoleUser {
		t.Fatalf("Role = %q, want user", msg.Role)
	}
	if msg.Content[0].Type != transcript.ContentFile || msg.Content[0].Caption != "my sneaker" {
		t.Fatalf("file content = %+v", msg.Content[0])
	}
	if msg.Content[1].Type != transcript.ContentAudio || msg.Content[1].Text != "find sandals" {
		t.Fatalf("audio content = %+v", msg.Content[1])
	}
}
