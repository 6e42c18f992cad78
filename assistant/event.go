// Package assistant wraps the upstream assistant service: the websocket
// used for send and asynchronous replies, the image upload action, and
// the describe/transcribe helper calls.
package assistant

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/linanwx/shopchat/transcript"
)

// DecodeEvent parses one socket frame into a transcript message.
//
// Wire shape:
//
//	{"type":"message"|"function_calls"|"start_function_call",
//	 "role":"assistant","messageId":"...","content":[...]}
//
// Content items are discriminated by field shape: an item carrying a
// "response" field is a function result; otherwise its "type" field names
// text, file, or audio. The decoder re-tags everything into the explicit
// content union so downstream code never probes optional fields.
func DecodeEvent(data []byte) (transcript.Message, error) {
	root := gjson.ParseBytes(data)

	kindField := root.Get("type")
	if !kindField.Exists() {
		return transcript.Message{}, fmt.Errorf("assistant event missing type")
	}

	var kind transcript.Kind
	switch kindField.String() {
	case "message":
		kind = transcript.KindMessage
	case "function_calls":
		kind = transcript.KindFunctionCalls
	case "start_function_call":
		kind = transcript.KindStartFunctionCall
	default:
		return transcript.Message{}, fmt.Errorf("unknown assistant event type %q", kindField.String())
	}

	role := transcript.RoleAssistant
	if root.Get("role").String() == "user" {
		role = transcript.RoleUser
	}

	msg := transcript.Message{
		ID:        root.Get("messageId").String(),
		Role:      role,
		Kind:      kind,
		CreatedAt: time.Now(),
	}

	for _, item := range root.Get("content").Array() {
		c, err := decodeContent(item)
		if err != nil {
			return transcript.Message{}, err
		}
		msg.Content = append(msg.Content, c)
	}

	return msg, nil
}

func decodeContent(item gjson.Result) (transcript.Content, error) {
	if resp := item.Get("response"); resp.Exists() {
		c := transcript.Content{
			Type: transcript.ContentFunctionResult,
			Name: item.Get("name").String(),
			Raw:  json.RawMessage(resp.Raw),
		}
		if resp.IsArray() {
			// Tool results that are not product lists stay opaque in Raw.
			if err := json.Unmarshal([]byte(resp.Raw), &c.Products); err != nil {
				c.Products = nil
			}
		}
		return c, nil
	}

	switch item.Get("type").String() {
	case "text":
		c := transcript.Content{
			Type:    transcript.ContentText,
			Value:   item.Get("value").String(),
			Options: []string{},
		}
		for _, opt := range item.Get("options").Array() {
			c.Options = append(c.Options, opt.String())
		}
		return c, nil
	case "file":
		return transcript.Content{
			Type:    transcript.ContentFile,
			URL:     item.Get("url").String(),
			Caption: item.Get("message").String(),
		}, nil
	case "audio":
		return transcript.Content{
			Type: transcript.ContentAudio,
			Text: item.Get("text").String(),
			URL:  item.Get("url").String(),
		}, nil
	default:
		return transcript.Content{}, fmt.Errorf("unknown content item type %q", item.Get("type").String())
	}
}
