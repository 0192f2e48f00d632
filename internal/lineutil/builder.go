// Package lineutil provides helpers for building LINE messages and actions.
// Builders clamp inputs to the Messaging API limits in limits.go so a
// reply is never rejected for an oversized field.
package lineutil

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Action is an alias for the LINE SDK action interface for convenience.
type Action = messaging_api.ActionInterface

// QuickReplyItem represents an item in a quick reply.
type QuickReplyItem struct {
	ImageURL string
	Action   Action
}

// Datetime picker modes.
const (
	PickerDate     = "date"
	PickerTime     = "time"
	PickerDatetime = "datetime"
)

// PickerBounds holds optional initial/min/max values for a datetime picker.
// Formats follow the mode: 2006-01-02, 15:04 or 2006-01-02T15:04.
type PickerBounds struct {
	Initial string
	Min     string
	Max     string
}

// NewTextMessage creates a text message, truncated to the LINE limit.
func NewTextMessage(text string) *messaging_api.TextMessage {
	return &messaging_api.TextMessage{
		Text: TruncateRunes(text, MaxTextMessageLength),
	}
}

// NewTextMessageWithQuickReply creates a text message with quick reply items attached.
func NewTextMessageWithQuickReply(text string, items ...QuickReplyItem) *messaging_api.TextMessage {
	msg := NewTextMessage(text)
	if len(items) > 0 {
		msg.QuickReply = NewQuickReply(items)
	}
	return msg
}

// NewButtonsTemplate creates a buttons template message.
// LINE API limits: max 4 actions, title max 40 runes, text max 160 runes.
func NewButtonsTemplate(altText, title, text string, actions []Action) *messaging_api.TemplateMessage {
	if len(actions) > MaxTemplateActionCount {
		actions = actions[:MaxTemplateActionCount]
	}

	template := &messaging_api.ButtonsTemplate{
		Text:    TruncateRunes(text, MaxTemplateTextNoImage),
		Actions: actions,
	}
	if title != "" {
		template.Title = TruncateRunes(title, MaxTemplateTitleLength)
	}

	return &messaging_api.TemplateMessage{
		AltText:  TruncateRunes(altText, MaxAltTextLength),
		Template: template,
	}
}

// NewQuickReply creates a quick reply component. Items beyond 13 are dropped.
func NewQuickReply(items []QuickReplyItem) *messaging_api.QuickReply {
	if len(items) > MaxQuickReplyItemCount {
		items = items[:MaxQuickReplyItemCount]
	}

	quickReplyItems := make([]messaging_api.QuickReplyItem, len(items))
	for i, item := range items {
		quickReplyItems[i] = messaging_api.QuickReplyItem{
			ImageUrl: item.ImageURL,
			Action:   item.Action,
		}
	}

	return &messaging_api.QuickReply{Items: quickReplyItems}
}

// NewFlexMessage creates a flex message with the given alt text and container.
func NewFlexMessage(altText string, contents messaging_api.FlexContainerInterface) *messaging_api.FlexMessage {
	return &messaging_api.FlexMessage{
		AltText:  TruncateRunes(altText, MaxAltTextLength),
		Contents: contents,
	}
}

// NewMessageAction creates an action that sends text as the user when tapped.
func NewMessageAction(label, text string) Action {
	return &messaging_api.MessageAction{
		Label: TruncateRunes(label, MaxActionLabelLength),
		Text:  text,
	}
}

// NewPostbackAction creates a postback action. Data longer than 300 bytes
// is cut at a rune boundary.
func NewPostbackAction(label, data string) Action {
	return &messaging_api.PostbackAction{
		Label: TruncateRunes(label, MaxActionLabelLength),
		Data:  TruncateBytes(data, MaxPostbackData),
	}
}

// NewPostbackActionWithDisplayText creates a postback action that also
// echoes displayText into the chat as the user.
func NewPostbackActionWithDisplayText(label, displayText, data string) Action {
	return &messaging_api.PostbackAction{
		Label:       TruncateRunes(label, MaxActionLabelLength),
		DisplayText: displayText,
		Data:        TruncateBytes(data, MaxPostbackData),
	}
}

// NewDatetimePickerAction creates a date, time or datetime picker.
// The selected value arrives in the postback params under the mode name.
func NewDatetimePickerAction(label, data, mode string, bounds PickerBounds) Action {
	return &messaging_api.DatetimePickerAction{
		Label:   TruncateRunes(label, MaxActionLabelLength),
		Data:    TruncateBytes(data, MaxPostbackData),
		Mode:    messaging_api.DatetimePickerActionMODE(mode),
		Initial: bounds.Initial,
		Min:     bounds.Min,
		Max:     bounds.Max,
	}
}

// NewCameraAction opens the camera. Only valid inside a quick reply.
func NewCameraAction(label string) Action {
	return &messaging_api.CameraAction{Label: TruncateRunes(label, MaxActionLabelLength)}
}

// NewCameraRollAction opens the photo library. Only valid inside a quick reply.
func NewCameraRollAction(label string) Action {
	return &messaging_api.CameraRollAction{Label: TruncateRunes(label, MaxActionLabelLength)}
}

// NewLocationAction opens the location picker. Only valid inside a quick reply.
func NewLocationAction(label string) Action {
	return &messaging_api.LocationAction{Label: TruncateRunes(label, MaxActionLabelLength)}
}
