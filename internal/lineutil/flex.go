package lineutil

import (
	"unicode/utf8"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// FlexBubble wrapper
type FlexBubble struct {
	*messaging_api.FlexBubble
}

// NewFlexBubble creates a new Flex Bubble container.
// header, body and footer may be nil.
func NewFlexBubble(header *FlexBox, hero messaging_api.FlexComponentInterface, body *FlexBox, footer *FlexBox) *FlexBubble {
	bubble := &messaging_api.FlexBubble{}
	if header != nil {
		bubble.Header = header.FlexBox
	}
	if hero != nil {
		bubble.Hero = hero
	}
	if body != nil {
		bubble.Body = body.FlexBox
	}
	if footer != nil {
		bubble.Footer = footer.FlexBox
	}
	return &FlexBubble{bubble}
}

// FlexBox wrapper for messaging_api.FlexBox with fluent API.
type FlexBox struct {
	*messaging_api.FlexBox
}

// NewFlexBox creates a new FlexBox with the specified layout and contents.
func NewFlexBox(layout string, contents ...messaging_api.FlexComponentInterface) *FlexBox {
	return &FlexBox{&messaging_api.FlexBox{
		Layout:   messaging_api.FlexBoxLAYOUT(layout),
		Contents: contents,
	}}
}

// FlexButton wrapper for messaging_api.FlexButton with fluent API.
type FlexButton struct {
	*messaging_api.FlexButton
}

// NewFlexButton creates a new FlexButton with the specified action.
func NewFlexButton(action Action) *FlexButton {
	return &FlexButton{&messaging_api.FlexButton{Action: action}}
}

// WithStyle sets the button style (link/primary/secondary).
func (b *FlexButton) WithStyle(style string) *FlexButton {
	b.Style = messaging_api.FlexButtonSTYLE(style)
	return b
}

// WithColor sets the button color.
func (b *FlexButton) WithColor(color string) *FlexButton {
	b.Color = color
	return b
}

// TruncateRunes truncates text to maxRunes runes, ending with "..." when cut.
func TruncateRunes(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// TruncateBytes cuts s to at most maxBytes bytes without splitting a rune.
func TruncateBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
