package bot

import (
	"net/url"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/garyellow/line-menu-bot-go/internal/lineutil"
	"github.com/garyellow/line-menu-bot-go/internal/translate"
)

// Postback discriminants emitted by the menus.
const (
	KeyAction = "action"
	KeyLang   = "lang"
	KeyText   = "text"

	ActionSearch   = "search"
	ActionGroup    = "group"
	ActionMy       = "my"
	ActionDate     = "date"
	ActionTime     = "time"
	ActionDatetime = "datetime"
)

// Fixed picker bounds for the search card.
const (
	pickerInitial = "2025-01-01T00:00"
	pickerMin     = "2024-01-01T00:00"
	pickerMax     = "2026-12-31T23:59"

	colorPickerButton = "#ff9933"
)

// Quick reply icons served from /static.
const (
	iconPostback   = "postback.png"
	iconMessage    = "message.png"
	iconDate       = "date.png"
	iconTime       = "time.png"
	iconDatetime   = "datetime.png"
	iconCamera     = "camera.png"
	iconCameraRoll = "camera_roll.png"
	iconLocation   = "location.png"
)

func actionData(action string) string {
	return DefaultGrammar.Encode(Field{KeyAction, action})
}

// MainMenu is the buttons template sent in reply to any text message.
func MainMenu() messaging_api.MessageInterface {
	return lineutil.NewButtonsTemplate("功能選單", "請選擇", "請點選以下功能：", []lineutil.Action{
		lineutil.NewPostbackAction("查詢", actionData(ActionSearch)),
		lineutil.NewPostbackAction("共用", actionData(ActionGroup)),
		lineutil.NewPostbackAction("我的", actionData(ActionMy)),
	})
}

// QuickReplyMenu is a text message carrying eight quick reply items:
// postback, message, date, time, datetime, camera, camera roll, location.
// Icons resolve against baseURL, which must be an https origin.
func QuickReplyMenu(baseURL string) messaging_api.MessageInterface {
	icon := func(name string) string {
		if baseURL == "" {
			return ""
		}
		return lineutil.StaticURL(baseURL, name)
	}

	return lineutil.NewTextMessageWithQuickReply("請選擇以下快速回覆：",
		lineutil.QuickReplyItem{ImageURL: icon(iconPostback), Action: lineutil.NewPostbackActionWithDisplayText("查詢", "查詢", actionData(ActionSearch))},
		lineutil.QuickReplyItem{ImageURL: icon(iconMessage), Action: lineutil.NewMessageAction("打招呼", "哈囉")},
		lineutil.QuickReplyItem{ImageURL: icon(iconDate), Action: lineutil.NewDatetimePickerAction("選擇日期", actionData(ActionDate), lineutil.PickerDate, lineutil.PickerBounds{})},
		lineutil.QuickReplyItem{ImageURL: icon(iconTime), Action: lineutil.NewDatetimePickerAction("選擇時間", actionData(ActionTime), lineutil.PickerTime, lineutil.PickerBounds{})},
		lineutil.QuickReplyItem{ImageURL: icon(iconDatetime), Action: lineutil.NewDatetimePickerAction("選擇日期時間", actionData(ActionDatetime), lineutil.PickerDatetime, lineutil.PickerBounds{})},
		lineutil.QuickReplyItem{ImageURL: icon(iconCamera), Action: lineutil.NewCameraAction("相機")},
		lineutil.QuickReplyItem{ImageURL: icon(iconCameraRoll), Action: lineutil.NewCameraRollAction("相簿")},
		lineutil.QuickReplyItem{ImageURL: icon(iconLocation), Action: lineutil.NewLocationAction("位置")},
	)
}

// DatetimePickerCard is the flex bubble sent for action=search.
func DatetimePickerCard() messaging_api.MessageInterface {
	picker := lineutil.NewDatetimePickerAction("選擇日期時間", actionData(ActionDatetime), lineutil.PickerDatetime, lineutil.PickerBounds{
		Initial: pickerInitial,
		Min:     pickerMin,
		Max:     pickerMax,
	})
	button := lineutil.NewFlexButton(picker).WithStyle("primary").WithColor(colorPickerButton)
	body := lineutil.NewFlexBox("vertical", button.FlexButton)
	bubble := lineutil.NewFlexBubble(nil, nil, body, nil)
	return lineutil.NewFlexMessage("選擇日期時間", bubble.FlexBubble)
}

// LanguageMenu offers one postback per supported language carrying the
// user's text. The text is shortened so the encoded data fits 300 bytes.
func LanguageMenu(text string) messaging_api.MessageInterface {
	actions := make([]lineutil.Action, 0, len(translate.SupportedLanguages))
	for _, code := range translate.SupportedLanguages {
		label := translate.Label(code)
		actions = append(actions, lineutil.NewPostbackActionWithDisplayText(label, label, languageData(code, text)))
	}
	return lineutil.NewButtonsTemplate("選擇翻譯語言", "翻譯", "請選擇要翻譯成的語言：", actions)
}

// languageData encodes lang and text, dropping trailing runes of text
// until the payload fits MaxPostbackData.
func languageData(code, text string) string {
	prefix := DefaultGrammar.Encode(Field{KeyLang, code}, Field{KeyText, ""})
	budget := lineutil.MaxPostbackData - len(prefix)

	used := 0
	cut := len(text)
	for i, r := range text {
		n := len(url.QueryEscape(string(r)))
		if used+n > budget {
			cut = i
			break
		}
		used += n
	}
	return DefaultGrammar.Encode(Field{KeyLang, code}, Field{KeyText, text[:cut]})
}
