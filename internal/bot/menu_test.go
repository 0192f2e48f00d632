package bot

import (
	"strings"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyellow/line-menu-bot-go/internal/lineutil"
	"github.com/garyellow/line-menu-bot-go/internal/translate"
)

func TestMainMenu(t *testing.T) {
	t.Parallel()

	msg, ok := MainMenu().(*messaging_api.TemplateMessage)
	require.True(t, ok)
	tmpl, ok := msg.Template.(*messaging_api.ButtonsTemplate)
	require.True(t, ok)

	assert.Equal(t, "請選擇", tmpl.Title)
	assert.Equal(t, "請點選以下功能：", tmpl.Text)

	var data []string
	for _, a := range tmpl.Actions {
		pb, ok := a.(*messaging_api.PostbackAction)
		require.True(t, ok)
		data = append(data, pb.Data)
	}
	assert.Equal(t, []string{"action=search", "action=group", "action=my"}, data)
}

func TestQuickReplyMenu_ItemOrder(t *testing.T) {
	t.Parallel()

	msg, ok := QuickReplyMenu("https://bot.example.com").(*messaging_api.TextMessage)
	require.True(t, ok)
	require.NotNil(t, msg.QuickReply)

	items := msg.QuickReply.Items
	require.Len(t, items, 8)

	_, isPostback := items[0].Action.(*messaging_api.PostbackAction)
	_, isMessage := items[1].Action.(*messaging_api.MessageAction)
	_, isCamera := items[5].Action.(*messaging_api.CameraAction)
	_, isCameraRoll := items[6].Action.(*messaging_api.CameraRollAction)
	_, isLocation := items[7].Action.(*messaging_api.LocationAction)
	assert.True(t, isPostback, "item 0 should be postback")
	assert.True(t, isMessage, "item 1 should be message")
	assert.True(t, isCamera, "item 5 should be camera")
	assert.True(t, isCameraRoll, "item 6 should be camera roll")
	assert.True(t, isLocation, "item 7 should be location")

	for i, mode := range []string{"date", "time", "datetime"} {
		picker, ok := items[2+i].Action.(*messaging_api.DatetimePickerAction)
		require.True(t, ok, "item %d should be a picker", 2+i)
		assert.Equal(t, messaging_api.DatetimePickerActionMODE(mode), picker.Mode)
	}

	for i, item := range items {
		assert.True(t, strings.HasPrefix(item.ImageUrl, "https://bot.example.com/static/"), "item %d icon %q", i, item.ImageUrl)
	}
}

func TestQuickReplyMenu_NoBaseURL(t *testing.T) {
	t.Parallel()

	msg := QuickReplyMenu("").(*messaging_api.TextMessage)
	for _, item := range msg.QuickReply.Items {
		assert.Empty(t, item.ImageUrl)
	}
}

func TestDatetimePickerCard(t *testing.T) {
	t.Parallel()

	msg, ok := DatetimePickerCard().(*messaging_api.FlexMessage)
	require.True(t, ok)
	bubble, ok := msg.Contents.(*messaging_api.FlexBubble)
	require.True(t, ok)
	require.NotNil(t, bubble.Body)
	require.Len(t, bubble.Body.Contents, 1)

	button, ok := bubble.Body.Contents[0].(*messaging_api.FlexButton)
	require.True(t, ok)
	assert.Equal(t, messaging_api.FlexButtonSTYLE("primary"), button.Style)
	assert.Equal(t, "#ff9933", button.Color)

	picker, ok := button.Action.(*messaging_api.DatetimePickerAction)
	require.True(t, ok)
	assert.Equal(t, "action=datetime", picker.Data)
	assert.Equal(t, messaging_api.DatetimePickerActionMODE("datetime"), picker.Mode)
	assert.Equal(t, "2025-01-01T00:00", picker.Initial)
	assert.Equal(t, "2024-01-01T00:00", picker.Min)
	assert.Equal(t, "2026-12-31T23:59", picker.Max)
}

func TestLanguageMenu(t *testing.T) {
	t.Parallel()

	msg := LanguageMenu("hello & bye").(*messaging_api.TemplateMessage)
	tmpl := msg.Template.(*messaging_api.ButtonsTemplate)
	require.Len(t, tmpl.Actions, len(translate.SupportedLanguages))

	for i, a := range tmpl.Actions {
		pb := a.(*messaging_api.PostbackAction)
		values, err := ParsePostback(pb.Data)
		require.NoError(t, err)
		assert.Equal(t, translate.SupportedLanguages[i], values.Get(KeyLang))
		assert.Equal(t, "hello & bye", values.Get(KeyText))
	}
}

func TestLanguageData_FitsLimit(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("翻譯", 200)
	data := languageData("zh-Hant", long)
	assert.LessOrEqual(t, len(data), lineutil.MaxPostbackData)

	values, err := ParsePostback(data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(long, values.Get(KeyText)))
	assert.NotEmpty(t, values.Get(KeyText))
}
