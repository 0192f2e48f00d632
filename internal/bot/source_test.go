package bot

import (
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

func TestSourceHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source webhook.SourceInterface
		chatID string
		userID string
		kind   string
	}{
		{"user", webhook.UserSource{UserId: "U1"}, "U1", "U1", "user"},
		{"group", webhook.GroupSource{GroupId: "G1", UserId: "U2"}, "G1", "U2", "group"},
		{"room", webhook.RoomSource{RoomId: "R1", UserId: "U3"}, "R1", "U3", "room"},
		{"nil", nil, "", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetChatID(tt.source); got != tt.chatID {
				t.Errorf("GetChatID() = %q, want %q", got, tt.chatID)
			}
			if got := GetUserID(tt.source); got != tt.userID {
				t.Errorf("GetUserID() = %q, want %q", got, tt.userID)
			}
			if got := SourceType(tt.source); got != tt.kind {
				t.Errorf("SourceType() = %q, want %q", got, tt.kind)
			}
		})
	}
}
