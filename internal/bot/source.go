package bot

import "github.com/line/line-bot-sdk-go/v8/linebot/webhook"

// GetChatID extracts the chat ID from a LINE source.
// Returns user ID for personal chats, group ID for groups, room ID for rooms.
func GetChatID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.GroupId
	case webhook.RoomSource:
		return s.RoomId
	}
	return ""
}

// GetUserID extracts the sender's user ID regardless of chat type.
// Group and room sources omit it when the user has not consented.
func GetUserID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	}
	return ""
}

// SourceType returns "user", "group", "room" or "unknown".
func SourceType(source webhook.SourceInterface) string {
	switch source.(type) {
	case webhook.UserSource:
		return "user"
	case webhook.GroupSource:
		return "group"
	case webhook.RoomSource:
		return "room"
	}
	return "unknown"
}
