package lineutil

// LINE API limits.
// References: https://developers.line.biz/en/reference/messaging-api/
const (
	MaxTextMessageLength = 5000 // Text message max content length (runes)
	MaxAltTextLength     = 400  // Template/Flex message alt text length
	MaxPostbackData      = 300  // Postback action data length (bytes)
	MaxMessagesPerReply  = 5    // Messages in one reply request

	// Template Message Limits
	MaxTemplateTitleLength = 40  // Buttons template title
	MaxTemplateTextNoImage = 160 // Buttons template text without image
	MaxTemplateActionCount = 4   // Max actions per buttons template
	MaxActionLabelLength   = 20  // Action label length

	// Quick Reply Limits
	MaxQuickReplyItemCount = 13 // Max items in a quick reply
)
