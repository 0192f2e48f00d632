package webhook

import (
	"context"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// LineReplier sends replies through the LINE Messaging API.
type LineReplier struct {
	client *messaging_api.MessagingApiAPI
}

// NewLineReplier creates a replier for the given channel access token.
// httpClient may be nil to use the SDK default.
func NewLineReplier(channelToken string, httpClient *http.Client) (*LineReplier, error) {
	var opts []messaging_api.MessagingApiAPIOption
	if httpClient != nil {
		opts = append(opts, messaging_api.WithHTTPClient(httpClient))
	}
	client, err := messaging_api.NewMessagingApiAPI(channelToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("create messaging API client: %w", err)
	}
	return &LineReplier{client: client}, nil
}

// Reply sends one ReplyMessage call. The reply token is single-use, so a
// failed call is never retried.
func (r *LineReplier) Reply(ctx context.Context, replyToken string, messages []messaging_api.MessageInterface) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := r.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	return err
}
