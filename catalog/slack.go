package catalog

import (
	"context"
	"fmt"

	"github.com/toolbus-dev/toolbus"
)

// Channel is one entry in the mock Slack workspace.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var slackChannels = []Channel{
	{ID: "C123", Name: "general"},
	{ID: "C456", Name: "random"},
	{ID: "C789", Name: "announcements"},
}

// Slack returns mock Slack operations backed by canned workspace data.
func Slack(cfg Config) Service {
	return Service{
		Name: "slack",
		Tools: []toolbus.Tool{
			sendMessageTool(cfg),
			getChannelsTool(cfg),
		},
	}
}

type sendMessageInput struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

func sendMessageTool(cfg Config) toolbus.Tool {
	return toolbus.New("send_message", toolbus.Spec[sendMessageInput, map[string]any]{
		Description: "Send a message to a Slack channel",
		InputSchema: cfg.object(
			toolbus.String("channel").Required().Desc("Channel name or ID"),
			toolbus.String("text").Required().Desc("Message text"),
		),
		Execute: func(ctx context.Context, in sendMessageInput) (map[string]any, error) {
			if !channelExists(in.Channel) {
				return nil, fmt.Errorf("channel %q not found", in.Channel)
			}
			return map[string]any{
				"ok":      true,
				"channel": in.Channel,
				"ts":      fmt.Sprintf("%d.000100", timeNow().Unix()),
			}, nil
		},
	})
}

func channelExists(nameOrID string) bool {
	for _, c := range slackChannels {
		if c.ID == nameOrID || c.Name == nameOrID {
			return true
		}
	}
	return false
}

func getChannelsTool(cfg Config) toolbus.Tool {
	return toolbus.New("get_channels", toolbus.Spec[struct{}, map[string]any]{
		Description: "List Slack channels in the workspace",
		InputSchema: cfg.object(),
		Execute: func(ctx context.Context, _ struct{}) (map[string]any, error) {
			return map[string]any{"channels": slackChannels}, nil
		},
	})
}
