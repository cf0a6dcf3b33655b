package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var errNoChannel = errors.New("revival channel is not configured")

// ChannelMembership checks whether a user is subscribed to the revival channel
type ChannelMembership struct {
	api     *tgbotapi.BotAPI
	channel string
}

// NewChannelMembership creates a checker for channel, given as @username or numeric id
func NewChannelMembership(api *tgbotapi.BotAPI, channel string) *ChannelMembership {
	return &ChannelMembership{api: api, channel: channel}
}

// IsMember implements service.MembershipChecker
func (c *ChannelMembership) IsMember(ctx context.Context, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	cfg, err := chatMemberConfig(c.channel, userID)
	if err != nil {
		return false, err
	}

	member, err := c.api.GetChatMember(cfg)
	if err != nil {
		return false, fmt.Errorf("failed to get chat member: %w", err)
	}
	return isActiveMember(member), nil
}

func chatMemberConfig(channel string, userID int64) (tgbotapi.GetChatMemberConfig, error) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return tgbotapi.GetChatMemberConfig{}, errNoChannel
	}

	chat := tgbotapi.ChatConfigWithUser{UserID: userID}
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		chat.ChatID = id
	} else {
		if !strings.HasPrefix(channel, "@") {
			channel = "@" + channel
		}
		chat.SuperGroupUsername = channel
	}
	return tgbotapi.GetChatMemberConfig{ChatConfigWithUser: chat}, nil
}

func isActiveMember(m tgbotapi.ChatMember) bool {
	switch m.Status {
	case "creator", "administrator", "member":
		return true
	case "restricted":
		return m.IsMember
	}
	return false
}
