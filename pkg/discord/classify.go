package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
)

func isGIF(a *discordgo.MessageAttachment) bool {
	return a.ContentType == "image/gif" || strings.HasSuffix(strings.ToLower(a.Filename), ".gif")
}

// Shape classifies a Discord message. GIF attachments count as animations,
// not media; non-PNG stickers are animated.
func Shape(m *discordgo.Message) moderation.ContentShape {
	var s moderation.ContentShape

	switch m.Type {
	case discordgo.MessageTypeGuildMemberJoin:
		return moderation.ShapeServiceJoin
	case discordgo.MessageTypeChannelPinnedMessage:
		return moderation.ShapeServicePin
	}

	if m.Content != "" {
		s |= moderation.ShapeText
	}
	for _, a := range m.Attachments {
		if isGIF(a) {
			s |= moderation.ShapeAnimation
		} else {
			s |= moderation.ShapeMedia
		}
	}
	for _, st := range m.StickerItems {
		s |= moderation.ShapeSticker
		if st.FormatType != discordgo.StickerFormatTypePNG {
			s |= moderation.ShapeAnimation
		}
	}
	return s
}

// DisplayName prefers the member nickname, then the global name
func DisplayName(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author == nil {
		return ""
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}

// Classify converts a Discord message into a moderation message
func Classify(m *discordgo.Message) moderation.Message {
	msg := moderation.Message{
		ChatID:     snowflake(m.ChannelID),
		MessageID:  snowflake(m.ID),
		SenderName: DisplayName(m),
		Shape:      Shape(m),
		URLs:       moderation.ExtractURLs(m.Content),
		Time:       m.Timestamp,
	}
	if m.Author != nil {
		msg.UserID = snowflake(m.Author.ID)
	}
	if msg.Shape.Has(moderation.ShapeServicePin) && m.MessageReference != nil {
		msg.PinnedMessageID = snowflake(m.MessageReference.MessageID)
	}
	return msg
}
