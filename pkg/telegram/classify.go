package telegram

import (
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
)

// Shape classifies a message into content categories. An animation also
// carries a Document, but is not media; animated stickers count as both
// sticker and animation.
func Shape(m *tgbotapi.Message) moderation.ContentShape {
	var s moderation.ContentShape

	if len(m.NewChatMembers) > 0 {
		s |= moderation.ShapeServiceJoin
	}
	if m.PinnedMessage != nil {
		s |= moderation.ShapeServicePin
	}
	if m.Text != "" {
		s |= moderation.ShapeText
	}

	switch {
	case m.Animation != nil:
		s |= moderation.ShapeAnimation
	case len(m.Photo) > 0, m.Video != nil, m.Document != nil, m.Audio != nil, m.Voice != nil, m.VideoNote != nil:
		s |= moderation.ShapeMedia
	}

	if m.Sticker != nil {
		s |= moderation.ShapeSticker
		if m.Sticker.IsAnimated {
			s |= moderation.ShapeAnimation
		}
	}
	if m.Poll != nil {
		s |= moderation.ShapePoll
	}
	if m.ForwardFrom != nil || m.ForwardFromChat != nil || m.ForwardSenderName != "" || m.ForwardDate != 0 {
		s |= moderation.ShapeForward
	}
	return s
}

// URLs returns the links in the text or caption, plus hidden text_link targets
func URLs(m *tgbotapi.Message) []string {
	urls := moderation.ExtractURLs(m.Text)
	urls = append(urls, moderation.ExtractURLs(m.Caption)...)

	for _, entities := range [][]tgbotapi.MessageEntity{m.Entities, m.CaptionEntities} {
		for _, e := range entities {
			if e.Type == "text_link" && e.URL != "" {
				urls = append(urls, e.URL)
			}
		}
	}
	return urls
}

// DisplayName is the user's first and last name, or @username
func DisplayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" && u.UserName != "" {
		name = "@" + u.UserName
	}
	return name
}

// Classify converts a Bot API message into a moderation message
func Classify(m *tgbotapi.Message) moderation.Message {
	msg := moderation.Message{
		ChatID:    m.Chat.ID,
		MessageID: int64(m.MessageID),
		Shape:     Shape(m),
		URLs:      URLs(m),
		Time:      time.Unix(int64(m.Date), 0),
	}
	if m.From != nil {
		msg.UserID = m.From.ID
		msg.SenderName = DisplayName(m.From)
	}
	if m.PinnedMessage != nil {
		msg.PinnedMessageID = int64(m.PinnedMessage.MessageID)
	}
	switch {
	case m.EditDate != 0:
		msg.Time = time.Unix(int64(m.EditDate), 0)
	case m.Date == 0:
		msg.Time = time.Now()
	}
	return msg
}
