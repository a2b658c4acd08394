package events

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/PancyGuard/pkg/discord"
	guarderrors "github.com/PancyStudios/PancyGuard/pkg/errors"
	"github.com/PancyStudios/PancyGuard/pkg/logger"
)

const discordEventTimeout = 30 * time.Second

// DiscordRouter moderates guild text messages
type DiscordRouter struct {
	Moderator Moderator
}

// onDiscordReady is called when the bot successfully connects to Discord
func onDiscordReady(s *discordgo.Session, r *discordgo.Ready) {
	logger.Info(fmt.Sprintf("📊 Moderando %d servidores", len(r.Guilds)), "Ready")

	if err := s.UpdateGameStatus(0, "🛡️ Moderando | /help"); err != nil {
		logger.Error(fmt.Sprintf("Error estableciendo estado: %v", err), "Ready")
		return
	}
	logger.Debug("Estado del bot establecido correctamente", "Ready")
}

// moderate reports whether a Discord message goes through the pipeline
func moderate(s *discordgo.Session, m *discordgo.Message) bool {
	if m == nil || m.Author == nil || m.GuildID == "" {
		return false
	}
	if s != nil && s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return false
	}
	return true
}

func (r *DiscordRouter) handle(s *discordgo.Session, m *discordgo.Message) {
	if !moderate(s, m) {
		return
	}
	defer guarderrors.RecoverMiddleware()()

	ctx, cancel := context.WithTimeout(context.Background(), discordEventTimeout)
	defer cancel()
	msg := discord.Classify(m)
	if m.EditedTimestamp != nil {
		msg.Time = *m.EditedTimestamp
	}
	r.Moderator.Handle(ctx, msg)
}

// onMessageCreate is called when a new message is created
func (r *DiscordRouter) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	r.handle(s, m.Message)
}

// onMessageUpdate re-evaluates edited messages; updates without content are embeds resolving
func (r *DiscordRouter) onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.Message == nil || m.Content == "" {
		return
	}
	r.handle(s, m.Message)
}
