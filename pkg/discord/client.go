// Package discord provides the Discord bot client and the adapters that
// connect it to the moderation core. Slash commands are generated from the
// shared command registry.
package discord

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/PancyGuard/pkg/command"
	"github.com/PancyStudios/PancyGuard/pkg/config"
	guarderrors "github.com/PancyStudios/PancyGuard/pkg/errors"
	"github.com/PancyStudios/PancyGuard/pkg/logger"
)

// discordgo.Logger is a function, not an interface
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		logger.Debug(fmt.Sprintf(format, a...), "DiscordGo")
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *command.Registry
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	StartTime      time.Time
	OwnerID        int64
	// Cleanup removes temporary command replies after a delay
	Cleanup        func(chatID, messageID int64, ttl time.Duration)
	mu             sync.RWMutex
	isReady        bool
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token string, registry *command.Registry) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token, registry)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient
func NewClient(token string, registry *command.Registry) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent

	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	c := &ExtendedClient{
		Session:  session,
		Commands: registry,
		isReady:  false,
	}

	c.CommandHandler = NewCommandHandler(c)
	c.EventHandler = NewEventHandler(c)

	return c, nil
}

// Start opens the gateway connection
func (c *ExtendedClient) Start() error {
	c.CommandHandler.LoadCommands()

	c.EventHandler.OnReady(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Bot conectado como: "+r.User.Username, "Client")

		c.CommandHandler.RegisterCommands()
	})

	c.EventHandler.OnInteractionCreate(c.handleInteraction)

	c.StartTime = time.Now()

	return c.Session.Open()
}

// handleInteraction runs slash commands through the shared registry
func (c *ExtendedClient) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer guarderrors.RecoverMiddleware()()

	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	cmd, ok := c.Commands.Get(data.Name)
	if !ok {
		logger.Warn("Command not found: "+data.Name, "Client")
		return
	}

	ctx := c.commandContext(s, i, cmd, data.Options)
	if err := c.Commands.Dispatch(ctx, cmd.Name); err != nil {
		logger.Error("Error executing command "+cmd.Name+": "+err.Error(), "Client")
	}
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// Platform names the chat platform
func (c *ExtendedClient) Platform() string {
	return config.PlatformDiscord
}

// BotID is the bot user's id, or 0 before the session is ready
func (c *ExtendedClient) BotID() int64 {
	if c.Session == nil || c.Session.State == nil || c.Session.State.User == nil {
		return 0
	}
	return snowflake(c.Session.State.User.ID)
}

// Uptime returns how long the client has been running
func (c *ExtendedClient) Uptime() time.Duration {
	return time.Since(c.StartTime)
}

// Latency is the gateway heartbeat round trip
func (c *ExtendedClient) Latency() time.Duration {
	if c.Session == nil {
		return 0
	}
	return c.Session.HeartbeatLatency()
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// snowflake parses a Discord id; ids always fit in an int64
func snowflake(id string) int64 {
	n, _ := strconv.ParseInt(id, 10, 64)
	return n
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
