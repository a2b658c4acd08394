// Package telegram provides the Telegram bot client and the adapters that
// connect it to the moderation core.
package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/PancyStudios/PancyGuard/pkg/config"
	guarderrors "github.com/PancyStudios/PancyGuard/pkg/errors"
	"github.com/PancyStudios/PancyGuard/pkg/logger"
)

const (
	// Telegram allows about 30 outgoing messages per second per bot
	sendRate  = 30
	sendBurst = 30

	updateTimeout = 30 * time.Second
)

// MessageHandler handles one message update
type MessageHandler func(ctx context.Context, msg *tgbotapi.Message)

// Client wraps tgbotapi.BotAPI with an update loop and an outbound limiter
type Client struct {
	API       *tgbotapi.BotAPI
	StartTime time.Time

	limiter  *rate.Limiter
	handlers []MessageHandler

	mu      sync.RWMutex
	isReady bool
	wg      sync.WaitGroup
	done    chan struct{}
}

var (
	client *Client
	once   sync.Once
)

// Init initializes the global Telegram client
func Init(token string) (*Client, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token)
	})
	return client, err
}

// Get returns the global Telegram client
func Get() *Client {
	return client
}

// NewClient authenticates the bot token and creates a Client
func NewClient(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Client{
		API:     api,
		limiter: rate.NewLimiter(sendRate, sendBurst),
		done:    make(chan struct{}),
	}, nil
}

// OnMessage registers a handler for messages and edited messages
func (c *Client) OnMessage(h MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// Start begins long polling. Each update is handled on its own goroutine.
func (c *Client) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "edited_message"}

	updates := c.API.GetUpdatesChan(u)

	c.mu.Lock()
	c.isReady = true
	c.StartTime = time.Now()
	c.mu.Unlock()

	logger.Success("Bot conectado como: @"+c.API.Self.UserName, "Client")

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-c.done:
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				c.dispatch(update)
			}
		}
	}()
	return nil
}

func (c *Client) dispatch(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		msg = update.EditedMessage
	}
	if msg == nil || msg.Chat == nil {
		return
	}

	c.mu.RLock()
	handlers := c.handlers
	c.mu.RUnlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer guarderrors.RecoverMiddleware()()

		ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
		defer cancel()
		for _, h := range handlers {
			h(ctx, msg)
		}
	}()
}

// Stop ends polling and waits for in-flight updates
func (c *Client) Stop() error {
	c.mu.Lock()
	if !c.isReady {
		c.mu.Unlock()
		return nil
	}
	c.isReady = false
	c.mu.Unlock()

	c.API.StopReceivingUpdates()
	close(c.done)
	c.wg.Wait()
	logger.System("Cliente de Telegram detenido.", "Client")
	return nil
}

// IsReady returns true when the update loop is running
func (c *Client) IsReady() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// Platform names the chat platform
func (c *Client) Platform() string {
	return config.PlatformTelegram
}

// Username is the bot's @name without the @
func (c *Client) Username() string {
	return c.API.Self.UserName
}

// ID is the bot's user id
func (c *Client) ID() int64 {
	return c.API.Self.ID
}

// Uptime returns the time since Start
func (c *Client) Uptime() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.StartTime.IsZero() {
		return 0
	}
	return time.Since(c.StartTime)
}

// send waits for the outbound limiter and sends a message
func (c *Client) send(ctx context.Context, msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return tgbotapi.Message{}, fmt.Errorf("limitador de envío: %w", err)
	}
	return c.API.Send(msg)
}

// request performs a method whose result is not a message
func (c *Client) request(ctx context.Context, req tgbotapi.Chattable) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("limitador de envío: %w", err)
	}
	_, err := c.API.Request(req)
	return err
}

// Latency times a getMe round trip to the Bot API
func (c *Client) Latency() time.Duration {
	start := time.Now()
	if _, err := c.API.GetMe(); err != nil {
		return 0
	}
	return time.Since(start)
}
