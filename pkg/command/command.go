// Package command provides the platform-neutral command registry. Chat
// adapters translate their own updates into a Context and dispatch through
// a Registry; handlers never see platform types.
package command

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// OptionType is the kind of value an option carries
type OptionType int

const (
	OptionString OptionType = iota
	OptionInteger
	OptionBool
	// OptionUser is resolved by the adapter into Context.Target
	OptionUser
)

// Option describes a command argument
type Option struct {
	Name        string
	Description string
	Type        OptionType
	Required    bool
	Choices     []string
}

// Command represents a chat command
type Command struct {
	Name        string
	Description string
	Category    string
	Options     []Option
	AdminOnly   bool
	Run         RunFunc
}

// RunFunc is the function type for command execution
type RunFunc func(ctx *Context) error

// NewCommand creates a new Command with required fields
func NewCommand(name, description, category string, run RunFunc) *Command {
	return &Command{
		Name:        name,
		Description: description,
		Category:    category,
		Run:         run,
	}
}

// WithOptions sets the command options
func (c *Command) WithOptions(opts ...Option) *Command {
	c.Options = opts
	return c
}

// AsAdmin restricts the command to chat admins and the bot owner
func (c *Command) AsAdmin() *Command {
	c.AdminOnly = true
	return c
}

// TakesUser reports whether the first option is a user
func (c *Command) TakesUser() bool {
	return len(c.Options) > 0 && c.Options[0].Type == OptionUser
}

// Usage renders "/name <required> [optional]"
func (c *Command) Usage() string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(c.Name)
	for _, opt := range c.Options {
		name := opt.Name
		if len(opt.Choices) > 0 {
			name = strings.Join(opt.Choices, "|")
		}
		if opt.Required {
			b.WriteString(" <" + name + ">")
		} else {
			b.WriteString(" [" + name + "]")
		}
	}
	return b.String()
}

// User identifies a chat user
type User struct {
	ID   int64
	Name string
}

// Replier sends the answer of a command back to the chat
type Replier interface {
	Reply(ctx context.Context, text string) (int64, error)
}

// Context provides context for command execution
type Context struct {
	Ctx        context.Context
	Platform   string
	ChatID     int64
	User       User
	Privileged bool
	// Target is the user a moderation command acts on, when the adapter
	// could resolve one.
	Target *User
	// Args holds the remaining arguments in option order; a resolved user
	// argument is not included.
	Args []string

	Command *Command

	replier     Replier
	deleteLater func(chatID, messageID int64, ttl time.Duration)
}

// NewContext builds a Context for an adapter
func NewContext(ctx context.Context, platform string, chatID int64, user User, replier Replier) *Context {
	return &Context{
		Ctx:      ctx,
		Platform: platform,
		ChatID:   chatID,
		User:     user,
		replier:  replier,
	}
}

// WithCleanup sets how temporary replies are removed
func (c *Context) WithCleanup(fn func(chatID, messageID int64, ttl time.Duration)) *Context {
	c.deleteLater = fn
	return c
}

// Reply sends a reply to the chat
func (c *Context) Reply(text string) error {
	_, err := c.replier.Reply(c.Ctx, text)
	return err
}

// ReplyTemporary sends a reply that is deleted after ttl
func (c *Context) ReplyTemporary(text string, ttl time.Duration) error {
	id, err := c.replier.Reply(c.Ctx, text)
	if err != nil {
		return err
	}
	if c.deleteLater != nil && id != 0 {
		c.deleteLater(c.ChatID, id, ttl)
	}
	return nil
}

// Arg returns the i-th argument or ""
func (c *Context) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Rest joins the arguments from i on
func (c *Context) Rest(i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return strings.Join(c.Args[i:], " ")
}

// IntArg parses the i-th argument
func (c *Context) IntArg(i int) (int, bool) {
	n, err := strconv.Atoi(c.Arg(i))
	return n, err == nil
}

// Parse splits "/name@bot arg1 arg2" into the command name and arguments.
// Commands addressed to another bot are ignored.
func Parse(text, botUsername string) (string, []string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", nil, false
	}
	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return "", nil, false
	}
	name := fields[0]
	if at := strings.IndexByte(name, '@'); at >= 0 {
		if !strings.EqualFold(name[at+1:], botUsername) {
			return "", nil, false
		}
		name = name[:at]
	}
	if name == "" {
		return "", nil, false
	}
	return strings.ToLower(name), fields[1:], true
}
