package command

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/PancyStudios/PancyGuard/pkg/logger"
)

// ErrUnknownCommand is returned by Dispatch for unregistered names
var ErrUnknownCommand = errors.New("unknown command")

// Message shown to non-admins calling an admin command
const AdminOnlyMessage = "❌ Solo los administradores pueden usar este comando."

// Registry manages command registration and dispatch
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	order    []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds a command; a second command with the same name replaces the first
func (r *Registry) Register(cmd *Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[cmd.Name]; exists {
		logger.Warn("Comando duplicado, se reemplaza: "+cmd.Name, "CommandHandler")
	} else {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	logger.Debug("Comando registrado: "+cmd.Name, "CommandHandler")
}

// Get returns a command by name
func (r *Registry) Get(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// All returns the commands in registration order
func (r *Registry) All() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// Categories groups the commands by category, categories sorted by name
func (r *Registry) Categories() ([]string, map[string][]*Command) {
	groups := make(map[string][]*Command)
	for _, cmd := range r.All() {
		groups[cmd.Category] = append(groups[cmd.Category], cmd)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, groups
}

// Dispatch runs the named command. Admin-only commands called by a
// non-privileged user get AdminOnlyMessage and do not run.
func (r *Registry) Dispatch(ctx *Context, name string) error {
	cmd, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	ctx.Command = cmd

	if cmd.AdminOnly && !ctx.Privileged {
		return ctx.Reply(AdminOnlyMessage)
	}

	if err := cmd.Run(ctx); err != nil {
		logger.Error(fmt.Sprintf("Error ejecutando /%s en %d: %v", cmd.Name, ctx.ChatID, err), "CommandHandler")
		return err
	}
	return nil
}
